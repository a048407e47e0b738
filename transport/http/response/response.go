package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"cowork/shared/constant"
	"cowork/shared/failure"
	"cowork/shared/logger"
)

// envelope is the single body shape of every API response. Success bodies carry
// data or message, failures carry error only.
type envelope struct {
	Success bool    `json:"success,omitempty"`
	Data    any     `json:"data,omitempty"`
	Message *string `json:"message,omitempty"`
	Error   *string `json:"error,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, envelope{Success: true, Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, envelope{Success: true, Data: payload})
}

// WithError answers with the status and message of the Failure inside err.
// Anything else is logged and reported as a bare 500.
func WithError(writer http.ResponseWriter, err error) {
	var fail *failure.Failure
	if !errors.As(err, &fail) {
		logger.ErrorWithStack(err)
		WithErrorMessage(writer, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))

		return
	}

	WithErrorMessage(writer, fail.Code, fail.Message)
}

func WithErrorMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, envelope{Error: &message})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithErrorMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithErrorMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithErrorMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, body envelope) {
	payload, err := json.Marshal(body)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(payload); err != nil {
		logger.ErrorWithStack(err)
	}
}
