// Package web holds the steps every HTTP handler repeats: opening its span,
// binding a JSON body and answering with a failure.
package web

import (
	"context"
	"net/http"

	"cowork/infras/otel"
	"cowork/shared"
	"cowork/shared/constant"
	"cowork/shared/failure"
	"cowork/shared/validator"
	"cowork/transport/http/response"

	"github.com/rs/zerolog/log"
)

// Span starts the handler span for op on the request context.
func Span(otl otel.Otel, r *http.Request, op string) (context.Context, otel.Scope) {
	return otl.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+op)
}

// Bind decodes and validates the JSON body. When it returns false the 400 has
// already been written.
func Bind[T any](w http.ResponseWriter, r *http.Request, scope otel.Scope) (T, bool) {
	var req T

	if err := validator.Validate(r.Body, &req); err != nil {
		Fail(w, scope, err, "request body rejected")

		return req, false
	}

	return req, true
}

// Fail records err on the span and writes it. Only server side failures are logged
// as errors, client mistakes go to debug.
func Fail(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)

	if failure.IsClient(err) {
		log.Debug().Err(err).Msg(msg)
	} else {
		log.Error().Err(err).Msg(msg)
	}

	response.WithError(w, err)
}

// ID parses a positive integer identifier, answering 400 with invalid otherwise.
func ID(raw, invalid string) (int64, error) {
	id, err := shared.ConvertStringToInt64(raw)
	if err != nil || id <= 0 {
		return 0, failure.BadRequestFromString(invalid) // nolint:wrapcheck
	}

	return id, nil
}
