package booking

import (
	"net/http"

	"cowork/infras/otel"
	"cowork/internal/domains/booking/model/dto"
	"cowork/internal/domains/booking/service"
	"cowork/internal/handlers/web"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/principal"
	"cowork/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const (
	messageIDRequired     = "Booking ID is required"
	messageInvalidID      = "Invalid booking ID"
	messageUserIDRequired = "User ID is required"
	messageInvalidAction  = "Invalid action"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{service: service, otel: otel}
}

// Router mounts a single /bookings resource. Reads pick their shape from the action query
// parameter, writes address a booking through the id query parameter.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(r chi.Router) {
		r.Get("/", handler.GetBookings)
		r.Post("/", handler.CreateBooking)
		r.Put("/", handler.UpdateBookingStatus)
		r.Delete("/", handler.DeleteBooking)
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Create a booking and its pending payment. Fails with 409 when a confirmed booking overlaps the dates.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.CreateBookingResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "CreateBooking")
	defer scope.End()

	req, ok := web.Bind[dto.CreateBookingRequest](w, r, scope)
	if !ok {
		return
	}

	requester := principal.FromContext(ctx)

	res, err := handler.service.Create(ctx, requester, req)
	if err != nil {
		web.Fail(w, scope, err, "booking not created")

		return
	}

	scope.AddEvent("booking created by " + requester.Username())
	response.WithJSON(w, http.StatusCreated, res)
}

// GetBookings serves the three booking reads.
// @Summary Get bookings
// @Description action=get_booking&id=<n> returns one booking, action=user_bookings&user_id=<id> lists a user's bookings,
// @Description no action lists every booking newest first (administrators only).
// @Tags Booking
// @Produce json
// @Param action query string false "get_booking or user_bookings"
// @Param id query integer false "Booking ID"
// @Param user_id query string false "User ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "GetBookings")
	defer scope.End()

	res, err := handler.read(r.WithContext(ctx))
	if err != nil {
		web.Fail(w, scope, err, "bookings not read")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// read dispatches on the action parameter.
func (handler *Handler) read(r *http.Request) (any, error) {
	ctx := r.Context()
	requester := principal.FromContext(ctx)
	query := r.URL.Query()

	params := gDto.QueryParams{}
	params.FromRequest(r, true)

	switch query.Get(constant.RequestParamAction) {
	case constant.ActionGetBooking:
		id, err := bookingID(r)
		if err != nil {
			return nil, err
		}

		return handler.service.Get(ctx, requester, id) //nolint:wrapcheck
	case constant.ActionUserBookings:
		userID := query.Get(constant.RequestParamUserID)
		if userID == constant.Empty {
			return nil, failure.BadRequestFromString(messageUserIDRequired) //nolint:wrapcheck
		}

		return handler.service.GetByUser(ctx, requester, userID, params) //nolint:wrapcheck
	case constant.Empty:
		return handler.service.GetAll(ctx, requester, params) //nolint:wrapcheck
	default:
		return nil, failure.BadRequestFromString(messageInvalidAction) //nolint:wrapcheck
	}
}

// UpdateBookingStatus moves a booking to a new status.
// @Summary Update booking status
// @Description Owners may cancel their confirmed bookings, administrators may set any status.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id query integer true "Booking ID"
// @Param request body dto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [put]
// @Security BearerAuth
func (handler *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "UpdateBookingStatus")
	defer scope.End()

	id, err := bookingID(r)
	if err != nil {
		web.Fail(w, scope, err, "booking id rejected")

		return
	}

	req, ok := web.Bind[dto.UpdateStatusRequest](w, r, scope)
	if !ok {
		return
	}

	requester := principal.FromContext(ctx)

	if err = handler.service.UpdateStatus(ctx, requester, id, req); err != nil {
		web.Fail(w, scope, err, "booking status not changed")

		return
	}

	scope.AddEvent("booking status changed by " + requester.Username())
	response.WithMessage(w, http.StatusOK, service.MessageUpdated)
}

// DeleteBooking removes a booking that is not confirmed, together with its payment.
// @Summary Delete a booking
// @Tags Booking
// @Produce json
// @Param id query integer true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "DeleteBooking")
	defer scope.End()

	id, err := bookingID(r)
	if err != nil {
		web.Fail(w, scope, err, "booking id rejected")

		return
	}

	requester := principal.FromContext(ctx)

	if err = handler.service.Delete(ctx, requester, id); err != nil {
		web.Fail(w, scope, err, "booking not deleted")

		return
	}

	scope.AddEvent("booking deleted by " + requester.Username())
	response.WithMessage(w, http.StatusOK, service.MessageDeleted)
}

func bookingID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get(constant.RequestParamID)
	if raw == constant.Empty {
		return 0, failure.BadRequestFromString(messageIDRequired) // nolint:wrapcheck
	}

	return web.ID(raw, messageInvalidID) //nolint:wrapcheck
}
