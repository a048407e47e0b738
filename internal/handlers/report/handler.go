package report

import (
	"net/http"

	"cowork/infras/otel"
	bookingService "cowork/internal/domains/booking/service"
	"cowork/internal/domains/report/service"
	"cowork/internal/handlers/web"
	"cowork/shared/constant"
	"cowork/shared/principal"
	"cowork/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service  service.Report
	bookings bookingService.Booking
	otel     otel.Otel
}

func New(service service.Report, bookings bookingService.Booking, otel otel.Otel) Handler {
	return Handler{service: service, bookings: bookings, otel: otel}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", handler.GetStats)
		r.Get("/customers", handler.GetCustomers)
		r.Get("/customers/{id}", handler.GetCustomer)
		r.Delete("/customers/{id}", handler.DeleteCustomer)
	})
}

// GetStats returns the admin dashboard numbers.
// @Summary Dashboard statistics
// @Description Total bookings, confirmed bookings active today, room activity and the five latest bookings.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Data[dto.StatsResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/dashboard/stats [get]
// @Security BearerAuth
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "GetStats")
	defer scope.End()

	res, err := handler.service.Stats(ctx, principal.FromContext(ctx))
	if err != nil {
		web.Fail(w, scope, err, "dashboard stats failed")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetCustomers returns everyone who ever booked.
// @Summary Customers report
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Data[dto.CustomersResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/dashboard/customers [get]
// @Security BearerAuth
func (handler *Handler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "GetCustomers")
	defer scope.End()

	res, err := handler.service.Customers(ctx, principal.FromContext(ctx))
	if err != nil {
		web.Fail(w, scope, err, "customers report failed")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetCustomer returns the contact details of one registered customer.
// @Summary Customer profile
// @Tags Dashboard
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.CustomerProfileResponse]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/dashboard/customers/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "GetCustomer")
	defer scope.End()

	res, err := handler.service.Customer(ctx, principal.FromContext(ctx), chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		web.Fail(w, scope, err, "customer not read")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteCustomer purges a customer's bookings that are not confirmed, payments included.
// Confirmed bookings are kept and reported.
// @Summary Delete customer bookings
// @Tags Dashboard
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.CustomerBookingsDeleted]
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/dashboard/customers/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "DeleteCustomer")
	defer scope.End()

	requester := principal.FromContext(ctx)

	customer, err := handler.service.Customer(ctx, requester, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		web.Fail(w, scope, err, "customer not read")

		return
	}

	res, err := handler.bookings.DeleteByUser(ctx, requester, customer.ID)
	if err != nil {
		web.Fail(w, scope, err, "customer bookings not deleted")

		return
	}

	scope.AddEvent("customer bookings deleted by " + requester.Username())
	response.WithJSON(w, http.StatusOK, res)
}
