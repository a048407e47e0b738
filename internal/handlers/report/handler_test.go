package report_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"cowork/infras/otel/mocks"
	bookingDto "cowork/internal/domains/booking/model/dto"
	bookingMocks "cowork/internal/domains/booking/service/mocks"
	"cowork/internal/domains/report/model/dto"
	"cowork/internal/domains/report/service"
	serviceMocks "cowork/internal/domains/report/service/mocks"
	"cowork/internal/handlers/report"
	"cowork/shared/constant"
	"cowork/shared/failure"
	"cowork/shared/principal"
)

func TestHandler_Dashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := serviceMocks.NewMockReport(ctrl)
	handler := report.New(svc, bookingMocks.NewMockBooking(ctrl), mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	admin := principal.Principal{UserID: "a-1", Role: constant.RoleAdmin}

	svc.EXPECT().Stats(gomock.Any(), admin).Return(dto.StatsResponse{TotalBookings: 4}, nil)
	svc.EXPECT().Customers(gomock.Any(), principal.Principal{}).Return(dto.CustomersResponse{}, failure.Unauthorized("User not logged in"))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	ctx := context.WithValue(req.Context(), constant.ContextKeyUserID, admin.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, admin.Role)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_bookings":4`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/customers", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func asAdmin(req *http.Request, admin principal.Principal) *http.Request {
	ctx := context.WithValue(req.Context(), constant.ContextKeyUserID, admin.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, admin.Role)

	return req.WithContext(ctx)
}

func TestHandler_Customer(t *testing.T) {
	const id = "6f1c2a4e-8b1d-4c53-9a57-1f0e2d3c4b5a"

	admin := principal.Principal{UserID: "a-1", Role: constant.RoleAdmin}

	newRouter := func(t *testing.T) (*chi.Mux, *serviceMocks.MockReport, *bookingMocks.MockBooking) {
		t.Helper()

		ctrl := gomock.NewController(t)
		svc := serviceMocks.NewMockReport(ctrl)
		bookings := bookingMocks.NewMockBooking(ctrl)
		handler := report.New(svc, bookings, mocks.NewOtel())

		router := chi.NewRouter()
		handler.Router(router)

		return router, svc, bookings
	}

	t.Run("profile", func(t *testing.T) {
		router, svc, _ := newRouter(t)
		svc.EXPECT().Customer(gomock.Any(), admin, id).Return(dto.CustomerProfileResponse{ID: id, Name: "Siti"}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, asAdmin(httptest.NewRequest(http.MethodGet, "/dashboard/customers/"+id, nil), admin))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Siti"`)
	})

	t.Run("delete purges bookings of a known customer", func(t *testing.T) {
		router, svc, bookings := newRouter(t)
		svc.EXPECT().Customer(gomock.Any(), admin, id).Return(dto.CustomerProfileResponse{ID: id}, nil)
		bookings.EXPECT().
			DeleteByUser(gomock.Any(), admin, id).
			Return(bookingDto.DeleteUserBookingsResponse{Message: "Successfully deleted 2 booking records for the customer", Deleted: 2, Kept: 1}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, asAdmin(httptest.NewRequest(http.MethodDelete, "/dashboard/customers/"+id, nil), admin))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"deleted":2`)
		assert.Contains(t, rec.Body.String(), `"kept":1`)
	})

	t.Run("delete of unknown customer touches no bookings", func(t *testing.T) {
		router, svc, _ := newRouter(t)
		svc.EXPECT().Customer(gomock.Any(), admin, "missing").Return(dto.CustomerProfileResponse{}, failure.NotFound(service.MessageCustomerNotFound))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, asAdmin(httptest.NewRequest(http.MethodDelete, "/dashboard/customers/missing", nil), admin))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), service.MessageCustomerNotFound)
	})
}
