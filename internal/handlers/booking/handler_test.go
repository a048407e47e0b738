package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cowork/infras/otel/mocks"
	"cowork/internal/domains/booking/model/dto"
	serviceMocks "cowork/internal/domains/booking/service/mocks"
	"cowork/internal/handlers/booking"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/principal"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func newRouter(t *testing.T) (http.Handler, *serviceMocks.MockBooking) {
	t.Helper()

	svc := serviceMocks.NewMockBooking(gomock.NewController(t))
	handler := booking.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, "u-1")
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	handler.Router(router)

	return router, svc
}

func do(t *testing.T, router http.Handler, method, target, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var res envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	return rec.Code, res
}

func TestHandler_CreateBooking(t *testing.T) {
	body := `{"room_id":3,"name":"Budi","email":"budi@example.com","phone_number":"0812",` +
		`"start_date":"2025-10-26","end_date":"2025-10-28","price":1000000,"payment":"cash"}`

	t.Run("created", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().
			Create(gomock.Any(), principal.Principal{UserID: "u-1", Role: constant.RoleUser}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ principal.Principal, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error) {
				assert.Equal(t, int64(3), req.RoomID)

				return dto.CreateBookingResponse{Message: "Booking created successfully", BookingID: 21, PaymentID: 11}, nil
			})

		code, res := do(t, router, http.MethodPost, "/bookings", body)

		assert.Equal(t, http.StatusCreated, code)
		assert.JSONEq(t, `{"message":"Booking created successfully","booking_id":21,"payment_id":11}`, string(res.Data))
	})

	t.Run("missing fields", func(t *testing.T) {
		router, _ := newRouter(t)

		code, res := do(t, router, http.MethodPost, "/bookings", `{"room_id":3}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.NotEmpty(t, res.Error)
	})

	t.Run("overlap", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(dto.CreateBookingResponse{}, failure.Conflict("Room is already booked for the selected dates"))

		code, res := do(t, router, http.MethodPost, "/bookings", body)

		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, "Room is already booked for the selected dates", res.Error)
	})
}

func TestHandler_GetBookings(t *testing.T) {
	t.Run("single booking", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Get(gomock.Any(), gomock.Any(), int64(5)).Return(dto.BookingResponse{ID: 5}, nil)

		code, res := do(t, router, http.MethodGet, "/bookings?action=get_booking&id=5", "")

		assert.Equal(t, http.StatusOK, code)
		assert.True(t, res.Success)
	})

	t.Run("single booking without id", func(t *testing.T) {
		router, _ := newRouter(t)

		code, res := do(t, router, http.MethodGet, "/bookings?action=get_booking", "")

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Booking ID is required", res.Error)
	})

	t.Run("user bookings", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().
			GetByUser(gomock.Any(), gomock.Any(), "u-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ principal.Principal, _ string, params gDto.QueryParams) (dto.GetBookingsResponse, error) {
				assert.Equal(t, 2, params.Page)

				return dto.GetBookingsResponse{TotalData: 1}, nil
			})

		code, _ := do(t, router, http.MethodGet, "/bookings?action=user_bookings&user_id=u-1&page=2", "")
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("user bookings without user", func(t *testing.T) {
		router, _ := newRouter(t)

		code, res := do(t, router, http.MethodGet, "/bookings?action=user_bookings", "")

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "User ID is required", res.Error)
	})

	t.Run("admin list forbidden", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(dto.GetBookingsResponse{}, failure.Forbidden("Only administrators can view all bookings"))

		code, _ := do(t, router, http.MethodGet, "/bookings", "")
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("unknown action", func(t *testing.T) {
		router, _ := newRouter(t)

		code, _ := do(t, router, http.MethodGet, "/bookings?action=export", "")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestHandler_UpdateBookingStatus(t *testing.T) {
	t.Run("cancel", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), int64(5), dto.UpdateStatusRequest{Status: "cancelled"}).Return(nil)

		code, res := do(t, router, http.MethodPut, "/bookings?id=5", `{"status":"cancelled"}`)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Booking updated successfully", res.Message)
	})

	t.Run("missing id", func(t *testing.T) {
		router, _ := newRouter(t)

		code, res := do(t, router, http.MethodPut, "/bookings", `{"status":"cancelled"}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Booking ID is required", res.Error)
	})

	t.Run("malformed id", func(t *testing.T) {
		router, _ := newRouter(t)

		code, _ := do(t, router, http.MethodPut, "/bookings?id=abc", `{"status":"cancelled"}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("forbidden", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), int64(5), gomock.Any()).Return(failure.Forbidden("You can only cancel your own bookings"))

		code, res := do(t, router, http.MethodPut, "/bookings?id=5", `{"status":"cancelled"}`)

		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "You can only cancel your own bookings", res.Error)
	})
}

func TestHandler_DeleteBooking(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Delete(gomock.Any(), gomock.Any(), int64(7)).Return(nil)

		code, res := do(t, router, http.MethodDelete, "/bookings?id=7", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Booking deleted successfully", res.Message)
	})

	t.Run("confirmed", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Delete(gomock.Any(), gomock.Any(), int64(7)).Return(failure.Conflict("Cannot delete confirmed booking"))

		code, _ := do(t, router, http.MethodDelete, "/bookings?id=7", "")
		assert.Equal(t, http.StatusConflict, code)
	})
}
