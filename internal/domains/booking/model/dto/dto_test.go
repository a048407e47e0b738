package dto_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cowork/internal/domains/booking/model"
	"cowork/internal/domains/booking/model/dto"
	paymentModel "cowork/internal/domains/payment/model"
	"cowork/shared/constant"
	"cowork/shared/failure"
	"cowork/shared/principal"
	"cowork/shared/validator"
)

func TestCreateBookingRequest_Dates(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr string
	}{
		{name: "two nights", start: "2025-10-26", end: "2025-10-28"},
		{name: "next day", start: "2025-10-26", end: "2025-10-27"},
		{name: "same day", start: "2025-10-26", end: "2025-10-26", wantErr: "Invalid dates. End date must be after start date."},
		{name: "reversed", start: "2025-10-28", end: "2025-10-26", wantErr: "Invalid dates. End date must be after start date."},
		{name: "slashes", start: "2025/10/26", end: "2025-10-28", wantErr: "Invalid date format. Please use YYYY-MM-DD format."},
		{name: "impossible day", start: "2025-02-30", end: "2025-03-02", wantErr: "Invalid date format. Please use YYYY-MM-DD format."},
		{name: "missing padding", start: "2025-1-26", end: "2025-10-28", wantErr: "Invalid date format. Please use YYYY-MM-DD format."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateBookingRequest{StartDate: tt.start, EndDate: tt.end}

			start, end, err := req.Dates()

			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.True(t, end.After(start))
		})
	}
}

func TestCreateBookingRequest_PaymentFitsColumn(t *testing.T) {
	valid := func(payment string) *dto.CreateBookingRequest {
		return &dto.CreateBookingRequest{
			RoomID:      3,
			Name:        "Budi",
			Email:       "budi@example.com",
			PhoneNumber: "081234567890",
			StartDate:   "2025-10-26",
			EndDate:     "2025-10-28",
			Price:       1000000,
			Payment:     payment,
		}
	}

	require.NoError(t, validator.ValidateStruct(valid("ewallet")))
	require.NoError(t, validator.ValidateStruct(valid(strings.Repeat("b", 20))))

	err := validator.ValidateStruct(valid(strings.Repeat("b", 21)))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Contains(t, err.Error(), "payment")
}

func TestCreateBookingRequest_InitialStatus(t *testing.T) {
	user := principal.Principal{UserID: "u-1", Role: constant.RoleUser}
	admin := principal.Principal{UserID: "a-1", Role: constant.RoleAdmin}

	status, err := (&dto.CreateBookingRequest{Status: model.StatusCancelled}).InitialStatus(user)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, status)

	status, err = (&dto.CreateBookingRequest{}).InitialStatus(admin)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, status)

	status, err = (&dto.CreateBookingRequest{Status: " PENDING "}).InitialStatus(admin)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, status)

	_, err = (&dto.CreateBookingRequest{Status: "archived"}).InitialStatus(admin)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:      3,
		Name:        " Budi Santoso ",
		Email:       "budi@example.com",
		PhoneNumber: "081234567890",
		Price:       1000000,
	}

	start := time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC)

	booking := req.ToModel(principal.Principal{UserID: "u-1"}, 11, start, end, model.StatusConfirmed)

	require.NotNil(t, booking.UserID)
	assert.Equal(t, "u-1", *booking.UserID)
	assert.Equal(t, "Budi Santoso", booking.Name)
	assert.Equal(t, int64(11), booking.PaymentID)
	assert.Equal(t, "pending", booking.Payment)
	assert.Equal(t, "u-1", booking.CreatedBy)

	anonymous := req.ToModel(principal.Principal{}, 11, start, end, model.StatusConfirmed)
	assert.Nil(t, anonymous.UserID)
	assert.Equal(t, constant.ContextGuest, anonymous.CreatedBy)

	payment := req.ToPaymentModel("u-1")
	assert.Equal(t, paymentModel.StatusPending, payment.Status)
	assert.Equal(t, int64(1000000), payment.Price)
}

func TestUpdateStatusRequest_Normalized(t *testing.T) {
	status, err := (&dto.UpdateStatusRequest{Status: "Cancelled"}).Normalized()
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, status)

	_, err = (&dto.UpdateStatusRequest{Status: "refunded"}).Normalized()
	require.EqualError(t, err, "Invalid booking status. Only pending, confirmed, or cancelled are allowed.")
}

func TestBookingResponse_FromModel(t *testing.T) {
	room := "Meeting Room A"
	booking := model.Booking{
		ID:        9,
		StartDate: time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC),
		Status:    model.StatusConfirmed,
		RoomName:  &room,
	}

	var res dto.BookingResponse
	res.FromModel(booking)

	assert.Equal(t, "2025-10-26", res.StartDate)
	assert.Equal(t, "2025-10-28", res.EndDate)
	assert.Equal(t, &room, res.RoomName)
	assert.Nil(t, res.UserName)

	var list dto.GetBookingsResponse
	list.FromModels([]model.Booking{booking, booking, booking}, 3, 2)

	assert.Len(t, list.Bookings, 3)
	assert.Equal(t, 2, list.TotalPage)
}
