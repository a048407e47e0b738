package dto

import (
	"strings"
	"time"

	"cowork/internal/domains/booking/model"
	paymentModel "cowork/internal/domains/payment/model"
	"cowork/shared"
	"cowork/shared/constant"
	"cowork/shared/failure"
	gModel "cowork/shared/model"
	"cowork/shared/principal"
	"cowork/shared/timezone"
)

const (
	defaultPaymentMethod = "pending"

	messageInvalidDateFormat = "Invalid date format. Please use YYYY-MM-DD format."
	messageInvalidDateRange  = "Invalid dates. End date must be after start date."
)

type CreateBookingRequest struct {
	RoomID      int64  `json:"room_id"      validate:"required,gt=0"`
	Name        string `json:"name"         validate:"notblank,max=100"`
	Email       string `json:"email"        validate:"notblank,email,max=100"`
	PhoneNumber string `json:"phone_number" validate:"notblank,max=20"`
	StartDate   string `json:"start_date"   validate:"notblank"`
	EndDate     string `json:"end_date"     validate:"notblank"`
	Price       int64  `json:"price"        validate:"required,gt=0"`
	Payment     string `json:"payment"      validate:"omitempty,max=20"`
	Status      string `json:"status"       validate:"omitempty"`
}

// Dates parses the requested range. The end date must be strictly after the start date.
func (c *CreateBookingRequest) Dates() (start, end time.Time, err error) {
	start, err = parseDate(c.StartDate)
	if err != nil {
		return start, end, err
	}

	end, err = parseDate(c.EndDate)
	if err != nil {
		return start, end, err
	}

	if !end.After(start) {
		return start, end, failure.BadRequestFromString(messageInvalidDateRange) //nolint:wrapcheck
	}

	return start, end, nil
}

// InitialStatus is always confirmed unless an admin asks for another valid status.
func (c *CreateBookingRequest) InitialStatus(requester principal.Principal) (string, error) {
	status := normalizeStatus(c.Status)
	if status == constant.Empty || !requester.IsAdmin() {
		return model.StatusConfirmed, nil
	}

	if !model.IsValidStatus(status) {
		return constant.Empty, failure.BadRequestFromString(messageInvalidStatus) //nolint:wrapcheck
	}

	return status, nil
}

func (c *CreateBookingRequest) PaymentMethod() string {
	method := strings.ToLower(strings.TrimSpace(c.Payment))
	if method == constant.Empty {
		return defaultPaymentMethod
	}

	return method
}

func (c *CreateBookingRequest) ToPaymentModel(user string) paymentModel.Payment {
	now := timezone.Now()

	return paymentModel.Payment{
		Price:         c.Price,
		PaymentMethod: c.PaymentMethod(),
		Status:        paymentModel.StatusPending,
		Metadata:      gModel.NewMetadata(user, now),
	}
}

func (c *CreateBookingRequest) ToModel(requester principal.Principal, paymentID int64, start, end time.Time, status string) model.Booking {
	now := timezone.Now()
	user := requester.Username()

	var userID *string
	if requester.IsAuthenticated() {
		id := requester.UserID
		userID = &id
	}

	return model.Booking{
		UserID:      userID,
		RoomID:      c.RoomID,
		PaymentID:   paymentID,
		Name:        strings.TrimSpace(c.Name),
		Email:       strings.TrimSpace(c.Email),
		PhoneNumber: strings.TrimSpace(c.PhoneNumber),
		StartDate:   start,
		EndDate:     end,
		Price:       c.Price,
		Payment:     c.PaymentMethod(),
		Status:      status,
		Metadata:    gModel.NewMetadata(user, now),
	}
}

type CreateBookingResponse struct {
	Message   string `json:"message"`
	BookingID int64  `json:"booking_id"`
	PaymentID int64  `json:"payment_id"`
}

const messageInvalidStatus = "Invalid booking status. Only pending, confirmed, or cancelled are allowed."

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"notblank"`
}

// StatusUpdate is the column set written by a status transition, on bookings and payments alike.
type StatusUpdate struct {
	Status string `db:"status"`
}

// Normalized returns the lower-cased status or a validation failure.
func (u *UpdateStatusRequest) Normalized() (string, error) {
	status := normalizeStatus(u.Status)
	if !model.IsValidStatus(status) {
		return constant.Empty, failure.BadRequestFromString(messageInvalidStatus) //nolint:wrapcheck
	}

	return status, nil
}

type BookingResponse struct {
	ID          int64   `json:"id"`
	UserID      *string `json:"user_id"`
	RoomID      int64   `json:"room_id"`
	PaymentID   int64   `json:"payment_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Price       int64   `json:"price"`
	Payment     string  `json:"payment"`
	Status      string  `json:"status"`
	RoomName    *string `json:"room_name"`
	UserName    *string `json:"user_name,omitempty"`
	UserEmail   *string `json:"user_email,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.RoomID = model.RoomID
	r.PaymentID = model.PaymentID
	r.Name = model.Name
	r.Email = model.Email
	r.PhoneNumber = model.PhoneNumber
	r.StartDate = timezone.FormatDate(model.StartDate)
	r.EndDate = timezone.FormatDate(model.EndDate)
	r.Price = model.Price
	r.Payment = model.Payment
	r.Status = model.Status
	r.RoomName = model.RoomName
	r.UserName = model.UserName
	r.UserEmail = model.UserEmail
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

func parseDate(value string) (time.Time, error) {
	date, err := timezone.ParseDate(value)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString(messageInvalidDateFormat) //nolint:wrapcheck
	}

	return date, nil
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// DeleteUserBookingsResponse counts what a customer purge removed and the confirmed
// bookings it left in place.
type DeleteUserBookingsResponse struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
	Kept    int    `json:"kept"`
}
