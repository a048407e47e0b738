package model

import (
	"time"

	"cowork/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldRoomID      = "room_id"
	FieldPaymentID   = "payment_id"
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhoneNumber = "phone_number"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldPrice       = "price"
	FieldPayment     = "payment"
	FieldStatus      = "status"
	FieldCreatedAt   = "created_at"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	EventCreated       = "booking.created"
	EventStatusChanged = "booking.status_changed"
	EventDeleted       = "booking.deleted"
)

var statuses = []string{StatusPending, StatusConfirmed, StatusCancelled}

type Booking struct {
	ID          int64     `auto:"true"                      db:"id"`
	UserID      *string   `db:"user_id"`
	RoomID      int64     `db:"room_id"`
	PaymentID   int64     `db:"payment_id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	PhoneNumber string    `db:"phone_number"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	Price       int64     `db:"price"`
	Payment     string    `db:"payment"`
	Status      string    `db:"status"`
	RoomName    *string   `column:"room_name"              db:"room_name"  table:"rooms"`
	UserName    *string   `column:"name"                   db:"user_name"  table:"users"`
	UserEmail   *string   `column:"email"                  db:"user_email" table:"users"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = bookings.room_id LEFT JOIN users ON users.id = bookings.user_id"
}

// Event is the payload published for every committed lifecycle change.
type Event struct {
	Type           string    `json:"type"`
	BookingID      int64     `json:"booking_id"`
	PaymentID      int64     `json:"payment_id"`
	RoomID         int64     `json:"room_id"`
	UserID         *string   `json:"user_id,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	PaymentStatus  string    `json:"payment_status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func IsValidStatus(status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}

	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled
}

// Overlaps reports whether two inclusive date ranges share at least one day.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return !startA.After(endB) && !startB.After(endA)
}

// Days is the whole number of days between start and end, never less than one.
func Days(start, end time.Time) int64 {
	days := int64(end.Sub(start).Hours() / 24) //nolint:mnd

	return max(days, 1)
}
