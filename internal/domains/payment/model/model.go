package model

import (
	bookingModel "cowork/internal/domains/booking/model"
	"cowork/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldPrice         = "price"
	FieldPaymentMethod = "payment_method"
	FieldStatus        = "status"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRefunded  = "refunded"
)

const (
	MethodCash    = "cash"
	MethodBank    = "bank"
	MethodCredit  = "credit"
	MethodEWallet = "ewallet"
)

var methodDisplayNames = map[string]string{
	MethodCredit:  "Credit Card",
	MethodBank:    "Bank Transfer",
	MethodEWallet: "E-Wallet",
	MethodCash:    "Cash",
}

type Payment struct {
	ID            int64  `auto:"true"              db:"id"`
	Price         int64  `db:"price"`
	PaymentMethod string `db:"payment_method"`
	Status        string `db:"status"`
	model.Metadata
}

// StatusForBooking derives the payment status that accompanies a booking status.
func StatusForBooking(bookingStatus string) string {
	switch bookingStatus {
	case bookingModel.StatusConfirmed:
		return StatusCompleted
	case bookingModel.StatusCancelled:
		return StatusRefunded
	default:
		return StatusPending
	}
}

// MethodDisplayName returns the human label of a method tag, unknown tags are echoed.
func MethodDisplayName(method string) string {
	if name, ok := methodDisplayNames[method]; ok {
		return name
	}

	return method
}
