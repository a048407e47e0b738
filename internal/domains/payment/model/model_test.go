package model_test

import (
	"testing"

	bookingModel "cowork/internal/domains/booking/model"
	"cowork/internal/domains/payment/model"

	"github.com/stretchr/testify/assert"
)

func TestStatusForBooking(t *testing.T) {
	assert.Equal(t, model.StatusCompleted, model.StatusForBooking(bookingModel.StatusConfirmed))
	assert.Equal(t, model.StatusRefunded, model.StatusForBooking(bookingModel.StatusCancelled))
	assert.Equal(t, model.StatusPending, model.StatusForBooking(bookingModel.StatusPending))
	assert.Equal(t, model.StatusPending, model.StatusForBooking("unknown"))
}

func TestMethodDisplayName(t *testing.T) {
	assert.Equal(t, "Credit Card", model.MethodDisplayName(model.MethodCredit))
	assert.Equal(t, "Bank Transfer", model.MethodDisplayName(model.MethodBank))
	assert.Equal(t, "E-Wallet", model.MethodDisplayName(model.MethodEWallet))
	assert.Equal(t, "Cash", model.MethodDisplayName(model.MethodCash))
	assert.Equal(t, "voucher", model.MethodDisplayName("voucher"))
}
