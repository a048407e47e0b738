package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"cowork/shared/failure"
	"cowork/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingPayload struct {
	Name      string `json:"name"       validate:"notblank,max=10"`
	Email     string `json:"email"      validate:"required,email"`
	StartDate string `json:"start_date" validate:"required,date"`
	Price     int64  `json:"price"      validate:"gt=0"`
	Status    string `json:"status"     validate:"omitempty,oneof=pending confirmed cancelled"`
}

func validPayload() bookingPayload {
	return bookingPayload{
		Name:      "Budi",
		Email:     "budi@example.com",
		StartDate: "2025-10-26",
		Price:     1000000,
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *bookingPayload)
		wantMsg string
	}{
		{name: "valid", mutate: func(_ *bookingPayload) {}},
		{name: "blank name", mutate: func(p *bookingPayload) { p.Name = "   " }, wantMsg: "name is required"},
		{name: "bad email", mutate: func(p *bookingPayload) { p.Email = "budi" }, wantMsg: "email must be a valid email address"},
		{name: "slash date", mutate: func(p *bookingPayload) { p.StartDate = "2025/10/26" }, wantMsg: "start_date must be a valid date (YYYY-MM-DD)"},
		{name: "impossible date", mutate: func(p *bookingPayload) { p.StartDate = "2025-02-30" }, wantMsg: "start_date must be a valid date (YYYY-MM-DD)"},
		{name: "zero price", mutate: func(p *bookingPayload) { p.Price = 0 }, wantMsg: "price must be greater than 0"},
		{name: "long name", mutate: func(p *bookingPayload) { p.Name = "Budi Santoso Wijaya" }, wantMsg: "name must be at most 10 characters long"},
		{name: "unknown status", mutate: func(p *bookingPayload) { p.Status = "done" }, wantMsg: "status must be one of pending confirmed cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(&payload)

			err := validator.ValidateStruct(&payload)
			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"name":"Budi","email":"budi@example.com","start_date":"2025-10-26","price":10}`},
		{name: "malformed json", body: `{"name":`, wantErr: true},
		{name: "empty object", body: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload bookingPayload

			err := validator.Validate(strings.NewReader(tt.body), &payload)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "Budi", payload.Name)
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2025-10-28", "date"))
	assert.Error(t, validator.ValidateVar("28-10-2025", "date"))
	assert.NoError(t, validator.ValidateVar("admin", "oneof=admin user"))
	assert.Error(t, validator.ValidateVar("", "notblank"))
}
