package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cowork/shared/model"
)

func TestNewMetadata(t *testing.T) {
	at := time.Date(2025, 10, 26, 9, 0, 0, 0, time.UTC)

	meta := model.NewMetadata("guest", at)

	assert.Equal(t, model.Metadata{CreatedAt: at, ModifiedAt: at, CreatedBy: "guest", ModifiedBy: "guest"}, meta)
}

func TestTouch(t *testing.T) {
	at := time.Date(2025, 10, 27, 9, 0, 0, 0, time.UTC)

	fields := model.Touch(map[string]any{"status": "cancelled"}, "admin-1", at)

	assert.Equal(t, map[string]any{
		"status":              "cancelled",
		model.FieldModifiedAt: at,
		model.FieldModifiedBy: "admin-1",
	}, fields)
}
