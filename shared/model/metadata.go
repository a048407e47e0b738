// Package model holds the audit columns every table carries.
package model

import "time"

const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

type Metadata struct {
	CreatedAt  time.Time `db:"created_at"`
	ModifiedAt time.Time `db:"modified_at"`
	CreatedBy  string    `db:"created_by"`
	ModifiedBy string    `db:"modified_by"`
}

// NewMetadata stamps a fresh row as created and last modified by user at the same instant.
func NewMetadata(user string, at time.Time) Metadata {
	return Metadata{CreatedAt: at, ModifiedAt: at, CreatedBy: user, ModifiedBy: user}
}

// Touch adds the modification columns to a partial update.
func Touch(fields map[string]any, user string, at time.Time) map[string]any {
	fields[FieldModifiedAt] = at
	fields[FieldModifiedBy] = user

	return fields
}
