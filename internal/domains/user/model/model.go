package model

import "cowork/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID          = "id"
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhoneNumber = "phone_number"
	FieldPassword    = "password"
	FieldLevel       = "level"
	FieldLastLogin   = "last_login"
)

// User is an account that can sign in. Level is either admin or user.
type User struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Email       string  `db:"email"`
	PhoneNumber string  `db:"phone_number"`
	Password    string  `db:"password"`
	Level       string  `db:"level"`
	LastLogin   *string `db:"last_login"`
	model.Metadata
}
