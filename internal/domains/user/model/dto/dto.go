package dto

import (
	"cowork/internal/domains/user/model"
	gDto "cowork/shared/dto"
)

type UserResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	Level       string  `json:"level"`
	LastLogin   *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.PhoneNumber = model.PhoneNumber
	r.Level = model.Level
	r.LastLogin = model.LastLogin
	r.Metadata.FromModel(model.Metadata)
}
