package dto

import (
	"strings"
	"time"

	"cowork/infras/jwt"
	userModel "cowork/internal/domains/user/model"
	userDto "cowork/internal/domains/user/model/dto"
	"cowork/shared/constant"
	gModel "cowork/shared/model"
	"cowork/shared/timezone"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name        string `json:"name"         validate:"notblank,max=100"`
	Email       string `json:"email"        validate:"notblank,email,max=100"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phone_number" validate:"notblank,max=20"`
}

// ToUserModel builds a regular account. Administrators are promoted out of band.
func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	now := timezone.Now()

	return userModel.User{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		PhoneNumber: strings.TrimSpace(r.PhoneNumber),
		Password:    hashedPassword,
		Level:       constant.RoleUser,
		Metadata:    gModel.NewMetadata(constant.ContextGuest, now),
	}
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"notblank,email"`
	Password string `json:"password" validate:"required"`
}

// LastLogin is the column set stamped on every successful sign in.
type LastLogin struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

// Tokens is the pair handed out on sign in and on refresh.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func TokensFrom(pair *jwt.TokenPair) Tokens {
	return Tokens{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}

type LoginResponse struct {
	Tokens
	User userDto.UserResponse `json:"user"`
}

// Profile is the signed in account returned by /auth/me.
type Profile = userDto.UserResponse

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse = Tokens

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

// PasswordChange is the column set written when a password is replaced.
type PasswordChange struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}
