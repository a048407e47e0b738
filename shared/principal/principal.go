// Package principal carries the identity resolved for a single request.
package principal

import (
	"context"

	"cowork/shared/constant"
)

type Principal struct {
	UserID string
	Email  string
	Role   string
}

// FromContext reads the identity attached by the auth middleware. An anonymous
// request yields the zero Principal.
func FromContext(ctx context.Context) Principal {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return Principal{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
}

// NewContext attaches p to ctx. tokenID identifies the access token it came from.
func NewContext(ctx context.Context, p Principal, tokenID string) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, p.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, p.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, p.Role)

	return context.WithValue(ctx, constant.ContextKeyTokenID, tokenID)
}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != constant.Empty
}

func (p Principal) IsAdmin() bool {
	return p.IsAuthenticated() && p.Role == constant.RoleAdmin
}

// Username is the value stamped into created_by / modified_by.
func (p Principal) Username() string {
	if !p.IsAuthenticated() {
		return constant.ContextGuest
	}

	return p.UserID
}

// Owns reports whether userID refers to this principal.
func (p Principal) Owns(userID *string) bool {
	return p.IsAuthenticated() && userID != nil && *userID == p.UserID
}
