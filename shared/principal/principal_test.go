package principal_test

import (
	"context"
	"testing"

	"cowork/shared/constant"
	"cowork/shared/principal"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, "a@b.com")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

	p := principal.FromContext(ctx)

	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "a@b.com", p.Email)
	assert.True(t, p.IsAuthenticated())
	assert.True(t, p.IsAdmin())
	assert.Equal(t, "user-1", p.Username())
}

func TestFromContext_Anonymous(t *testing.T) {
	p := principal.FromContext(context.Background())

	assert.False(t, p.IsAuthenticated())
	assert.False(t, p.IsAdmin())
	assert.Equal(t, constant.ContextGuest, p.Username())
}

func TestPrincipal_Owns(t *testing.T) {
	owner := "user-1"
	other := "user-2"

	tests := []struct {
		name      string
		principal principal.Principal
		userID    *string
		want      bool
	}{
		{name: "same user", principal: principal.Principal{UserID: owner}, userID: &owner, want: true},
		{name: "different user", principal: principal.Principal{UserID: owner}, userID: &other, want: false},
		{name: "guest booking", principal: principal.Principal{UserID: owner}, userID: nil, want: false},
		{name: "anonymous principal", principal: principal.Principal{}, userID: &owner, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.principal.Owns(tt.userID))
		})
	}
}

func TestPrincipal_IsAdmin_RequiresUser(t *testing.T) {
	p := principal.Principal{Role: constant.RoleAdmin}

	assert.False(t, p.IsAdmin())
}

func TestNewContext(t *testing.T) {
	ctx := principal.NewContext(context.Background(), principal.Principal{UserID: "user-2", Email: "c@d.com", Role: constant.RoleUser}, "jti-1")

	p := principal.FromContext(ctx)

	assert.Equal(t, principal.Principal{UserID: "user-2", Email: "c@d.com", Role: constant.RoleUser}, p)
	assert.False(t, p.IsAdmin())
	assert.Equal(t, "jti-1", ctx.Value(constant.ContextKeyTokenID))
}
