package jwt_test

import (
	"context"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cowork/config"
	"cowork/infras/jwt"
	"cowork/infras/otel/mocks"
)

var budi = jwt.Identity{UserID: "u-1", Email: "budi@example.com", Role: "admin"}

func newService(t *testing.T) jwt.JWT {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "cowork"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg, mocks.NewOtel())
}

func TestIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	pair, err := svc.Issue(ctx, budi)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := svc.Verify(ctx, pair.AccessToken, jwt.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, budi, claims.Identity())
	assert.Equal(t, "cowork", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	_, err = svc.Issue(ctx, jwt.Identity{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, jwt.ErrInvalidClaim)
}

func TestVerify_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	pair, err := svc.Issue(ctx, budi)
	require.NoError(t, err)

	t.Run("access token as refresh", func(t *testing.T) {
		_, err := svc.Verify(ctx, pair.AccessToken, jwt.KindRefresh)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify(ctx, "not-a-token", jwt.KindAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		token := sign(t, "access-secret", jwt.Claims{
			Email: budi.Email,
			Kind:  jwt.KindAccess,
			RegisteredClaims: gojwt.RegisteredClaims{
				Subject:   budi.UserID,
				Issuer:    "cowork",
				ExpiresAt: gojwt.NewNumericDate(past),
			},
		})

		_, err := svc.Verify(ctx, token, jwt.KindAccess)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		token := sign(t, "access-secret", jwt.Claims{
			Kind: jwt.KindAccess,
			RegisteredClaims: gojwt.RegisteredClaims{
				Subject:   budi.UserID,
				Issuer:    "elsewhere",
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := svc.Verify(ctx, token, jwt.KindAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("kind mismatch under the right secret", func(t *testing.T) {
		token := sign(t, "access-secret", jwt.Claims{
			Kind: jwt.KindRefresh,
			RegisteredClaims: gojwt.RegisteredClaims{
				Subject:   budi.UserID,
				Issuer:    "cowork",
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := svc.Verify(ctx, token, jwt.KindAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidClaim)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	pair, err := svc.Issue(ctx, budi)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.Verify(ctx, refreshed.AccessToken, jwt.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, budi, claims.Identity())

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestBearer(t *testing.T) {
	token, err := jwt.Bearer("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	token, err = jwt.Bearer("bearer  abc.def ")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer"} {
		_, err = jwt.Bearer(header)
		assert.ErrorIs(t, err, jwt.ErrNoBearer, header)
	}
}

func sign(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}
