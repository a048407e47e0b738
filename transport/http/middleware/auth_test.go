package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"cowork/config"
	"cowork/infras/jwt"
	jwtMocks "cowork/infras/jwt/mocks"
	"cowork/infras/otel/mocks"
	"cowork/permissions"
	"cowork/shared/constant"
	"cowork/shared/principal"
	"cowork/transport/http/middleware"
)

func newAuthRouter(t *testing.T) (http.Handler, *jwtMocks.MockJWT, *principal.Principal) {
	t.Helper()

	tokens := jwtMocks.NewMockJWT(gomock.NewController(t))
	rules := &permissions.PermissionData{
		Endpoints: []permissions.Permission{
			{Path: "/v1/rooms/", Method: http.MethodPost, Permissions: []string{constant.RoleAdmin}},
			{Path: "/v1/rooms/{id}", Method: http.MethodGet, Skip: true},
		},
	}

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	m := middleware.NewAuthRoleMiddleware(tokens, mocks.NewOtel(), rules, cfg)
	seen := &principal.Principal{}

	capture := func(w http.ResponseWriter, r *http.Request) {
		*seen = principal.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Use(m.APIKey, m.Auth, m.RBAC)
	router.Route("/v1", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", capture)
			r.Get("/{id}", capture)
		})
		r.Get("/bookings", capture)
	})

	return router, tokens, seen
}

func serve(router http.Handler, method, target, token string, headers ...string) int {
	req := httptest.NewRequest(method, target, nil)
	if token != constant.Empty {
		req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token)
	}

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec.Code
}

func TestAuth_Anonymous(t *testing.T) {
	router, _, seen := newAuthRouter(t)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/bookings", ""))
	assert.False(t, seen.IsAuthenticated())
}

func TestAuth_ValidToken(t *testing.T) {
	router, tokens, seen := newAuthRouter(t)
	tokens.EXPECT().
		Verify(gomock.Any(), "good", jwt.KindAccess).
		Return(claimsFor("u-1", "budi@example.com", constant.RoleUser), nil)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/bookings", "good"))
	assert.Equal(t, "u-1", seen.UserID)
	assert.Equal(t, constant.RoleUser, seen.Role)
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "expired", err: jwt.ErrExpiredToken},
		{name: "invalid", err: jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, tokens, _ := newAuthRouter(t)
			tokens.EXPECT().Verify(gomock.Any(), "bad", jwt.KindAccess).Return(nil, tt.err)

			assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/v1/bookings", "bad"))
		})
	}

	t.Run("incomplete claims", func(t *testing.T) {
		router, tokens, _ := newAuthRouter(t)
		tokens.EXPECT().Verify(gomock.Any(), "bad", jwt.KindAccess).Return(claimsFor("u-1", "", ""), nil)

		assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/v1/bookings", "bad"))
	})
}

func TestRBAC(t *testing.T) {
	t.Run("admin route as user", func(t *testing.T) {
		router, tokens, _ := newAuthRouter(t)
		tokens.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(claimsFor("u-1", "u@example.com", constant.RoleUser), nil)

		assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/v1/rooms", "user"))
	})

	t.Run("admin route as admin", func(t *testing.T) {
		router, tokens, _ := newAuthRouter(t)
		tokens.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(claimsFor("a-1", "a@example.com", constant.RoleAdmin), nil)

		assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/v1/rooms", "admin"))
	})

	t.Run("admin route anonymously", func(t *testing.T) {
		router, _, _ := newAuthRouter(t)

		assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodPost, "/v1/rooms", ""))
	})

	t.Run("skipped route", func(t *testing.T) {
		router, _, _ := newAuthRouter(t)

		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/rooms/3", ""))
	})

	t.Run("internal key bypasses roles", func(t *testing.T) {
		router, _, _ := newAuthRouter(t)

		assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/v1/rooms", "", constant.RequestHeaderAPIKey, "internal-key"))
	})

	t.Run("wrong internal key", func(t *testing.T) {
		router, _, _ := newAuthRouter(t)

		assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/v1/rooms", "", constant.RequestHeaderAPIKey, "guess"))
	})
}

func claimsFor(userID, email, role string) *jwt.Claims {
	return &jwt.Claims{
		Email:            email,
		Role:             role,
		Kind:             jwt.KindAccess,
		RegisteredClaims: gojwt.RegisteredClaims{Subject: userID, ID: "t-" + userID},
	}
}

func TestRBAC_EmbeddedTableNestedUnderVersion(t *testing.T) {
	tokens := jwtMocks.NewMockJWT(gomock.NewController(t))
	tokens.EXPECT().
		Verify(gomock.Any(), "user", jwt.KindAccess).
		Return(claimsFor("u-1", "u@example.com", constant.RoleUser), nil).
		AnyTimes()

	m := middleware.NewAuthRoleMiddleware(tokens, mocks.NewOtel(), permissions.Get(), &config.Config{})
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(m.APIKey, m.Auth, m.RBAC)
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", ok)
			r.Post("/", ok)
		})
	})

	for _, target := range []string{"/v1/rooms", "/v1/rooms/"} {
		t.Run(target, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodPost, target, ""))
			assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, target, "user"))
			assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, target, ""))
		})
	}
}
