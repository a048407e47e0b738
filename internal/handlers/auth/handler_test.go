package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cowork/infras/otel/mocks"
	"cowork/internal/domains/auth/model/dto"
	serviceMocks "cowork/internal/domains/auth/service/mocks"
	"cowork/internal/handlers/auth"
	"cowork/shared/failure"
)

func newRouter(t *testing.T) (http.Handler, *serviceMocks.MockAuth) {
	t.Helper()

	svc := serviceMocks.NewMockAuth(gomock.NewController(t))
	handler := auth.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func post(router http.Handler, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))

	return rec
}

func TestHandler_Register(t *testing.T) {
	body := `{"name":"Budi","email":"budi@example.com","password":"rahasia123","phone_number":"0812"}`

	t.Run("created", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(dto.RegisterResponse{Message: "User registered successfully", UserID: "u-1"}, nil)

		rec := post(router, "/auth/register", body)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"user_id":"u-1"`)
	})

	t.Run("duplicate", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(dto.RegisterResponse{}, failure.Conflict("Email already exists"))

		rec := post(router, "/auth/register", body)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short password", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := post(router, "/auth/register", `{"name":"Budi","email":"budi@example.com","password":"123","phone_number":"0812"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Login(t *testing.T) {
	t.Run("tokens", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().
			Login(gomock.Any(), dto.LoginRequest{Email: "budi@example.com", Password: "rahasia123"}).
			Return(dto.LoginResponse{Tokens: dto.Tokens{AccessToken: "access", RefreshToken: "refresh"}}, nil)

		rec := post(router, "/auth/login", `{"email":"budi@example.com","password":"rahasia123"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var res struct {
			Data dto.LoginResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "access", res.Data.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(dto.LoginResponse{}, failure.Unauthorized("Invalid password"))

		rec := post(router, "/auth/login", `{"email":"budi@example.com","password":"salah"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid password"}`, rec.Body.String())
	})
}
