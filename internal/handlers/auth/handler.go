package auth

import (
	"net/http"

	"cowork/infras/otel"
	"cowork/internal/domains/auth/model/dto"
	"cowork/internal/domains/auth/service"
	"cowork/internal/handlers/web"
	"cowork/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{service: service, otel: otel}
}

// Router mounts the account endpoints. /me and /password sit behind the
// authenticator like everything outside the public routes.
func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/refresh-token", handler.RefreshToken)
		r.Get("/me", handler.Me)
		r.Put("/password", handler.ChangePassword)
	})
}

// Register creates a customer account.
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 201 {object} response.Data[dto.RegisterResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "Register")
	defer scope.End()

	req, ok := web.Bind[dto.RegisterRequest](w, r, scope)
	if !ok {
		return
	}

	res, err := handler.service.Register(ctx, req)
	if err != nil {
		web.Fail(w, scope, err, "registration failed")

		return
	}

	scope.AddEvent("account registered")
	response.WithJSON(w, http.StatusCreated, res)
}

// Login exchanges credentials for a token pair.
// @Summary Sign in
// @Description Returns an access/refresh token pair and the signed in profile.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} response.Data[dto.LoginResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "Login")
	defer scope.End()

	req, ok := web.Bind[dto.LoginRequest](w, r, scope)
	if !ok {
		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		web.Fail(w, scope, err, "sign in failed")

		return
	}

	scope.AddEvent("signed in")
	response.WithJSON(w, http.StatusOK, res)
}

// RefreshToken trades a refresh token for a new pair.
// @Summary Refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "RefreshToken")
	defer scope.End()

	req, ok := web.Bind[dto.RefreshTokenRequest](w, r, scope)
	if !ok {
		return
	}

	res, err := handler.service.RefreshToken(ctx, req)
	if err != nil {
		web.Fail(w, scope, err, "token refresh failed")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Me returns the signed in profile.
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Data[dto.Profile]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/auth/me [get]
// @Security BearerAuth
func (handler *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "Me")
	defer scope.End()

	res, err := handler.service.Me(ctx)
	if err != nil {
		web.Fail(w, scope, err, "profile lookup failed")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ChangePassword replaces the password of the signed in user.
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/password [put]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := web.Span(handler.otel, r, "ChangePassword")
	defer scope.End()

	req, ok := web.Bind[dto.ChangePasswordRequest](w, r, scope)
	if !ok {
		return
	}

	if err := handler.service.ChangePassword(ctx, req); err != nil {
		web.Fail(w, scope, err, "password change failed")

		return
	}

	response.WithMessage(w, http.StatusOK, "Password changed successfully")
}
