package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"cowork/config"
	"cowork/infras/jwt"
	"cowork/infras/otel"
	"cowork/permissions"
	"cowork/shared/constant"
	"cowork/shared/failure"
	"cowork/shared/principal"
	"cowork/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// skipRoles marks requests authenticated by the internal API key.
type skipRoles struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// deny ends scope with err recorded and writes it.
func deny(w http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	scope.End()
	response.WithError(w, err)
}

// tokenMessage words a verification error for the client.
func tokenMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrNoBearer):
		return "Invalid authorization header format"
	case errors.Is(err, jwt.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "Invalid token claims"
	case errors.Is(err, jwt.ErrInvalidToken):
		return "Invalid token"
	default:
		return "Token validation failed"
	}
}

// Auth resolves the bearer token into the request principal. Requests without an
// Authorization header continue anonymously and RBAC or the services decide whether
// that is enough. A header that is present but invalid is rejected.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		header := r.Header.Get(constant.RequestHeaderAuthorization)
		if header == constant.Empty {
			scope.SetAttribute("auth.anonymous", true)
			scope.End()
			next.ServeHTTP(w, r)

			return
		}

		claims, err := m.authenticate(ctx, header)
		if err != nil {
			deny(w, scope, failure.Unauthorized(tokenMessage(err)))

			return
		}

		scope.SetAttribute("auth.role", claims.Role)
		scope.End()

		identity := claims.Identity()
		ctx = principal.NewContext(r.Context(), principal.Principal{
			UserID: identity.UserID,
			Email:  identity.Email,
			Role:   identity.Role,
		}, claims.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *authRoleImpl) authenticate(ctx context.Context, header string) (*jwt.Claims, error) {
	token, err := jwt.Bearer(header)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	claims, err := m.jwtService.Verify(ctx, token, jwt.KindAccess)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if claims.Email == constant.Empty {
		log.Error().Str("user_id", claims.Subject).Msg("access token without email")

		return nil, jwt.ErrInvalidClaim
	}

	return claims, nil
}

// RBAC enforces the roles listed for the matched route in permissions.json.
// Routes that are not listed are open and their services decide on their own.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "rbac.middleware")

		if skip, _ := ctx.Value(skipRoles{}).(bool); skip || m.permission == nil || m.permission.Skip {
			scope.End()
			next.ServeHTTP(w, r)

			return
		}

		pattern := chi.RouteContext(ctx).Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path)
		rule := m.permission.FindPermissions(pattern, r.Method)

		if rule.Open() {
			scope.End()
			next.ServeHTTP(w, r)

			return
		}

		caller := principal.FromContext(ctx)

		switch {
		case !caller.IsAuthenticated():
			deny(w, scope, failure.Unauthorized("User not logged in"))
		case !rule.Allows(caller.Role):
			scope.SetAttributes(map[string]any{
				"user_role":     caller.Role,
				"allowed_roles": rule.Permissions,
			})
			deny(w, scope, failure.ErrForbidden)
		default:
			scope.End()
			next.ServeHTTP(w, r)
		}
	})
}

// APIKey lets internal callers holding the configured key bypass RBAC.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == constant.Empty {
			scope.End()
			next.ServeHTTP(w, r)

			return
		}

		expected := m.cfg.App.APIKey
		if expected == constant.Empty || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			deny(w, scope, failure.ErrForbidden)

			return
		}

		scope.SetAttribute("http.source", "internal")
		scope.End()

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, skipRoles{}, true)))
	})
}
