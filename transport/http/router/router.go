package router

import (
	"net/http"
	"time"

	"cowork/config"
	"cowork/infras/metrics"
	"cowork/internal/handlers/auth"
	"cowork/internal/handlers/booking"
	"cowork/internal/handlers/report"
	"cowork/internal/handlers/room"
	"cowork/shared/constant"
	"cowork/transport/http/middleware"
	"cowork/transport/http/response"

	// swagger docs
	_ "cowork/docs"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const requestTimeout = 30 * time.Second

type DomainHandlers struct {
	Auth    auth.Handler
	Room    room.Handler
	Booking booking.Handler
	Report  report.Handler
}

type Router struct {
	Config         *config.Config
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	AuthRole       middleware.AuthRole
	Metrics        metrics.Metrics
	Health         HealthChecks
}

// SetupRoutes mounts the global middleware chain, the operational endpoints and
// the versioned API on router.
func (r *Router) SetupRoutes(router chi.Router) {
	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WithErrorMessage(w, http.StatusNotFound, constant.ResponseErrorRouteNotFound)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WithErrorMessage(w, http.StatusMethodNotAllowed, constant.ResponseErrorMethodNotAllowed)
	})

	router.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
		chiMiddleware.Recoverer,
		chiMiddleware.Timeout(requestTimeout),
	)

	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   r.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   r.Config.App.CORS.AllowedHeaders,
			AllowCredentials: r.Config.App.CORS.AllowCredentials,
			MaxAge:           r.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Use(
		r.App.Tracing,
		r.App.Metrics,
		r.App.RequestLog,
		r.App.RateLimit(),
	)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.WithMessage(w, http.StatusOK, "OK")
	})
	router.Get("/readyz", r.Health.readiness)
	router.Handle("/metrics", r.Metrics.Handler())
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Report.Router(routerGroup)
	})
}

func New(cfg *config.Config, domainHandlers DomainHandlers, app middleware.AppMiddleware, authRole middleware.AuthRole, metrics metrics.Metrics, health HealthChecks) Router {
	return Router{
		Config:         cfg,
		DomainHandlers: domainHandlers,
		App:            app,
		AuthRole:       authRole,
		Metrics:        metrics,
		Health:         health,
	}
}
