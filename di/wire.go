//go:build wireinject
// +build wireinject

package di

import (
	"cowork/config"
	"cowork/infras/jwt"
	"cowork/infras/kafka"
	"cowork/infras/metrics"
	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/infras/redis"
	"cowork/infras/s3"
	authService "cowork/internal/domains/auth/service"
	bookingRepository "cowork/internal/domains/booking/repository"
	bookingService "cowork/internal/domains/booking/service"
	paymentRepository "cowork/internal/domains/payment/repository"
	reportRepository "cowork/internal/domains/report/repository"
	reportService "cowork/internal/domains/report/service"
	roomRepository "cowork/internal/domains/room/repository"
	roomService "cowork/internal/domains/room/service"
	userRepository "cowork/internal/domains/user/repository"
	authHandler "cowork/internal/handlers/auth"
	bookingHandler "cowork/internal/handlers/booking"
	reportHandler "cowork/internal/handlers/report"
	roomHandler "cowork/internal/handlers/room"
	"cowork/permissions"
	"cowork/shared/cache"
	"cowork/transport/event"
	"cowork/transport/http"
	"cowork/transport/http/middleware"
	"cowork/transport/http/router"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	metrics.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	paymentRepository.New,
	bookingService.New,
)

var reportDomain = wire.NewSet(
	reportRepository.New,
	reportService.New,
)

var domains = wire.NewSet(
	authDomain,
	roomDomain,
	bookingDomain,
	reportDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	bookingHandler.New,
	reportHandler.New,
	router.NewHealthChecks,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *event.Worker {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		event.New,
	)

	return &event.Worker{}
}
