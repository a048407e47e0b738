package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"cowork/config"
	"cowork/infras/otel"
	"cowork/internal/domains/report/model"
	"cowork/internal/domains/report/model/dto"
	"cowork/internal/domains/report/repository"
	userModel "cowork/internal/domains/user/model"
	userRepo "cowork/internal/domains/user/repository"
	"cowork/shared"
	"cowork/shared/cache"
	"cowork/shared/constant"
	"cowork/shared/failure"
	"cowork/shared/principal"
	"cowork/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	cacheStats     = shared.BuildCacheKey(constant.CachePrefixReport, "stats")
	cacheCustomers = shared.BuildCacheKey(constant.CachePrefixReport, "customers")
)

const MessageCustomerNotFound = "Customer not found"

type Report interface {
	Stats(ctx context.Context, requester principal.Principal) (dto.StatsResponse, error)
	Customers(ctx context.Context, requester principal.Principal) (dto.CustomersResponse, error)
	Customer(ctx context.Context, requester principal.Principal, id string) (dto.CustomerProfileResponse, error)
}

type serviceImpl struct {
	repo  repository.Report
	users userRepo.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Report, users userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Report {
	return &serviceImpl{
		repo:  repo,
		users: users,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Stats(ctx context.Context, requester principal.Principal) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = authorize(requester); err != nil {
		return res, err
	}

	today := timezone.Today()
	cacheKey := shared.BuildCacheKey(cacheStats, timezone.FormatDate(today))

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for dashboard stats")

		return res, nil
	}

	summary, err := s.repo.Summary(ctx, today)
	if err != nil {
		return res, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	rooms, err := s.repo.RoomActivity(ctx, today)
	if err != nil {
		return res, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	recent, err := s.repo.RecentBookings(ctx, model.RecentBookingsLimit)
	if err != nil {
		return res, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	res.FromModels(summary, rooms, recent)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Customers(ctx context.Context, requester principal.Principal) (res dto.CustomersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Customers")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = authorize(requester); err != nil {
		return res, err
	}

	monthStart := timezone.MonthOf(timezone.Now())
	cacheKey := shared.BuildCacheKey(cacheCustomers, monthStart.Format("2006-01"))

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for customers")

		return res, nil
	}

	customers, err := s.repo.Customers(ctx, monthStart)
	if err != nil {
		return res, fmt.Errorf("failed to get customers: %w", err)
	}

	res.FromModels(customers)
	s.save(ctx, cacheKey, res)

	return res, nil
}

// Customer looks up a registered account. Guest ids from the customers report have no
// account and are not found.
func (s *serviceImpl) Customer(ctx context.Context, requester principal.Principal, id string) (res dto.CustomerProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Customer")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = authorize(requester); err != nil {
		return res, err
	}

	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return res, failure.NotFound(MessageCustomerNotFound) // nolint:wrapcheck
	}

	user, err := s.users.Get(ctx, userRepo.ByID(id),
		userModel.FieldID, userModel.FieldName, userModel.FieldEmail, userModel.FieldPhoneNumber)
	if err != nil {
		return res, fmt.Errorf("failed to get customer: %w", err)
	}

	if user.ID == "" {
		return res, failure.NotFound(MessageCustomerNotFound) // nolint:wrapcheck
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save report to cache")
		}
	}()
}

func authorize(requester principal.Principal) error {
	if !requester.IsAuthenticated() {
		return failure.Unauthorized("User not logged in") // nolint:wrapcheck
	}

	if !requester.IsAdmin() {
		return failure.Forbidden("Only administrators can view reports") // nolint:wrapcheck
	}

	return nil
}
