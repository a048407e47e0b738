package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"cowork/config"
	"cowork/infras/otel/mocks"
	reportMocks "cowork/internal/domains/report/mocks"
	"cowork/internal/domains/report/model"
	"cowork/internal/domains/report/service"
	userMocks "cowork/internal/domains/user/mocks"
	userModel "cowork/internal/domains/user/model"
	userRepo "cowork/internal/domains/user/repository"
	"cowork/shared/cache"
	cacheMocks "cowork/shared/cache/mocks"
	"cowork/shared/constant"
	"cowork/shared/failure"
	"cowork/shared/principal"
)

var (
	admin = principal.Principal{UserID: "a-1", Role: constant.RoleAdmin}
	user  = principal.Principal{UserID: "u-1", Role: constant.RoleUser}
)

func newService(t *testing.T) (service.Report, *reportMocks.MockReport) {
	t.Helper()

	svc, repo, _ := newServiceWithUsers(t)

	return svc, repo
}

func newServiceWithUsers(t *testing.T) (service.Report, *reportMocks.MockReport, *userMocks.MockUser) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := reportMocks.NewMockReport(ctrl)
	users := userMocks.NewMockUser(ctrl)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.ErrMiss).AnyTimes()
	redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	return service.New(repo, users, cfg, redis, mocks.NewOtel()), repo, users
}

func TestReportService_Stats(t *testing.T) {
	t.Run("aggregates dashboard", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Summary(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, today time.Time) (model.Summary, error) {
				assert.Zero(t, today.Hour())
				assert.Zero(t, today.Minute())

				return model.Summary{TotalBookings: 9, ActiveToday: 2, TotalRooms: 3}, nil
			})
		repo.EXPECT().RoomActivity(gomock.Any(), gomock.Any()).Return([]model.RoomActivity{{ID: 1, RoomName: "Hot Desk", TodayBookings: 2}}, nil)
		repo.EXPECT().RecentBookings(gomock.Any(), model.RecentBookingsLimit).Return([]model.RecentBooking{{ID: 9}}, nil)

		res, err := svc.Stats(context.Background(), admin)

		require.NoError(t, err)
		assert.Equal(t, 9, res.TotalBookings)
		assert.Equal(t, 2, res.RoomDetails[0].TodayBookings)
		assert.Equal(t, "#BK009", res.RecentBookings[0].Code)
	})

	t.Run("non admin", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Stats(context.Background(), user)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("anonymous", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Stats(context.Background(), principal.Principal{})
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("query failure", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().Summary(gomock.Any(), gomock.Any()).Return(model.Summary{}, errors.New("database error"))

		_, err := svc.Stats(context.Background(), admin)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestReportService_Customers(t *testing.T) {
	t.Run("groups by month", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().
			Customers(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, monthStart time.Time) ([]model.Customer, error) {
				assert.Equal(t, 1, monthStart.Day())

				return []model.Customer{{Name: "Siti", Email: "siti@example.com", TotalBookings: 2, BookingsThisMonth: 2}}, nil
			})

		res, err := svc.Customers(context.Background(), admin)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Stats.TotalCustomers)
		assert.Equal(t, 1, res.Stats.ActiveThisMonth)
	})

	t.Run("non admin", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Customers(context.Background(), user)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestReportService_Customer(t *testing.T) {
	const id = "6f1c2a4e-8b1d-4c53-9a57-1f0e2d3c4b5a"

	t.Run("registered customer", func(t *testing.T) {
		svc, _, users := newServiceWithUsers(t)
		users.EXPECT().
			Get(gomock.Any(), userRepo.ByID(id), gomock.Any()).
			Return(userModel.User{ID: id, Name: "Siti", Email: "siti@example.com", PhoneNumber: "0812"}, nil)

		res, err := svc.Customer(context.Background(), admin, id)

		require.NoError(t, err)
		assert.Equal(t, id, res.ID)
		assert.Equal(t, "Siti", res.Name)
		assert.Equal(t, "0812", res.PhoneNumber)
	})

	t.Run("unknown customer", func(t *testing.T) {
		svc, _, users := newServiceWithUsers(t)
		users.EXPECT().Get(gomock.Any(), userRepo.ByID(id), gomock.Any()).Return(userModel.User{}, nil)

		_, err := svc.Customer(context.Background(), admin, id)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.EqualError(t, err, service.MessageCustomerNotFound)
	})

	t.Run("guest id never reaches the database", func(t *testing.T) {
		svc, _, _ := newServiceWithUsers(t)

		_, err := svc.Customer(context.Background(), admin, "guest:siti@example.com")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("non admin", func(t *testing.T) {
		svc, _, _ := newServiceWithUsers(t)

		_, err := svc.Customer(context.Background(), user, id)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("query failure", func(t *testing.T) {
		svc, _, users := newServiceWithUsers(t)
		users.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("database error"))

		_, err := svc.Customer(context.Background(), admin, id)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}
