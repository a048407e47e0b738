package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"cowork/infras/otel"
	"cowork/infras/postgres"
	bookingModel "cowork/internal/domains/booking/model"
	"cowork/internal/domains/report/model"
	"cowork/shared/constant"
	"cowork/shared/logger"
)

const (
	querySummary = `SELECT
		(SELECT COUNT(*) FROM bookings) AS total_bookings,
		(SELECT COUNT(*) FROM bookings WHERE status = $1 AND start_date <= $2 AND end_date >= $2) AS active_today,
		(SELECT COUNT(*) FROM rooms) AS total_rooms`

	queryRoomActivity = `SELECT r.id, r.room_name, r.price, r.status,
		COUNT(b.id) AS total_bookings,
		COUNT(b.id) FILTER (WHERE b.status = $1 AND b.start_date <= $2 AND b.end_date >= $2) AS today_bookings
	FROM rooms r
	LEFT JOIN bookings b ON b.room_id = r.id
	GROUP BY r.id
	ORDER BY r.room_name`

	queryRecentBookings = `SELECT b.id,
		COALESCE(u.name, b.name) AS customer,
		COALESCE(u.email, b.email) AS email,
		r.room_name, b.start_date, b.end_date, b.status, b.price, b.payment
	FROM bookings b
	JOIN rooms r ON r.id = b.room_id
	LEFT JOIN users u ON u.id = b.user_id
	ORDER BY b.created_at DESC, b.id DESC
	LIMIT $1`

	// Guests have no account, so their bookings are grouped by the (name, email) they typed.
	queryCustomers = `SELECT
		u.id AS user_id,
		MIN(COALESCE(u.name, b.name)) AS name,
		MIN(COALESCE(u.email, b.email)) AS email,
		MIN(COALESCE(u.phone_number, b.phone_number)) AS phone_number,
		COUNT(b.id) AS total_bookings,
		COALESCE(SUM(b.price), 0) AS total_spent,
		MAX(b.created_at) AS latest_booking_at,
		COUNT(b.id) FILTER (WHERE b.created_at >= $1) AS bookings_this_month
	FROM bookings b
	LEFT JOIN users u ON u.id = b.user_id
	GROUP BY u.id,
		CASE WHEN u.id IS NULL THEN b.name END,
		CASE WHEN u.id IS NULL THEN b.email END
	ORDER BY latest_booking_at DESC`
)

type Report interface {
	Summary(ctx context.Context, today time.Time) (model.Summary, error)
	RoomActivity(ctx context.Context, today time.Time) ([]model.RoomActivity, error)
	RecentBookings(ctx context.Context, limit int) ([]model.RecentBooking, error)
	Customers(ctx context.Context, monthStart time.Time) ([]model.Customer, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Report {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (r *repositoryImpl) Summary(ctx context.Context, today time.Time) (res model.Summary, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.Summary")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, querySummary)

	if err = r.db.Read.GetContext(ctx, &res, querySummary, bookingModel.StatusConfirmed, today); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return res, fmt.Errorf("failed to get booking summary: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) RoomActivity(ctx context.Context, today time.Time) ([]model.RoomActivity, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.RoomActivity")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryRoomActivity)

	rooms := []model.RoomActivity{}
	if err := r.db.Read.SelectContext(ctx, &rooms, queryRoomActivity, bookingModel.StatusConfirmed, today); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get room activity: %w", err)
	}

	return rooms, nil
}

func (r *repositoryImpl) RecentBookings(ctx context.Context, limit int) ([]model.RecentBooking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.RecentBookings")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryRecentBookings)

	bookings := []model.RecentBooking{}
	if err := r.db.Read.SelectContext(ctx, &bookings, queryRecentBookings, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get recent bookings: %w", err)
	}

	return bookings, nil
}

func (r *repositoryImpl) Customers(ctx context.Context, monthStart time.Time) ([]model.Customer, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.Customers")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryCustomers)

	customers := []model.Customer{}
	if err := r.db.Read.SelectContext(ctx, &customers, queryCustomers, monthStart); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get customers: %w", err)
	}

	return customers, nil
}
