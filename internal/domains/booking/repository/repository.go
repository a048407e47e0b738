package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/internal/domains/booking/model"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/logger"
	gRepo "cowork/shared/repository"

	"github.com/jmoiron/sqlx"
)

const (
	queryLockRoom = `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`

	// Inclusive ranges: [a1, a2] and [b1, b2] intersect when a1 <= b2 AND b1 <= a2.
	queryHasOverlap = `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE room_id = $1
		AND status = $2
		AND start_date <= $4
		AND end_date >= $3
	)`
)

type Booking interface {
	WithTransaction(ctx context.Context, fn gRepo.TxFunc) error
	InsertTxReturningID(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Booking, error)
	GetAllForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) ([]model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	HasOverlapTx(ctx context.Context, sqltx *sqlx.Tx, roomID int64, start, end time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// HasOverlapTx serializes bookings of one room by locking its row, then reports whether a
// confirmed booking already covers any day of [start, end].
func (r *repositoryImpl) HasOverlapTx(ctx context.Context, sqltx *sqlx.Tx, roomID int64, start, end time.Time) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasOverlapTx")
	defer scope.End()

	var lockedID int64
	if err := sqltx.GetContext(ctx, &lockedID, queryLockRoom, roomID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to lock room (%d): %w", roomID, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryHasOverlap)

	var overlap bool
	if err := sqltx.GetContext(ctx, &overlap, queryHasOverlap, roomID, model.StatusConfirmed, start, end); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	return overlap, nil
}
