package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cowork/config"
	"cowork/infras/kafka"
	"cowork/infras/metrics"
	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/internal/domains/booking/model"
	"cowork/internal/domains/booking/model/dto"
	"cowork/internal/domains/booking/repository"
	paymentModel "cowork/internal/domains/payment/model"
	paymentRepo "cowork/internal/domains/payment/repository"
	roomRepo "cowork/internal/domains/room/repository"
	"cowork/shared"
	"cowork/shared/cache"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/principal"
	"cowork/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var (
	cacheGetBooking    = shared.BuildCacheKey(constant.CachePrefixBooking, "get")
	cacheGetAllBooking = shared.BuildCacheKey(constant.CachePrefixBooking, "gets")
	cacheUserBookings  = shared.BuildCacheKey(constant.CachePrefixBooking, "user")
)

const (
	MessageCreated = "Booking created successfully"
	MessageUpdated = "Booking updated successfully"
	MessageDeleted = "Booking deleted successfully"

	messageUserBookingsDeleted = "Successfully deleted %d booking records for the customer"

	messageLoginRequired     = "User must be logged in to create a booking"
	messageNotLoggedIn       = "User not logged in"
	messageNotFound          = "Booking not found"
	messageRoomNotFound      = "Room not found"
	messageRoomUnavailable   = "Room is not available"
	messagePriceMismatch     = "Price does not match the room rate"
	messageOverlap           = "Room is already booked for the selected dates"
	messageCancelOwnOnly     = "You can only cancel your own bookings"
	messageCancelConfirmed   = "You can only cancel confirmed bookings"
	messageAdminOnly         = "Only administrators can change booking status"
	messageCancelledTerminal = "Cancelled bookings cannot be changed"
	messageDeleteAdminOnly   = "Only administrators can delete bookings"
	messageDeleteConfirmed   = "Cannot delete confirmed booking"
	messageViewOwnOnly       = "You can only view your own bookings"
	messageListAdminOnly     = "Only administrators can list all bookings"
)

type Booking interface {
	Create(ctx context.Context, requester principal.Principal, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	UpdateStatus(ctx context.Context, requester principal.Principal, id int64, req dto.UpdateStatusRequest) error
	Delete(ctx context.Context, requester principal.Principal, id int64) error
	DeleteByUser(ctx context.Context, requester principal.Principal, userID string) (dto.DeleteUserBookingsResponse, error)
	Get(ctx context.Context, requester principal.Principal, id int64) (dto.BookingResponse, error)
	GetAll(ctx context.Context, requester principal.Principal, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	GetByUser(ctx context.Context, requester principal.Principal, userID string, params gDto.QueryParams) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	roomRepo    roomRepo.Room
	paymentRepo paymentRepo.Payment
	cfg         *config.Config
	cache       cache.RedisCache
	kafka       kafka.Client
	metrics     metrics.Metrics
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	paymentRepo paymentRepo.Payment,
	cfg *config.Config,
	cache cache.RedisCache,
	kafka kafka.Client,
	metrics metrics.Metrics,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		roomRepo:    roomRepo,
		paymentRepo: paymentRepo,
		cfg:         cfg,
		cache:       cache,
		kafka:       kafka,
		metrics:     metrics,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, requester principal.Principal, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	start, end, err := req.Dates()
	if err != nil {
		return res, err
	}

	if !requester.IsAuthenticated() {
		return res, failure.Unauthorized(messageLoginRequired) // nolint:wrapcheck
	}

	status, err := req.InitialStatus(requester)
	if err != nil {
		return res, err
	}

	room, err := s.roomRepo.Get(ctx, roomRepo.ByID(req.RoomID))
	if err != nil {
		log.Error().Err(err).Int64("room_id", req.RoomID).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return res, failure.NotFound(messageRoomNotFound) // nolint:wrapcheck
	}

	if !room.IsAvailable() {
		return res, failure.BadRequestFromString(messageRoomUnavailable) // nolint:wrapcheck
	}

	if s.cfg.App.Booking.EnforcePrice && req.Price != room.Price*model.Days(start, end) {
		return res, failure.BadRequestFromString(messagePriceMismatch) // nolint:wrapcheck
	}

	var booking model.Booking

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		overlap, err := s.repo.HasOverlapTx(ctx, tx, req.RoomID, start, end)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if overlap {
			return failure.Conflict(messageOverlap) // nolint:wrapcheck
		}

		paymentID, err := s.paymentRepo.InsertTxReturningID(ctx, tx, req.ToPaymentModel(requester.Username()))
		if err != nil {
			return err //nolint:wrapcheck
		}

		booking = req.ToModel(requester, paymentID, start, end, status)

		booking.ID, err = s.repo.InsertTxReturningID(ctx, tx, booking)

		return err //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Int64("room_id", req.RoomID).Msg("failed to create booking")

		return res, persistenceError("failed to create booking", err)
	}

	res = dto.CreateBookingResponse{
		Message:   MessageCreated,
		BookingID: booking.ID,
		PaymentID: booking.PaymentID,
	}

	s.afterCommit(ctx, model.Event{
		Type:          model.EventCreated,
		BookingID:     booking.ID,
		PaymentID:     booking.PaymentID,
		RoomID:        booking.RoomID,
		UserID:        booking.UserID,
		Status:        booking.Status,
		PaymentStatus: paymentModel.StatusPending,
	})

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, requester principal.Principal, id int64, req dto.UpdateStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	status, err := req.Normalized()
	if err != nil {
		return err
	}

	filter := repository.ByID(id)

	var (
		booking       model.Booking
		paymentStatus = paymentModel.StatusForBooking(status)
	)

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err = s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if booking.ID == 0 {
			return failure.NotFound(messageNotFound) // nolint:wrapcheck
		}

		if err = authorizeTransition(requester, booking, status); err != nil {
			return err
		}

		if booking.Status == status {
			return nil
		}

		if status == model.StatusConfirmed {
			overlap, err := s.repo.HasOverlapTx(ctx, tx, booking.RoomID, booking.StartDate, booking.EndDate)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if overlap {
				return failure.Conflict(messageOverlap) // nolint:wrapcheck
			}
		}

		user := requester.Username()

		if err = s.repo.UpdateTx(ctx, tx, shared.TransformFields(dto.StatusUpdate{Status: status}, user), filter); err != nil {
			return err //nolint:wrapcheck
		}

		return s.paymentRepo.UpdateTx( //nolint:wrapcheck
			ctx,
			tx,
			shared.TransformFields(dto.StatusUpdate{Status: paymentStatus}, user),
			paymentRepo.ByID(booking.PaymentID),
		)
	})
	if err != nil {
		log.Error().Err(err).Int64("booking_id", id).Str("status", status).Msg("failed to update booking status")

		return persistenceError("failed to update booking status", err)
	}

	if booking.Status == status {
		return nil
	}

	s.afterCommit(ctx, model.Event{
		Type:           model.EventStatusChanged,
		BookingID:      booking.ID,
		PaymentID:      booking.PaymentID,
		RoomID:         booking.RoomID,
		UserID:         booking.UserID,
		Status:         status,
		PreviousStatus: booking.Status,
		PaymentStatus:  paymentStatus,
	})

	return nil
}

// authorizeTransition applies the ownership and role rules for moving a booking to status.
func authorizeTransition(requester principal.Principal, booking model.Booking, status string) error {
	if status == model.StatusCancelled {
		if !requester.Owns(booking.UserID) {
			return failure.Forbidden(messageCancelOwnOnly) // nolint:wrapcheck
		}

		if booking.Status != model.StatusConfirmed {
			return failure.Forbidden(messageCancelConfirmed) // nolint:wrapcheck
		}

		return nil
	}

	if !requester.IsAdmin() {
		return failure.Forbidden(messageAdminOnly) // nolint:wrapcheck
	}

	if booking.IsTerminal() {
		return failure.Conflict(messageCancelledTerminal) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, requester principal.Principal, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !requester.IsAdmin() {
		return failure.Forbidden(messageDeleteAdminOnly) // nolint:wrapcheck
	}

	filter := repository.ByID(id)

	var booking model.Booking

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err = s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if booking.ID == 0 {
			return failure.NotFound(messageNotFound) // nolint:wrapcheck
		}

		if booking.Status == model.StatusConfirmed {
			return failure.Conflict(messageDeleteConfirmed) // nolint:wrapcheck
		}

		if err = s.repo.DeleteTx(ctx, tx, filter); err != nil {
			return err //nolint:wrapcheck
		}

		return s.paymentRepo.DeleteTx(ctx, tx, paymentRepo.ByID(booking.PaymentID)) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Int64("booking_id", id).Msg("failed to delete booking")

		return persistenceError("failed to delete booking", err)
	}

	s.afterCommit(ctx, model.Event{
		Type:          model.EventDeleted,
		BookingID:     booking.ID,
		PaymentID:     booking.PaymentID,
		RoomID:        booking.RoomID,
		UserID:        booking.UserID,
		Status:        booking.Status,
		PaymentStatus: paymentModel.StatusForBooking(booking.Status),
	})

	return nil
}

// DeleteByUser removes every booking of a customer that is not confirmed, with its payment,
// in one transaction. Confirmed bookings stay and are counted as kept.
func (s *serviceImpl) DeleteByUser(ctx context.Context, requester principal.Principal, userID string) (res dto.DeleteUserBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.DeleteByUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !requester.IsAuthenticated() {
		return res, failure.Unauthorized(messageNotLoggedIn) // nolint:wrapcheck
	}

	if !requester.IsAdmin() {
		return res, failure.Forbidden(messageDeleteAdminOnly) // nolint:wrapcheck
	}

	var deleted []model.Booking

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		bookings, err := s.repo.GetAllForUpdateTx(ctx, tx, repository.ByUser(userID))
		if err != nil {
			return err //nolint:wrapcheck
		}

		var ids, paymentIDs []int64

		for _, booking := range bookings {
			if booking.Status == model.StatusConfirmed {
				res.Kept++

				continue
			}

			deleted = append(deleted, booking)
			ids = append(ids, booking.ID)
			paymentIDs = append(paymentIDs, booking.PaymentID)
		}

		if len(ids) == 0 {
			return nil
		}

		if err = s.repo.DeleteTx(ctx, tx, repository.ByIDs(ids)); err != nil {
			return err //nolint:wrapcheck
		}

		return s.paymentRepo.DeleteTx(ctx, tx, paymentRepo.ByIDs(paymentIDs)) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to delete customer bookings")

		return dto.DeleteUserBookingsResponse{}, persistenceError("failed to delete customer bookings", err)
	}

	for _, booking := range deleted {
		s.afterCommit(ctx, model.Event{
			Type:          model.EventDeleted,
			BookingID:     booking.ID,
			PaymentID:     booking.PaymentID,
			RoomID:        booking.RoomID,
			UserID:        booking.UserID,
			Status:        booking.Status,
			PaymentStatus: paymentModel.StatusForBooking(booking.Status),
		})
	}

	res.Deleted = len(deleted)
	res.Message = fmt.Sprintf(messageUserBookingsDeleted, res.Deleted)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, requester principal.Principal, id int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !requester.IsAuthenticated() {
		return res, failure.Unauthorized(messageNotLoggedIn) // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, authorizeView(requester, res.UserID)
	}

	booking, err := s.repo.Get(ctx, repository.ByID(id))
	if err != nil {
		log.Error().Err(err).Int64("booking_id", id).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound(messageNotFound) // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	if err = authorizeView(requester, res.UserID); err != nil {
		return dto.BookingResponse{}, err
	}

	return res, nil
}

func authorizeView(requester principal.Principal, owner *string) error {
	if requester.IsAdmin() || requester.Owns(owner) {
		return nil
	}

	return failure.Forbidden(messageViewOwnOnly) // nolint:wrapcheck
}

func (s *serviceImpl) GetAll(ctx context.Context, requester principal.Principal, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !requester.IsAuthenticated() {
		return res, failure.Unauthorized(messageNotLoggedIn) // nolint:wrapcheck
	}

	if !requester.IsAdmin() {
		return res, failure.Forbidden(messageListAdminOnly) // nolint:wrapcheck
	}

	return s.list(ctx, cacheGetAllBooking, params, gDto.FilterGroup{})
}

func (s *serviceImpl) GetByUser(ctx context.Context, requester principal.Principal, userID string, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetByUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !requester.IsAuthenticated() {
		return res, failure.Unauthorized(messageNotLoggedIn) // nolint:wrapcheck
	}

	if err = authorizeView(requester, &userID); err != nil {
		return res, err
	}

	res, err = s.list(ctx, cacheUserBookings, params, repository.ByUser(userID))
	if err != nil {
		return res, err
	}

	// A user's own listing does not repeat their identity on every row.
	for i := range res.Bookings {
		res.Bookings[i].UserName = nil
		res.Bookings[i].UserEmail = nil
	}

	return res, nil
}

func (s *serviceImpl) list(ctx context.Context, prefix string, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	params.SortBy = model.FieldCreatedAt
	params.SortDir = gDto.SortDirDesc

	cacheKey := shared.BuildCacheKeyWithQuery(prefix, params, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

// afterCommit runs the side effects of a committed change. None of them can fail the request.
// The booking's own cache entry is dropped before returning; the rest happens in the background.
func (s *serviceImpl) afterCommit(ctx context.Context, event model.Event) {
	event.OccurredAt = timezone.Now()

	s.metrics.BookingEvent(event.Type)

	log.Info().
		Str("event", event.Type).
		Int64("booking_id", event.BookingID).
		Str("status", event.Status).
		Msg("booking lifecycle event")

	// A read right after the response must not see the old status.
	if err := s.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(cacheGetBooking, event.BookingID)); err != nil {
		log.Error().Err(err).Int64("booking_id", event.BookingID).Msg("failed to delete booking from cache")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheUserBookings)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixReport)

		if !s.cfg.Kafka.Enable {
			return
		}

		message := kafka.Message{Key: strconv.FormatInt(event.RoomID, 10), Value: event}
		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.Booking, message); err != nil {
			log.Error().Err(err).Str("event", event.Type).Msg("failed to publish booking event")
		}
	}()
}

// persistenceError keeps domain failures intact. Overlaps become 409 and a vanished room 404.
func persistenceError(msg string, err error) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	switch {
	case postgres.IsViolation(err, postgres.ExclusionViolation):
		return failure.Conflict(messageOverlap) // nolint:wrapcheck
	case postgres.IsViolation(err, postgres.ForeignKeyViolation):
		return failure.NotFound(messageRoomNotFound) // nolint:wrapcheck
	}

	return fmt.Errorf("%s: %w", msg, err)
}
