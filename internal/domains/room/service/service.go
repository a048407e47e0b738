package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"

	"cowork/config"
	"cowork/infras/otel"
	"cowork/infras/s3"
	bookingRepo "cowork/internal/domains/booking/repository"
	"cowork/internal/domains/room/model"
	"cowork/internal/domains/room/model/dto"
	"cowork/internal/domains/room/repository"
	"cowork/shared"
	"cowork/shared/cache"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/principal"
	"cowork/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	cacheGetRoom    = shared.BuildCacheKey(constant.CachePrefixRoom, "get")
	cacheGetAllRoom = shared.BuildCacheKey(constant.CachePrefixRoom, "gets")
)

const (
	messageRoomNotFound  = "Room not found"
	messageLoginRequired = "User not logged in"
	messageAdminOnly     = "Only administrators can manage rooms"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (int64, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Get(ctx context.Context, id int64) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id int64) error
	// Delete retires a room. Rooms referenced by bookings are renamed and made unavailable
	// instead of being removed; softDeleted reports which path was taken.
	Delete(ctx context.Context, id int64) (softDeleted bool, err error)
}

type serviceImpl struct {
	repo        repository.Room
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(repo repository.Room, bookingRepo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Room {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		s3:          s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (id int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = authorize(ctx); err != nil {
		return 0, err
	}

	user := principal.FromContext(ctx).Username()

	imageURL, objectName, err := s.uploadImage(ctx, req.ImageFile, req.Image)
	if err != nil {
		return 0, err
	}

	id, err = s.repo.InsertReturningID(ctx, req.ToModel(user, imageURL))
	if err != nil {
		log.Error().Err(err).Msg("failed to create room")
		s.discardImage(ctx, objectName)

		return 0, fmt.Errorf("failed to create room: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixReport)
	}()

	return id, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.SortBy == constant.Empty {
		req.SortBy = model.FieldRoomName
		req.SortDir = gDto.SortDirAsc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.lookup(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) lookup(ctx context.Context, id int64) (model.Room, error) {
	room, err := s.repo.Get(ctx, repository.ByID(id))
	if err != nil {
		log.Error().Err(err).Int64("room_id", id).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return room, failure.NotFound(messageRoomNotFound) // nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = authorize(ctx); err != nil {
		return err
	}

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	current, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}

	imageURL, objectName, err := s.uploadImage(ctx, req.ImageFile, req.Image)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, principal.FromContext(ctx).Username())
	if imageURL != constant.Empty {
		updatedFields[model.FieldImageURL] = imageURL
	}

	filter := repository.ByID(id)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Int64("room_id", id).Msg("failed to update room")
		s.discardImage(ctx, objectName)

		return fmt.Errorf("failed to update room: %w", err)
	}

	if imageURL != constant.Empty && current.ImageURL != constant.Empty {
		s.discardImage(ctx, s.s3.ObjectNameFromURL(model.EntityName, current.ImageURL))
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (softDeleted bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = authorize(ctx); err != nil {
		return false, err
	}

	room, err := s.lookup(ctx, id)
	if err != nil {
		return false, err
	}

	hasBookings, err := s.bookingRepo.Exist(ctx, bookingRepo.ByRoom(id))
	if err != nil {
		log.Error().Err(err).Int64("room_id", id).Msg("failed to check room bookings")

		return false, fmt.Errorf("failed to check room bookings: %w", err)
	}

	filter := repository.ByID(id)

	if hasBookings {
		fields := shared.TransformFields(dto.UpdateRoomRequest{
			RoomName: model.DeletedName(room.RoomName, timezone.Now()),
			Status:   model.StatusUnavailable,
		}, principal.FromContext(ctx).Username())

		if err = s.repo.Update(ctx, fields, filter); err != nil {
			log.Error().Err(err).Int64("room_id", id).Msg("failed to soft delete room")

			return false, fmt.Errorf("failed to soft delete room: %w", err)
		}

		s.invalidate(ctx, id)

		return true, nil
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Int64("room_id", id).Msg("failed to delete room")

		return false, fmt.Errorf("failed to delete room: %w", err)
	}

	if room.ImageURL != constant.Empty {
		s.discardImage(ctx, s.s3.ObjectNameFromURL(model.EntityName, room.ImageURL))
	}

	s.invalidate(ctx, id)

	return false, nil
}

// authorize repeats the admin rule of the route so the catalog stays closed even when
// the permission table misses a path.
func authorize(ctx context.Context) error {
	caller := principal.FromContext(ctx)

	switch {
	case !caller.IsAuthenticated():
		return failure.Unauthorized(messageLoginRequired) // nolint:wrapcheck
	case !caller.IsAdmin():
		return failure.Forbidden(messageAdminOnly) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) uploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (url, objectName string, err error) {
	if header == nil {
		return constant.Empty, constant.Empty, nil
	}

	objectName = uuid.NewString() + path.Ext(header.Filename)

	url, err = s.s3.UploadFile(ctx, model.EntityName, file, header, objectName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room image")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, objectName, nil
}

func (s *serviceImpl) discardImage(ctx context.Context, objectName string) {
	if objectName == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(ctx, model.EntityName, objectName); err != nil {
		log.Error().Err(err).Str("object", objectName).Msg("failed to delete room image")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixBooking)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixReport)
	}()
}
