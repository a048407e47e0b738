package event

import (
	"context"

	"cowork/config"
	"cowork/infras/kafka"
	"cowork/infras/otel"
	bookingModel "cowork/internal/domains/booking/model"
	"cowork/shared"
	"cowork/shared/cache"
	"cowork/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Worker consumes booking lifecycle events and drops every cached read model they affect.
type Worker struct {
	config *config.Config
	kafka  kafka.Client
	cache  cache.RedisCache
	otel   otel.Otel
}

func New(cfg *config.Config, client kafka.Client, redisCache cache.RedisCache, otl otel.Otel) *Worker {
	return &Worker{
		config: cfg,
		kafka:  client,
		cache:  redisCache,
		otel:   otl,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if !w.config.Kafka.Enable {
		log.Warn().Msg("Kafka is disabled, booking event worker has nothing to consume")

		return
	}

	log.Info().
		Str("topic", w.config.Kafka.Topics.Booking).
		Str("group", w.config.Kafka.ConsumerGroup).
		Msg("Starting booking event worker")

	if err := w.kafka.Consume(ctx, w.config.Kafka.ConsumerGroup, w.config.Kafka.Topics.Booking, w.Handle); err != nil {
		log.Error().Err(err).Msg("booking event consumer stopped")
	}

	if err := w.kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client")
	}

	if err := w.otel.Shutdown(context.WithoutCancel(ctx)); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}

// Handle applies one booking event. Malformed payloads are reported and skipped.
func (w *Worker) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.Handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, err := kafka.Decode[bookingModel.Event](message)
	if err != nil {
		return err //nolint:wrapcheck
	}

	scope.SetAttributes(map[string]any{
		"event.type":       event.Type,
		"event.booking_id": event.BookingID,
		"event.room_id":    event.RoomID,
	})

	switch event.Type {
	case bookingModel.EventCreated, bookingModel.EventStatusChanged, bookingModel.EventDeleted:
		shared.InvalidateCaches(ctx, w.cache, constant.CachePrefixBooking)
		shared.InvalidateCaches(ctx, w.cache, constant.CachePrefixReport)
	default:
		log.Warn().Str("event", event.Type).Msg("ignoring unknown booking event")

		return nil
	}

	log.Info().
		Str("event", event.Type).
		Int64("booking_id", event.BookingID).
		Str("status", event.Status).
		Str("previous_status", event.PreviousStatus).
		Msg("booking event applied")

	return nil
}
