package event_test

import (
	"context"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"cowork/config"
	kafkaMocks "cowork/infras/kafka/mocks"
	"cowork/infras/otel/mocks"
	cacheMocks "cowork/shared/cache/mocks"
	"cowork/transport/event"
)

func TestWorker_Handle(t *testing.T) {
	t.Run("lifecycle event clears derived caches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redis := cacheMocks.NewMockRedisCache(ctrl)
		redis.EXPECT().Clear(gomock.Any(), "booking*").Return(nil)
		redis.EXPECT().Clear(gomock.Any(), "report*").Return(nil)

		w := event.New(&config.Config{}, kafkaMocks.NewMockClient(ctrl), redis, mocks.NewOtel())
		err := w.Handle(context.Background(), kafkaGo.Message{
			Value: []byte(`{"type":"booking.status_changed","booking_id":7,"room_id":3,"status":"cancelled","previous_status":"confirmed"}`),
		})
		assert.NoError(t, err)
	})

	t.Run("unknown event is ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		w := event.New(&config.Config{}, kafkaMocks.NewMockClient(ctrl), cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())
		assert.NoError(t, w.Handle(context.Background(), kafkaGo.Message{Value: []byte(`{"type":"room.renamed"}`)}))
	})

	t.Run("malformed payload is dropped", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		w := event.New(&config.Config{}, kafkaMocks.NewMockClient(ctrl), cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())
		assert.Error(t, w.Handle(context.Background(), kafkaGo.Message{Value: []byte(`{`)}))
	})
}

func TestWorker_Run(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		w := event.New(&config.Config{}, kafkaMocks.NewMockClient(ctrl), cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())
		w.Run(context.Background())
	})

	t.Run("consumes the booking topic", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		cfg := &config.Config{}
		cfg.Kafka.Enable = true
		cfg.Kafka.ConsumerGroup = "cowork-worker"
		cfg.Kafka.Topics.Booking = "cowork.bookings"

		client.EXPECT().Consume(gomock.Any(), "cowork-worker", "cowork.bookings", gomock.Any()).Return(nil)
		client.EXPECT().Close().Return(nil)

		event.New(cfg, client, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel()).Run(context.Background())
	})
}
