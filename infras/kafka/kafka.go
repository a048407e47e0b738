package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cowork/config"
	"cowork/infras/otel"
	"cowork/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	gotel "go.opentelemetry.io/otel"
)

const (
	otelAttrTopic     = "kafka.topic"
	otelAttrCount     = "kafka.messages"
	otelAttrPartition = "kafka.partition"
	otelAttrOffset    = "kafka.offset"

	minBackoff = 200 * time.Millisecond
	maxBackoff = 5 * time.Second
)

var ErrEmptyTopic = errors.New("topic name cannot be empty")

// Message is a keyed JSON payload. Messages with the same key land on the same
// partition and are consumed in order.
type Message struct {
	Key   string
	Value any
}

func (m Message) encode(ctx context.Context, topic string) (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode message %q: %w", m.Key, err)
	}

	msg := kafkaGo.Message{Topic: topic, Key: []byte(m.Key), Value: value}
	gotel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg: &msg})

	return msg, nil
}

// Decode unmarshals the JSON payload of msg into T.
func Decode[T any](msg kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return value, fmt.Errorf("failed to decode message at offset %d: %w", msg.Offset, err)
	}

	return value, nil
}

// Handler processes one message. The offset is committed whatever it returns, an
// error is only logged and traced.
type Handler func(ctx context.Context, msg kafkaGo.Message) error

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	// Consume blocks until ctx is done, handing every message of topic to handler in order.
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error
	Close() error
}

type client struct {
	config *config.Config
	otel   otel.Otel
	dialer *kafkaGo.Dialer
	writer *kafkaGo.Writer
}

func New(cfg *config.Config, otl otel.Otel) Client {
	dialer := &kafkaGo.Dialer{DualStack: true}
	transport := &kafkaGo.Transport{}

	if cfg.Kafka.SASL.Username != constant.Empty {
		mechanism := plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}
		dialer.SASLMechanism = mechanism
		transport.SASL = mechanism
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Bool("enabled", cfg.Kafka.Enable).Msg("kafka client ready")

	return &client{
		config: cfg,
		otel:   otl,
		dialer: dialer,
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(cfg.Kafka.Brokers...),
			Transport:              transport,
			Balancer:               &kafkaGo.Hash{},
			RequiredAcks:           kafkaGo.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *client) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if topic == constant.Empty {
		return ErrEmptyTopic
	}

	scope.SetAttributes(map[string]any{otelAttrTopic: topic, otelAttrCount: len(messages)})

	batch := make([]kafkaGo.Message, len(messages))
	for i, message := range messages {
		if batch[i], err = message.encode(ctx, topic); err != nil {
			return err
		}
	}

	if err = k.writer.WriteMessages(ctx, batch...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to publish")

		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).Int("count", len(batch)).Msg("published")

	return nil
}

func (k *client) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error {
	if topic == constant.Empty {
		return ErrEmptyTopic
	}

	group := consumerGroup
	if group == constant.Empty {
		group = k.config.Kafka.ConsumerGroup
	}

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     group,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("failed to close reader")
		}
	}()

	backoff := minBackoff

	for {
		msg, err := reader.FetchMessage(ctx)
		if ctx.Err() != nil {
			return nil
		}

		if err != nil {
			log.Error().Err(err).Str("topic", topic).Dur("retry_in", backoff).Msg("fetch failed")

			if !sleep(ctx, backoff) {
				return nil
			}

			backoff = min(backoff*2, maxBackoff)

			continue
		}

		backoff = minBackoff

		k.handle(ctx, msg, handler)

		if err = reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Int64("offset", msg.Offset).Msg("commit failed")
		}
	}
}

func (k *client) handle(ctx context.Context, msg kafkaGo.Message, handler Handler) {
	ctx = gotel.GetTextMapPropagator().Extract(ctx, headerCarrier{msg: &msg})

	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".Consume")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		otelAttrTopic:     msg.Topic,
		otelAttrPartition: msg.Partition,
		otelAttrOffset:    msg.Offset,
	})

	if err := handler(ctx, msg); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("message not handled")
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (k *client) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}

	return nil
}
