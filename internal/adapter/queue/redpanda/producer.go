// Package redpanda publishes recommendation generation events to
// Redpanda/Kafka topics.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// DefaultTopic receives recommendations.generated events.
const DefaultTopic = "recommendations-generated"

// EventType is the value of the event_type header on every record.
const EventType = "recommendations.generated"

// recordProducer is the subset of *kgo.Client used by Producer.
type recordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Producer publishes generation events and implements domain.EventPublisher.
type Producer struct {
	client recordProducer
	topic  string
}

var _ domain.EventPublisher = (*Producer)(nil)

// NewProducer connects to brokers and makes sure topic exists.
func NewProducer(ctx context.Context, brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("op=redpanda.NewProducer: %w: no seed brokers provided", domain.ErrConfiguration)
	}
	if topic == "" {
		topic = DefaultTopic
	}
	slog.Info("creating redpanda producer", slog.Any("brokers", brokers), slog.String("topic", topic))

	kotelService := kotel.NewKotel(
		kotel.WithTracer(kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))),
	)
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1000000),
		kgo.DialTimeout(10*time.Second),
		kgo.WithHooks(kotelService.Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("op=redpanda.NewProducer: %w", err)
	}

	if err := createTopicIfNotExists(ctx, client, topic, 1, 1); err != nil {
		slog.Warn("failed to create topic, it may already exist",
			slog.String("topic", topic),
			slog.Any("error", err))
	}
	return &Producer{client: client, topic: topic}, nil
}

// newRecord encodes ev keyed by user so a user's events stay ordered.
func newRecord(topic string, ev domain.GenerationEvent) (*kgo.Record, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(ev.UserID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "user_id", Value: []byte(ev.UserID)},
			{Key: "source", Value: []byte(ev.Source)},
			{Key: "ai_powered", Value: []byte(strconv.FormatBool(ev.AIPowered))},
		},
		Timestamp: ev.GeneratedAt,
	}, nil
}

// PublishGenerated writes ev and waits for the broker acknowledgement.
func (p *Producer) PublishGenerated(ctx domain.Context, ev domain.GenerationEvent) error {
	rec, err := newRecord(p.topic, ev)
	if err != nil {
		observability.RecordEventPublished(err)
		return fmt.Errorf("op=redpanda.publish.marshal: %w", err)
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		observability.RecordEventPublished(err)
		return fmt.Errorf("op=redpanda.publish: %w", err)
	}
	observability.RecordEventPublished(nil)
	slog.Debug("generation event published",
		slog.String("topic", p.topic),
		slog.String("user_id", ev.UserID),
		slog.Int("recommendations", len(ev.RecommendationIDs)))
	return nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

// PublishGenerated implements domain.EventPublisher.
func (NoopPublisher) PublishGenerated(domain.Context, domain.GenerationEvent) error { return nil }
