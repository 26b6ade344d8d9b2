// Package notify publishes run notifications to Kafka so downstream
// consumers (dashboards, alerting) can follow what the promoter did.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Notification is the message shape written to the notifications topic.
type Notification struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher struct {
	client *kgo.Client
	topic  string
	logger logrus.FieldLogger
}

// NewPublisher creates a Kafka publisher for the given notifications topic.
func NewPublisher(brokers []string, topic string, logger logrus.FieldLogger) (*Publisher, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ClientID("blog-tweet"),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProducerLinger(10 * time.Millisecond),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &Publisher{
		client: client,
		topic:  topic,
		logger: logger,
	}, nil
}

// Publish writes one notification record, keyed by subject so consumers see
// notifications of the same kind in order.
func (p *Publisher) Publish(ctx context.Context, subject, message string) error {
	notification := Notification{
		ID:        uuid.NewString(),
		Subject:   subject,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	value, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(subject),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "subject", Value: []byte(subject)},
		},
	}

	produceCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result := p.client.ProduceSync(produceCtx, record)
	if err := result.FirstErr(); err != nil {
		return fmt.Errorf("failed to produce notification: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"subject": subject,
		"topic":   p.topic,
	}).Debug("Published notification")

	return nil
}

func (p *Publisher) Close() error {
	p.client.Close()
	return nil
}

// Client returns the underlying kgo.Client for health checks.
func (p *Publisher) Client() *kgo.Client {
	return p.client
}
