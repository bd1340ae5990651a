// Package kafka streams audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config selects the brokers and topic for audit events.
type Config struct {
	Brokers []string
	Topic   string
}

// AuditPublisher implements ports.AuditSink. Messages are keyed by account so
// a partition carries one account's events in order.
type AuditPublisher struct {
	writer messageWriter
	topic  string
}

func NewAuditPublisher(cfg Config) *AuditPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &AuditPublisher{writer: w, topic: cfg.Topic}
}

func (p *AuditPublisher) Record(ctx context.Context, event domain.AuthEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode auth event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ShardKey()),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish auth event to %s: %w", p.topic, err)
	}
	return nil
}

func (p *AuditPublisher) Close() error {
	return p.writer.Close()
}
