// Package events consumes document change notifications from Kafka and keeps
// the in-process index in sync with the backing store. It lets external
// writers (admin tooling, batch imports) mutate the corpus without going
// through this service's HTTP API.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/securedesk/policysearch/config"
)

// Event is a single document change notification.
type Event struct {
	Action     string `json:"action"` // "upserted" or "deleted"
	DocumentID uint   `json:"document_id"`
}

// Known event actions.
const (
	ActionUpserted = "upserted"
	ActionDeleted  = "deleted"
)

// Applier applies document changes to the live index.
type Applier interface {
	ApplyUpsert(ctx context.Context, id uint) error
	ApplyRemove(ctx context.Context, id uint) error
}

// Consumer reads document events from a Kafka topic and applies them.
type Consumer struct {
	reader  *kafka.Reader
	applier Applier
}

// NewConsumer creates a Consumer for the configured document-events topic.
func NewConsumer(cfg config.KafkaConfig, applier Applier) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.DocumentEvents,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1e3,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	return &Consumer{reader: r, applier: applier}
}

// Start enters the consume loop until ctx is cancelled. Messages that fail
// to apply are logged and skipped rather than retried, since the next full
// rebuild reconciles the index with the store.
func (c *Consumer) Start(ctx context.Context) error {
	log.Printf("document events: consuming from %s", c.reader.Config().Topic)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return c.reader.Close()
			}
			log.Printf("document events: fetch failed: %v", err)
			continue
		}

		if err := c.handle(ctx, msg.Value); err != nil {
			log.Printf("document events: apply failed (offset %d): %v", msg.Offset, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Printf("document events: commit failed (offset %d): %v", msg.Offset, err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, value []byte) error {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("decoding document event: %w", err)
	}

	switch event.Action {
	case ActionUpserted:
		return c.applier.ApplyUpsert(ctx, event.DocumentID)
	case ActionDeleted:
		return c.applier.ApplyRemove(ctx, event.DocumentID)
	default:
		return fmt.Errorf("unknown document event action %q", event.Action)
	}
}

// Close closes the underlying Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
