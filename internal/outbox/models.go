// Package outbox implements the transactional outbox. Domain services append
// events inside their unit of work; a background worker drains unpublished
// rows to the broker. An event is therefore recorded if and only if the
// business write that produced it committed.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the domain services.
const (
	EventPurchaseEscrowed = "purchase.escrowed"
	EventNDASigned        = "nda.signed"
	EventWalletDeposited  = "wallet.deposited"
)

type Event struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       json.RawMessage
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// NewEvent builds an outbox event with a serialized payload.
func NewEvent(aggregateType, aggregateID, eventType string, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal outbox payload: %w", err)
	}
	return Event{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
		CreatedAt:     time.Now(),
	}, nil
}

type Store interface {
	// Append joins the ambient transaction when one is carried by ctx.
	Append(ctx context.Context, event Event) error
	// FetchUnpublished returns the oldest unpublished events, capped by limit.
	FetchUnpublished(ctx context.Context, limit int) ([]Event, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Publisher delivers a committed event to the broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}
