package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
)

// Outbox event statuses
const (
	EventStatusPending   = "pending"
	EventStatusCompleted = "completed"
	EventStatusFailed    = "failed"
)

// OutboxEvent represents an enriched domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
	CreatedAt   time.Time
	ProcessedAt time.Time
	RetryCount  int64
	LastError   string
}

// NewOutboxEvent converts a domain event to a pending outbox event with a JSON
// payload.
func NewOutboxEvent(event domain.DomainEvent) (*OutboxEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s event: %w", event.EventType(), err)
	}
	return &OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     string(data),
		Status:      EventStatusPending,
	}, nil
}

// NewOutboxEvents converts every pending domain event.
func NewOutboxEvents(events []domain.DomainEvent) ([]*OutboxEvent, error) {
	out := make([]*OutboxEvent, 0, len(events))
	for _, event := range events {
		oe, err := NewOutboxEvent(event)
		if err != nil {
			return nil, err
		}
		out = append(out, oe)
	}
	return out, nil
}

// EventFilter narrows an outbox listing. Empty fields match everything.
type EventFilter struct {
	EventType   string
	AggregateID string
	Status      string
	Limit       int
}

// EventLog reads the outbox, newest first.
type EventLog interface {
	// ListEvents returns at most filter.Limit events and the total number
	// matching the filter
	ListEvents(ctx context.Context, filter *EventFilter) ([]*OutboxEvent, int64, error)
}

// EventQueue feeds pending outbox events to the relay and records each
// delivery attempt. Settled events keep their row until cleanup_outbox
// removes them.
type EventQueue interface {
	// PendingEvents returns up to limit pending events, oldest first.
	PendingEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)

	// MarkCompleted settles a delivered event.
	MarkCompleted(ctx context.Context, eventID string, at time.Time) error

	// MarkAttemptFailed counts a failed delivery and records reason. The
	// event moves to failed once its retry count reaches maxRetries; it
	// reports whether that happened.
	MarkAttemptFailed(ctx context.Context, eventID, reason string, maxRetries int64, at time.Time) (bool, error)
}

// EventPublisher delivers one outbox event downstream.
type EventPublisher interface {
	Publish(ctx context.Context, event *OutboxEvent) error
}
