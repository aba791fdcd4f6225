package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
)

// defaultEventLimit applies when a filter sets no limit.
const defaultEventLimit = 100

// EventLog implements contracts.EventLog and contracts.EventQueue in memory.
type EventLog struct {
	s *Store
}

var (
	_ contracts.EventLog   = (*EventLog)(nil)
	_ contracts.EventQueue = (*EventLog)(nil)
)

// ListEvents returns the newest matching events first.
func (el *EventLog) ListEvents(ctx context.Context, filter *contracts.EventFilter) ([]*contracts.OutboxEvent, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if filter == nil {
		filter = &contracts.EventFilter{}
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}

	el.s.mu.RLock()
	defer el.s.mu.RUnlock()

	var (
		out   []*contracts.OutboxEvent
		total int64
	)
	for i := len(el.s.events) - 1; i >= 0; i-- {
		e := el.s.events[i]
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		if filter.AggregateID != "" && e.AggregateID != filter.AggregateID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		total++
		if len(out) < limit {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, total, nil
}

// PendingEvents returns up to limit pending events in insertion order.
func (el *EventLog) PendingEvents(ctx context.Context, limit int) ([]*contracts.OutboxEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultEventLimit
	}

	el.s.mu.RLock()
	defer el.s.mu.RUnlock()

	var out []*contracts.OutboxEvent
	for _, e := range el.s.events {
		if len(out) == limit {
			break
		}
		if e.Status == contracts.EventStatusPending {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MarkCompleted settles a delivered event.
func (el *EventLog) MarkCompleted(ctx context.Context, eventID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	el.s.mu.Lock()
	defer el.s.mu.Unlock()

	e, err := el.s.event(eventID)
	if err != nil {
		return err
	}
	e.Status = contracts.EventStatusCompleted
	e.ProcessedAt = at
	return nil
}

// MarkAttemptFailed counts a failed delivery of a pending event.
func (el *EventLog) MarkAttemptFailed(ctx context.Context, eventID, reason string, maxRetries int64, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	el.s.mu.Lock()
	defer el.s.mu.Unlock()

	e, err := el.s.event(eventID)
	if err != nil {
		return false, err
	}
	if e.Status != contracts.EventStatusPending {
		return false, nil
	}

	e.RetryCount++
	e.LastError = reason
	if e.RetryCount < maxRetries {
		return false, nil
	}
	e.Status = contracts.EventStatusFailed
	e.ProcessedAt = at
	return true, nil
}

// event finds a stored event. Callers hold the lock.
func (s *Store) event(eventID string) (*contracts.OutboxEvent, error) {
	for _, e := range s.events {
		if e.EventID == eventID {
			return e, nil
		}
	}
	return nil, fmt.Errorf("outbox event %s not found", eventID)
}
