package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/models/m_outbox"
	"github.com/light-bringer/markup-catalog/internal/pkg/query"
)

// defaultEventLimit applies when a filter sets no limit.
const defaultEventLimit = 100

// EventLog implements contracts.EventLog and contracts.EventQueue over the
// outbox_events table.
type EventLog struct {
	client *spanner.Client
	model  *m_outbox.Model
}

// NewEventLog creates a new EventLog.
func NewEventLog(client *spanner.Client) *EventLog {
	return &EventLog{client: client, model: m_outbox.NewModel()}
}

var (
	_ contracts.EventLog   = (*EventLog)(nil)
	_ contracts.EventQueue = (*EventLog)(nil)
)

// ListEvents retrieves events from the outbox, newest first, with the total
// number matching the filter.
func (r *EventLog) ListEvents(ctx context.Context, filter *contracts.EventFilter) ([]*contracts.OutboxEvent, int64, error) {
	if filter == nil {
		filter = &contracts.EventFilter{}
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}

	q := query.From(m_outbox.TableName)
	if filter.EventType != "" {
		q = q.Where(query.Eq(m_outbox.EventType, filter.EventType))
	}
	if filter.AggregateID != "" {
		q = q.Where(query.Eq(m_outbox.AggregateID, filter.AggregateID))
	}
	if filter.Status != "" {
		q = q.Where(query.Eq(m_outbox.Status, filter.Status))
	}

	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	total, err := count(ctx, txn, q.Count().Build())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	stmt := q.
		Select(m_outbox.AllColumns()...).
		OrderBy(m_outbox.CreatedAt, query.Desc).
		OrderBy(m_outbox.EventID, query.Asc).
		Limit(int64(limit)).
		Build()

	events, err := readEvents(txn.Query(ctx, stmt))
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func pendingEventsStmt(limit int) spanner.Statement {
	return query.From(m_outbox.TableName).
		Select(m_outbox.AllColumns()...).
		Where(query.Eq(m_outbox.Status, contracts.EventStatusPending)).
		OrderBy(m_outbox.CreatedAt, query.Asc).
		OrderBy(m_outbox.EventID, query.Asc).
		Limit(int64(limit)).
		Build()
}

// PendingEvents returns up to limit pending events, oldest first.
func (r *EventLog) PendingEvents(ctx context.Context, limit int) ([]*contracts.OutboxEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	return readEvents(r.client.Single().Query(ctx, pendingEventsStmt(limit)))
}

// MarkCompleted settles a delivered event.
func (r *EventLog) MarkCompleted(ctx context.Context, eventID string, at time.Time) error {
	mut := r.model.SettleMut(eventID, contracts.EventStatusCompleted, at)
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{mut}); err != nil {
		return fmt.Errorf("failed to complete event %s: %w", eventID, err)
	}
	return nil
}

// MarkAttemptFailed increments the retry count inside a read-write
// transaction. Events that are no longer pending are left alone.
func (r *EventLog) MarkAttemptFailed(ctx context.Context, eventID, reason string, maxRetries int64, at time.Time) (bool, error) {
	var failed bool
	_, err := r.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		failed = false
		row, err := txn.ReadRow(ctx, m_outbox.TableName, spanner.Key{eventID}, []string{m_outbox.Status, m_outbox.RetryCount})
		if err != nil {
			return err
		}
		var (
			status  string
			retries int64
		)
		if err := row.Columns(&status, &retries); err != nil {
			return err
		}
		if status != contracts.EventStatusPending {
			return nil
		}

		retries++
		failed = retries >= maxRetries
		next := contracts.EventStatusPending
		if failed {
			next = contracts.EventStatusFailed
		}
		return txn.BufferWrite([]*spanner.Mutation{r.model.RetryMut(eventID, next, reason, retries, at, failed)})
	})
	if err != nil {
		return false, fmt.Errorf("failed to record attempt for event %s: %w", eventID, err)
	}
	return failed, nil
}

func readEvents(iter *spanner.RowIterator) ([]*contracts.OutboxEvent, error) {
	defer iter.Stop()

	var events []*contracts.OutboxEvent
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate events: %w", err)
		}

		var data m_outbox.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		events = append(events, &contracts.OutboxEvent{
			EventID:     data.EventID,
			EventType:   data.EventType,
			AggregateID: data.AggregateID,
			Payload:     data.Payload.String(),
			Status:      data.Status,
			CreatedAt:   data.CreatedAt,
			ProcessedAt: data.ProcessedAt.Time,
			RetryCount:  data.RetryCount,
			LastError:   data.ErrorMessage.StringVal,
		})
	}
	return events, nil
}
