package list_events

import (
	"context"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
)

// Request contains the filter for listing events.
type Request struct {
	EventType   string
	AggregateID string
	Status      string
	Limit       int
}

// Response contains the list of events.
type Response struct {
	Events     []*contracts.OutboxEvent
	TotalCount int64
}

// Query handles the list events query use case.
type Query struct {
	events contracts.EventLog
}

// NewQuery creates a new list events query.
func NewQuery(events contracts.EventLog) *Query {
	return &Query{
		events: events,
	}
}

// Execute retrieves outbox events, newest first.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	events, total, err := q.events.ListEvents(ctx, &contracts.EventFilter{
		EventType:   req.EventType,
		AggregateID: req.AggregateID,
		Status:      req.Status,
		Limit:       req.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &Response{
		Events:     events,
		TotalCount: total,
	}, nil
}
