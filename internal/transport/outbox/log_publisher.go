// Package outbox delivers relayed outbox events.
package outbox

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
)

// ErrInvalidPayload is returned for events whose payload is not JSON.
var ErrInvalidPayload = errors.New("event payload is not valid JSON")

// LogPublisher writes each event as one structured log entry, for log-based
// pipelines that ship the service's output to a broker.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

var _ contracts.EventPublisher = (*LogPublisher)(nil)

// Publish logs the event at info level.
func (p *LogPublisher) Publish(ctx context.Context, event *contracts.OutboxEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !json.Valid([]byte(event.Payload)) {
		return ErrInvalidPayload
	}

	p.logger.Info("Domain event",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("aggregate_id", event.AggregateID),
		zap.Time("created_at", event.CreatedAt),
		zap.Any("payload", json.RawMessage(event.Payload)),
	)
	return nil
}
