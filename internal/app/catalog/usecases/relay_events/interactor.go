package relay_events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// DefaultMaxRetries is used when the interactor is built with a
// non-positive retry budget.
const DefaultMaxRetries = 5

// Request sizes one relay batch.
type Request struct {
	BatchSize int
}

// Response counts what happened to the batch.
type Response struct {
	Published int
	Retrying  int
	Failed    int
}

// Interactor handles the relay events use case: pending outbox events are
// published and settled one at a time, oldest first.
type Interactor struct {
	queue      contracts.EventQueue
	publisher  contracts.EventPublisher
	clock      clock.Clock
	maxRetries int64
	logger     *zap.Logger
}

// NewInteractor creates a new relay events interactor.
func NewInteractor(queue contracts.EventQueue, publisher contracts.EventPublisher, clock clock.Clock, maxRetries int64, logger *zap.Logger) *Interactor {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Interactor{
		queue:      queue,
		publisher:  publisher,
		clock:      clock,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Execute relays one batch. A publish failure is recorded against its event
// and does not stop the batch; a queue failure does.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	events, err := i.queue.PendingEvents(ctx, req.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending events: %w", err)
	}

	resp := &Response{}
	for _, event := range events {
		pubErr := i.publisher.Publish(ctx, event)
		if pubErr == nil {
			if err := i.queue.MarkCompleted(ctx, event.EventID, i.clock.Now()); err != nil {
				return resp, err
			}
			resp.Published++
			continue
		}

		failed, err := i.queue.MarkAttemptFailed(ctx, event.EventID, pubErr.Error(), i.maxRetries, i.clock.Now())
		if err != nil {
			return resp, err
		}
		if failed {
			resp.Failed++
			i.logger.Error("Outbox event failed permanently",
				zap.String("event_id", event.EventID),
				zap.String("event_type", event.EventType),
				zap.Error(pubErr))
			continue
		}
		resp.Retrying++
		i.logger.Warn("Outbox event publish failed",
			zap.String("event_id", event.EventID),
			zap.Int64("attempt", event.RetryCount+1),
			zap.Error(pubErr))
	}
	return resp, nil
}
