package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/relay_events"
	"github.com/light-bringer/markup-catalog/internal/metrics"
)

// Relay drains the outbox on a fixed interval.
type Relay struct {
	interactor *relay_events.Interactor
	interval   time.Duration
	batchSize  int
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// Run relays until ctx is done. A zero interval returns immediately.
func (r *Relay) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("Outbox relay disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Outbox relay started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			r.Drain(ctx)
		}
	}
}

// Drain relays full batches back to back. It stops after a short batch, or
// after a batch with a retry, which waits for the next tick.
func (r *Relay) Drain(ctx context.Context) {
	for ctx.Err() == nil {
		resp, err := r.interactor.Execute(ctx, &relay_events.Request{BatchSize: r.batchSize})
		if resp != nil {
			r.metrics.RecordOutboxEvents("published", resp.Published)
			r.metrics.RecordOutboxEvents("retrying", resp.Retrying)
			r.metrics.RecordOutboxEvents("failed", resp.Failed)
		}
		if err != nil {
			r.logger.Error("Outbox relay failed", zap.Error(err))
			return
		}
		if resp.Retrying > 0 || resp.Published+resp.Failed < r.batchSize {
			return
		}
	}
}
