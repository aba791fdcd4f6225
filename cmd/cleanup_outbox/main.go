// Command cleanup_outbox deletes catalog events the outbox relay has settled
// (completed or failed) once they are older than their retention window.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/config"
	"github.com/light-bringer/markup-catalog/internal/models/m_outbox"
	"github.com/light-bringer/markup-catalog/internal/pkg/logger"
)

// Options configures one cleanup run.
type Options struct {
	Database               string
	CompletedRetentionDays int
	FailedRetentionDays    int
	DryRun                 bool
}

// cutoffs are the processed_at bounds below which events are removed.
type cutoffs struct {
	completed time.Time
	failed    time.Time
}

func newCutoffs(now time.Time, opts Options) cutoffs {
	now = now.UTC()
	return cutoffs{
		completed: now.AddDate(0, 0, -opts.CompletedRetentionDays),
		failed:    now.AddDate(0, 0, -opts.FailedRetentionDays),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	opts := Options{}
	flag.StringVar(&opts.Database, "database", cfg.Store.SpannerDatabase, "Spanner database (format: projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	flag.IntVar(&opts.CompletedRetentionDays, "completed-retention", 30, "Retention days for completed events")
	flag.IntVar(&opts.FailedRetentionDays, "failed-retention", 90, "Retention days for failed events")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	zl, err := logger.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := opts.validate(); err != nil {
		zl.Fatal("Invalid options", zap.Error(err))
	}

	if err := cleanupOutbox(context.Background(), zl, opts); err != nil {
		zl.Fatal("Cleanup failed", zap.Error(err))
	}
	zl.Info("Cleanup completed successfully")
}

func (o Options) validate() error {
	if o.Database == "" {
		return fmt.Errorf("-database is required")
	}
	if o.CompletedRetentionDays < 0 || o.FailedRetentionDays < 0 {
		return fmt.Errorf("retention days cannot be negative")
	}
	return nil
}

func cleanupOutbox(ctx context.Context, zl *zap.Logger, opts Options) error {
	client, err := spanner.NewClient(ctx, opts.Database)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	c := newCutoffs(time.Now(), opts)
	zl.Info("Starting outbox cleanup",
		zap.Time("completed_cutoff", c.completed),
		zap.Time("failed_cutoff", c.failed),
		zap.Bool("dry_run", opts.DryRun),
	)

	if opts.DryRun {
		return dryRunCleanup(ctx, zl, client, c)
	}
	return performCleanup(ctx, zl, client, c)
}

// expiredPredicate matches completed and failed events processed before
// their cutoff. Pending events are never removed.
func expiredPredicate() string {
	return fmt.Sprintf("(%[1]s = @completedStatus AND %[2]s < @completedCutoff) OR (%[1]s = @failedStatus AND %[2]s < @failedCutoff)",
		m_outbox.Status, m_outbox.ProcessedAt)
}

func (c cutoffs) params() map[string]interface{} {
	return map[string]interface{}{
		"completedStatus": contracts.EventStatusCompleted,
		"completedCutoff": c.completed,
		"failedStatus":    contracts.EventStatusFailed,
		"failedCutoff":    c.failed,
	}
}

func countByStatusStmt(c cutoffs) spanner.Statement {
	return spanner.Statement{
		SQL: fmt.Sprintf("SELECT %[1]s, COUNT(*) FROM %[2]s WHERE %[3]s GROUP BY %[1]s",
			m_outbox.Status, m_outbox.TableName, expiredPredicate()),
		Params: c.params(),
	}
}

func deleteStmt(c cutoffs) spanner.Statement {
	return spanner.Statement{
		SQL:    fmt.Sprintf("DELETE FROM %s WHERE %s", m_outbox.TableName, expiredPredicate()),
		Params: c.params(),
	}
}

func dryRunCleanup(ctx context.Context, zl *zap.Logger, client *spanner.Client, c cutoffs) error {
	iter := client.Single().Query(ctx, countByStatusStmt(c))
	defer iter.Stop()

	var total int64
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to query events: %w", err)
		}

		var status string
		var count int64
		if err := row.Columns(&status, &count); err != nil {
			return fmt.Errorf("failed to parse row: %w", err)
		}
		zl.Info("Would delete events", zap.String("status", status), zap.Int64("count", count))
		total += count
	}

	zl.Info("Dry run finished; run without -dry-run to delete", zap.Int64("total", total))
	return nil
}

func performCleanup(ctx context.Context, zl *zap.Logger, client *spanner.Client, c cutoffs) error {
	var deleted int64
	_, err := client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		n, err := txn.Update(ctx, deleteStmt(c))
		if err != nil {
			return fmt.Errorf("failed to delete events: %w", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("cleanup transaction failed: %w", err)
	}

	if deleted == 0 {
		zl.Info("No old events to delete")
		return nil
	}
	zl.Info("Deleted old events", zap.Int64("count", deleted))
	return nil
}
