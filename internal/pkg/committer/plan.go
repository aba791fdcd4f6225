// Package committer applies batches of Spanner mutations atomically.
//
// A store turns an aggregate into its row mutation plus one insert per pending
// domain event and commits them together:
//
//	plan := committer.NewPlan()
//	plan.Add(rowMut)
//	plan.Add(outboxMuts...)
//	return c.Apply(ctx, plan)
//
// Either the row and its events are written or neither is. There is no
// version check: concurrent writers to the same row resolve as last write wins.
package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// CommitPlan is an ordered batch of mutations applied in one commit.
type CommitPlan struct {
	muts []*spanner.Mutation
}

// NewPlan returns an empty plan.
func NewPlan() *CommitPlan {
	return &CommitPlan{}
}

// Add appends mutations in order. Nil mutations are skipped, so the result of
// a dirty-field builder with nothing to write can be passed straight in.
func (cp *CommitPlan) Add(muts ...*spanner.Mutation) {
	for _, m := range muts {
		if m != nil {
			cp.muts = append(cp.muts, m)
		}
	}
}

// Mutations returns the batch.
func (cp *CommitPlan) Mutations() []*spanner.Mutation { return cp.muts }

// Len is the number of mutations in the batch.
func (cp *CommitPlan) Len() int { return len(cp.muts) }

// IsEmpty reports whether there is nothing to commit.
func (cp *CommitPlan) IsEmpty() bool { return len(cp.muts) == 0 }

// BuildFunc reads inside a read-write transaction and returns the plan to
// buffer. A nil or empty plan commits nothing.
type BuildFunc func(ctx context.Context, txn *spanner.ReadWriteTransaction) (*CommitPlan, error)

// Committer writes plans through a Spanner client.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a Committer on client.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply commits plan as a blind write. Empty plans are a no-op. The returned
// error wraps the Spanner error, so spanner.ErrCode still classifies it.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}
	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply %d mutations: %w", plan.Len(), err)
	}
	return nil
}

// ApplyInTransaction runs build in a read-write transaction and buffers the
// plan it returns. Spanner retries build when the transaction aborts, so it
// must be safe to run more than once.
func (c *Committer) ApplyInTransaction(ctx context.Context, build BuildFunc) error {
	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		plan, err := build(ctx, txn)
		if err != nil {
			return err
		}
		if plan == nil || plan.IsEmpty() {
			return nil
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
