package contracts

import (
	"context"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
)

// ColumnStore defines column schema persistence. Like ProductStore, mutating
// calls write the column's pending domain events to the outbox.
type ColumnStore interface {
	// List returns every column in listing order. An empty store is seeded
	// with the default schema first, exactly once.
	List(ctx context.Context) ([]*domain.Column, error)

	// Get retrieves a column by ID
	Get(ctx context.Context, columnID string) (*domain.Column, error)

	// Create inserts a new column
	Create(ctx context.Context, column *domain.Column) error

	// Update persists the column's dirty fields
	Update(ctx context.Context, column *domain.Column) error

	// Delete removes the column
	Delete(ctx context.Context, column *domain.Column) error
}
