package list_columns

import (
	"context"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
)

// Query handles the list columns query use case.
type Query struct {
	columns contracts.ColumnStore
}

// NewQuery creates a new list columns query.
func NewQuery(columns contracts.ColumnStore) *Query {
	return &Query{
		columns: columns,
	}
}

// Execute returns the column schema in listing order. The first call on an
// empty store seeds the defaults.
func (q *Query) Execute(ctx context.Context) ([]*domain.Column, error) {
	return q.columns.List(ctx)
}
