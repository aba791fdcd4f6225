package delete_column

import (
	"context"
	"fmt"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// Request identifies the column to delete.
type Request struct {
	ColumnID string
}

// Interactor handles the delete column use case.
type Interactor struct {
	columns contracts.ColumnStore
	clock   clock.Clock
}

// NewInteractor creates a new delete column interactor.
func NewInteractor(columns contracts.ColumnStore, clock clock.Clock) *Interactor {
	return &Interactor{
		columns: columns,
		clock:   clock,
	}
}

// Execute removes a column no formula depends on. Product attribute values
// stored under the column name are kept.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	cols, err := i.columns.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load columns: %w", err)
	}
	schema := domain.NewSchema(cols)

	column, ok := schema.ByID(req.ColumnID)
	if !ok {
		return domain.ErrColumnNotFound
	}

	if err := schema.CheckRemove(column); err != nil {
		return err
	}

	defer column.ClearEvents()

	column.MarkDeleted(i.clock.Now())

	if err := i.columns.Delete(ctx, column); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}

	return nil
}
