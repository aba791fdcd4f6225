package update_column

import (
	"context"
	"fmt"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// Request contains the column changes. Nil fields are left unchanged.
type Request struct {
	ColumnID string
	Name     *string
	Type     *string
	Formula  *string
	Editable *bool
	Position *int64
}

// Interactor handles the update column use case.
type Interactor struct {
	columns contracts.ColumnStore
	clock   clock.Clock
}

// NewInteractor creates a new update column interactor.
func NewInteractor(columns contracts.ColumnStore, clock clock.Clock) *Interactor {
	return &Interactor{
		columns: columns,
		clock:   clock,
	}
}

// Execute applies the changes and checks the result against the rest of the
// schema before saving.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Column, error) {
	cols, err := i.columns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	schema := domain.NewSchema(cols)

	if _, ok := schema.ByID(req.ColumnID); !ok {
		return nil, domain.ErrColumnNotFound
	}

	// Work on a fresh copy so a failed check leaves the listed schema intact
	column, err := i.columns.Get(ctx, req.ColumnID)
	if err != nil {
		return nil, err
	}

	defer column.ClearEvents()

	if req.Name != nil {
		if err := column.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	// Type goes first: it decides whether a formula is allowed
	if req.Type != nil {
		typ, err := domain.ParseColumnType(*req.Type)
		if err != nil {
			return nil, err
		}
		if err := column.SetType(typ); err != nil {
			return nil, err
		}
	}

	if req.Formula != nil {
		if err := column.SetFormula(*req.Formula); err != nil {
			return nil, err
		}
	}

	if req.Editable != nil {
		column.SetEditable(*req.Editable)
	}

	if req.Position != nil {
		column.SetPosition(*req.Position)
	}

	if err := schema.CheckPut(column); err != nil {
		return nil, err
	}

	column.MarkUpdated(i.clock.Now())

	if err := i.columns.Update(ctx, column); err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}

	return column, nil
}
