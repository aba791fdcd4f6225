package create_column

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// Request contains the data needed to add a column.
type Request struct {
	Name     string
	Type     string // text, number or formula
	Formula  string // required for formula columns only
	Editable bool   // ignored for formula columns
}

// Interactor handles the create column use case.
type Interactor struct {
	columns contracts.ColumnStore
	clock   clock.Clock
}

// NewInteractor creates a new create column interactor.
func NewInteractor(columns contracts.ColumnStore, clock clock.Clock) *Interactor {
	return &Interactor{
		columns: columns,
		clock:   clock,
	}
}

// Execute appends a column after the existing ones. Formula references must
// resolve and must not close a cycle.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Column, error) {
	typ, err := domain.ParseColumnType(req.Type)
	if err != nil {
		return nil, err
	}

	cols, err := i.columns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	schema := domain.NewSchema(cols)

	column, err := domain.NewColumn(
		uuid.New().String(),
		req.Name,
		typ,
		req.Formula,
		req.Editable,
		schema.NextPosition(),
		i.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	defer column.ClearEvents()

	if err := schema.CheckPut(column); err != nil {
		return nil, err
	}

	if err := i.columns.Create(ctx, column); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}

	return column, nil
}
