package update_cell

import (
	"context"
	"fmt"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// Request identifies one table cell and its new value.
type Request struct {
	ProductID string
	Column    string // column name
	Value     any
}

// Interactor handles inline edits of a single table cell.
type Interactor struct {
	products contracts.ProductStore
	columns  contracts.ColumnStore
	clock    clock.Clock
}

// NewInteractor creates a new update cell interactor.
func NewInteractor(
	products contracts.ProductStore,
	columns contracts.ColumnStore,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		products: products,
		columns:  columns,
		clock:    clock,
	}
}

// Execute writes value into the product field the column names. Formula and
// non-editable columns are rejected; the value must match the column type.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Product, error) {
	cols, err := i.columns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}

	col, ok := domain.NewSchema(cols).ByName(req.Column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrColumnNotFound, req.Column)
	}
	if col.IsFormula() || !col.Editable() {
		return nil, fmt.Errorf("%w: %s", domain.ErrColumnNotEditable, col.Name())
	}

	value, err := col.CoerceValue(req.Value)
	if err != nil {
		return nil, err
	}

	product, err := i.products.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	defer product.ClearEvents()

	if err := product.SetField(col.Name(), value); err != nil {
		return nil, err
	}

	product.MarkUpdated(i.clock.Now())

	if err := i.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}
