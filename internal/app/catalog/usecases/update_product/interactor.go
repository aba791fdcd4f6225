package update_product

import (
	"context"
	"fmt"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// Request contains the data to update a product.
type Request struct {
	ProductID   string
	Number      *string  // nil = no change
	Name        *string  // nil = no change
	Description *string  // nil = no change
	Category    *string  // nil = no change
	BasePrice   *float64 // nil = no change
	Attributes  map[string]any // per key; a nil value clears the attribute
}

// Interactor handles the update product use case.
type Interactor struct {
	products contracts.ProductStore
	columns  contracts.ColumnStore
	clock    clock.Clock
}

// NewInteractor creates a new update product interactor.
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

// Execute applies a partial update. All fields are validated before anything
// is written; a base price change recomputes every markup.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Product, error) {
	// 1. Load aggregate
	product, err := i.products.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	// Clear events on function exit to prevent duplicates on retry
	defer product.ClearEvents()

	// 2. Call domain methods
	if req.Number != nil {
		if err := product.SetNumber(*req.Number); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		if err := product.SetName(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.Description != nil {
		product.SetDescription(*req.Description)
	}

	if req.Category != nil {
		product.SetCategory(*req.Category)
	}

	if req.BasePrice != nil {
		if err := product.SetBasePrice(*req.BasePrice); err != nil {
			return nil, err
		}
	}

	if len(req.Attributes) > 0 {
		cols, err := i.columns.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load columns: %w", err)
		}
		attrs, err := create_product.CoerceAttributes(domain.NewSchema(cols), req.Attributes)
		if err != nil {
			return nil, err
		}
		for name, value := range attrs {
			if err := product.SetAttribute(name, value); err != nil {
				return nil, err
			}
		}
	}

	// Emit a single ProductUpdatedEvent for all changes
	product.MarkUpdated(i.clock.Now())

	// 3. Persist dirty fields and events
	if err := i.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}
