package create_product

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// Request contains the data needed to create a product.
type Request struct {
	Number      string
	Name        string
	Description string
	Category    string
	BasePrice   float64
	Attributes  map[string]any // keyed by column name
}

// Interactor handles the create product use case.
type Interactor struct {
	products contracts.ProductStore
	columns  contracts.ColumnStore
	clock    clock.Clock
}

// NewInteractor creates a new create product interactor.
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

// Execute creates a new product. Markups are computed from the base price and
// stored with it; attributes must name stored columns.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Product, error) {
	attrs := req.Attributes
	if len(attrs) > 0 {
		cols, err := i.columns.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load columns: %w", err)
		}
		attrs, err = CoerceAttributes(domain.NewSchema(cols), attrs)
		if err != nil {
			return nil, err
		}
	}

	product, err := domain.NewProduct(
		uuid.New().String(),
		req.Number,
		req.Name,
		req.Description,
		req.Category,
		req.BasePrice,
		attrs,
		i.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	// Clear events on function exit to prevent duplicates on retry
	defer product.ClearEvents()

	if err := i.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// CoerceAttributes checks each attribute against the schema and converts it
// to the column's stored type.
func CoerceAttributes(schema *domain.Schema, attrs map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(attrs))
	for name, value := range attrs {
		col, ok := schema.ByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownField, name)
		}
		v, err := col.CoerceValue(value)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}
