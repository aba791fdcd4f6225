package delete_product

import (
	"context"
	"fmt"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// Request identifies the product to delete.
type Request struct {
	ProductID string
}

// Interactor handles the delete product use case.
type Interactor struct {
	products contracts.ProductStore
	clock    clock.Clock
}

// NewInteractor creates a new delete product interactor.
func NewInteractor(products contracts.ProductStore, clock clock.Clock) *Interactor {
	return &Interactor{
		products: products,
		clock:    clock,
	}
}

// Execute removes the product and records a product.deleted event.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	product, err := i.products.Get(ctx, req.ProductID)
	if err != nil {
		return err
	}

	defer product.ClearEvents()

	product.MarkDeleted(i.clock.Now())

	if err := i.products.Delete(ctx, product); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
