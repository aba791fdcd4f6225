package get_product

import (
	"context"
	"strings"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
)

type Request struct {
	ProductID string
}

// Query loads one product aggregate.
type Query struct {
	products contracts.ProductStore
}

func NewQuery(products contracts.ProductStore) *Query {
	return &Query{products: products}
}

// Execute returns domain.ErrProductNotFound for a blank ID without reaching
// the store.
func (q *Query) Execute(ctx context.Context, req *Request) (*domain.Product, error) {
	id := strings.TrimSpace(req.ProductID)
	if id == "" {
		return nil, domain.ErrProductNotFound
	}
	return q.products.Get(ctx, id)
}
