package list_products

import (
	"context"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
)

// Request contains filtering and pagination options.
type Request struct {
	Search   string
	Category string // empty or "All" means any category
	Page     int
	PageSize int // <= 0 uses the configured default
}

// Query handles the list products query use case.
type Query struct {
	products        contracts.ProductStore
	defaultPageSize int
}

// NewQuery creates a new list products query.
func NewQuery(products contracts.ProductStore, defaultPageSize int) *Query {
	return &Query{
		products:        products,
		defaultPageSize: defaultPageSize,
	}
}

// Execute returns one page of products, newest first.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ListResult, error) {
	return q.products.List(ctx, q.Filter(req))
}

// Filter converts the request into a store filter.
func (q *Query) Filter(req *Request) *contracts.ListFilter {
	size := req.PageSize
	if size <= 0 {
		size = q.defaultPageSize
	}
	return &contracts.ListFilter{
		Filter:   domain.Filter{Search: req.Search, Category: req.Category}.Normalized(),
		Page:     req.Page,
		PageSize: size,
	}
}
