package contracts

import (
	"context"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/pkg/pagination"
)

// ListFilter defines filtering and paging options for listing products.
type ListFilter struct {
	domain.Filter
	Page     int // 1-indexed; clamped into range by the store
	PageSize int // <= 0 means pagination.DefaultPageSize
}

// ListResult contains one page of products, newest first.
type ListResult struct {
	Products []*domain.Product
	Page     pagination.Page
}

// ProductStore defines product persistence. Every mutating call also writes
// the aggregate's pending domain events to the outbox in the same commit.
type ProductStore interface {
	// List returns the page of products matching the filter
	List(ctx context.Context, filter *ListFilter) (*ListResult, error)

	// Get retrieves a product by ID, reconstructing the domain aggregate
	Get(ctx context.Context, productID string) (*domain.Product, error)

	// Create inserts a new product
	Create(ctx context.Context, product *domain.Product) error

	// Update persists the product's dirty fields (last write wins)
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes the product
	Delete(ctx context.Context, product *domain.Product) error

	// Categories returns the distinct product categories, sorted
	Categories(ctx context.Context) ([]string, error)
}
