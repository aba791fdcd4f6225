package services

import (
	"context"
	"time"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/metrics"
)

// instrumentedProducts records the duration of every product store call.
type instrumentedProducts struct {
	next    contracts.ProductStore
	metrics *metrics.Metrics
}

func (s *instrumentedProducts) List(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	defer s.metrics.TrackStoreOperation("product_list")(time.Now())
	return s.next.List(ctx, filter)
}

func (s *instrumentedProducts) Get(ctx context.Context, productID string) (*domain.Product, error) {
	defer s.metrics.TrackStoreOperation("product_get")(time.Now())
	return s.next.Get(ctx, productID)
}

func (s *instrumentedProducts) Create(ctx context.Context, product *domain.Product) error {
	defer s.metrics.TrackStoreOperation("product_create")(time.Now())
	return s.next.Create(ctx, product)
}

func (s *instrumentedProducts) Update(ctx context.Context, product *domain.Product) error {
	defer s.metrics.TrackStoreOperation("product_update")(time.Now())
	return s.next.Update(ctx, product)
}

func (s *instrumentedProducts) Delete(ctx context.Context, product *domain.Product) error {
	defer s.metrics.TrackStoreOperation("product_delete")(time.Now())
	return s.next.Delete(ctx, product)
}

func (s *instrumentedProducts) Categories(ctx context.Context) ([]string, error) {
	defer s.metrics.TrackStoreOperation("product_categories")(time.Now())
	return s.next.Categories(ctx)
}

// instrumentedColumns records the duration of every column store call.
type instrumentedColumns struct {
	next    contracts.ColumnStore
	metrics *metrics.Metrics
}

func (s *instrumentedColumns) List(ctx context.Context) ([]*domain.Column, error) {
	defer s.metrics.TrackStoreOperation("column_list")(time.Now())
	return s.next.List(ctx)
}

func (s *instrumentedColumns) Get(ctx context.Context, columnID string) (*domain.Column, error) {
	defer s.metrics.TrackStoreOperation("column_get")(time.Now())
	return s.next.Get(ctx, columnID)
}

func (s *instrumentedColumns) Create(ctx context.Context, column *domain.Column) error {
	defer s.metrics.TrackStoreOperation("column_create")(time.Now())
	return s.next.Create(ctx, column)
}

func (s *instrumentedColumns) Update(ctx context.Context, column *domain.Column) error {
	defer s.metrics.TrackStoreOperation("column_update")(time.Now())
	return s.next.Update(ctx, column)
}

func (s *instrumentedColumns) Delete(ctx context.Context, column *domain.Column) error {
	defer s.metrics.TrackStoreOperation("column_delete")(time.Now())
	return s.next.Delete(ctx, column)
}
