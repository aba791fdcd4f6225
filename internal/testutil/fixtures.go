package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// ProductFixture describes a product to seed.
type ProductFixture struct {
	Number     string
	Name       string
	Category   string
	BasePrice  float64
	Attributes map[string]any
}

// CreateProduct builds a product from f and writes it through store.
func CreateProduct(t *testing.T, store contracts.ProductStore, clk clock.Clock, f ProductFixture) *domain.Product {
	t.Helper()

	if f.BasePrice == 0 {
		f.BasePrice = 100
	}
	p, err := domain.NewProduct(uuid.New().String(), f.Number, f.Name, "", f.Category, f.BasePrice, f.Attributes, clk.Now())
	require.NoError(t, err, "failed to build test product")
	require.NoError(t, store.Create(context.Background(), p), "failed to create test product")
	p.ClearEvents()
	return p
}

// CreateColumn builds a column and writes it through store, positioned after
// the existing ones.
func CreateColumn(t *testing.T, store contracts.ColumnStore, clk clock.Clock, name string, typ domain.ColumnType, src string, editable bool) *domain.Column {
	t.Helper()

	ctx := context.Background()
	cols, err := store.List(ctx)
	require.NoError(t, err, "failed to list columns")

	c, err := domain.NewColumn(uuid.New().String(), name, typ, src, editable, domain.NewSchema(cols).NextPosition(), clk.Now())
	require.NoError(t, err, "failed to build test column")
	require.NoError(t, store.Create(ctx, c), "failed to create test column")
	c.ClearEvents()
	return c
}
