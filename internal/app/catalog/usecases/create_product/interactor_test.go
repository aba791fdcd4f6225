package create_product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/repo/memstore"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/markup-catalog/internal/testutil"
)

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewTickingClock()
	store := memstore.New(clk)
	testutil.CreateColumn(t, store.Columns(), clk, "size", domain.ColumnText, "", true)
	testutil.CreateColumn(t, store.Columns(), clk, "stock", domain.ColumnNumber, "", true)

	interactor := create_product.NewInteractor(store.Products(), store.Columns(), clk)

	t.Run("computes markups and coerces attributes", func(t *testing.T) {
		p, err := interactor.Execute(ctx, &create_product.Request{
			Number:     " SH-001 ",
			Name:       "Linen Shirt",
			BasePrice:  40,
			Attributes: map[string]any{"size": "M", "stock": "12"},
		})
		require.NoError(t, err)
		assert.Equal(t, "SH-001", p.Number())
		assert.Equal(t, domain.DefaultCategory, p.Category())
		assert.Equal(t, 50.0, p.Markups().Markup25After)
		assert.Equal(t, 395.0, p.Markups().FinalPrice)
		assert.Empty(t, p.DomainEvents(), "events are cleared after save")

		stock, _ := p.Attribute("stock")
		assert.Equal(t, 12.0, stock)

		stored, err := store.Products().Get(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, p.Markups(), stored.Markups())

		events, total, err := store.Events().ListEvents(ctx, &contracts.EventFilter{AggregateID: p.ID()})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, domain.EventProductCreated, events[0].EventType)
	})

	tests := []struct {
		name    string
		req     *create_product.Request
		wantErr error
	}{
		{"missing number", &create_product.Request{Name: "Shirt", BasePrice: 10}, domain.ErrEmptyNumber},
		{"missing name", &create_product.Request{Number: "X", BasePrice: 10}, domain.ErrEmptyName},
		{"zero price", &create_product.Request{Number: "X", Name: "Shirt"}, domain.ErrInvalidPrice},
		{"unknown attribute", &create_product.Request{Number: "X", Name: "Shirt", BasePrice: 10, Attributes: map[string]any{"color": "red"}}, domain.ErrUnknownField},
		{"text where number expected", &create_product.Request{Number: "X", Name: "Shirt", BasePrice: 10, Attributes: map[string]any{"stock": "lots"}}, domain.ErrInvalidFieldValue},
		{"formula column value", &create_product.Request{Number: "X", Name: "Shirt", BasePrice: 10, Attributes: map[string]any{"p10": 1}}, domain.ErrReadOnlyField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := interactor.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	res, err := store.Products().List(ctx, &contracts.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, res.Products, 1, "rejected requests write nothing")
}
