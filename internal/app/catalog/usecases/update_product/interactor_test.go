package update_product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/repo/memstore"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_product"
	"github.com/light-bringer/markup-catalog/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewTickingClock()
	store := memstore.New(clk)
	testutil.CreateColumn(t, store.Columns(), clk, "size", domain.ColumnText, "", true)

	p := testutil.CreateProduct(t, store.Products(), clk, testutil.ProductFixture{
		Number:     "SH-001",
		Name:       "Linen Shirt",
		BasePrice:  100,
		Attributes: map[string]any{"size": "M"},
	})

	interactor := update_product.NewInteractor(store.Products(), store.Columns(), clk)

	t.Run("partial update recomputes markups", func(t *testing.T) {
		got, err := interactor.Execute(ctx, &update_product.Request{
			ProductID: p.ID(),
			BasePrice: ptr(40.0),
			Category:  ptr("Shirts"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Linen Shirt", got.Name())
		assert.Equal(t, domain.FixedMarkups(40), got.Markups())
		assert.True(t, got.UpdatedAt().After(p.UpdatedAt()))

		stored, err := store.Products().Get(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, "Shirts", stored.Category())
		assert.Equal(t, 48.0, stored.Markups().Markup20After)

		events, _, err := store.Events().ListEvents(ctx, &contracts.EventFilter{EventType: domain.EventProductUpdated})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Contains(t, events[0].Payload, `"changed_fields":["basePrice","category"]`)
	})

	t.Run("nil attribute clears it", func(t *testing.T) {
		got, err := interactor.Execute(ctx, &update_product.Request{
			ProductID:  p.ID(),
			Attributes: map[string]any{"size": nil},
		})
		require.NoError(t, err)
		_, ok := got.Attribute("size")
		assert.False(t, ok)
	})

	t.Run("no changes writes no event", func(t *testing.T) {
		_, total, err := store.Events().ListEvents(ctx, &contracts.EventFilter{EventType: domain.EventProductUpdated})
		require.NoError(t, err)

		_, err = interactor.Execute(ctx, &update_product.Request{ProductID: p.ID()})
		require.NoError(t, err)

		_, after, err := store.Events().ListEvents(ctx, &contracts.EventFilter{EventType: domain.EventProductUpdated})
		require.NoError(t, err)
		assert.Equal(t, total, after)
	})

	t.Run("invalid price leaves product untouched", func(t *testing.T) {
		_, err := interactor.Execute(ctx, &update_product.Request{
			ProductID: p.ID(),
			Name:      ptr("Renamed"),
			BasePrice: ptr(-1.0),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)

		stored, err := store.Products().Get(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, "Linen Shirt", stored.Name())
	})

	t.Run("unknown attribute", func(t *testing.T) {
		_, err := interactor.Execute(ctx, &update_product.Request{
			ProductID:  p.ID(),
			Attributes: map[string]any{"color": "red"},
		})
		assert.ErrorIs(t, err, domain.ErrUnknownField)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := interactor.Execute(ctx, &update_product.Request{ProductID: "missing", Name: ptr("x")})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}
