package delete_product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/repo/memstore"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/delete_product"
	"github.com/light-bringer/markup-catalog/internal/testutil"
)

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewTickingClock()
	store := memstore.New(clk)
	p := testutil.CreateProduct(t, store.Products(), clk, testutil.ProductFixture{Number: "SH-001", Name: "Linen Shirt"})

	interactor := delete_product.NewInteractor(store.Products(), clk)
	require.NoError(t, interactor.Execute(ctx, &delete_product.Request{ProductID: p.ID()}))

	_, err := store.Products().Get(ctx, p.ID())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	events, _, err := store.Events().ListEvents(ctx, &contracts.EventFilter{AggregateID: p.ID()})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventProductDeleted, events[0].EventType)

	err = interactor.Execute(ctx, &delete_product.Request{ProductID: p.ID()})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
