//go:build integration

package repo_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/repo"
	"github.com/light-bringer/markup-catalog/internal/pkg/committer"
	"github.com/light-bringer/markup-catalog/internal/testutil"
)

func TestColumnStore_SeedsOnce(t *testing.T) {
	client := testutil.SetupSpannerTest(t)

	ctx := context.Background()
	store := repo.NewColumnStore(client, committer.NewCommitter(client), testutil.NewTickingClock())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.List(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cols, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, cols, len(domain.DefaultColumnSpecs))
	assert.Equal(t, "number", cols[0].Name())
	assert.Equal(t, "round({basePrice} * 1.15)", cols[3].Formula())

	testutil.AssertRowCount(t, client, "catalog_columns", len(domain.DefaultColumnSpecs))

	_, total, err := repo.NewEventLog(client).ListEvents(ctx, &contracts.EventFilter{EventType: domain.EventColumnCreated})
	require.NoError(t, err)
	assert.Equal(t, int64(len(domain.DefaultColumnSpecs)), total)
}

func TestColumnStore_UpdateAndDelete(t *testing.T) {
	client := testutil.SetupSpannerTest(t)

	ctx := context.Background()
	clk := testutil.NewTickingClock()
	store := repo.NewColumnStore(client, committer.NewCommitter(client), clk)

	c := testutil.CreateColumn(t, store, clk, "size", domain.ColumnText, "", true)

	loaded, err := store.Get(ctx, c.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.SetType(domain.ColumnFormula))
	require.NoError(t, loaded.SetFormula("{basePrice} * 2"))
	loaded.MarkUpdated(clk.Now())
	require.NoError(t, store.Update(ctx, loaded))

	got, err := store.Get(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.ColumnFormula, got.Type())
	assert.False(t, got.Editable())
	assert.Equal(t, []string{"basePrice"}, got.References())

	got.MarkDeleted(clk.Now())
	require.NoError(t, store.Delete(ctx, got))
	_, err = store.Get(ctx, c.ID())
	assert.ErrorIs(t, err, domain.ErrColumnNotFound)
}
