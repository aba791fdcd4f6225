package render_table_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/render_table"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/repo/memstore"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
	"github.com/light-bringer/markup-catalog/internal/pkg/display"
	"github.com/light-bringer/markup-catalog/internal/pkg/formula"
	"github.com/light-bringer/markup-catalog/internal/testutil"
)

func newQuery(t *testing.T, store *memstore.Store) *render_table.Query {
	t.Helper()
	f, err := display.NewFormatter("en-US")
	require.NoError(t, err)
	return render_table.NewQuery(
		list_products.NewQuery(store.Products(), 5),
		store.Columns(),
		formula.NewEvaluator(formula.WithLogger(zap.NewNop())),
		f,
	)
}

func cellsByColumn(row render_table.Row) map[string]render_table.Cell {
	out := make(map[string]render_table.Cell, len(row.Cells))
	for _, c := range row.Cells {
		out[c.Column] = c
	}
	return out
}

func TestRenderTable_DefaultSchema(t *testing.T) {
	clk := testutil.NewTickingClock()
	store := memstore.New(clk)
	testutil.CreateProduct(t, store.Products(), clk, testutil.ProductFixture{Number: "SH-001", Name: "Linen Shirt", BasePrice: 1234.5})

	table, err := newQuery(t, store).Execute(context.Background(), &render_table.Request{})
	require.NoError(t, err)

	require.Len(t, table.Columns, 6)
	assert.Equal(t, "number", table.Columns[0].Name)
	assert.Equal(t, 1, table.Page.TotalItems)

	require.Len(t, table.Rows, 1)
	cells := cellsByColumn(table.Rows[0])
	assert.Equal(t, "SH-001", cells["number"].Value)
	assert.True(t, cells["number"].Editable)
	assert.Equal(t, "1,234.50", cells["basePrice"].Display)
	assert.Equal(t, 1244.5, cells["p10"].Value)
	assert.Equal(t, 1419.68, cells["price15"].Value)
	assert.Equal(t, "1,419.68", cells["price15"].Display)
	assert.False(t, cells["price15"].Editable)
}

func TestRenderTable_ChainedAndCyclicFormulas(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewTickingClock()
	store := memstore.New(clk)
	cols := store.Columns()

	testutil.CreateColumn(t, cols, clk, "stock", domain.ColumnNumber, "", true)
	testutil.CreateColumn(t, cols, clk, "value", domain.ColumnFormula, "{price25} * {stock}", false)
	testutil.CreateColumn(t, cols, clk, "half", domain.ColumnFormula, "{value} / 2", false)

	// A cycle can only exist in data written around the column checks
	a, err := domain.NewColumn("cyc-a", "a", domain.ColumnFormula, "{b} + 1", false, 90, clock.NewRealClock().Now())
	require.NoError(t, err)
	require.NoError(t, cols.Create(ctx, a))
	b, err := domain.NewColumn("cyc-b", "b", domain.ColumnFormula, "{a} + 1", false, 91, clock.NewRealClock().Now())
	require.NoError(t, err)
	require.NoError(t, cols.Create(ctx, b))

	testutil.CreateProduct(t, store.Products(), clk, testutil.ProductFixture{
		Number:     "SH-001",
		Name:       "Linen Shirt",
		BasePrice:  40,
		Attributes: map[string]any{"stock": 3},
	})

	table, err := newQuery(t, store).Execute(ctx, &render_table.Request{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	cells := cellsByColumn(table.Rows[0])
	assert.Equal(t, 150.0, cells["value"].Value)
	assert.Equal(t, 75.0, cells["half"].Value)
	assert.Equal(t, 3.0, cells["stock"].Value)

	assert.True(t, cells["a"].Unresolved)
	assert.True(t, cells["b"].Unresolved)
	assert.Equal(t, 0.0, cells["a"].Value)
	assert.False(t, cells["half"].Unresolved)

	var flagged []string
	for _, h := range table.Columns {
		if h.Unresolved {
			flagged = append(flagged, h.Name)
		}
	}
	assert.Equal(t, []string{"a", "b"}, flagged)
}

func TestRenderTable_MissingAttributeRendersEmpty(t *testing.T) {
	clk := testutil.NewTickingClock()
	store := memstore.New(clk)
	testutil.CreateColumn(t, store.Columns(), clk, "size", domain.ColumnText, "", true)
	testutil.CreateProduct(t, store.Products(), clk, testutil.ProductFixture{Number: "SH-001", Name: "Linen Shirt"})

	table, err := newQuery(t, store).Execute(context.Background(), &render_table.Request{})
	require.NoError(t, err)

	cells := cellsByColumn(table.Rows[0])
	assert.Nil(t, cells["size"].Value)
	assert.Equal(t, "", cells["size"].Display)
}
