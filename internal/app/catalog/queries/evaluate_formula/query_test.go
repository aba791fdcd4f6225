package evaluate_formula_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/evaluate_formula"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/repo/memstore"
	"github.com/light-bringer/markup-catalog/internal/pkg/formula"
	"github.com/light-bringer/markup-catalog/internal/testutil"
)

func TestEvaluateFormula(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewTickingClock()
	store := memstore.New(clk)

	var failures, outcomes int
	ev := formula.NewEvaluator(
		formula.WithLogger(zap.NewNop()),
		formula.WithObserver(func(err error) {
			outcomes++
			if err != nil {
				failures++
			}
		}),
	)
	q := evaluate_formula.NewQuery(store.Products(), store.Columns(), ev)

	t.Run("ad hoc row", func(t *testing.T) {
		resp, err := q.Execute(ctx, &evaluate_formula.Request{
			Formula: "round({basePrice} * 1.15) + {extra}",
			Row:     map[string]any{"basePrice": 100, "extra": "n/a"},
		})
		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, 115.0, resp.Value)
		assert.Equal(t, []string{"basePrice", "extra"}, resp.References)
		assert.Equal(t, 1, outcomes, "formula is evaluated once")
	})

	t.Run("syntax error", func(t *testing.T) {
		resp, err := q.Execute(ctx, &evaluate_formula.Request{Formula: "{a} +"})
		require.NoError(t, err)
		assert.False(t, resp.Valid)
		assert.Equal(t, 0.0, resp.Value)
		assert.Empty(t, resp.References)
		assert.NotEmpty(t, resp.Error)
		assert.Equal(t, 1, failures)
	})

	t.Run("division by zero", func(t *testing.T) {
		resp, err := q.Execute(ctx, &evaluate_formula.Request{Formula: "1 / {a}"})
		require.NoError(t, err)
		assert.False(t, resp.Valid)
		assert.Equal(t, 0.0, resp.Value)
		assert.Equal(t, []string{"a"}, resp.References)
		assert.Contains(t, resp.Error, "finite")
		assert.Equal(t, 2, failures)
	})

	t.Run("stored product with computed columns", func(t *testing.T) {
		testutil.CreateColumn(t, store.Columns(), clk, "margin", domain.ColumnFormula, "{price25} - {basePrice}", false)
		p := testutil.CreateProduct(t, store.Products(), clk, testutil.ProductFixture{Number: "SH-001", Name: "Shirt", BasePrice: 40})

		resp, err := q.Execute(ctx, &evaluate_formula.Request{Formula: "{margin} * 2 + {finalPrice}", ProductID: p.ID()})
		require.NoError(t, err)
		assert.Equal(t, 415.0, resp.Value)

		resp, err = q.Execute(ctx, &evaluate_formula.Request{
			Formula:   "{basePrice}",
			ProductID: p.ID(),
			Row:       map[string]any{"basePrice": 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 1.0, resp.Value, "request row overrides stored fields")
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := q.Execute(ctx, &evaluate_formula.Request{Formula: "1", ProductID: "missing"})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}
