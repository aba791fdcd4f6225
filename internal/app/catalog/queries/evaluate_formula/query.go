package evaluate_formula

import (
	"context"
	"fmt"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/pkg/formula"
)

// Request contains a formula and the row it is evaluated against. When
// ProductID is set, the stored product row (with every formula column
// computed) is used as the base and Row overrides its fields.
type Request struct {
	Formula   string
	Row       map[string]any
	ProductID string
}

// Response is the evaluation result. Value is zero whenever Error is set.
type Response struct {
	Value      float64  `json:"value"`
	References []string `json:"references"`
	Valid      bool     `json:"valid"`
	Error      string   `json:"error,omitempty"`
}

// Query handles the evaluate formula query use case.
type Query struct {
	products  contracts.ProductStore
	columns   contracts.ColumnStore
	evaluator *formula.Evaluator
}

// NewQuery creates a new evaluate formula query.
func NewQuery(products contracts.ProductStore, columns contracts.ColumnStore, evaluator *formula.Evaluator) *Query {
	return &Query{
		products:  products,
		columns:   columns,
		evaluator: evaluator,
	}
}

// Execute evaluates the formula. Syntax and evaluation failures are reported
// in the response, not as errors; only store failures return an error.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	row, err := q.baseRow(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Row {
		row[k] = v
	}

	v, expr, err := q.evaluator.Run(req.Formula, row)
	resp := &Response{
		Value:      v,
		References: []string{},
		Valid:      err == nil,
	}
	if expr != nil {
		resp.References = expr.References()
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp, nil
}

func (q *Query) baseRow(ctx context.Context, productID string) (map[string]any, error) {
	if productID == "" {
		return make(map[string]any), nil
	}

	p, err := q.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	cols, err := q.columns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}

	row := p.Row()
	domain.NewSchema(cols).Plan().Evaluate(row, q.evaluator)
	return row, nil
}
