// Package render_table builds the rendered inventory table: one cell per
// column for every product on the requested page.
package render_table

import (
	"context"
	"fmt"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/markup-catalog/internal/pkg/display"
	"github.com/light-bringer/markup-catalog/internal/pkg/formula"
	"github.com/light-bringer/markup-catalog/internal/pkg/pagination"
)

// Request selects the page to render.
type Request = list_products.Request

// Header describes one table column.
type Header struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Type       domain.ColumnType `json:"type"`
	Formula    string            `json:"formula,omitempty"`
	Editable   bool              `json:"editable"`
	Unresolved bool              `json:"unresolved,omitempty"`
}

// Cell is a single rendered value.
type Cell struct {
	Column     string            `json:"column"`
	Type       domain.ColumnType `json:"type"`
	Value      any               `json:"value"`
	Display    string            `json:"display"`
	Editable   bool              `json:"editable"`
	Unresolved bool              `json:"unresolved,omitempty"`
}

// Row is one product's cells, in column order.
type Row struct {
	ProductID string `json:"product_id"`
	Number    string `json:"number"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Cells     []Cell `json:"cells"`
}

// Table is a rendered page.
type Table struct {
	Columns []Header        `json:"columns"`
	Rows    []Row           `json:"rows"`
	Page    pagination.Page `json:"page"`
}

// Query handles the render table query use case.
type Query struct {
	list      *list_products.Query
	columns   contracts.ColumnStore
	evaluator *formula.Evaluator
	formatter *display.Formatter
}

// NewQuery creates a new render table query.
func NewQuery(
	list *list_products.Query,
	columns contracts.ColumnStore,
	evaluator *formula.Evaluator,
	formatter *display.Formatter,
) *Query {
	return &Query{
		list:      list,
		columns:   columns,
		evaluator: evaluator,
		formatter: formatter,
	}
}

// Execute renders the requested page. Formula columns are evaluated once per
// row in dependency order; columns caught in a cycle render as zero and are
// flagged unresolved.
func (q *Query) Execute(ctx context.Context, req *Request) (*Table, error) {
	cols, err := q.columns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}

	res, err := q.list.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	schema := domain.NewSchema(cols)
	plan := schema.Plan()

	table := &Table{
		Columns: make([]Header, 0, schema.Len()),
		Rows:    make([]Row, 0, len(res.Products)),
		Page:    res.Page,
	}
	for _, c := range schema.Columns() {
		table.Columns = append(table.Columns, Header{
			ID:         c.ID(),
			Name:       c.Name(),
			Type:       c.Type(),
			Formula:    c.Formula(),
			Editable:   c.Editable(),
			Unresolved: c.IsFormula() && plan.Unresolved(c.Name()),
		})
	}

	for _, p := range res.Products {
		table.Rows = append(table.Rows, q.renderRow(schema, plan, p))
	}
	return table, nil
}

func (q *Query) renderRow(schema *domain.Schema, plan *domain.Plan, p *domain.Product) Row {
	data := p.Row()
	computed := plan.Evaluate(data, q.evaluator)

	row := Row{
		ProductID: p.ID(),
		Number:    p.Number(),
		Name:      p.Name(),
		Category:  p.Category(),
		Cells:     make([]Cell, 0, schema.Len()),
	}
	for _, c := range schema.Columns() {
		cell := Cell{
			Column:   c.Name(),
			Type:     c.Type(),
			Editable: c.Editable(),
		}
		switch c.Type() {
		case domain.ColumnFormula:
			v := computed[c.Name()]
			cell.Value = v
			cell.Unresolved = plan.Unresolved(c.Name())
			cell.Display = q.formatter.Number(v)
		case domain.ColumnNumber:
			cell.Value = data[c.Name()]
			if v, ok := formula.Numeric(cell.Value); ok {
				cell.Value = v
				cell.Display = q.formatter.Number(v)
			} else {
				cell.Display = q.formatter.Value(cell.Value)
			}
		default:
			cell.Value = data[c.Name()]
			cell.Display = q.formatter.Value(cell.Value)
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}
