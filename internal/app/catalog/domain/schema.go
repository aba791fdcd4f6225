package domain

import (
	"fmt"
	"sort"

	"github.com/light-bringer/markup-catalog/internal/pkg/formula"
)

// Schema is the ordered set of columns every product row is rendered with.
type Schema struct {
	columns []*Column
	byName  map[string]*Column
}

// NewSchema orders cols by position, then name.
func NewSchema(cols []*Column) *Schema {
	sorted := make([]*Column, len(cols))
	copy(sorted, cols)
	SortColumns(sorted)

	byName := make(map[string]*Column, len(sorted))
	for _, c := range sorted {
		if _, dup := byName[c.Name()]; !dup {
			byName[c.Name()] = c
		}
	}
	return &Schema{columns: sorted, byName: byName}
}

// SortColumns sorts cols in listing order.
func SortColumns(cols []*Column) {
	sort.SliceStable(cols, func(i, j int) bool {
		if cols[i].Position() != cols[j].Position() {
			return cols[i].Position() < cols[j].Position()
		}
		return cols[i].Name() < cols[j].Name()
	})
}

// Columns returns the columns in listing order.
func (s *Schema) Columns() []*Column {
	out := make([]*Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.columns) }

// ByName looks a column up by name.
func (s *Schema) ByName(name string) (*Column, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// ByID looks a column up by id.
func (s *Schema) ByID(id string) (*Column, bool) {
	for _, c := range s.columns {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// NextPosition returns the position for a column appended to the schema.
func (s *Schema) NextPosition() int64 {
	var highest int64
	for _, c := range s.columns {
		if c.Position() > highest {
			highest = c.Position()
		}
	}
	return highest + 1
}

// Dependents returns the names of the formula columns that read name, in
// listing order.
func (s *Schema) Dependents(name string) []string {
	var out []string
	for _, c := range s.columns {
		if c.Name() == name || !c.IsFormula() {
			continue
		}
		for _, ref := range c.References() {
			if ref == name {
				out = append(out, c.Name())
				break
			}
		}
	}
	return out
}

// CheckPut validates adding candidate to the schema, or replacing the column
// with the same id.
func (s *Schema) CheckPut(candidate *Column) error {
	if err := candidate.Validate(); err != nil {
		return err
	}

	existing, replacing := s.ByID(candidate.ID())
	for _, c := range s.columns {
		if c.ID() != candidate.ID() && c.Name() == candidate.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateColumnName, candidate.Name())
		}
	}

	if replacing && existing.Name() != candidate.Name() {
		if deps := s.Dependents(existing.Name()); len(deps) > 0 {
			return fmt.Errorf("%w: %s is used by %v", ErrColumnReferenced, existing.Name(), deps)
		}
	}

	next := s.with(candidate)
	for _, ref := range candidate.References() {
		if _, ok := next.ByName(ref); !ok {
			return fmt.Errorf("%w: {%s}", ErrUnknownReference, ref)
		}
	}

	if candidate.IsFormula() && next.Plan().Unresolved(candidate.Name()) {
		return fmt.Errorf("%w: %s", ErrFormulaCycle, candidate.Name())
	}
	return nil
}

// CheckRemove validates removing col from the schema.
func (s *Schema) CheckRemove(col *Column) error {
	if deps := s.Dependents(col.Name()); len(deps) > 0 {
		return fmt.Errorf("%w: %s is used by %v", ErrColumnReferenced, col.Name(), deps)
	}
	return nil
}

func (s *Schema) with(candidate *Column) *Schema {
	cols := make([]*Column, 0, len(s.columns)+1)
	for _, c := range s.columns {
		if c.ID() != candidate.ID() {
			cols = append(cols, c)
		}
	}
	return NewSchema(append(cols, candidate))
}

// Plan is the evaluation order of a schema's formula columns. Columns on a
// dependency cycle, and every column depending on one, are unresolved.
type Plan struct {
	order      []*Column
	unresolved map[string]bool
}

// Plan orders the formula columns so each is evaluated after the formula
// columns it reads. Ties keep listing order.
func (s *Schema) Plan() *Plan {
	formulas := make([]*Column, 0, len(s.columns))
	for _, c := range s.columns {
		if c.IsFormula() && s.byName[c.Name()] == c {
			formulas = append(formulas, c)
		}
	}

	indegree := make(map[string]int, len(formulas))
	dependents := make(map[string][]*Column, len(formulas))
	for _, c := range formulas {
		indegree[c.Name()] = 0
	}
	for _, c := range formulas {
		for _, ref := range c.References() {
			if _, isFormula := indegree[ref]; !isFormula {
				continue
			}
			indegree[c.Name()]++
			dependents[ref] = append(dependents[ref], c)
		}
	}

	queue := make([]*Column, 0, len(formulas))
	for _, c := range formulas {
		if indegree[c.Name()] == 0 {
			queue = append(queue, c)
		}
	}

	order := make([]*Column, 0, len(formulas))
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		order = append(order, c)
		for _, d := range dependents[c.Name()] {
			indegree[d.Name()]--
			if indegree[d.Name()] == 0 {
				queue = append(queue, d)
			}
		}
	}

	unresolved := make(map[string]bool)
	for _, c := range formulas {
		if indegree[c.Name()] > 0 {
			unresolved[c.Name()] = true
		}
	}
	return &Plan{order: order, unresolved: unresolved}
}

// Order returns the resolvable formula columns in evaluation order.
func (p *Plan) Order() []*Column {
	out := make([]*Column, len(p.order))
	copy(out, p.order)
	return out
}

// Unresolved reports whether the named formula column cannot be evaluated.
func (p *Plan) Unresolved(name string) bool { return p.unresolved[name] }

// HasCycles reports whether any formula column is unresolved.
func (p *Plan) HasCycles() bool { return len(p.unresolved) > 0 }

// Evaluate computes every formula column against row, writing each value
// back into row so later formulas can read it. Unresolved columns are set to
// zero.
func (p *Plan) Evaluate(row map[string]any, ev *formula.Evaluator) map[string]float64 {
	if ev == nil {
		ev = formula.NewEvaluator()
	}
	values := make(map[string]float64, len(p.order)+len(p.unresolved))
	for name := range p.unresolved {
		values[name] = 0
		row[name] = 0.0
	}
	for _, c := range p.order {
		var v float64
		if expr := c.Expr(); expr != nil {
			v = ev.EvaluateExpr(expr, row)
		} else {
			v = ev.Evaluate(c.Formula(), row)
		}
		values[c.Name()] = v
		row[c.Name()] = v
	}
	return values
}
