// Package query builds parameterized Spanner SELECT statements.
package query

import (
	"slices"
	"strings"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/markup-catalog/internal/pkg/pagination"
)

// Direction is an ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

type orderTerm struct {
	column    string
	direction Direction
}

// Builder is an immutable SELECT statement. Every method returns a modified
// copy, so a base query can be shared between its COUNT and its page.
// Condition parameters are numbered @p0, @p1, ... in WHERE order.
type Builder struct {
	table    string
	distinct bool
	columns  []string
	where    []Condition
	order    []orderTerm
	limit    int64
	offset   int64
}

// From starts a query on table.
func From(table string) Builder {
	return Builder{table: table}
}

// Select appends result columns. With none, the query selects *.
func (b Builder) Select(columns ...string) Builder {
	b.columns = append(slices.Clip(b.columns), columns...)
	return b
}

// Distinct removes duplicate rows.
func (b Builder) Distinct() Builder {
	b.distinct = true
	return b
}

// Where adds a condition, ANDed with the others.
func (b Builder) Where(condition Condition) Builder {
	b.where = append(slices.Clip(b.where), condition)
	return b
}

// OrderBy adds a sort key. Later keys break ties of earlier ones.
func (b Builder) OrderBy(column string, direction Direction) Builder {
	b.order = append(slices.Clip(b.order), orderTerm{column: column, direction: direction})
	return b
}

// Limit caps the number of rows. Zero means no limit.
func (b Builder) Limit(limit int64) Builder {
	b.limit = limit
	return b
}

// Offset skips rows. Zero is omitted from the SQL.
func (b Builder) Offset(offset int64) Builder {
	b.offset = offset
	return b
}

// Page restricts the query to one page window.
func (b Builder) Page(p pagination.Page) Builder {
	return b.Limit(int64(p.Limit())).Offset(int64(p.Offset()))
}

// Count turns the query into SELECT COUNT(*) over the same rows.
func (b Builder) Count() Builder {
	b.columns = []string{"COUNT(*)"}
	b.distinct = false
	b.order = nil
	b.limit, b.offset = 0, 0
	return b
}

// Build renders the statement.
func (b Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	sql.WriteString("SELECT ")
	if b.distinct {
		sql.WriteString("DISTINCT ")
	}
	if len(b.columns) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.columns, ", "))
	}
	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	if len(b.where) > 0 {
		fragment, _ := joinConditions(b.where, " AND ", 0, params)
		sql.WriteString(" WHERE ")
		sql.WriteString(fragment)
	}

	for i, term := range b.order {
		if i == 0 {
			sql.WriteString(" ORDER BY ")
		} else {
			sql.WriteString(", ")
		}
		sql.WriteString(term.column + " " + term.direction.String())
	}

	if b.limit > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limit
	}
	if b.offset > 0 {
		sql.WriteString(" OFFSET @offset")
		params["offset"] = b.offset
	}

	return spanner.Statement{SQL: sql.String(), Params: params}
}
