package query

import (
	"fmt"
	"strings"
)

// Condition is one WHERE predicate. SQL renders it with parameters named
// from @p<paramIndex> upward and returns them.
type Condition interface {
	SQL(paramIndex int) (string, map[string]interface{})
}

// Eq matches field = value.
func Eq(field string, value interface{}) Condition {
	return eqCondition{field: field, value: value}
}

type eqCondition struct {
	field string
	value interface{}
}

func (c eqCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	name := paramName(paramIndex)
	return fmt.Sprintf("%s = @%s", c.field, name), map[string]interface{}{name: c.value}
}

// ContainsFold matches rows whose field contains substr, ignoring case:
// STRPOS(LOWER(field), @p) > 0 with p bound to the lowered substring.
func ContainsFold(field, substr string) Condition {
	return containsFoldCondition{field: field, substr: strings.ToLower(substr)}
}

type containsFoldCondition struct {
	field  string
	substr string
}

func (c containsFoldCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	name := paramName(paramIndex)
	return fmt.Sprintf("STRPOS(LOWER(%s), @%s) > 0", c.field, name), map[string]interface{}{name: c.substr}
}

// Or matches when any condition does. More than one condition is
// parenthesized.
func Or(conditions ...Condition) Condition {
	return groupCondition{conditions: conditions, sep: " OR "}
}

// And matches when every condition does. More than one condition is
// parenthesized.
func And(conditions ...Condition) Condition {
	return groupCondition{conditions: conditions, sep: " AND "}
}

type groupCondition struct {
	conditions []Condition
	sep        string
}

func (c groupCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	params := make(map[string]interface{})
	fragment, n := joinConditions(c.conditions, c.sep, paramIndex, params)
	if n > 1 {
		fragment = "(" + fragment + ")"
	}
	return fragment, params
}

// joinConditions renders conditions joined by sep into params, numbering
// parameters consecutively from paramIndex. It returns the fragment and the
// number of conditions joined.
func joinConditions(conditions []Condition, sep string, paramIndex int, params map[string]interface{}) (string, int) {
	parts := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		fragment, condParams := cond.SQL(paramIndex)
		parts = append(parts, fragment)
		for k, v := range condParams {
			params[k] = v
		}
		paramIndex += len(condParams)
	}
	return strings.Join(parts, sep), len(parts)
}

func paramName(i int) string {
	return fmt.Sprintf("p%d", i)
}
