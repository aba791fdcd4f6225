// Package models holds the mutation helpers shared by the per-table model
// packages (m_product, m_column, m_outbox).
package models

import (
	"maps"
	"slices"

	"cloud.google.com/go/spanner"
)

// UpdateMut updates the given columns of the row whose key column keyCol
// equals key. Columns are written in sorted order so equal updates build
// equal mutations. It returns nil when updates is empty.
func UpdateMut(table, keyCol string, key interface{}, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	cols := slices.Sorted(maps.Keys(updates))
	values := make([]interface{}, 0, len(cols)+1)
	values = append(values, key)
	for _, col := range cols {
		values = append(values, updates[col])
	}
	return spanner.Update(table, append([]string{keyCol}, cols...), values)
}
