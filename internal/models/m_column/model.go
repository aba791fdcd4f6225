package m_column

import (
	"cloud.google.com/go/spanner"

	"github.com/light-bringer/markup-catalog/internal/models"
)

// Model builds mutations for the catalog_columns table.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, AllColumns(), data.values())
}

// UpdateMut writes only the given columns. Nil when there is nothing to write.
func (m *Model) UpdateMut(columnID string, updates map[string]interface{}) *spanner.Mutation {
	return models.UpdateMut(TableName, ColumnID, columnID, updates)
}

func (m *Model) DeleteMut(columnID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{columnID})
}
