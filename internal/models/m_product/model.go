package m_product

import (
	"cloud.google.com/go/spanner"

	"github.com/light-bringer/markup-catalog/internal/models"
)

// Model builds mutations for the products table.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// InsertMut inserts a full product row.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, AllColumns(), data.values())
}

// UpdateMut writes only the given columns of a product. Nil when there is
// nothing to write.
func (m *Model) UpdateMut(productID string, updates map[string]interface{}) *spanner.Mutation {
	return models.UpdateMut(TableName, ProductID, productID, updates)
}

// DeleteMut hard-deletes a product.
func (m *Model) DeleteMut(productID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID})
}
