package m_column

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the catalog_columns table.
type Data struct {
	ColumnID  string             `spanner:"column_id"`
	Name      string             `spanner:"name"`
	Type      string             `spanner:"type"`
	Formula   spanner.NullString `spanner:"formula"`
	Editable  bool               `spanner:"editable"`
	Position  int64              `spanner:"position"`
	CreatedAt time.Time          `spanner:"created_at"`
	UpdatedAt time.Time          `spanner:"updated_at"`
}

func (d *Data) values() []interface{} {
	return []interface{}{d.ColumnID, d.Name, d.Type, d.Formula, d.Editable, d.Position, d.CreatedAt, d.UpdatedAt}
}
