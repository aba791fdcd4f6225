package m_column

// Field name constants for the catalog_columns table.
const (
	TableName = "catalog_columns"

	ColumnID  = "column_id"
	Name      = "name"
	Type      = "type"
	Formula   = "formula"
	Editable  = "editable"
	Position  = "position"
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)

// AllColumns lists every column of the table in insert order.
func AllColumns() []string {
	return []string{ColumnID, Name, Type, Formula, Editable, Position, CreatedAt, UpdatedAt}
}
