package m_product

// Field name constants for the products table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "products"

	ProductID      = "product_id"
	Number         = "number"
	Name           = "name"
	Description    = "description"
	Category       = "category"
	BasePrice      = "base_price"
	PPlus10        = "p_plus_10"
	Markup15Before = "markup_15_before"
	Markup15After  = "markup_15_after"
	Markup20Before = "markup_20_before"
	Markup20After  = "markup_20_after"
	Markup25Before = "markup_25_before"
	Markup25After  = "markup_25_after"
	FinalPrice     = "final_price"
	Attributes     = "attributes"
	CreatedAt      = "created_at"
	UpdatedAt      = "updated_at"
)

// MarkupColumns lists the stored markup tiers in table order.
var MarkupColumns = []string{
	PPlus10,
	Markup15Before, Markup15After,
	Markup20Before, Markup20After,
	Markup25Before, Markup25After,
	FinalPrice,
}

// AllColumns lists every column of the table in insert order.
func AllColumns() []string {
	cols := []string{ProductID, Number, Name, Description, Category, BasePrice}
	cols = append(cols, MarkupColumns...)
	return append(cols, Attributes, CreatedAt, UpdatedAt)
}
