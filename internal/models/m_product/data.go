package m_product

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table.
type Data struct {
	ProductID      string           `spanner:"product_id"`
	Number         string           `spanner:"number"`
	Name           string           `spanner:"name"`
	Description    string           `spanner:"description"`
	Category       string           `spanner:"category"`
	BasePrice      float64          `spanner:"base_price"`
	PPlus10        float64          `spanner:"p_plus_10"`
	Markup15Before float64          `spanner:"markup_15_before"`
	Markup15After  float64          `spanner:"markup_15_after"`
	Markup20Before float64          `spanner:"markup_20_before"`
	Markup20After  float64          `spanner:"markup_20_after"`
	Markup25Before float64          `spanner:"markup_25_before"`
	Markup25After  float64          `spanner:"markup_25_after"`
	FinalPrice     float64          `spanner:"final_price"`
	Attributes     spanner.NullJSON `spanner:"attributes"`
	CreatedAt      time.Time        `spanner:"created_at"`
	UpdatedAt      time.Time        `spanner:"updated_at"`
}

// values lists the row in AllColumns order.
func (d *Data) values() []interface{} {
	return []interface{}{
		d.ProductID, d.Number, d.Name, d.Description, d.Category,
		d.BasePrice, d.PPlus10,
		d.Markup15Before, d.Markup15After,
		d.Markup20Before, d.Markup20After,
		d.Markup25Before, d.Markup25After,
		d.FinalPrice, d.Attributes,
		d.CreatedAt, d.UpdatedAt,
	}
}
