package domain

import "math"

// Stored markup field names, as they appear in a product row.
const (
	FieldPPlus10        = "pPlus10"
	FieldMarkup15Before = "markup15Before"
	FieldMarkup15After  = "markup15After"
	FieldMarkup20Before = "markup20Before"
	FieldMarkup20After  = "markup20After"
	FieldMarkup25Before = "markup25Before"
	FieldMarkup25After  = "markup25After"
	FieldFinalPrice     = "finalPrice"
)

// markupFlatFee and finalPriceFee are the flat additions of the legacy tiers.
const (
	markupFlatFee = 10
	finalPriceFee = 355
)

// Markups are the fixed price tiers derived from a base price. They are stored
// with the product and recomputed in full whenever the base price is set.
type Markups struct {
	PPlus10        float64 `json:"pPlus10"`
	Markup15Before float64 `json:"markup15Before"`
	Markup15After  float64 `json:"markup15After"`
	Markup20Before float64 `json:"markup20Before"`
	Markup20After  float64 `json:"markup20After"`
	Markup25Before float64 `json:"markup25Before"`
	Markup25After  float64 `json:"markup25After"`
	FinalPrice     float64 `json:"finalPrice"`
}

// FixedMarkups computes every tier for base price b. The "After" tiers round
// half away from zero to a whole number, the same primitive the formula
// round function uses.
func FixedMarkups(b float64) Markups {
	m15 := b * 1.15
	m20 := b * 1.20
	m25 := b * 1.25
	return Markups{
		PPlus10:        b + markupFlatFee,
		Markup15Before: m15,
		Markup15After:  math.Round(m15),
		Markup20Before: m20,
		Markup20After:  math.Round(m20),
		Markup25Before: m25,
		Markup25After:  math.Round(m25),
		FinalPrice:     b + finalPriceFee,
	}
}

// Fields returns the tiers keyed by their row field names.
func (m Markups) Fields() map[string]float64 {
	return map[string]float64{
		FieldPPlus10:        m.PPlus10,
		FieldMarkup15Before: m.Markup15Before,
		FieldMarkup15After:  m.Markup15After,
		FieldMarkup20Before: m.Markup20Before,
		FieldMarkup20After:  m.Markup20After,
		FieldMarkup25Before: m.Markup25Before,
		FieldMarkup25After:  m.Markup25After,
		FieldFinalPrice:     m.FinalPrice,
	}
}

// MarkupFieldNames lists the tiers in display order.
func MarkupFieldNames() []string {
	return []string{
		FieldPPlus10,
		FieldMarkup15Before, FieldMarkup15After,
		FieldMarkup20Before, FieldMarkup20After,
		FieldMarkup25Before, FieldMarkup25After,
		FieldFinalPrice,
	}
}

// IsMarkupField reports whether name is one of the stored tiers.
func IsMarkupField(name string) bool {
	switch name {
	case FieldPPlus10,
		FieldMarkup15Before, FieldMarkup15After,
		FieldMarkup20Before, FieldMarkup20After,
		FieldMarkup25Before, FieldMarkup25After,
		FieldFinalPrice:
		return true
	}
	return false
}
