package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/light-bringer/markup-catalog/internal/pkg/formula"
)

// Field names for change tracking and row lookup
const (
	FieldNumber      = "number"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldBasePrice   = "basePrice"
	FieldAttributes  = "attributes"
)

// DefaultCategory is assigned when a product is saved without one.
const DefaultCategory = "Default"

// Product is the aggregate root for a catalog row: its stored scalars, the
// fixed markup tiers derived from its base price, and free-form attributes
// keyed by column name.
type Product struct {
	id          string
	number      string
	name        string
	description string
	category    string
	basePrice   float64
	markups     Markups
	attributes  map[string]any
	createdAt   time.Time
	updatedAt   time.Time

	// Change tracking for optimized repository updates
	changes *ChangeTracker

	// Domain events to be published
	events []DomainEvent
}

// NewProduct creates a new Product aggregate (for creation).
func NewProduct(id, number, name, description, category string, basePrice float64, attributes map[string]any, now time.Time) (*Product, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrEmptyNumber
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if err := validatePrice(basePrice); err != nil {
		return nil, err
	}

	attrs, err := normalizeAttributes(attributes)
	if err != nil {
		return nil, err
	}

	p := &Product{
		id:          id,
		number:      number,
		name:        name,
		description: description,
		category:    normalizeCategory(category),
		basePrice:   basePrice,
		markups:     FixedMarkups(basePrice),
		attributes:  attrs,
		createdAt:   now,
		updatedAt:   now,
		changes:     NewChangeTracker(),
		events:      make([]DomainEvent, 0),
	}

	// Every field of a new product is written
	p.changes.MarkDirty(FieldNumber, FieldName, FieldDescription, FieldCategory, FieldBasePrice, FieldAttributes)

	p.recordEvent(&ProductCreatedEvent{
		ProductID:  p.id,
		Number:     p.number,
		Name:       p.name,
		Category:   p.category,
		BasePrice:  p.basePrice,
		Attributes: p.Attributes(),
		CreatedAt:  p.createdAt,
	})

	return p, nil
}

// ReconstructProduct reconstitutes a Product from storage. Markups are taken
// as stored, never recomputed.
func ReconstructProduct(
	id, number, name, description, category string,
	basePrice float64,
	markups Markups,
	attributes map[string]any,
	createdAt, updatedAt time.Time,
) *Product {
	attrs := make(map[string]any, len(attributes))
	for k, v := range attributes {
		attrs[k] = v
	}
	return &Product{
		id:          id,
		number:      number,
		name:        name,
		description: description,
		category:    category,
		basePrice:   basePrice,
		markups:     markups,
		attributes:  attrs,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		changes:     NewChangeTracker(), // Start with clean slate
		events:      make([]DomainEvent, 0),
	}
}

// Getters
func (p *Product) ID() string                  { return p.id }
func (p *Product) Number() string              { return p.number }
func (p *Product) Name() string                { return p.name }
func (p *Product) Description() string         { return p.description }
func (p *Product) Category() string            { return p.category }
func (p *Product) BasePrice() float64          { return p.basePrice }
func (p *Product) Markups() Markups            { return p.markups }
func (p *Product) CreatedAt() time.Time        { return p.createdAt }
func (p *Product) UpdatedAt() time.Time        { return p.updatedAt }
func (p *Product) Changes() *ChangeTracker     { return p.changes }
func (p *Product) DomainEvents() []DomainEvent { return p.events }

// Attributes returns a copy of the extra stored fields.
func (p *Product) Attributes() map[string]any {
	out := make(map[string]any, len(p.attributes))
	for k, v := range p.attributes {
		out[k] = v
	}
	return out
}

// Attribute returns one extra stored field.
func (p *Product) Attribute(name string) (any, bool) {
	v, ok := p.attributes[name]
	return v, ok
}

// SetNumber updates the product number.
func (p *Product) SetNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return ErrEmptyNumber
	}
	p.number = number
	p.changes.MarkDirty(FieldNumber)
	return nil
}

// SetName updates the product name.
func (p *Product) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.name = name
	p.changes.MarkDirty(FieldName)
	return nil
}

// SetDescription updates the product description.
func (p *Product) SetDescription(description string) {
	p.description = description
	p.changes.MarkDirty(FieldDescription)
}

// SetCategory updates the product category. A blank category becomes
// DefaultCategory.
func (p *Product) SetCategory(category string) {
	p.category = normalizeCategory(category)
	p.changes.MarkDirty(FieldCategory)
}

// SetBasePrice updates the base price and overwrites every markup tier.
func (p *Product) SetBasePrice(basePrice float64) error {
	if err := validatePrice(basePrice); err != nil {
		return err
	}
	p.basePrice = basePrice
	p.markups = FixedMarkups(basePrice)
	p.changes.MarkDirty(FieldBasePrice)
	return nil
}

// SetAttribute stores an extra field. Values must be strings or numbers; nil
// removes the field.
func (p *Product) SetAttribute(name string, value any) error {
	if IsReservedField(name) {
		return fmt.Errorf("%w: %s is a built-in field", ErrInvalidFieldValue, name)
	}
	if value == nil {
		delete(p.attributes, name)
		p.changes.MarkDirty(FieldAttributes)
		return nil
	}
	v, err := normalizeAttribute(name, value)
	if err != nil {
		return err
	}
	p.attributes[name] = v
	p.changes.MarkDirty(FieldAttributes)
	return nil
}

// SetField updates the field a row exposes under name: built-in fields go
// through their setters, markup tiers are read-only, anything else is an
// attribute. Numeric fields accept numbers or numeric strings.
func (p *Product) SetField(name string, value any) error {
	switch name {
	case FieldNumber, FieldName, FieldDescription, FieldCategory:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be text", ErrInvalidFieldValue, name)
		}
		switch name {
		case FieldNumber:
			return p.SetNumber(s)
		case FieldName:
			return p.SetName(s)
		case FieldDescription:
			p.SetDescription(s)
		default:
			p.SetCategory(s)
		}
		return nil
	case FieldBasePrice:
		v, err := ParseNumber(value)
		if err != nil {
			return ErrInvalidPrice
		}
		return p.SetBasePrice(v)
	}
	if IsMarkupField(name) {
		return fmt.Errorf("%w: %s is derived from the base price", ErrReadOnlyField, name)
	}
	return p.SetAttribute(name, value)
}

// Row returns the product as the flat record formulas are evaluated against:
// attributes, then built-in fields and markup tiers, which take precedence.
func (p *Product) Row() map[string]any {
	row := make(map[string]any, len(p.attributes)+13)
	for k, v := range p.attributes {
		row[k] = v
	}
	row[FieldNumber] = p.number
	row[FieldName] = p.name
	row[FieldDescription] = p.description
	row[FieldCategory] = p.category
	row[FieldBasePrice] = p.basePrice
	for k, v := range p.markups.Fields() {
		row[k] = v
	}
	return row
}

// MarkUpdated stamps updatedAt and records a single update event for every
// field changed since load. It is a no-op when nothing changed.
func (p *Product) MarkUpdated(now time.Time) {
	if !p.changes.HasChanges() {
		return
	}
	p.updatedAt = now
	p.recordEvent(&ProductUpdatedEvent{
		ProductID:     p.id,
		ChangedFields: p.changes.DirtyFields(),
		Number:        p.number,
		Name:          p.name,
		Category:      p.category,
		BasePrice:     p.basePrice,
		UpdatedAt:     now,
	})
}

// MarkDeleted records the deletion event.
func (p *Product) MarkDeleted(now time.Time) {
	p.recordEvent(&ProductDeletedEvent{
		ProductID: p.id,
		Number:    p.number,
		DeletedAt: now,
	})
}

// recordEvent adds a domain event to the list of events.
func (p *Product) recordEvent(event DomainEvent) {
	p.events = append(p.events, event)
}

// ClearEvents clears all recorded domain events (called after publishing).
func (p *Product) ClearEvents() {
	p.events = make([]DomainEvent, 0)
}

// IsReservedField reports whether name is a built-in product field or markup
// tier, which attributes cannot shadow.
func IsReservedField(name string) bool {
	switch name {
	case FieldNumber, FieldName, FieldDescription, FieldCategory, FieldBasePrice:
		return true
	}
	return IsMarkupField(name)
}

// ParseNumber accepts Go numbers and numeric strings.
func ParseNumber(value any) (float64, error) {
	if v, ok := formula.Numeric(value); ok {
		return v, nil
	}
	if s, ok := value.(string); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %v is not a number", ErrInvalidFieldValue, value)
}

func validatePrice(b float64) error {
	if math.IsNaN(b) || math.IsInf(b, 0) || b <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return DefaultCategory
	}
	return category
}

func normalizeAttributes(attributes map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(attributes))
	for name, value := range attributes {
		if IsReservedField(name) {
			return nil, fmt.Errorf("%w: %s is a built-in field", ErrInvalidFieldValue, name)
		}
		if value == nil {
			continue
		}
		v, err := normalizeAttribute(name, value)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// normalizeAttribute stores numbers as float64 and keeps strings as-is.
func normalizeAttribute(name string, value any) (any, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	if v, ok := formula.Numeric(value); ok {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s must be finite", ErrInvalidFieldValue, name)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s must be text or a number", ErrInvalidFieldValue, name)
}
