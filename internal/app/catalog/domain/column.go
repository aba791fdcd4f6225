package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/light-bringer/markup-catalog/internal/pkg/formula"
)

// ColumnType represents how a column's cells are stored or derived.
type ColumnType string

const (
	ColumnText    ColumnType = "text"
	ColumnNumber  ColumnType = "number"
	ColumnFormula ColumnType = "formula"
)

// ParseColumnType converts a string to a ColumnType.
func ParseColumnType(s string) (ColumnType, error) {
	switch ColumnType(strings.ToLower(strings.TrimSpace(s))) {
	case ColumnText:
		return ColumnText, nil
	case ColumnNumber:
		return ColumnNumber, nil
	case ColumnFormula:
		return ColumnFormula, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidColumnType, s)
}

// Field names for column change tracking
const (
	ColumnFieldName     = "name"
	ColumnFieldType     = "type"
	ColumnFieldFormula  = "formula"
	ColumnFieldEditable = "editable"
	ColumnFieldPosition = "position"
)

// Column is a schema entry: a named field of every product row, either stored
// (text, number) or computed from a formula at read time.
type Column struct {
	id        string
	name      string
	typ       ColumnType
	formula   string
	expr      *formula.Expr
	editable  bool
	position  int64
	createdAt time.Time
	updatedAt time.Time

	previousName string

	changes *ChangeTracker
	events  []DomainEvent
}

// NewColumn creates a new Column aggregate. Formula columns are never
// editable, whatever the caller asks for.
func NewColumn(id, name string, typ ColumnType, src string, editable bool, position int64, now time.Time) (*Column, error) {
	c := &Column{
		id:        id,
		position:  position,
		createdAt: now,
		updatedAt: now,
		changes:   NewChangeTracker(),
		events:    make([]DomainEvent, 0),
	}

	if err := c.Rename(name); err != nil {
		return nil, err
	}
	if err := c.SetType(typ); err != nil {
		return nil, err
	}
	if typ == ColumnFormula {
		if err := c.SetFormula(src); err != nil {
			return nil, err
		}
	} else if strings.TrimSpace(src) != "" {
		return nil, ErrUnexpectedFormula
	}
	c.SetEditable(editable)

	// Every field of a new column is written
	c.changes.MarkDirty(ColumnFieldName, ColumnFieldType, ColumnFieldFormula, ColumnFieldEditable, ColumnFieldPosition)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.recordEvent(&ColumnCreatedEvent{
		ColumnID:  c.id,
		Name:      c.name,
		Type:      string(c.typ),
		Formula:   c.formula,
		Editable:  c.editable,
		Position:  c.position,
		CreatedAt: now,
	})

	return c, nil
}

// ReconstructColumn reconstitutes a Column from storage. A stored formula
// that no longer compiles is kept as text and evaluates to zero.
func ReconstructColumn(id, name string, typ ColumnType, src string, editable bool, position int64, createdAt, updatedAt time.Time) *Column {
	c := &Column{
		id:        id,
		name:      name,
		typ:       typ,
		formula:   src,
		editable:  editable,
		position:  position,
		createdAt: createdAt,
		updatedAt: updatedAt,
		changes:   NewChangeTracker(),
		events:    make([]DomainEvent, 0),
	}
	if typ == ColumnFormula {
		if expr, err := formula.Compile(src); err == nil {
			c.expr = expr
		}
	}
	return c
}

// Getters
func (c *Column) ID() string                  { return c.id }
func (c *Column) Name() string                { return c.name }
func (c *Column) Type() ColumnType            { return c.typ }
func (c *Column) Formula() string             { return c.formula }
func (c *Column) Editable() bool              { return c.editable }
func (c *Column) Position() int64             { return c.position }
func (c *Column) CreatedAt() time.Time        { return c.createdAt }
func (c *Column) UpdatedAt() time.Time        { return c.updatedAt }
func (c *Column) Changes() *ChangeTracker     { return c.changes }
func (c *Column) DomainEvents() []DomainEvent { return c.events }

// PreviousName returns the name loaded from storage when the column has been
// renamed since, otherwise "".
func (c *Column) PreviousName() string { return c.previousName }

// IsFormula reports whether the column is computed.
func (c *Column) IsFormula() bool { return c.typ == ColumnFormula }

// Expr returns the compiled formula, or nil for stored columns and formulas
// that fail to compile.
func (c *Column) Expr() *formula.Expr { return c.expr }

// References returns the column names the formula reads.
func (c *Column) References() []string {
	if c.expr == nil {
		return nil
	}
	return c.expr.References()
}

// CoerceValue converts a cell value to what the column stores: numbers for
// number columns, strings for text columns. nil clears the cell. Formula
// columns store nothing.
func (c *Column) CoerceValue(value any) (any, error) {
	switch c.typ {
	case ColumnFormula:
		return nil, fmt.Errorf("%w: %s is computed", ErrReadOnlyField, c.name)
	case ColumnNumber:
		if value == nil {
			return nil, nil
		}
		return ParseNumber(value)
	}
	if value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be text", ErrInvalidFieldValue, c.name)
	}
	return s, nil
}

// Rename changes the column name.
func (c *Column) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "{}") {
		return ErrInvalidColumnName
	}
	if name == c.name {
		return nil
	}
	if c.previousName == "" && c.name != "" {
		c.previousName = c.name
	}
	if name == c.previousName {
		c.previousName = ""
	}
	c.name = name
	c.changes.MarkDirty(ColumnFieldName)
	return nil
}

// SetType changes the column type. Leaving the formula type drops the
// formula; entering it makes the column read-only.
func (c *Column) SetType(typ ColumnType) error {
	if _, err := ParseColumnType(string(typ)); err != nil {
		return err
	}
	if typ == c.typ {
		return nil
	}
	c.typ = typ
	c.changes.MarkDirty(ColumnFieldType)
	if typ != ColumnFormula && c.formula != "" {
		c.formula = ""
		c.expr = nil
		c.changes.MarkDirty(ColumnFieldFormula)
	}
	if typ == ColumnFormula && c.editable {
		c.editable = false
		c.changes.MarkDirty(ColumnFieldEditable)
	}
	return nil
}

// SetFormula compiles and stores the formula of a formula column.
func (c *Column) SetFormula(src string) error {
	if c.typ != ColumnFormula {
		return ErrUnexpectedFormula
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return ErrFormulaRequired
	}
	expr, err := formula.Compile(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormula, err)
	}
	c.formula = src
	c.expr = expr
	c.changes.MarkDirty(ColumnFieldFormula)
	return nil
}

// SetEditable toggles cell editing. Formula columns stay read-only.
func (c *Column) SetEditable(editable bool) {
	if c.typ == ColumnFormula {
		editable = false
	}
	if editable == c.editable {
		return
	}
	c.editable = editable
	c.changes.MarkDirty(ColumnFieldEditable)
}

// SetPosition moves the column in the listing order.
func (c *Column) SetPosition(position int64) {
	if position == c.position {
		return
	}
	c.position = position
	c.changes.MarkDirty(ColumnFieldPosition)
}

// Validate checks the column's own invariants. Cross-column checks live on
// Schema.
func (c *Column) Validate() error {
	switch c.typ {
	case ColumnFormula:
		if c.formula == "" {
			return ErrFormulaRequired
		}
		if c.editable {
			return ErrFormulaEditable
		}
	case ColumnText, ColumnNumber:
		if c.formula != "" {
			return ErrUnexpectedFormula
		}
	default:
		return ErrInvalidColumnType
	}
	return nil
}

// MarkUpdated stamps updatedAt and records one update event. It is a no-op
// when nothing changed.
func (c *Column) MarkUpdated(now time.Time) {
	if !c.changes.HasChanges() {
		return
	}
	c.updatedAt = now
	c.recordEvent(&ColumnUpdatedEvent{
		ColumnID:      c.id,
		ChangedFields: c.changes.DirtyFields(),
		PreviousName:  c.previousName,
		Name:          c.name,
		Type:          string(c.typ),
		Formula:       c.formula,
		UpdatedAt:     now,
	})
}

// MarkDeleted records the deletion event.
func (c *Column) MarkDeleted(now time.Time) {
	c.recordEvent(&ColumnDeletedEvent{
		ColumnID:  c.id,
		Name:      c.name,
		DeletedAt: now,
	})
}

func (c *Column) recordEvent(event DomainEvent) {
	c.events = append(c.events, event)
}

// ClearEvents clears all recorded domain events.
func (c *Column) ClearEvents() {
	c.events = make([]DomainEvent, 0)
}

// ColumnSpec describes a column of the default schema.
type ColumnSpec struct {
	Name     string
	Type     ColumnType
	Formula  string
	Editable bool
}

// DefaultColumnSpecs is the schema seeded into an empty column store.
var DefaultColumnSpecs = []ColumnSpec{
	{Name: FieldNumber, Type: ColumnText, Editable: true},
	{Name: FieldBasePrice, Type: ColumnNumber, Editable: true},
	{Name: "p10", Type: ColumnFormula, Formula: "{basePrice} + 10"},
	{Name: "price15", Type: ColumnFormula, Formula: "round({basePrice} * 1.15)"},
	{Name: "price20", Type: ColumnFormula, Formula: "round({basePrice} * 1.20)"},
	{Name: "price25", Type: ColumnFormula, Formula: "round({basePrice} * 1.25)"},
}

// NewDefaultColumns builds the default schema, positioned from 1 in listing
// order.
func NewDefaultColumns(newID func() string, now time.Time) ([]*Column, error) {
	cols := make([]*Column, 0, len(DefaultColumnSpecs))
	for i, spec := range DefaultColumnSpecs {
		c, err := NewColumn(newID(), spec.Name, spec.Type, spec.Formula, spec.Editable, int64(i+1), now)
		if err != nil {
			return nil, fmt.Errorf("default column %s: %w", spec.Name, err)
		}
		cols = append(cols, c)
	}
	return cols, nil
}
