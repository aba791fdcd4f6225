package domain

import "time"

// Event types written to the outbox.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventColumnCreated  = "column.created"
	EventColumnUpdated  = "column.updated"
	EventColumnDeleted  = "column.deleted"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// ProductCreatedEvent is emitted when a product is created.
type ProductCreatedEvent struct {
	ProductID  string         `json:"product_id"`
	Number     string         `json:"number"`
	Name       string         `json:"name"`
	Category   string         `json:"category"`
	BasePrice  float64        `json:"base_price"`
	Attributes map[string]any `json:"attributes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (e *ProductCreatedEvent) EventType() string   { return EventProductCreated }
func (e *ProductCreatedEvent) AggregateID() string { return e.ProductID }

// ProductUpdatedEvent is emitted once per update, listing every changed field.
type ProductUpdatedEvent struct {
	ProductID     string    `json:"product_id"`
	ChangedFields []string  `json:"changed_fields"`
	Number        string    `json:"number"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	BasePrice     float64   `json:"base_price"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (e *ProductUpdatedEvent) EventType() string   { return EventProductUpdated }
func (e *ProductUpdatedEvent) AggregateID() string { return e.ProductID }

// ProductDeletedEvent is emitted when a product is removed.
type ProductDeletedEvent struct {
	ProductID string    `json:"product_id"`
	Number    string    `json:"number"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e *ProductDeletedEvent) EventType() string   { return EventProductDeleted }
func (e *ProductDeletedEvent) AggregateID() string { return e.ProductID }

// ColumnCreatedEvent is emitted when a column is added to the schema.
type ColumnCreatedEvent struct {
	ColumnID  string    `json:"column_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Formula   string    `json:"formula,omitempty"`
	Editable  bool      `json:"editable"`
	Position  int64     `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *ColumnCreatedEvent) EventType() string   { return EventColumnCreated }
func (e *ColumnCreatedEvent) AggregateID() string { return e.ColumnID }

// ColumnUpdatedEvent is emitted once per column update.
type ColumnUpdatedEvent struct {
	ColumnID      string    `json:"column_id"`
	ChangedFields []string  `json:"changed_fields"`
	PreviousName  string    `json:"previous_name,omitempty"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Formula       string    `json:"formula,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (e *ColumnUpdatedEvent) EventType() string   { return EventColumnUpdated }
func (e *ColumnUpdatedEvent) AggregateID() string { return e.ColumnID }

// ColumnDeletedEvent is emitted when a column is removed from the schema.
type ColumnDeletedEvent struct {
	ColumnID  string    `json:"column_id"`
	Name      string    `json:"name"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e *ColumnDeletedEvent) EventType() string   { return EventColumnDeleted }
func (e *ColumnDeletedEvent) AggregateID() string { return e.ColumnID }
