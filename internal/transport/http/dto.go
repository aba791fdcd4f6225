package http

import (
	"time"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/pkg/pagination"
)

// ProductResponse is the JSON form of a product, markups flattened in.
type ProductResponse struct {
	ID          string  `json:"id"`
	Number      string  `json:"number"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	BasePrice   float64 `json:"basePrice"`
	domain.Markups
	Attributes map[string]any `json:"attributes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ColumnResponse is the JSON form of a column.
type ColumnResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      domain.ColumnType `json:"type"`
	Formula   string            `json:"formula,omitempty"`
	Editable  bool              `json:"editable"`
	Position  int64             `json:"position"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ProductListResponse is one page of products.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Page     pagination.Page   `json:"page"`
}

// ProductMutationResponse is returned by product writes.
type ProductMutationResponse struct {
	Product *ProductResponse `json:"product,omitempty"`
	Notice  *Notice          `json:"notice"`
}

// ColumnMutationResponse is returned by column writes.
type ColumnMutationResponse struct {
	Column *ColumnResponse `json:"column,omitempty"`
	Notice *Notice         `json:"notice"`
}

// Event represents an outbox event in the HTTP response.
type Event struct {
	EventID     string `json:"event_id"`
	EventType   string `json:"event_type"`
	AggregateID string `json:"aggregate_id"`
	Payload     string `json:"payload"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	ProcessedAt string `json:"processed_at,omitempty"`
	RetryCount  int64  `json:"retry_count"`
	LastError   string `json:"last_error,omitempty"`
}

// ListEventsResponse represents the HTTP response for listing events.
type ListEventsResponse struct {
	Events     []Event `json:"events"`
	TotalCount int64   `json:"total_count"`
}

// CreateProductRequest is the body of POST /products.
type CreateProductRequest struct {
	Number      string         `json:"number"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	BasePrice   float64        `json:"basePrice"`
	Attributes  map[string]any `json:"attributes"`
}

// UpdateProductRequest is the body of PATCH /products/:id. Absent fields are
// left unchanged; a null attribute is removed.
type UpdateProductRequest struct {
	Number      *string        `json:"number"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	BasePrice   *float64       `json:"basePrice"`
	Attributes  map[string]any `json:"attributes"`
}

// UpdateCellRequest is the body of PUT /products/:id/cells/:column.
type UpdateCellRequest struct {
	Value any `json:"value"`
}

// CreateColumnRequest is the body of POST /columns.
type CreateColumnRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Formula  string `json:"formula"`
	Editable bool   `json:"editable"`
}

// UpdateColumnRequest is the body of PATCH /columns/:id.
type UpdateColumnRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Formula  *string `json:"formula"`
	Editable *bool   `json:"editable"`
	Position *int64  `json:"position"`
}

// EvaluateFormulaRequest is the body of POST /formulas/evaluate.
type EvaluateFormulaRequest struct {
	Formula   string         `json:"formula"`
	Row       map[string]any `json:"row"`
	ProductID string         `json:"product_id"`
}

func toProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID(),
		Number:      p.Number(),
		Name:        p.Name(),
		Description: p.Description(),
		Category:    p.Category(),
		BasePrice:   p.BasePrice(),
		Markups:     p.Markups(),
		Attributes:  p.Attributes(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func toProductListResponse(res *contracts.ListResult) *ProductListResponse {
	out := &ProductListResponse{
		Products: make([]ProductResponse, 0, len(res.Products)),
		Page:     res.Page,
	}
	for _, p := range res.Products {
		out.Products = append(out.Products, *toProductResponse(p))
	}
	return out
}

func toColumnResponse(c *domain.Column) *ColumnResponse {
	return &ColumnResponse{
		ID:        c.ID(),
		Name:      c.Name(),
		Type:      c.Type(),
		Formula:   c.Formula(),
		Editable:  c.Editable(),
		Position:  c.Position(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func toEvent(e *contracts.OutboxEvent) Event {
	ev := Event{
		EventID:     e.EventID,
		EventType:   e.EventType,
		AggregateID: e.AggregateID,
		Payload:     e.Payload,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		RetryCount:  e.RetryCount,
		LastError:   e.LastError,
	}
	if !e.ProcessedAt.IsZero() {
		ev.ProcessedAt = e.ProcessedAt.Format(time.RFC3339)
	}
	return ev
}
