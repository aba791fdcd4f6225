package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
)

type columnRecord struct {
	id        string
	name      string
	typ       domain.ColumnType
	formula   string
	editable  bool
	position  int64
	createdAt time.Time
	updatedAt time.Time
}

func newColumnRecord(c *domain.Column) *columnRecord {
	return &columnRecord{
		id:        c.ID(),
		name:      c.Name(),
		typ:       c.Type(),
		formula:   c.Formula(),
		editable:  c.Editable(),
		position:  c.Position(),
		createdAt: c.CreatedAt(),
		updatedAt: c.UpdatedAt(),
	}
}

func (r *columnRecord) toDomain() *domain.Column {
	return domain.ReconstructColumn(r.id, r.name, r.typ, r.formula, r.editable, r.position, r.createdAt, r.updatedAt)
}

// ColumnStore implements contracts.ColumnStore in memory.
type ColumnStore struct {
	s *Store
}

// List returns every column in listing order, seeding the default schema
// into an empty store.
func (cs *ColumnStore) List(ctx context.Context) ([]*domain.Column, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs.s.mu.RLock()
	empty := len(cs.s.columns) == 0
	cs.s.mu.RUnlock()

	if empty {
		if err := cs.seed(); err != nil {
			return nil, err
		}
	}

	cs.s.mu.RLock()
	cols := make([]*domain.Column, 0, len(cs.s.columns))
	for _, r := range cs.s.columns {
		cols = append(cols, r.toDomain())
	}
	cs.s.mu.RUnlock()

	domain.SortColumns(cols)
	return cols, nil
}

// seed writes the default schema unless another caller got there first.
func (cs *ColumnStore) seed() error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	if len(cs.s.columns) > 0 {
		return nil
	}

	defaults, err := domain.NewDefaultColumns(cs.s.newID, cs.s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to build default columns: %w", err)
	}
	for _, c := range defaults {
		events, err := contracts.NewOutboxEvents(c.DomainEvents())
		if err != nil {
			return err
		}
		cs.s.columns[c.ID()] = newColumnRecord(c)
		cs.s.appendEvents(events)
	}
	return nil
}

// Get retrieves a column by ID.
func (cs *ColumnStore) Get(ctx context.Context, columnID string) (*domain.Column, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	r, ok := cs.s.columns[columnID]
	if !ok {
		return nil, domain.ErrColumnNotFound
	}
	return r.toDomain(), nil
}

// Create inserts a new column and its events.
func (cs *ColumnStore) Create(ctx context.Context, column *domain.Column) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	events, err := contracts.NewOutboxEvents(column.DomainEvents())
	if err != nil {
		return err
	}

	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	cs.s.columns[column.ID()] = newColumnRecord(column)
	cs.s.appendEvents(events)
	return nil
}

// Update writes the column's dirty fields and its events.
func (cs *ColumnStore) Update(ctx context.Context, column *domain.Column) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	changes := column.Changes()
	if !changes.HasChanges() {
		return nil
	}
	events, err := contracts.NewOutboxEvents(column.DomainEvents())
	if err != nil {
		return err
	}

	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	r, ok := cs.s.columns[column.ID()]
	if !ok {
		return domain.ErrColumnNotFound
	}

	if changes.Dirty(domain.ColumnFieldName) {
		r.name = column.Name()
	}
	if changes.Dirty(domain.ColumnFieldType) {
		r.typ = column.Type()
	}
	if changes.Dirty(domain.ColumnFieldFormula) {
		r.formula = column.Formula()
	}
	if changes.Dirty(domain.ColumnFieldEditable) {
		r.editable = column.Editable()
	}
	if changes.Dirty(domain.ColumnFieldPosition) {
		r.position = column.Position()
	}
	r.updatedAt = column.UpdatedAt()

	cs.s.appendEvents(events)
	return nil
}

// Delete removes the column and records its events.
func (cs *ColumnStore) Delete(ctx context.Context, column *domain.Column) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	events, err := contracts.NewOutboxEvents(column.DomainEvents())
	if err != nil {
		return err
	}

	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	if _, ok := cs.s.columns[column.ID()]; !ok {
		return domain.ErrColumnNotFound
	}
	delete(cs.s.columns, column.ID())
	cs.s.appendEvents(events)
	return nil
}
