// Package memstore keeps the catalog in process memory. It backs the service
// when no database is configured and serves as the store in tests.
package memstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// Store holds products, columns and outbox events behind one lock, so an
// aggregate and its events are always written together.
type Store struct {
	mu    sync.RWMutex
	clock clock.Clock
	newID func() string

	products map[string]*productRecord
	seq      int64

	columns map[string]*columnRecord

	events []*contracts.OutboxEvent
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the id source used for seeded columns.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates an empty Store.
func New(clk clock.Clock, opts ...Option) *Store {
	s := &Store{
		clock:    clk,
		newID:    func() string { return uuid.New().String() },
		products: make(map[string]*productRecord),
		columns:  make(map[string]*columnRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Products returns the store's ProductStore view.
func (s *Store) Products() contracts.ProductStore { return &ProductStore{s: s} }

// Columns returns the store's ColumnStore view.
func (s *Store) Columns() contracts.ColumnStore { return &ColumnStore{s: s} }

// Events returns the store's EventLog view.
func (s *Store) Events() contracts.EventLog { return &EventLog{s: s} }

// Queue returns the store's EventQueue view.
func (s *Store) Queue() contracts.EventQueue { return &EventLog{s: s} }

// appendEvents records outbox events. Callers hold the write lock.
func (s *Store) appendEvents(events []*contracts.OutboxEvent) {
	now := s.clock.Now()
	for _, e := range events {
		e.CreatedAt = now
		s.events = append(s.events, e)
	}
}
