package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/pkg/pagination"
)

// productRecord is the stored form of a product. Aggregates are never shared
// with callers.
type productRecord struct {
	seq         int64
	id          string
	number      string
	name        string
	description string
	category    string
	basePrice   float64
	markups     domain.Markups
	attributes  map[string]any
	createdAt   time.Time
	updatedAt   time.Time
}

func (r *productRecord) toDomain() *domain.Product {
	return domain.ReconstructProduct(
		r.id, r.number, r.name, r.description, r.category,
		r.basePrice, r.markups, r.attributes,
		r.createdAt, r.updatedAt,
	)
}

// ProductStore implements contracts.ProductStore in memory.
type ProductStore struct {
	s *Store
}

// List returns the page of products matching the filter, newest first.
func (ps *ProductStore) List(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &contracts.ListFilter{}
	}

	ps.s.mu.RLock()
	matched := make([]*productRecord, 0, len(ps.s.products))
	for _, r := range ps.s.products {
		if filter.Matches(r.toDomain()) {
			matched = append(matched, r)
		}
	}
	ps.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].createdAt.Equal(matched[j].createdAt) {
			return matched[i].createdAt.After(matched[j].createdAt)
		}
		return matched[i].seq > matched[j].seq
	})

	page := pagination.New(filter.Page, filter.PageSize, len(matched))
	start, end := page.Window()
	products := make([]*domain.Product, 0, end-start)
	for _, r := range matched[start:end] {
		products = append(products, r.toDomain())
	}

	return &contracts.ListResult{Products: products, Page: page}, nil
}

// Get retrieves a product by ID.
func (ps *ProductStore) Get(ctx context.Context, productID string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	r, ok := ps.s.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return r.toDomain(), nil
}

// Create inserts a new product and its events.
func (ps *ProductStore) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	events, err := contracts.NewOutboxEvents(product.DomainEvents())
	if err != nil {
		return err
	}

	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	ps.s.seq++
	ps.s.products[product.ID()] = &productRecord{
		seq:         ps.s.seq,
		id:          product.ID(),
		number:      product.Number(),
		name:        product.Name(),
		description: product.Description(),
		category:    product.Category(),
		basePrice:   product.BasePrice(),
		markups:     product.Markups(),
		attributes:  product.Attributes(),
		createdAt:   product.CreatedAt(),
		updatedAt:   product.UpdatedAt(),
	}
	ps.s.appendEvents(events)
	return nil
}

// Update writes the product's dirty fields and its events.
func (ps *ProductStore) Update(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	changes := product.Changes()
	if !changes.HasChanges() {
		return nil
	}
	events, err := contracts.NewOutboxEvents(product.DomainEvents())
	if err != nil {
		return err
	}

	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	r, ok := ps.s.products[product.ID()]
	if !ok {
		return domain.ErrProductNotFound
	}

	if changes.Dirty(domain.FieldNumber) {
		r.number = product.Number()
	}
	if changes.Dirty(domain.FieldName) {
		r.name = product.Name()
	}
	if changes.Dirty(domain.FieldDescription) {
		r.description = product.Description()
	}
	if changes.Dirty(domain.FieldCategory) {
		r.category = product.Category()
	}
	if changes.Dirty(domain.FieldBasePrice) {
		r.basePrice = product.BasePrice()
		r.markups = product.Markups()
	}
	if changes.Dirty(domain.FieldAttributes) {
		r.attributes = product.Attributes()
	}
	r.updatedAt = product.UpdatedAt()

	ps.s.appendEvents(events)
	return nil
}

// Delete removes the product and records its events.
func (ps *ProductStore) Delete(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	events, err := contracts.NewOutboxEvents(product.DomainEvents())
	if err != nil {
		return err
	}

	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	if _, ok := ps.s.products[product.ID()]; !ok {
		return domain.ErrProductNotFound
	}
	delete(ps.s.products, product.ID())
	ps.s.appendEvents(events)
	return nil
}

// Categories returns the distinct product categories, sorted.
func (ps *ProductStore) Categories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ps.s.mu.RLock()
	seen := make(map[string]struct{})
	for _, r := range ps.s.products {
		seen[r.category] = struct{}{}
	}
	ps.s.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
