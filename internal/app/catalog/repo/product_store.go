package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/models/m_product"
	"github.com/light-bringer/markup-catalog/internal/pkg/committer"
	"github.com/light-bringer/markup-catalog/internal/pkg/pagination"
	"github.com/light-bringer/markup-catalog/internal/pkg/query"
)

// ProductStore implements contracts.ProductStore for Spanner.
type ProductStore struct {
	client    *spanner.Client
	committer *committer.Committer
	model     *m_product.Model
	outbox    *OutboxRepo
}

// NewProductStore creates a new ProductStore.
func NewProductStore(client *spanner.Client, c *committer.Committer) *ProductStore {
	return &ProductStore{
		client:    client,
		committer: c,
		model:     m_product.NewModel(),
		outbox:    NewOutboxRepo(),
	}
}

var _ contracts.ProductStore = (*ProductStore)(nil)

// listQuery pushes the catalog filter down to SQL.
func listQuery(filter domain.Filter) query.Builder {
	f := filter.Normalized()
	q := query.From(m_product.TableName)
	if f.Search != "" {
		q = q.Where(query.Or(
			query.ContainsFold(m_product.Name, f.Search),
			query.ContainsFold(m_product.Number, f.Search),
		))
	}
	if f.Category != "" {
		q = q.Where(query.Eq(m_product.Category, f.Category))
	}
	return q
}

// List returns the page of products matching the filter, newest first. The
// count and the page are read from the same snapshot.
func (s *ProductStore) List(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	if filter == nil {
		filter = &contracts.ListFilter{}
	}

	txn := s.client.ReadOnlyTransaction()
	defer txn.Close()

	base := listQuery(filter.Filter)

	total, err := count(ctx, txn, base.Count().Build())
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	page := pagination.New(filter.Page, filter.PageSize, int(total))

	stmt := base.
		Select(m_product.AllColumns()...).
		OrderBy(m_product.CreatedAt, query.Desc).
		OrderBy(m_product.ProductID, query.Desc).
		Page(page).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*domain.Product, 0, page.Size)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}
		p, err := dataToProduct(&data)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return &contracts.ListResult{Products: products, Page: page}, nil
}

// Get retrieves a product by ID, reconstructing the domain aggregate.
func (s *ProductStore) Get(ctx context.Context, productID string) (*domain.Product, error) {
	row, err := s.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.AllColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	return dataToProduct(&data)
}

// Create inserts the product and its outbox events in one commit.
func (s *ProductStore) Create(ctx context.Context, product *domain.Product) error {
	plan := committer.NewPlan()
	plan.Add(s.model.InsertMut(productToData(product)))

	if err := s.addEvents(plan, product.DomainEvents()); err != nil {
		return err
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		if spanner.ErrCode(err) == codes.AlreadyExists {
			return fmt.Errorf("product %s already exists: %w", product.ID(), err)
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update writes the product's dirty fields and its outbox events.
func (s *ProductStore) Update(ctx context.Context, product *domain.Product) error {
	plan := committer.NewPlan()
	plan.Add(s.updateMut(product))

	if err := s.addEvents(plan, product.DomainEvents()); err != nil {
		return err
	}

	if plan.IsEmpty() {
		return nil // No changes
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes the product and records its outbox events.
func (s *ProductStore) Delete(ctx context.Context, product *domain.Product) error {
	plan := committer.NewPlan()
	plan.Add(s.model.DeleteMut(product.ID()))

	if err := s.addEvents(plan, product.DomainEvents()); err != nil {
		return err
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Categories returns the distinct product categories, sorted.
func (s *ProductStore) Categories(ctx context.Context) ([]string, error) {
	stmt := query.From(m_product.TableName).
		Select(m_product.Category).
		Distinct().
		OrderBy(m_product.Category, query.Asc).
		Build()

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var categories []string
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate categories: %w", err)
		}
		var category string
		if err := row.Columns(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// updateMut creates a mutation for the dirty fields only.
func (s *ProductStore) updateMut(product *domain.Product) *spanner.Mutation {
	changes := product.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldNumber) {
		updates[m_product.Number] = product.Number()
	}

	if changes.Dirty(domain.FieldName) {
		updates[m_product.Name] = product.Name()
	}

	if changes.Dirty(domain.FieldDescription) {
		updates[m_product.Description] = product.Description()
	}

	if changes.Dirty(domain.FieldCategory) {
		updates[m_product.Category] = product.Category()
	}

	if changes.Dirty(domain.FieldBasePrice) {
		// Markups are derived from the base price and always written with it
		updates[m_product.BasePrice] = product.BasePrice()
		for col, v := range markupValues(product.Markups()) {
			updates[col] = v
		}
	}

	if changes.Dirty(domain.FieldAttributes) {
		updates[m_product.Attributes] = attributesJSON(product.Attributes())
	}

	if len(updates) == 0 {
		return nil
	}

	updates[m_product.UpdatedAt] = product.UpdatedAt()

	return s.model.UpdateMut(product.ID(), updates)
}

func (s *ProductStore) addEvents(plan *committer.CommitPlan, events []domain.DomainEvent) error {
	muts, err := s.outbox.EventMuts(events)
	if err != nil {
		return err
	}
	plan.Add(muts...)
	return nil
}

// count runs a single-value COUNT(*) statement.
func count(ctx context.Context, txn *spanner.ReadOnlyTransaction, stmt spanner.Statement) (int64, error) {
	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Columns(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func markupValues(m domain.Markups) map[string]float64 {
	return map[string]float64{
		m_product.PPlus10:        m.PPlus10,
		m_product.Markup15Before: m.Markup15Before,
		m_product.Markup15After:  m.Markup15After,
		m_product.Markup20Before: m.Markup20Before,
		m_product.Markup20After:  m.Markup20After,
		m_product.Markup25Before: m.Markup25Before,
		m_product.Markup25After:  m.Markup25After,
		m_product.FinalPrice:     m.FinalPrice,
	}
}

func attributesJSON(attrs map[string]any) spanner.NullJSON {
	if len(attrs) == 0 {
		return spanner.NullJSON{}
	}
	return spanner.NullJSON{Value: attrs, Valid: true}
}

// productToData converts a domain Product to database Data.
func productToData(p *domain.Product) *m_product.Data {
	m := p.Markups()
	return &m_product.Data{
		ProductID:      p.ID(),
		Number:         p.Number(),
		Name:           p.Name(),
		Description:    p.Description(),
		Category:       p.Category(),
		BasePrice:      p.BasePrice(),
		PPlus10:        m.PPlus10,
		Markup15Before: m.Markup15Before,
		Markup15After:  m.Markup15After,
		Markup20Before: m.Markup20Before,
		Markup20After:  m.Markup20After,
		Markup25Before: m.Markup25Before,
		Markup25After:  m.Markup25After,
		FinalPrice:     m.FinalPrice,
		Attributes:     attributesJSON(p.Attributes()),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}

// dataToProduct converts database Data to a domain Product.
func dataToProduct(data *m_product.Data) (*domain.Product, error) {
	attrs, err := decodeAttributes(data.Attributes)
	if err != nil {
		return nil, fmt.Errorf("invalid attributes for product %s: %w", data.ProductID, err)
	}

	return domain.ReconstructProduct(
		data.ProductID,
		data.Number,
		data.Name,
		data.Description,
		data.Category,
		data.BasePrice,
		domain.Markups{
			PPlus10:        data.PPlus10,
			Markup15Before: data.Markup15Before,
			Markup15After:  data.Markup15After,
			Markup20Before: data.Markup20Before,
			Markup20After:  data.Markup20After,
			Markup25Before: data.Markup25Before,
			Markup25After:  data.Markup25After,
			FinalPrice:     data.FinalPrice,
		},
		attrs,
		data.CreatedAt,
		data.UpdatedAt,
	), nil
}

// decodeAttributes reads the JSON attributes column. Spanner decodes JSON into
// generic values; a round trip through encoding/json normalizes them into a
// string-keyed map.
func decodeAttributes(col spanner.NullJSON) (map[string]any, error) {
	if !col.Valid || col.Value == nil {
		return nil, nil
	}
	if m, ok := col.Value.(map[string]interface{}); ok {
		return m, nil
	}
	raw, err := json.Marshal(col.Value)
	if err != nil {
		return nil, err
	}
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}
