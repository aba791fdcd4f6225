package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/models/m_column"
	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
	"github.com/light-bringer/markup-catalog/internal/pkg/committer"
	"github.com/light-bringer/markup-catalog/internal/pkg/query"
)

// ColumnStore implements contracts.ColumnStore for Spanner.
type ColumnStore struct {
	client    *spanner.Client
	committer *committer.Committer
	clock     clock.Clock
	model     *m_column.Model
	outbox    *OutboxRepo
}

// NewColumnStore creates a new ColumnStore. The clock stamps seeded columns.
func NewColumnStore(client *spanner.Client, c *committer.Committer, clk clock.Clock) *ColumnStore {
	return &ColumnStore{
		client:    client,
		committer: c,
		clock:     clk,
		model:     m_column.NewModel(),
		outbox:    NewOutboxRepo(),
	}
}

var _ contracts.ColumnStore = (*ColumnStore)(nil)

func listColumnsStmt() spanner.Statement {
	return query.From(m_column.TableName).
		Select(m_column.AllColumns()...).
		OrderBy(m_column.Position, query.Asc).
		OrderBy(m_column.Name, query.Asc).
		Build()
}

// List returns every column in listing order. An empty table is seeded with
// the default schema inside a read-write transaction, so concurrent callers
// seed it once.
func (s *ColumnStore) List(ctx context.Context) ([]*domain.Column, error) {
	cols, err := readColumns(s.client.Single().Query(ctx, listColumnsStmt()))
	if err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		return cols, nil
	}

	var seeded []*domain.Column
	err = s.committer.ApplyInTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) (*committer.CommitPlan, error) {
		existing, err := readColumns(txn.Query(ctx, listColumnsStmt()))
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			seeded = existing
			return nil, nil
		}

		defaults, err := domain.NewDefaultColumns(func() string { return uuid.New().String() }, s.clock.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to build default columns: %w", err)
		}

		plan := committer.NewPlan()
		for _, c := range defaults {
			plan.Add(s.model.InsertMut(columnToData(c)))
			if err := s.addEvents(plan, c.DomainEvents()); err != nil {
				return nil, err
			}
		}
		seeded = defaults
		return plan, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed default columns: %w", err)
	}

	// Hand back clean aggregates, as if read from the table
	cols = make([]*domain.Column, 0, len(seeded))
	for _, c := range seeded {
		cols = append(cols, dataToColumn(columnToData(c)))
	}
	domain.SortColumns(cols)
	return cols, nil
}

// Get retrieves a column by ID.
func (s *ColumnStore) Get(ctx context.Context, columnID string) (*domain.Column, error) {
	row, err := s.client.Single().ReadRow(ctx, m_column.TableName, spanner.Key{columnID}, m_column.AllColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrColumnNotFound
		}
		return nil, fmt.Errorf("failed to read column: %w", err)
	}

	var data m_column.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse column: %w", err)
	}
	return dataToColumn(&data), nil
}

// Create inserts the column and its outbox events in one commit.
func (s *ColumnStore) Create(ctx context.Context, column *domain.Column) error {
	plan := committer.NewPlan()
	plan.Add(s.model.InsertMut(columnToData(column)))
	if err := s.addEvents(plan, column.DomainEvents()); err != nil {
		return err
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update writes the column's dirty fields and its outbox events.
func (s *ColumnStore) Update(ctx context.Context, column *domain.Column) error {
	plan := committer.NewPlan()
	plan.Add(s.updateMut(column))
	if err := s.addEvents(plan, column.DomainEvents()); err != nil {
		return err
	}

	if plan.IsEmpty() {
		return nil
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.ErrColumnNotFound
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes the column and records its outbox events.
func (s *ColumnStore) Delete(ctx context.Context, column *domain.Column) error {
	plan := committer.NewPlan()
	plan.Add(s.model.DeleteMut(column.ID()))
	if err := s.addEvents(plan, column.DomainEvents()); err != nil {
		return err
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *ColumnStore) updateMut(column *domain.Column) *spanner.Mutation {
	changes := column.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})
	if changes.Dirty(domain.ColumnFieldName) {
		updates[m_column.Name] = column.Name()
	}
	if changes.Dirty(domain.ColumnFieldType) {
		updates[m_column.Type] = string(column.Type())
	}
	if changes.Dirty(domain.ColumnFieldFormula) {
		updates[m_column.Formula] = nullFormula(column.Formula())
	}
	if changes.Dirty(domain.ColumnFieldEditable) {
		updates[m_column.Editable] = column.Editable()
	}
	if changes.Dirty(domain.ColumnFieldPosition) {
		updates[m_column.Position] = column.Position()
	}
	updates[m_column.UpdatedAt] = column.UpdatedAt()

	return s.model.UpdateMut(column.ID(), updates)
}

func (s *ColumnStore) addEvents(plan *committer.CommitPlan, events []domain.DomainEvent) error {
	muts, err := s.outbox.EventMuts(events)
	if err != nil {
		return err
	}
	plan.Add(muts...)
	return nil
}

func readColumns(iter *spanner.RowIterator) ([]*domain.Column, error) {
	defer iter.Stop()

	var cols []*domain.Column
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate columns: %w", err)
		}

		var data m_column.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse column: %w", err)
		}
		cols = append(cols, dataToColumn(&data))
	}
	return cols, nil
}

func nullFormula(src string) spanner.NullString {
	return spanner.NullString{StringVal: src, Valid: src != ""}
}

func columnToData(c *domain.Column) *m_column.Data {
	return &m_column.Data{
		ColumnID:  c.ID(),
		Name:      c.Name(),
		Type:      string(c.Type()),
		Formula:   nullFormula(c.Formula()),
		Editable:  c.Editable(),
		Position:  c.Position(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func dataToColumn(data *m_column.Data) *domain.Column {
	return domain.ReconstructColumn(
		data.ColumnID,
		data.Name,
		domain.ColumnType(data.Type),
		data.Formula.StringVal,
		data.Editable,
		data.Position,
		data.CreatedAt,
		data.UpdatedAt,
	)
}
