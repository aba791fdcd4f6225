package repo

import (
	"encoding/json"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
	"github.com/light-bringer/markup-catalog/internal/models/m_outbox"
)

// OutboxRepo turns domain events into outbox_events mutations.
type OutboxRepo struct {
	model *m_outbox.Model
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{model: m_outbox.NewModel()}
}

// InsertMut creates a mutation for inserting an outbox event.
func (r *OutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	// Raw message keeps the encoded payload from being quoted as a JSON string
	payload := spanner.NullJSON{Value: json.RawMessage(event.Payload), Valid: event.Payload != ""}

	data := &m_outbox.Data{
		EventID:     event.EventID,
		EventType:   event.EventType,
		AggregateID: event.AggregateID,
		Payload:     payload,
		Status:      event.Status,
		RetryCount:  0,
	}

	return r.model.InsertMut(data)
}

// EventMuts serializes every pending domain event into insert mutations.
func (r *OutboxRepo) EventMuts(events []domain.DomainEvent) ([]*spanner.Mutation, error) {
	outbox, err := contracts.NewOutboxEvents(events)
	if err != nil {
		return nil, err
	}
	muts := make([]*spanner.Mutation, 0, len(outbox))
	for _, event := range outbox {
		muts = append(muts, r.InsertMut(event))
	}
	return muts, nil
}
