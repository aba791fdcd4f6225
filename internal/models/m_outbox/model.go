package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/markup-catalog/internal/models"
)

// Model builds mutations for the outbox_events table.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// InsertMut appends an event. created_at is the commit timestamp, so events
// sort with the write of their aggregate regardless of data.CreatedAt.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	row := *data
	row.CreatedAt = spanner.CommitTimestamp
	return spanner.Insert(TableName, AllColumns(), row.values())
}

// SettleMut moves an event to a final status.
func (m *Model) SettleMut(eventID, status string, at time.Time) *spanner.Mutation {
	return models.UpdateMut(TableName, EventID, eventID, map[string]interface{}{
		Status:      status,
		ProcessedAt: at,
	})
}

// RetryMut records a failed delivery attempt. A final status also stamps
// processed_at.
func (m *Model) RetryMut(eventID, status, reason string, retries int64, at time.Time, final bool) *spanner.Mutation {
	updates := map[string]interface{}{
		Status:       status,
		RetryCount:   retries,
		ErrorMessage: spanner.NullString{StringVal: reason, Valid: reason != ""},
	}
	if final {
		updates[ProcessedAt] = at
	}
	return models.UpdateMut(TableName, EventID, eventID, updates)
}
