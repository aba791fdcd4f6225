package m_outbox

import (
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
)

func TestModel_StatusMutations(t *testing.T) {
	m := NewModel()
	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t,
		spanner.Update(TableName, []string{EventID, ProcessedAt, Status}, []interface{}{"ev-1", at, "completed"}),
		m.SettleMut("ev-1", "completed", at))

	reason := spanner.NullString{StringVal: "timeout", Valid: true}
	assert.Equal(t,
		spanner.Update(TableName, []string{EventID, ErrorMessage, RetryCount, Status}, []interface{}{"ev-1", reason, int64(1), "pending"}),
		m.RetryMut("ev-1", "pending", "timeout", 1, at, false))

	assert.Equal(t,
		spanner.Update(TableName, []string{EventID, ErrorMessage, ProcessedAt, RetryCount, Status}, []interface{}{"ev-1", reason, at, int64(3), "failed"}),
		m.RetryMut("ev-1", "failed", "timeout", 3, at, true))
}
