package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCutoffs(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	c := newCutoffs(now, Options{CompletedRetentionDays: 30, FailedRetentionDays: 90})

	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), c.completed)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), c.failed)
}

func TestStatements(t *testing.T) {
	c := newCutoffs(time.Now(), Options{CompletedRetentionDays: 1, FailedRetentionDays: 2})

	del := deleteStmt(c)
	assert.Equal(t,
		"DELETE FROM outbox_events WHERE (status = @completedStatus AND processed_at < @completedCutoff) OR (status = @failedStatus AND processed_at < @failedCutoff)",
		del.SQL)
	assert.Equal(t, "completed", del.Params["completedStatus"])
	assert.Equal(t, "failed", del.Params["failedStatus"])
	assert.Equal(t, c.failed, del.Params["failedCutoff"])

	count := countByStatusStmt(c)
	assert.Contains(t, count.SQL, "SELECT status, COUNT(*) FROM outbox_events WHERE ")
	assert.Contains(t, count.SQL, "GROUP BY status")
}

func TestOptionsValidate(t *testing.T) {
	assert.Error(t, Options{}.validate())
	assert.Error(t, Options{Database: "db", CompletedRetentionDays: -1}.validate())
	assert.NoError(t, Options{Database: "db", CompletedRetentionDays: 30, FailedRetentionDays: 90}.validate())
}
