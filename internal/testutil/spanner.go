package testutil

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/markup-catalog/internal/models/m_column"
	"github.com/light-bringer/markup-catalog/internal/models/m_outbox"
	"github.com/light-bringer/markup-catalog/internal/models/m_product"
	"github.com/light-bringer/markup-catalog/internal/pkg/query"
)

// SetupSpannerTest connects to the emulator database and empties every catalog
// table before and after the test. It skips unless SPANNER_EMULATOR_HOST is set.
func SetupSpannerTest(t *testing.T) *spanner.Client {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set; skipping Spanner test")
	}

	client, err := spanner.NewClient(context.Background(), TestSpannerDB())
	require.NoError(t, err, "failed to create Spanner client")

	CleanDatabase(t, client)
	t.Cleanup(func() {
		CleanDatabase(t, client)
		client.Close()
	})
	return client
}

// TestSpannerDB is SPANNER_TEST_DATABASE or the emulator default.
func TestSpannerDB() string {
	if db := os.Getenv("SPANNER_TEST_DATABASE"); db != "" {
		return db
	}
	return "projects/test-project/instances/test-instance/databases/markup-catalog-test"
}

// CleanDatabase deletes every row of the catalog tables.
func CleanDatabase(t *testing.T, client *spanner.Client) {
	t.Helper()

	tables := []string{m_outbox.TableName, m_product.TableName, m_column.TableName}
	muts := make([]*spanner.Mutation, 0, len(tables))
	for _, table := range tables {
		muts = append(muts, spanner.Delete(table, spanner.AllKeys()))
	}

	_, err := client.Apply(context.Background(), muts)
	require.NoError(t, err, "failed to clean database")
}

// AssertRowCount fails the test unless table holds want rows.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, want int) {
	t.Helper()

	iter := client.Single().Query(context.Background(), query.From(table).Count().Build())
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to count rows in %s", table)

	var got int64
	require.NoError(t, row.Columns(&got))
	require.Equal(t, int64(want), got, "unexpected row count in table %s", table)
}
