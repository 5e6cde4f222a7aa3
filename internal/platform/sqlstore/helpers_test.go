package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a migrated in-memory SQLite database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, ":memory:", sqlstore.PoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlstore.Migrate(ctx, db, sqlstore.DriverSQLite, sqlstore.MigrateUp, nil))
	return db
}

// seedQuestion inserts a question owned by quizID and returns its id.
func seedQuestion(t *testing.T, db *sql.DB, quizID uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(`INSERT INTO questions (id, quiz_id) VALUES ($1, $2)`, id, quizID)
	require.NoError(t, err)
	return id
}
