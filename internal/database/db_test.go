package database_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/setupflow/internal/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "flow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countEvents(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM flow_events`).Scan(&n))
	return n
}

const insertEvent = `INSERT INTO flow_events (id, name, activity_id) VALUES (?, ?, ?)`

func TestWithTxCommits(t *testing.T) {
	db := openTestDB(t)

	err := database.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(insertEvent, "e1", "SetupFlow_Started", "a1")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(t, db))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")

	err := database.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(insertEvent, "e1", "SetupFlow_Started", "a1"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countEvents(t, db))
}

func TestWithTxHonorsCancelledContext(t *testing.T) {
	db := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := database.WithTx(ctx, db, func(*sql.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, 0, countEvents(t, db))
}
