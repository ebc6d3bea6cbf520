// Package testutil provides test helpers for storage-backed tests.
package testutil

import (
	"context"
	"testing"

	"github.com/rosterflow/rosterflow/internal/model"
	"github.com/rosterflow/rosterflow/internal/storage"
	"github.com/stretchr/testify/require"
)

// SetupTestDB creates a migrated in-memory database and registers
// cleanup.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedSession inserts one scheduled session and returns it.
func SeedSession(t *testing.T, store *storage.SQLiteStorage, staff, day, start string) *model.Session {
	t.Helper()

	session, err := store.CreateSession(context.Background(), &model.Session{
		Staff: staff,
		Day:   day,
		Start: start,
	})
	require.NoError(t, err)
	return session
}
