package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langpoll/langpoll/logging"
)

func TestSqliteOptionStore(t *testing.T) {
	logging.Log = logrus.New()

	store, err := NewSqliteOptionStore(filepath.Join(t.TempDir(), "poll.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)
}

func TestSqliteOptionStoreHistoryKeepsInsertionOrder(t *testing.T) {
	logging.Log = logrus.New()
	ctx := context.Background()

	store, err := NewSqliteOptionStore(filepath.Join(t.TempDir(), "poll.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.EnsureOptions(ctx, []string{"go", "rust"}))

	// RFC3339Nano trims trailing zeros, so these strings sort backwards
	// lexically; insertion order must still win
	_, err = store.db.ExecContext(ctx,
		`INSERT INTO vote_log (id, option, ts) VALUES (?, ?, ?)`,
		"FIRST", "go", "2026-08-30T10:00:00.5Z")
	require.NoError(t, err)
	_, err = store.db.ExecContext(ctx,
		`INSERT INTO vote_log (id, option, ts) VALUES (?, ?, ?)`,
		"SECOND", "rust", "2026-08-30T10:00:00.51Z")
	require.NoError(t, err)

	history, err := store.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "FIRST", history[0].ID, "history must be chronological")
	assert.Equal(t, "SECOND", history[1].ID)
}

func TestSqliteOptionStoreSurvivesReopen(t *testing.T) {
	logging.Log = logrus.New()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "poll.db")

	store, err := NewSqliteOptionStore(path)
	require.NoError(t, err)
	require.NoError(t, store.EnsureOptions(ctx, []string{"go", "rust"}))
	require.NoError(t, store.RecordVote(ctx, "go"))
	require.NoError(t, store.Close())

	reopened, err := NewSqliteOptionStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	options, err := reopened.ListOptions(ctx)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, 1, options[0].Picks)

	history, err := reopened.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
