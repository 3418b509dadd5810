package storage

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langpoll/langpoll/logging"
)

func TestBadgerOptionStore(t *testing.T) {
	logging.Log = logrus.New()

	store, err := NewBadgerOptionStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)
}

func TestBadgerOptionStoreHistoryOrder(t *testing.T) {
	logging.Log = logrus.New()
	ctx := context.Background()

	store, err := NewBadgerOptionStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.EnsureOptions(ctx, []string{"rust", "go"}))
	for _, option := range []string{"go", "rust", "go", "go"} {
		require.NoError(t, store.RecordVote(ctx, option))
	}

	history, err := store.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, []string{"go", "rust", "go", "go"}, []string{
		history[0].Option, history[1].Option, history[2].Option, history[3].Option,
	})

	// seed order survives the lexical key layout
	options, err := store.ListOptions(ctx)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "rust", options[0].Name)
	assert.Equal(t, "go", options[1].Name)
}
