package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func event(id string) *domain.AssetEvent {
	return &domain.AssetEvent{
		ID:        id,
		AssetID:   "asset-1",
		Action:    domain.ActionAssetUpdated,
		CreatedBy: "user-1",
		CreatedAt: time.Now(),
	}
}

func TestSpillAndBatchOrder(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Spill(event("e1")))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.Spill(event("e2")))

	entries, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "e1", entries[0].ID)
	require.Equal(t, "e2", entries[1].ID)

	size, err := store.Size()
	require.NoError(t, err)
	require.Equal(t, 2, size)
}

func TestRemove(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Spill(event("e1")))
	entries, err := store.GetBatch(1)
	require.NoError(t, err)
	require.NoError(t, store.Remove(entries[0]))

	size, err := store.Size()
	require.NoError(t, err)
	require.Zero(t, size)
}

func TestRequeueMovesEntryToBack(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Spill(event("e1")))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.Spill(event("e2")))

	entries, err := store.GetBatch(10)
	require.NoError(t, err)

	first := entries[0]
	first.Retries++
	require.NoError(t, store.Remove(first))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.Requeue(first))

	entries, err = store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "e2", entries[0].ID)
	require.Equal(t, "e1", entries[1].ID)
	require.Equal(t, 1, entries[1].Retries)
}

func TestCleanup(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Spill(event("old")))
	time.Sleep(2 * time.Millisecond)
	cutoff := time.Now()
	require.NoError(t, store.Spill(event("fresh")))

	require.NoError(t, store.Cleanup(cutoff))

	entries, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "fresh", entries[0].ID)
}
