package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/internal/infrastructure/journal"
	"github.com/stockroom/backend/repository"
)

type recordingEventRepo struct {
	appended []domain.AssetEvent
	fail     bool
}

func (r *recordingEventRepo) Append(_ context.Context, e *domain.AssetEvent) error {
	if r.fail {
		return errors.New("connection refused")
	}
	r.appended = append(r.appended, *e)
	return nil
}

func (r *recordingEventRepo) GetByID(context.Context, string) (*domain.AssetEvent, error) {
	return nil, domain.ErrEventNotFound
}

func (r *recordingEventRepo) List(context.Context, repository.EventFilter) ([]domain.AssetEvent, int, error) {
	return nil, 0, nil
}

type health bool

func (h health) IsOnline() bool { return bool(h) }

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), "events")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func spill(t *testing.T, store *journal.Store, id string) {
	t.Helper()
	require.NoError(t, store.Spill(&domain.AssetEvent{
		ID:      id,
		AssetID: "asset-1",
		Action:  domain.ActionAssetUpdated,
	}))
}

func TestDrainReplaysSpilledEvents(t *testing.T) {
	store := openStore(t)
	spill(t, store, "evt-1")
	spill(t, store, "evt-2")

	repo := &recordingEventRepo{}
	r := NewReconciler(store, health(true), repo, nil, ReconcilerConfig{})

	require.NoError(t, r.Drain(context.Background()))
	require.Len(t, repo.appended, 2)
	require.Equal(t, "evt-1", repo.appended[0].ID)
	require.Equal(t, "evt-2", repo.appended[1].ID)
	require.Zero(t, r.Size())
}

func TestDrainSkipsWhileOffline(t *testing.T) {
	store := openStore(t)
	spill(t, store, "evt-1")

	repo := &recordingEventRepo{}
	r := NewReconciler(store, health(false), repo, nil, ReconcilerConfig{})

	require.NoError(t, r.Drain(context.Background()))
	require.Empty(t, repo.appended)
	require.Equal(t, 1, r.Size())
}

func TestDrainRequeuesFailedReplay(t *testing.T) {
	store := openStore(t)
	spill(t, store, "evt-1")

	repo := &recordingEventRepo{fail: true}
	r := NewReconciler(store, health(true), repo, nil, ReconcilerConfig{MaxRetries: 3})

	require.NoError(t, r.Drain(context.Background()))
	require.Equal(t, 1, r.Size())

	entries, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, entries[0].Retries)
}

func TestDrainDropsEntryAtMaxRetries(t *testing.T) {
	store := openStore(t)
	spill(t, store, "evt-1")

	repo := &recordingEventRepo{fail: true}
	r := NewReconciler(store, health(true), repo, nil, ReconcilerConfig{MaxRetries: 2})

	require.NoError(t, r.Drain(context.Background()))
	require.NoError(t, r.Drain(context.Background()))
	require.Zero(t, r.Size())
}

func TestDrainPurgesEntriesPastRetention(t *testing.T) {
	store := openStore(t)
	spill(t, store, "evt-old")

	repo := &recordingEventRepo{}
	r := NewReconciler(store, health(true), repo, nil, ReconcilerConfig{Retention: time.Nanosecond})

	require.NoError(t, r.Drain(context.Background()))
	require.Empty(t, repo.appended, "expired entries are purged, not replayed")
	require.Zero(t, r.Size())
}
