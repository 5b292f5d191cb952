package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

func createTestSnapshot(snapshotID string, capturedAt int64) *domain.AnalysisSnapshot {
	return &domain.AnalysisSnapshot{
		SnapshotID:       snapshotID,
		CapturedAt:       capturedAt,
		FilterQuery:      "symbols=EURUSD&min_trades=3",
		VariableCount:    6,
		CombinationCount: 14,
		ProfitablePct:    57.14,
		AvgExpectancy:    12.5,
		AvgMaxDrawdown:   -180.0,
		SharpeLike:       1.35,
		AnnualizedVol:    0.42,
		BestCombination:  "Setup & Session",
		WorstCombination: "Setup & Mood",
	}
}

func TestSnapshotStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSnapshotStore(pool)

	snap := createTestSnapshot("snap-001", 1700000000000)

	err := store.Insert(ctx, snap)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "snap-001")
	require.NoError(t, err)

	assert.Equal(t, snap.SnapshotID, retrieved.SnapshotID)
	assert.Equal(t, snap.CapturedAt, retrieved.CapturedAt)
	assert.Equal(t, snap.FilterQuery, retrieved.FilterQuery)
	assert.Equal(t, snap.VariableCount, retrieved.VariableCount)
	assert.Equal(t, snap.CombinationCount, retrieved.CombinationCount)
	assert.InDelta(t, snap.ProfitablePct, retrieved.ProfitablePct, 0.0001)
	assert.InDelta(t, snap.AvgMaxDrawdown, retrieved.AvgMaxDrawdown, 0.0001)
	assert.Equal(t, snap.BestCombination, retrieved.BestCombination)
	assert.Equal(t, snap.WorstCombination, retrieved.WorstCombination)
}

func TestSnapshotStore_DuplicateInsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSnapshotStore(pool)

	err := store.Insert(ctx, createTestSnapshot("snap-001", 1700000000000))
	require.NoError(t, err)

	err = store.Insert(ctx, createTestSnapshot("snap-001", 1700000060000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestSnapshotStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSnapshotStore(pool)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSnapshotStore_GetByTimeRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSnapshotStore(pool)

	require.NoError(t, store.Insert(ctx, createTestSnapshot("snap-c", 3000)))
	require.NoError(t, store.Insert(ctx, createTestSnapshot("snap-a", 1000)))
	require.NoError(t, store.Insert(ctx, createTestSnapshot("snap-b", 2000)))

	snaps, err := store.GetByTimeRange(ctx, 1000, 2000)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "snap-a", snaps[0].SnapshotID)
	assert.Equal(t, "snap-b", snaps[1].SnapshotID)
}

func TestSnapshotStore_GetLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSnapshotStore(pool)

	_, err := store.GetLatest(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Insert(ctx, createTestSnapshot("snap-a", 1000)))
	require.NoError(t, store.Insert(ctx, createTestSnapshot("snap-b", 3000)))
	require.NoError(t, store.Insert(ctx, createTestSnapshot("snap-c", 2000)))

	latest, err := store.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap-b", latest.SnapshotID)
}

func TestPreferenceStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPreferenceStore(pool)

	require.NoError(t, store.Upsert(ctx, "chart_type", "bar"))
	require.NoError(t, store.Upsert(ctx, "chart_type", "line"))
	require.NoError(t, store.Upsert(ctx, "show_drawdown", "true"))

	got, err := store.Get(ctx, "chart_type")
	require.NoError(t, err)
	assert.Equal(t, "line", got)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "true", all["show_drawdown"])
}

func TestPreferenceStore_GetMissing(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPreferenceStore(pool)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
