package storage

import (
	"context"

	"trade-journal-lab/internal/domain"
)

// SnapshotStore provides access to analysis_snapshots storage.
// Snapshots are append-only: one row per capture cycle.
type SnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
	Insert(ctx context.Context, s *domain.AnalysisSnapshot) error

	// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, snapshotID string) (*domain.AnalysisSnapshot, error)

	// GetByTimeRange retrieves snapshots captured within [start, end] (inclusive),
	// ordered by captured_at ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.AnalysisSnapshot, error)

	// GetLatest retrieves the most recently captured snapshot.
	// Returns ErrNotFound when no snapshots exist.
	GetLatest(ctx context.Context) (*domain.AnalysisSnapshot, error)
}

// CombinationHistoryStore provides access to combination_history storage:
// per-combination metric rows appended at snapshot time for trend queries.
type CombinationHistoryStore interface {
	// InsertBulk appends rows for one snapshot. Fails the entire batch on error.
	InsertBulk(ctx context.Context, rows []*domain.CombinationHistoryRow) error

	// GetByCombination retrieves the history of one combination encoding,
	// ordered by captured_at ASC.
	GetByCombination(ctx context.Context, combination string) ([]*domain.CombinationHistoryRow, error)

	// GetBySnapshot retrieves all rows captured in one snapshot.
	GetBySnapshot(ctx context.Context, snapshotID string) ([]*domain.CombinationHistoryRow, error)
}

// PreferenceStore caches the last-known chart preference values locally.
// Unlike the snapshot stores this one upserts: preferences are
// last-write-wins.
type PreferenceStore interface {
	// Upsert stores a preference value, replacing any existing one.
	Upsert(ctx context.Context, key, value string) error

	// Get retrieves one preference value. Returns ErrNotFound if not exists.
	Get(ctx context.Context, key string) (string, error)

	// GetAll retrieves all cached preference values.
	GetAll(ctx context.Context) (map[string]string, error)
}
