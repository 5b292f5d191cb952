package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.AnalysisSnapshot) error {
	if snap == nil || snap.SnapshotID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO analysis_snapshots (
			snapshot_id, captured_at, filter_query,
			variable_count, combination_count,
			profitable_pct, avg_expectancy, avg_max_drawdown,
			sharpe_like, annualized_vol,
			best_combination, worst_combination
		) VALUES (
			$1, $2, $3,
			$4, $5,
			$6, $7, $8,
			$9, $10,
			$11, $12
		)
	`

	_, err := s.pool.Exec(ctx, query,
		snap.SnapshotID, snap.CapturedAt, snap.FilterQuery,
		snap.VariableCount, snap.CombinationCount,
		snap.ProfitablePct, snap.AvgExpectancy, snap.AvgMaxDrawdown,
		snap.SharpeLike, snap.AnnualizedVol,
		snap.BestCombination, snap.WorstCombination,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByID(ctx context.Context, snapshotID string) (*domain.AnalysisSnapshot, error) {
	query := `
		SELECT
			snapshot_id, captured_at, filter_query,
			variable_count, combination_count,
			profitable_pct, avg_expectancy, avg_max_drawdown,
			sharpe_like, annualized_vol,
			best_combination, worst_combination
		FROM analysis_snapshots
		WHERE snapshot_id = $1
	`

	row := s.pool.QueryRow(ctx, query, snapshotID)
	snap, err := scanSnapshot(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot by id: %w", err)
	}
	return snap, nil
}

// GetByTimeRange retrieves snapshots captured within [start, end] inclusive,
// ordered by captured_at ascending.
func (s *SnapshotStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.AnalysisSnapshot, error) {
	query := `
		SELECT
			snapshot_id, captured_at, filter_query,
			variable_count, combination_count,
			profitable_pct, avg_expectancy, avg_max_drawdown,
			sharpe_like, annualized_vol,
			best_combination, worst_combination
		FROM analysis_snapshots
		WHERE captured_at >= $1 AND captured_at <= $2
		ORDER BY captured_at ASC, snapshot_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by time range: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetLatest retrieves the most recently captured snapshot.
func (s *SnapshotStore) GetLatest(ctx context.Context) (*domain.AnalysisSnapshot, error) {
	query := `
		SELECT
			snapshot_id, captured_at, filter_query,
			variable_count, combination_count,
			profitable_pct, avg_expectancy, avg_max_drawdown,
			sharpe_like, annualized_vol,
			best_combination, worst_combination
		FROM analysis_snapshots
		ORDER BY captured_at DESC, snapshot_id DESC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query)
	snap, err := scanSnapshot(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	return snap, nil
}

func scanSnapshot(row pgx.Row) (*domain.AnalysisSnapshot, error) {
	var snap domain.AnalysisSnapshot
	err := row.Scan(
		&snap.SnapshotID, &snap.CapturedAt, &snap.FilterQuery,
		&snap.VariableCount, &snap.CombinationCount,
		&snap.ProfitablePct, &snap.AvgExpectancy, &snap.AvgMaxDrawdown,
		&snap.SharpeLike, &snap.AnnualizedVol,
		&snap.BestCombination, &snap.WorstCombination,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func scanSnapshots(rows pgx.Rows) ([]*domain.AnalysisSnapshot, error) {
	var result []*domain.AnalysisSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return result, nil
}
