package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// CombinationHistoryStore implements storage.CombinationHistoryStore using
// ClickHouse. Rows are append-only; the MergeTree table never updates.
type CombinationHistoryStore struct {
	conn *Conn
}

// NewCombinationHistoryStore creates a new CombinationHistoryStore.
func NewCombinationHistoryStore(conn *Conn) *CombinationHistoryStore {
	return &CombinationHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CombinationHistoryStore = (*CombinationHistoryStore)(nil)

// InsertBulk appends a batch of combination history rows.
func (s *CombinationHistoryStore) InsertBulk(ctx context.Context, rows []*domain.CombinationHistoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if row == nil || row.SnapshotID == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO combination_history (
			snapshot_id, captured_at, combination, combination_with_values,
			trades, win_rate, pnl, avg_rr, profit_factor, expectancy, max_drawdown
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, row := range rows {
		err = batch.Append(
			row.SnapshotID, uint64(row.CapturedAt),
			row.Combination, row.CombinationWithValues,
			uint32(row.Trades), row.WinRate, row.PnL, row.AvgRR,
			row.ProfitFactor, row.Expectancy, row.MaxDrawdown,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByCombination retrieves the history of one combination across snapshots,
// ordered by captured_at ascending.
func (s *CombinationHistoryStore) GetByCombination(ctx context.Context, combination string) ([]*domain.CombinationHistoryRow, error) {
	query := `
		SELECT snapshot_id, captured_at, combination, combination_with_values,
			trades, win_rate, pnl, avg_rr, profit_factor, expectancy, max_drawdown
		FROM combination_history
		WHERE combination = ?
		ORDER BY captured_at ASC
	`

	rows, err := s.conn.Query(ctx, query, combination)
	if err != nil {
		return nil, fmt.Errorf("query by combination: %w", err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

// GetBySnapshot retrieves all rows captured under one snapshot.
func (s *CombinationHistoryStore) GetBySnapshot(ctx context.Context, snapshotID string) ([]*domain.CombinationHistoryRow, error) {
	query := `
		SELECT snapshot_id, captured_at, combination, combination_with_values,
			trades, win_rate, pnl, avg_rr, profit_factor, expectancy, max_drawdown
		FROM combination_history
		WHERE snapshot_id = ?
		ORDER BY combination ASC
	`

	rows, err := s.conn.Query(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query by snapshot: %w", err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

func scanHistoryRows(rows driver.Rows) ([]*domain.CombinationHistoryRow, error) {
	var result []*domain.CombinationHistoryRow
	for rows.Next() {
		var (
			row        domain.CombinationHistoryRow
			capturedAt uint64
			trades     uint32
		)
		err := rows.Scan(
			&row.SnapshotID, &capturedAt,
			&row.Combination, &row.CombinationWithValues,
			&trades, &row.WinRate, &row.PnL, &row.AvgRR,
			&row.ProfitFactor, &row.Expectancy, &row.MaxDrawdown,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		row.CapturedAt = int64(capturedAt)
		row.Trades = int(trades)
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return result, nil
}
