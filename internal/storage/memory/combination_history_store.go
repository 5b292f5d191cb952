package memory

import (
	"context"
	"sort"
	"sync"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// CombinationHistoryStore is an in-memory implementation of
// storage.CombinationHistoryStore.
type CombinationHistoryStore struct {
	mu   sync.RWMutex
	rows []domain.CombinationHistoryRow
}

// NewCombinationHistoryStore creates a new in-memory history store.
func NewCombinationHistoryStore() *CombinationHistoryStore {
	return &CombinationHistoryStore{}
}

var _ storage.CombinationHistoryStore = (*CombinationHistoryStore)(nil)

// InsertBulk appends a batch of combination history rows.
func (s *CombinationHistoryStore) InsertBulk(_ context.Context, rows []*domain.CombinationHistoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if row == nil || row.SnapshotID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		s.rows = append(s.rows, *row)
	}
	return nil
}

// GetByCombination retrieves the history of one combination across
// snapshots, ordered by captured_at ascending.
func (s *CombinationHistoryStore) GetByCombination(_ context.Context, combination string) ([]*domain.CombinationHistoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CombinationHistoryRow
	for i := range s.rows {
		if s.rows[i].Combination == combination {
			rowCopy := s.rows[i]
			result = append(result, &rowCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CapturedAt < result[j].CapturedAt
	})

	return result, nil
}

// GetBySnapshot retrieves all rows captured under one snapshot.
func (s *CombinationHistoryStore) GetBySnapshot(_ context.Context, snapshotID string) ([]*domain.CombinationHistoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CombinationHistoryRow
	for i := range s.rows {
		if s.rows[i].SnapshotID == snapshotID {
			rowCopy := s.rows[i]
			result = append(result, &rowCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Combination < result[j].Combination
	})

	return result, nil
}
