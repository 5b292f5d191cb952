package memory

import (
	"context"
	"sort"
	"sync"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AnalysisSnapshot // keyed by snapshot_id
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]*domain.AnalysisSnapshot),
	}
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *SnapshotStore) Insert(_ context.Context, snap *domain.AnalysisSnapshot) error {
	if snap == nil || snap.SnapshotID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.SnapshotID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	snapCopy := *snap
	s.data[snap.SnapshotID] = &snapCopy
	return nil
}

// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByID(_ context.Context, snapshotID string) (*domain.AnalysisSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.data[snapshotID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	snapCopy := *snap
	return &snapCopy, nil
}

// GetByTimeRange retrieves snapshots captured within [start, end] inclusive.
func (s *SnapshotStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.AnalysisSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AnalysisSnapshot
	for _, snap := range s.data {
		if snap.CapturedAt >= start && snap.CapturedAt <= end {
			snapCopy := *snap
			result = append(result, &snapCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CapturedAt != result[j].CapturedAt {
			return result[i].CapturedAt < result[j].CapturedAt
		}
		return result[i].SnapshotID < result[j].SnapshotID
	})

	return result, nil
}

// GetLatest retrieves the most recently captured snapshot.
func (s *SnapshotStore) GetLatest(_ context.Context) (*domain.AnalysisSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.AnalysisSnapshot
	for _, snap := range s.data {
		if latest == nil || snap.CapturedAt > latest.CapturedAt {
			latest = snap
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	latestCopy := *latest
	return &latestCopy, nil
}
