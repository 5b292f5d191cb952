package postgres

import (
	"context"
	"fmt"

	"trade-journal-lab/internal/storage"
)

// PreferenceStore implements storage.PreferenceStore using PostgreSQL.
type PreferenceStore struct {
	pool *Pool
}

// NewPreferenceStore creates a new PreferenceStore.
func NewPreferenceStore(pool *Pool) *PreferenceStore {
	return &PreferenceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PreferenceStore = (*PreferenceStore)(nil)

// Upsert sets a preference value, overwriting any existing one.
func (s *PreferenceStore) Upsert(ctx context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO chart_preferences (pref_key, pref_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (pref_key)
		DO UPDATE SET pref_value = EXCLUDED.pref_value, updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// Get retrieves a preference value. Returns ErrNotFound if the key is unset.
func (s *PreferenceStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT pref_value FROM chart_preferences WHERE pref_key = $1`

	var value string
	if err := s.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if isNotFoundError(err) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("get preference: %w", err)
	}
	return value, nil
}

// GetAll returns every stored preference.
func (s *PreferenceStore) GetAll(ctx context.Context) (map[string]string, error) {
	query := `SELECT pref_key, pref_value FROM chart_preferences`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all preferences: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		result[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return result, nil
}
