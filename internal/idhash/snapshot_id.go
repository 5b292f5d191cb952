package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeSnapshotID computes a deterministic snapshot_id using SHA256.
// Formula: SHA256(captured_at|filter_query)
// Returns hex-encoded hash (64 characters).
//
// Two captures of the same filter in the same millisecond collide on
// purpose: they would hold identical data, and the append-only snapshot
// store rejects the second insert as a duplicate.
func ComputeSnapshotID(capturedAt int64, filterQuery string) string {
	data := fmt.Sprintf("%d|%s", capturedAt, filterQuery)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
