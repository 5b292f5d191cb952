package view

import "sync/atomic"

// Latest guards display state against stale responses. Rapid filter changes
// can leave multiple fetches in flight; without a guard, a slow response
// arriving after a newer fast one would overwrite fresher state. Each fetch
// takes an ID from Next, and only the response whose ID is still current is
// applied.
type Latest struct {
	seq atomic.Uint64
}

// Next issues a new request ID, invalidating all earlier ones.
func (l *Latest) Next() uint64 {
	return l.seq.Add(1)
}

// Current reports whether id is the most recently issued request ID.
func (l *Latest) Current(id uint64) bool {
	return l.seq.Load() == id
}

// Apply runs fn only if id is still current and reports whether it ran.
func (l *Latest) Apply(id uint64, fn func()) bool {
	if !l.Current(id) {
		return false
	}
	fn()
	return true
}
