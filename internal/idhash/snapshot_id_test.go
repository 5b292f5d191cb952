package idhash

import "testing"

func TestComputeSnapshotIDDeterministic(t *testing.T) {
	a := ComputeSnapshotID(1700000000000, "symbols=EURUSD&min_trades=3")
	b := ComputeSnapshotID(1700000000000, "symbols=EURUSD&min_trades=3")

	if a != b {
		t.Errorf("same inputs produced different IDs: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestComputeSnapshotIDDistinguishesInputs(t *testing.T) {
	base := ComputeSnapshotID(1700000000000, "symbols=EURUSD")

	if ComputeSnapshotID(1700000000001, "symbols=EURUSD") == base {
		t.Error("different captured_at must change the ID")
	}
	if ComputeSnapshotID(1700000000000, "symbols=GBPUSD") == base {
		t.Error("different filter query must change the ID")
	}
}

func TestComputeSnapshotIDEmptyFilter(t *testing.T) {
	id := ComputeSnapshotID(1700000000000, "")
	if len(id) != 64 {
		t.Errorf("empty filter should still produce a full hash, got %d chars", len(id))
	}
}
