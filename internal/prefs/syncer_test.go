package prefs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trade-journal-lab/internal/storage"
	"trade-journal-lab/internal/storage/memory"
)

// recordingWriter captures every batch pushed to it.
type recordingWriter struct {
	mu      sync.Mutex
	batches []map[string]string
	err     error
}

func (w *recordingWriter) PutChartPreferences(_ context.Context, prefs map[string]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	copied := make(map[string]string, len(prefs))
	for k, v := range prefs {
		copied[k] = v
	}
	w.batches = append(w.batches, copied)
	return nil
}

func (w *recordingWriter) batchCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.batches)
}

func (w *recordingWriter) lastBatch() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.batches) == 0 {
		return nil
	}
	return w.batches[len(w.batches)-1]
}

func TestSyncerCollapsesBurstIntoOneWrite(t *testing.T) {
	ctx := context.Background()
	writer := &recordingWriter{}
	syncer := NewSyncer(writer, WithDebounce(30*time.Millisecond))

	for _, v := range []string{"bar", "line", "area"} {
		if err := syncer.Update(ctx, "chart_type", v); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}
	if err := syncer.Update(ctx, "show_drawdown", "true"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if writer.batchCount() != 0 {
		t.Fatalf("write happened before debounce elapsed")
	}

	time.Sleep(100 * time.Millisecond)

	if got := writer.batchCount(); got != 1 {
		t.Fatalf("expected 1 write, got %d", got)
	}
	batch := writer.lastBatch()
	if batch["chart_type"] != "area" {
		t.Errorf("expected last value to win, got %q", batch["chart_type"])
	}
	if batch["show_drawdown"] != "true" {
		t.Errorf("missing second key in batch: %v", batch)
	}
}

func TestSyncerUpdateResetsTimer(t *testing.T) {
	ctx := context.Background()
	writer := &recordingWriter{}
	syncer := NewSyncer(writer, WithDebounce(50*time.Millisecond))

	syncer.Update(ctx, "chart_type", "bar")
	time.Sleep(30 * time.Millisecond)
	syncer.Update(ctx, "chart_type", "line")
	time.Sleep(30 * time.Millisecond)

	// 60ms since first update but only 30ms since the second, so the
	// rescheduled timer must not have fired yet.
	if writer.batchCount() != 0 {
		t.Fatalf("timer was not reset by second update")
	}

	time.Sleep(60 * time.Millisecond)
	if writer.batchCount() != 1 {
		t.Fatalf("expected exactly 1 write after quiet period, got %d", writer.batchCount())
	}
}

func TestSyncerFlushWritesImmediately(t *testing.T) {
	ctx := context.Background()
	writer := &recordingWriter{}
	syncer := NewSyncer(writer, WithDebounce(time.Hour))

	syncer.Update(ctx, "chart_type", "bar")

	if err := syncer.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if writer.batchCount() != 1 {
		t.Fatalf("expected 1 write after Flush, got %d", writer.batchCount())
	}

	// Nothing pending, second flush is a no-op.
	if err := syncer.Flush(ctx); err != nil {
		t.Fatalf("empty Flush failed: %v", err)
	}
	if writer.batchCount() != 1 {
		t.Errorf("empty Flush must not write")
	}
}

func TestSyncerRetainsBatchOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	writer := &recordingWriter{err: errors.New("backend down")}
	syncer := NewSyncer(writer, WithDebounce(time.Hour))

	syncer.Update(ctx, "chart_type", "bar")

	if err := syncer.Flush(ctx); err == nil {
		t.Fatal("expected flush error")
	}

	writer.mu.Lock()
	writer.err = nil
	writer.mu.Unlock()

	if err := syncer.Flush(ctx); err != nil {
		t.Fatalf("retry Flush failed: %v", err)
	}
	if batch := writer.lastBatch(); batch["chart_type"] != "bar" {
		t.Errorf("failed batch was not retained for retry: %v", batch)
	}
}

func TestSyncerWriteThroughCache(t *testing.T) {
	ctx := context.Background()
	writer := &recordingWriter{}
	cache := memory.NewPreferenceStore()
	syncer := NewSyncer(writer, WithDebounce(time.Hour), WithCache(cache))

	if err := syncer.Update(ctx, "chart_type", "bar"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// Cache sees the value immediately, before any backend write.
	got, err := cache.Get(ctx, "chart_type")
	if err != nil {
		t.Fatalf("cache Get failed: %v", err)
	}
	if got != "bar" {
		t.Errorf("cache value = %q, want %q", got, "bar")
	}
	if writer.batchCount() != 0 {
		t.Errorf("backend written before debounce elapsed")
	}
}

func TestSyncerCloseFlushesAndRejectsUpdates(t *testing.T) {
	ctx := context.Background()
	writer := &recordingWriter{}
	syncer := NewSyncer(writer, WithDebounce(time.Hour))

	syncer.Update(ctx, "chart_type", "bar")

	if err := syncer.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if writer.batchCount() != 1 {
		t.Fatalf("Close did not flush pending updates")
	}

	if err := syncer.Update(ctx, "chart_type", "line"); err == nil {
		t.Error("Update after Close must fail")
	}
}

func TestSyncerRejectsEmptyKey(t *testing.T) {
	syncer := NewSyncer(&recordingWriter{})
	if err := syncer.Update(context.Background(), "", "x"); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
