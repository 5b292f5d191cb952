// Package prefs batches chart preference updates and pushes them to the
// journal backend after a quiet period, so rapid toggling of chart controls
// produces one write instead of one per click.
package prefs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"trade-journal-lab/internal/observability"
	"trade-journal-lab/internal/storage"
)

// DefaultDebounce is the quiet period before pending updates are flushed.
const DefaultDebounce = 2 * time.Second

// Writer pushes a full preference map to the journal backend.
// *journalapi.Client satisfies this.
type Writer interface {
	PutChartPreferences(ctx context.Context, prefs map[string]string) error
}

// Syncer debounces preference writes. Each Update resets a single shared
// timer; when it fires, all pending keys are merged and written in one call.
// Construct with NewSyncer and inject it wherever preferences change; there
// is deliberately no package-level instance.
type Syncer struct {
	writer   Writer
	cache    storage.PreferenceStore // optional local write-through cache
	debounce time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	pending map[string]string
	timer   *time.Timer
	closed  bool

	wg sync.WaitGroup
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithDebounce overrides the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(s *Syncer) { s.debounce = d }
}

// WithCache adds a local store that mirrors every update immediately,
// independent of the debounced backend write.
func WithCache(cache storage.PreferenceStore) Option {
	return func(s *Syncer) { s.cache = cache }
}

// WithLogger overrides the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Syncer) { s.logger = logger }
}

// NewSyncer creates a preference syncer writing through the given Writer.
func NewSyncer(writer Writer, opts ...Option) *Syncer {
	s := &Syncer{
		writer:   writer,
		debounce: DefaultDebounce,
		logger:   log.New(log.Writer(), "[prefs] ", log.LstdFlags),
		pending:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update records a preference change and schedules a flush after the quiet
// period. A later Update for any key reschedules the shared timer, so bursts
// of changes collapse into one backend write.
func (s *Syncer) Update(ctx context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	if s.cache != nil {
		if err := s.cache.Upsert(ctx, key, value); err != nil {
			return fmt.Errorf("cache preference: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("preference syncer closed")
	}

	s.pending[key] = value
	observability.RecordPreferenceUpdate()

	if s.timer != nil && s.timer.Stop() {
		// Previous callback will never run, release its waiter.
		s.wg.Done()
	}
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.debounce, func() {
		defer s.wg.Done()
		if err := s.Flush(context.Background()); err != nil {
			s.logger.Printf("flush preferences: %v", err)
		}
	})

	return nil
}

// Flush writes all pending updates immediately, cancelling any scheduled
// timer. A no-op when nothing is pending.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		if s.timer.Stop() {
			// Timer was still scheduled: its callback will never run,
			// so release the waiter it registered.
			s.wg.Done()
		}
		s.timer = nil
	}
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := s.pending
	s.pending = make(map[string]string)
	s.mu.Unlock()

	err := s.writer.PutChartPreferences(ctx, batch)
	observability.RecordPreferenceFlush(err)
	if err != nil {
		// Put the batch back so a later Update or Flush retries it.
		// Newer values for the same key win.
		s.mu.Lock()
		for k, v := range batch {
			if _, exists := s.pending[k]; !exists {
				s.pending[k] = v
			}
		}
		s.mu.Unlock()
		return fmt.Errorf("write preferences: %w", err)
	}

	return nil
}

// Close flushes pending updates and stops accepting new ones.
func (s *Syncer) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.Flush(ctx)
	s.wg.Wait()
	return err
}
