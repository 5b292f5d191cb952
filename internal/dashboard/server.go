// Package dashboard serves the analytics view over HTTP: JSON endpoints for
// variable and combination tables, a WebSocket feed of refresh events, and
// the capture path that persists each refresh as a snapshot.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/combo"
	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/idhash"
	"trade-journal-lab/internal/journalapi"
	"trade-journal-lab/internal/observability"
	"trade-journal-lab/internal/prefs"
	"trade-journal-lab/internal/query"
	"trade-journal-lab/internal/reporting"
	"trade-journal-lab/internal/storage"
	"trade-journal-lab/internal/view"
)

// guidanceEmpty is shown when a refresh produced no combinations.
const guidanceEmpty = "No combinations matched. Reduce the minimum trade count or widen the date range."

// Fetcher is the journal API surface the dashboard serves from.
// *journalapi.Client satisfies this.
type Fetcher interface {
	reporting.Fetcher
	SymbolAnalysis(ctx context.Context, f query.FilterState) ([]domain.SymbolRecord, error)
	ExitAnalysisSummary(ctx context.Context, f query.FilterState) (*journalapi.ExitAnalysisResult, error)
}

// Envelope wraps every data response so clients can distinguish loading,
// failure and legitimately empty states.
type Envelope struct {
	Loading  bool   `json:"loading"`
	Error    string `json:"error,omitempty"`
	Empty    bool   `json:"empty"`
	Guidance string `json:"guidance,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// viewData is one consistent set of fetched and computed results.
type viewData struct {
	SnapshotID   string                     `json:"snapshot_id"`
	CapturedAt   int64                      `json:"captured_at"`
	Variables    []domain.VariableRecord    `json:"variables"`
	Combinations []domain.CombinationRecord `json:"combinations"`
	Overall      *domain.StatsSummary       `json:"overall,omitempty"`
	Summary      analytics.Summary          `json:"summary"`
}

// Server owns the current view state and serves it over HTTP.
type Server struct {
	fetcher Fetcher
	hub     *Hub
	logger  *log.Logger
	now     func() time.Time

	// Optional persistence. Nil stores disable capture.
	snapshots storage.SnapshotStore
	history   storage.CombinationHistoryStore

	// Optional preference handling. Nil disables /api/preferences.
	prefs     *prefs.Syncer
	prefCache storage.PreferenceStore

	latest view.Latest

	mu       sync.RWMutex
	filter   query.FilterState
	data     *viewData
	loading  bool
	lastErr  error
	started  time.Time
	refreshN int
}

// NewServer creates a dashboard server around the given journal fetcher.
// Snapshot stores may be nil, disabling persistence of refreshes.
func NewServer(fetcher Fetcher, snapshots storage.SnapshotStore, history storage.CombinationHistoryStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[dashboard] ", log.LstdFlags)
	}
	return &Server{
		fetcher:   fetcher,
		hub:       NewHub(logger),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		snapshots: snapshots,
		history:   history,
		started:   time.Now().UTC(),
	}
}

// WithPreferences enables the preference endpoints. Reads come from the
// cache; writes go through the debounced syncer.
func (s *Server) WithPreferences(syncer *prefs.Syncer, cache storage.PreferenceStore) *Server {
	s.prefs = syncer
	s.prefCache = cache
	return s
}

// WithClock sets a custom clock function for deterministic snapshot IDs.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// Hub exposes the broadcast hub, mainly for shutdown.
func (s *Server) Hub() *Hub {
	return s.hub
}

// SetFilter replaces the active filter. The next Refresh uses it.
func (s *Server) SetFilter(f query.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Refresh fetches journal data for the active filter, recomputes analytics
// and installs the result as current view state. Concurrent calls race
// safely: each takes a request ID up front, and only the response belonging
// to the most recent call is applied. The others are fetched and discarded.
func (s *Server) Refresh(ctx context.Context) error {
	id := s.latest.Next()
	start := time.Now()

	s.mu.Lock()
	f := s.filter
	s.loading = true
	s.mu.Unlock()

	data, err := s.fetch(ctx, f)
	if err != nil {
		s.latest.Apply(id, func() {
			s.mu.Lock()
			s.loading = false
			s.lastErr = err
			s.mu.Unlock()
		})
		observability.RecordRefresh("error", time.Since(start).Seconds())
		return err
	}

	applied := s.latest.Apply(id, func() {
		s.mu.Lock()
		s.data = data
		s.loading = false
		s.lastErr = nil
		s.refreshN++
		s.mu.Unlock()
	})
	if !applied {
		s.logger.Printf("discarding stale refresh (request %d)", id)
		observability.RecordStaleDiscard()
		return nil
	}
	observability.RecordRefresh("ok", time.Since(start).Seconds())

	if err := s.persist(ctx, data); err != nil {
		// The view is already updated; persistence failure only costs
		// history, so log and keep serving.
		s.logger.Printf("persist snapshot: %v", err)
	}

	s.hub.Broadcast(Envelope{Data: data})
	observability.RecordBroadcast()
	observability.SetWSClients(s.hub.ClientCount())
	return nil
}

func (s *Server) fetch(ctx context.Context, f query.FilterState) (*viewData, error) {
	variables, err := s.fetcher.VariablesAnalysis(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetch variables: %w", err)
	}

	combos, err := s.fetcher.CombinationsFilter(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetch combinations: %w", err)
	}

	overall, err := s.fetcher.AllStats(ctx, f)
	if err != nil {
		if errors.Is(err, journalapi.ErrUnauthorized) {
			return nil, err
		}
		// Overall stats are decoration on the variables view; a failed
		// fetch degrades to tables without the header block.
		s.logger.Printf("fetch overall stats: %v", err)
		overall = nil
	}

	capturedAt := s.now().UnixMilli()
	return &viewData{
		SnapshotID:   idhash.ComputeSnapshotID(capturedAt, f.Encode()),
		CapturedAt:   capturedAt,
		Variables:    variables,
		Combinations: combos.Combinations,
		Overall:      overall,
		Summary:      analytics.Summarize(analytics.FromCombinations(combos.Combinations)),
	}, nil
}

func (s *Server) persist(ctx context.Context, data *viewData) error {
	if s.snapshots == nil {
		return nil
	}

	s.mu.RLock()
	filterQuery := s.filter.Encode()
	s.mu.RUnlock()

	snap := &domain.AnalysisSnapshot{
		SnapshotID:       data.SnapshotID,
		CapturedAt:       data.CapturedAt,
		FilterQuery:      filterQuery,
		VariableCount:    len(data.Variables),
		CombinationCount: len(data.Combinations),
		ProfitablePct:    data.Summary.ProfitablePct,
		AvgExpectancy:    data.Summary.AvgExpectancy,
		AvgMaxDrawdown:   data.Summary.AvgMaxDrawdown,
		SharpeLike:       data.Summary.SharpeLike,
		AnnualizedVol:    data.Summary.AnnualizedVolatility,
	}
	if data.Summary.Best != nil {
		snap.BestCombination = data.Summary.Best.Label
	}
	if data.Summary.Worst != nil {
		snap.WorstCombination = data.Summary.Worst.Label
	}

	if err := s.snapshots.Insert(ctx, snap); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			// Same capture already recorded, nothing new to write.
			return nil
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if s.history == nil {
		observability.RecordSnapshot(0)
		return nil
	}

	rows := make([]*domain.CombinationHistoryRow, 0, len(data.Combinations))
	for _, c := range data.Combinations {
		rows = append(rows, &domain.CombinationHistoryRow{
			SnapshotID:            snap.SnapshotID,
			CapturedAt:            snap.CapturedAt,
			Combination:           c.Combination,
			CombinationWithValues: c.CombinationWithValues,
			Trades:                c.Trades,
			WinRate:               c.WinRate,
			PnL:                   c.PnL,
			AvgRR:                 c.AvgRR,
			ProfitFactor:          c.ProfitFactor,
			Expectancy:            c.Expectancy,
			MaxDrawdown:           c.MaxDrawdown,
		})
	}
	if err := s.history.InsertBulk(ctx, rows); err != nil {
		return fmt.Errorf("insert history rows: %w", err)
	}
	observability.RecordSnapshot(len(rows))

	return nil
}

// Routes registers all dashboard handlers on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/variables", s.handleVariables)
	mux.HandleFunc("/api/combinations", s.handleCombinations)
	mux.HandleFunc("/api/symbols", s.handleSymbols)
	mux.HandleFunc("/api/exits", s.handleExits)
	mux.HandleFunc("/api/status", s.handleStatus)
	if s.prefs != nil {
		mux.HandleFunc("/api/preferences", s.handlePreferences)
	}
	mux.Handle("/ws", s.hub)
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		all, err := s.prefCache.GetAll(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, all)
	case http.MethodPut, http.MethodPost:
		var updates map[string]string
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			http.Error(w, "invalid preference body", http.StatusBadRequest)
			return
		}
		for k, v := range updates {
			if err := s.prefs.Update(r.Context(), k, v); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusAccepted)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if env, done := s.pendingEnvelope(); done {
		writeJSON(w, env)
		return
	}

	writeJSON(w, Envelope{
		Empty: len(s.data.Combinations) == 0,
		Data: map[string]any{
			"snapshot_id": s.data.SnapshotID,
			"captured_at": s.data.CapturedAt,
			"overall":     s.data.Overall,
			"summary":     s.data.Summary,
		},
	})
}

func (s *Server) handleVariables(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	data := s.data
	loading := s.loading
	lastErr := s.lastErr
	s.mu.RUnlock()

	if env, done := pending(data, loading, lastErr); done {
		writeJSON(w, env)
		return
	}

	filter := view.VariableFilter{
		MinTrades:    intParam(r, "min_trades"),
		NameContains: r.URL.Query().Get("name"),
	}
	records := view.FilterVariables(data.Variables, filter)
	records = view.SortVariables(records, sortStateFromRequest(r, view.ColumnPnL))

	writeJSON(w, Envelope{
		Empty:    len(records) == 0,
		Guidance: emptyGuidance(len(records)),
		Data:     records,
	})
}

func (s *Server) handleCombinations(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	data := s.data
	loading := s.loading
	lastErr := s.lastErr
	s.mu.RUnlock()

	if env, done := pending(data, loading, lastErr); done {
		writeJSON(w, env)
		return
	}

	// include and exclude constraints arrive in the same textual encodings
	// the backend uses for combination labels.
	filter := view.CombinationFilter{
		MinTrades: intParam(r, "min_trades"),
		Include:   combo.Parse(r.URL.Query().Get("include")),
		Exclude:   combo.Parse(r.URL.Query().Get("exclude")),
	}
	records := view.FilterCombinations(data.Combinations, filter)
	records = view.SortCombinations(records, sortStateFromRequest(r, view.ColumnPnL))

	writeJSON(w, Envelope{
		Empty:    len(records) == 0,
		Guidance: emptyGuidance(len(records)),
		Data:     records,
	})
}

// handleSymbols serves per-symbol statistics. Symbols are fetched on
// demand rather than captured with refreshes; they are not part of the
// snapshot history.
func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	f := s.filter
	s.mu.RUnlock()

	records, err := s.fetcher.SymbolAnalysis(r.Context(), f)
	if err != nil {
		writeJSON(w, Envelope{Error: err.Error()})
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PnL > records[j].PnL
	})

	writeJSON(w, Envelope{
		Empty: len(records) == 0,
		Data:  records,
	})
}

// handleExits serves the exit-quality chart data, fetched on demand.
func (s *Server) handleExits(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	f := s.filter
	s.mu.RUnlock()

	result, err := s.fetcher.ExitAnalysisSummary(r.Context(), f)
	if err != nil {
		writeJSON(w, Envelope{Error: err.Error()})
		return
	}

	writeJSON(w, Envelope{
		Empty: len(result.ChartData) == 0,
		Data:  result,
	})
}

// StatusResponse is the JSON response for /api/status.
type StatusResponse struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	Refreshes    int    `json:"refreshes"`
	Loading      bool   `json:"loading"`
	LastError    string `json:"last_error,omitempty"`
	LastCaptured int64  `json:"last_captured,omitempty"`
	FilterQuery  string `json:"filter_query"`
	WSClients    int    `json:"ws_clients"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).String(),
		Refreshes:   s.refreshN,
		Loading:     s.loading,
		FilterQuery: s.filter.Encode(),
		WSClients:   s.hub.ClientCount(),
	}
	if s.lastErr != nil {
		resp.LastError = s.lastErr.Error()
	}
	if s.data != nil {
		resp.LastCaptured = s.data.CapturedAt
	}
	s.mu.RUnlock()

	writeJSON(w, resp)
}

// pendingEnvelope must be called with mu held.
func (s *Server) pendingEnvelope() (Envelope, bool) {
	return pending(s.data, s.loading, s.lastErr)
}

// pending maps absent data to the loading/error envelope states.
func pending(data *viewData, loading bool, lastErr error) (Envelope, bool) {
	if data != nil {
		return Envelope{}, false
	}
	if lastErr != nil {
		return Envelope{Error: lastErr.Error()}, true
	}
	if loading {
		return Envelope{Loading: true}, true
	}
	return Envelope{Empty: true, Guidance: "No data yet. Trigger a refresh."}, true
}

func emptyGuidance(n int) string {
	if n == 0 {
		return guidanceEmpty
	}
	return ""
}

func sortStateFromRequest(r *http.Request, defaultColumn string) view.SortState {
	state := view.SortState{Column: defaultColumn, Direction: view.Descending}
	if col := r.URL.Query().Get("sort"); col != "" {
		state.Column = col
	}
	if dir := r.URL.Query().Get("dir"); dir == string(view.Ascending) {
		state.Direction = view.Ascending
	}
	return state
}

func intParam(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
