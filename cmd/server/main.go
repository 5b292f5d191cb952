// Package main provides the unified analytics service:
// - Capture (scheduled): fetch journal data, compute analytics, persist snapshots
// - Dashboard (continuous): HTTP API and WebSocket feed over the latest capture
// - Preferences: debounced write-back of chart preferences to the journal backend
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trade-journal-lab/internal/dashboard"
	"trade-journal-lab/internal/journalapi"
	"trade-journal-lab/internal/observability"
	"trade-journal-lab/internal/prefs"
	"trade-journal-lab/internal/query"
	"trade-journal-lab/internal/storage"
	chstore "trade-journal-lab/internal/storage/clickhouse"
	"trade-journal-lab/internal/storage/memory"
	"trade-journal-lab/internal/storage/migrations"
	pgstore "trade-journal-lab/internal/storage/postgres"
)

// allStores groups every store the service uses.
type allStores struct {
	snapshotStore   storage.SnapshotStore
	historyStore    storage.CombinationHistoryStore
	preferenceStore storage.PreferenceStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	backendURL := flag.String("backend-url", os.Getenv("JOURNAL_BACKEND_URL"), "Journal backend base URL")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	listenAddr := flag.String("listen-addr", ":8080", "Dashboard HTTP address")
	captureInterval := flag.Duration("capture-interval", 15*time.Minute, "Snapshot capture interval")
	symbols := flag.String("symbols", "", "Comma-separated symbols to filter on")
	fromDate := flag.String("from-date", "", "Filter start date (YYYY-MM-DD)")
	toDate := flag.String("to-date", "", "Filter end date (YYYY-MM-DD)")
	minTrades := flag.Int("min-trades", 0, "Minimum trades per combination")
	combinationLevel := flag.Int("combination-level", 2, "Variables per combination (2-4)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags. The API token only travels through the
	// environment so it never shows up in process listings.
	token := os.Getenv("JOURNAL_API_TOKEN")
	if *backendURL == "" {
		logger.Fatal("--backend-url is required")
	}
	if token == "" {
		logger.Fatal("JOURNAL_API_TOKEN is required")
	}
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Journal API client and preference syncer
	client := journalapi.NewClient(*backendURL, token)
	syncer := prefs.NewSyncer(client,
		prefs.WithCache(stores.preferenceStore),
		prefs.WithLogger(log.New(os.Stdout, "[prefs] ", log.LstdFlags)),
	)

	// Dashboard server over the configured filter
	srv := dashboard.NewServer(client, stores.snapshotStore, stores.historyStore,
		log.New(os.Stdout, "[dashboard] ", log.LstdFlags)).
		WithPreferences(syncer, stores.preferenceStore)
	srv.SetFilter(buildFilter(*symbols, *fromDate, *toDate, *minTrades, *combinationLevel))

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start dashboard HTTP server
	go startHTTPServer(srv, *listenAddr, logger)

	// Run the capture scheduler until shutdown
	err = runCaptureScheduler(ctx, srv, *captureInterval, logger)
	done <- err
	cancel()

	// Flush pending preference writes before exiting.
	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := syncer.Close(flushCtx); err != nil {
		logger.Printf("Flush preferences on shutdown: %v", err)
	}
	flushCancel()
	srv.Hub().Close()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// runCaptureScheduler refreshes the dashboard on a fixed interval. A tick
// that arrives while the previous refresh is still running is skipped.
func runCaptureScheduler(ctx context.Context, srv *dashboard.Server, interval time.Duration, logger *log.Logger) error {
	logger.Printf("Starting capture scheduler (interval %v)", interval)

	// Initial capture so the dashboard has data immediately.
	refresh := func() {
		start := time.Now()
		if err := srv.Refresh(ctx); err != nil {
			logger.Printf("Capture failed: %v", err)
			return
		}
		logger.Printf("Capture completed in %v", time.Since(start))
	}
	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	running := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			select {
			case running <- struct{}{}:
				go func() {
					defer func() { <-running }()
					refresh()
				}()
			default:
				logger.Println("Skipping capture: previous run still in progress")
			}
		}
	}
}

// startHTTPServer serves the dashboard API.
func startHTTPServer(srv *dashboard.Server, addr string, logger *log.Logger) {
	mux := http.NewServeMux()
	srv.Routes(mux)

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("HTTP server error: %v", err)
	}
}

// buildFilter assembles the capture filter from flags.
func buildFilter(symbols, fromDate, toDate string, minTrades, combinationLevel int) query.FilterState {
	f := query.FilterState{
		FromDate:         query.ParseDate(fromDate),
		ToDate:           query.ParseDate(toDate),
		MinTrades:        minTrades,
		CombinationLevel: combinationLevel,
		CombineVars:      true,
	}
	for _, s := range strings.Split(symbols, ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.Symbols = append(f.Symbols, s)
		}
	}
	return f
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			snapshotStore:   memory.NewSnapshotStore(),
			historyStore:    memory.NewCombinationHistoryStore(),
			preferenceStore: memory.NewPreferenceStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL (snapshot headers + preference cache)
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse (combination history)
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		snapshotStore:   pgstore.NewSnapshotStore(pool),
		preferenceStore: pgstore.NewPreferenceStore(pool),
		historyStore:    chstore.NewCombinationHistoryStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
