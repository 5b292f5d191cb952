// Package main generates a one-shot performance report: it fetches variable
// and combination analytics from the journal backend and writes Markdown and
// CSV files to the output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trade-journal-lab/internal/journalapi"
	"trade-journal-lab/internal/query"
	"trade-journal-lab/internal/reporting"
)

func main() {
	// Parse flags
	backendURL := flag.String("backend-url", os.Getenv("JOURNAL_BACKEND_URL"), "Journal backend base URL")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	symbols := flag.String("symbols", "", "Comma-separated symbols to filter on")
	fromDate := flag.String("from-date", "", "Filter start date (YYYY-MM-DD)")
	toDate := flag.String("to-date", "", "Filter end date (YYYY-MM-DD)")
	minTrades := flag.Int("min-trades", 0, "Minimum trades per combination")
	combinationLevel := flag.Int("combination-level", 2, "Variables per combination (2-4)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall fetch timeout")
	flag.Parse()

	token := os.Getenv("JOURNAL_API_TOKEN")
	if *backendURL == "" {
		fmt.Fprintln(os.Stderr, "Error: --backend-url is required")
		os.Exit(1)
	}
	if token == "" {
		fmt.Fprintln(os.Stderr, "Error: JOURNAL_API_TOKEN is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Build the filter
	f := query.FilterState{
		FromDate:         query.ParseDate(*fromDate),
		ToDate:           query.ParseDate(*toDate),
		MinTrades:        *minTrades,
		CombinationLevel: *combinationLevel,
		CombineVars:      true,
	}
	for _, s := range strings.Split(*symbols, ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.Symbols = append(f.Symbols, s)
		}
	}

	// Fetch and assemble the report
	client := journalapi.NewClient(*backendURL, token)
	report, err := reporting.NewGenerator(client).Generate(ctx, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	// Write outputs
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	outputs := map[string]string{
		"REPORT.md":        reporting.RenderMarkdown(report),
		"variables.csv":    reporting.RenderVariablesCSV(report.Variables),
		"combinations.csv": reporting.RenderCombinationsCSV(report.Combinations),
	}
	for name, content := range outputs {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}
}
