package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/replidata"
	"github.com/pevans/replidata/join"
	"github.com/pevans/replidata/runs"
)

const (
	// Title truncation lengths by context
	failureTitleMaxLen = 60
	runURLMaxLen       = 50
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printScrapeSummary prints the outcome of a pipeline run
func printScrapeSummary(result *replidata.RunResult) {
	fmt.Printf("Records:     %d\n", len(result.Records))
	fmt.Printf("Enriched:    %d\n", result.Enriched)
	fmt.Printf("Skipped:     %d\n", result.Skipped)
	fmt.Printf("Failed:      %d\n", len(result.Failures))
	fmt.Printf("Checkpoints: %d\n", len(result.Checkpoints))
	fmt.Printf("Duration:    %s\n", formatDuration(result.Duration))
	if result.ExportPath != "" {
		fmt.Printf("Export:      %s\n", result.ExportPath)
	}
	if result.RunID != uuid.Nil {
		fmt.Printf("Run ID:      %s\n", result.RunID)
	}

	for _, f := range result.Failures {
		fmt.Printf("  ! #%d %s: %v\n", f.Index+1, truncate(f.Title, failureTitleMaxLen), f.Err)
	}
}

// printJoinSummary prints the outcome of a join
func printJoinSummary(result *join.Result, outputPath string) {
	fmt.Printf("Joined %d rows (%d matched, %d unmatched) against %d reference rows\n",
		result.Rows, result.Matched, result.Unmatched, result.ReferenceRows)
	fmt.Printf("Output: %s\n", outputPath)
}

// printRunsTable prints runs in human-readable table format
func printRunsTable(list []runs.Run) {
	if len(list) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run ID", "Status", "Started", "Records", "Enriched", "Skipped", "Failed", "Index"})

	for _, run := range list {
		t.AppendRow(table.Row{
			run.RunID,
			run.Status,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Records,
			run.Enriched,
			run.Skipped,
			run.Failed,
			truncate(run.IndexURL, runURLMaxLen),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

// printRunDetail prints one run with its failures
func printRunDetail(run *runs.Run) {
	fmt.Printf("Run:      %s\n", run.RunID)
	fmt.Printf("Index:    %s\n", run.IndexURL)
	fmt.Printf("Status:   %s\n", run.Status)
	fmt.Printf("Started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
	if run.FinishedAt != nil {
		fmt.Printf("Finished: %s (%s)\n",
			run.FinishedAt.Local().Format(time.RFC3339),
			formatDuration(run.FinishedAt.Sub(run.StartedAt)))
	}
	fmt.Printf("Records:  %d enriched, %d skipped, %d failed of %d\n",
		run.Enriched, run.Skipped, run.Failed, run.Records)
	if run.Error != nil {
		fmt.Printf("Error:    %s\n", *run.Error)
	}

	if len(run.Failures) == 0 {
		return
	}

	fmt.Println()
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Title", "URL", "Error"})
	for _, f := range run.Failures {
		t.AppendRow(table.Row{f.Index + 1, truncate(f.Title, failureTitleMaxLen), f.URL, f.Error})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
