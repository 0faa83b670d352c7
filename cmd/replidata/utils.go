package main

import (
	"context"
	"os"
	"time"

	"github.com/pevans/replidata/browser"
	"github.com/pevans/replidata/runs"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// truncate shortens s to max runes, marking the cut with "..."
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// openFetcher creates the fetcher described by the loaded config.
func openFetcher(ctx context.Context) (browser.Fetcher, error) {
	return browser.New(ctx, cfg.BrowserOptions(), logger)
}

// openLedger opens the run ledger named by the loaded config.
func openLedger() (*runs.RunStore, error) {
	return runs.NewRunStore(cfg.Paths.Ledger)
}

// formatDuration rounds d for display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
