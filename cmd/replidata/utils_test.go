package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestTruncate verifies truncation counts runes and marks the cut
func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "Ökonomi...", truncate("Ökonomische Studien", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

// TestExitCode verifies errors map to the documented exit codes
func TestExitCode(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, ExitError, exitCode(ctx, errors.New("boom")))
	assert.Equal(t, ExitConfigError, exitCode(ctx, &exitError{code: ExitConfigError, err: errors.New("bad config")}))
	assert.Equal(t, ExitConfigError, exitCode(ctx, fmt.Errorf("wrapped: %w", &exitError{code: ExitConfigError, err: errors.New("bad config")})))
}

// TestExitCode_NavigationTimeout verifies a page timeout is a run failure,
// not an interrupt
func TestExitCode_NavigationTimeout(t *testing.T) {
	err := fmt.Errorf("failed to load index page: %w",
		fmt.Errorf("failed to navigate to https://i4replication.org/: %w", context.DeadlineExceeded))

	assert.Equal(t, ExitError, exitCode(context.Background(), err))
}

// TestExitCode_Interrupted verifies a cancelled signal context exits 130
func TestExitCode_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fmt.Errorf("failed to load index page: %w", context.Canceled)
	assert.Equal(t, ExitInterrupted, exitCode(ctx, err))
}

// TestExitError_Unwrap verifies the wrapped error stays reachable
func TestExitError_Unwrap(t *testing.T) {
	err := &exitError{code: ExitConfigError, err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, context.DeadlineExceeded.Error(), err.Error())
}

// TestGetEnv verifies environment values override the default
func TestGetEnv(t *testing.T) {
	t.Setenv("REPLIDATA_TEST_VALUE", "set")
	assert.Equal(t, "set", getEnv("REPLIDATA_TEST_VALUE", "default"))
	assert.Equal(t, "default", getEnv("REPLIDATA_TEST_UNSET", "default"))
}

// TestFormatDuration verifies rounding for display
func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond+300*time.Microsecond))
	assert.Equal(t, "1m5s", formatDuration(65*time.Second+400*time.Millisecond))
}
