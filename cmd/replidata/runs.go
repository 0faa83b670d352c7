package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pevans/replidata/runs"
	"github.com/spf13/cobra"
)

// Runs flags
var (
	runsLimit int
	runsJSON  bool
)

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to show (0 = all)")
	runsListCmd.Flags().BoolVar(&runsJSON, "json", false, "Output as JSON")
	runsShowCmd.Flags().BoolVar(&runsJSON, "json", false, "Output as JSON")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run ledger",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent scrape runs",
	Long: `List scrape runs recorded in the ledger, most recent first.

Examples:
  replidata runs list
  replidata runs list --limit 5 --json`,
	Args: cobra.NoArgs,
	RunE: runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its failed records",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	ledger, err := openLedger()
	if err != nil {
		return fmt.Errorf("failed to open run ledger: %w", err)
	}
	defer ledger.Close()

	list, err := ledger.ListRuns(runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if runsJSON {
		if list == nil {
			list = []runs.Run{}
		}
		return outputJSON(list)
	}

	printRunsTable(list)
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}

	ledger, err := openLedger()
	if err != nil {
		return fmt.Errorf("failed to open run ledger: %w", err)
	}
	defer ledger.Close()

	run, err := ledger.GetRun(runID)
	if errors.Is(err, runs.ErrRunNotFound) {
		return fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	if runsJSON {
		return outputJSON(run)
	}

	printRunDetail(run)
	return nil
}
