package main

import (
	"fmt"

	"github.com/pevans/replidata"
	"github.com/spf13/cobra"
)

// Scrape flags
var (
	scrapeEngine    string
	scrapeOutputDir string
	scrapeIndexURL  string
	scrapeNoLedger  bool
	scrapeHeadful   bool
)

func init() {
	addScrapeFlags(scrapeCmd)
	rootCmd.AddCommand(scrapeCmd)
}

// addScrapeFlags registers the flags shared by scrape and run.
func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scrapeEngine, "engine", getEnv("REPLIDATA_ENGINE", ""), "Fetch engine: chrome or http (REPLIDATA_ENGINE)")
	cmd.Flags().StringVar(&scrapeOutputDir, "output-dir", "", "Directory for checkpoints and the export")
	cmd.Flags().StringVar(&scrapeIndexURL, "index-url", "", "Discussion paper index to scrape")
	cmd.Flags().BoolVar(&scrapeNoLedger, "no-ledger", false, "Do not record the run in the ledger")
	cmd.Flags().BoolVar(&scrapeHeadful, "headful", false, "Show the browser window (chrome engine only)")
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the index and write articlesMetadata.csv",
	Long: `Load the discussion paper index, enrich every report from its detail and
metadata pages, and write the export to the output directory.

A checkpoint file is written after every checkpoint_interval records.
Failures on individual reports are logged and recorded in the ledger
without stopping the run.

Examples:
  replidata scrape
  replidata scrape --engine http --output-dir /tmp/out`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func runScrape(cmd *cobra.Command, args []string) error {
	result, err := scrape(cmd)
	if result != nil {
		printScrapeSummary(result)
	}
	return err
}

// scrape applies the scrape flags to the config and runs the pipeline.
func scrape(cmd *cobra.Command) (*replidata.RunResult, error) {
	applyScrapeFlags()
	if err := cfg.Validate(); err != nil {
		return nil, &exitError{code: ExitConfigError, err: err}
	}

	fetcher, err := openFetcher(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to start %s fetcher: %w", cfg.Fetch.Engine, err)
	}
	defer fetcher.Close()

	pipeline := replidata.NewPipeline(fetcher, cfg, logger)

	if !scrapeNoLedger {
		ledger, err := openLedger()
		if err != nil {
			return nil, fmt.Errorf("failed to open run ledger: %w", err)
		}
		defer ledger.Close()
		pipeline.WithRecorder(ledger)
	}

	return pipeline.Run(cmd.Context())
}

func applyScrapeFlags() {
	if scrapeEngine != "" {
		cfg.Fetch.Engine = scrapeEngine
	}
	if scrapeOutputDir != "" {
		cfg.Paths.OutputDir = scrapeOutputDir
	}
	if scrapeIndexURL != "" {
		cfg.IndexURL = scrapeIndexURL
	}
	if scrapeHeadful {
		cfg.Fetch.Headless = false
	}
}
