package main

import (
	"github.com/spf13/cobra"
)

func init() {
	addScrapeFlags(runCmd)
	runCmd.Flags().StringVar(&joinReference, "reference", "", "Reference database CSV (default paths.reference)")
	runCmd.Flags().StringVar(&joinOut, "out", "", "Joined output (default <output_dir>/articlesData.csv)")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape, export and join in one pass",
	Long: `Run the full pipeline: scrape and enrich the index, write the export,
then join it with the reference database.

The join is not attempted when the scrape fails.

Examples:
  replidata run
  replidata run --engine http`,
	Args: cobra.NoArgs,
	RunE: runAll,
}

func runAll(cmd *cobra.Command, args []string) error {
	result, err := scrape(cmd)
	if result != nil {
		printScrapeSummary(result)
	}
	if err != nil {
		return err
	}

	joined, outputPath, err := joinExport(result.ExportPath)
	if err != nil {
		return err
	}

	printJoinSummary(joined, outputPath)
	return nil
}
