package main

import (
	"fmt"
	"path/filepath"

	"github.com/pevans/replidata"
	"github.com/pevans/replidata/join"
	"github.com/spf13/cobra"
)

// Join flags
var (
	joinMetadata  string
	joinReference string
	joinOut       string
)

func init() {
	joinCmd.Flags().StringVar(&joinMetadata, "metadata", "", "Scraped export (default <output_dir>/articlesMetadata.csv)")
	joinCmd.Flags().StringVar(&joinReference, "reference", "", "Reference database CSV (default paths.reference)")
	joinCmd.Flags().StringVar(&joinOut, "out", "", "Joined output (default <output_dir>/articlesData.csv)")
	rootCmd.AddCommand(joinCmd)
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join the export with the reference database",
	Long: `Join articlesMetadata.csv with the public reference database by trimmed
title, adding computational_reproduction, perfect_reproduction and comments.

perfect_reproduction is written as 1 for yes, 0 for no, and empty otherwise.

Examples:
  replidata join
  replidata join --reference input/metadatabasePublic.csv --out joined.csv`,
	Args: cobra.NoArgs,
	RunE: runJoin,
}

func runJoin(cmd *cobra.Command, args []string) error {
	metadataPath := joinMetadata
	if metadataPath == "" {
		metadataPath = filepath.Join(cfg.Paths.OutputDir, replidata.MetadataFile)
	}

	result, outputPath, err := joinExport(metadataPath)
	if err != nil {
		return err
	}

	printJoinSummary(result, outputPath)
	return nil
}

// joinExport joins metadataPath with the configured reference database.
func joinExport(metadataPath string) (*join.Result, string, error) {
	referencePath := joinReference
	if referencePath == "" {
		referencePath = cfg.Paths.Reference
	}
	outputPath := joinOut
	if outputPath == "" {
		outputPath = filepath.Join(cfg.Paths.OutputDir, replidata.JoinedFile)
	}

	result, err := join.NewJoiner(logger).Join(metadataPath, referencePath, outputPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to join: %w", err)
	}

	return result, outputPath, nil
}
