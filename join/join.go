// Package join merges the scraped metadata export with the reference
// database of reproduction outcomes.
package join

import (
	"fmt"
	"strings"

	"github.com/pevans/replidata/dataset"
	"github.com/rs/zerolog"
)

// Columns read from the reference database and added to the export.
const (
	ColumnTitle                     = "title"
	ColumnComputationalReproduction = "computational_reproduction"
	ColumnPerfectReproduction       = "perfect_reproduction"
	ColumnComments                  = "comments"
)

// Result summarizes a join.
type Result struct {
	Rows          int
	Matched       int
	Unmatched     int
	ReferenceRows int
}

// Joiner joins exported metadata against a reference CSV by title.
type Joiner struct {
	logger zerolog.Logger
}

// NewJoiner creates a new joiner.
func NewJoiner(logger zerolog.Logger) *Joiner {
	return &Joiner{logger: logger}
}

// Join reads the metadata export and the reference database, left-joins the
// reference columns onto every export row by trimmed title, and writes the
// result to outputPath.
func (j *Joiner) Join(metadataPath, referencePath, outputPath string) (*Result, error) {
	export, err := dataset.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	reference, err := dataset.ReadFile(referencePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference database: %w", err)
	}

	joined, result := Rows(export, reference)

	if err := dataset.WriteFile(outputPath, joined); err != nil {
		return nil, fmt.Errorf("failed to write joined data: %w", err)
	}

	j.logger.Info().
		Int("rows", result.Rows).
		Int("matched", result.Matched).
		Int("unmatched", result.Unmatched).
		Int("reference_rows", result.ReferenceRows).
		Str("output", outputPath).
		Msg("Joined metadata with reference database")

	return result, nil
}

// Rows performs the join in memory. The export's columns and row order are
// preserved; the three reference columns are appended, or overwritten in
// place if the export already has them.
func Rows(export, reference *dataset.Table) (*dataset.Table, *Result) {
	lookup := index(reference)

	header := append([]string(nil), export.Header...)
	added := []string{ColumnComputationalReproduction, ColumnPerfectReproduction, ColumnComments}
	positions := make(map[string]int, len(added))
	for _, name := range added {
		col := export.Column(name)
		if col < 0 {
			col = len(header)
			header = append(header, name)
		}
		positions[name] = col
	}

	joined := dataset.NewTable(header)
	result := &Result{Rows: len(export.Rows), ReferenceRows: len(lookup)}

	for i, row := range export.Rows {
		out := make([]string, len(header))
		copy(out, row)

		title := strings.TrimSpace(export.Value(i, ColumnTitle))
		ref, ok := lookup[title]
		if ok {
			result.Matched++
		} else {
			result.Unmatched++
		}

		out[positions[ColumnComputationalReproduction]] = ref[ColumnComputationalReproduction]
		out[positions[ColumnPerfectReproduction]] = NormalizePerfectReproduction(ref[ColumnPerfectReproduction])
		out[positions[ColumnComments]] = ref[ColumnComments]

		joined.Append(out...)
	}

	return joined, result
}

// NormalizePerfectReproduction maps "yes" to "1" and "no" to "0", ignoring
// case and surrounding whitespace. Any other value maps to "".
func NormalizePerfectReproduction(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes":
		return "1"
	case "no":
		return "0"
	default:
		return ""
	}
}

// index builds a title lookup over the reference rows. Rows without a title
// are skipped and later rows replace earlier rows with the same title.
func index(reference *dataset.Table) map[string]map[string]string {
	lookup := make(map[string]map[string]string)

	for i, row := range reference.Rows {
		title := strings.TrimSpace(reference.Value(i, ColumnTitle))
		if title == "" {
			continue
		}

		fields := make(map[string]string, len(reference.Header))
		for col, name := range reference.Header {
			fields[name] = row[col]
		}
		lookup[title] = fields
	}

	return lookup
}
