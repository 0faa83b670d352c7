// Package replidata scrapes replication reports from the I4R discussion paper
// index, enriches them from their detail and repository metadata pages, and
// exports the result for joining with the reference database.
package replidata

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/replidata/article"
	"github.com/pevans/replidata/browser"
	"github.com/pevans/replidata/config"
	"github.com/pevans/replidata/dataset"
	"github.com/pevans/replidata/discovery"
	"github.com/pevans/replidata/logging"
	"github.com/pevans/replidata/runs"
	"github.com/rs/zerolog"
)

// Output file names, relative to the output directory.
const (
	MetadataFile = "articlesMetadata.csv"
	JoinedFile   = "articlesData.csv"
)

// CheckpointFile returns the name of the checkpoint holding records from
// through to, counted from 1.
func CheckpointFile(from, to int) string {
	return fmt.Sprintf("articlesMetadata_%d_to_%d.csv", from, to)
}

// RunRecorder persists the lifecycle of a pipeline run.
type RunRecorder interface {
	StartRun(indexURL string) (*runs.Run, error)
	FinishRun(run *runs.Run) error
}

// Pipeline scrapes the index, enriches each record, and writes checkpoints
// and the final export. Pages are visited one at a time.
type Pipeline struct {
	fetcher  browser.Fetcher
	config   *config.Config
	recorder RunRecorder
	skip     func(url string) bool
	logger   zerolog.Logger
}

// Failure describes a record whose enrichment failed.
type Failure struct {
	Index int
	Title string
	URL   string
	Err   error
}

// RunResult contains the outcome of a pipeline run.
type RunResult struct {
	// RunID is uuid.Nil when no recorder is attached.
	RunID       uuid.UUID
	Records     []article.Record
	Enriched    int
	Skipped     int
	Failures    []Failure
	Checkpoints []string
	ExportPath  string
	Duration    time.Duration
}

// NewPipeline creates a pipeline that loads pages through fetcher.
func NewPipeline(fetcher browser.Fetcher, cfg *config.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		config:  cfg,
		skip:    skipList(cfg.SkipURLs),
		logger:  logger,
	}
}

// WithRecorder attaches a run ledger to the pipeline.
func (p *Pipeline) WithRecorder(recorder RunRecorder) *Pipeline {
	p.recorder = recorder
	return p
}

// WithSkip replaces the skip predicate. Records whose detail URL matches are
// exported without enrichment.
func (p *Pipeline) WithSkip(skip func(url string) bool) *Pipeline {
	p.skip = skip
	return p
}

// Run scrapes the listing, enriches every record and writes the export. A
// failure on one record is logged and recorded without stopping the run;
// failing to load the index, a cancelled context, or failing to write the
// export end the run with an error.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	startTime := time.Now()
	result := &RunResult{}
	logger := p.logger

	var run *runs.Run
	if p.recorder != nil {
		var err error
		run, err = p.recorder.StartRun(p.config.IndexURL)
		if err != nil {
			return nil, fmt.Errorf("failed to start run: %w", err)
		}
		result.RunID = run.RunID
		logger = logger.With().Str("run_id", run.RunID.String()).Logger()
	}

	err := p.run(ctx, logger, result)
	result.Duration = time.Since(startTime)

	if run != nil {
		p.finishRun(logger, run, result, err)
	}

	if err != nil {
		if IsCancelled(err) {
			logger.Warn().Dur("duration", result.Duration).Msg("Scrape cancelled")
		} else {
			logger.Error().Err(err).Dur("duration", result.Duration).Msg("Scrape failed")
		}
		return result, err
	}

	logger.Info().
		Int("records", len(result.Records)).
		Int("enriched", result.Enriched).
		Int("without_links", countUnenriched(result.Records)).
		Int("skipped", result.Skipped).
		Int("failed", len(result.Failures)).
		Dur("duration", result.Duration).
		Str("export", result.ExportPath).
		Msg("Scrape completed")

	return result, nil
}

func (p *Pipeline) run(ctx context.Context, logger zerolog.Logger, result *RunResult) error {
	records, err := p.ScrapeListing(ctx, logger)
	if err != nil {
		return err
	}
	result.Records = records

	if err := p.Enrich(ctx, logger, records, result); err != nil {
		return err
	}

	exportPath := filepath.Join(p.config.Paths.OutputDir, MetadataFile)
	if err := dataset.WriteFile(exportPath, article.ToTable(records)); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	result.ExportPath = exportPath

	return nil
}

// ScrapeListing loads the index page and extracts one record per card.
func (p *Pipeline) ScrapeListing(ctx context.Context, logger zerolog.Logger) ([]article.Record, error) {
	logger.Info().Str("url", p.config.IndexURL).Msg("Loading index page")

	doc, err := p.fetcher.Fetch(ctx, browser.Request{
		URL:     p.config.IndexURL,
		WaitFor: p.config.Listing.CardSelector,
		Clicks:  p.config.Listing.Clicks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load index page: %w", err)
	}

	records := discovery.ExtractListing(doc, p.config.Listing)

	// A mismatch means some cards carry no link or more than one.
	if links := discovery.CollectLinks(doc, p.config.Listing); len(links) != len(records) {
		logger.Warn().
			Int("cards", len(records)).
			Int("links", len(links)).
			Msg("Card count differs from link count in articles container")
	}

	logger.Info().Int("records", len(records)).Msg("Extracted listing")

	return records, nil
}

// Enrich visits the detail and metadata pages for each record in order,
// filling in Year and Links in place, and writes a checkpoint after every
// CheckpointInterval records.
func (p *Pipeline) Enrich(ctx context.Context, logger zerolog.Logger, records []article.Record, result *RunResult) error {
	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		record := &records[i]
		recordLogger := logging.WithRecordContext(logger, i, record.Title, record.URL)

		switch {
		case record.URL == "":
			recordLogger.Warn().Msg("Record has no detail URL, skipping enrichment")
			result.Skipped++
		case p.skip != nil && p.skip(record.URL):
			recordLogger.Info().Msg("Detail URL is on the skip list, skipping enrichment")
			result.Skipped++
		default:
			year, links, err := p.enrichRecord(ctx, record.URL)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				recordLogger.Warn().Err(err).Msg("Failed to enrich record")
				result.Failures = append(result.Failures, Failure{
					Index: i,
					Title: record.Title,
					URL:   record.URL,
					Err:   err,
				})
				break
			}

			record.Year = year
			record.Links = strings.Join(links, ", ")
			result.Enriched++
			recordLogger.Debug().Str("year", year).Int("links", len(links)).Msg("Enriched record")
		}

		p.checkpoint(logger, records, i+1, result)
	}

	return nil
}

// enrichRecord loads the detail page for its outbound links and the metadata
// page for its creation year.
func (p *Pipeline) enrichRecord(ctx context.Context, detailURL string) (string, []string, error) {
	detail, err := p.fetcher.Fetch(ctx, browser.Request{
		URL:     detailURL,
		WaitFor: p.config.Detail.LinksRegion,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to load detail page: %w", err)
	}
	links := discovery.ExtractDetailLinks(detail, p.config.Detail, detailURL)

	metadata, err := p.fetcher.Fetch(ctx, browser.Request{
		URL:     p.config.Metadata.MetadataURL(detailURL),
		WaitFor: p.config.Metadata.DateSelector,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to load metadata page: %w", err)
	}
	year := discovery.ExtractCreationYear(metadata, p.config.Metadata)

	return year, links, nil
}

// checkpoint writes the most recent window of records once completed is a
// multiple of the checkpoint interval. Write failures are logged only.
func (p *Pipeline) checkpoint(logger zerolog.Logger, records []article.Record, completed int, result *RunResult) {
	interval := p.config.CheckpointInterval
	if interval <= 0 || completed%interval != 0 {
		return
	}

	from := completed - interval
	path := filepath.Join(p.config.Paths.OutputDir, CheckpointFile(from+1, completed))
	if err := dataset.WriteFile(path, article.ToTable(records[from:completed])); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to write checkpoint")
		return
	}

	result.Checkpoints = append(result.Checkpoints, path)
	logger.Info().Str("path", path).Int("completed", completed).Int("total", len(records)).Msg("Wrote checkpoint")
}

// finishRun stores the run outcome in the ledger. Ledger errors are logged
// so they never mask the run's own result.
func (p *Pipeline) finishRun(logger zerolog.Logger, run *runs.Run, result *RunResult, runErr error) {
	run.Status = runs.StatusCompleted
	if runErr != nil {
		run.Status = runs.StatusFailed
		msg := runErr.Error()
		run.Error = &msg
	}

	run.Records = len(result.Records)
	run.Enriched = result.Enriched
	run.Skipped = result.Skipped
	run.Failed = len(result.Failures)
	for _, f := range result.Failures {
		run.Failures = append(run.Failures, runs.Failure{
			Index: f.Index,
			Title: f.Title,
			URL:   f.URL,
			Error: f.Err.Error(),
		})
	}

	if err := p.recorder.FinishRun(run); err != nil {
		logger.Error().Err(err).Msg("Failed to record run")
	}
}

// countUnenriched returns how many records are exported without detail
// links.
func countUnenriched(records []article.Record) int {
	n := 0
	for _, r := range records {
		if !r.Enriched() {
			n++
		}
	}
	return n
}

// skipList returns a predicate matching any of urls exactly.
func skipList(urls []string) func(string) bool {
	set := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		set[u] = struct{}{}
	}
	return func(url string) bool {
		_, ok := set[url]
		return ok
	}
}

// IsCancelled reports whether err is the result of a cancelled context. An
// expired deadline, such as a navigation timeout, is not a cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
