// Package browser loads pages for the scraper and hands them back as parsed
// documents.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// Supported fetch engines.
const (
	EngineChrome = "chrome"
	EngineHTTP   = "http"
)

// ErrUnsupportedEngine is returned by New for an unknown engine name.
var ErrUnsupportedEngine = errors.New("fetch engine must be chrome or http")

// Request describes a page to load.
type Request struct {
	URL string
	// WaitFor is a selector polled for after navigation. When it does not
	// appear within the ready timeout the page is captured anyway.
	WaitFor string
	// Clicks are selectors clicked in order before the page is captured.
	Clicks []string
}

// Fetcher loads a page and returns its rendered document. The document's Url
// is set to the final page location so relative links can be resolved.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*goquery.Document, error)
	Close() error
}

// parseDocument parses html and records the page location on the document.
func parseDocument(html, location string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	if location != "" {
		if u, err := url.Parse(location); err == nil {
			doc.Url = u
		}
	}

	return doc, nil
}

// Options configures the fetcher returned by New.
type Options struct {
	Engine            string
	Headless          bool
	NavigationTimeout time.Duration
	ReadyTimeout      time.Duration
	SettleDelay       time.Duration
	ClickDelay        time.Duration
	UserAgent         string
	// RatePerSecond bounds page loads. Zero disables throttling.
	RatePerSecond float64
}

// New creates a fetcher for the configured engine, throttled when a rate is
// set.
func New(ctx context.Context, opts Options, logger zerolog.Logger) (Fetcher, error) {
	var fetcher Fetcher

	switch opts.Engine {
	case EngineChrome:
		chrome, err := NewChromeFetcher(ctx, opts, logger)
		if err != nil {
			return nil, err
		}
		fetcher = chrome
	case EngineHTTP:
		fetcher = NewHTTPFetcher(opts.NavigationTimeout, opts.UserAgent, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, opts.Engine)
	}

	if opts.RatePerSecond > 0 {
		fetcher = NewThrottled(fetcher, opts.RatePerSecond, 1)
	}

	return fetcher, nil
}
