package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// HTTPFetcher loads pages with a plain HTTP GET. It does not run scripts, so
// click steps are ignored and WaitFor is only checked, never waited on.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// NewHTTPFetcher creates a fetcher with the given request timeout.
func NewHTTPFetcher(timeout time.Duration, userAgent string, logger zerolog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Fetch performs a GET request and parses the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (*goquery.Document, error) {
	if len(req.Clicks) > 0 {
		f.logger.Debug().Str("url", req.URL).Strs("clicks", req.Clicks).Msg("Ignoring click steps for static fetch")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		httpReq.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	doc, err := parseDocument(string(body), resp.Request.URL.String())
	if err != nil {
		return nil, err
	}

	if req.WaitFor != "" && doc.Find(req.WaitFor).Length() == 0 {
		f.logger.Debug().Str("url", req.URL).Str("selector", req.WaitFor).Msg("Ready selector not present")
	}

	return doc, nil
}

// Close is a no-op for HTTP fetches.
func (f *HTTPFetcher) Close() error {
	return nil
}
