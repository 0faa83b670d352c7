package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// ChromeFetcher renders pages in a single headless Chrome tab that is reused
// for every request.
type ChromeFetcher struct {
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	opts        Options
	logger      zerolog.Logger
}

// NewChromeFetcher starts a browser and opens the tab used for all fetches.
// The browser stays alive until Close is called or ctx is cancelled.
func NewChromeFetcher(ctx context.Context, opts Options, logger zerolog.Logger) (*ChromeFetcher, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// The first Run allocates the browser. It must use the tab context
	// itself so later per-request timeouts do not tear the browser down.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &ChromeFetcher{
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		opts:        opts,
		logger:      logger,
	}, nil
}

// Fetch navigates to the page, performs any clicks, polls for the ready
// selector, and captures the rendered HTML.
func (f *ChromeFetcher) Fetch(ctx context.Context, req Request) (*goquery.Document, error) {
	// Tie the caller's cancellation to the long-lived tab context.
	runCtx, cancel := context.WithCancel(f.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := f.run(runCtx, f.opts.NavigationTimeout, chromedp.Navigate(req.URL)); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", req.URL, err)
	}

	for _, selector := range req.Clicks {
		if err := f.run(runCtx, f.opts.NavigationTimeout,
			chromedp.WaitVisible(selector, chromedp.ByQuery),
			chromedp.Click(selector, chromedp.ByQuery),
		); err != nil {
			return nil, fmt.Errorf("failed to click %s: %w", selector, err)
		}
		if f.opts.ClickDelay > 0 {
			if err := chromedp.Run(runCtx, chromedp.Sleep(f.opts.ClickDelay)); err != nil {
				return nil, err
			}
		}
	}

	if req.WaitFor != "" {
		err := f.run(runCtx, f.opts.ReadyTimeout, chromedp.WaitReady(req.WaitFor, chromedp.ByQuery))
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			f.logger.Debug().Str("url", req.URL).Str("selector", req.WaitFor).Msg("Ready selector did not appear, capturing page anyway")
		case err != nil:
			return nil, fmt.Errorf("failed waiting for %s: %w", req.WaitFor, err)
		}
	}

	if f.opts.SettleDelay > 0 {
		if err := chromedp.Run(runCtx, chromedp.Sleep(f.opts.SettleDelay)); err != nil {
			return nil, err
		}
	}

	var html, location string
	if err := chromedp.Run(runCtx,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("failed to capture page: %w", err)
	}

	return parseDocument(html, location)
}

// run executes actions with an optional timeout.
func (f *ChromeFetcher) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return chromedp.Run(ctx, actions...)
}

// Close shuts down the tab and the browser process.
func (f *ChromeFetcher) Close() error {
	f.cancelTab()
	f.cancelAlloc()
	return nil
}
