package browser

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// Throttled limits the rate at which the wrapped fetcher loads pages.
type Throttled struct {
	next    Fetcher
	limiter *rate.Limiter
}

// NewThrottled wraps next so that at most ratePerSecond pages are loaded per
// second, with the given burst.
func NewThrottled(next Fetcher, ratePerSecond float64, burst int) *Throttled {
	if burst < 1 {
		burst = 1
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// Fetch waits for a token and then delegates to the wrapped fetcher.
func (t *Throttled) Fetch(ctx context.Context, req Request) (*goquery.Document, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.next.Fetch(ctx, req)
}

// Close closes the wrapped fetcher.
func (t *Throttled) Close() error {
	return t.next.Close()
}
