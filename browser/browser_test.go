package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher records requests and returns an empty document
type countingFetcher struct {
	requests []Request
	closed   bool
}

func (c *countingFetcher) Fetch(ctx context.Context, req Request) (*goquery.Document, error) {
	c.requests = append(c.requests, req)
	return parseDocument("<html></html>", req.URL)
}

func (c *countingFetcher) Close() error {
	c.closed = true
	return nil
}

// TestHTTPFetcher_Fetch verifies the page is parsed and its URL recorded
func TestHTTPFetcher_Fetch(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, `<html><body><h1>Hello</h1><a href="/next/">next</a></body></html>`)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, "replidata-test/1.0", zerolog.Nop())

	doc, err := fetcher.Fetch(context.Background(), Request{
		URL:     server.URL + "/page/",
		WaitFor: "h1",
		Clicks:  []string{"#ignored"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello", doc.Find("h1").Text())
	require.NotNil(t, doc.Url)
	assert.Equal(t, server.URL+"/page/", doc.Url.String())
	assert.Equal(t, "replidata-test/1.0", userAgent)
	assert.NoError(t, fetcher.Close())
}

// TestHTTPFetcher_StatusError verifies non-200 responses are errors
func TestHTTPFetcher_StatusError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, "", zerolog.Nop())

	_, err := fetcher.Fetch(context.Background(), Request{URL: server.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

// TestHTTPFetcher_CancelledContext verifies cancellation is honoured
func TestHTTPFetcher_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(5*time.Second, "", zerolog.Nop()).Fetch(ctx, Request{URL: server.URL})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestThrottled_Delegates verifies requests and Close pass through
func TestThrottled_Delegates(t *testing.T) {
	next := &countingFetcher{}
	throttled := NewThrottled(next, 1000, 0)

	for i := 0; i < 3; i++ {
		_, err := throttled.Fetch(context.Background(), Request{URL: fmt.Sprintf("https://example.org/%d", i)})
		require.NoError(t, err)
	}

	require.Len(t, next.requests, 3)
	assert.Equal(t, "https://example.org/2", next.requests[2].URL)

	require.NoError(t, throttled.Close())
	assert.True(t, next.closed)
}

// TestThrottled_WaitHonoursContext verifies a cancelled wait does not reach
// the wrapped fetcher
func TestThrottled_WaitHonoursContext(t *testing.T) {
	next := &countingFetcher{}
	throttled := NewThrottled(next, 0.001, 1)

	_, err := throttled.Fetch(context.Background(), Request{URL: "https://example.org/first"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = throttled.Fetch(ctx, Request{URL: "https://example.org/second"})
	assert.Error(t, err)
	assert.Len(t, next.requests, 1)
}

// TestNew_HTTPEngine verifies the factory wraps the HTTP fetcher
func TestNew_HTTPEngine(t *testing.T) {
	fetcher, err := New(context.Background(), Options{Engine: EngineHTTP, RatePerSecond: 2}, zerolog.Nop())
	require.NoError(t, err)

	_, ok := fetcher.(*Throttled)
	assert.True(t, ok, "should be throttled when a rate is set")

	fetcher, err = New(context.Background(), Options{Engine: EngineHTTP}, zerolog.Nop())
	require.NoError(t, err)
	_, ok = fetcher.(*HTTPFetcher)
	assert.True(t, ok, "should not be throttled without a rate")
}

// TestNew_UnsupportedEngine verifies unknown engines are rejected
func TestNew_UnsupportedEngine(t *testing.T) {
	_, err := New(context.Background(), Options{Engine: "lynx"}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnsupportedEngine)
}

// TestParseDocument_InvalidLocation verifies a bad location leaves Url unset
func TestParseDocument_InvalidLocation(t *testing.T) {
	doc, err := parseDocument("<p>x</p>", "://bad")
	require.NoError(t, err)
	assert.Nil(t, doc.Url)
}
