package crawler

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// maxFetchBytes bounds how much of a page we read
const maxFetchBytes = 2 << 20 // 2MB

// acceptLanguages contains common browser Accept-Language values
var acceptLanguages = []string{
	"ko-KR,ko;q=0.9,en-US;q=0.8",
	"ko-KR,ko;q=0.9",
	"ko,en-US;q=0.9,en;q=0.8",
}

// Fetcher performs bounded HTTP fetches with an identifying user agent.
// Expected failures (non-2xx, timeouts, network errors) come back as plain
// errors; callers treat them as a skipped page, never as a crash.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher with the given per-request timeout
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; BlogWiseBot/1.0)"
	}
	return &Fetcher{
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Get fetches a URL and returns the body, capped at maxFetchBytes
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	addBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read body from %s: %w", url, err)
	}
	return body, nil
}

// addBrowserHeaders makes requests look like a regular browser; some blog
// platforms reject bare clients
func addBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Connection", "keep-alive")
}
