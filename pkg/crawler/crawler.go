// Package crawler normalizes heterogeneous web sources into common content
// records. Platform adapters are registered in a dispatch map so adding a
// platform is additive; every network failure degrades to an empty result.
package crawler

import (
	"context"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// strictPolicy strips all markup; safe for concurrent use
var strictPolicy = bluemonday.StrictPolicy()

// stripTags removes every HTML tag from a fragment
func stripTags(html string) string {
	return strictPolicy.Sanitize(html)
}

// Platform tags the adapter used for a source
type Platform string

// supported platforms
const (
	PlatformBlog    Platform = "blog"
	PlatformVideo   Platform = "video"
	PlatformGeneric Platform = "generic"
)

// Source describes one crawl target
type Source struct {
	URL      string
	Platform Platform
	MaxItems int
}

// content record caps, bounding memory and downstream token costs
const (
	maxContentChars = 50000
	maxImages       = 20
)

// adapter turns one platform's pages into content records
type adapter interface {
	crawl(ctx context.Context, url string, maxItems int) []domain.CrawledContent
}

// Config holds crawler settings
type Config struct {
	UserAgent     string
	Timeout       time.Duration
	YouTubeAPIKey string
}

// Crawler dispatches crawl requests to platform adapters
type Crawler struct {
	adapters map[Platform]adapter
	fallback adapter
}

// New creates a crawler with all platform adapters registered
func New(cfg Config) *Crawler {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	fetcher := NewFetcher(cfg.UserAgent, cfg.Timeout)

	generic := newGenericAdapter(fetcher)
	return &Crawler{
		adapters: map[Platform]adapter{
			PlatformBlog:    newBlogAdapter(fetcher),
			PlatformVideo:   newVideoAdapter(fetcher, cfg.YouTubeAPIKey),
			PlatformGeneric: generic,
		},
		fallback: generic,
	}
}

// CrawlSource fetches and normalizes content from one source. A failed fetch
// yields an empty slice, never an error.
func (c *Crawler) CrawlSource(ctx context.Context, src Source) []domain.CrawledContent {
	if src.MaxItems <= 0 {
		src.MaxItems = 5
	}

	a, ok := c.adapters[src.Platform]
	if !ok {
		lgr.Printf("[WARN] unknown platform %q, using generic adapter", src.Platform)
		a = c.fallback
	}

	items := a.crawl(ctx, src.URL, src.MaxItems)
	for i := range items {
		items[i] = capContent(items[i])
	}
	lgr.Printf("[DEBUG] crawled %d items from %s (%s)", len(items), src.URL, src.Platform)
	return items
}

// capContent enforces the content and image caps on a record
func capContent(c domain.CrawledContent) domain.CrawledContent {
	if len([]rune(c.Content)) > maxContentChars {
		c.Content = string([]rune(c.Content)[:maxContentChars])
	}
	c.Images = dedupeImages(c.Images)
	return c
}

// dedupeImages removes duplicate URLs preserving order, capped at maxImages
func dedupeImages(images []string) []string {
	if len(images) == 0 {
		return images
	}
	seen := make(map[string]struct{}, len(images))
	out := make([]string, 0, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		if _, ok := seen[img]; ok {
			continue
		}
		seen[img] = struct{}{}
		out = append(out, img)
		if len(out) >= maxImages {
			break
		}
	}
	return out
}
