// Package trends aggregates topic candidates from multiple independent
// sources and merges them into a single deduplicated, quality-weighted list.
package trends

import (
	"context"
	"sort"
	"sync"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// Source supplies topic candidates; implementations must be safe for
// concurrent use
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.TrendingTopic, error)
}

// Aggregator fans out to all configured sources and merges the results
type Aggregator struct {
	sources []Source
}

// NewAggregator creates an aggregator over the given sources
func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{sources: sources}
}

// Names reports the configured source names, in wiring order
func (a *Aggregator) Names() []string {
	names := make([]string, len(a.sources))
	for i, src := range a.sources {
		names[i] = src.Name()
	}
	return names
}

// AllTrends fetches from every source in parallel, drops low-value keywords,
// merges case/spacing duplicates and orders the result by blended quality.
// A failing source contributes nothing; it never aborts the aggregate.
func (a *Aggregator) AllTrends(ctx context.Context) []domain.TrendingTopic {
	var mu sync.Mutex
	var collected []domain.TrendingTopic

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range a.sources {
		g.Go(func() error {
			topics, err := src.Fetch(gctx)
			if err != nil {
				lgr.Printf("[WARN] trend source %s failed: %v", src.Name(), err)
				return nil // fault-isolated, other sources proceed
			}
			lgr.Printf("[DEBUG] trend source %s returned %d topics", src.Name(), len(topics))
			mu.Lock()
			collected = append(collected, topics...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	filtered := make([]domain.TrendingTopic, 0, len(collected))
	for _, t := range collected {
		if isLowValue(t.Keyword) {
			lgr.Printf("[DEBUG] dropping low-value keyword: %s", t.Keyword)
			continue
		}
		filtered = append(filtered, t)
	}

	merged := mergeTopics(filtered)

	// raw popularity is deliberately subordinate to monetization fit
	sort.SliceStable(merged, func(i, j int) bool {
		return blendedScore(merged[i]) > blendedScore(merged[j])
	})

	lgr.Printf("[INFO] aggregated %d topics from %d sources (%d before merge)",
		len(merged), len(a.sources), len(collected))
	return merged
}

// blendedScore weighs the quality heuristic over the raw trend signal
func blendedScore(t domain.TrendingTopic) float64 {
	return t.TrendScore*0.3 + qualityScore(t.Keyword)*0.7
}
