// Package pipeline orchestrates one full run: trend aggregation, revenue
// ranking, topic selection, reference gathering, generation, the quality gate
// and persistence. A run degrades per topic, never as a whole.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/cluster"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/config"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/crawler"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/generator"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/quality"
)

// TrendSource aggregates trending topics from all configured sources
type TrendSource interface {
	AllTrends(ctx context.Context) []domain.TrendingTopic
}

// Ranker orders topics by revenue potential
type Ranker interface {
	RankTopicsByRevenue(topics []domain.TrendingTopic) []domain.KeywordAnalysis
}

// Searcher gathers reference content for a keyword
type Searcher interface {
	CrawlForKeyword(ctx context.Context, keyword string, maxResults int) []domain.CrawledContent
}

// BenchmarkCrawler pulls content from configured benchmark channels
type BenchmarkCrawler interface {
	CrawlSource(ctx context.Context, src crawler.Source) []domain.CrawledContent
}

// Generator writes post drafts
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, req generator.Request) (*generator.Result, error)
}

// PostStore persists generated posts
type PostStore interface {
	CreatePost(ctx context.Context, post *domain.GeneratedPost) error
	FindExistingKeywords(ctx context.Context, limit int) ([]string, error)
}

// CategoryStore resolves category names to ids
type CategoryStore interface {
	FindOrCreateCategory(ctx context.Context, name string) (int64, error)
}

// Params wires pipeline dependencies
type Params struct {
	Trends     TrendSource
	Ranker     Ranker
	Clusters   *cluster.Builder
	Searcher   Searcher
	Crawler    BenchmarkCrawler
	Sources    []crawler.Source
	Generator  Generator
	Posts      PostStore
	Categories CategoryStore
	Config     config.PipelineConfig
	Rand       *rand.Rand // fixed seed in tests, nil for time-seeded
}

// Pipeline runs the topic-to-post flow
type Pipeline struct {
	trends     TrendSource
	ranker     Ranker
	clusters   *cluster.Builder
	searcher   Searcher
	crawler    BenchmarkCrawler
	sources    []crawler.Source
	generator  Generator
	posts      PostStore
	categories CategoryStore
	cfg        config.PipelineConfig
	rnd        *rand.Rand
}

// New creates a pipeline
func New(p Params) *Pipeline {
	if p.Clusters == nil {
		p.Clusters = cluster.NewBuilder()
	}
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // selection jitter, not crypto
	}
	if p.Config.BenchmarkTimeout == 0 {
		p.Config.BenchmarkTimeout = 20 * time.Second
	}
	if p.Config.BenchmarkResults == 0 {
		p.Config.BenchmarkResults = 3
	}
	if p.Config.CorpusLimit == 0 {
		p.Config.CorpusLimit = 200
	}

	return &Pipeline{
		trends:     p.Trends,
		ranker:     p.Ranker,
		clusters:   p.Clusters,
		searcher:   p.Searcher,
		crawler:    p.Crawler,
		sources:    p.Sources,
		generator:  p.Generator,
		posts:      p.Posts,
		categories: p.Categories,
		cfg:        p.Config,
		rnd:        p.Rand,
	}
}

// Run executes one pipeline pass producing up to count posts.
// The result is always non-nil; per-topic failures accumulate in Errors.
func (p *Pipeline) Run(ctx context.Context, count int) *domain.RunResult {
	result := &domain.RunResult{StartedAt: time.Now()}
	defer func() { result.FinishedAt = time.Now() }()

	if count < 1 {
		count = 1
	}

	// nothing downstream works without a generation service, stop before
	// spending any crawl budget
	if !p.generator.Configured() {
		result.Errors = append(result.Errors, "generation service not configured")
		lgr.Printf("[ERROR] generation service not configured, aborting run")
		return result
	}

	topics := p.trends.AllTrends(ctx)
	if len(topics) == 0 {
		result.Errors = append(result.Errors, "no trending topics from any source")
		lgr.Printf("[WARN] no trending topics from any source")
		return result
	}
	lgr.Printf("[INFO] aggregated %d trending topics", len(topics))

	ranked := p.ranker.RankTopicsByRevenue(topics)

	existing, err := p.posts.FindExistingKeywords(ctx, p.cfg.CorpusLimit)
	if err != nil {
		// dedupe is best-effort, a fresh database has nothing to match anyway
		result.Errors = append(result.Errors, fmt.Sprintf("load existing keywords: %v", err))
		lgr.Printf("[WARN] failed to load existing keywords: %v", err)
	}

	pool := dropCovered(ranked, existing)
	if len(pool) == 0 {
		result.Errors = append(result.Errors, "all candidate topics already covered")
		lgr.Printf("[WARN] all %d candidate topics already covered", len(ranked))
		return result
	}

	pool = p.diversify(pool)
	selected := p.pickWeighted(pool, count)
	lgr.Printf("[INFO] selected %d of %d candidate topics", len(selected), len(pool))

	benchmarks := p.crawlBenchmarks(ctx)

	for _, analysis := range selected {
		topicRes := p.processTopic(ctx, analysis, benchmarks)
		result.Topics = append(result.Topics, topicRes)
		if topicRes.Generated {
			result.GeneratedCount++
		}
		if topicRes.Err != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", topicRes.Keyword, topicRes.Err))
		}
	}

	lgr.Printf("[INFO] run finished, generated %d posts, %d errors", result.GeneratedCount, len(result.Errors))
	return result
}

// crawlBenchmarks collects content from configured benchmark channels,
// best-effort and shared by every topic in the run
func (p *Pipeline) crawlBenchmarks(ctx context.Context) []domain.CrawledContent {
	if p.crawler == nil || len(p.sources) == 0 {
		return nil
	}

	var all []domain.CrawledContent
	for _, src := range p.sources {
		items := p.crawler.CrawlSource(ctx, src)
		all = append(all, items...)
	}
	lgr.Printf("[INFO] crawled %d benchmark items from %d sources", len(all), len(p.sources))
	return all
}

// processTopic runs the gather-generate-gate-persist flow for one topic
func (p *Pipeline) processTopic(ctx context.Context, analysis domain.KeywordAnalysis, benchmarks []domain.CrawledContent) domain.TopicResult {
	topicRes := domain.TopicResult{
		Keyword: analysis.Keyword,
		Title:   analysis.SuggestedTitle,
	}

	refs := p.gatherReferences(ctx, analysis.Keyword, benchmarks)
	topicRes.ReferenceCnt = len(refs)
	if len(refs) == 0 {
		lgr.Printf("[WARN] no reference content for %q, generating from model knowledge", analysis.Keyword)
	}

	genRes, err := p.generator.Generate(ctx, generator.Request{
		Analysis:        analysis,
		Title:           analysis.SuggestedTitle,
		References:      refs,
		TargetWordCount: p.cfg.TargetWordCount,
	})
	if err != nil {
		topicRes.Err = fmt.Sprintf("generate: %v", err)
		lgr.Printf("[ERROR] generation failed for %q: %v", analysis.Keyword, err)
		return topicRes
	}
	topicRes.Generated = true

	qs := quality.AnalyzeContentQuality(genRes.Content, analysis.Keyword, p.cfg.TargetWordCount)
	topicRes.Quality = &qs
	if !qs.Passed {
		lgr.Printf("[WARN] draft for %q scored %d: %v", analysis.Keyword, qs.Overall, qs.Issues)
		if p.cfg.StrictQuality {
			topicRes.Generated = false
			topicRes.Err = fmt.Sprintf("quality gate: scored %d of 100", qs.Overall)
			return topicRes
		}
	}

	categoryID, err := p.categories.FindOrCreateCategory(ctx, analysis.SuggestedCategory)
	if err != nil {
		topicRes.Generated = false
		topicRes.Err = fmt.Sprintf("resolve category: %v", err)
		return topicRes
	}

	post := &domain.GeneratedPost{
		Keyword:       analysis.Keyword,
		Title:         analysis.SuggestedTitle,
		Slug:          makeSlug(analysis.Keyword),
		Content:       genRes.Content,
		CategoryID:    categoryID,
		Category:      analysis.SuggestedCategory,
		Model:         genRes.Model,
		InputTokens:   genRes.PromptTokens,
		OutputTokens:  genRes.CompletionTokens,
		QualityScore:  qs.Overall,
		QualityPassed: qs.Passed,
	}
	if err := p.posts.CreatePost(ctx, post); err != nil {
		topicRes.Generated = false
		topicRes.Err = fmt.Sprintf("persist post: %v", err)
		lgr.Printf("[ERROR] failed to persist post for %q: %v", analysis.Keyword, err)
		return topicRes
	}

	topicRes.PostID = post.ID
	lgr.Printf("[INFO] published post %d for %q, quality %d", post.ID, analysis.Keyword, qs.Overall)
	return topicRes
}

// gatherReferences runs the search cascade under the benchmark budget and
// merges matching benchmark channel items. A timed-out search contributes
// nothing, the topic proceeds without references.
func (p *Pipeline) gatherReferences(ctx context.Context, keyword string, benchmarks []domain.CrawledContent) []domain.CrawledContent {
	searchCtx, cancel := context.WithTimeout(ctx, p.cfg.BenchmarkTimeout)
	defer cancel()

	refs := p.searcher.CrawlForKeyword(searchCtx, keyword, p.cfg.BenchmarkResults)

	for _, item := range benchmarks {
		if len(refs) >= p.cfg.BenchmarkResults*2 {
			break
		}
		if matchesKeyword(item, keyword) {
			refs = append(refs, item)
		}
	}
	return refs
}
