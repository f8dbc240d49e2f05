package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/config"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/generator"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/revenue"
)

type stubTrends struct {
	topics []domain.TrendingTopic
	called bool
}

func (s *stubTrends) AllTrends(_ context.Context) []domain.TrendingTopic {
	s.called = true
	return s.topics
}

type stubSearcher struct {
	fn func(ctx context.Context, keyword string, maxResults int) []domain.CrawledContent
}

func (s *stubSearcher) CrawlForKeyword(ctx context.Context, keyword string, maxResults int) []domain.CrawledContent {
	if s.fn == nil {
		return nil
	}
	return s.fn(ctx, keyword, maxResults)
}

type stubGenerator struct {
	configured bool
	fn         func(req generator.Request) (*generator.Result, error)
}

func (s *stubGenerator) Configured() bool { return s.configured }

func (s *stubGenerator) Generate(_ context.Context, req generator.Request) (*generator.Result, error) {
	return s.fn(req)
}

type stubPosts struct {
	mu       sync.Mutex
	existing []string
	saved    []*domain.GeneratedPost
	saveErr  error
}

func (s *stubPosts) CreatePost(_ context.Context, post *domain.GeneratedPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	post.ID = int64(len(s.saved) + 1)
	s.saved = append(s.saved, post)
	return nil
}

func (s *stubPosts) FindExistingKeywords(_ context.Context, _ int) ([]string, error) {
	return s.existing, nil
}

type stubCategories struct{}

func (s *stubCategories) FindOrCreateCategory(_ context.Context, _ string) (int64, error) {
	return 1, nil
}

// goodDraft builds markdown that clears the quality gate for the keyword
func goodDraft(keyword string) string {
	var sb strings.Builder
	sb.WriteString("# " + keyword + " 총정리\n\n")
	filler := strings.Repeat("설명 단어 ", 20)
	sb.WriteString(strings.TrimSpace(filler) + "입니다.\n\n")
	sb.WriteString("## 신청 조건\n\n")
	sb.WriteString(keyword + " 기준 금액은 최대 5,000만원이며 기간은 2년입니다. ")
	sb.WriteString(strings.TrimSpace(filler) + "입니다.\n\n")
	sb.WriteString("## 주의 사항\n\n")
	sb.WriteString(strings.TrimSpace(filler) + "입니다. ")
	sb.WriteString(strings.TrimSpace(filler) + "입니다.\n\n")
	sb.WriteString("자세한 조건은 공식 사이트에서 확인해보세요.\n")
	return sb.String()
}

func newTestPipeline(t *testing.T, p Params) *Pipeline {
	t.Helper()
	if p.Ranker == nil {
		p.Ranker = revenue.NewAnalyzer()
	}
	if p.Searcher == nil {
		p.Searcher = &stubSearcher{}
	}
	if p.Posts == nil {
		p.Posts = &stubPosts{}
	}
	if p.Categories == nil {
		p.Categories = &stubCategories{}
	}
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewSource(1)) //nolint:gosec // deterministic test selection
	}
	return New(p)
}

func TestPipeline_Run(t *testing.T) {
	posts := &stubPosts{}
	gen := &stubGenerator{
		configured: true,
		fn: func(req generator.Request) (*generator.Result, error) {
			return &generator.Result{
				Content:          goodDraft(req.Analysis.Keyword),
				Model:            "test-model",
				PromptTokens:     100,
				CompletionTokens: 800,
			}, nil
		},
	}
	searcher := &stubSearcher{fn: func(_ context.Context, keyword string, _ int) []domain.CrawledContent {
		return []domain.CrawledContent{{Title: keyword + " 안내", Content: "참고 본문"}}
	}}

	p := newTestPipeline(t, Params{
		Trends: &stubTrends{topics: []domain.TrendingTopic{
			{Keyword: "전세 대출 조건", TrendScore: 80, Source: domain.SourceCurated},
			{Keyword: "제주 맛집 추천", TrendScore: 60, Source: domain.SourceCurated},
		}},
		Searcher:  searcher,
		Generator: gen,
		Posts:     posts,
		Config:    config.PipelineConfig{TargetWordCount: 80, BenchmarkTimeout: time.Second},
	})

	res := p.Run(context.Background(), 2)
	require.NotNil(t, res)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.GeneratedCount)
	require.Len(t, res.Topics, 2)

	for _, topic := range res.Topics {
		assert.True(t, topic.Generated)
		assert.NotZero(t, topic.PostID)
		assert.Equal(t, 1, topic.ReferenceCnt)
		require.NotNil(t, topic.Quality)
	}

	require.Len(t, posts.saved, 2)
	assert.Equal(t, "test-model", posts.saved[0].Model)
	assert.NotEmpty(t, posts.saved[0].Slug)
	assert.False(t, res.FinishedAt.Before(res.StartedAt))
}

func TestPipeline_RunFailFastWhenUnconfigured(t *testing.T) {
	trends := &stubTrends{topics: []domain.TrendingTopic{{Keyword: "전세 대출"}}}
	p := newTestPipeline(t, Params{
		Trends:    trends,
		Generator: &stubGenerator{configured: false},
	})

	res := p.Run(context.Background(), 1)
	require.NotNil(t, res)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "not configured")
	assert.Empty(t, res.Topics)
	assert.False(t, trends.called, "no aggregation before the configuration check")
}

func TestPipeline_RunSkipsCoveredTopics(t *testing.T) {
	posts := &stubPosts{existing: []string{"전세대출"}}
	gen := &stubGenerator{
		configured: true,
		fn: func(req generator.Request) (*generator.Result, error) {
			return &generator.Result{Content: goodDraft(req.Analysis.Keyword)}, nil
		},
	}

	p := newTestPipeline(t, Params{
		Trends: &stubTrends{topics: []domain.TrendingTopic{
			{Keyword: "전세 대출 조건", TrendScore: 90, Source: domain.SourceCurated},
			{Keyword: "제주 맛집 추천", TrendScore: 50, Source: domain.SourceCurated},
		}},
		Generator: gen,
		Posts:     posts,
		Config:    config.PipelineConfig{TargetWordCount: 80},
	})

	res := p.Run(context.Background(), 2)
	require.Len(t, res.Topics, 1, "covered keyword dropped from the pool")
	assert.Equal(t, "제주 맛집 추천", res.Topics[0].Keyword)
}

func TestPipeline_RunSearchTimeoutYieldsNoReferences(t *testing.T) {
	searcher := &stubSearcher{fn: func(ctx context.Context, _ string, _ int) []domain.CrawledContent {
		<-ctx.Done() // budget expires before any result
		return nil
	}}
	gen := &stubGenerator{
		configured: true,
		fn: func(req generator.Request) (*generator.Result, error) {
			assert.Empty(t, req.References)
			return &generator.Result{Content: goodDraft(req.Analysis.Keyword)}, nil
		},
	}

	p := newTestPipeline(t, Params{
		Trends:    &stubTrends{topics: []domain.TrendingTopic{{Keyword: "전세 대출 조건", TrendScore: 80, Source: domain.SourceCurated}}},
		Searcher:  searcher,
		Generator: gen,
		Config:    config.PipelineConfig{TargetWordCount: 80, BenchmarkTimeout: 50 * time.Millisecond},
	})

	res := p.Run(context.Background(), 1)
	require.Len(t, res.Topics, 1)
	assert.True(t, res.Topics[0].Generated, "timeout degrades to zero references, not failure")
	assert.Zero(t, res.Topics[0].ReferenceCnt)
	assert.Equal(t, 1, res.GeneratedCount)
}

func TestPipeline_RunCollectsPerTopicErrors(t *testing.T) {
	gen := &stubGenerator{
		configured: true,
		fn: func(req generator.Request) (*generator.Result, error) {
			if req.Analysis.Keyword == "전세 대출 조건" {
				return nil, fmt.Errorf("service unavailable")
			}
			return &generator.Result{Content: goodDraft(req.Analysis.Keyword)}, nil
		},
	}

	p := newTestPipeline(t, Params{
		Trends: &stubTrends{topics: []domain.TrendingTopic{
			{Keyword: "전세 대출 조건", TrendScore: 80, Source: domain.SourceCurated},
			{Keyword: "제주 맛집 추천", TrendScore: 50, Source: domain.SourceCurated},
		}},
		Generator: gen,
		Config:    config.PipelineConfig{TargetWordCount: 80},
	})

	res := p.Run(context.Background(), 2)
	require.Len(t, res.Topics, 2)
	assert.Equal(t, 1, res.GeneratedCount, "one failure does not abort the batch")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "전세 대출 조건")
	assert.Contains(t, res.Errors[0], "service unavailable")
}

func TestPipeline_RunStrictQualityGate(t *testing.T) {
	posts := &stubPosts{}
	gen := &stubGenerator{
		configured: true,
		fn: func(_ generator.Request) (*generator.Result, error) {
			return &generator.Result{Content: "너무 짧은 글"}, nil
		},
	}

	p := newTestPipeline(t, Params{
		Trends:    &stubTrends{topics: []domain.TrendingTopic{{Keyword: "전세 대출 조건", TrendScore: 80, Source: domain.SourceCurated}}},
		Generator: gen,
		Posts:     posts,
		Config:    config.PipelineConfig{TargetWordCount: 1500, StrictQuality: true},
	})

	res := p.Run(context.Background(), 1)
	require.Len(t, res.Topics, 1)
	assert.False(t, res.Topics[0].Generated)
	assert.Contains(t, res.Topics[0].Err, "quality gate")
	assert.Empty(t, posts.saved)
	assert.Zero(t, res.GeneratedCount)
}

func TestPipeline_RunAdvisoryQualityGate(t *testing.T) {
	posts := &stubPosts{}
	gen := &stubGenerator{
		configured: true,
		fn: func(_ generator.Request) (*generator.Result, error) {
			return &generator.Result{Content: "너무 짧은 글"}, nil
		},
	}

	p := newTestPipeline(t, Params{
		Trends:    &stubTrends{topics: []domain.TrendingTopic{{Keyword: "전세 대출 조건", TrendScore: 80, Source: domain.SourceCurated}}},
		Generator: gen,
		Posts:     posts,
		Config:    config.PipelineConfig{TargetWordCount: 1500},
	})

	res := p.Run(context.Background(), 1)
	require.Len(t, res.Topics, 1)
	assert.True(t, res.Topics[0].Generated, "advisory gate publishes with a warning")
	require.Len(t, posts.saved, 1)
	assert.False(t, posts.saved[0].QualityPassed)
}
