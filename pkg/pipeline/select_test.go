package pipeline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

func analysesPool(keywords ...string) []domain.KeywordAnalysis {
	pool := make([]domain.KeywordAnalysis, len(keywords))
	for i, kw := range keywords {
		pool[i] = domain.KeywordAnalysis{Keyword: kw, SuggestedCategory: "금융", RevenuePotential: 100 - i}
	}
	return pool
}

func TestDropCovered(t *testing.T) {
	pool := analysesPool("전세 대출 조건", "제주 맛집 추천", "신용카드 추천")

	t.Run("existing shorter key covers longer candidate", func(t *testing.T) {
		kept := dropCovered(pool, []string{"전세대출"})
		require.Len(t, kept, 2)
		assert.Equal(t, "제주 맛집 추천", kept[0].Keyword)
	})

	t.Run("existing longer key covers shorter candidate", func(t *testing.T) {
		kept := dropCovered(pool, []string{"2026 신용카드 추천 순위"})
		require.Len(t, kept, 2)
		for _, a := range kept {
			assert.NotEqual(t, "신용카드 추천", a.Keyword)
		}
	})

	t.Run("spacing and case ignored", func(t *testing.T) {
		kept := dropCovered(analysesPool("IT 자격증"), []string{"it자격증"})
		assert.Empty(t, kept)
	})

	t.Run("no existing keys keeps everything", func(t *testing.T) {
		kept := dropCovered(pool, nil)
		assert.Len(t, kept, len(pool))
	})
}

func TestPipeline_PickWeighted(t *testing.T) {
	p := New(Params{Rand: rand.New(rand.NewSource(42))}) //nolint:gosec // fixed seed

	t.Run("favors top ranks but reaches the tail", func(t *testing.T) {
		pool := analysesPool("k1", "k2", "k3", "k4", "k5")

		counts := make(map[string]int)
		for i := 0; i < 3000; i++ {
			picked := p.pickWeighted(pool, 1)
			require.Len(t, picked, 1)
			counts[picked[0].Keyword]++
		}

		assert.Greater(t, counts["k1"], counts["k5"]*2, "rank-1 weight 5 vs rank-5 weight 1")
		for _, kw := range []string{"k1", "k2", "k3", "k4", "k5"} {
			assert.Positive(t, counts[kw], "every candidate reachable: %s", kw)
		}
	})

	t.Run("without replacement", func(t *testing.T) {
		pool := analysesPool("k1", "k2", "k3", "k4")
		picked := p.pickWeighted(pool, 3)
		require.Len(t, picked, 3)

		seen := make(map[string]bool)
		for _, a := range picked {
			assert.False(t, seen[a.Keyword])
			seen[a.Keyword] = true
		}
	})

	t.Run("count covering pool returns all", func(t *testing.T) {
		pool := analysesPool("k1", "k2")
		assert.Len(t, p.pickWeighted(pool, 5), 2)
	})
}

func TestPipeline_Diversify(t *testing.T) {
	p := New(Params{Rand: rand.New(rand.NewSource(1))}) //nolint:gosec // fixed seed

	pool := []domain.KeywordAnalysis{
		{Keyword: "전세 대출", SuggestedCategory: "금융", RevenuePotential: 90},
		{Keyword: "전세 대출 조건", SuggestedCategory: "금융", RevenuePotential: 85},
		{Keyword: "전세 대출 금리", SuggestedCategory: "금융", RevenuePotential: 80},
		{Keyword: "다이어트 식단", SuggestedCategory: "건강", RevenuePotential: 40},
	}

	ordered := p.diversify(pool)
	require.Len(t, ordered, 4)

	// one representative per cluster leads, remainder keeps rank order
	assert.Equal(t, "전세 대출", ordered[0].Keyword)
	assert.Equal(t, "다이어트 식단", ordered[1].Keyword)
	assert.Equal(t, "전세 대출 조건", ordered[2].Keyword)
	assert.Equal(t, "전세 대출 금리", ordered[3].Keyword)
}

func TestMakeSlug(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{"전세 대출 조건", "전세-대출-조건"},
		{"  Hello, World!  ", "hello-world"},
		{"2026 연말정산 환급", "2026-연말정산-환급"},
		{"소상공인   대출", "소상공인-대출"},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, makeSlug(tt.keyword))
		})
	}
}

func TestMatchesKeyword(t *testing.T) {
	item := domain.CrawledContent{Title: "전세대출 금리 비교 가이드", Content: "은행별 금리를 비교합니다"}
	assert.True(t, matchesKeyword(item, "전세 대출"))
	assert.True(t, matchesKeyword(item, "금리 비교"))
	assert.False(t, matchesKeyword(item, "자동차 보험"))
	assert.False(t, matchesKeyword(item, ""))
}
