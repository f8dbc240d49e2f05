package trends

import (
	"context"
	"time"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// curatedKeywords is a hand-picked high-value pool. It keeps the pipeline
// useful when no search-API credentials are configured at all.
var curatedKeywords = []seasonalEntry{
	{"소상공인 대출 조건", "금융", "고단가 금융 키워드"},
	{"무직자 소액 대출", "금융", "고단가 금융 키워드"},
	{"자동차보험 다이렉트 비교", "보험", "고단가 보험 키워드"},
	{"암보험 가입 나이", "보험", "고단가 보험 키워드"},
	{"신용카드 발급 조건", "금융", "고단가 금융 키워드"},
	{"ISA 계좌 장단점", "재테크", "고단가 재테크 키워드"},
	{"전세보증보험 가입 방법", "부동산", "고단가 부동산 키워드"},
	{"개인파산 비용", "법률", "고단가 법률 키워드"},
	{"국민연금 수령액 조회", "금융", "고단가 금융 키워드"},
	{"근로장려금 지급일", "정책지원", "고단가 정책 키워드"},
}

const curatedBaseScore = 55.0

// CuratedSource supplies the supplementary keyword pool; the aggregator wires
// it in only when no credentialed secondary source is available
type CuratedSource struct{}

// NewCuratedSource creates the curated fallback source
func NewCuratedSource() *CuratedSource {
	return &CuratedSource{}
}

// Name identifies the source in logs
func (s *CuratedSource) Name() string { return "curated" }

// Fetch returns the static curated pool
func (s *CuratedSource) Fetch(_ context.Context) ([]domain.TrendingTopic, error) {
	now := time.Now()
	topics := make([]domain.TrendingTopic, 0, len(curatedKeywords))
	for _, e := range curatedKeywords {
		topics = append(topics, domain.TrendingTopic{
			Keyword:     e.keyword,
			Source:      domain.SourceCurated,
			Category:    e.category,
			TrendScore:  curatedBaseScore,
			FetchedAt:   now,
			KeywordType: domain.KeywordEvergreen,
			Reason:      e.reason,
		})
	}
	return topics, nil
}
