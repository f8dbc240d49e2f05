// Package revenue estimates the monetization potential of keywords.
// All functions are pure: the same (keyword, trendScore) pair always yields
// the same analysis, which keeps repeated pipeline runs stable.
package revenue

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// scoring constants, tuned so the theoretical best keyword lands near 100
const (
	trendBoostMax  = 0.2
	intentBonusMax = 1.6 // 1 + 0.3 action + 0.2 tokens + 0.1 specificity
)

// volumeMultipliers scale the CPC midpoint by search-demand tier
var volumeMultipliers = map[domain.SearchVolume]float64{
	domain.VolumeLow:      0.3,
	domain.VolumeMedium:   0.6,
	domain.VolumeHigh:     0.85,
	domain.VolumeVeryHigh: 1.0,
}

// competitionFactors deliberately punish head terms: a new publisher cannot
// rank for them, so specificity beats raw volume
var competitionFactors = map[domain.CompetitionLevel]float64{
	domain.CompetitionLow:    1.0,
	domain.CompetitionMedium: 0.45,
	domain.CompetitionHigh:   0.1,
}

// actionWords signal purchase or task intent
var actionWords = []string{
	"방법", "하는법", "신청", "가입", "비교", "추천", "후기", "조건", "자격",
	"혜택", "순위", "정리", "총정리", "금리", "가격", "비용",
}

var yearPattern = regexp.MustCompile(`20\d{2}`)

// specificityMarkers reward keywords that promise current, concrete answers
var specificityMarkers = []string{"무료", "최신", "최저", "즉시"}

// Analyzer scores keywords for revenue potential
type Analyzer struct{}

// NewAnalyzer creates a keyword analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// AnalyzeKeyword builds the full monetization profile for a keyword.
// trendScore is clamped to [0,100]; pass 50 when no trend signal is known.
func (a *Analyzer) AnalyzeKeyword(keyword string, trendScore float64) domain.KeywordAnalysis {
	keyword = strings.TrimSpace(keyword)
	n := matchNiche(keyword)
	midCPC := (n.cpcMin + n.cpcMax) / 2

	competition := EstimateCompetition(keyword)

	if trendScore < 0 {
		trendScore = 0
	}
	trendBoost := 1 + math.Min(trendScore, 100)/100*trendBoostMax

	raw := midCPC * volumeMultipliers[n.volume] * competitionFactors[competition] * trendBoost * intentBonus(keyword)

	// normalize by the theoretical maximum so only the best case saturates
	norm := maxMidCPC * 1.0 * 1.0 * (1 + trendBoostMax) * intentBonusMax
	score := int(math.Round(raw / norm * 100))
	if score < 1 {
		score = 1
	}
	if score > 100 {
		score = 100
	}

	return domain.KeywordAnalysis{
		Keyword:           keyword,
		EstimatedCPC:      midCPC,
		CompetitionLevel:  competition,
		SearchVolume:      n.volume,
		RevenuePotential:  score,
		SuggestedTitle:    suggestTitle(keyword, n.category),
		SuggestedCategory: n.category,
		LongTailVariants:  longTailVariants(keyword),
	}
}

// RankTopicsByRevenue analyzes every topic and returns analyses sorted by
// descending revenue potential. The input slice is not mutated.
func (a *Analyzer) RankTopicsByRevenue(topics []domain.TrendingTopic) []domain.KeywordAnalysis {
	analyses := make([]domain.KeywordAnalysis, 0, len(topics))
	for _, t := range topics {
		analyses = append(analyses, a.AnalyzeKeyword(t.Keyword, t.TrendScore))
	}
	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].RevenuePotential > analyses[j].RevenuePotential
	})
	return analyses
}

// EstimateCompetition tiers a keyword by specificity. Long, multi-token
// keywords are low competition; short head terms are high.
func EstimateCompetition(keyword string) domain.CompetitionLevel {
	tokens := len(strings.Fields(keyword))
	length := utf8.RuneCountInString(strings.ReplaceAll(keyword, " ", ""))

	switch {
	case tokens >= 3 || length >= 12:
		return domain.CompetitionLow
	case tokens == 2 || length >= 6:
		return domain.CompetitionMedium
	default:
		return domain.CompetitionHigh
	}
}

// intentBonus accumulates multipliers for intent and specificity signals
func intentBonus(keyword string) float64 {
	bonus := 1.0
	for _, w := range actionWords {
		if containsFold(keyword, w) {
			bonus += 0.3
			break
		}
	}
	tokens := len(strings.Fields(keyword))
	if tokens >= 3 {
		bonus += 0.1
	}
	if tokens >= 4 {
		bonus += 0.1
	}
	if yearPattern.MatchString(keyword) || hasAnyFold(keyword, specificityMarkers) {
		bonus += 0.1
	}
	return bonus
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func hasAnyFold(s string, subs []string) bool {
	for _, sub := range subs {
		if containsFold(s, sub) {
			return true
		}
	}
	return false
}
