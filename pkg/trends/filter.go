package trends

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

const maxRelatedKeywords = 10

// denylist matches transient or unmonetizable queries: weather, breaking
// news, live sports and similar
var denylist = []*regexp.Regexp{
	regexp.MustCompile(`날씨|미세먼지|기온`),
	regexp.MustCompile(`속보|breaking`),
	regexp.MustCompile(`실시간|생중계|중계|라이브`),
	regexp.MustCompile(`스코어|경기결과|하이라이트`),
	regexp.MustCompile(`사망|부고|사고\s*소식`),
}

// highValuePatterns mark categories advertisers pay well for
var highValuePatterns = []string{
	"대출", "보험", "카드", "투자", "주식", "재테크", "지원금", "부동산",
	"청약", "변호사", "연금", "환급",
}

// intentPatterns mark task or purchase intent
var intentPatterns = []string{
	"방법", "신청", "조건", "비교", "추천", "후기", "자격", "금리", "비용",
}

// isLowValue reports whether a keyword should be dropped before scoring
func isLowValue(keyword string) bool {
	k := strings.TrimSpace(keyword)
	if utf8.RuneCountInString(normalizeKey(k)) <= 2 {
		return true
	}
	lower := strings.ToLower(k)
	for _, re := range denylist {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// qualityScore is a 0-100 heuristic of monetization fit, independent of how
// popular the keyword currently is
func qualityScore(keyword string) float64 {
	lower := strings.ToLower(keyword)
	score := 30.0
	for _, p := range highValuePatterns {
		if strings.Contains(lower, p) {
			score += 40
			break
		}
	}
	for _, p := range intentPatterns {
		if strings.Contains(lower, p) {
			score += 20
			break
		}
	}
	for _, re := range denylist {
		if re.MatchString(lower) {
			score -= 50
			break
		}
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// normalizeKey produces the merge key: lowercase with whitespace and
// punctuation stripped
func normalizeKey(keyword string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(keyword) {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// mergeTopics collapses keywords that normalize to the same key. The merged
// copy keeps the max trend score and the union of related keywords.
func mergeTopics(topics []domain.TrendingTopic) []domain.TrendingTopic {
	index := make(map[string]int, len(topics))
	merged := make([]domain.TrendingTopic, 0, len(topics))

	for _, t := range topics {
		key := normalizeKey(t.Keyword)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			cp := t
			cp.RelatedKeywords = capRelated(append([]string(nil), t.RelatedKeywords...))
			merged = append(merged, cp)
			continue
		}
		if t.TrendScore > merged[i].TrendScore {
			merged[i].TrendScore = t.TrendScore
			merged[i].Source = t.Source
		}
		merged[i].RelatedKeywords = capRelated(unionKeywords(merged[i].RelatedKeywords, t.RelatedKeywords))
	}
	return merged
}

func unionKeywords(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	out := append([]string(nil), a...)
	for _, k := range a {
		seen[normalizeKey(k)] = struct{}{}
	}
	for _, k := range b {
		nk := normalizeKey(k)
		if _, ok := seen[nk]; ok {
			continue
		}
		seen[nk] = struct{}{}
		out = append(out, k)
	}
	return out
}

func capRelated(keywords []string) []string {
	if len(keywords) > maxRelatedKeywords {
		return keywords[:maxRelatedKeywords]
	}
	return keywords
}
