// Package quality evaluates generated drafts for structure, keyword density,
// readability and concreteness. Scoring is a pure function over text: the
// same draft always gets the same verdict.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// scoring thresholds
const (
	passThreshold    = 60
	wordCountLowerK  = 0.7
	wordCountUpperK  = 1.5
	densityHealthyLo = 1.0
	densityHealthyHi = 4.0
	ctaWindowChars   = 500
)

// penalty caps per category
const (
	maxWordCountPenalty   = 25
	maxStructurePenalty   = 20
	maxDensityPenalty     = 15
	maxReadabilityPenalty = 15
	ctaPenalty            = 10
	concreteDataPenalty   = 10
	sectionBonus          = 5
)

var (
	codeBlockPattern  = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern = regexp.MustCompile("`[^`]*`")
	headingPattern    = regexp.MustCompile(`(?m)^(#{1,6})\s`)
	markdownMarkup    = regexp.MustCompile(`[#*_>\[\]()!-]`)
	sentenceSplit     = regexp.MustCompile(`[.!?。？！]+|\n\n`)

	// number+unit patterns: currency, percent, counts, dates
	concreteDataPattern = regexp.MustCompile(`\d+[,.]?\d*\s*(원|만원|억|%|퍼센트|개|명|년|월|일|시간|분|건|회|₩|\$)|\d{4}년`)
)

// ctaPhrases are checked against the tail of the draft
var ctaPhrases = []string{
	"댓글", "공유", "구독", "확인해보세요", "신청해보세요", "방문해보세요",
	"참고하세요", "알아보세요", "시작해보세요", "추천드립니다", "도움이 되셨다면",
}

// AnalyzeContentQuality scores one generated draft against its target
// keyword and word count. The score starts at 100 and each violated rule
// subtracts a capped penalty; a small structural bonus is the only addition.
func AnalyzeContentQuality(content, targetKeyword string, targetWordCount int) domain.QualityScore {
	if targetWordCount <= 0 {
		targetWordCount = 1500
	}

	score := 100
	var issues []string

	words := countWords(content)

	// word count band
	lower := int(float64(targetWordCount) * wordCountLowerK)
	upper := int(float64(targetWordCount) * wordCountUpperK)
	switch {
	case words < lower:
		p := scaledPenalty(float64(lower-words)/float64(lower), maxWordCountPenalty)
		score -= p
		issues = append(issues, fmt.Sprintf("분량 부족: %d단어 (목표 %d단어 이상)", words, lower))
	case words > upper:
		score -= maxWordCountPenalty / 2
		issues = append(issues, fmt.Sprintf("분량 초과: %d단어 (목표 %d단어 이하)", words, upper))
	}

	// structure: at least one H1 and two H2s
	h1, h2, h3 := countHeadings(content)
	sections := h2 + h3
	structureOK := h1 >= 1 && h2 >= 2
	if !structureOK {
		score -= maxStructurePenalty
		issues = append(issues, fmt.Sprintf("구조 미흡: 대제목 %d개, 소제목 %d개 (대제목 1개 이상, 소제목 2개 이상 필요)", h1, h2))
	}

	// keyword density
	density := keywordDensity(content, targetKeyword, words)
	if density < densityHealthyLo || density > densityHealthyHi {
		score -= maxDensityPenalty
		issues = append(issues, fmt.Sprintf("키워드 밀도 이상: %.1f%% (권장 1-3%%)", density))
	}

	// readability from average sentence length
	readability := readabilityScore(content)
	if readability < 60 {
		score -= maxReadabilityPenalty
		issues = append(issues, fmt.Sprintf("가독성 낮음: 점수 %d (문장 길이 조절 필요)", readability))
	}

	// call to action near the end
	hasCTA := hasCallToAction(content)
	if !hasCTA {
		score -= ctaPenalty
		issues = append(issues, "마무리 행동 유도 문구 없음")
	}

	// concrete data
	hasData := concreteDataPattern.MatchString(content)
	if !hasData {
		score -= concreteDataPenalty
		issues = append(issues, "구체적 수치 데이터 없음")
	}

	// capped structural bonus
	if sections >= 5 {
		score += sectionBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return domain.QualityScore{
		Overall:            score,
		WordCount:          words,
		KeywordDensity:     density,
		HasProperStructure: structureOK,
		SectionCount:       sections,
		ReadabilityScore:   readability,
		HasCallToAction:    hasCTA,
		HasConcreteData:    hasData,
		Issues:             issues,
		Passed:             score >= passThreshold,
	}
}

// scaledPenalty scales a 0-1 severity into a capped integer penalty
func scaledPenalty(severity float64, limit int) int {
	if severity < 0 {
		severity = 0
	}
	if severity > 1 {
		severity = 1
	}
	p := int(severity * float64(limit))
	if p < limit/2 {
		p = limit / 2 // any violation costs at least half the cap
	}
	return p
}

// countWords tokenizes the draft with markdown and code stripped
func countWords(content string) int {
	stripped := codeBlockPattern.ReplaceAllString(content, " ")
	stripped = inlineCodePattern.ReplaceAllString(stripped, " ")
	stripped = markdownMarkup.ReplaceAllString(stripped, " ")
	return len(strings.Fields(stripped))
}

// countHeadings returns the number of H1, H2 and H3 markdown headings
func countHeadings(content string) (h1, h2, h3 int) {
	for _, m := range headingPattern.FindAllStringSubmatch(content, -1) {
		switch len(m[1]) {
		case 1:
			h1++
		case 2:
			h2++
		case 3:
			h3++
		}
	}
	return h1, h2, h3
}

// keywordDensity is keyword occurrences over word count, in percent
func keywordDensity(content, keyword string, words int) float64 {
	if words == 0 || strings.TrimSpace(keyword) == "" {
		return 0
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(keyword))
	if err != nil {
		return 0
	}
	occurrences := len(re.FindAllStringIndex(content, -1))
	return float64(occurrences) / float64(words) * 100
}

// readabilityScore buckets the average sentence length; 15-25 words per
// sentence reads best
func readabilityScore(content string) int {
	sentences := 0
	totalWords := 0
	for _, s := range sentenceSplit.Split(content, -1) {
		w := len(strings.Fields(s))
		if w == 0 {
			continue
		}
		sentences++
		totalWords += w
	}
	if sentences == 0 {
		return 0
	}
	avg := float64(totalWords) / float64(sentences)
	switch {
	case avg >= 15 && avg <= 25:
		return 100
	case avg >= 10 && avg < 15:
		return 80
	case avg > 25 && avg <= 35:
		return 70
	case avg >= 5 && avg < 10:
		return 50
	default:
		return 30
	}
}

// hasCallToAction checks the last portion of the draft for a CTA phrase
func hasCallToAction(content string) bool {
	runes := []rune(content)
	tail := content
	if len(runes) > ctaWindowChars {
		tail = string(runes[len(runes)-ctaWindowChars:])
	}
	for _, phrase := range ctaPhrases {
		if strings.Contains(tail, phrase) {
			return true
		}
	}
	return false
}
