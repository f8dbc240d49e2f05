package pipeline

import (
	"strings"
	"unicode"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/cluster"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// normalizeKey reduces a keyword or title to a comparable form: lowercase
// with spaces and punctuation removed
func normalizeKey(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// dropCovered removes candidates whose normalized keyword is contained in an
// already-covered key or contains one. "전세 대출" covers both "전세 대출 조건"
// and plain "전세대출".
func dropCovered(analyses []domain.KeywordAnalysis, existing []string) []domain.KeywordAnalysis {
	keys := make([]string, 0, len(existing))
	for _, e := range existing {
		if k := normalizeKey(e); k != "" {
			keys = append(keys, k)
		}
	}

	kept := make([]domain.KeywordAnalysis, 0, len(analyses))
	for _, a := range analyses {
		key := normalizeKey(a.Keyword)
		covered := false
		for _, e := range keys {
			if strings.Contains(key, e) || strings.Contains(e, key) {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, a)
		}
	}
	return kept
}

// diversify reorders the ranked pool so the first positions hold one
// representative per cluster pillar, the highest-ranked member of each.
// Remaining members follow in their original rank order, so the selection
// weights favor breadth across topic groups.
func (p *Pipeline) diversify(pool []domain.KeywordAnalysis) []domain.KeywordAnalysis {
	if len(pool) < 2 {
		return pool
	}

	items := make([]cluster.Input, len(pool))
	byKeyword := make(map[string]int, len(pool))
	for i, a := range pool {
		items[i] = cluster.Input{Keyword: a.Keyword, Category: a.SuggestedCategory, RevenuePotential: a.RevenuePotential}
		byKeyword[a.Keyword] = i
	}

	clusters := p.clusters.BuildClusters(items)

	// first ranked member per cluster leads
	lead := make(map[string]bool, len(clusters))
	for _, c := range clusters {
		best := -1
		for _, kw := range c.ClusterKeywords {
			if idx, ok := byKeyword[kw]; ok && (best == -1 || idx < best) {
				best = idx
			}
		}
		if idx, ok := byKeyword[c.PillarKeyword]; ok && (best == -1 || idx < best) {
			best = idx
		}
		if best >= 0 {
			lead[pool[best].Keyword] = true
		}
	}

	ordered := make([]domain.KeywordAnalysis, 0, len(pool))
	for _, a := range pool {
		if lead[a.Keyword] {
			ordered = append(ordered, a)
		}
	}
	for _, a := range pool {
		if !lead[a.Keyword] {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

// pickWeighted draws count candidates without replacement. The weight of the
// candidate at position i is poolSize-i, so top-ranked topics dominate but
// lower ranks still surface across runs.
func (p *Pipeline) pickWeighted(pool []domain.KeywordAnalysis, count int) []domain.KeywordAnalysis {
	if count >= len(pool) {
		return pool
	}

	type candidate struct {
		analysis domain.KeywordAnalysis
		weight   int
	}
	cands := make([]candidate, len(pool))
	for i, a := range pool {
		w := len(pool) - i
		if w < 1 {
			w = 1
		}
		cands[i] = candidate{analysis: a, weight: w}
	}

	selected := make([]domain.KeywordAnalysis, 0, count)
	for len(selected) < count && len(cands) > 0 {
		total := 0
		for _, c := range cands {
			total += c.weight
		}
		pick := p.rnd.Intn(total)
		for i, c := range cands {
			pick -= c.weight
			if pick < 0 {
				selected = append(selected, c.analysis)
				cands = append(cands[:i], cands[i+1:]...)
				break
			}
		}
	}
	return selected
}

// matchesKeyword reports whether a benchmark item covers the keyword
func matchesKeyword(item domain.CrawledContent, keyword string) bool {
	key := normalizeKey(keyword)
	if key == "" {
		return false
	}
	return strings.Contains(normalizeKey(item.Title), key) ||
		strings.Contains(normalizeKey(item.Content), key)
}

// makeSlug turns a keyword into a URL slug, keeping letters and digits of any
// script and joining runs with single dashes
func makeSlug(keyword string) string {
	var sb strings.Builder
	dash := true // suppress leading dash
	for _, r := range strings.ToLower(keyword) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			dash = false
		case !dash:
			sb.WriteRune('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
