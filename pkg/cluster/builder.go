// Package cluster groups scored keywords into pillar/cluster topic groups
// using lexical stem overlap. The 2/3-character n-gram overlap is a cheap
// approximation of Korean morpheme similarity.
package cluster

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// Input is one scored keyword to be clustered
type Input struct {
	Keyword          string
	Category         string
	RevenuePotential int
}

// Role says whether a keyword should anchor a hub page or hang off one
type Role string

// content roles
const (
	RolePillar  Role = "pillar"
	RoleCluster Role = "cluster"
)

const maxContentCount = 7

// Builder clusters keywords. The thresholds are heuristic and tunable, not
// load-bearing invariants.
type Builder struct {
	SimilarityThreshold float64 // min stem overlap to join a cluster
	PillarThreshold     float64 // min overlap to attach to an existing pillar
}

// NewBuilder creates a cluster builder with default thresholds
func NewBuilder() *Builder {
	return &Builder{
		SimilarityThreshold: 0.25,
		PillarThreshold:     0.2,
	}
}

// BuildClusters groups items with a single greedy pass: each unclustered item
// seeds a cluster and absorbs all later unassigned items in the same category
// with sufficient stem overlap. Every input ends up in exactly one cluster.
func (b *Builder) BuildClusters(items []Input) []domain.KeywordCluster {
	assigned := make([]bool, len(items))
	clusters := make([]domain.KeywordCluster, 0, len(items))

	for i, seed := range items {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		group := []Input{seed}

		seedStems := stems(seed.Keyword)
		for j := i + 1; j < len(items); j++ {
			if assigned[j] {
				continue
			}
			if items[j].Category != seed.Category {
				continue
			}
			if overlap(seedStems, stems(items[j].Keyword)) >= b.SimilarityThreshold {
				assigned[j] = true
				group = append(group, items[j])
			}
		}

		clusters = append(clusters, buildCluster(group))
	}

	return clusters
}

// ClassifyContentRole decides pillar vs cluster from token count and length.
// auxWordCount breaks ties in the ambiguous 3-token band.
func (b *Builder) ClassifyContentRole(keyword string, auxWordCount int) Role {
	tokens := len(strings.Fields(keyword))
	length := utf8.RuneCountInString(normalize(keyword))

	switch {
	case tokens >= 4:
		return RoleCluster
	case length > 15:
		return RoleCluster
	case tokens <= 2:
		return RolePillar
	default: // exactly 3 tokens
		if auxWordCount >= 2 {
			return RoleCluster
		}
		return RolePillar
	}
}

// FindPillarForCluster returns the existing pillar with the highest stem
// overlap if it clears the pillar threshold; ok is false when no pillar fits.
func (b *Builder) FindPillarForCluster(keyword string, pillars []string) (pillar string, ok bool) {
	kwStems := stems(keyword)
	best := 0.0
	for _, p := range pillars {
		if o := overlap(kwStems, stems(p)); o > best {
			best = o
			pillar = p
		}
	}
	if best >= b.PillarThreshold {
		return pillar, true
	}
	return "", false
}

// buildCluster assembles one cluster record; the pillar is the shortest
// keyword, ties broken by highest revenue potential
func buildCluster(group []Input) domain.KeywordCluster {
	sort.SliceStable(group, func(i, j int) bool {
		li := utf8.RuneCountInString(group[i].Keyword)
		lj := utf8.RuneCountInString(group[j].Keyword)
		if li != lj {
			return li < lj
		}
		return group[i].RevenuePotential > group[j].RevenuePotential
	})

	pillar := group[0]
	keywords := make([]string, 0, len(group))
	total := 0.0
	for _, g := range group {
		keywords = append(keywords, g.Keyword)
		total += float64(g.RevenuePotential)
	}

	count := len(group)
	if count > maxContentCount {
		count = maxContentCount
	}

	return domain.KeywordCluster{
		PillarKeyword:     pillar.Keyword,
		PillarCategory:    pillar.Category,
		ClusterKeywords:   keywords,
		TotalRevenueScore: total,
		ContentCount:      count,
	}
}

// stems builds the set of normalized 2- and 3-rune substrings of a keyword
func stems(keyword string) map[string]struct{} {
	runes := []rune(normalize(keyword))
	set := make(map[string]struct{})
	for n := 2; n <= 3; n++ {
		for i := 0; i+n <= len(runes); i++ {
			set[string(runes[i:i+n])] = struct{}{}
		}
	}
	return set
}

// overlap is |a∩b| / min(|a|,|b|)
func overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	common := 0
	for s := range small {
		if _, ok := large[s]; ok {
			common++
		}
	}
	return float64(common) / float64(len(small))
}

// normalize lowercases and strips whitespace and punctuation
func normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
