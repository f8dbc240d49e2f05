package domain

import "time"

// TrendSource identifies where a trending topic came from
type TrendSource string

const (
	SourceGoogleTrends TrendSource = "google_trends"
	SourceNaverAPI     TrendSource = "naver_api"
	SourceCurated      TrendSource = "curated"
	SourceEvergreen    TrendSource = "evergreen"
)

// KeywordType classifies the demand profile of a keyword
type KeywordType string

const (
	KeywordEvergreen KeywordType = "evergreen"
	KeywordSeasonal  KeywordType = "seasonal"
	KeywordTrending  KeywordType = "trending"
)

// TrendingTopic is a normalized topic candidate produced by the aggregator.
// Instances are immutable once created; the merge step builds new copies with
// the max trend score and the union of related keywords.
type TrendingTopic struct {
	Keyword         string
	Source          TrendSource
	Category        string
	TrendScore      float64 // 0-100
	RelatedKeywords []string
	FetchedAt       time.Time
	KeywordType     KeywordType
	Reason          string
}

// CompetitionLevel is the estimated difficulty of ranking for a keyword
type CompetitionLevel string

// competition tiers, low is best for a new publisher
const (
	CompetitionLow    CompetitionLevel = "low"
	CompetitionMedium CompetitionLevel = "medium"
	CompetitionHigh   CompetitionLevel = "high"
)

// SearchVolume is a coarse search-demand tier
type SearchVolume string

// search volume tiers
const (
	VolumeLow      SearchVolume = "low"
	VolumeMedium   SearchVolume = "medium"
	VolumeHigh     SearchVolume = "high"
	VolumeVeryHigh SearchVolume = "very_high"
)

// KeywordAnalysis is the monetization profile of a single keyword.
// Derived deterministically from (keyword, trendScore); it has no persisted
// identity and is recomputed per pipeline run.
type KeywordAnalysis struct {
	Keyword           string
	EstimatedCPC      float64 // USD
	CompetitionLevel  CompetitionLevel
	SearchVolume      SearchVolume
	RevenuePotential  int // 1-100
	SuggestedTitle    string
	SuggestedCategory string
	LongTailVariants  []string // deduped, capped at 12
}

// KeywordCluster groups related keywords under a pillar keyword
type KeywordCluster struct {
	PillarKeyword     string
	PillarCategory    string
	ClusterKeywords   []string
	TotalRevenueScore float64
	ContentCount      int // 1..7
}
