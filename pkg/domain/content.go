package domain

import "time"

// CrawledContent is a normalized content record produced by the crawlers.
// It is read-only evidence for generation and never mutated downstream.
type CrawledContent struct {
	URL         string
	Title       string
	Content     string // plain text, capped at 50k chars
	HTML        string // sanitized, optional
	Images      []string
	Author      string
	PublishedAt time.Time
	Metadata    map[string]string
}

// GeneratedPost is a draft handed to the content repository for persistence
type GeneratedPost struct {
	ID            int64
	Keyword       string
	Title         string
	Slug          string
	Content       string
	CategoryID    int64
	Category      string
	Model         string
	InputTokens   int
	OutputTokens  int
	QualityScore  int
	QualityPassed bool
	CreatedAt     time.Time
}

// QualityScore is the quality-gate verdict for one generated draft
type QualityScore struct {
	Overall            int // 0-100
	WordCount          int
	KeywordDensity     float64 // percent
	HasProperStructure bool
	SectionCount       int
	ReadabilityScore   int // 0-100
	HasCallToAction    bool
	HasConcreteData    bool
	Issues             []string
	Passed             bool // Overall >= 60
}

// TopicResult records the outcome of one per-topic generation attempt
type TopicResult struct {
	Keyword      string
	Title        string
	PostID       int64
	Quality      *QualityScore
	ReferenceCnt int
	Generated    bool
	Err          string
}

// RunResult is the structured outcome of a pipeline run.
// Partial success is the norm: errors accumulate per topic and the run
// always returns a result rather than failing as a whole.
type RunResult struct {
	GeneratedCount int
	Topics         []TopicResult
	Errors         []string
	StartedAt      time.Time
	FinishedAt     time.Time
}
