package trends

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// RSSSource pulls daily trending searches from a Google-Trends style RSS feed
type RSSSource struct {
	feedURL   string
	userAgent string
	client    *http.Client
}

// DefaultTrendsFeedURL is the Korean daily trending searches feed
const DefaultTrendsFeedURL = "https://trends.google.co.kr/trending/rss?geo=KR"

// NewRSSSource creates the primary trend feed source
func NewRSSSource(feedURL, userAgent string, timeout time.Duration) *RSSSource {
	if feedURL == "" {
		feedURL = DefaultTrendsFeedURL
	}
	return &RSSSource{
		feedURL:   feedURL,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Name identifies the source in logs
func (s *RSSSource) Name() string { return "trends-rss" }

// Fetch downloads and parses the trends feed. Approximate traffic from the
// feed's ht namespace sets the trend score; items without it score by rank.
func (s *RSSSource) Fetch(ctx context.Context) ([]domain.TrendingTopic, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/rss+xml,application/xml;q=0.9,*/*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch trends feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse trends feed: %w", err)
	}

	now := time.Now()
	topics := make([]domain.TrendingTopic, 0, len(feed.Items))
	for i, item := range feed.Items {
		keyword := strings.TrimSpace(item.Title)
		if keyword == "" {
			continue
		}
		topics = append(topics, domain.TrendingTopic{
			Keyword:         keyword,
			Source:          domain.SourceGoogleTrends,
			TrendScore:      trafficScore(item, i),
			RelatedKeywords: relatedFromNews(item),
			FetchedAt:       now,
			KeywordType:     domain.KeywordTrending,
		})
	}
	return topics, nil
}

// trafficScore derives a 0-100 score from the ht:approx_traffic extension,
// falling back to feed position
func trafficScore(item *gofeed.Item, position int) float64 {
	if ext, ok := item.Extensions["ht"]; ok {
		if vals, ok := ext["approx_traffic"]; ok && len(vals) > 0 {
			// values look like "20,000+"
			raw := strings.NewReplacer(",", "", "+", "").Replace(vals[0].Value)
			if n, err := strconv.Atoi(raw); err == nil {
				switch {
				case n >= 100000:
					return 100
				case n >= 50000:
					return 90
				case n >= 20000:
					return 80
				case n >= 10000:
					return 70
				default:
					return 60
				}
			}
		}
	}
	score := 90 - float64(position)*5
	if score < 30 {
		score = 30
	}
	return score
}

// relatedFromNews collects ht:news_item titles as related keywords
func relatedFromNews(item *gofeed.Item) []string {
	ext, ok := item.Extensions["ht"]
	if !ok {
		return nil
	}
	news, ok := ext["news_item"]
	if !ok {
		return nil
	}
	var related []string
	for _, n := range news {
		if titles, ok := n.Children["news_item_title"]; ok && len(titles) > 0 {
			if t := strings.TrimSpace(titles[0].Value); t != "" {
				related = append(related, t)
			}
		}
	}
	return capRelated(related)
}
