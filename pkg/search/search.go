// Package search finds and fetches top-ranking reference articles for a
// keyword. Providers cascade: each strategy runs only when the previous one
// produced nothing, and an empty result is a valid outcome, never an error.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/crawler"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// minExtractedChars rejects fetched pages too thin to be useful evidence
const minExtractedChars = 100

// fullFetchTop is how many API hits get re-fetched for full content
const fullFetchTop = 3

// Config holds search crawler settings
type Config struct {
	UserAgent         string
	Timeout           time.Duration
	NaverClientID     string
	NaverClientSecret string
}

// Searcher implements the cascading keyword search
type Searcher struct {
	fetcher     *crawler.Fetcher
	client      *http.Client
	naverID     string
	naverSecret string
	naverBase   string
	googleBase  string
	daumBase    string
}

// NewSearcher creates a search crawler
func NewSearcher(cfg Config) *Searcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Searcher{
		fetcher:     crawler.NewFetcher(cfg.UserAgent, cfg.Timeout),
		client:      &http.Client{Timeout: cfg.Timeout},
		naverID:     cfg.NaverClientID,
		naverSecret: cfg.NaverClientSecret,
		naverBase:   "https://openapi.naver.com",
		googleBase:  "https://www.google.com",
		daumBase:    "https://search.daum.net",
	}
}

// CrawlForKeyword runs the provider cascade and returns up to maxResults
// reference articles. Zero results is an expected outcome.
func (s *Searcher) CrawlForKeyword(ctx context.Context, keyword string, maxResults int) []domain.CrawledContent {
	if maxResults <= 0 {
		maxResults = 3
	}

	if s.naverID != "" && s.naverSecret != "" {
		if results := s.searchNaverAPI(ctx, keyword, maxResults); len(results) > 0 {
			lgr.Printf("[DEBUG] naver api returned %d results for %q", len(results), keyword)
			return results
		}
	}

	if results := s.scrapeGoogle(ctx, keyword, maxResults); len(results) > 0 {
		lgr.Printf("[DEBUG] google scrape returned %d results for %q", len(results), keyword)
		return results
	}

	results := s.scrapeDaum(ctx, keyword, maxResults)
	lgr.Printf("[DEBUG] daum scrape returned %d results for %q", len(results), keyword)
	return results
}

type naverBlogResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Description string `json:"description"`
		BloggerName string `json:"bloggername"`
		PostDate    string `json:"postdate"`
	} `json:"items"`
}

var boldTagPattern = regexp.MustCompile(`</?b>`)

// searchNaverAPI queries the credentialed blog-search API; the top hits get
// re-fetched so the short snippet can be replaced with full page content
func (s *Searcher) searchNaverAPI(ctx context.Context, keyword string, maxResults int) []domain.CrawledContent {
	q := url.Values{}
	q.Set("query", keyword)
	q.Set("display", fmt.Sprintf("%d", maxResults))
	q.Set("sort", "sim")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.naverBase+"/v1/search/blog.json?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil
	}
	req.Header.Set("X-Naver-Client-Id", s.naverID)
	req.Header.Set("X-Naver-Client-Secret", s.naverSecret)

	resp, err := s.client.Do(req)
	if err != nil {
		lgr.Printf("[WARN] naver blog search failed for %q: %v", keyword, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		lgr.Printf("[WARN] naver blog search status %d for %q", resp.StatusCode, keyword)
		return nil
	}

	var parsed naverBlogResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		lgr.Printf("[WARN] naver blog search decode failed: %v", err)
		return nil
	}

	results := make([]domain.CrawledContent, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		if len(results) >= maxResults {
			break
		}
		record := domain.CrawledContent{
			URL:     item.Link,
			Title:   boldTagPattern.ReplaceAllString(item.Title, ""),
			Content: boldTagPattern.ReplaceAllString(item.Description, ""),
			Author:  item.BloggerName,
			Metadata: map[string]string{
				"provider": "naver_api",
			},
		}
		if ts, err := time.Parse("20060102", item.PostDate); err == nil {
			record.PublishedAt = ts
		}

		// upgrade the snippet with full page content for the top hits
		if i < fullFetchTop {
			if _, full := s.fetchAndExtract(ctx, item.Link); len(full) > len(record.Content) {
				record.Content = full
			}
		}
		results = append(results, record)
	}
	return results
}

// googleResultPatterns are the two successive URL-extraction strategies for
// the results page markup; the second is a looser fallback
var googleResultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/url\?q=(https?://[^&"]+)`),
	regexp.MustCompile(`<a[^>]+href="(https?://[^"]+)"`),
}

// scrapeGoogle extracts outbound result URLs from a results page and fetches
// each one
func (s *Searcher) scrapeGoogle(ctx context.Context, keyword string, maxResults int) []domain.CrawledContent {
	serpURL := s.googleBase + "/search?q=" + url.QueryEscape(keyword) + "&hl=ko"
	body, err := s.fetcher.Get(ctx, serpURL)
	if err != nil {
		lgr.Printf("[WARN] google serp fetch failed for %q: %v", keyword, err)
		return nil
	}

	var urls []string
	for _, pattern := range googleResultPatterns {
		urls = extractResultURLs(string(body), pattern, nil)
		if len(urls) > 0 {
			break
		}
	}
	return s.fetchResults(ctx, keyword, urls, maxResults, "google_scrape")
}

// blogHosts are the domains the secondary results scrape is limited to
var blogHosts = []string{"blog.naver.com", "tistory.com", "brunch.co.kr"}

// scrapeDaum scrapes the secondary results page, restricted to known
// blog-hosting domains
func (s *Searcher) scrapeDaum(ctx context.Context, keyword string, maxResults int) []domain.CrawledContent {
	serpURL := s.daumBase + "/search?w=blog&q=" + url.QueryEscape(keyword)
	body, err := s.fetcher.Get(ctx, serpURL)
	if err != nil {
		lgr.Printf("[WARN] daum serp fetch failed for %q: %v", keyword, err)
		return nil
	}

	urls := extractResultURLs(string(body), googleResultPatterns[1], blogHosts)
	return s.fetchResults(ctx, keyword, urls, maxResults, "daum_scrape")
}

// fetchResults fetches each candidate URL and keeps the ones with enough
// extracted text
func (s *Searcher) fetchResults(ctx context.Context, keyword string, urls []string, maxResults int, provider string) []domain.CrawledContent {
	results := make([]domain.CrawledContent, 0, maxResults)
	for _, u := range urls {
		if len(results) >= maxResults {
			break
		}
		title, content := s.fetchAndExtract(ctx, u)
		if len([]rune(content)) < minExtractedChars {
			continue // too thin to benchmark against
		}
		if title == "" {
			title = keyword
		}
		results = append(results, domain.CrawledContent{
			URL:     u,
			Title:   title,
			Content: content,
			Metadata: map[string]string{
				"provider": provider,
			},
		})
	}
	return results
}

// fetchAndExtract downloads a page and extracts its title and main text;
// failures return empty strings
func (s *Searcher) fetchAndExtract(ctx context.Context, pageURL string) (title, content string) {
	body, err := s.fetcher.Get(ctx, pageURL)
	if err != nil {
		lgr.Printf("[DEBUG] result fetch failed for %s: %v", pageURL, err)
		return "", ""
	}
	return crawler.ExtractTitle(body), strings.TrimSpace(crawler.ExtractText(body, pageURL))
}

// extractResultURLs applies one regex strategy to SERP markup, dropping
// search-engine self links, deduping, and optionally restricting to hosts
func extractResultURLs(markup string, pattern *regexp.Regexp, allowedHosts []string) []string {
	matches := pattern.FindAllStringSubmatch(markup, -1)
	seen := make(map[string]struct{})
	var urls []string
	for _, m := range matches {
		raw, err := url.QueryUnescape(m[1])
		if err != nil {
			raw = m[1]
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.ToLower(u.Hostname())
		if strings.Contains(host, "google.") || strings.Contains(host, "daum.net") ||
			strings.Contains(host, "gstatic.") || strings.Contains(host, "googleapis.") {
			continue
		}
		if len(allowedHosts) > 0 && !hostAllowed(host, allowedHosts) {
			continue
		}
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		urls = append(urls, raw)
	}
	return urls
}

func hostAllowed(host string, allowed []string) bool {
	for _, a := range allowed {
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}
