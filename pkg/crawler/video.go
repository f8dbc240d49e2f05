package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// videoAdapter crawls YouTube channels. With an API key it uses the Data
// API; without one it falls back to parsing the embedded JSON blob on the
// channel page.
type videoAdapter struct {
	fetcher *Fetcher
	apiKey  string
	apiBase string
}

func newVideoAdapter(fetcher *Fetcher, apiKey string) *videoAdapter {
	return &videoAdapter{
		fetcher: fetcher,
		apiKey:  apiKey,
		apiBase: "https://www.googleapis.com/youtube/v3",
	}
}

func (a *videoAdapter) crawl(ctx context.Context, channelURL string, maxItems int) []domain.CrawledContent {
	if a.apiKey != "" {
		if items := a.crawlAPI(ctx, channelURL, maxItems); len(items) > 0 {
			return items
		}
		lgr.Printf("[WARN] youtube api path yielded nothing for %s, trying html fallback", channelURL)
	}
	return a.crawlHTML(ctx, channelURL, maxItems)
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// crawlAPI lists a channel's recent uploads through the Data API search
// endpoint
func (a *videoAdapter) crawlAPI(ctx context.Context, channelURL string, maxItems int) []domain.CrawledContent {
	channelID := extractChannelID(channelURL)
	if channelID == "" {
		lgr.Printf("[WARN] cannot extract channel id from %s", channelURL)
		return nil
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("channelId", channelID)
	q.Set("order", "date")
	q.Set("type", "video")
	q.Set("maxResults", fmt.Sprintf("%d", maxItems))
	q.Set("key", a.apiKey)

	body, err := a.fetcher.Get(ctx, a.apiBase+"/search?"+q.Encode())
	if err != nil {
		lgr.Printf("[WARN] youtube api fetch failed: %v", err)
		return nil
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		lgr.Printf("[WARN] youtube api response parse failed: %v", err)
		return nil
	}

	items := make([]domain.CrawledContent, 0, len(parsed.Items))
	for _, v := range parsed.Items {
		if v.ID.VideoID == "" {
			continue
		}
		record := domain.CrawledContent{
			URL:     "https://www.youtube.com/watch?v=" + v.ID.VideoID,
			Title:   v.Snippet.Title,
			Content: v.Snippet.Description,
			Author:  v.Snippet.ChannelTitle,
			Metadata: map[string]string{
				"platform": string(PlatformVideo),
				"video_id": v.ID.VideoID,
			},
		}
		if v.Snippet.Thumbnails.High.URL != "" {
			record.Images = []string{v.Snippet.Thumbnails.High.URL}
		}
		if ts, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
			record.PublishedAt = ts
		}
		items = append(items, record)
	}
	return items
}

// videoEntryPattern pulls videoId/title pairs out of the ytInitialData blob
// embedded in channel pages
var videoEntryPattern = regexp.MustCompile(`"videoId":"([a-zA-Z0-9_-]{11})".{0,400}?"title":\{"runs":\[\{"text":"((?:[^"\\]|\\.)*)"`)

// crawlHTML parses embedded JSON fields out of the channel videos page
func (a *videoAdapter) crawlHTML(ctx context.Context, channelURL string, maxItems int) []domain.CrawledContent {
	pageURL := strings.TrimRight(channelURL, "/")
	if !strings.HasSuffix(pageURL, "/videos") {
		pageURL += "/videos"
	}

	body, err := a.fetcher.Get(ctx, pageURL)
	if err != nil {
		lgr.Printf("[WARN] channel page fetch failed for %s: %v", pageURL, err)
		return nil
	}

	matches := videoEntryPattern.FindAllStringSubmatch(string(body), -1)
	seen := make(map[string]struct{})
	items := make([]domain.CrawledContent, 0, maxItems)
	for _, m := range matches {
		if len(items) >= maxItems {
			break
		}
		videoID, rawTitle := m[1], m[2]
		if _, ok := seen[videoID]; ok {
			continue
		}
		seen[videoID] = struct{}{}

		var title string
		if err := json.Unmarshal([]byte(`"`+rawTitle+`"`), &title); err != nil {
			title = rawTitle
		}

		items = append(items, domain.CrawledContent{
			URL:   "https://www.youtube.com/watch?v=" + videoID,
			Title: title,
			Metadata: map[string]string{
				"platform": string(PlatformVideo),
				"video_id": videoID,
				"fallback": "html",
			},
		})
	}
	return items
}

var channelIDPattern = regexp.MustCompile(`/channel/(UC[a-zA-Z0-9_-]{22})`)

// extractChannelID pulls a canonical channel id out of a channel URL
func extractChannelID(channelURL string) string {
	if m := channelIDPattern.FindStringSubmatch(channelURL); m != nil {
		return m[1]
	}
	return ""
}
