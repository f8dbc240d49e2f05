package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// blogAdapter crawls Naver-style blogs through their RSS feed variant
type blogAdapter struct {
	fetcher   *Fetcher
	sanitizer *bluemonday.Policy
}

var imgSrcPattern = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)

func newBlogAdapter(fetcher *Fetcher) *blogAdapter {
	return &blogAdapter{
		fetcher:   fetcher,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// crawl derives the RSS feed URL for the blog, parses its items and strips
// markup down to plain text plus harvested inline images
func (a *blogAdapter) crawl(ctx context.Context, blogURL string, maxItems int) []domain.CrawledContent {
	feedURL, err := blogFeedURL(blogURL)
	if err != nil {
		lgr.Printf("[WARN] cannot derive feed URL for %s: %v", blogURL, err)
		return nil
	}

	body, err := a.fetcher.Get(ctx, feedURL)
	if err != nil {
		lgr.Printf("[WARN] blog feed fetch failed for %s: %v", feedURL, err)
		return nil
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		lgr.Printf("[WARN] blog feed parse failed for %s: %v", feedURL, err)
		return nil
	}

	items := make([]domain.CrawledContent, 0, maxItems)
	for _, item := range feed.Items {
		if len(items) >= maxItems {
			break
		}

		raw := item.Content
		if raw == "" {
			raw = item.Description
		}

		record := domain.CrawledContent{
			URL:     item.Link,
			Title:   strings.TrimSpace(item.Title),
			Content: strings.TrimSpace(stripTags(raw)),
			HTML:    a.sanitizer.Sanitize(raw),
			Images:  inlineImages(raw),
			Metadata: map[string]string{
				"platform": string(PlatformBlog),
				"feed":     feedURL,
			},
		}
		if item.Author != nil {
			record.Author = item.Author.Name
		}
		if item.PublishedParsed != nil {
			record.PublishedAt = *item.PublishedParsed
		}

		if record.Title == "" && record.Content == "" {
			continue
		}
		items = append(items, record)
	}
	return items
}

// blogFeedURL maps a blog page URL to its RSS feed variant. Naver blogs
// publish feeds at rss.blog.naver.com/<id>.xml; other hosts get /rss.
func blogFeedURL(blogURL string) (string, error) {
	u, err := url.Parse(blogURL)
	if err != nil {
		return "", fmt.Errorf("parse blog URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid blog URL: %s", blogURL)
	}

	if strings.HasSuffix(u.Host, "blog.naver.com") {
		id := strings.Trim(u.Path, "/")
		if i := strings.IndexByte(id, '/'); i >= 0 {
			id = id[:i]
		}
		if id == "" {
			return "", fmt.Errorf("no blog id in URL: %s", blogURL)
		}
		return fmt.Sprintf("%s://rss.blog.naver.com/%s.xml", u.Scheme, id), nil
	}

	if strings.HasSuffix(u.Path, ".xml") || strings.Contains(u.Path, "/rss") || strings.Contains(u.Path, "/feed") {
		return blogURL, nil // already a feed URL
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/rss"
	return u.String(), nil
}

// inlineImages extracts img src attributes from raw item HTML
func inlineImages(html string) []string {
	matches := imgSrcPattern.FindAllStringSubmatch(html, maxImages)
	images := make([]string, 0, len(matches))
	for _, m := range matches {
		images = append(images, m[1])
	}
	return images
}
