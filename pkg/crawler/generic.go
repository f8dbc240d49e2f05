package crawler

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"
	"github.com/mmcdole/gofeed"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// genericAdapter handles arbitrary HTML pages: main-text extraction with an
// ordered container fallback, plus discovery of a linked RSS alternate
type genericAdapter struct {
	fetcher *Fetcher
}

func newGenericAdapter(fetcher *Fetcher) *genericAdapter {
	return &genericAdapter{fetcher: fetcher}
}

// containerSelectors are tried in order until one yields enough text
var containerSelectors = []string{"article", "main", "div#content", "div.content", "div.post", "body"}

func (a *genericAdapter) crawl(ctx context.Context, pageURL string, maxItems int) []domain.CrawledContent {
	record, doc := a.extractPage(ctx, pageURL)

	var items []domain.CrawledContent
	if record != nil {
		items = append(items, *record)
	}

	// merge a linked RSS alternate when the page advertises one
	if doc != nil {
		if feedURL := discoverFeed(doc, pageURL); feedURL != "" {
			items = append(items, a.crawlFeed(ctx, feedURL, maxItems-len(items))...)
		}
	}

	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

// extractPage fetches one page and normalizes it to a content record; the
// parsed document is returned for alternate-feed discovery
func (a *genericAdapter) extractPage(ctx context.Context, pageURL string) (*domain.CrawledContent, *goquery.Document) {
	body, err := a.fetcher.Get(ctx, pageURL)
	if err != nil {
		lgr.Printf("[WARN] page fetch failed for %s: %v", pageURL, err)
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		lgr.Printf("[WARN] html parse failed for %s: %v", pageURL, err)
		return nil, nil
	}

	title := docTitle(doc)

	content := extractMainText(body, pageURL)
	doc.Find("script, style, noscript").Remove()
	if content == "" {
		content = containerText(doc)
	}
	if title == "" && content == "" {
		return nil, doc
	}

	record := &domain.CrawledContent{
		URL:     pageURL,
		Title:   title,
		Content: strings.TrimSpace(content),
		Images:  pageImages(doc, pageURL),
		Metadata: map[string]string{
			"platform": string(PlatformGeneric),
		},
	}
	if author := doc.Find(`meta[name="author"]`).AttrOr("content", ""); author != "" {
		record.Author = strings.TrimSpace(author)
	}
	return record, doc
}

// ExtractText pulls the main article text from a raw HTML page. It returns
// an empty string when nothing plausible can be extracted.
func ExtractText(body []byte, pageURL string) string {
	if text := extractMainText(body, pageURL); text != "" {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return containerText(doc)
}

// ExtractTitle pulls the page title from raw HTML, preferring og:title over
// the document title. It returns an empty string when neither is present.
func ExtractTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return docTitle(doc)
}

func docTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return title
}

// extractMainText runs trafilatura over the raw page
func extractMainText(body []byte, pageURL string) string {
	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
	}
	if u, err := url.Parse(pageURL); err == nil {
		opts.OriginalURL = u
	}
	result, err := trafilatura.Extract(bytes.NewReader(body), opts)
	if err != nil || result == nil {
		return ""
	}
	return result.ContentText
}

// containerText walks the ordered selector attempts and returns the first
// container with a plausible amount of text
func containerText(doc *goquery.Document) string {
	for _, sel := range containerSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		text = strings.Join(strings.Fields(text), " ")
		if len([]rune(text)) >= 100 || (sel == "body" && text != "") {
			return text
		}
	}
	return ""
}

// pageImages collects absolute image URLs from the document
func pageImages(doc *goquery.Document, pageURL string) []string {
	base, _ := url.Parse(pageURL)
	var images []string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			return true
		}
		if base != nil {
			if abs, err := base.Parse(src); err == nil {
				src = abs.String()
			}
		}
		images = append(images, src)
		return len(images) < maxImages
	})
	return images
}

// discoverFeed finds an RSS/Atom alternate link on the page
func discoverFeed(doc *goquery.Document, pageURL string) string {
	href := doc.Find(`link[rel="alternate"][type="application/rss+xml"], link[rel="alternate"][type="application/atom+xml"]`).
		First().AttrOr("href", "")
	if href == "" {
		return ""
	}
	if base, err := url.Parse(pageURL); err == nil {
		if abs, err := base.Parse(href); err == nil {
			return abs.String()
		}
	}
	return href
}

// crawlFeed pulls additional items from a discovered feed
func (a *genericAdapter) crawlFeed(ctx context.Context, feedURL string, maxItems int) []domain.CrawledContent {
	if maxItems <= 0 {
		return nil
	}
	body, err := a.fetcher.Get(ctx, feedURL)
	if err != nil {
		lgr.Printf("[WARN] alternate feed fetch failed for %s: %v", feedURL, err)
		return nil
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		lgr.Printf("[WARN] alternate feed parse failed for %s: %v", feedURL, err)
		return nil
	}

	items := make([]domain.CrawledContent, 0, maxItems)
	for _, item := range feed.Items {
		if len(items) >= maxItems {
			break
		}
		content := item.Content
		if content == "" {
			content = item.Description
		}
		record := domain.CrawledContent{
			URL:     item.Link,
			Title:   strings.TrimSpace(item.Title),
			Content: strings.TrimSpace(stripTags(content)),
			Metadata: map[string]string{
				"platform": string(PlatformGeneric),
				"feed":     feedURL,
			},
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
