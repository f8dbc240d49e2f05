package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longArticle(topic string) string {
	return fmt.Sprintf(`<html><head><title>%s</title></head><body><article>%s</article></body></html>`,
		topic, strings.Repeat(topic+"에 대한 상세한 설명 문단입니다. ", 40))
}

func TestSearcher_CrawlForKeyword_NaverAPIFirst(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/v1/search/blog.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "전세 대출", r.URL.Query().Get("query"))
		assert.Equal(t, "id", r.Header.Get("X-Naver-Client-Id"))
		fmt.Fprintf(w, `{"items":[
			{"title":"<b>전세 대출</b> 총정리","link":"%s/post1","description":"짧은 요약","bloggername":"머니블로그","postdate":"20260815"},
			{"title":"전세 대출 후기","link":"%s/post2","description":"두번째 요약","bloggername":"리뷰어","postdate":"20260810"}
		]}`, server.URL, server.URL)
	})
	mux.HandleFunc("/post1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(longArticle("전세 대출")))
	})
	mux.HandleFunc("/post2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(longArticle("전세 대출 후기")))
	})

	s := NewSearcher(Config{UserAgent: "test", Timeout: 5 * time.Second, NaverClientID: "id", NaverClientSecret: "secret"})
	s.naverBase = server.URL

	results := s.CrawlForKeyword(context.Background(), "전세 대출", 2)
	require.Len(t, results, 2)

	assert.Equal(t, "전세 대출 총정리", results[0].Title, "bold tags stripped from API titles")
	assert.Equal(t, "머니블로그", results[0].Author)
	assert.Greater(t, len(results[0].Content), len("짧은 요약"),
		"top hits get their snippet replaced by full page content")
	assert.False(t, results[0].PublishedAt.IsZero())
}

func TestSearcher_CrawlForKeyword_FallsBackToGoogle(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<a href="/url?q=%s&amp;sa=U">result one</a>
			<a href="/url?q=%s&amp;sa=U">thin result</a>
		</body></html>`,
			server.URL+"%2Farticle", server.URL+"%2Fthin")
	})
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><title>2026 보험 비교 완벽 가이드</title></head><body><article>%s</article></body></html>`,
			strings.Repeat("보험 비교에 대한 상세한 설명 문단입니다. ", 40))
	})
	mux.HandleFunc("/thin", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>짧음</p></body></html>"))
	})

	// no naver credentials configured, cascade starts at the scrape
	s := NewSearcher(Config{UserAgent: "test", Timeout: 5 * time.Second})
	s.googleBase = server.URL
	s.daumBase = server.URL + "/unused"

	results := s.CrawlForKeyword(context.Background(), "보험 비교", 3)
	require.Len(t, results, 1, "thin pages under 100 chars are discarded")
	assert.Contains(t, results[0].Content, "보험 비교")
	assert.Equal(t, "2026 보험 비교 완벽 가이드", results[0].Title, "scraped results carry the page's own title")
	assert.Equal(t, "google_scrape", results[0].Metadata["provider"])
}

func TestSearcher_CrawlForKeyword_UntitledPageKeepsKeyword(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="/url?q=%s&amp;sa=U">result</a></body></html>`,
			server.URL+"%2Fbare")
	})
	mux.HandleFunc("/bare", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><article>%s</article></body></html>`,
			strings.Repeat("연금 저축에 대한 상세한 설명 문단입니다. ", 40))
	})

	s := NewSearcher(Config{UserAgent: "test", Timeout: 5 * time.Second})
	s.googleBase = server.URL
	s.daumBase = server.URL + "/unused"

	results := s.CrawlForKeyword(context.Background(), "연금 저축", 1)
	require.Len(t, results, 1)
	assert.Equal(t, "연금 저축", results[0].Title, "the query stands in for a missing page title")
}

func TestSearcher_CrawlForKeyword_DaumLastResort(t *testing.T) {
	googleMux := http.NewServeMux()
	googleSrv := httptest.NewServer(googleMux)
	defer googleSrv.Close()
	googleMux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>no results</body></html>"))
	})

	daumMux := http.NewServeMux()
	daumSrv := httptest.NewServer(daumMux)
	defer daumSrv.Close()
	daumMux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		// only the second link is on an allowed blog host
		fmt.Fprintf(w, `<html><body>
			<a href="https://somewhere.example.invalid/x">off-host</a>
			<a href="%s/123">blog post</a>
		</body></html>`, daumSrv.URL)
	})
	daumMux.HandleFunc("/123", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(longArticle("청약 조건")))
	})

	// treat the test server's host as a known blog host
	orig := blogHosts
	blogHosts = append([]string{"127.0.0.1"}, blogHosts...)
	defer func() { blogHosts = orig }()

	s := NewSearcher(Config{UserAgent: "test", Timeout: 5 * time.Second})
	s.googleBase = googleSrv.URL
	s.daumBase = daumSrv.URL

	results := s.CrawlForKeyword(context.Background(), "청약 조건", 3)
	require.Len(t, results, 1)
	assert.Equal(t, "daum_scrape", results[0].Metadata["provider"])
	assert.Contains(t, results[0].Content, "청약 조건")
}

func TestSearcher_CrawlForKeyword_AllProvidersEmpty(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>nothing here</body></html>"))
	})

	s := NewSearcher(Config{UserAgent: "test", Timeout: 5 * time.Second})
	s.googleBase = server.URL
	s.daumBase = server.URL

	results := s.CrawlForKeyword(context.Background(), "아무 키워드", 3)
	assert.Empty(t, results, "empty result is a valid outcome, not an error")
}

func TestExtractResultURLs(t *testing.T) {
	markup := `<a href="https://www.google.com/imghp">google</a>
<a href="/url?q=https://blog.naver.com/abc/1&amp;sa=U">r1</a>
<a href="/url?q=https://blog.naver.com/abc/1&amp;sa=U">dup</a>
<a href="/url?q=https://my.tistory.com/9&amp;sa=U">r2</a>`

	urls := extractResultURLs(markup, googleResultPatterns[0], nil)
	assert.Equal(t, []string{"https://blog.naver.com/abc/1", "https://my.tistory.com/9"}, urls)

	restricted := extractResultURLs(markup, googleResultPatterns[0], []string{"tistory.com"})
	assert.Equal(t, []string{"https://my.tistory.com/9"}, restricted)
}
