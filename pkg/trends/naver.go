package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// NaverSource queries the Naver DataLab search-trend API for a fixed set of
// seed keyword groups. It is credential-gated: the aggregator only wires it
// in when a client id and secret are configured.
type NaverSource struct {
	baseURL      string
	clientID     string
	clientSecret string
	seeds        []seedGroup
	client       *http.Client
}

type seedGroup struct {
	name     string
	keywords []string
	category string
}

// defaultSeeds cover the high-CPC niches worth tracking week over week
var defaultSeeds = []seedGroup{
	{name: "대출", keywords: []string{"대출", "대출 조건", "대출 금리"}, category: "금융"},
	{name: "보험", keywords: []string{"보험", "보험 비교", "실비보험"}, category: "보험"},
	{name: "지원금", keywords: []string{"지원금", "정부지원금", "청년 지원금"}, category: "정책지원"},
	{name: "재테크", keywords: []string{"재테크", "적금 금리", "ISA 계좌"}, category: "재테크"},
	{name: "부동산", keywords: []string{"청약", "전세", "아파트 분양"}, category: "부동산"},
}

// NewNaverSource creates the DataLab-backed source. baseURL is overridable
// for tests; empty means the production endpoint.
func NewNaverSource(baseURL, clientID, clientSecret string, timeout time.Duration) *NaverSource {
	if baseURL == "" {
		baseURL = "https://openapi.naver.com"
	}
	return &NaverSource{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		seeds:        defaultSeeds,
		client:       &http.Client{Timeout: timeout},
	}
}

// Name identifies the source in logs
func (s *NaverSource) Name() string { return "naver-datalab" }

type datalabRequest struct {
	StartDate     string         `json:"startDate"`
	EndDate       string         `json:"endDate"`
	TimeUnit      string         `json:"timeUnit"`
	KeywordGroups []datalabGroup `json:"keywordGroups"`
}

type datalabGroup struct {
	GroupName string   `json:"groupName"`
	Keywords  []string `json:"keywords"`
}

type datalabResponse struct {
	Results []struct {
		Title string `json:"title"`
		Data  []struct {
			Period string  `json:"period"`
			Ratio  float64 `json:"ratio"`
		} `json:"data"`
	} `json:"results"`
}

// Fetch asks DataLab for the last four weeks of relative search ratios and
// turns the latest ratio of each seed group into a trend score
func (s *NaverSource) Fetch(ctx context.Context) ([]domain.TrendingTopic, error) {
	if s.clientID == "" || s.clientSecret == "" {
		return nil, nil
	}

	now := time.Now()
	reqBody := datalabRequest{
		StartDate: now.AddDate(0, 0, -28).Format("2006-01-02"),
		EndDate:   now.Format("2006-01-02"),
		TimeUnit:  "week",
	}
	for _, g := range s.seeds {
		reqBody.KeywordGroups = append(reqBody.KeywordGroups, datalabGroup{
			GroupName: g.name,
			Keywords:  g.keywords,
		})
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal datalab request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/datalab/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", s.clientID)
	req.Header.Set("X-Naver-Client-Secret", s.clientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("datalab request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var parsed datalabResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode datalab response: %w", err)
	}

	categories := make(map[string]seedGroup, len(s.seeds))
	for _, g := range s.seeds {
		categories[g.name] = g
	}

	topics := make([]domain.TrendingTopic, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if len(r.Data) == 0 {
			continue
		}
		seed := categories[r.Title]
		latest := r.Data[len(r.Data)-1].Ratio // ratio is already relative, 0-100
		topics = append(topics, domain.TrendingTopic{
			Keyword:         r.Title,
			Source:          domain.SourceNaverAPI,
			Category:        seed.category,
			TrendScore:      latest,
			RelatedKeywords: capRelated(append([]string(nil), seed.keywords...)),
			FetchedAt:       now,
			KeywordType:     domain.KeywordTrending,
		})
	}
	return topics, nil
}
