// Package generator produces blog post drafts through an OpenAI-compatible
// chat completion API.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/config"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// Generator calls the generation service to write posts
type Generator struct {
	client    *openai.Client
	config    config.GenerationConfig
	systemMsg string
}

// New creates a generator from the generation config
func New(cfg config.GenerationConfig) *Generator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &Generator{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
	}
}

// default system prompt for Korean blog post writing
const defaultSystemPrompt = `당신은 한국어 블로그 전문 작가입니다. 주어진 키워드와 참고 자료를 바탕으로 블로그 글을 마크다운으로 작성하세요.

작성 규칙:
- 제목은 # 헤딩 하나, 본문 섹션은 ## 헤딩 2개 이상으로 구성
- 대상 키워드를 본문에서 자연스럽게 사용 (전체 단어의 1~4% 수준)
- 금액, 비율, 기간 등 구체적인 수치를 반드시 포함
- 문장은 짧고 명확하게, 한 문장 15~25 단어
- 마지막 단락에 독자 행동을 유도하는 문장 포함 (확인해보세요, 신청하세요 등)
- 참고 자료의 사실만 사용하고 문장을 그대로 베끼지 말 것
- 출처 표기, 면책 문구, 메타 설명은 쓰지 말 것

응답은 마크다운 본문만 출력하세요. 설명이나 인사말 없이 바로 글을 시작하세요.`

// reference excerpts are truncated before prompting, bounding token cost
const maxReferenceChars = 2000

// Request carries everything needed to draft one post
type Request struct {
	Analysis        domain.KeywordAnalysis
	Title           string
	References      []domain.CrawledContent
	TargetWordCount int
}

// Result is a finished draft with usage accounting
type Result struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Elapsed          time.Duration
}

// Configured reports whether the generator can reach a service. Local
// endpoints work without a key, the default OpenAI endpoint does not.
func (g *Generator) Configured() bool {
	if g.config.Model == "" {
		return false
	}
	return g.config.APIKey != "" || g.config.Endpoint != ""
}

// Generate writes one post draft from the request
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Analysis.Keyword == "" {
		return nil, fmt.Errorf("empty keyword")
	}

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       g.config.Model,
		Temperature: float32(g.config.Temperature),
		MaxTokens:   g.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: g.systemMsg,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(req),
			},
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from generation service")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("empty draft from generation service")
	}

	model := resp.Model
	if model == "" {
		model = g.config.Model
	}

	return &Result{
		Content:          content,
		Model:            model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		Elapsed:          time.Since(start),
	}, nil
}

// buildPrompt creates the user prompt for one draft
func buildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("대상 키워드: %s\n", req.Analysis.Keyword))
	if req.Title != "" {
		sb.WriteString(fmt.Sprintf("제목: %s\n", req.Title))
	}
	if req.Analysis.SuggestedCategory != "" {
		sb.WriteString(fmt.Sprintf("카테고리: %s\n", req.Analysis.SuggestedCategory))
	}
	if req.TargetWordCount > 0 {
		sb.WriteString(fmt.Sprintf("목표 분량: 약 %d 단어\n", req.TargetWordCount))
	}
	if len(req.Analysis.LongTailVariants) > 0 {
		limit := len(req.Analysis.LongTailVariants)
		if limit > 5 {
			limit = 5
		}
		sb.WriteString(fmt.Sprintf("함께 다룰 연관 키워드: %s\n", strings.Join(req.Analysis.LongTailVariants[:limit], ", ")))
	}

	if len(req.References) > 0 {
		sb.WriteString("\n참고 자료:\n")
		for i, ref := range req.References {
			sb.WriteString(fmt.Sprintf("\n[자료 %d] %s\n", i+1, ref.Title))
			excerpt := []rune(ref.Content)
			if len(excerpt) > maxReferenceChars {
				excerpt = excerpt[:maxReferenceChars]
			}
			sb.WriteString(string(excerpt))
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("\n참고 자료 없음: 일반적으로 알려진 사실만으로 작성하되 구체적인 수치 예시를 포함하세요.\n")
	}

	sb.WriteString("\n위 정보를 바탕으로 블로그 글을 작성하세요.\n")
	return sb.String()
}
