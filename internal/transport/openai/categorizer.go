package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/category"
	"github.com/kailas-cloud/archivist/internal/domain/upload"
)

const systemPrompt = `You classify files uploaded to a digital archive.
Answer with a JSON object {"category": string, "tags": [string]}.
category must be one of: %s.
tags are 1 to 5 short lower-case keywords describing the content.`

// maxTags caps tags taken from a model answer.
const maxTags = 5

// Categorizer suggests categories with an OpenAI-compatible chat model.
type Categorizer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the chat provider settings.
type Config struct {
	APIKey  string
	BaseURL string // empty = api.openai.com
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewCategorizer creates an OpenAI-compatible categorizer.
func NewCategorizer(cfg *Config) *Categorizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Categorizer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Categorize implements category.Categorizer.
// Every failure is wrapped with domain.ErrCategorizerProviderError.
func (c *Categorizer) Categorize(ctx context.Context, hint category.Hint) (category.Suggestion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, groupList())},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(hint)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return category.Suggestion{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return category.Suggestion{}, fmt.Errorf("empty chat response: %w", domain.ErrCategorizerProviderError)
	}

	s, err := parseAnswer(resp.Choices[0].Message.Content)
	if err != nil {
		return category.Suggestion{}, err
	}

	c.logger.Debug("Chat categorize completed",
		zap.String("model", c.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return s, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Categorizer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func userPrompt(hint category.Hint) string {
	var b strings.Builder
	if hint.FileName != "" {
		fmt.Fprintf(&b, "File name: %s\n", hint.FileName)
	}
	if hint.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", hint.Title)
	}
	if hint.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", hint.Description)
	}
	return b.String()
}

func groupList() string {
	groups := upload.Groups()
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

// parseAnswer decodes the model's JSON answer and normalizes it.
func parseAnswer(content string) (category.Suggestion, error) {
	var answer struct {
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return category.Suggestion{}, fmt.Errorf("decode chat answer: %w: %w", domain.ErrCategorizerProviderError, err)
	}

	g := upload.Group(strings.ToLower(strings.TrimSpace(answer.Category)))
	if !g.IsValid() {
		return category.Suggestion{}, fmt.Errorf("unknown category %q in chat answer: %w",
			answer.Category, domain.ErrCategorizerProviderError)
	}

	tags := make([]string, 0, maxTags)
	for _, t := range answer.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		tags = append(tags, t)
		if len(tags) == maxTags {
			break
		}
	}
	return category.Suggestion{Category: string(g), Tags: tags, Source: category.SourceModel}, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrCategorizerProviderError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrCategorizerProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("chat request: %w", err)
	}
	return fmt.Errorf("chat request failed: %w: %w", wrap, err)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
