package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultBaseURL = "https://api.avalai.ir/v1"
	defaultModel   = "gpt-4o-mini"

	requestTimeout = 30 * time.Second
	temperature    = 0.2
)

var ErrDisabled = errors.New("llm disabled: no api key configured")

// Client wraps the chat-completions endpoint of an OpenAI-compatible
// gateway. Without an API key it stays disabled and every call returns
// ErrDisabled; callers fall back to deterministic scoring.
type Client struct {
	api    *openai.Client
	model  string
	logger *log.Logger
}

// NewClient builds the client from the environment. OPENAI_API_KEY takes
// precedence over AVALAI_API_KEY, matching the gateway's docs.
func NewClient(logger *log.Logger) *Client {
	key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if key == "" {
		key = strings.TrimSpace(os.Getenv("AVALAI_API_KEY"))
	}
	if key == "" {
		if logger != nil {
			logger.Printf("[LLM] no API key configured, using fallback scoring only")
		}
		return &Client{logger: logger}
	}

	baseURL := normalizeBaseURL(os.Getenv("AVALAI_BASE_URL"))
	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = strings.TrimSpace(os.Getenv("AVALAI_MODEL"))
	}
	if model == "" {
		model = defaultModel
	}

	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = baseURL
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, logger: logger}
}

// normalizeBaseURL forces https and fills in the default gateway. The
// gateway rejects plain http, and a bare host is taken as a scheme-less URL.
func normalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return defaultBaseURL
	}
	if strings.HasPrefix(base, "http://") {
		return "https://" + strings.TrimPrefix(base, "http://")
	}
	if !strings.HasPrefix(base, "https://") {
		return "https://" + strings.TrimLeft(base, "/")
	}
	return base
}

func (c *Client) Enabled() bool {
	return c != nil && c.api != nil
}

func (c *Client) Model() string {
	if c == nil {
		return defaultModel
	}
	return c.model
}

// Complete sends one system+user exchange and returns the raw content of
// the first choice.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[LLM] chat completion failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty choices")
	}
	if c.logger != nil {
		c.logger.Printf("[LLM] chat completion ok model=%s tokens=%d duration=%s",
			c.model, resp.Usage.TotalTokens, time.Since(start).Round(time.Millisecond))
	}
	return resp.Choices[0].Message.Content, nil
}

// ExtractJSON cuts the first balanced-looking JSON object out of a model
// reply. Models wrap JSON in markdown fences often enough that parsing the
// raw content directly is not reliable.
func ExtractJSON(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return strings.TrimSpace(content[start : end+1]), true
}
