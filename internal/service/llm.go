package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Model defaults
const (
	DefaultModelBaseURL     = "https://api.openai.com/v1"
	DefaultModelName        = "gpt-4o-mini"
	DefaultModelTemperature = 0.4
	DefaultModelMaxTokens   = 800
	DefaultModelTimeout     = 60 * time.Second
)

// ErrModelUnavailable is returned when no model credential is configured
var ErrModelUnavailable = errors.New("model API key is not configured")

// CallError is a failed call to an external HTTP capability
type CallError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *CallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// ContentChunk is one piece of a multi-part model response
type ContentChunk struct {
	Type string
	Text *string
}

// ModelResponse is the model's reply reduced to its text content
type ModelResponse struct {
	Content string
	Chunks  []ContentChunk
}

// Text returns the reply text. Chunked replies are concatenated, skipping
// chunks that carry no text.
func (r *ModelResponse) Text() string {
	if r == nil {
		return ""
	}
	if r.Chunks == nil {
		return r.Content
	}
	var b strings.Builder
	for _, chunk := range r.Chunks {
		if chunk.Text != nil {
			b.WriteString(*chunk.Text)
		}
	}
	return b.String()
}

// ModelClient sends one prompt to a language model
type ModelClient interface {
	Invoke(ctx context.Context, prompt string) (*ModelResponse, error)
}

// ModelConfig configures OpenAIClient
type ModelConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func (c ModelConfig) withDefaults() ModelConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultModelBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModelName
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultModelMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultModelTimeout
	}
	return c
}

// OpenAIClient calls an OpenAI-compatible chat completions endpoint
type OpenAIClient struct {
	http   *resty.Client
	config ModelConfig
}

var _ ModelClient = (*OpenAIClient)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAIClient creates a client. It returns ErrModelUnavailable when the
// API key is empty so callers can run without a model.
func NewOpenAIClient(cfg ModelConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrModelUnavailable
	}
	cfg = cfg.withDefaults()

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &OpenAIClient{http: client, config: cfg}, nil
}

// Model returns the configured model identifier.
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Invoke sends prompt as a single user message.
func (c *OpenAIClient) Invoke(ctx context.Context, prompt string) (*ModelResponse, error) {
	var result chatResponse
	var apiErr chatError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.config.Model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: c.config.Temperature,
			MaxTokens:   c.config.MaxTokens,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return nil, &CallError{Op: "chat completion", Err: err}
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return nil, &CallError{Op: "chat completion", StatusCode: resp.StatusCode(), Err: errors.New(msg)}
	}
	if len(result.Choices) == 0 {
		return nil, &CallError{Op: "chat completion", Err: errors.New("response has no choices")}
	}

	out, err := adaptMessageContent(result.Choices[0].Message.Content)
	if err != nil {
		return nil, &CallError{Op: "chat completion", Err: err}
	}
	return out, nil
}

// adaptMessageContent accepts either a plain string or a list of content
// parts, the two shapes chat completion APIs return.
func adaptMessageContent(raw json.RawMessage) (*ModelResponse, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return &ModelResponse{}, nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode message content: %w", err)
		}
		return &ModelResponse{Content: s}, nil
	case '[':
		var parts []map[string]any
		if err := json.Unmarshal(raw, &parts); err != nil {
			return nil, fmt.Errorf("decode message content parts: %w", err)
		}
		chunks := make([]ContentChunk, 0, len(parts))
		for _, part := range parts {
			chunk := ContentChunk{}
			if t, ok := part["type"].(string); ok {
				chunk.Type = t
			}
			if text, ok := part["text"].(string); ok {
				chunk.Text = &text
			}
			chunks = append(chunks, chunk)
		}
		return &ModelResponse{Chunks: chunks}, nil
	default:
		return nil, fmt.Errorf("unsupported message content: %.40s", trimmed)
	}
}
