package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/edutainment-backend/internal/platform/httpx"
	"github.com/yungbote/edutainment-backend/internal/platform/llm"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

const DefaultModel = goopenai.GPT3Dot5Turbo16K

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// chatAPI is the slice of go-openai the client uses.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

type Client struct {
	log        *logger.Logger
	api        chatAPI
	model      string
	timeout    time.Duration
	maxRetries int
}

func NewClient(log *logger.Logger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	oc := goopenai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		oc.BaseURL = strings.TrimRight(base, "/")
	}
	return newClient(log, goopenai.NewClientWithConfig(oc), cfg), nil
}

func newClient(log *logger.Logger, api chatAPI, cfg Config) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		log:        log.With("client", "openai"),
		api:        api,
		model:      model,
		timeout:    timeout,
		maxRetries: maxRetries,
	}
}

func (c *Client) Provider() string { return "openai" }

// Complete sends one system + user exchange. Transient transport failures
// (429, 5xx, timeouts) are retried up to MaxRetries; anything else is returned.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}
	creq := goopenai.ChatCompletionRequest{
		Model:       model,
		Temperature: req.Temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.User},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err := c.create(ctx, creq)
		if err == nil {
			if len(resp.Choices) == 0 {
				return llm.Response{}, fmt.Errorf("openai: empty choices")
			}
			return llm.Response{
				Text:  strings.TrimSpace(resp.Choices[0].Message.Content),
				Model: resp.Model,
				Usage: llm.Usage{
					PromptTokens:     resp.Usage.PromptTokens,
					CompletionTokens: resp.Usage.CompletionTokens,
					TotalTokens:      resp.Usage.TotalTokens,
				},
			}, nil
		}
		lastErr = err
		if attempt == c.maxRetries || !httpx.IsRetryableError(err) {
			break
		}
		wait := httpx.JitterSleep(httpx.Backoff(attempt, time.Second, 20*time.Second))
		c.log.Warn("OpenAI request retrying", "attempt", attempt+1, "wait_ms", wait.Milliseconds(), "error", err)
		if sErr := httpx.Sleep(ctx, wait); sErr != nil {
			return llm.Response{}, sErr
		}
	}
	return llm.Response{}, lastErr
}

func (c *Client) create(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.api.CreateChatCompletion(callCtx, req)
	if err != nil {
		return resp, wrapError(err)
	}
	return resp, nil
}

// StatusError exposes the HTTP status of a failed OpenAI call.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openai: status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error       { return e.Err }
func (e *StatusError) HTTPStatusCode() int { return e.StatusCode }

func wrapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &StatusError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &StatusError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return fmt.Errorf("openai: %w", err)
}
