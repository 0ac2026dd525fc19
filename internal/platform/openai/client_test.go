package openai

import (
	"context"
	"net/http"
	"testing"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/edutainment-backend/internal/platform/llm"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type fakeChat struct {
	calls     int
	failFirst int
	status    int
	last      goopenai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	f.calls++
	f.last = req
	if f.calls <= f.failFirst {
		return goopenai.ChatCompletionResponse{}, &goopenai.APIError{HTTPStatusCode: f.status, Message: "boom"}
	}
	return goopenai.ChatCompletionResponse{
		Model: req.Model,
		Choices: []goopenai.ChatCompletionChoice{
			{Message: goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: "  {\"topics\": []}\n"}},
		},
		Usage: goopenai.Usage{PromptTokens: 10, CompletionTokens: 4, TotalTokens: 14},
	}, nil
}

func TestCompleteBuildsRequest(t *testing.T) {
	fc := &fakeChat{}
	c := newClient(logger.Nop(), fc, Config{})
	resp, err := c.Complete(context.Background(), llm.Request{System: "sys", User: "usr", Temperature: 0.6})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if fc.last.Model != DefaultModel {
		t.Fatalf("model: got %q", fc.last.Model)
	}
	if fc.last.Temperature != 0.6 {
		t.Fatalf("temperature: got %v", fc.last.Temperature)
	}
	if len(fc.last.Messages) != 2 || fc.last.Messages[0].Role != goopenai.ChatMessageRoleSystem || fc.last.Messages[1].Content != "usr" {
		t.Fatalf("messages: %+v", fc.last.Messages)
	}
	if resp.Text != "{\"topics\": []}" {
		t.Fatalf("text not trimmed: %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 14 {
		t.Fatalf("usage: %+v", resp.Usage)
	}
}

func TestCompleteRetriesTransientStatus(t *testing.T) {
	fc := &fakeChat{failFirst: 1, status: http.StatusServiceUnavailable}
	c := newClient(logger.Nop(), fc, Config{MaxRetries: 1, Timeout: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := c.Complete(ctx, llm.Request{User: "u"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if fc.calls != 2 {
		t.Fatalf("calls: got %d want 2", fc.calls)
	}
}

func TestCompleteDoesNotRetryClientError(t *testing.T) {
	fc := &fakeChat{failFirst: 5, status: http.StatusUnauthorized}
	c := newClient(logger.Nop(), fc, Config{MaxRetries: 3})
	_, err := c.Complete(context.Background(), llm.Request{User: "u"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if fc.calls != 1 {
		t.Fatalf("calls: got %d want 1", fc.calls)
	}
	se, ok := err.(*StatusError)
	if !ok || se.HTTPStatusCode() != http.StatusUnauthorized {
		t.Fatalf("unexpected error: %#v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); err == nil {
		t.Fatalf("expected missing key error")
	}
}
