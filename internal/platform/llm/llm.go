// Package llm holds the provider-neutral chat completion contract shared by
// the OpenAI and Gemini clients.
package llm

import "context"

type Request struct {
	Model       string
	System      string
	User        string
	Temperature float32
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Response struct {
	Text  string
	Model string
	Usage Usage
}

type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Provider() string
}
