// Package gemini adapts the Google GenAI SDK to the llm and tts contracts.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yungbote/edutainment-backend/internal/platform/llm"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
	"github.com/yungbote/edutainment-backend/internal/platform/tts"
)

const (
	DefaultModel    = "gemini-2.5-flash"
	DefaultTTSModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice    = "Kore"

	// Gemini TTS returns raw 16-bit mono PCM at this rate.
	pcmSampleRate = 24000
)

type Config struct {
	APIKey   string
	Model    string
	TTSModel string
	Voice    string
}

// contentAPI is the slice of genai.Models the client uses.
type contentAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	log      *logger.Logger
	models   contentAPI
	model    string
	ttsModel string
	voice    string
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	c := newClient(log, gc.Models, cfg)
	c.log.Info("Gemini client initialized", "model", c.model, "tts_model", c.ttsModel, "voice", c.voice)
	return c, nil
}

func newClient(log *logger.Logger, models contentAPI, cfg Config) *Client {
	return &Client{
		log:      log.With("client", "gemini"),
		models:   models,
		model:    firstNonEmpty(cfg.Model, DefaultModel),
		ttsModel: firstNonEmpty(cfg.TTSModel, DefaultTTSModel),
		voice:    firstNonEmpty(cfg.Voice, DefaultVoice),
	}
}

func (c *Client) Provider() string { return "gemini" }

func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	model := firstNonEmpty(req.Model, c.model)
	temp := req.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	result, err := c.models.GenerateContent(ctx, model, genai.Text(req.User), cfg)
	if err != nil {
		return llm.Response{}, fmt.Errorf("gemini generate: %w", err)
	}
	if result == nil {
		return llm.Response{}, fmt.Errorf("gemini generate: empty response")
	}
	out := llm.Response{
		Text:  strings.TrimSpace(result.Text()),
		Model: model,
	}
	if u := result.UsageMetadata; u != nil {
		out.Usage = llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// Speech returns a tts.Synthesizer view of the client.
func (c *Client) Speech() tts.Synthesizer { return speech{c: c} }

type speech struct{ c *Client }

func (s speech) Provider() string { return "gemini" }

func (s speech) Synthesize(ctx context.Context, text string) (tts.Audio, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: s.c.voice,
				},
			},
		},
	}
	result, err := s.c.models.GenerateContent(ctx, s.c.ttsModel, genai.Text(text), cfg)
	if err != nil {
		return tts.Audio{}, fmt.Errorf("gemini tts: %w", err)
	}
	pcm, err := inlineAudio(result)
	if err != nil {
		return tts.Audio{}, err
	}
	wavBytes, err := encodeWAV(pcm, pcmSampleRate)
	if err != nil {
		return tts.Audio{}, fmt.Errorf("gemini tts: encode wav: %w", err)
	}
	return tts.Audio{Data: wavBytes, Ext: "wav", ContentType: "audio/wav"}, nil
}

func inlineAudio(result *genai.GenerateContentResponse) ([]byte, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini tts: no candidates")
	}
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, fmt.Errorf("gemini tts: no inline audio")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
