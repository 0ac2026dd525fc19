package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/edutainment-backend/internal/platform/httpx"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
	"github.com/yungbote/edutainment-backend/internal/platform/tts"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultVoiceID = "ThT5KcBeYPX3keUQqHPh"
	DefaultModelID = "eleven_monolingual_v1"
)

type Config struct {
	APIKey     string
	BaseURL    string
	VoiceID    string
	ModelID    string
	Timeout    time.Duration
	MaxRetries int
}

type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// HTTPError is a non-2xx reply from the API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("elevenlabs: status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

type Client struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	voiceID    string
	modelID    string
	settings   VoiceSettings
	maxRetries int
}

func NewClient(log *logger.Logger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing ELEVEN_LABS_API_KEY")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	voice := strings.TrimSpace(cfg.VoiceID)
	if voice == "" {
		voice = DefaultVoiceID
	}
	model := strings.TrimSpace(cfg.ModelID)
	if model == "" {
		model = DefaultModelID
	}
	return &Client{
		log:        log.With("client", "elevenlabs"),
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		apiKey:     cfg.APIKey,
		voiceID:    voice,
		modelID:    model,
		settings:   VoiceSettings{Stability: 0.5, SimilarityBoost: 0.5},
		maxRetries: cfg.MaxRetries,
	}, nil
}

func (c *Client) Provider() string { return "elevenlabs" }

// Synthesize returns MP3 audio for text.
func (c *Client) Synthesize(ctx context.Context, text string) (tts.Audio, error) {
	body, err := json.Marshal(synthesisRequest{
		Text:          text,
		ModelID:       c.modelID,
		VoiceSettings: c.settings,
	})
	if err != nil {
		return tts.Audio{}, err
	}
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voiceID)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		data, resp, err := c.do(ctx, endpoint, body)
		if err == nil {
			return tts.Audio{Data: data, Ext: "mp3", ContentType: "audio/mpeg"}, nil
		}
		lastErr = err
		if attempt == c.maxRetries || !httpx.IsRetryableError(err) {
			break
		}
		wait := httpx.JitterSleep(httpx.RetryAfterDuration(resp, httpx.Backoff(attempt, 500*time.Millisecond, 10*time.Second), 30*time.Second))
		c.log.Warn("ElevenLabs request retrying", "attempt", attempt+1, "wait_ms", wait.Milliseconds(), "error", err)
		if sErr := httpx.Sleep(ctx, wait); sErr != nil {
			return tts.Audio{}, sErr
		}
	}
	return tts.Audio{}, lastErr
}

func (c *Client) do(ctx context.Context, endpoint string, body []byte) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("elevenlabs: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, fmt.Errorf("elevenlabs: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(data))
		if len(msg) > 512 {
			msg = msg[:512]
		}
		return nil, resp, &HTTPError{StatusCode: resp.StatusCode, Body: msg}
	}
	return data, resp, nil
}
