package app

import (
	"context"
	"fmt"

	"github.com/yungbote/edutainment-backend/internal/learning/narration"
	"github.com/yungbote/edutainment-backend/internal/platform/elevenlabs"
	"github.com/yungbote/edutainment-backend/internal/platform/gcp"
	"github.com/yungbote/edutainment-backend/internal/platform/gemini"
	"github.com/yungbote/edutainment-backend/internal/platform/keylock"
	"github.com/yungbote/edutainment-backend/internal/platform/llm"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
	"github.com/yungbote/edutainment-backend/internal/platform/openai"
	"github.com/yungbote/edutainment-backend/internal/platform/tts"
)

type Clients struct {
	LLM llm.Client
	// Speech is nil when TTS_PROVIDER=none.
	Speech    tts.Synthesizer
	Narration narration.Store
	// Document is nil unless Document AI is configured.
	Document gcp.Document
	Locks    keylock.Locker

	bucket gcp.BucketService
	redis  *keylock.Redis
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	var gem *gemini.Client
	if cfg.LLMProvider == ProviderGemini || cfg.TTSProvider == ProviderGemini {
		g, err := gemini.NewClient(ctx, log, cfg.Gemini)
		if err != nil {
			return c, fmt.Errorf("init gemini client: %w", err)
		}
		gem = g
	}

	// LLM
	switch cfg.LLMProvider {
	case ProviderGemini:
		c.LLM = gem
	default:
		oc, err := openai.NewClient(log, cfg.OpenAI)
		if err != nil {
			return c, fmt.Errorf("init openai client: %w", err)
		}
		c.LLM = oc
	}

	// TTS
	switch cfg.TTSProvider {
	case ProviderElevenLabs:
		el, err := elevenlabs.NewClient(log, cfg.ElevenLabs)
		if err != nil {
			return c, fmt.Errorf("init elevenlabs client: %w", err)
		}
		c.Speech = el
	case ProviderGemini:
		c.Speech = gem.Speech()
	default:
		log.Warn("Narration disabled (TTS_PROVIDER=none)")
	}

	// Narration storage
	store, bucket, err := resolveNarrationStore(log, cfg)
	if err != nil {
		return c, err
	}
	c.Narration, c.bucket = store, bucket

	// OCR
	if cfg.DocumentAI.Enabled() {
		doc, err := gcp.NewDocument(ctx, log, cfg.DocumentAI)
		if err != nil {
			c.Close()
			return c, fmt.Errorf("init document ai: %w", err)
		}
		c.Document = doc
	}

	// Generation lock
	if cfg.Redis.Addr != "" {
		r, err := keylock.NewRedis(log, cfg.Redis)
		if err != nil {
			c.Close()
			return c, fmt.Errorf("init redis lock: %w", err)
		}
		c.redis = r
		c.Locks = r
	} else {
		c.Locks = keylock.NewLocal()
	}
	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.Document != nil {
		_ = c.Document.Close()
	}
	if c.bucket != nil {
		_ = c.bucket.Close()
	}
}
