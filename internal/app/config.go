package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/edutainment-backend/internal/data/db"
	"github.com/yungbote/edutainment-backend/internal/learning/content"
	"github.com/yungbote/edutainment-backend/internal/observability"
	"github.com/yungbote/edutainment-backend/internal/platform/elevenlabs"
	"github.com/yungbote/edutainment-backend/internal/platform/envutil"
	"github.com/yungbote/edutainment-backend/internal/platform/gcp"
	"github.com/yungbote/edutainment-backend/internal/platform/gemini"
	"github.com/yungbote/edutainment-backend/internal/platform/keylock"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
	"github.com/yungbote/edutainment-backend/internal/platform/openai"
)

const (
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderElevenLabs = "elevenlabs"
	ProviderNone       = "none"

	StorageLocal = "local"
	StorageGCS   = "gcs"
)

type Config struct {
	LogMode string
	Port    string
	// Debug switches CORS to the dev whitelist and tags every row debug=true.
	Debug bool

	Postgres db.PostgresConfig

	LLMProvider    string
	LLMModel       string
	LLMTemperature float32
	OpenAI         openai.Config
	Gemini         gemini.Config

	TTSProvider string
	ElevenLabs  elevenlabs.Config

	NarrationStorage     string
	NarrationDir         string
	NarrationBucket      string
	ObjectStorage        gcp.ObjectStorageConfig
	NarrationConcurrency int

	Redis   keylock.RedisConfig
	LockTTL time.Duration

	DocumentAI gcp.DocAIConfig

	MaxUploadBytes int64

	Tracing observability.TracingConfig
}

// LoadConfig reads the environment. Missing required values are reported by
// variable name.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		LogMode:        envutil.String("LOG_MODE", "development"),
		Port:           envutil.String("PORT", "4000"),
		Debug:          envutil.Bool("DEBUG", false),
		Postgres:       loadPostgresConfig(),
		LLMProvider:    strings.ToLower(envutil.String("LLM_PROVIDER", ProviderOpenAI)),
		LLMTemperature: float32(envutil.Float("LLM_TEMPERATURE", float64(content.DefaultTemperature))),
		TTSProvider:    strings.ToLower(envutil.String("TTS_PROVIDER", ProviderElevenLabs)),
		ElevenLabs: elevenlabs.Config{
			APIKey:     envutil.String("ELEVEN_LABS_API_KEY", ""),
			BaseURL:    envutil.String("ELEVEN_LABS_BASE_URL", elevenlabs.DefaultBaseURL),
			VoiceID:    envutil.String("ELEVEN_LABS_VOICE_ID", elevenlabs.DefaultVoiceID),
			ModelID:    envutil.String("ELEVEN_LABS_MODEL_ID", elevenlabs.DefaultModelID),
			MaxRetries: envutil.Int("ELEVEN_LABS_MAX_RETRIES", 2),
		},
		NarrationStorage:     strings.ToLower(envutil.String("NARRATION_STORAGE", StorageLocal)),
		NarrationDir:         envutil.String("NARRATION_DIR", "."),
		NarrationBucket:      envutil.String("NARRATION_GCS_BUCKET_NAME", ""),
		NarrationConcurrency: envutil.Int("NARRATION_CONCURRENCY", 1),
		Redis: keylock.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
		},
		LockTTL: envutil.Seconds("GENERATION_LOCK_TTL_SECONDS", 300*time.Second),
		DocumentAI: gcp.DocAIConfig{
			ProjectID:   envutil.String("DOCUMENTAI_PROJECT_ID", ""),
			Location:    envutil.String("DOCUMENTAI_LOCATION", "us"),
			ProcessorID: envutil.String("DOCUMENTAI_PROCESSOR_ID", ""),
		},
		MaxUploadBytes: int64(envutil.Int("MAX_UPLOAD_MB", 32)) << 20,
		Tracing: observability.TracingConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", observability.DefaultServiceName),
			Environment: envutil.String("OTEL_ENVIRONMENT", ""),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		},
	}

	if _, err := cfg.Postgres.BuildDSN(); err != nil {
		return cfg, err
	}
	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > content.MaxTemperature {
		return cfg, fmt.Errorf("LLM_TEMPERATURE=%v must be between 0 and %v", cfg.LLMTemperature, content.MaxTemperature)
	}

	switch cfg.LLMProvider {
	case ProviderOpenAI:
		cfg.OpenAI = openai.Config{
			APIKey:     envutil.String("OPENAI_API_KEY", ""),
			BaseURL:    envutil.String("OPENAI_BASE_URL", ""),
			MaxRetries: envutil.Int("OPENAI_MAX_RETRIES", 2),
		}
		if cfg.OpenAI.APIKey == "" {
			return cfg, missing("OPENAI_API_KEY")
		}
		cfg.LLMModel = envutil.String("LLM_MODEL", openai.DefaultModel)
		cfg.OpenAI.Model = cfg.LLMModel
	case ProviderGemini:
		cfg.LLMModel = envutil.String("LLM_MODEL", gemini.DefaultModel)
	default:
		return cfg, fmt.Errorf("unsupported LLM_PROVIDER %q (allowed: %s, %s)", cfg.LLMProvider, ProviderOpenAI, ProviderGemini)
	}

	switch cfg.TTSProvider {
	case ProviderElevenLabs:
		if cfg.ElevenLabs.APIKey == "" {
			return cfg, missing("ELEVEN_LABS_API_KEY")
		}
	case ProviderGemini, ProviderNone:
	default:
		return cfg, fmt.Errorf("unsupported TTS_PROVIDER %q (allowed: %s, %s, %s)", cfg.TTSProvider, ProviderElevenLabs, ProviderGemini, ProviderNone)
	}

	if cfg.LLMProvider == ProviderGemini || cfg.TTSProvider == ProviderGemini {
		cfg.Gemini = gemini.Config{
			APIKey: envutil.String("GEMINI_API_KEY", ""),
			Model:  cfg.LLMModel,
			Voice:  envutil.String("GEMINI_TTS_VOICE", gemini.DefaultVoice),
		}
		if cfg.Gemini.APIKey == "" {
			return cfg, missing("GEMINI_API_KEY")
		}
	}

	switch cfg.NarrationStorage {
	case StorageLocal:
	case StorageGCS:
		if cfg.NarrationBucket == "" {
			return cfg, missing("NARRATION_GCS_BUCKET_NAME")
		}
		storageCfg, err := gcp.ResolveObjectStorageConfigFromEnv()
		if err != nil {
			return cfg, err
		}
		cfg.ObjectStorage = storageCfg
	default:
		return cfg, fmt.Errorf("unsupported NARRATION_STORAGE %q (allowed: %s, %s)", cfg.NarrationStorage, StorageLocal, StorageGCS)
	}

	log.Info("Configuration loaded",
		"debug", cfg.Debug,
		"llm_provider", cfg.LLMProvider,
		"llm_model", cfg.LLMModel,
		"tts_provider", cfg.TTSProvider,
		"narration_storage", cfg.NarrationStorage,
		"redis_lock", cfg.Redis.Addr != "",
		"ocr", cfg.DocumentAI.Enabled(),
	)
	return cfg, nil
}

func loadPostgresConfig() db.PostgresConfig {
	return db.PostgresConfig{
		DSN:      envutil.String("DATABASE_URL", ""),
		Host:     envutil.String("DB_PROD_HOSTNAME", ""),
		Name:     envutil.String("DB_PROD_DB_NAME", ""),
		User:     envutil.String("DB_PROD_USERNAME", ""),
		Password: envutil.String("DB_PROD_PASSWORD", ""),
		SSLMode:  envutil.String("DB_SSLMODE", ""),
	}
}

func missing(name string) error {
	return fmt.Errorf("missing env var %s", name)
}
