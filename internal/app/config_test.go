package app

import (
	"strings"
	"testing"

	"github.com/yungbote/edutainment-backend/internal/platform/elevenlabs"
	"github.com/yungbote/edutainment-backend/internal/platform/gcp"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

// baseEnv is the smallest working environment: OpenAI text, ElevenLabs audio,
// local narration files.
func baseEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"DATABASE_URL":        "postgres://u:p@localhost:5432/edu",
		"OPENAI_API_KEY":      "sk-test",
		"ELEVEN_LABS_API_KEY": "el-test",
		"LLM_PROVIDER":        "",
		"LLM_MODEL":           "",
		"TTS_PROVIDER":        "",
		"NARRATION_STORAGE":   "",
		"GEMINI_API_KEY":      "",
		"DEBUG":               "",
		"REDIS_ADDR":          "",
		"LLM_TEMPERATURE":     "",
	} {
		t.Setenv(k, v)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	baseEnv(t)
	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "4000" || cfg.Debug {
		t.Fatalf("port=%q debug=%v", cfg.Port, cfg.Debug)
	}
	if cfg.LLMProvider != ProviderOpenAI || cfg.LLMModel != "gpt-3.5-turbo-16k" || cfg.OpenAI.Model != cfg.LLMModel {
		t.Fatalf("llm: provider=%q model=%q", cfg.LLMProvider, cfg.LLMModel)
	}
	if cfg.LLMTemperature != 0.6 {
		t.Fatalf("temperature=%v", cfg.LLMTemperature)
	}
	if cfg.ElevenLabs.VoiceID != elevenlabs.DefaultVoiceID || cfg.ElevenLabs.ModelID != elevenlabs.DefaultModelID {
		t.Fatalf("elevenlabs: %#v", cfg.ElevenLabs)
	}
	if cfg.NarrationStorage != StorageLocal || cfg.NarrationDir != "." || cfg.NarrationConcurrency != 1 {
		t.Fatalf("narration: %q %q %d", cfg.NarrationStorage, cfg.NarrationDir, cfg.NarrationConcurrency)
	}
	if cfg.MaxUploadBytes != 32<<20 {
		t.Fatalf("max upload=%d", cfg.MaxUploadBytes)
	}
}

func TestLoadConfigDebugFlag(t *testing.T) {
	baseEnv(t)
	t.Setenv("DEBUG", "TRUE")
	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Debug {
		t.Fatalf("DEBUG=TRUE should enable debug")
	}
}

func TestLoadConfigGemini(t *testing.T) {
	baseEnv(t)
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("TTS_PROVIDER", "gemini")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "g-test")
	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLMModel != "gemini-2.5-flash" || cfg.Gemini.APIKey != "g-test" || cfg.Gemini.Voice != "Kore" {
		t.Fatalf("gemini: model=%q cfg=%#v", cfg.LLMModel, cfg.Gemini)
	}
}

func TestLoadConfigGCSNarration(t *testing.T) {
	baseEnv(t)
	t.Setenv("NARRATION_STORAGE", "gcs")
	t.Setenv("NARRATION_GCS_BUCKET_NAME", "edu-audio")
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_EMULATOR_HOST", "http://fake-gcs:4443")
	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ObjectStorage.Mode != gcp.ObjectStorageModeGCSEmulator || !cfg.ObjectStorage.CompatibilityFallback {
		t.Fatalf("object storage: %#v", cfg.ObjectStorage)
	}
}

func TestLoadConfigMissingValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"database", map[string]string{"DATABASE_URL": ""}, "DATABASE_URL"},
		{"openai key", map[string]string{"OPENAI_API_KEY": ""}, "OPENAI_API_KEY"},
		{"elevenlabs key", map[string]string{"ELEVEN_LABS_API_KEY": ""}, "ELEVEN_LABS_API_KEY"},
		{"gemini key", map[string]string{"TTS_PROVIDER": "gemini"}, "GEMINI_API_KEY"},
		{"bucket", map[string]string{"NARRATION_STORAGE": "gcs", "NARRATION_GCS_BUCKET_NAME": ""}, "NARRATION_GCS_BUCKET_NAME"},
		{"llm provider", map[string]string{"LLM_PROVIDER": "claude"}, "LLM_PROVIDER"},
		{"tts provider", map[string]string{"TTS_PROVIDER": "polly"}, "TTS_PROVIDER"},
		{"storage", map[string]string{"NARRATION_STORAGE": "s3"}, "NARRATION_STORAGE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			baseEnv(t)
			t.Setenv("DB_PROD_HOSTNAME", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(logger.Nop())
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error naming %s, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadConfigTTSNone(t *testing.T) {
	baseEnv(t)
	t.Setenv("TTS_PROVIDER", "none")
	t.Setenv("ELEVEN_LABS_API_KEY", "")
	if _, err := LoadConfig(logger.Nop()); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
}

func TestLoadConfigTemperature(t *testing.T) {
	baseEnv(t)
	t.Setenv("LLM_TEMPERATURE", "0")
	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLMTemperature != 0 {
		t.Fatalf("temperature=%v, want 0", cfg.LLMTemperature)
	}

	t.Setenv("LLM_TEMPERATURE", "3.5")
	if _, err := LoadConfig(logger.Nop()); err == nil || !strings.Contains(err.Error(), "LLM_TEMPERATURE") {
		t.Fatalf("expected LLM_TEMPERATURE error, got %v", err)
	}
}
