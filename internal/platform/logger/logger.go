package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Logger is the structured logger handed to every component. Key/value pairs
// pass through sanitize before they reach zap.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a logger for mode: "prod"/"production" is JSON at info level,
// "test" discards everything, anything else is the development console at
// debug level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test":
		return Nop(), nil
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zl.Sugar()}, nil
}

func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	if l != nil && l.SugaredLogger != nil {
		_ = l.SugaredLogger.Sync()
	}
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.SugaredLogger.Debugw(msg, sanitize(kv)...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.SugaredLogger.Infow(msg, sanitize(kv)...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.SugaredLogger.Warnw(msg, sanitize(kv)...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.SugaredLogger.Errorw(msg, sanitize(kv)...) }
func (l *Logger) Fatal(msg string, kv ...interface{}) { l.SugaredLogger.Fatalw(msg, sanitize(kv)...) }

func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(sanitize(kv)...)}
}

const redacted = "[REDACTED]"

// Keys are matched by substring after lowercasing.
var (
	secretKeys   = []string{"token", "authorization", "password", "secret", "cookie", "api_key", "apikey", "xi-api-key", "email", "refresh"}
	hashedKeys   = []string{"session_id", "customer_id"}
	// Article text, prompts and model replies can run to megabytes.
	longTextKeys = []string{"raw_response", "prompt", "article", "content", "lesson_text"}
)

type settings struct {
	enabled  bool
	salt     string
	maxChars int
}

var (
	loadOnce sync.Once
	opts     settings
)

func current() settings {
	loadOnce.Do(func() {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
		default:
			opts.enabled = true
		}
		opts.salt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
		opts.maxChars = 2000
		var n int
		if _, err := fmt.Sscanf(os.Getenv("LOG_MAX_VALUE_CHARS"), "%d", &n); err == nil && n > 0 {
			opts.maxChars = n
		}
	})
	return opts
}

func sanitize(kv []interface{}) []interface{} {
	s := current()
	if len(kv) == 0 || !s.enabled {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		out[i+1] = sanitizeValue(s, strings.ToLower(toString(out[i])), out[i+1])
	}
	return out
}

func sanitizeValue(s settings, key string, val interface{}) interface{} {
	switch {
	case containsAny(key, secretKeys):
		return redacted
	case containsAny(key, hashedKeys):
		return hashValue(s.salt, val)
	}
	str, ok := val.(string)
	if !ok {
		return val
	}
	if looksLikeCredential(str) {
		return redacted
	}
	if containsAny(key, longTextKeys) {
		return truncate(str, s.maxChars)
	}
	return val
}

func containsAny(key string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(key, sub) {
			return true
		}
	}
	return false
}

func hashValue(salt string, val interface{}) string {
	raw := toString(val)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(salt + raw))
	return "hash:" + hex.EncodeToString(sum[:6])
}

// looksLikeCredential catches JWTs and OpenAI-style secret keys logged under
// an innocent key.
func looksLikeCredential(s string) bool {
	if strings.HasPrefix(s, "sk-") && len(s) > 20 && !strings.ContainsAny(s, " \n") {
		return true
	}
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10 && !strings.Contains(s, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...(%d chars)", s[:n], len(s))
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
