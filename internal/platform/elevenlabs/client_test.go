package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

func TestSynthesizeSendsVoiceRequest(t *testing.T) {
	var got synthesisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-to-speech/"+DefaultVoiceID {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "k" || r.Header.Get("Accept") != "audio/mpeg" {
			t.Errorf("headers: %v", r.Header)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte("ID3-mp3-bytes"))
	}))
	defer srv.Close()

	c, err := NewClient(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	audio, err := c.Synthesize(context.Background(), "Plants make sugar.")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio.Data) != "ID3-mp3-bytes" || audio.Ext != "mp3" {
		t.Fatalf("audio: %+v", audio)
	}
	if got.Text != "Plants make sugar." || got.ModelID != DefaultModelID {
		t.Fatalf("request: %+v", got)
	}
	if got.VoiceSettings.Stability != 0.5 || got.VoiceSettings.SimilarityBoost != 0.5 {
		t.Fatalf("voice settings: %+v", got.VoiceSettings)
	}
}

func TestSynthesizeNonOKIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, _ := NewClient(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL, MaxRetries: 2})
	_, err := c.Synthesize(context.Background(), "x")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status: %d", httpErr.StatusCode)
	}
}

func TestSynthesizeRetriesServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, _ := NewClient(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL, MaxRetries: 1})
	if _, err := c.Synthesize(context.Background(), "x"); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("calls: %d", calls)
	}
}
