// Package narration turns lesson text into stored audio files.
package narration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/edutainment-backend/internal/platform/logger"
	"github.com/yungbote/edutainment-backend/internal/platform/tts"
)

// Dir is the key prefix every narration file is stored under.
const Dir = "narration"

// ErrSynthesis wraps any failure to produce or store a narration file.
var ErrSynthesis = errors.New("narration failed")

type Narrator struct {
	log   *logger.Logger
	synth tts.Synthesizer
	store Store
}

func NewNarrator(log *logger.Logger, synth tts.Synthesizer, store Store) (*Narrator, error) {
	if synth == nil {
		return nil, errors.New("narration: synthesizer required")
	}
	if store == nil {
		return nil, errors.New("narration: store required")
	}
	return &Narrator{
		log:   log.With("service", "Narrator", "provider", synth.Provider()),
		synth: synth,
		store: store,
	}, nil
}

// Narrate synthesizes text and stores it, returning the stored file name.
func (n *Narrator) Narrate(ctx context.Context, id, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", ErrSynthesis)
	}
	start := time.Now()
	audio, err := n.synth.Synthesize(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: synthesize: %w", ErrSynthesis, err)
	}
	if len(audio.Data) == 0 {
		return "", fmt.Errorf("%w: provider returned no audio", ErrSynthesis)
	}
	name := Filename(id, text, audio.Ext)
	if err := n.store.Save(ctx, name, audio.Data, audio.ContentType); err != nil {
		return "", fmt.Errorf("%w: store %s: %w", ErrSynthesis, name, err)
	}
	n.log.Debug("narration stored", "file", name, "bytes", len(audio.Data), "duration_ms", time.Since(start).Milliseconds())
	return name, nil
}

// Filename is "narration/<first 8 of id>_<first 30 of text>.<ext>", with
// whitespace and path separators in the text replaced by underscores.
func Filename(id, text, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "mp3"
	}
	return fmt.Sprintf("%s/%s_%s.%s", Dir, firstRunes(id, 8), firstRunes(slug(text), 30), ext)
}

func slug(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '/', '\\', 0:
			return '_'
		}
		return r
	}, text)
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
