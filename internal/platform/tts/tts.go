// Package tts holds the provider-neutral speech synthesis contract.
package tts

import "context"

// Audio is a synthesized clip. Ext is the file extension without the dot.
type Audio struct {
	Data        []byte
	Ext         string
	ContentType string
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Audio, error)
	Provider() string
}
