package gemini

import (
	"bytes"
	"testing"

	"github.com/go-audio/wav"
)

func TestEncodeWAVProducesReadableFile(t *testing.T) {
	pcm := make([]byte, 0, 4800*2)
	for i := 0; i < 4800; i++ {
		v := int16((i % 200) * 100)
		pcm = append(pcm, byte(v), byte(v>>8))
	}
	out, err := encodeWAV(pcm, pcmSampleRate)
	if err != nil {
		t.Fatalf("encodeWAV: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("RIFF")) {
		t.Fatalf("missing RIFF header")
	}
	dec := wav.NewDecoder(bytes.NewReader(out))
	if !dec.IsValidFile() {
		t.Fatalf("decoder rejected output")
	}
	if dec.SampleRate != pcmSampleRate || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Fatalf("format: rate=%d chans=%d depth=%d", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
}

func TestSeekBufferOverwrite(t *testing.T) {
	b := &seekBuffer{}
	_, _ = b.Write([]byte("hello world"))
	if _, err := b.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	_, _ = b.Write([]byte("J"))
	if string(b.buf) != "Jello world" {
		t.Fatalf("got %q", b.buf)
	}
}
