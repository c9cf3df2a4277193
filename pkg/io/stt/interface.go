package stt

import (
	"context"

	"github.com/xpanvictor/vietrans/pkg/io/audio"
	"github.com/xpanvictor/vietrans/pkg/io/checkpoint"
)

// Options are the generation parameters for one transcription.
// Backends that cannot express a field ignore it.
type Options struct {
	Language          string
	NumBeams          int
	MaxLength         int
	NoRepeatNgramSize int
}

// Recognizer is the load/infer contract for speech-to-text backends.
// Load is called once before any Transcribe; Transcribe must be safe for
// concurrent use after that.
type Recognizer interface {
	Name() string
	Load(ctx context.Context, ckpt checkpoint.Checkpoint, device string) error
	Transcribe(ctx context.Context, wave audio.Waveform, opts Options) (string, error)
}
