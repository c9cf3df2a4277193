package mt

import (
	"context"

	"github.com/xpanvictor/vietrans/pkg/io/checkpoint"
)

// Options are the generation parameters for one translation.
type Options struct {
	NumBeams       int
	LengthPenalty  float64
	MaxLength      int
	MaxInputTokens int
	Padding        bool
}

// Translator is the load/infer contract for text-to-text backends.
type Translator interface {
	Name() string
	Load(ctx context.Context, ckpt checkpoint.Checkpoint, device string) error
	Translate(ctx context.Context, text string, opts Options) (string, error)
}
