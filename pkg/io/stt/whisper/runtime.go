package whisper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xpanvictor/vietrans/pkg/Logger"
	"github.com/xpanvictor/vietrans/pkg/io/audio"
	"github.com/xpanvictor/vietrans/pkg/io/checkpoint"
	"github.com/xpanvictor/vietrans/pkg/io/runtime"
	"github.com/xpanvictor/vietrans/pkg/io/stt"
)

var ErrNotLoaded = errors.New("speech model not loaded")

// RuntimeRecognizer runs a transformers whisper checkpoint inside the
// inference runtime.
type RuntimeRecognizer struct {
	client  *runtime.Client
	logger  *Logger.Logger
	modelID string
}

func NewRuntimeRecognizer(client *runtime.Client, logger *Logger.Logger) *RuntimeRecognizer {
	if logger == nil {
		logger = Logger.NewNop()
	}
	return &RuntimeRecognizer{client: client, logger: logger}
}

func (r *RuntimeRecognizer) Name() string {
	return "runtime"
}

func (r *RuntimeRecognizer) Load(ctx context.Context, ckpt checkpoint.Checkpoint, device string) error {
	if ckpt.Format != checkpoint.FormatTransformers {
		return fmt.Errorf("runtime speech backend needs a transformers checkpoint, got %s", ckpt.Format)
	}

	out, err := r.client.LoadModel(ctx, runtime.LoadRequest{
		Kind:   string(checkpoint.KindSpeech),
		Path:   ckpt.Path,
		Format: string(ckpt.Format),
		Device: device,
	})
	if err != nil {
		return fmt.Errorf("load speech model: %w", err)
	}

	r.modelID = out.ModelID
	r.logger.Infof("speech model %s loaded on %s as %s", ckpt.Path, device, out.ModelID)
	return nil
}

func (r *RuntimeRecognizer) Transcribe(ctx context.Context, wave audio.Waveform, opts stt.Options) (string, error) {
	if r.modelID == "" {
		return "", ErrNotLoaded
	}

	wavData, err := audio.EncodeWAV(wave)
	if err != nil {
		return "", fmt.Errorf("failed to convert audio to WAV: %w", err)
	}

	text, err := r.client.Transcribe(ctx, wavData, runtime.TranscribeParams{
		ModelID:           r.modelID,
		Language:          opts.Language,
		NumBeams:          opts.NumBeams,
		MaxLength:         opts.MaxLength,
		NoRepeatNgramSize: opts.NoRepeatNgramSize,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
