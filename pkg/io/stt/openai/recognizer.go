// Package openai transcribes through an OpenAI-compatible speech server
// (LocalAI, faster-whisper-server) that serves the local checkpoint.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/xpanvictor/vietrans/pkg/Logger"
	"github.com/xpanvictor/vietrans/pkg/io/audio"
	"github.com/xpanvictor/vietrans/pkg/io/checkpoint"
	"github.com/xpanvictor/vietrans/pkg/io/stt"
)

var ErrNotLoaded = errors.New("speech model not loaded")

type Recognizer struct {
	client openai.Client
	model  string
	logger *Logger.Logger
	loaded bool
}

// NewRecognizer builds a client for baseURL. An empty model name falls back
// to the checkpoint directory name on Load.
func NewRecognizer(baseURL, apiKey, model string, logger *Logger.Logger, opts ...option.RequestOption) *Recognizer {
	if logger == nil {
		logger = Logger.NewNop()
	}
	if apiKey == "" {
		// local servers ignore the key but the SDK insists on one
		apiKey = "local"
	}

	reqOpts := append([]option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	}, opts...)

	return &Recognizer{
		client: openai.NewClient(reqOpts...),
		model:  model,
		logger: logger,
	}
}

func (r *Recognizer) Name() string {
	return "openai"
}

func (r *Recognizer) Load(_ context.Context, ckpt checkpoint.Checkpoint, device string) error {
	if ckpt.Path == "" {
		return fmt.Errorf("openai speech backend: %w", checkpoint.ErrMissing)
	}
	if r.model == "" {
		r.model = strings.TrimSuffix(filepath.Base(ckpt.Path), filepath.Ext(ckpt.Path))
	}
	r.loaded = true
	// device placement is the serving process's concern
	r.logger.Infof("speech model %s served remotely as %q (requested device %s)", ckpt.Path, r.model, device)
	return nil
}

func (r *Recognizer) Transcribe(ctx context.Context, wave audio.Waveform, opts stt.Options) (string, error) {
	if !r.loaded {
		return "", ErrNotLoaded
	}

	wavData, err := audio.EncodeWAV(wave)
	if err != nil {
		return "", fmt.Errorf("failed to convert audio to WAV: %w", err)
	}

	params := openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(wavData), "audio.wav", "audio/wav"),
		Model:          openai.AudioModel(r.model),
		ResponseFormat: openai.AudioResponseFormatJSON,
		Temperature:    openai.Float(0),
	}
	if lang := strings.TrimSpace(opts.Language); lang != "" && lang != "auto" {
		params.Language = openai.String(lang)
	}

	resp, err := r.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
