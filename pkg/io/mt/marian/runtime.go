// Package marian runs a MarianMT seq2seq checkpoint through the inference runtime.
package marian

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xpanvictor/vietrans/pkg/Logger"
	"github.com/xpanvictor/vietrans/pkg/io/checkpoint"
	"github.com/xpanvictor/vietrans/pkg/io/mt"
	"github.com/xpanvictor/vietrans/pkg/io/runtime"
)

var ErrNotLoaded = errors.New("translation model not loaded")

type RuntimeTranslator struct {
	client  *runtime.Client
	logger  *Logger.Logger
	modelID string
}

func NewRuntimeTranslator(client *runtime.Client, logger *Logger.Logger) *RuntimeTranslator {
	if logger == nil {
		logger = Logger.NewNop()
	}
	return &RuntimeTranslator{client: client, logger: logger}
}

func (t *RuntimeTranslator) Name() string {
	return "runtime"
}

func (t *RuntimeTranslator) Load(ctx context.Context, ckpt checkpoint.Checkpoint, device string) error {
	if ckpt.Format != checkpoint.FormatTransformers {
		return fmt.Errorf("runtime translation backend needs a transformers checkpoint, got %s", ckpt.Format)
	}
	if ckpt.ModelType != "" && ckpt.ModelType != "marian" {
		t.logger.Warnf("translation checkpoint %s reports model_type %q, expected marian", ckpt.Path, ckpt.ModelType)
	}

	out, err := t.client.LoadModel(ctx, runtime.LoadRequest{
		Kind:   string(checkpoint.KindTranslation),
		Path:   ckpt.Path,
		Format: string(ckpt.Format),
		Device: device,
	})
	if err != nil {
		return fmt.Errorf("load translation model: %w", err)
	}

	t.modelID = out.ModelID
	t.logger.Infof("translation model %s loaded on %s as %s", ckpt.Path, device, out.ModelID)
	return nil
}

func (t *RuntimeTranslator) Translate(ctx context.Context, text string, opts mt.Options) (string, error) {
	if t.modelID == "" {
		return "", ErrNotLoaded
	}

	out, err := t.client.Translate(ctx, runtime.TranslateRequest{
		ModelID:        t.modelID,
		Text:           text,
		NumBeams:       opts.NumBeams,
		LengthPenalty:  opts.LengthPenalty,
		MaxLength:      opts.MaxLength,
		MaxInputTokens: opts.MaxInputTokens,
		Padding:        opts.Padding,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
