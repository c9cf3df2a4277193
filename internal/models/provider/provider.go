// Package provider owns the loaded speech and translation models. The
// Loader builds the Provider once per process; every request shares it.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xpanvictor/vietrans/internal/metrics"
	"github.com/xpanvictor/vietrans/internal/types"
	"github.com/xpanvictor/vietrans/pkg/Logger"
	"github.com/xpanvictor/vietrans/pkg/io/audio"
	"github.com/xpanvictor/vietrans/pkg/io/checkpoint"
	"github.com/xpanvictor/vietrans/pkg/io/mt"
	"github.com/xpanvictor/vietrans/pkg/io/stt"
)

var (
	ErrCheckpointMissing   = checkpoint.ErrMissing
	ErrCheckpointMalformed = checkpoint.ErrMalformed
	ErrEmptyAudio          = errors.New("audio contains no samples")
)

const (
	opTranscribe = "transcribe"
	opTranslate  = "translate"
)

// Provider is read-only after construction and safe for concurrent use.
type Provider struct {
	device      string
	speech      checkpoint.Checkpoint
	translation checkpoint.Checkpoint
	recognizer  stt.Recognizer
	translator  mt.Translator
	logger      *Logger.Logger
	metrics     *metrics.Metrics
}

func (p *Provider) Device() string {
	return p.device
}

func (p *Provider) SpeechBackend() string {
	return p.recognizer.Name()
}

func (p *Provider) TranslationBackend() string {
	return p.translator.Name()
}

func (p *Provider) SpeechCheckpoint() checkpoint.Checkpoint {
	return p.speech
}

func (p *Provider) TranslationCheckpoint() checkpoint.Checkpoint {
	return p.translation
}

// Transcribe returns the Vietnamese transcript of wave.
func (p *Provider) Transcribe(ctx context.Context, wave audio.Waveform) (string, error) {
	if wave.Empty() {
		return "", types.Inference(opTranscribe, ErrEmptyAudio)
	}

	normalized, err := wave.Normalized()
	if err != nil {
		return "", types.Inference(opTranscribe, err)
	}

	start := time.Now()
	text, err := p.recognizer.Transcribe(ctx, normalized, SpeechParams)
	elapsed := time.Since(start)
	p.metrics.ObserveInference(opTranscribe, p.recognizer.Name(), elapsed)
	if err != nil {
		p.logger.Errorf("transcription failed after %s: %v", elapsed, err)
		return "", types.Inference(opTranscribe, err)
	}

	p.logger.Infof("transcribed %s of audio in %s", normalized.Duration(), elapsed)
	return strings.TrimSpace(text), nil
}

// Translate returns the English translation of Vietnamese text. Callers
// reject empty input before getting here.
func (p *Provider) Translate(ctx context.Context, text string) (string, error) {
	start := time.Now()
	out, err := p.translator.Translate(ctx, text, TranslationParams)
	elapsed := time.Since(start)
	p.metrics.ObserveInference(opTranslate, p.translator.Name(), elapsed)
	if err != nil {
		p.logger.Errorf("translation failed after %s: %v", elapsed, err)
		return "", types.Inference(opTranslate, err)
	}

	p.logger.Infof("translated %d characters in %s", len([]rune(text)), elapsed)
	return strings.TrimSpace(out), nil
}

// Close releases backends that hold resources.
func (p *Provider) Close() error {
	var errs []error
	if c, ok := p.recognizer.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := p.translator.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close model backends: %w", err)
	}
	return nil
}
