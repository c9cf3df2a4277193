// Package translation runs the two request pipelines: uploaded Vietnamese
// audio to text plus English translation, and Vietnamese text to English.
package translation

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/xpanvictor/vietrans/internal/ingest"
	"github.com/xpanvictor/vietrans/internal/metrics"
	"github.com/xpanvictor/vietrans/internal/types"
	"github.com/xpanvictor/vietrans/pkg/Logger"
	"github.com/xpanvictor/vietrans/pkg/io/audio"
)

// Validation messages surfaced to clients.
const (
	MsgNoFile            = "no file"
	MsgNoFileSelected    = "no file selected"
	MsgUnsupportedFormat = "unsupported format"
	MsgTextRequired      = "text is required"
	MsgTextEmpty         = "text must not be empty"
)

// Models is the inference surface the pipelines need.
type Models interface {
	Transcribe(ctx context.Context, wave audio.Waveform) (string, error)
	Translate(ctx context.Context, text string) (string, error)
}

// Uploads stages request bodies on disk.
type Uploads interface {
	Save(name string, r io.Reader) (*ingest.Upload, error)
}

// Decoder turns a staged file into a 16 kHz waveform.
type Decoder func(path string) (audio.Waveform, error)

type Service interface {
	ProcessAudio(ctx context.Context, filename string, r io.Reader) (*Result, error)
	TranslateText(ctx context.Context, text string) (*Result, error)
}

type service struct {
	models  Models
	uploads Uploads
	decode  Decoder
	logger  *Logger.Logger
	metrics *metrics.Metrics
}

// New wires a Service. A nil decoder means ingest.Decode.
func New(models Models, uploads Uploads, decode Decoder, logger *Logger.Logger, m *metrics.Metrics) Service {
	if decode == nil {
		decode = ingest.Decode
	}
	if logger == nil {
		logger = Logger.NewNop()
	}
	return &service{models: models, uploads: uploads, decode: decode, logger: logger, metrics: m}
}

// ProcessAudio stores, decodes, transcribes and translates one upload. The
// staged file is always removed before returning.
func (s *service) ProcessAudio(ctx context.Context, filename string, r io.Reader) (result *Result, err error) {
	defer func() { s.observe(metrics.PipelineAudio, err) }()

	if filename == "" {
		return nil, types.Validation(MsgNoFileSelected)
	}
	if !ingest.IsAllowedExtension(filename) {
		return nil, types.Validation(MsgUnsupportedFormat)
	}

	log := s.logger.With("request_id", types.RequestIDFrom(ctx))
	j := newJob(log)
	defer func() {
		if err != nil {
			j.fail(ctx, err)
		}
	}()

	upload, err := s.uploads.Save(filename, r)
	if err != nil {
		return nil, err
	}
	log = log.With("upload_id", upload.ID.String())
	defer s.release(log, upload)
	s.metrics.ObserveUpload(upload.Size)

	if err := j.advance(ctx, eventStore); err != nil {
		return nil, err
	}

	wave, err := s.decode(upload.Path)
	if err != nil {
		return nil, err
	}
	if err := j.advance(ctx, eventDecode); err != nil {
		return nil, err
	}
	log.Debugf("decoded %s of audio from %q", wave.Duration(), filename)

	start := time.Now()
	textVI, err := s.models.Transcribe(ctx, wave)
	if err != nil {
		return nil, err
	}
	if err := j.advance(ctx, eventTranscribe); err != nil {
		return nil, err
	}

	textEN, err := s.models.Translate(ctx, textVI)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	if err := j.advance(ctx, eventTranslate); err != nil {
		return nil, err
	}

	if err := j.advance(ctx, eventComplete); err != nil {
		return nil, err
	}
	s.metrics.ObserveProcessing(metrics.PipelineAudio, elapsed)
	log.Infof("audio processed in %s", elapsed)

	return &Result{
		TextVI:         textVI,
		TextEN:         textEN,
		ProcessingTime: elapsed.Seconds(),
		Status:         StatusCompleted,
	}, nil
}

// TranslateText translates text as given; the response echoes it untrimmed.
func (s *service) TranslateText(ctx context.Context, text string) (result *Result, err error) {
	defer func() { s.observe(metrics.PipelineText, err) }()

	if strings.TrimSpace(text) == "" {
		return nil, types.Validation(MsgTextEmpty)
	}

	start := time.Now()
	textEN, err := s.models.Translate(ctx, text)
	if err != nil {
		s.logger.Errorw("text translation failed", "request_id", types.RequestIDFrom(ctx), "error", err)
		return nil, err
	}
	elapsed := time.Since(start)
	s.metrics.ObserveProcessing(metrics.PipelineText, elapsed)

	return &Result{
		TextVI:         text,
		TextEN:         textEN,
		ProcessingTime: elapsed.Seconds(),
		Status:         StatusCompleted,
	}, nil
}

func (s *service) release(log *Logger.Logger, upload *ingest.Upload) {
	if err := upload.Release(); err != nil {
		s.metrics.CleanupFailed()
		log.Warnw("failed to remove temporary upload", "path", upload.Path, "error", err)
	}
}

func (s *service) observe(pipeline string, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	s.metrics.ObserveRequest(pipeline, status)
}
