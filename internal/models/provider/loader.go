package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/xpanvictor/vietrans/internal/config"
	"github.com/xpanvictor/vietrans/internal/metrics"
	"github.com/xpanvictor/vietrans/pkg/Logger"
	"github.com/xpanvictor/vietrans/pkg/io/checkpoint"
	"github.com/xpanvictor/vietrans/pkg/io/mt"
	"github.com/xpanvictor/vietrans/pkg/io/stt"
)

var ErrNoBackends = errors.New("no model backends configured")

// BackendFactory builds fresh, unloaded backends. It is called once per
// load attempt.
type BackendFactory func() (stt.Recognizer, mt.Translator, error)

type Option func(*Loader)

func WithBackends(factory BackendFactory) Option {
	return func(l *Loader) { l.factory = factory }
}

func WithLogger(logger *Logger.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loader) { l.metrics = m }
}

func WithProbe(probe Probe) Option {
	return func(l *Loader) { l.probe = probe }
}

// Loader constructs the Provider on first use and hands out the same
// instance afterwards. A failed load is not cached.
type Loader struct {
	cfg     config.ModelsConfig
	factory BackendFactory
	logger  *Logger.Logger
	metrics *metrics.Metrics
	probe   Probe

	mu       sync.Mutex
	provider *Provider
	loads    int
}

func NewLoader(cfg config.ModelsConfig, opts ...Option) *Loader {
	l := &Loader{
		cfg:    cfg,
		logger: Logger.NewNop(),
		probe:  HostProbe(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Get returns the shared Provider, loading both models on the first call.
// Concurrent first callers block until that load finishes.
func (l *Loader) Get(ctx context.Context) (*Provider, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.provider != nil {
		return l.provider, nil
	}

	p, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	l.provider = p
	l.loads++
	return p, nil
}

// Loads reports how many times models were successfully loaded.
func (l *Loader) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// Close releases the loaded Provider, if any.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.provider == nil {
		return nil
	}
	return l.provider.Close()
}

func (l *Loader) load(ctx context.Context) (*Provider, error) {
	start := time.Now()
	if l.factory == nil {
		return nil, ErrNoBackends
	}

	device, err := ResolveDevice(l.cfg.Device, l.probe)
	if err != nil {
		return nil, err
	}

	speech, err := checkpoint.Inspect(l.cfg.Speech.Path, checkpoint.KindSpeech)
	if err != nil {
		return nil, fmt.Errorf("speech model: %w", err)
	}
	translation, err := checkpoint.Inspect(l.cfg.Translation.Path, checkpoint.KindTranslation)
	if err != nil {
		return nil, fmt.Errorf("translation model: %w", err)
	}

	recognizer, translator, err := l.factory()
	if err != nil {
		return nil, fmt.Errorf("build model backends: %w", err)
	}

	l.logger.Infof("loading speech model %s with %s backend on %s", speech, recognizer.Name(), device)
	if err := recognizer.Load(ctx, speech, device); err != nil {
		return nil, fmt.Errorf("load speech model: %w", err)
	}
	l.logger.Infof("loading translation model %s with %s backend on %s", translation, translator.Name(), device)
	if err := translator.Load(ctx, translation, device); err != nil {
		l.release(recognizer)
		return nil, fmt.Errorf("load translation model: %w", err)
	}

	l.logger.Infow("models loaded", "device", device, "elapsed", time.Since(start).String())
	return &Provider{
		device:      device,
		speech:      speech,
		translation: translation,
		recognizer:  recognizer,
		translator:  translator,
		logger:      l.logger,
		metrics:     l.metrics,
	}, nil
}

// release closes a backend that was loaded before a later step failed.
func (l *Loader) release(backend any) {
	c, ok := backend.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		l.logger.Warnf("failed to release partially loaded backend: %v", err)
	}
}
