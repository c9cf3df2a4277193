package app

import (
	"fmt"

	"github.com/xpanvictor/vietrans/internal/config"
	"github.com/xpanvictor/vietrans/internal/models/provider"
	"github.com/xpanvictor/vietrans/pkg/Logger"
	"github.com/xpanvictor/vietrans/pkg/io/mt"
	"github.com/xpanvictor/vietrans/pkg/io/mt/marian"
	"github.com/xpanvictor/vietrans/pkg/io/runtime"
	"github.com/xpanvictor/vietrans/pkg/io/stt"
	"github.com/xpanvictor/vietrans/pkg/io/stt/openai"
	"github.com/xpanvictor/vietrans/pkg/io/stt/whisper"
)

// BackendFactory creates model backends with the configured providers
type BackendFactory struct {
	cfg    *config.Settings
	logger *Logger.Logger
}

// NewBackendFactory creates a new backend factory
func NewBackendFactory(cfg *config.Settings, logger *Logger.Logger) *BackendFactory {
	return &BackendFactory{cfg: cfg, logger: logger}
}

// Build satisfies provider.BackendFactory.
func (f *BackendFactory) Build() (stt.Recognizer, mt.Translator, error) {
	var client *runtime.Client
	runtimeClient := func() *runtime.Client {
		if client == nil {
			client = runtime.NewClient(f.cfg.Runtime.URL, f.cfg.Runtime.Timeout, f.logger.Named("runtime"))
			f.logger.Infof("inference runtime at %s", client.BaseURL())
		}
		return client
	}

	speech, err := f.speech(runtimeClient)
	if err != nil {
		return nil, nil, err
	}

	var translator mt.Translator
	switch backend := f.cfg.Models.Translation.Backend; backend {
	case config.BackendRuntime:
		translator = marian.NewRuntimeTranslator(runtimeClient(), f.logger.Named("marian"))
	default:
		return nil, nil, fmt.Errorf("unknown translation backend %q", backend)
	}

	return speech, translator, nil
}

func (f *BackendFactory) speech(runtimeClient func() *runtime.Client) (stt.Recognizer, error) {
	switch backend := f.cfg.Models.Speech.Backend; backend {
	case config.BackendRuntime:
		return whisper.NewRuntimeRecognizer(runtimeClient(), f.logger.Named("whisper")), nil
	case config.BackendWhisperCLI:
		return whisper.NewCLIEngine(f.cfg.WhisperCLI.Path, f.cfg.WhisperCLI.Threads, f.logger.Named("whisper-cli")), nil
	case config.BackendOpenAI:
		return openai.NewRecognizer(f.cfg.OpenAI.BaseURL, f.cfg.OpenAI.APIKey, f.cfg.OpenAI.Model, f.logger.Named("openai")), nil
	default:
		return nil, fmt.Errorf("unknown speech backend %q", backend)
	}
}

var _ provider.BackendFactory = (&BackendFactory{}).Build
