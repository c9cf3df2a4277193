// Package cli runs the transcription and translation pipelines from the
// command line, without the HTTP server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xpanvictor/vietrans/internal/app"
	"github.com/xpanvictor/vietrans/internal/config"
	"github.com/xpanvictor/vietrans/internal/domains/translation"
	"github.com/xpanvictor/vietrans/pkg/Logger"
)

type modelInfo interface {
	Device() string
	SpeechBackend() string
	TranslationBackend() string
}

type session struct {
	service translation.Service
	models  modelInfo
	close   func() error
}

type appState struct {
	configEnv string
	jsonOut   bool
	verbose   bool

	logger *Logger.Logger

	openFn func(ctx context.Context) (*session, error)
}

func NewRootCmd() *cobra.Command {
	a := &appState{configEnv: defaultEnv()}
	a.openFn = a.openSession
	return newRootCmd(a)
}

func newRootCmd(a *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vietrans",
		Short:         "Transcribe Vietnamese speech and translate Vietnamese to English",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := Logger.BuildLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configEnv, "config-env", a.configEnv, "Config environment; reads config_<env>.yaml")
	cmd.PersistentFlags().BoolVar(&a.jsonOut, "json", a.jsonOut, "Print results as JSON")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", a.verbose, "Enable verbose logs")

	cmd.AddCommand(newTranscribeCmd(a))
	cmd.AddCommand(newTranslateCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	return cmd
}

func defaultEnv() string {
	if env := strings.TrimSpace(os.Getenv("ENV")); env != "" {
		return env
	}
	return "dev"
}

func (a *appState) log() *Logger.Logger {
	if a.logger == nil {
		return Logger.NewNop()
	}
	return a.logger
}

// openSession loads config and models exactly as the server does.
func (a *appState) openSession(ctx context.Context) (*session, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadWith(viper.New(), a.configEnv)
	if err != nil {
		return nil, err
	}

	application, err := app.NewApp(ctx, cfg, a.log())
	if err != nil {
		return nil, err
	}
	return &session{
		service: application.TranslationService,
		models:  application.Provider,
		close:   application.Close,
	}, nil
}

func (a *appState) withSession(ctx context.Context, fn func(*session) error) error {
	s, err := a.openFn(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if s.close == nil {
			return
		}
		if err := s.close(); err != nil {
			a.log().Warnf("release models: %v", err)
		}
	}()
	return fn(s)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
