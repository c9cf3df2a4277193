package app

import (
	"context"
	"fmt"

	"github.com/xpanvictor/vietrans/internal/config"
	"github.com/xpanvictor/vietrans/internal/domains/translation"
	"github.com/xpanvictor/vietrans/internal/ingest"
	"github.com/xpanvictor/vietrans/internal/metrics"
	"github.com/xpanvictor/vietrans/internal/models/provider"
	"github.com/xpanvictor/vietrans/internal/server"
	"github.com/xpanvictor/vietrans/pkg/Logger"
)

// App represents the application with all its dependencies
type App struct {
	Config   *config.Settings
	Logger   *Logger.Logger
	Metrics  *metrics.Metrics
	Loader   *provider.Loader
	Provider *provider.Provider
	Uploads  *ingest.Store

	TranslationService translation.Service
	ServerDeps         server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly
// wired. Models are loaded here, so a bad checkpoint fails startup.
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger, opts ...provider.Option) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	if err := app.setupDependencies(ctx, opts); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies(ctx context.Context, opts []provider.Option) error {
	// 1. model provider
	factory := NewBackendFactory(a.Config, a.Logger)
	loaderOpts := append([]provider.Option{
		provider.WithBackends(factory.Build),
		provider.WithLogger(a.Logger.Named("models")),
		provider.WithMetrics(a.Metrics),
	}, opts...)
	a.Loader = provider.NewLoader(a.Config.Models, loaderOpts...)

	p, err := a.Loader.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}
	a.Provider = p

	// 2. upload staging
	store, err := ingest.NewStore(a.Config.Upload.Dir, a.Config.Upload.MaxBytes, a.Logger.Named("ingest"))
	if err != nil {
		return err
	}
	a.Uploads = store

	// 3. services
	a.TranslationService = translation.New(a.Provider, a.Uploads, nil, a.Logger.Named("translation"), a.Metrics)

	a.ServerDeps = server.NewServerDependencies(
		a.TranslationService,
		a.Provider,
		a.Metrics,
		a.Logger,
		a.Config,
	)
	return nil
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}

// Close releases model backends.
func (a *App) Close() error {
	if a.Loader == nil {
		return nil
	}
	return a.Loader.Close()
}
