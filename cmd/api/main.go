package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/xpanvictor/vietrans/internal/app"
	"github.com/xpanvictor/vietrans/internal/config"
	"github.com/xpanvictor/vietrans/internal/server"
	"github.com/xpanvictor/vietrans/pkg/Logger"
)

// @title vietrans API
// @version 1.0
// @description Vietnamese speech transcription and Vietnamese to English translation.
// @BasePath /

// This is the main entry point for the API server.
// Loads both models before accepting traffic
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.New(cfg.Debug)
	defer logger.Sync()
	logger.Infof("Logger initialized (env=%s)", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// models load here; a failure is fatal
	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Errorf("Failed to release models: %v", err)
		}
	}()

	// compose router
	router := server.NewRouter(cfg, application.GetServerDependencies())

	// listen with graceful exit
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
	go func() {
		logger.Infof("Listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server exiting: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown err %v", err)
	}
	logger.Info("Shutdown system")
}
