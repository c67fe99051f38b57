package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"reqboard/application/commands"
	"reqboard/infrastructure/config"
	"reqboard/infrastructure/di"
	"reqboard/infrastructure/persistence/jsonfile"
	"reqboard/interfaces/http/rest"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(
		container.CommandBus,
		container.BoardQueries,
		container.CollabQueries,
		container.ExportQueries,
		logger,
		cfg.EnableCORS,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.AutoReload {
		watcher := jsonfile.NewWatcher(cfg.DataFile, func() {
			if err := container.CommandBus.Send(ctx, commands.LoadProject{}); err != nil {
				logger.Warn("reload after file change failed", zap.Error(err))
			}
		}, logger)
		go func() {
			if err := watcher.Run(ctx); err != nil && err != context.Canceled {
				logger.Warn("data file watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Info("starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("data_file", cfg.DataFile),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")

	if cfg.AutoSave {
		if err := container.CommandBus.Send(ctx, commands.SaveProject{}); err != nil {
			logger.Error("final save failed", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
