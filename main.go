package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ada-inc/ada-engine/pkg/auth"
	"github.com/ada-inc/ada-engine/pkg/config"
	"github.com/ada-inc/ada-engine/pkg/handlers"
	"github.com/ada-inc/ada-engine/pkg/llm"
	"github.com/ada-inc/ada-engine/pkg/middleware"
	"github.com/ada-inc/ada-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath, Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("addr", cfg.Addr()),
		zap.String("upload_dir", cfg.Upload.Dir),
		zap.String("oracle_provider", cfg.Oracle.Provider),
		zap.String("oracle_model", cfg.Oracle.Model))

	if err := cfg.EnsureUploadDir(); err != nil {
		logger.Fatal("Failed to create upload directory", zap.Error(err))
	}

	auth.InitSessionStore(cfg.SessionSecret, cfg.Env == "production")

	// Services
	users := services.NewUserStore(logger)
	registry := services.NewDatasetRegistry(logger)
	oracle := llm.NewOracle(&cfg.Oracle, logger)
	translator := services.NewTranslator(oracle, cfg.Oracle.Timeout(), logger)
	builder := services.NewChartBuilder(logger)
	askService := services.NewAskService(registry, translator, builder, logger)
	reports := services.NewReportBuilder(cfg.Version, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(users, logger).RegisterRoutes(mux)
	handlers.NewDatasetsHandler(cfg, registry, logger).RegisterRoutes(mux)
	handlers.NewAskHandler(askService, logger).RegisterRoutes(mux)
	handlers.NewReportHandler(registry, reports, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      middleware.RequestLogger(logger)(mux),
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("Starting ada-engine",
			zap.String("addr", cfg.Addr()),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Background sweep keeps uploads from accumulating between cleanups.
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Upload.KeepMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				registry.Sweep(time.Duration(cfg.Upload.KeepMinutes) * time.Minute)
			case <-sweepDone:
				return
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(sweepDone)

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
