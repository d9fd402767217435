package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"warungpos/backend/internal/config"
	"warungpos/backend/internal/httpapi"
	"warungpos/backend/internal/service"
	"warungpos/backend/internal/store"
	"warungpos/backend/internal/store/bolt"
	"warungpos/backend/internal/store/memory"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 1)

	if cfg.InMemory() {
		repo = memory.New()
		logger.Info("repository: in-memory")
	} else {
		db, err := bolt.Open(cfg.DBPath)
		if err != nil {
			logger.Fatal("open database", zap.String("path", cfg.DBPath), zap.Error(err))
		}
		repo = db
		closers = append(closers, db.Close)
		logger.Info("repository: bbolt", zap.String("path", cfg.DBPath))
	}

	svc := service.New(repo, logger)
	if cfg.SeedDemo {
		if err := svc.SeedDemoIfEmpty(ctx); err != nil {
			logger.Fatal("seed demo catalog", zap.Error(err))
		}
	}
	api := httpapi.New(svc, cfg.AllowedOrigin, logger)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("POS backend listening", zap.String("addr", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Warn("close error", zap.Error(err))
		}
	}
	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
