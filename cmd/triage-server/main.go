// cmd/triage-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"triage-service/internal/api"
	"triage-service/internal/common/cache"
	"triage-service/internal/common/config"
	"triage-service/internal/common/logger"
	"triage-service/internal/llm"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting triage server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	if valid, errs := cfg.Validate(); !valid {
		zapLog.Warn("configuration incomplete", zap.Strings("errors", errs))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	c := cache.New(cfg.Cache, log)
	defer c.Close()

	factory := llm.NewFactory(cfg.Providers)

	handler := api.NewHandler(cfg, factory, c, log)
	e := api.NewServer(handler)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		zapLog.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			zapLog.Info("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown failed", zap.Error(err))
	}
}
