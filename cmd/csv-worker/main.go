package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-scheduler-api/internal/worker"
	"github.com/noah-isme/campus-scheduler-api/pkg/config"
	"github.com/noah-isme/campus-scheduler-api/pkg/logger"
	"github.com/noah-isme/campus-scheduler-api/pkg/telemetry"
)

const reconnectDelay = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	flushSentry, err := telemetry.InitSentry(cfg)
	if err != nil {
		logr.Warn("sentry init failed, continuing without error reporting", zap.Error(err))
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		w := worker.NewCSVWorker(cfg.Broker, logr)
		if err := w.Connect(); err != nil {
			logr.Error("broker connect failed, retrying",
				zap.String("url", cfg.Broker.URL),
				zap.Duration("delay", reconnectDelay),
				zap.Error(err))
		} else {
			err = w.Run(ctx)
			w.Close()
			if errors.Is(err, context.Canceled) {
				logr.Info("csv worker stopped")
				return
			}
			logr.Error("csv worker lost connection, reconnecting", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			logr.Info("csv worker stopped")
			return
		case <-time.After(reconnectDelay):
		}
	}
}
