// Package main is the entry point for the quiet-measure showcase.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/quiet-measure/internal/app"
	"github.com/Faultbox/quiet-measure/internal/config"
	"github.com/Faultbox/quiet-measure/internal/logger"
	"github.com/Faultbox/quiet-measure/internal/page"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== A Quiet Measure of Days ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg)
	if err != nil {
		var setup *app.RenderSetupError
		if errors.As(err, &setup) {
			// The page is still readable without the scene.
			logger.Warn("3D scene unavailable, showing text only", zap.Error(err))
			if werr := page.Default().WriteText(os.Stdout); werr != nil {
				logger.Error("failed to write page", zap.Error(werr))
				return 1
			}
			return 0
		}
		logger.Error("failed to create app", zap.Error(err))
		return 1
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logger.Error("app error", zap.Error(err))
		return 1
	}

	logger.Info("closed normally")
	return 0
}
