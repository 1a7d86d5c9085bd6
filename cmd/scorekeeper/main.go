package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/tally-pad/internal/app"
	"github.com/riskibarqy/tally-pad/internal/config"
	"github.com/riskibarqy/tally-pad/internal/platform/logging"
	"go.uber.org/zap/zapcore"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer logger.Close()
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("open app", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	code := 0
	if err := run(ctx, a, os.Args[1:], os.Stdout); err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		code = exitCode(err)
	}
	if err := a.Close(); err != nil {
		logger.Warn("close store", "error", err)
	}
	if code != 0 {
		logger.Close()
		os.Exit(code)
	}
}

// newLogger keeps stdout for command output: without LOG_FILE, JSON logs go
// to stderr.
func newLogger(cfg config.Config) *logging.Logger {
	if cfg.LogFile != "" {
		return logging.New(cfg.LoggingOptions())
	}
	return logging.NewJSON(cfg.LogLevel, zapcore.Lock(os.Stderr)).With("service", cfg.ServiceName)
}
