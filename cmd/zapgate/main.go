package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zapgate/internal/config"
	"zapgate/internal/constants"
	"zapgate/internal/gateway"
	"zapgate/internal/retry"
	"zapgate/internal/tracing"
	"zapgate/pkg/waclient"
	watypes "zapgate/pkg/waclient/types"

	"github.com/sirupsen/logrus"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// CLI flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging (includes sensitive information)")
	configPath = flag.String("config", "config.json", "Path to configuration file")
	version    = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("zapgate %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}

func run(ctx context.Context) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"version": Version,
		"build":   BuildTime,
		"commit":  GitCommit,
	}).Info("Starting zapgate")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
		logger.Info("Verbose logging enabled - sensitive information will be logged")
	} else {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warnf("Invalid log level %q, defaulting to info", cfg.LogLevel)
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
	}

	tracingManager := tracing.NewTracingManager(cfg.Tracing, logger)
	if err := tracingManager.Initialize(ctx); err != nil {
		logger.Warnf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := tracingManager.Shutdown(context.Background()); err != nil {
			logger.Warnf("Failed to shutdown tracing: %v", err)
		}
	}()

	// Open the credential store with retries, sqlite can be briefly locked
	// by a previous instance during restarts.
	var client *waclient.Client
	err = retry.WithBackoff(ctx, retry.BackoffConfig{
		InitialBackoffMs: cfg.Reconnect.InitialBackoffMs,
		MaxBackoffMs:     cfg.Reconnect.MaxBackoffMs,
		MaxAttempts:      constants.DefaultStoreRetryAttempts,
	}, func() error {
		var initErr error
		client, initErr = waclient.NewClient(ctx, watypes.ClientConfig{
			StorePath:  cfg.Store.Path,
			DeviceName: cfg.Store.DeviceName,
		}, logger)
		if initErr != nil {
			logger.Warnf("Failed to open credential store: %v", initErr)
		}
		return initErr
	})
	if err != nil {
		return fmt.Errorf("failed to initialize WhatsApp client after retries: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warnf("Failed to close credential store: %v", err)
		}
	}()

	gw := gateway.NewGateway(client, cfg, logger)

	gatewayErrCh := make(chan error, 1)
	go func() {
		if err := gw.Run(ctx); err != nil {
			gatewayErrCh <- fmt.Errorf("gateway error: %w", err)
		}
	}()

	server := NewServer(cfg.Server, gw, logger)
	serverErrCh := make(chan error, constants.ServerErrorChannelSize)
	go func() {
		if err := server.Start(); err != nil {
			serverErrCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErrCh:
		logger.Error(err)
		return err
	case err := <-gatewayErrCh:
		logger.Error(err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(constants.DefaultGracefulShutdownSec)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}
