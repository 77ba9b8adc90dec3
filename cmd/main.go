package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/desertthunder/shadowkick/internal/services"
	"github.com/desertthunder/shadowkick/internal/session"
	"github.com/desertthunder/shadowkick/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	if err := shared.ApplyEnv(config, ".env"); err != nil {
		logger.Fatalf("configuration error: %v", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	sess, err := session.Open(config.Session, config.Database, logger)
	if err != nil {
		logger.Warn("falling back to an in-memory session", "error", err)
		sess = session.NewMemory(logger)
	}
	defer sess.Close()

	httpClient := &http.Client{Timeout: config.API.Timeout()}
	apiService := services.NewAPIService(services.APIOptions{
		BaseURL:     config.API.BaseURL,
		HTTPClient:  httpClient,
		Session:     sess,
		LenientAuth: !config.API.StrictAuth,
		RateLimit:   config.API.RateLimit,
		Burst:       config.API.Burst,
		Logger:      logger,
	})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        apiService,
		Session:    sess,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "shadowkick",
		Usage:    "Browse the ShadowKick movie catalogue and manage your favorites",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			sess.Close()
			os.Exit(0)
		}
		logger.Error(services.NormalizeError(err))
		logger.Debug("application error", "err", err)
		sess.Close()
		os.Exit(1)
	}
}
