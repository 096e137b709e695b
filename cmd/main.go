package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"moodlist/internal/llm"
	"moodlist/internal/memory"
	"moodlist/internal/services"
	"moodlist/internal/shared"
	"moodlist/internal/tasks"
	"moodlist/internal/validate"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var catalog *services.SpotifyService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify, config.Generator.RateLimit); err == nil {
			catalog = svc
		} else {
			logger.Warn("spotify service unavailable", "error", err)
		}
	}

	var generator llm.Generator
	if client, err := llm.NewClient(config.Credentials.OpenAI, nil, logger); err == nil {
		generator = client
	} else {
		logger.Warn("generation unavailable", "error", err)
	}

	engineOpts := tasks.EngineOpts{
		Generator:    generator,
		History:      memory.NewStore(config.Generator.HistorySize, config.Generator.HistoryKeys),
		Validator:    validate.New(logger),
		Logger:       logger,
		MaxPerArtist: config.Generator.MaxPerArtist,
	}
	// Keep the interface nil when the concrete service is nil.
	if catalog != nil {
		engineOpts.Catalog = catalog
	}
	engine := tasks.NewPlaylistEngine(engineOpts)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Engine:  engine,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "moodlist",
		Usage:    "Turn a mood prompt into a Spotify playlist",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrValidation) {
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
