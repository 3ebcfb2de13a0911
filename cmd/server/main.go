// Package main provides the entry point for the qaforge API server
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/qaforge/qaforge/internal/api"
	"github.com/qaforge/qaforge/internal/pipeline"
	"github.com/qaforge/qaforge/internal/storage"
	"github.com/qaforge/qaforge/pkg/config"
	"github.com/qaforge/qaforge/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if err := logging.SetupLogger(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}

	orchestrator, err := pipeline.New(cfg.Segment,
		pipeline.WithEmitter(pipeline.LogEmitter{Logger: logging.GetLogger("pipeline")}))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build pipeline")
	}

	var store storage.CorpusStore
	if cfg.Output.SQLitePath != "" {
		store, err = storage.NewSQLiteStore(cfg.Output.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open storage")
		}
		defer store.Close()
	}

	app := fiber.New(fiber.Config{
		AppName:      "qaforge API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	api.SetupRoutes(app, api.NewHandlers(orchestrator, store))

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("Shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("Starting server")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
