// Command qaforge cleans a scraped profile extract into a deduplicated
// question/answer corpus.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/qaforge/qaforge/internal/ingest"
	"github.com/qaforge/qaforge/internal/pipeline"
	"github.com/qaforge/qaforge/internal/storage"
	"github.com/qaforge/qaforge/pkg/config"
	"github.com/qaforge/qaforge/pkg/logging"
	"github.com/qaforge/qaforge/pkg/qa"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		outputDir  = flag.String("o", "", "output directory (overrides config)")
		sqlitePath = flag.String("sqlite", "", "optional SQLite database path")
		htmlInput  = flag.Bool("html", false, "treat input as a captured profile page instead of extract JSON")
		profileID  = flag.String("profile", "", "profile identifier (HTML input only)")
		logLevel   = flag.String("log-level", "", "log level override (debug, info, warn, error)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input-file>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *sqlitePath != "" {
		cfg.Output.SQLitePath = *sqlitePath
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if err := logging.SetupLogger(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}

	extract, err := loadExtract(inputPath, *htmlInput, *profileID)
	if err != nil {
		log.Fatal().Err(err).Str("input", inputPath).Msg("Failed to load input")
	}

	orchestrator, err := pipeline.New(cfg.Segment,
		pipeline.WithEmitter(pipeline.LogEmitter{Logger: logging.GetLogger("pipeline")}))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build pipeline")
	}

	corpus, err := orchestrator.Run(extract)
	if err != nil {
		log.Fatal().Err(err).Msg("Pipeline run failed")
	}

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	if err := store.SaveCorpus(context.Background(), corpus); err != nil {
		log.Fatal().Err(err).Msg("Failed to save corpus")
	}

	fmt.Printf("Original extractions: %d\n", corpus.Stats.OriginalExtractions)
	fmt.Printf("Blobs split (multiple Q&As): %d\n", corpus.Stats.BlobsSplit)
	fmt.Printf("Skipped: %d\n", corpus.Stats.Skipped)
	fmt.Printf("After cleaning: %d\n", corpus.Stats.AfterCleaning)
	fmt.Printf("After deduplication: %d\n", corpus.Stats.AfterDeduplication)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

func loadExtract(path string, html bool, profileID string) (*qa.ProfileExtract, error) {
	if !html {
		return ingest.LoadProfileExtract(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	blobs, err := ingest.NewHTMLExtractor().ExtractBlobs(f)
	if err != nil {
		return nil, err
	}

	return &qa.ProfileExtract{
		Profile: qa.Profile{UserID: profileID},
		Answers: blobs,
	}, nil
}

func buildStore(cfg *config.Config) (storage.CorpusStore, error) {
	fileStore, err := storage.NewFileStore(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}

	if cfg.Output.SQLitePath == "" {
		return fileStore, nil
	}

	sqliteStore, err := storage.NewSQLiteStore(cfg.Output.SQLitePath)
	if err != nil {
		return nil, err
	}

	return storage.NewMultiStore(fileStore, sqliteStore), nil
}
