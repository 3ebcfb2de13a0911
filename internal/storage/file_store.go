package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qaforge/qaforge/internal/presentation"
	"github.com/qaforge/qaforge/pkg/logging"
	"github.com/qaforge/qaforge/pkg/qa"
)

// FileStore writes the corpus as a pair of artifacts in one directory:
// <profile>_cleaned.json for downstream consumers and <profile>_cleaned.txt
// as the human-readable report.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating it if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) Name() string { return "file" }

func (fs *FileStore) Close() error { return nil }

// SaveCorpus writes both artifacts. The JSON artifact carries the profile
// unchanged, the scraper stats merged with the run counters, and the
// ordered records.
func (fs *FileStore) SaveCorpus(ctx context.Context, corpus *qa.Corpus) error {
	logger := logging.GetStorageLogger("save_corpus", fs.Name())

	profileID := corpus.Profile.UserID
	if profileID == "" {
		profileID = "unknown"
	}

	artifact := map[string]interface{}{
		"profile":        corpus.Profile,
		"scraping_stats": corpus.MergedStats(),
		"answers":        corpus.Records,
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}

	jsonPath := filepath.Join(fs.dir, profileID+"_cleaned.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	txtPath := filepath.Join(fs.dir, profileID+"_cleaned.txt")
	f, err := os.Create(txtPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", txtPath, err)
	}
	defer f.Close()

	if err := presentation.WriteText(f, corpus); err != nil {
		return fmt.Errorf("failed to write %s: %w", txtPath, err)
	}

	logger.Info().
		Str("json", jsonPath).
		Str("txt", txtPath).
		Int("records", len(corpus.Records)).
		Msg("Corpus saved")

	return nil
}
