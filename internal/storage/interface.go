package storage

import (
	"context"

	"github.com/qaforge/qaforge/pkg/qa"
)

// CorpusStore persists the terminal artifact of a pipeline run
type CorpusStore interface {
	// SaveCorpus writes the corpus to the backend
	SaveCorpus(ctx context.Context, corpus *qa.Corpus) error

	// Name returns the backend name for logging
	Name() string

	// Close releases backend resources
	Close() error
}

// MultiStore fans a corpus out to several backends. The first failure stops
// the fan-out and is returned.
type MultiStore struct {
	stores []CorpusStore
}

// NewMultiStore combines the given stores
func NewMultiStore(stores ...CorpusStore) *MultiStore {
	return &MultiStore{stores: stores}
}

func (m *MultiStore) SaveCorpus(ctx context.Context, corpus *qa.Corpus) error {
	for _, store := range m.stores {
		if err := store.SaveCorpus(ctx, corpus); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiStore) Name() string { return "multi" }

func (m *MultiStore) Close() error {
	var firstErr error
	for _, store := range m.stores {
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
