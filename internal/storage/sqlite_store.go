package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/qaforge/qaforge/pkg/logging"
	"github.com/qaforge/qaforge/pkg/qa"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS corpora (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id           TEXT NOT NULL,
	url                  TEXT,
	original_extractions INTEGER NOT NULL,
	after_cleaning       INTEGER NOT NULL,
	after_deduplication  INTEGER NOT NULL,
	created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	corpus_id    INTEGER NOT NULL REFERENCES corpora(id),
	position     INTEGER NOT NULL,
	question     TEXT NOT NULL,
	answer       TEXT NOT NULL,
	extracted_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_records_corpus ON records(corpus_id, position);
`

// SQLiteStore persists corpora to a SQLite database, preserving record
// order through an explicit position column.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and initializes) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Close() error { return s.db.Close() }

// SaveCorpus inserts the corpus and its records in one transaction
func (s *SQLiteStore) SaveCorpus(ctx context.Context, corpus *qa.Corpus) error {
	logger := logging.GetStorageLogger("save_corpus", s.Name())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	res, err := tx.ExecContext(ctx,
		`INSERT INTO corpora (profile_id, url, original_extractions, after_cleaning, after_deduplication, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		corpus.Profile.UserID,
		corpus.Profile.URL,
		corpus.Stats.OriginalExtractions,
		corpus.Stats.AfterCleaning,
		corpus.Stats.AfterDeduplication,
		corpus.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert corpus: %w", err)
	}

	corpusID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read corpus id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (corpus_id, position, question, answer, extracted_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range corpus.Records {
		if _, err := stmt.ExecContext(ctx, corpusID, i, rec.Question, rec.Answer, rec.ExtractedAt); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit corpus: %w", err)
	}

	logger.Info().
		Int64("corpus_id", corpusID).
		Str("profile", corpus.Profile.UserID).
		Int("records", len(corpus.Records)).
		Msg("Corpus saved")

	return nil
}

// LoadRecords returns the records of the most recent corpus stored for a
// profile, in their original order.
func (s *SQLiteStore) LoadRecords(ctx context.Context, profileID string) ([]qa.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.question, r.answer, COALESCE(r.extracted_at, '')
		 FROM records r
		 JOIN corpora c ON c.id = r.corpus_id
		 WHERE c.profile_id = ?
		   AND c.id = (SELECT MAX(id) FROM corpora WHERE profile_id = ?)
		 ORDER BY r.position`,
		profileID, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []qa.Record
	for rows.Next() {
		var rec qa.Record
		if err := rows.Scan(&rec.Question, &rec.Answer, &rec.ExtractedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
