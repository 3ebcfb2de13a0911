package qa

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedInput indicates the input artifact is structurally unusable.
// It is the only error class that aborts a pipeline run.
var ErrMalformedInput = errors.New("malformed profile extract")

// Profile identifies the scraped profile a corpus was extracted from
type Profile struct {
	UserID         string `json:"user_id"`
	URL            string `json:"url,omitempty"`
	AnswersClaimed int    `json:"nb_answers_claimed,omitempty"`
}

// RawAnswer is a single unstructured blob captured from one scrape event.
// The question field carries the raw text to be segmented; the answer field
// is kept only as a pass-through when the blob was already well-formed.
type RawAnswer struct {
	Question    string `json:"question"`
	Answer      string `json:"answer,omitempty"`
	ExtractedAt string `json:"extracted_at,omitempty"`
}

// ProfileExtract is the input boundary artifact produced by the scraper
type ProfileExtract struct {
	Profile       Profile                `json:"profile"`
	ScrapingStats map[string]interface{} `json:"scraping_stats,omitempty"`
	Answers       []RawAnswer            `json:"answers"`
}

// Validate checks the extract has the structure the pipeline requires
func (pe *ProfileExtract) Validate() error {
	if pe == nil {
		return fmt.Errorf("%w: extract is nil", ErrMalformedInput)
	}
	if pe.Answers == nil {
		return fmt.Errorf("%w: missing answers sequence", ErrMalformedInput)
	}
	return nil
}

// Candidate is a tentative question/answer pair before validation
type Candidate struct {
	Question string
	Answer   string
}

// Record is a validated, canonical question/answer unit
type Record struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	ExtractedAt string `json:"extracted_at"`
}

// Validate checks the record invariants hold
func (r *Record) Validate() error {
	if r.Question == "" {
		return fmt.Errorf("record question cannot be empty")
	}
	if r.Answer == "" {
		return fmt.Errorf("record answer cannot be empty")
	}
	if r.Question == r.Answer {
		return fmt.Errorf("record question and answer must differ")
	}
	return nil
}

// CorpusStats holds the run accounting counters. They are reported only,
// never used for control flow.
type CorpusStats struct {
	OriginalExtractions int `json:"original_extractions"`
	BlobsSplit          int `json:"blobs_split"`
	Skipped             int `json:"skipped"`
	AfterCleaning       int `json:"after_cleaning"`
	AfterDeduplication  int `json:"after_deduplication"`
}

// Corpus is the terminal artifact of one pipeline run: the deduplicated,
// ordered record set plus counters and passed-through profile metadata.
type Corpus struct {
	Profile       Profile                `json:"profile"`
	ScrapingStats map[string]interface{} `json:"scraping_stats,omitempty"`
	Stats         CorpusStats            `json:"stats"`
	Records       []Record               `json:"answers"`
	CreatedAt     time.Time              `json:"created_at"`
}

// MergedStats merges the scraper's own stats with the run counters, the
// shape downstream consumers expect in the JSON artifact
func (c *Corpus) MergedStats() map[string]interface{} {
	merged := make(map[string]interface{}, len(c.ScrapingStats)+3)
	for k, v := range c.ScrapingStats {
		merged[k] = v
	}
	merged["original_extractions"] = c.Stats.OriginalExtractions
	merged["after_cleaning"] = c.Stats.AfterCleaning
	merged["after_deduplication"] = c.Stats.AfterDeduplication
	return merged
}
