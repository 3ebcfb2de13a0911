package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/qaforge/qaforge/pkg/qa"
)

// NormalizeQuestion produces the deduplication key for a question: runs of
// whitespace collapsed to single spaces, lower-cased, trimmed.
func NormalizeQuestion(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " ")
}

// Deduplicator collapses records whose questions normalize to the same key.
// First seen wins; later duplicates are dropped whole, answers are never
// merged. Output order follows input order, so the operation is a
// deterministic fixed point.
type Deduplicator struct {
	minKeyLen int
}

// NewDeduplicator creates a deduplicator. minKeyLen re-checks the question
// floor on the normalized key; non-positive selects the default.
func NewDeduplicator(minKeyLen int) *Deduplicator {
	if minKeyLen <= 0 {
		minKeyLen = DefaultMinQuestionLen
	}
	return &Deduplicator{minKeyLen: minKeyLen}
}

// Deduplicate returns the ordered subsequence of records with duplicate
// questions removed. Records whose normalized question is at or under the
// key floor are dropped even if otherwise well-formed.
func (d *Deduplicator) Deduplicate(records []qa.Record) []qa.Record {
	seen := make(map[string]struct{}, len(records))
	unique := make([]qa.Record, 0, len(records))

	for _, rec := range records {
		key := NormalizeQuestion(rec.Question)
		if utf8.RuneCountInString(key) <= d.minKeyLen {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, rec)
	}

	return unique
}
