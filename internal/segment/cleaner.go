package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/qaforge/qaforge/pkg/qa"
)

// Default substance floor thresholds, counted in characters rather than
// bytes. An answer floor of 10 keeps concise but valid answers that a
// higher floor would discard.
const (
	DefaultMinQuestionLen = 20
	DefaultMinAnswerLen   = 10
)

var (
	// Leading navigation boilerplate from the captured page, applied once
	// at the very start of a block.
	navPreambleRe = regexp.MustCompile(`(?s)^Skip to content.*?Most recent`)

	// Leading follower-count run, e.g. "1234 followers ... More".
	followerPreambleRe = regexp.MustCompile(`^\d+ followers.*?More`)
)

// BoundaryStrategy selects the question/answer split point within a block's
// remaining content. Boundary returns the index just past the end of the
// question, or -1 when no usable boundary exists.
type BoundaryStrategy interface {
	Name() string
	Boundary(content string) int
}

// LastQuestionMark anchors the boundary on the final '?' in the content.
// This handles rhetorical questions embedded in the real question, at the
// cost of mis-splitting blocks whose answer ends in its own '?'. A known
// heuristic limitation, kept rather than guessed around.
type LastQuestionMark struct{}

func (LastQuestionMark) Name() string { return "last_question_mark" }

func (LastQuestionMark) Boundary(content string) int {
	pos := strings.LastIndex(content, "?")
	if pos == -1 {
		return -1
	}
	return pos + 1
}

// Cleaner turns one text block into a question/answer candidate. It strips
// page preambles, anchors on the last metadata signature to find where the
// real Q&A content starts, and separates question from answer at the
// boundary the strategy selects.
type Cleaner struct {
	matcher        *Matcher
	strategy       BoundaryStrategy
	minQuestionLen int
	minAnswerLen   int
}

// CleanerOption customizes a Cleaner
type CleanerOption func(*Cleaner)

// WithBoundaryStrategy replaces the default last-question-mark strategy
func WithBoundaryStrategy(s BoundaryStrategy) CleanerOption {
	return func(c *Cleaner) { c.strategy = s }
}

// WithSubstanceFloor overrides the minimum question/answer lengths.
// Non-positive values keep the defaults.
func WithSubstanceFloor(minQuestion, minAnswer int) CleanerOption {
	return func(c *Cleaner) {
		if minQuestion > 0 {
			c.minQuestionLen = minQuestion
		}
		if minAnswer > 0 {
			c.minAnswerLen = minAnswer
		}
	}
}

// NewCleaner creates a cleaner using the given matcher
func NewCleaner(matcher *Matcher, opts ...CleanerOption) *Cleaner {
	c := &Cleaner{
		matcher:        matcher,
		strategy:       LastQuestionMark{},
		minQuestionLen: DefaultMinQuestionLen,
		minAnswerLen:   DefaultMinAnswerLen,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean separates one block into a question/answer candidate. The second
// return value is false when the block has no usable boundary; that is a
// normal outcome, not an error.
func (c *Cleaner) Clean(block string) (*qa.Candidate, bool) {
	text := navPreambleRe.ReplaceAllString(block, "")
	text = followerPreambleRe.ReplaceAllString(text, "")

	matches := c.matcher.Find(text)

	if len(matches) == 0 {
		// No metadata anchor; fall back to the boundary heuristic over
		// the whole text.
		return c.separate(text, false)
	}

	// The last signature is the one closest to the actual Q&A content:
	// earlier occurrences may be author mentions embedded in the question
	// itself.
	last := matches[len(matches)-1]
	content := strings.TrimSpace(text[last.End:])

	return c.separate(content, true)
}

// separate applies the boundary strategy and the substance floor. When
// scrubAnswer is set, residual metadata signatures are stripped from the
// answer side.
func (c *Cleaner) separate(content string, scrubAnswer bool) (*qa.Candidate, bool) {
	boundary := c.strategy.Boundary(content)
	if boundary < 0 {
		return nil, false
	}

	question := strings.TrimSpace(content[:boundary])
	answer := strings.TrimSpace(content[boundary:])

	if scrubAnswer {
		answer = c.matcher.Strip(answer)
	}

	if question == answer ||
		utf8.RuneCountInString(question) <= c.minQuestionLen ||
		utf8.RuneCountInString(answer) <= c.minAnswerLen {
		return nil, false
	}

	return &qa.Candidate{Question: question, Answer: answer}, true
}
