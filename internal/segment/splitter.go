package segment

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinBlockLen is the floor, in characters, below which a split span
// is considered noise rather than a real Q&A unit.
const DefaultMinBlockLen = 50

// Splitter partitions a captured blob containing several stacked answers
// into per-answer text blocks. Multiple metadata signatures in one blob are
// the only recoverable boundary signal once the DOM structure is gone.
type Splitter struct {
	matcher     *Matcher
	minBlockLen int
}

// NewSplitter creates a splitter using the given matcher. A non-positive
// minBlockLen selects the default floor.
func NewSplitter(matcher *Matcher, minBlockLen int) *Splitter {
	if minBlockLen <= 0 {
		minBlockLen = DefaultMinBlockLen
	}
	return &Splitter{matcher: matcher, minBlockLen: minBlockLen}
}

// Split returns the ordered per-unit blocks of text. With zero or one
// metadata occurrence there is nothing to split and the whole text comes
// back as a single block. Otherwise the text is cut at each metadata start,
// so every resulting block begins with its own signature; trimmed spans at
// or under the length floor are dropped.
func (s *Splitter) Split(text string) []string {
	matches := s.matcher.Find(text)

	if len(matches) <= 1 {
		return []string{text}
	}

	blocks := make([]string, 0, len(matches))
	for i, match := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1].Start
		}

		block := strings.TrimSpace(text[match.Start:end])
		if utf8.RuneCountInString(block) > s.minBlockLen {
			blocks = append(blocks, block)
		}
	}

	return blocks
}
