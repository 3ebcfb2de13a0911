package segment

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMetadataPattern recognizes the inline author/credential/date
// signature profile pages embed before each answer: an uppercase-led run of
// 5-50 non-separator characters, the separator glyph, then either a relative
// age token ("5y", "3mo") or an abbreviated month plus day ("Jan 15"), with
// an optional trailing separator. The pattern is deliberately generic so it
// works regardless of author identity.
const DefaultMetadataPattern = `[A-Z][^·]{5,50}·(?:\d+[ymo]|[A-Z][a-z]{2} \d+)·?`

// Match is one located occurrence of the metadata signature within a text
type Match struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Matcher locates author metadata signatures in free text. Matching is
// case-insensitive. A Matcher is safe for concurrent use.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles a matcher for the given pattern. An empty pattern
// selects the default generic signature.
func NewMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		pattern = DefaultMetadataPattern
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid metadata pattern: %w", err)
	}

	return &Matcher{re: re}, nil
}

// MustMatcher is like NewMatcher but panics on an invalid pattern. Intended
// for the default pattern and test fixtures.
func MustMatcher(pattern string) *Matcher {
	m, err := NewMatcher(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Find returns all metadata occurrences in text, in order. It returns an
// empty slice when nothing matches.
func (m *Matcher) Find(text string) []Match {
	indexes := m.re.FindAllStringIndex(text, -1)
	matches := make([]Match, 0, len(indexes))
	for _, idx := range indexes {
		matches = append(matches, Match{
			Start: idx[0],
			End:   idx[1],
			Text:  text[idx[0]:idx[1]],
		})
	}
	return matches
}

// Strip removes every metadata occurrence from text. Credential blurbs
// sometimes recur inside answer text before a sign-off.
func (m *Matcher) Strip(text string) string {
	return strings.TrimSpace(m.re.ReplaceAllString(text, ""))
}
