package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/qaforge/pkg/qa"
)

func TestNormalizeQuestion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses whitespace", "What   is\t\tthis?", "what is this?"},
		{"lowercases", "WHAT IS THIS ABOUT?", "what is this about?"},
		{"trims", "  what is this?  ", "what is this?"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeQuestion(tt.input))
		})
	}
}

func TestDeduplicatorFirstSeenWins(t *testing.T) {
	dedup := NewDeduplicator(0)

	records := []qa.Record{
		{Question: "What is the tallest mountain on Earth?", Answer: "Mount Everest, at 8849 meters."},
		{Question: "WHAT IS THE TALLEST   MOUNTAIN ON EARTH?  ", Answer: "A different answer that is dropped."},
		{Question: "Why is the ocean salty in most places?", Answer: "Rivers carry dissolved minerals into it."},
	}

	unique := dedup.Deduplicate(records)
	require.Len(t, unique, 2)

	// First occurrence survives untouched; the later duplicate's answer
	// is never merged in.
	assert.Equal(t, records[0], unique[0])
	assert.Equal(t, records[2], unique[1])
}

func TestDeduplicatorDropsShortKeys(t *testing.T) {
	dedup := NewDeduplicator(0)

	records := []qa.Record{
		{Question: "Why though, really?", Answer: "Because the key is too short to keep."},
		{Question: "Why is the ocean salty in most places?", Answer: "Rivers carry dissolved minerals into it."},
	}

	unique := dedup.Deduplicate(records)
	require.Len(t, unique, 1)
	assert.Equal(t, records[1], unique[0])
}

func TestDeduplicatorKeyFloorCountsCharacters(t *testing.T) {
	dedup := NewDeduplicator(0)

	records := []qa.Record{
		// 11 characters but 31 bytes: still under the key floor
		{Question: "为什么天空是蓝色的呢?", Answer: "Short wavelengths scatter more strongly."},
		{Question: "为什么海洋里的水在大多数的地方都是咸的呢?", Answer: "Rivers carry dissolved minerals into the sea."},
	}

	unique := dedup.Deduplicate(records)
	require.Len(t, unique, 1)
	assert.Equal(t, records[1], unique[0])
}

func TestDeduplicatorIdempotent(t *testing.T) {
	dedup := NewDeduplicator(0)

	records := []qa.Record{
		{Question: "What is the tallest mountain on Earth?", Answer: "Mount Everest, at 8849 meters."},
		{Question: "what is the tallest mountain on earth?", Answer: "Duplicate answer."},
		{Question: "Why is the ocean salty in most places?", Answer: "Rivers carry dissolved minerals into it."},
	}

	once := dedup.Deduplicate(records)
	twice := dedup.Deduplicate(once)

	assert.Equal(t, once, twice)
}

func TestDeduplicatorNormalizationInvariant(t *testing.T) {
	dedup := NewDeduplicator(0)

	records := []qa.Record{
		{Question: "What is the tallest mountain on Earth?", Answer: "Mount Everest, at 8849 meters."},
		{Question: "What is the  tallest mountain on Earth?", Answer: "Duplicate."},
		{Question: "Why is the ocean salty in most places?", Answer: "Rivers carry dissolved minerals into it."},
		{Question: "Why do leaves change color in autumn every year?", Answer: "Chlorophyll breaks down in cold weather."},
	}

	unique := dedup.Deduplicate(records)

	seen := make(map[string]bool)
	for _, rec := range unique {
		key := NormalizeQuestion(rec.Question)
		assert.False(t, seen[key], "normalized question %q appears twice", key)
		seen[key] = true
	}
}

func TestDeduplicatorEmptyInput(t *testing.T) {
	dedup := NewDeduplicator(0)

	assert.Empty(t, dedup.Deduplicate(nil))
	assert.Empty(t, dedup.Deduplicate([]qa.Record{}))
}
