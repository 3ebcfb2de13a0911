package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/qaforge/pkg/qa"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newTestOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	opts = append(opts, WithClock(fixedClock()))
	o, err := New(nil, opts...)
	require.NoError(t, err)
	return o
}

func TestRunSingleBlob(t *testing.T) {
	o := newTestOrchestrator(t)

	extract := &qa.ProfileExtract{
		Profile: qa.Profile{UserID: "jane-doe-1"},
		Answers: []qa.RawAnswer{{
			Question:    "Jane Doe B.Sc.·5y·What is the speed of light? It is approximately 299,792 kilometers per second in vacuum.",
			ExtractedAt: "2025-05-30T10:00:00Z",
		}},
	}

	corpus, err := o.Run(extract)
	require.NoError(t, err)
	require.Len(t, corpus.Records, 1)

	rec := corpus.Records[0]
	assert.Equal(t, "What is the speed of light?", rec.Question)
	assert.Equal(t, "It is approximately 299,792 kilometers per second in vacuum.", rec.Answer)
	assert.Equal(t, "2025-05-30T10:00:00Z", rec.ExtractedAt)

	assert.Equal(t, 1, corpus.Stats.OriginalExtractions)
	assert.Equal(t, 0, corpus.Stats.BlobsSplit)
	assert.Equal(t, 0, corpus.Stats.Skipped)
	assert.Equal(t, 1, corpus.Stats.AfterCleaning)
	assert.Equal(t, 1, corpus.Stats.AfterDeduplication)
	assert.Equal(t, "jane-doe-1", corpus.Profile.UserID)
}

func TestRunSplitsConcatenatedBlob(t *testing.T) {
	o := newTestOrchestrator(t)

	blob := "Jane Doe·5y·What makes the sky look blue at noon on a clear day? " +
		"Sunlight scatters off air molecules, and shorter blue wavelengths scatter far more strongly than red ones do. " +
		"John Roe·2mo·Why is the ocean salty in most places around the world? " +
		"Rivers carry dissolved minerals into the sea, and evaporation concentrates them over geological time."

	corpus, err := o.Run(&qa.ProfileExtract{
		Answers: []qa.RawAnswer{{Question: blob}},
	})
	require.NoError(t, err)

	require.Len(t, corpus.Records, 2)
	assert.Equal(t, 1, corpus.Stats.BlobsSplit)
	assert.Equal(t, "What makes the sky look blue at noon on a clear day?", corpus.Records[0].Question)
	assert.Contains(t, corpus.Records[1].Question, "Why is the ocean salty in most places around the world?")
	assert.Equal(t, "Rivers carry dissolved minerals into the sea, and evaporation concentrates them over geological time.", corpus.Records[1].Answer)

	// No per-blob timestamp: records are stamped with the run clock
	assert.Equal(t, "2025-06-01T12:00:00Z", corpus.Records[0].ExtractedAt)
}

func TestRunSkipsUnsegmentableBlob(t *testing.T) {
	o := newTestOrchestrator(t)

	corpus, err := o.Run(&qa.ProfileExtract{
		Answers: []qa.RawAnswer{{Question: "Short"}},
	})
	require.NoError(t, err)

	assert.Empty(t, corpus.Records)
	assert.Equal(t, 1, corpus.Stats.OriginalExtractions)
	assert.Equal(t, 1, corpus.Stats.Skipped)
	assert.Equal(t, 0, corpus.Stats.AfterCleaning)
	assert.Equal(t, 0, corpus.Stats.AfterDeduplication)
}

func TestRunDeduplicatesAcrossBlobs(t *testing.T) {
	o := newTestOrchestrator(t)

	corpus, err := o.Run(&qa.ProfileExtract{
		Answers: []qa.RawAnswer{
			{Question: "Jane Doe·5y·What is the tallest mountain on Earth? Mount Everest, at 8849 meters above sea level."},
			{Question: "John Roe·3y·WHAT IS THE TALLEST   MOUNTAIN ON EARTH? A later duplicate answer that must be dropped."},
		},
	})
	require.NoError(t, err)

	require.Len(t, corpus.Records, 1)
	assert.Equal(t, "What is the tallest mountain on Earth?", corpus.Records[0].Question)
	assert.Equal(t, "Mount Everest, at 8849 meters above sea level.", corpus.Records[0].Answer)
	assert.Equal(t, 2, corpus.Stats.AfterCleaning)
	assert.Equal(t, 1, corpus.Stats.AfterDeduplication)
}

func TestRunMalformedInput(t *testing.T) {
	o := newTestOrchestrator(t)

	_, err := o.Run(&qa.ProfileExtract{Profile: qa.Profile{UserID: "x"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, qa.ErrMalformedInput)

	_, err = o.Run(nil)
	assert.ErrorIs(t, err, qa.ErrMalformedInput)
}

func TestRunEmptyAnswerListSucceeds(t *testing.T) {
	o := newTestOrchestrator(t)

	corpus, err := o.Run(&qa.ProfileExtract{Answers: []qa.RawAnswer{}})
	require.NoError(t, err)
	assert.Empty(t, corpus.Records)
	assert.Equal(t, 0, corpus.Stats.OriginalExtractions)
}

func TestRunEmitsEvents(t *testing.T) {
	emitter := &CollectingEmitter{}
	o := newTestOrchestrator(t, WithEmitter(emitter))

	_, err := o.Run(&qa.ProfileExtract{
		Answers: []qa.RawAnswer{
			{Question: "Jane Doe B.Sc.·5y·What is the speed of light? It is approximately 299,792 kilometers per second in vacuum."},
			{Question: "Short"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, emitter.Count(EventRunStarted))
	assert.Equal(t, 1, emitter.Count(EventRecordAccepted))
	assert.Equal(t, 1, emitter.Count(EventBlockSkipped))
	assert.Equal(t, 1, emitter.Count(EventRunCompleted))

	events := emitter.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, EventRunStarted, events[0].Type)
	assert.Equal(t, EventRunCompleted, events[len(events)-1].Type)
}

func TestRunDeterministic(t *testing.T) {
	extract := &qa.ProfileExtract{
		Profile: qa.Profile{UserID: "jane-doe-1"},
		Answers: []qa.RawAnswer{
			{Question: "Jane Doe·5y·What is the tallest mountain on Earth? Mount Everest, at 8849 meters above sea level.", ExtractedAt: "2025-05-30T10:00:00Z"},
			{Question: "John Roe·3y·Why is the ocean salty in most places? Rivers carry dissolved minerals into it over eons.", ExtractedAt: "2025-05-30T10:01:00Z"},
			{Question: "Ann Lee·Jan 3·what is the tallest mountain on earth? A duplicate phrased with different casing entirely.", ExtractedAt: "2025-05-30T10:02:00Z"},
		},
	}

	first, err := newTestOrchestrator(t).Run(extract)
	require.NoError(t, err)
	second, err := newTestOrchestrator(t).Run(extract)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestRunPreservesInputOrder(t *testing.T) {
	o := newTestOrchestrator(t)

	corpus, err := o.Run(&qa.ProfileExtract{
		Answers: []qa.RawAnswer{
			{Question: "Jane Doe·5y·Why is the ocean salty in most places? Rivers carry dissolved minerals into it over eons."},
			{Question: "John Roe·3y·What is the tallest mountain on Earth? Mount Everest, at 8849 meters above sea level."},
		},
	})
	require.NoError(t, err)

	require.Len(t, corpus.Records, 2)
	assert.Equal(t, "Why is the ocean salty in most places?", corpus.Records[0].Question)
	assert.Equal(t, "What is the tallest mountain on Earth?", corpus.Records[1].Question)
}
