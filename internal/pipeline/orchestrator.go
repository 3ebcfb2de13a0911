package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/qaforge/qaforge/internal/segment"
	"github.com/qaforge/qaforge/pkg/config"
	"github.com/qaforge/qaforge/pkg/logging"
	"github.com/qaforge/qaforge/pkg/qa"
)

// Orchestrator sequences the segmentation stages over a profile extract:
// split each blob, clean each block, validate each candidate, then
// deduplicate the full record list once. It holds no state across runs;
// independent runs may execute in parallel.
type Orchestrator struct {
	splitter         *segment.Splitter
	cleaner          *segment.Cleaner
	validator        *segment.Validator
	dedup            *segment.Deduplicator
	emitter          Emitter
	progressInterval int
	now              func() time.Time
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithEmitter injects an event emitter; default is NopEmitter
func WithEmitter(e Emitter) Option {
	return func(o *Orchestrator) { o.emitter = e }
}

// WithClock overrides the time source, for deterministic tests
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New builds an orchestrator from segmentation configuration. A nil config
// selects all defaults.
func New(cfg *config.SegmentConfig, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		cfg = config.DefaultConfig().Segment
	}

	matcher, err := segment.NewMatcher(cfg.MetadataPattern)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		splitter: segment.NewSplitter(matcher, cfg.MinBlockLen),
		cleaner: segment.NewCleaner(matcher,
			segment.WithSubstanceFloor(cfg.MinQuestionLen, cfg.MinAnswerLen)),
		validator:        segment.NewValidator(cfg.MinQuestionLen, cfg.MinAnswerLen),
		dedup:            segment.NewDeduplicator(cfg.MinQuestionLen),
		emitter:          NopEmitter{},
		progressInterval: cfg.ProgressInterval,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Run processes one profile extract into a corpus. Only a structurally
// malformed extract fails the run; unsegmentable blocks and rejected
// candidates are counted and skipped.
func (o *Orchestrator) Run(extract *qa.ProfileExtract) (*qa.Corpus, error) {
	if err := extract.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger := logging.GetRunLogger(runID, extract.Profile.UserID)

	stats := qa.CorpusStats{
		OriginalExtractions: len(extract.Answers),
	}

	logger.Info().
		Int("blobs", len(extract.Answers)).
		Msg("Pipeline run started")

	o.emit(Event{
		Type:    EventRunStarted,
		RunID:   runID,
		Profile: extract.Profile.UserID,
		Metadata: map[string]interface{}{
			"blobs": len(extract.Answers),
		},
	})

	records := make([]qa.Record, 0, len(extract.Answers))

	for i, raw := range extract.Answers {
		blocks := o.splitter.Split(raw.Question)
		if len(blocks) > 1 {
			stats.BlobsSplit++
			o.emit(Event{
				Type:      EventBlobSplit,
				RunID:     runID,
				BlobIndex: i,
				Metadata: map[string]interface{}{
					"blocks": len(blocks),
				},
			})
		}

		for _, block := range blocks {
			cand, ok := o.cleaner.Clean(block)
			if !ok {
				stats.Skipped++
				o.emit(Event{Type: EventBlockSkipped, RunID: runID, BlobIndex: i})
				continue
			}

			if !o.validator.Accept(cand) {
				stats.Skipped++
				o.emit(Event{Type: EventCandidateRejected, RunID: runID, BlobIndex: i})
				continue
			}

			extractedAt := raw.ExtractedAt
			if extractedAt == "" {
				extractedAt = o.now().UTC().Format(time.RFC3339)
			}

			records = append(records, qa.Record{
				Question:    cand.Question,
				Answer:      cand.Answer,
				ExtractedAt: extractedAt,
			})
			o.emit(Event{Type: EventRecordAccepted, RunID: runID, BlobIndex: i})
		}

		if o.progressInterval > 0 && (i+1)%o.progressInterval == 0 {
			logger.Debug().
				Int("processed", i+1).
				Int("skipped", stats.Skipped).
				Int("split", stats.BlobsSplit).
				Msg("Pipeline progress")
			o.emit(Event{
				Type:      EventProgress,
				RunID:     runID,
				BlobIndex: i,
				Metadata: map[string]interface{}{
					"processed": i + 1,
					"skipped":   stats.Skipped,
				},
			})
		}
	}

	stats.AfterCleaning = len(records)

	unique := o.dedup.Deduplicate(records)
	stats.AfterDeduplication = len(unique)

	corpus := &qa.Corpus{
		Profile:       extract.Profile,
		ScrapingStats: extract.ScrapingStats,
		Stats:         stats,
		Records:       unique,
		CreatedAt:     o.now().UTC(),
	}

	logger.Info().
		Int("original", stats.OriginalExtractions).
		Int("split", stats.BlobsSplit).
		Int("skipped", stats.Skipped).
		Int("cleaned", stats.AfterCleaning).
		Int("unique", stats.AfterDeduplication).
		Msg("Pipeline run completed")

	o.emit(Event{
		Type:    EventRunCompleted,
		RunID:   runID,
		Profile: extract.Profile.UserID,
		Metadata: map[string]interface{}{
			"original": stats.OriginalExtractions,
			"cleaned":  stats.AfterCleaning,
			"unique":   stats.AfterDeduplication,
		},
	})

	return corpus, nil
}

func (o *Orchestrator) emit(event Event) {
	event.Timestamp = o.now().UTC()
	o.emitter.Emit(event)
}
