package pipeline

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType identifies a pipeline event
type EventType string

const (
	EventRunStarted        EventType = "run.started"
	EventBlobSplit         EventType = "blob.split"
	EventBlockSkipped      EventType = "block.skipped"
	EventCandidateRejected EventType = "candidate.rejected"
	EventRecordAccepted    EventType = "record.accepted"
	EventProgress          EventType = "run.progress"
	EventRunCompleted      EventType = "run.completed"
)

// Event is a structured observation emitted while a run progresses. Events
// carry accounting context only; they never influence control flow.
type Event struct {
	Type      EventType              `json:"type"`
	RunID     string                 `json:"run_id"`
	Profile   string                 `json:"profile,omitempty"`
	BlobIndex int                    `json:"blob_index"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Emitter receives pipeline events. Implementations must be cheap; the
// orchestrator calls Emit inline.
type Emitter interface {
	Emit(event Event)
}

// NopEmitter discards all events
type NopEmitter struct{}

func (NopEmitter) Emit(Event) {}

// LogEmitter forwards events to a zerolog logger
type LogEmitter struct {
	Logger zerolog.Logger
}

func (e LogEmitter) Emit(event Event) {
	e.Logger.Debug().
		Str("event", string(event.Type)).
		Str("run_id", event.RunID).
		Int("blob_index", event.BlobIndex).
		Fields(event.Metadata).
		Msg("Pipeline event")
}

// CollectingEmitter records events for inspection in tests
type CollectingEmitter struct {
	mu     sync.Mutex
	events []Event
}

func (e *CollectingEmitter) Emit(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

// Events returns a copy of everything emitted so far
func (e *CollectingEmitter) Events() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

// Count returns how many events of the given type were emitted
func (e *CollectingEmitter) Count(eventType EventType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}
