// Package event defines event types for decoupling pipeline stages in Lectern.
// Pipeline components publish progress as typed events; consumers (CLI output,
// the TUI progress view) subscribe without the pipeline knowing about either.
package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "document.loaded", "question.answered")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Session Lifecycle Events
// -----------------------------------------------------------------------------

// DocumentLoadedEvent is emitted once a document's text has been ingested.
type DocumentLoadedEvent struct {
	baseEvent
	Path  string // Original document path
	Bytes int    // Length of the loaded plain text
}

// NewDocumentLoadedEvent creates a DocumentLoadedEvent.
func NewDocumentLoadedEvent(path string, size int) DocumentLoadedEvent {
	return DocumentLoadedEvent{
		baseEvent: newBaseEvent("document.loaded"),
		Path:      path,
		Bytes:     size,
	}
}

// DomainClassifiedEvent is emitted after the domain classification call.
type DomainClassifiedEvent struct {
	baseEvent
	Path   string
	Domain string // Resolved domain label (possibly the fallback default)
}

// NewDomainClassifiedEvent creates a DomainClassifiedEvent.
func NewDomainClassifiedEvent(path, domain string) DomainClassifiedEvent {
	return DomainClassifiedEvent{
		baseEvent: newBaseEvent("document.classified"),
		Path:      path,
		Domain:    domain,
	}
}

// QuestionAnsweredEvent is emitted after each per-question LLM call resolves,
// successfully or not.
type QuestionAnsweredEvent struct {
	baseEvent
	Path       string
	QuestionID string
	Succeeded  bool
	Index      int // 1-based position within the filtered question list
	Total      int // Size of the filtered question list
}

// NewQuestionAnsweredEvent creates a QuestionAnsweredEvent.
func NewQuestionAnsweredEvent(path, questionID string, ok bool, index, total int) QuestionAnsweredEvent {
	return QuestionAnsweredEvent{
		baseEvent:  newBaseEvent("question.answered"),
		Path:       path,
		QuestionID: questionID,
		Succeeded:  ok,
		Index:      index,
		Total:      total,
	}
}

// SessionPhaseEvent is emitted on every state transition of an analysis session.
type SessionPhaseEvent struct {
	baseEvent
	Path  string
	Phase string // New session state name
}

// NewSessionPhaseEvent creates a SessionPhaseEvent.
func NewSessionPhaseEvent(path, phase string) SessionPhaseEvent {
	return SessionPhaseEvent{
		baseEvent: newBaseEvent("session.phase"),
		Path:      path,
		Phase:     phase,
	}
}

// SessionDoneEvent is emitted when a session reaches its terminal state.
type SessionDoneEvent struct {
	baseEvent
	Path       string
	ReportPath string // Empty when the session failed
	Err        error  // Non-nil when the session failed
}

// NewSessionDoneEvent creates a SessionDoneEvent.
func NewSessionDoneEvent(path, reportPath string, err error) SessionDoneEvent {
	return SessionDoneEvent{
		baseEvent:  newBaseEvent("session.done"),
		Path:       path,
		ReportPath: reportPath,
		Err:        err,
	}
}

// -----------------------------------------------------------------------------
// Batch Events
// -----------------------------------------------------------------------------

// BatchProgressEvent is emitted by the coordinator whenever aggregate counters
// change.
type BatchProgressEvent struct {
	baseEvent
	Completed int
	Failed    int
	Total     int
}

// NewBatchProgressEvent creates a BatchProgressEvent.
func NewBatchProgressEvent(completed, failed, total int) BatchProgressEvent {
	return BatchProgressEvent{
		baseEvent: newBaseEvent("batch.progress"),
		Completed: completed,
		Failed:    failed,
		Total:     total,
	}
}

// BatchFinishedEvent is emitted once after every session has terminated.
type BatchFinishedEvent struct {
	baseEvent
	Succeeded int
	Failed    int
}

// NewBatchFinishedEvent creates a BatchFinishedEvent.
func NewBatchFinishedEvent(succeeded, failed int) BatchFinishedEvent {
	return BatchFinishedEvent{
		baseEvent: newBaseEvent("batch.finished"),
		Succeeded: succeeded,
		Failed:    failed,
	}
}
