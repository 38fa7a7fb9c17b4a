package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by the scribe pipeline.
const (
	TypeNoteCreated    = "NOTE_CREATED"
	TypePipelineFailed = "PIPELINE_FAILED"
)

// NoteCreated builds the event emitted after a fully successful pipeline run.
func NoteCreated(sessionID, noteID string, cost float64) BaseEvent {
	return BaseEvent{
		Type: TypeNoteCreated,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"note_id":    noteID,
			"cost":       cost,
		},
		OccurredAt: time.Now(),
	}
}

// PipelineFailed builds the event emitted when any pipeline stage fails.
func PipelineFailed(sessionID, code, message string) BaseEvent {
	return BaseEvent{
		Type: TypePipelineFailed,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"code":       code,
			"message":    message,
		},
		OccurredAt: time.Now(),
	}
}
