package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note is one completed pipeline run. Immutable once created; the store
// never edits or removes it for the session's lifetime.
type Note struct {
	Id            uuid.UUID
	Date          string // human-readable capture timestamp
	Transcription string
	ClinicalNote  string
	Cost          float64
	CreatedAt     time.Time
}
