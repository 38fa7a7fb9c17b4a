package dto

import "github.com/google/uuid"

// RunResultResponse is returned by stop-record and upload once the pipeline
// has finished. It carries the same (transcription, clinicalNote, cost)
// triple that was committed to the note store.
type RunResultResponse struct {
	NoteId        uuid.UUID `json:"note_id"`
	Transcription string    `json:"transcription"`
	ClinicalNote  string    `json:"clinical_note"`
	Cost          float64   `json:"cost"`
}

// StartRecordingRequest optionally declares the media type the browser's
// recorder will produce. Defaults to audio/webm.
type StartRecordingRequest struct {
	MimeType string `json:"mime_type" validate:"omitempty,startswith=audio/"`
}

type StartRecordingResponse struct {
	Phase string `json:"phase"`
}
