package dto

import (
	"time"

	"github.com/google/uuid"
)

type NoteListItemResponse struct {
	Id        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Cost      float64   `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
}

type ShowNoteResponse struct {
	Id            uuid.UUID `json:"id"`
	Date          string    `json:"date"`
	Transcription string    `json:"transcription"`
	ClinicalNote  string    `json:"clinical_note"`
	Cost          float64   `json:"cost"`
	CreatedAt     time.Time `json:"created_at"`
}
