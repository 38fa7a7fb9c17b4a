package mapper

import (
	"clinical-scribe-be/internal/dto"
	"clinical-scribe-be/internal/entity"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToListItem(n *entity.Note) *dto.NoteListItemResponse {
	if n == nil {
		return nil
	}

	return &dto.NoteListItemResponse{
		Id:        n.Id,
		Date:      n.Date,
		Cost:      n.Cost,
		CreatedAt: n.CreatedAt,
	}
}

func (m *NoteMapper) ToShowResponse(n *entity.Note) *dto.ShowNoteResponse {
	if n == nil {
		return nil
	}

	return &dto.ShowNoteResponse{
		Id:            n.Id,
		Date:          n.Date,
		Transcription: n.Transcription,
		ClinicalNote:  n.ClinicalNote,
		Cost:          n.Cost,
		CreatedAt:     n.CreatedAt,
	}
}
