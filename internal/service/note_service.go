package service

import (
	"github.com/google/uuid"

	"clinical-scribe-be/internal/apperror"
	"clinical-scribe-be/internal/dto"
	"clinical-scribe-be/internal/mapper"
	"clinical-scribe-be/internal/repository/memory"
)

type INoteService interface {
	List(sessionID string) ([]*dto.NoteListItemResponse, error)
	Show(sessionID string, id uuid.UUID) (*dto.ShowNoteResponse, error)
}

// noteService is the read side of the note history popup: list newest-first,
// show one. Writes happen only inside the pipeline.
type noteService struct {
	sessions *memory.SessionRepository
	notes    *memory.NoteRepository
	mapper   *mapper.NoteMapper
}

func NewNoteService(sessions *memory.SessionRepository, notes *memory.NoteRepository) INoteService {
	return &noteService{
		sessions: sessions,
		notes:    notes,
		mapper:   mapper.NewNoteMapper(),
	}
}

func (s *noteService) List(sessionID string) ([]*dto.NoteListItemResponse, error) {
	if _, found := s.sessions.Get(sessionID); !found {
		return nil, apperror.SessionNotFound()
	}

	notes := s.notes.List(sessionID)
	res := make([]*dto.NoteListItemResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, s.mapper.ToListItem(n))
	}
	return res, nil
}

func (s *noteService) Show(sessionID string, id uuid.UUID) (*dto.ShowNoteResponse, error) {
	if _, found := s.sessions.Get(sessionID); !found {
		return nil, apperror.SessionNotFound()
	}

	note, found := s.notes.FindById(sessionID, id)
	if !found {
		return nil, apperror.NotFound("Note")
	}
	return s.mapper.ToShowResponse(note), nil
}
