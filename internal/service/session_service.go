package service

import (
	"strings"

	"github.com/google/uuid"

	"clinical-scribe-be/internal/apperror"
	"clinical-scribe-be/internal/dto"
	"clinical-scribe-be/internal/entity"
	"clinical-scribe-be/internal/repository/memory"
)

type ISessionService interface {
	Create() *dto.CreateSessionResponse
	SaveApiKey(sessionID string, req *dto.SaveApiKeyRequest) error
	ClearApiKey(sessionID string) error
	State(sessionID string) (*dto.SessionStateResponse, error)
}

// sessionService owns the credential holder: one opaque bearer key per
// session, in memory only, no format validation. Validity is discovered by
// the remote services.
type sessionService struct {
	sessions *memory.SessionRepository
}

func NewSessionService(sessions *memory.SessionRepository) ISessionService {
	return &sessionService{
		sessions: sessions,
	}
}

func (s *sessionService) Create() *dto.CreateSessionResponse {
	session := &entity.Session{
		ID:    uuid.New().String(),
		Phase: entity.PhaseIdle,
	}
	s.sessions.Save(session)

	return &dto.CreateSessionResponse{Id: session.ID}
}

func (s *sessionService) SaveApiKey(sessionID string, req *dto.SaveApiKeyRequest) error {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return apperror.SessionNotFound()
	}

	key := strings.TrimSpace(req.ApiKey)
	if key == "" {
		// Empty input leaves the stored credential untouched.
		return nil
	}

	session.Mu.Lock()
	session.APIKey = key
	session.ErrorMessage = ""
	session.ErrorCode = ""
	session.Mu.Unlock()
	return nil
}

func (s *sessionService) ClearApiKey(sessionID string) error {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return apperror.SessionNotFound()
	}

	session.Mu.Lock()
	session.APIKey = ""
	session.Mu.Unlock()
	return nil
}

func (s *sessionService) State(sessionID string) (*dto.SessionStateResponse, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, apperror.SessionNotFound()
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	return &dto.SessionStateResponse{
		Phase:         string(session.Phase),
		Source:        string(session.Source),
		HasApiKey:     session.APIKey != "",
		Transcription: session.Transcription,
		ClinicalNote:  session.ClinicalNote,
		Cost:          session.Cost,
		ErrorMessage:  session.ErrorMessage,
		ErrorCode:     session.ErrorCode,
	}, nil
}
