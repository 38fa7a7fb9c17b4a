package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinical-scribe-be/internal/apperror"
	"clinical-scribe-be/internal/dto"
	"clinical-scribe-be/internal/entity"
	"clinical-scribe-be/internal/pkg/logger"
	"clinical-scribe-be/internal/repository/memory"
	"clinical-scribe-be/pkg/events"
	"clinical-scribe-be/pkg/llm"
	"clinical-scribe-be/pkg/notegen"
	"clinical-scribe-be/pkg/pricing"
	"clinical-scribe-be/pkg/transcription"
)

type IScribeService interface {
	StartRecording(ctx context.Context, sessionID string, req *dto.StartRecordingRequest) (*dto.StartRecordingResponse, error)
	AppendChunk(sessionID string, chunk []byte) error
	StopRecording(ctx context.Context, sessionID string) (*dto.RunResultResponse, error)
	Upload(ctx context.Context, sessionID, contentType, filename string, data []byte) (*dto.RunResultResponse, error)
}

// scribeService sequences capture/intake → transcription → note generation →
// cost estimate → note store, and owns all transitional session state. One
// run in flight per session; the phase field is the reentrancy gate.
type scribeService struct {
	sessions         *memory.SessionRepository
	notes            *memory.NoteRepository
	capture          ICaptureService
	transcriber      transcription.Provider
	generator        *notegen.Generator
	publisherService IPublisherService
	logger           logger.ILogger

	// costModel keys the rate table. Pricing for the dated snapshot used
	// for generation is published under the base model name.
	costModel string
}

func NewScribeService(
	sessions *memory.SessionRepository,
	notes *memory.NoteRepository,
	capture ICaptureService,
	transcriber transcription.Provider,
	generator *notegen.Generator,
	publisherService IPublisherService,
	log logger.ILogger,
	costModel string,
) IScribeService {
	if costModel == "" {
		costModel = "gpt-4o"
	}
	return &scribeService{
		sessions:         sessions,
		notes:            notes,
		capture:          capture,
		transcriber:      transcriber,
		generator:        generator,
		publisherService: publisherService,
		logger:           log,
		costModel:        costModel,
	}
}

func (s *scribeService) StartRecording(_ context.Context, sessionID string, req *dto.StartRecordingRequest) (*dto.StartRecordingResponse, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, apperror.SessionNotFound()
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	// Credential gate comes first: capture is never touched without a key.
	if session.APIKey == "" {
		appErr := apperror.MissingCredential("recording")
		session.ErrorMessage = appErr.Message
		session.ErrorCode = string(appErr.Code)
		return nil, appErr
	}

	switch session.Phase {
	case entity.PhaseRecording:
		return nil, apperror.RecordingInProgress()
	case entity.PhaseProcessing:
		return nil, apperror.PipelineBusy()
	}

	session.ResetRun()

	mimeType := ""
	if req != nil {
		mimeType = req.MimeType
	}
	if err := s.capture.Begin(sessionID, mimeType); err != nil {
		return nil, err
	}

	session.Phase = entity.PhaseRecording
	session.Source = entity.SourceRecord

	return &dto.StartRecordingResponse{Phase: string(session.Phase)}, nil
}

func (s *scribeService) AppendChunk(sessionID string, chunk []byte) error {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return apperror.SessionNotFound()
	}

	session.Mu.Lock()
	recording := session.Phase == entity.PhaseRecording
	session.Mu.Unlock()

	if !recording {
		return apperror.NotRecording()
	}
	return s.capture.Append(sessionID, chunk)
}

func (s *scribeService) StopRecording(ctx context.Context, sessionID string) (*dto.RunResultResponse, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, apperror.SessionNotFound()
	}

	session.Mu.Lock()
	if session.Phase != entity.PhaseRecording {
		session.Mu.Unlock()
		return nil, apperror.NotRecording()
	}

	audio, err := s.capture.End(sessionID)
	if err != nil {
		// Empty capture: back to idle with the failure surfaced.
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.EmptyCapture()
		}
		session.Phase = entity.PhaseIdle
		session.Source = entity.SourceNone
		session.ErrorMessage = appErr.Message
		session.ErrorCode = string(appErr.Code)
		session.Mu.Unlock()
		return nil, appErr
	}

	session.Phase = entity.PhaseProcessing
	apiKey := session.APIKey
	session.Mu.Unlock()

	return s.runPipeline(ctx, session, audio, apiKey)
}

func (s *scribeService) Upload(ctx context.Context, sessionID, contentType, filename string, data []byte) (*dto.RunResultResponse, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, apperror.SessionNotFound()
	}

	session.Mu.Lock()

	if session.APIKey == "" {
		appErr := apperror.MissingCredential("uploading")
		session.ErrorMessage = appErr.Message
		session.ErrorCode = string(appErr.Code)
		session.Mu.Unlock()
		return nil, appErr
	}

	// Intake constraint: declared media type must be an audio category.
	// Rejection performs no further action and leaves session state untouched.
	if !strings.HasPrefix(contentType, "audio/") {
		session.Mu.Unlock()
		return nil, apperror.UnsupportedFileType()
	}

	switch session.Phase {
	case entity.PhaseRecording:
		session.Mu.Unlock()
		return nil, apperror.RecordingInProgress()
	case entity.PhaseProcessing:
		session.Mu.Unlock()
		return nil, apperror.PipelineBusy()
	}

	session.ResetRun()
	session.Phase = entity.PhaseProcessing
	session.Source = entity.SourceUpload
	apiKey := session.APIKey
	session.Mu.Unlock()

	if filename == "" {
		filename = "audio.webm"
	}
	audio := transcription.Audio{
		Data:     data,
		MimeType: contentType,
		Filename: filename,
	}

	return s.runPipeline(ctx, session, audio, apiKey)
}

// runPipeline is the shared sequential run: transcribe, generate, estimate,
// commit. Every stage is awaited in order; no overlap, no retries, no
// cancellation once a remote call has been dispatched.
func (s *scribeService) runPipeline(ctx context.Context, session *entity.Session, audio transcription.Audio, apiKey string) (*dto.RunResultResponse, error) {
	transcript, err := s.transcriber.Transcribe(ctx, audio, apiKey)
	if err != nil {
		appErr := mapTranscribeError(err)
		s.logger.Error("Scribe", "Transcription failed", map[string]interface{}{
			"session_id": session.ID, "code": appErr.Code, "error": err.Error(),
		})
		s.failRun(session, appErr, "")
		return nil, appErr
	}

	noteText, err := s.generator.Generate(ctx, transcript, apiKey)
	if err != nil {
		appErr := mapNoteGenError(err)
		s.logger.Error("Scribe", "Note generation failed", map[string]interface{}{
			"session_id": session.ID, "code": appErr.Code, "error": err.Error(),
		})
		// The successful transcript stays visible even though no note is stored.
		s.failRun(session, appErr, transcript)
		return nil, appErr
	}

	cost, err := pricing.Estimate(pricing.WordCount(transcript), pricing.WordCount(noteText), s.costModel)
	if err != nil {
		appErr := apperror.UnsupportedModel(s.costModel)
		s.failRun(session, appErr, transcript)
		return nil, appErr
	}

	now := time.Now()
	note := &entity.Note{
		Id:            uuid.New(),
		Date:          now.Format("1/2/2006, 3:04:05 PM"),
		Transcription: transcript,
		ClinicalNote:  noteText,
		Cost:          cost,
		CreatedAt:     now,
	}
	s.notes.Append(session.ID, note)

	session.Mu.Lock()
	session.Transcription = transcript
	session.ClinicalNote = noteText
	session.Cost = &cost
	session.Phase = entity.PhaseIdle
	session.Source = entity.SourceNone
	session.ErrorMessage = ""
	session.ErrorCode = ""
	session.Mu.Unlock()

	// Notification is auxiliary; a publish failure never fails the run.
	if s.publisherService != nil {
		evt := events.NoteCreated(session.ID, note.Id.String(), cost)
		if err := s.publisherService.Publish(ctx, evt); err != nil {
			s.logger.Warn("Scribe", "Failed to publish NOTE_CREATED event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("Scribe", "Pipeline run completed", map[string]interface{}{
		"session_id": session.ID, "note_id": note.Id.String(), "cost": cost,
	})

	return &dto.RunResultResponse{
		NoteId:        note.Id,
		Transcription: transcript,
		ClinicalNote:  noteText,
		Cost:          cost,
	}, nil
}

// failRun finalizes a failed run: in-flight flags cleared, error surfaced,
// credential dropped on an explicit auth rejection. The note store is never
// touched on this path.
func (s *scribeService) failRun(session *entity.Session, appErr *apperror.AppError, keepTranscript string) {
	session.Mu.Lock()
	session.Phase = entity.PhaseIdle
	session.Source = entity.SourceNone
	session.ErrorMessage = appErr.Message
	session.ErrorCode = string(appErr.Code)
	if keepTranscript != "" {
		session.Transcription = keepTranscript
	}
	if appErr.Code == apperror.CodeInvalidCredential {
		session.APIKey = ""
	}
	session.Mu.Unlock()

	if s.publisherService != nil {
		evt := events.PipelineFailed(session.ID, string(appErr.Code), appErr.Message)
		if err := s.publisherService.Publish(context.Background(), evt); err != nil {
			s.logger.Warn("Scribe", "Failed to publish PIPELINE_FAILED event", map[string]interface{}{"error": err.Error()})
		}
	}
}

// Credential clearance policy: only an explicit 401 from either remote call
// invalidates the stored key. Generic transport failures do not.
func mapTranscribeError(err error) *apperror.AppError {
	var statusErr *transcription.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Status == 401 {
			return apperror.InvalidCredential()
		}
		return apperror.TranscriptionFailed(statusErr.Status)
	}
	return apperror.TranscriptionTransport(err)
}

func mapNoteGenError(err error) *apperror.AppError {
	if errors.Is(err, notegen.ErrMissingInput) {
		return apperror.MissingInput()
	}
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Status == 401 {
			return apperror.InvalidCredential()
		}
		return apperror.NoteGenerationFailed(statusErr.Status)
	}
	return apperror.NoteGenerationTransport(err)
}
