package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinical-scribe-be/internal/apperror"
	"clinical-scribe-be/internal/dto"
	"clinical-scribe-be/internal/entity"
	"clinical-scribe-be/internal/repository/memory"
	"clinical-scribe-be/pkg/events"
	"clinical-scribe-be/pkg/llm"
	"clinical-scribe-be/pkg/notegen"
	"clinical-scribe-be/pkg/pricing"
	"clinical-scribe-be/pkg/transcription"
)

type fakeTranscriber struct {
	calls  int
	result string
	err    error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ transcription.Audio, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type fakeChatProvider struct {
	calls  int
	result string
	err    error
}

func (f *fakeChatProvider) Chat(_ context.Context, _ string, _ []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type capturedEvent struct {
	eventType string
	payload   map[string]interface{}
}

type fakePublisher struct {
	published []capturedEvent
}

func (f *fakePublisher) Publish(_ context.Context, evt events.Event) error {
	f.published = append(f.published, capturedEvent{eventType: evt.EventType(), payload: evt.Payload()})
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type scribeFixture struct {
	service     IScribeService
	sessions    *memory.SessionRepository
	notes       *memory.NoteRepository
	transcriber *fakeTranscriber
	chat        *fakeChatProvider
	publisher   *fakePublisher
	sessionID   string
}

func newScribeFixture(t *testing.T, apiKey string) *scribeFixture {
	return newScribeFixtureWithCostModel(t, apiKey, "gpt-4o")
}

func newScribeFixtureWithCostModel(t *testing.T, apiKey, costModel string) *scribeFixture {
	t.Helper()

	sessions := memory.NewSessionRepository(time.Hour)
	notes := memory.NewNoteRepository()
	transcriber := &fakeTranscriber{result: "patient reports mild headache"}
	chat := &fakeChatProvider{result: "Subjective: mild headache"}
	publisher := &fakePublisher{}

	session := &entity.Session{ID: "sess-1", Phase: entity.PhaseIdle, APIKey: apiKey}
	sessions.Save(session)

	svc := NewScribeService(
		sessions,
		notes,
		NewCaptureService(),
		transcriber,
		notegen.NewGenerator(chat, ""),
		publisher,
		nopLogger{},
		costModel,
	)

	return &scribeFixture{
		service:     svc,
		sessions:    sessions,
		notes:       notes,
		transcriber: transcriber,
		chat:        chat,
		publisher:   publisher,
		sessionID:   session.ID,
	}
}

func (f *scribeFixture) session(t *testing.T) *entity.Session {
	t.Helper()
	s, found := f.sessions.Get(f.sessionID)
	require.True(t, found)
	return s
}

func appCode(t *testing.T, err error) apperror.Code {
	t.Helper()
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok, "expected *apperror.AppError, got %T", err)
	return appErr.Code
}

func TestUploadHappyPath(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	result, err := f.service.Upload(context.Background(), f.sessionID, "audio/mpeg", "visit.mp3", []byte("bytes"))
	require.NoError(t, err)

	wantCost, err := pricing.Estimate(
		pricing.WordCount(f.transcriber.result),
		pricing.WordCount(f.chat.result),
		"gpt-4o",
	)
	require.NoError(t, err)

	assert.Equal(t, "patient reports mild headache", result.Transcription)
	assert.Equal(t, "Subjective: mild headache", result.ClinicalNote)
	assert.Equal(t, wantCost, result.Cost)

	stored := f.notes.List(f.sessionID)
	require.Len(t, stored, 1)
	assert.Equal(t, result.NoteId, stored[0].Id)
	assert.Equal(t, wantCost, stored[0].Cost)

	session := f.session(t)
	assert.Equal(t, entity.PhaseIdle, session.Phase)
	assert.Equal(t, entity.SourceNone, session.Source)
	assert.Empty(t, session.ErrorMessage)
	require.NotNil(t, session.Cost)
	assert.Equal(t, wantCost, *session.Cost)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeNoteCreated, f.publisher.published[0].eventType)
}

func TestUploadNotesMostRecentFirst(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	first, err := f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("a"))
	require.NoError(t, err)
	second, err := f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("b"))
	require.NoError(t, err)

	stored := f.notes.List(f.sessionID)
	require.Len(t, stored, 2)
	assert.Equal(t, second.NoteId, stored[0].Id)
	assert.Equal(t, first.NoteId, stored[1].Id)
}

func TestUploadWithoutCredential(t *testing.T) {
	f := newScribeFixture(t, "")

	_, err := f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("bytes"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeMissingCredential, appCode(t, err))

	// No remote call may be attempted without a key.
	assert.Zero(t, f.transcriber.calls)
	assert.Zero(t, f.chat.calls)

	session := f.session(t)
	assert.Equal(t, entity.PhaseIdle, session.Phase)
	assert.NotEmpty(t, session.ErrorMessage)
}

func TestUploadRejectsNonAudioFile(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	_, err := f.service.Upload(context.Background(), f.sessionID, "video/mp4", "clip.mp4", []byte("bytes"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUnsupportedFileType, appCode(t, err))

	// Rejection leaves the session untouched; no error is surfaced in state.
	session := f.session(t)
	assert.Empty(t, session.ErrorMessage)
	assert.Equal(t, entity.PhaseIdle, session.Phase)
	assert.Zero(t, f.transcriber.calls)
}

func TestUploadAuthRejectionClearsCredential(t *testing.T) {
	f := newScribeFixture(t, "sk-bad")
	f.transcriber.err = &transcription.StatusError{Status: 401, Body: "unauthorized"}

	_, err := f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("bytes"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidCredential, appCode(t, err))

	session := f.session(t)
	assert.Empty(t, session.APIKey)
	assert.Equal(t, entity.PhaseIdle, session.Phase)
	assert.Empty(t, f.notes.List(f.sessionID))

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypePipelineFailed, f.publisher.published[0].eventType)
}

func TestUploadServerErrorKeepsCredential(t *testing.T) {
	f := newScribeFixture(t, "sk-test")
	f.transcriber.err = &transcription.StatusError{Status: 500, Body: "boom"}

	_, err := f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("bytes"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeTranscriptionFailed, appCode(t, err))

	// Only an explicit 401 invalidates the stored key.
	session := f.session(t)
	assert.Equal(t, "sk-test", session.APIKey)
}

func TestUploadNoteGenerationFailureKeepsTranscript(t *testing.T) {
	f := newScribeFixture(t, "sk-test")
	f.chat.err = &llm.StatusError{Status: 503, Body: "overloaded"}

	_, err := f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("bytes"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNoteGenerationFailed, appCode(t, err))

	// The successful transcript stays visible; no note is stored.
	session := f.session(t)
	assert.Equal(t, f.transcriber.result, session.Transcription)
	assert.Empty(t, session.ClinicalNote)
	assert.Empty(t, f.notes.List(f.sessionID))
}

func TestRecordFlowHappyPath(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	started, err := f.service.StartRecording(context.Background(), f.sessionID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PhaseRecording), started.Phase)

	require.NoError(t, f.service.AppendChunk(f.sessionID, []byte("chunk-1")))
	require.NoError(t, f.service.AppendChunk(f.sessionID, []byte("chunk-2")))

	result, err := f.service.StopRecording(context.Background(), f.sessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ClinicalNote)

	require.Len(t, f.notes.List(f.sessionID), 1)
	assert.Equal(t, entity.PhaseIdle, f.session(t).Phase)
}

func TestStartRecordingWithoutCredential(t *testing.T) {
	f := newScribeFixture(t, "")

	_, err := f.service.StartRecording(context.Background(), f.sessionID, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeMissingCredential, appCode(t, err))
	assert.NotEmpty(t, f.session(t).ErrorMessage)
}

func TestStartRecordingWhileRecording(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	_, err := f.service.StartRecording(context.Background(), f.sessionID, nil)
	require.NoError(t, err)

	_, err = f.service.StartRecording(context.Background(), f.sessionID, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeRecordingInProgress, appCode(t, err))
}

func TestUploadWhileRecording(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	_, err := f.service.StartRecording(context.Background(), f.sessionID, nil)
	require.NoError(t, err)

	_, err = f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("bytes"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeRecordingInProgress, appCode(t, err))
}

func TestStopRecordingWhenIdle(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	_, err := f.service.StopRecording(context.Background(), f.sessionID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotRecording, appCode(t, err))
}

func TestStopRecordingEmptyCapture(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	_, err := f.service.StartRecording(context.Background(), f.sessionID, nil)
	require.NoError(t, err)

	_, err = f.service.StopRecording(context.Background(), f.sessionID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeEmptyCapture, appCode(t, err))

	session := f.session(t)
	assert.Equal(t, entity.PhaseIdle, session.Phase)
	assert.NotEmpty(t, session.ErrorMessage)
	assert.Zero(t, f.transcriber.calls)
}

func TestAppendChunkWhenNotRecording(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	err := f.service.AppendChunk(f.sessionID, []byte("chunk"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotRecording, appCode(t, err))
}

func TestScribeUnknownSession(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	_, err := f.service.Upload(context.Background(), "ghost", "audio/webm", "", []byte("bytes"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeSessionNotFound, appCode(t, err))

	_, err = f.service.StartRecording(context.Background(), "ghost", nil)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeSessionNotFound, appCode(t, err))
}

func TestNewRunClearsPreviousError(t *testing.T) {
	f := newScribeFixture(t, "sk-test")
	f.transcriber.err = &transcription.StatusError{Status: 500, Body: "boom"}

	_, err := f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("bytes"))
	require.Error(t, err)
	assert.NotEmpty(t, f.session(t).ErrorMessage)

	f.transcriber.err = nil
	_, err = f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("bytes"))
	require.NoError(t, err)

	session := f.session(t)
	assert.Empty(t, session.ErrorMessage)
	assert.Empty(t, session.ErrorCode)
}

func TestCostModelDefaultsWhenUnset(t *testing.T) {
	f := newScribeFixtureWithCostModel(t, "sk-test", "")

	result, err := f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("bytes"))
	require.NoError(t, err)

	wantCost, err := pricing.Estimate(
		pricing.WordCount(f.transcriber.result),
		pricing.WordCount(f.chat.result),
		"gpt-4o",
	)
	require.NoError(t, err)
	assert.Equal(t, wantCost, result.Cost)
}

func TestUnknownCostModelFailsTheRun(t *testing.T) {
	f := newScribeFixtureWithCostModel(t, "sk-test", "gpt-nonexistent")

	_, err := f.service.Upload(context.Background(), f.sessionID, "audio/webm", "", []byte("bytes"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUnsupportedModel, appCode(t, err))

	// The configured model name reached the estimator; no note is stored.
	assert.Empty(t, f.notes.List(f.sessionID))
	assert.Equal(t, entity.PhaseIdle, f.session(t).Phase)
}

func TestStartRecordingValidatesRequestedMimeType(t *testing.T) {
	f := newScribeFixture(t, "sk-test")

	_, err := f.service.StartRecording(context.Background(), f.sessionID, &dto.StartRecordingRequest{MimeType: "audio/ogg"})
	require.NoError(t, err)
	require.NoError(t, f.service.AppendChunk(f.sessionID, []byte("x")))

	_, err = f.service.StopRecording(context.Background(), f.sessionID)
	require.NoError(t, err)
}
