package apperror

import "fmt"

// Code identifies a failure class from the pipeline error taxonomy.
type Code string

const (
	CodeMissingCredential    Code = "MISSING_CREDENTIAL"
	CodeInvalidCredential    Code = "INVALID_CREDENTIAL"
	CodePermissionDenied     Code = "PERMISSION_DENIED"
	CodeDeviceUnavailable    Code = "DEVICE_UNAVAILABLE"
	CodeUnsupportedFileType  Code = "UNSUPPORTED_FILE_TYPE"
	CodeTranscriptionFailed  Code = "TRANSCRIPTION_FAILED"
	CodeNoteGenerationFailed Code = "NOTE_GENERATION_FAILED"
	CodeUnsupportedModel     Code = "UNSUPPORTED_MODEL"
	CodeMissingInput         Code = "MISSING_INPUT"
	CodeEmptyCapture         Code = "EMPTY_CAPTURE"
	CodeRecordingInProgress  Code = "RECORDING_IN_PROGRESS"
	CodeNotRecording         Code = "NOT_RECORDING"
	CodePipelineBusy         Code = "PIPELINE_BUSY"
	CodeSessionNotFound      Code = "SESSION_NOT_FOUND"
	CodeNotFound             Code = "NOT_FOUND"
)

// AppError is the single error shape that crosses service boundaries. The
// Message is the human-readable text that replaces the result view; no stack
// traces or raw causes reach the user.
type AppError struct {
	Code    Code
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code Code, status int, message string) *AppError {
	return &AppError{Code: code, Status: status, Message: message}
}

func Wrap(code Code, status int, message string, err error) *AppError {
	return &AppError{Code: code, Status: status, Message: message, Err: err}
}

// --- Constructors for the common cases ---

func MissingCredential(action string) *AppError {
	return New(CodeMissingCredential, 400,
		fmt.Sprintf("Please enter and save a valid OpenAI API key before %s.", action))
}

func InvalidCredential() *AppError {
	return New(CodeInvalidCredential, 401,
		"Invalid API key. Please check your OpenAI API key and try again.")
}

func UnsupportedFileType() *AppError {
	return New(CodeUnsupportedFileType, 400, "Please upload an audio file.")
}

func TranscriptionFailed(status int) *AppError {
	return New(CodeTranscriptionFailed, 502,
		fmt.Sprintf("HTTP error! status: %d", status))
}

func TranscriptionTransport(err error) *AppError {
	return Wrap(CodeTranscriptionFailed, 502,
		"Error processing audio. Please try again.", err)
}

func NoteGenerationFailed(status int) *AppError {
	return New(CodeNoteGenerationFailed, 502,
		fmt.Sprintf("Error generating clinical note. Status: %d", status))
}

func NoteGenerationTransport(err error) *AppError {
	return Wrap(CodeNoteGenerationFailed, 502,
		"Error generating clinical note. Please try again.", err)
}

func MissingInput() *AppError {
	return New(CodeMissingInput, 400, "API key or transcription is missing")
}

func EmptyCapture() *AppError {
	return New(CodeEmptyCapture, 400, "No audio was captured. Please try again.")
}

func RecordingInProgress() *AppError {
	return New(CodeRecordingInProgress, 409, "A recording is already in progress.")
}

func NotRecording() *AppError {
	return New(CodeNotRecording, 409, "No recording is in progress.")
}

func PipelineBusy() *AppError {
	return New(CodePipelineBusy, 409, "Another run is still being processed. Please wait for it to finish.")
}

func SessionNotFound() *AppError {
	return New(CodeSessionNotFound, 404, "Session not found or expired.")
}

func NotFound(what string) *AppError {
	return New(CodeNotFound, 404, fmt.Sprintf("%s not found", what))
}

func UnsupportedModel(model string) *AppError {
	return New(CodeUnsupportedModel, 500, fmt.Sprintf("Unsupported model: %s", model))
}
