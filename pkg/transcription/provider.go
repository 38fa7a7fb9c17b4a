package transcription

import (
	"context"
	"fmt"
)

// Audio is a finished audio object ready for transcription: the raw bytes
// plus the media type the capture layer declared for them.
type Audio struct {
	Data     []byte
	MimeType string
	Filename string
}

// Provider defines the contract for any speech-to-text backend
type Provider interface {
	// Transcribe sends the audio payload and returns the best transcript
	// text, unmodified.
	Transcribe(ctx context.Context, audio Audio, credential string) (string, error)
}

// StatusError reports a non-2xx response from the transcription service.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transcription error: status %d: %s", e.Status, e.Body)
}
