package service

import (
	"sync"

	"clinical-scribe-be/internal/apperror"
	"clinical-scribe-be/pkg/transcription"
)

type ICaptureService interface {
	Begin(sessionID, mimeType string) error
	Append(sessionID string, chunk []byte) error
	End(sessionID string) (transcription.Audio, error)
	Release(sessionID string)
}

// captureBuffer accumulates the raw chunks of one recording session.
type captureBuffer struct {
	mimeType string
	chunks   [][]byte
	size     int
}

// captureService buffers audio streamed up by the browser while it records.
// One open buffer per session; the buffer must be released on every exit
// path, including session teardown.
type captureService struct {
	mu      sync.Mutex
	buffers map[string]*captureBuffer
}

func NewCaptureService() ICaptureService {
	return &captureService{
		buffers: make(map[string]*captureBuffer),
	}
}

func (c *captureService) Begin(sessionID, mimeType string) error {
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, open := c.buffers[sessionID]; open {
		return apperror.RecordingInProgress()
	}
	c.buffers[sessionID] = &captureBuffer{mimeType: mimeType}
	return nil
}

func (c *captureService) Append(sessionID string, chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	buf, open := c.buffers[sessionID]
	if !open {
		return apperror.NotRecording()
	}

	// Copy: the caller may reuse the request buffer.
	own := make([]byte, len(chunk))
	copy(own, chunk)
	buf.chunks = append(buf.chunks, own)
	buf.size += len(own)
	return nil
}

// End closes the buffer and yields the whole session as one concatenated
// audio object. A capture with no chunks is an empty-capture failure.
func (c *captureService) End(sessionID string) (transcription.Audio, error) {
	c.mu.Lock()
	buf, open := c.buffers[sessionID]
	delete(c.buffers, sessionID)
	c.mu.Unlock()

	if !open {
		return transcription.Audio{}, apperror.NotRecording()
	}
	if buf.size == 0 {
		return transcription.Audio{}, apperror.EmptyCapture()
	}

	data := make([]byte, 0, buf.size)
	for _, chunk := range buf.chunks {
		data = append(data, chunk...)
	}

	return transcription.Audio{
		Data:     data,
		MimeType: buf.mimeType,
		Filename: "audio.webm",
	}, nil
}

func (c *captureService) Release(sessionID string) {
	c.mu.Lock()
	delete(c.buffers, sessionID)
	c.mu.Unlock()
}
