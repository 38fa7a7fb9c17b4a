package entity

import "sync"

// Phase is the explicit pipeline state, replacing the original trio of
// recording/processing booleans.
type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseRecording  Phase = "RECORDING"
	PhaseProcessing Phase = "PROCESSING"
)

// Source tags where an in-flight run originated.
type Source string

const (
	SourceNone   Source = ""
	SourceRecord Source = "record"
	SourceUpload Source = "upload"
)

// Session is the per-browser-session working state. All pipeline stages for
// one session run under Mu; there is no parallelism, only sequencing, but the
// lock makes the reentrancy gate explicit against rapid repeated commands.
type Session struct {
	Mu sync.Mutex

	ID     string
	APIKey string

	Phase  Phase
	Source Source

	Transcription string
	ClinicalNote  string
	Cost          *float64

	ErrorMessage string
	ErrorCode    string
}

// ResetRun clears the previous result and error at the start of a new
// pipeline run. Caller holds Mu.
func (s *Session) ResetRun() {
	s.Transcription = ""
	s.ClinicalNote = ""
	s.Cost = nil
	s.ErrorMessage = ""
	s.ErrorCode = ""
}
