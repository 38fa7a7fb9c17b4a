package dto

type CreateSessionResponse struct {
	Id string `json:"id"`
}

// SaveApiKeyRequest carries the credential. Deliberately not required:
// saving an empty input is a no-op, mirroring the save-button behavior.
type SaveApiKeyRequest struct {
	ApiKey string `json:"api_key"`
}

// SessionStateResponse is the full snapshot the presentation layer renders:
// both texts (for the transcription/clinical-note view toggle), the current
// cost, and the in-flight flags.
type SessionStateResponse struct {
	Phase         string   `json:"phase"`  // IDLE | RECORDING | PROCESSING
	Source        string   `json:"source"` // record | upload | ""
	HasApiKey     bool     `json:"has_api_key"`
	Transcription string   `json:"transcription"`
	ClinicalNote  string   `json:"clinical_note"`
	Cost          *float64 `json:"cost"`
	ErrorMessage  string   `json:"error_message,omitempty"`
	ErrorCode     string   `json:"error_code,omitempty"`
}
