package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"clinical-scribe-be/pkg/transcription"
)

type WhisperClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// Ensure WhisperClient implements Provider
var _ transcription.Provider = &WhisperClient{}

func NewWhisperClient(baseURL, model string) *WhisperClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if model == "" {
		model = "whisper-1"
	}
	return &WhisperClient{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe performs a single multipart POST to the audio transcriptions
// endpoint: {file: <audio>, model: whisper-1}, bearer credential.
func (c *WhisperClient) Transcribe(ctx context.Context, audio transcription.Audio, credential string) (string, error) {
	// 1. Build multipart body
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	filename := audio.Filename
	if filename == "" {
		filename = "audio.webm"
	}
	part, err := createAudioPart(writer, filename, audio.MimeType)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio.Data); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	// 2. Send Request
	url := c.baseURL + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &transcription.StatusError{Status: resp.StatusCode, Body: string(bodyBytes)}
	}

	// 3. Parse Response
	var parsed transcribeResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	return parsed.Text, nil
}

// createAudioPart is CreateFormFile with an explicit part content type so the
// service sees the real media type instead of application/octet-stream.
func createAudioPart(w *multipart.Writer, filename, mimeType string) (io.Writer, error) {
	if mimeType == "" {
		return w.CreateFormFile("file", filename)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", mimeType)
	return w.CreatePart(h)
}

func escapeQuotes(s string) string {
	r := strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
	return r.Replace(s)
}
