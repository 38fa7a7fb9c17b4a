package notegen

import (
	"context"
	"errors"

	"clinical-scribe-be/pkg/llm"
)

// ErrMissingInput is returned when the transcription or the credential is
// empty; no network call is made in that case.
var ErrMissingInput = errors.New("api key or transcription is missing")

// Low temperature favors deterministic formatting over creativity.
const noteTemperature = 0.2

// Generator turns a raw conversation transcript into a structured clinical
// note via a chat-completion provider.
type Generator struct {
	provider llm.Provider
	model    string
}

func NewGenerator(provider llm.Provider, model string) *Generator {
	if model == "" {
		model = "gpt-4o-2024-08-06"
	}
	return &Generator{
		provider: provider,
		model:    model,
	}
}

// Generate sends the canonical system template plus the transcription and
// returns the first completion's text unmodified.
func (g *Generator) Generate(ctx context.Context, transcriptionText, credential string) (string, error) {
	if credential == "" || transcriptionText == "" {
		return "", ErrMissingInput
	}

	history := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: transcriptionText},
	}

	return g.provider.Chat(ctx, credential, history,
		llm.WithModel(g.model),
		llm.WithTemperature(noteTemperature),
	)
}
