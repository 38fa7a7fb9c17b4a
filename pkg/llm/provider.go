package llm

import (
	"context"
	"fmt"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any chat-completion backend.
// The credential is supplied per call because it is session-owned,
// not service-owned.
type Provider interface {
	Chat(ctx context.Context, credential string, history []Message, options ...Option) (string, error)
}

// StatusError reports a non-2xx response from a provider, preserving the
// HTTP status so callers can distinguish auth rejections from other failures.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider error: status %d: %s", e.Status, e.Body)
}
