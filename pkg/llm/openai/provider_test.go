package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinical-scribe-be/pkg/llm"
)

func TestChatSendsWireFormat(t *testing.T) {
	var captured struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var authHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"structured note"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL, "gpt-4o-2024-08-06")
	out, err := p.Chat(context.Background(), "sk-test", []llm.Message{
		{Role: "system", Content: "format the note"},
		{Role: "user", Content: "patient has a cough"},
	}, llm.WithTemperature(0.2))

	require.NoError(t, err)
	assert.Equal(t, "structured note", out)
	assert.Equal(t, "Bearer sk-test", authHeader)
	assert.Equal(t, "gpt-4o-2024-08-06", captured.Model)
	assert.Equal(t, 0.2, captured.Temperature)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestChatNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL, "gpt-4o-2024-08-06")
	_, err := p.Chat(context.Background(), "sk-test", []llm.Message{{Role: "user", Content: "hi"}})

	var statusErr *llm.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Status)
}

func TestChatUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL, "gpt-4o-2024-08-06")
	_, err := p.Chat(context.Background(), "bad-key", []llm.Message{{Role: "user", Content: "hi"}})

	var statusErr *llm.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
}

func TestChatEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL, "gpt-4o-2024-08-06")
	_, err := p.Chat(context.Background(), "sk-test", []llm.Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
}
