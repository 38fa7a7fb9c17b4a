package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func (h *Hub) clientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func registerClient(t *testing.T, h *Hub, sessionID string, buffer int) *Client {
	t.Helper()
	client := &Client{Hub: h, SessionID: sessionID, Send: make(chan []byte, buffer)}
	h.register <- client
	require.Eventually(t, func() bool {
		return h.clientCount(sessionID) > 0
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestHubDeliversToSessionClients(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	client := registerClient(t, h, "sess-1", 4)

	h.Send("sess-1", []byte("event"))

	select {
	case got := <-client.Send:
		assert.Equal(t, []byte("event"), got)
	case <-time.After(time.Second):
		t.Fatal("no delivery to registered client")
	}
}

func TestHubSessionIsolation(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	a := registerClient(t, h, "sess-a", 4)
	b := registerClient(t, h, "sess-b", 4)

	h.Send("sess-a", []byte("event"))

	select {
	case <-a.Send:
	case <-time.After(time.Second):
		t.Fatal("no delivery to sess-a")
	}
	assert.Empty(t, b.Send)
}

// A stalled connection with a full Send buffer is dropped, not crashed on.
// Run is the only goroutine that closes the channel, so repeated sends to a
// dead-slow client must never double-close it.
func TestHubDropsStalledClient(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	registerClient(t, h, "sess-1", 0)

	h.Send("sess-1", []byte("first"))
	h.Send("sess-1", []byte("second"))

	assert.Eventually(t, func() bool {
		return h.clientCount("sess-1") == 0
	}, time.Second, 5*time.Millisecond)

	// The hub must still serve the session afterwards.
	healthy := registerClient(t, h, "sess-1", 4)
	h.Send("sess-1", []byte("third"))

	select {
	case got := <-healthy.Send:
		assert.Equal(t, []byte("third"), got)
	case <-time.After(time.Second):
		t.Fatal("hub stopped delivering after dropping a stalled client")
	}
}

func TestHubUnregisterTwiceIsSafe(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	client := registerClient(t, h, "sess-1", 0)

	h.unregister <- client
	h.unregister <- client

	assert.Eventually(t, func() bool {
		return h.clientCount("sess-1") == 0
	}, time.Second, 5*time.Millisecond)
}
