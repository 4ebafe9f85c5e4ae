package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tessera-io/tessera/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStream = `{"ind":0,"obj":{"type":"search_tool_start","is_internet_search":true}}
{"ind":0,"obj":{"type":"search_tool_delta","queries":["go timers"],"documents":[{"document_id":"doc-1","link":"https://a"}]}}
{"ind":0,"obj":{"type":"section_end"}}
{"ind":1,"obj":{"type":"message_start"}}
{"ind":1,"obj":{"type":"message_delta","content":"Hello"}}
{"ind":1,"obj":{"type":"stop"}}
`

func TestClientStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat/stream", r.URL.Path)
		fmt.Fprint(w, sampleStream)
	}))
	defer server.Close()

	client := NewClient(server.URL, ChatRequest{Message: "hi"})

	var updates int
	var lastID string
	var last []protocol.Packet
	err := client.Stream(context.Background(), func(messageID string, packets []protocol.Packet) {
		updates++
		lastID = messageID
		last = packets
	})
	require.NoError(t, err)

	// one update per decoded line, each carrying the whole sequence so far
	assert.Equal(t, 6, updates)
	assert.NotEmpty(t, lastID)
	require.Len(t, last, 6)
	assert.Equal(t, protocol.SearchToolStart, last[0].Obj.Type)
	assert.Equal(t, protocol.Stop, last[5].Obj.Type)
}

func TestClientSkipsMalformedLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"ind":0,"obj":{"type":"message_start"}}`)
		fmt.Fprintln(w, `not json`)
		fmt.Fprintln(w, `{"ind":0,"obj":{"type":"stop"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, ChatRequest{Message: "hi"})

	var last []protocol.Packet
	err := client.Stream(context.Background(), func(_ string, packets []protocol.Packet) {
		last = packets
	})
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, protocol.Stop, last[1].Obj.Type)
}

func TestClientErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":"model unavailable"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, ChatRequest{Message: "hi"})

	err := client.Stream(context.Background(), func(string, []protocol.Packet) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestClientFreshIdentityPerStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"ind":0,"obj":{"type":"message_start"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, ChatRequest{Message: "hi"})

	ids := make(map[string]bool)
	for i := 0; i < 2; i++ {
		err := client.Stream(context.Background(), func(messageID string, _ []protocol.Packet) {
			ids[messageID] = true
		})
		require.NoError(t, err)
	}

	// a retried stream presents as a new render target
	assert.Len(t, ids, 2)
}

func TestReplayStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(sampleStream), 0644))

	replay := NewReplay(path, 0)

	var updates int
	var last []protocol.Packet
	err := replay.Stream(context.Background(), func(_ string, packets []protocol.Packet) {
		updates++
		last = packets
	})
	require.NoError(t, err)

	assert.Equal(t, 6, updates)
	require.Len(t, last, 6)
	assert.Equal(t, "Hello", last[4].Obj.Content)
}

func TestReplayMissingFile(t *testing.T) {
	replay := NewReplay(filepath.Join(t.TempDir(), "absent.ndjson"), 0)

	err := replay.Stream(context.Background(), func(string, []protocol.Packet) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open replay file")
}

func TestReplayCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(sampleStream), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	replay := NewReplay(path, 0)

	var updates int
	err := replay.Stream(ctx, func(string, []protocol.Packet) {
		updates++
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, updates)
}
