package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nonFlusher satisfies http.ResponseWriter but not http.Flusher.
type nonFlusher struct {
	http.ResponseWriter
}

func TestNewSSEWriter_SetsStreamHeaders(t *testing.T) {
	w := httptest.NewRecorder()

	sse, err := NewSSEWriter(w)
	require.NoError(t, err)
	require.NotNil(t, sse)

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))
}

func TestNewSSEWriter_RequiresFlusher(t *testing.T) {
	_, err := NewSSEWriter(nonFlusher{httptest.NewRecorder()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "streaming not supported")
}

func TestWriteEvent_FrameFormat(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	require.NoError(t, sse.WriteEvent("score", map[string]any{"index": 0}))
	require.NoError(t, sse.WriteEvent("score", map[string]any{"index": 1}))

	assert.Equal(t,
		"event: score\ndata: {\"index\":0}\n\nevent: score\ndata: {\"index\":1}\n\n",
		w.Body.String())
	assert.True(t, w.Flushed)
}

func TestWriteEvent_RejectsUnmarshalableData(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	require.Error(t, sse.WriteEvent("score", make(chan int)))
	assert.Empty(t, w.Body.String(), "nothing should be written when encoding fails")
}

func TestWriteErrorAndComplete_EventNames(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	sse.WriteError("database gone")
	sse.WriteComplete(map[string]int{"count": 3})

	body := w.Body.String()
	assert.Contains(t, body, "event: error\ndata: {\"error\":\"database gone\"}\n\n")
	assert.Contains(t, body, "event: complete\ndata: {\"count\":3}\n\n")
}
