package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// sseRetry is the reconnect delay suggested to EventSource clients.
const sseRetry = 3 * time.Second

// SSEWriter writes Server-Sent Events to one response. Events are numbered
// from 1 in the order they are written.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	lastID  int
}

// NewSSEWriter sends the stream headers and lifts the server write timeout
// for the response, since a stream stays open for as long as the client wants.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming not supported")
	}
	// Recorders in tests have no deadline support.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprintf(w, "retry: %d\n\n", sseRetry.Milliseconds()); err != nil {
		return nil, err
	}
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent encodes data as JSON and sends it as one event.
func (s *SSEWriter) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	s.lastID++
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.lastID, event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteClosed sends the final event of a stream whose session ended.
func (s *SSEWriter) WriteClosed(sessionID string) {
	s.WriteEvent("closed", map[string]string{"session_id": sessionID}) //nolint:errcheck
}
