package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Incarra/svm-contract/eventing/stream"
)

const streamPollInterval = 25 * time.Millisecond

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func (h *handlers) handleEventsStream(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, err := pathOwner(r)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	if _, err := h.runtime.Program.Record(r.Context(), owner); err != nil {
		writeMappedError(w, err)
		return
	}

	cursor, err := parseCursor(r)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	recordID := h.runtime.Program.RecordIDFor(owner)
	buffered, err := h.runtime.Broker.EventsAfter(recordID, cursor)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errorCodeRuntime, "streaming is unsupported by response writer")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	encoder := json.NewEncoder(w)

	for _, streamEvent := range buffered {
		if err := writeNDJSONEvent(encoder, flusher, streamEvent); err != nil {
			return
		}
		cursor = streamEvent.ID
	}

	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			next, err := h.runtime.Broker.EventsAfter(recordID, cursor)
			if err != nil {
				return
			}
			for _, streamEvent := range next {
				if err := writeNDJSONEvent(encoder, flusher, streamEvent); err != nil {
					return
				}
				cursor = streamEvent.ID
			}
		}
	}
}

// handleEventsWebsocket serves the same replay-then-poll stream over a
// websocket. Precondition failures are reported as plain HTTP errors
// before the connection is upgraded.
func (h *handlers) handleEventsWebsocket(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, err := pathOwner(r)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	if _, err := h.runtime.Program.Record(r.Context(), owner); err != nil {
		writeMappedError(w, err)
		return
	}

	cursor, err := parseCursor(r)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	recordID := h.runtime.Program.RecordIDFor(owner)
	buffered, err := h.runtime.Broker.EventsAfter(recordID, cursor)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own HTTP error.
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Inbound frames only serve as a disconnect signal. Any read error,
	// including a normal close, tears the poll loop down.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(events []stream.StreamEvent) error {
		for _, streamEvent := range events {
			if err := conn.WriteJSON(streamEvent); err != nil {
				return err
			}
			cursor = streamEvent.ID
		}
		return nil
	}

	if err := send(buffered); err != nil {
		return
	}

	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			next, err := h.runtime.Broker.EventsAfter(recordID, cursor)
			if err != nil {
				return
			}
			if err := send(next); err != nil {
				return
			}
		}
	}
}

func parseCursor(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("cursor")
	if raw == "" {
		return 0, nil
	}

	cursor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || cursor < 0 {
		return 0, fmt.Errorf("%w: cursor must be a non-negative integer", stream.ErrCursorInvalid)
	}
	return cursor, nil
}

func writeNDJSONEvent(encoder *json.Encoder, flusher http.Flusher, streamEvent stream.StreamEvent) error {
	if err := encoder.Encode(streamEvent); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
