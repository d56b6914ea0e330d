package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/s2t-dev/s2t-mcp/internal/domain/session"
	"github.com/s2t-dev/s2t-mcp/pkg/mcp"
)

// legacyPushTimeout bounds how long a /messages POST waits for a slow SSE
// consumer before dropping the response.
const legacyPushTimeout = 5 * time.Second

// sseHandler serves GET /sse: opens a legacy stream, advertises the message
// endpoint, and relays responses until the client disconnects.
func (t *Transport) sseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}

		sessionID, err := session.GenerateSessionID()
		if err != nil {
			t.logger.Error("generating legacy session id", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		conn := &session.LegacyConn{
			ConnID:    uuid.NewString(),
			SessionID: sessionID,
			Engine:    t.engineFactory(),
			Push:      make(chan []byte, 100),
			CreatedAt: time.Now().UTC(),
		}
		t.legacy.Add(conn)
		t.metrics.LegacySessions.Inc()
		defer func() {
			t.legacy.Remove(conn.ConnID)
			t.metrics.LegacySessions.Dec()
		}()

		t.logger.Info("legacy stream opened", "session_id", sessionID[:8])

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		// The endpoint event tells the client where to POST messages. The
		// advertised URL only carries the protocol-level session ID.
		_, _ = fmt.Fprintf(w, "event: endpoint\ndata: /messages?sessionId=%s\n\n", sessionID)
		flusher.Flush()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				t.logger.Debug("legacy stream closed", "session_id", sessionID[:8])
				return
			case msg := <-conn.Push:
				_, _ = fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
				flusher.Flush()
			}
		}
	})
}

// messagesHandler serves POST /messages?sessionId=<id>: dispatches the body
// through the matching connection's engine and pushes the response over its
// SSE stream. The POST itself is only an acknowledgment.
func (t *Transport) messagesHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		sessionID := r.URL.Query().Get("sessionId")
		if sessionID == "" {
			http.Error(w, "sessionId query parameter required", http.StatusBadRequest)
			return
		}

		conn, ok := t.legacy.FindBySessionID(sessionID)
		if !ok {
			http.Error(w, "session not found, connect first", http.StatusNotFound)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer func() { _ = r.Body.Close() }()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeJSONRPCError(w, http.StatusOK, mcp.ErrCodeParseError, "Parse error: request body too large (max 1MB)")
				return
			}
			writeJSONRPCError(w, http.StatusOK, mcp.ErrCodeParseError, "Parse error: failed to read request body")
			return
		}

		response := conn.Engine.Handle(r.Context(), body)
		if response != nil {
			select {
			case conn.Push <- response:
			case <-time.After(legacyPushTimeout):
				t.logger.Warn("legacy push timed out, dropping response",
					"session_id", sessionID[:8])
			}
		}

		w.WriteHeader(http.StatusAccepted)
	})
}
