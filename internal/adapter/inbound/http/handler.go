package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/s2t-dev/s2t-mcp/internal/domain/session"
	"github.com/s2t-dev/s2t-mcp/pkg/mcp"
)

// maxRequestBodySize is the maximum allowed request body size (1 MB).
const maxRequestBodySize = 1 << 20

// MCPSessionIDHeader carries the opaque session token.
const MCPSessionIDHeader = "Mcp-Session-Id"

// MCPProtocolVersionHeader reports the protocol revision on responses.
const MCPProtocolVersionHeader = "MCP-Protocol-Version"

// streamRegistry tracks open SSE streams per streaming session so
// termination can close them. Multiple GET streams may share one session.
type streamRegistry struct {
	mu      sync.RWMutex
	streams map[string][]chan []byte
}

func newStreamRegistry() *streamRegistry {
	return &streamRegistry{streams: make(map[string][]chan []byte)}
}

func (r *streamRegistry) register(token string, ch chan []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streams[token] = append(r.streams[token], ch)
}

func (r *streamRegistry) unregister(token string, ch chan []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	channels := r.streams[token]
	for i, c := range channels {
		if c == ch {
			r.streams[token] = append(channels[:i], channels[i+1:]...)
			break
		}
	}
	if len(r.streams[token]) == 0 {
		delete(r.streams, token)
	}
}

// terminate closes every stream bound to the token. Safe to call for tokens
// with no open streams.
func (r *streamRegistry) terminate(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.streams[token] {
		close(ch)
	}
	delete(r.streams, token)
}

func (r *streamRegistry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, channels := range r.streams {
		for _, ch := range channels {
			close(ch)
		}
	}
	r.streams = make(map[string][]chan []byte)
}

// mcpHandler serves the Streamable HTTP binding on /mcp.
func (t *Transport) mcpHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			t.handlePost(w, r)
		case http.MethodGet:
			t.handleStream(w, r)
		case http.MethodDelete:
			t.handleDelete(w, r)
		case http.MethodOptions:
			handleOptions(w)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
}

// handlePost processes one JSON-RPC message. An initialize request without a
// token mints a new session; everything else must present a live token.
func (t *Transport) handlePost(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/json" {
		writeJSONRPCError(w, http.StatusOK, mcp.ErrCodeParseError, "Parse error: content type must be application/json")
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
	if len(body) == 0 {
		writeJSONRPCError(w, http.StatusOK, mcp.ErrCodeParseError, "Parse error: empty request body")
		return
	}
	if !json.Valid(body) {
		writeJSONRPCError(w, http.StatusOK, mcp.ErrCodeParseError, "Parse error: invalid JSON")
		return
	}

	var frame struct {
		JSONRPC string          `json:"jsonrpc"`
		Method  string          `json:"method"`
		ID      json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &frame); err != nil {
		writeJSONRPCError(w, http.StatusOK, mcp.ErrCodeInvalidRequest, "Invalid Request: request must be a JSON object")
		return
	}
	if frame.JSONRPC != "2.0" {
		writeJSONRPCError(w, http.StatusOK, mcp.ErrCodeInvalidRequest, "Invalid Request: missing or invalid jsonrpc version (must be \"2.0\")")
		return
	}
	if frame.Method == "" {
		writeJSONRPCError(w, http.StatusOK, mcp.ErrCodeInvalidRequest, "Invalid Request: missing method field")
		return
	}

	token := r.Header.Get(MCPSessionIDHeader)
	var sess *session.Session

	switch {
	case token == "" && frame.Method == "initialize":
		sess, err = t.createSession()
		if err != nil {
			t.logger.Error("creating session", "error", err)
			writeJSONRPCError(w, http.StatusInternalServerError, mcp.ErrCodeInternalError, "Internal error")
			return
		}
	case token == "":
		writeJSONRPCError(w, http.StatusBadRequest, mcp.ErrCodeSessionError, "Missing session: Mcp-Session-Id header required")
		return
	default:
		var ok bool
		sess, ok = t.store.Get(token)
		if !ok {
			// A stale token and a never-issued one are indistinguishable.
			writeJSONRPCError(w, http.StatusNotFound, mcp.ErrCodeSessionError, "Session not found")
			return
		}
	}

	response := sess.Engine.Handle(r.Context(), body)

	w.Header().Set(MCPProtocolVersionHeader, mcp.ProtocolVersion)
	w.Header().Set(MCPSessionIDHeader, sess.ID)

	// Notifications owe no response body; Streamable HTTP requires 202.
	if frame.ID == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if response == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(response)
}

// createSession mints a token, binds a fresh engine, and registers the
// session. The close hook tears down any SSE streams bound to the token.
func (t *Transport) createSession() (*session.Session, error) {
	sess, err := session.New(t.engineFactory())
	if err != nil {
		return nil, err
	}

	token := sess.ID
	sess.OnClose(func() error {
		t.streams.terminate(token)
		t.metrics.StreamingSessions.Dec()
		return nil
	})

	t.store.Put(sess)
	t.metrics.StreamingSessions.Inc()
	t.logger.Info("streaming session created", "session_id", token[:8])
	return sess, nil
}

// handleStream opens an SSE stream for server-pushed messages on a live
// streaming session.
func (t *Transport) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	token := r.Header.Get(MCPSessionIDHeader)
	if token == "" {
		writeJSONRPCError(w, http.StatusBadRequest, mcp.ErrCodeSessionError, "Missing session: Mcp-Session-Id header required")
		return
	}
	if _, ok := t.store.Get(token); !ok {
		writeJSONRPCError(w, http.StatusNotFound, mcp.ErrCodeSessionError, "Session not found")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set(MCPProtocolVersionHeader, mcp.ProtocolVersion)
	w.Header().Set(MCPSessionIDHeader, token)

	msgChan := make(chan []byte, 100)
	t.streams.register(token, msgChan)
	defer t.streams.unregister(token, msgChan)

	_, _ = fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgChan:
			if !ok {
				// Session terminated.
				return
			}
			_, _ = fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// handleDelete terminates a streaming session: synchronous close, idempotent
// store removal, open streams torn down via the close hook.
func (t *Transport) handleDelete(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(MCPSessionIDHeader)
	if token == "" {
		writeJSONRPCError(w, http.StatusBadRequest, mcp.ErrCodeSessionError, "Missing session: Mcp-Session-Id header required")
		return
	}

	sess, ok := t.store.Get(token)
	if !ok {
		writeJSONRPCError(w, http.StatusNotFound, mcp.ErrCodeSessionError, "Session not found")
		return
	}

	if err := sess.Close(); err != nil {
		t.logger.Warn("session close", "session_id", token[:8], "error", err)
	}
	t.store.Remove(token)
	t.logger.Info("streaming session terminated", "session_id", token[:8])

	w.WriteHeader(http.StatusNoContent)
}

// handleOptions answers CORS preflight requests.
func handleOptions(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id, MCP-Protocol-Version")
	w.Header().Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusNoContent)
}

// writeJSONRPCError writes a JSON-RPC error envelope with the given HTTP
// status. Protocol-level errors from live sessions use 200; transport-level
// session failures use 4xx so clients can distinguish them.
func writeJSONRPCError(w http.ResponseWriter, httpStatus, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_, _ = w.Write(mcp.EncodeError(nil, code, message))
}
