package service

import (
	"context"
	"log/slog"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
	"github.com/s2t-dev/s2t-mcp/internal/domain/dispatch"
	"github.com/s2t-dev/s2t-mcp/pkg/mcp"
)

// ServerName identifies this server in initialize responses.
const ServerName = "s2t-mcp"

// ServerVersion is stamped at build time via -ldflags; the default marks
// locally built binaries.
var ServerVersion = "dev"

// Engine is the per-session MCP protocol handler. It owns the JSON-RPC
// method surface (initialize, ping, tools/list, tools/call) and delegates
// tool execution to the dispatcher. One Engine serves one session; the
// shared dispatcher behind it is safe for concurrent use, so Engines are
// cheap and transports create one per connection.
type Engine struct {
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// NewEngine creates an Engine backed by the given dispatcher.
func NewEngine(dispatcher *dispatch.Dispatcher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{dispatcher: dispatcher, logger: logger}
}

// Handle processes one raw JSON-RPC message and returns the response bytes,
// or nil when no response is owed (notifications, responses, unparseable
// frames with no recoverable ID).
func (e *Engine) Handle(ctx context.Context, raw []byte) []byte {
	msg, err := mcp.WrapMessage(raw)
	if err != nil {
		e.logger.Debug("discarding unparseable message", "error", err)
		return mcp.EncodeError(nil, mcp.ErrCodeParseError, "Parse error")
	}

	if !msg.IsRequest() {
		// Client-originated responses are legal wire traffic but nothing
		// here issues server-to-client requests, so they are dropped.
		return nil
	}

	if msg.IsNotification() {
		e.handleNotification(msg)
		return nil
	}

	id := msg.RawID()

	switch msg.Method() {
	case "initialize":
		return e.respond(id, e.initializeResult())
	case "ping":
		return e.respond(id, map[string]interface{}{})
	case "tools/list":
		return e.respond(id, e.toolsListResult())
	case "tools/call":
		return e.handleToolCall(ctx, id, msg)
	default:
		return mcp.EncodeError(id, mcp.ErrCodeMethodNotFound, "Method not found: "+msg.Method())
	}
}

func (e *Engine) handleNotification(msg *mcp.Message) {
	switch msg.Method() {
	case "notifications/initialized":
		e.logger.Debug("session initialized")
	default:
		e.logger.Debug("ignoring notification", "method", msg.Method())
	}
}

func (e *Engine) respond(id []byte, result interface{}) []byte {
	out, err := mcp.EncodeResult(id, result)
	if err != nil {
		e.logger.Error("encoding response", "error", err)
		return mcp.EncodeError(id, mcp.ErrCodeInternalError, "Internal error")
	}
	return out
}

func (e *Engine) initializeResult() map[string]interface{} {
	return map[string]interface{}{
		"protocolVersion": mcp.ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    ServerName,
			"version": ServerVersion,
		},
	}
}

// toolEntry is the tools/list wire shape for one operation.
type toolEntry struct {
	Name        string                 `json:"name"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Annotations map[string]interface{} `json:"annotations,omitempty"`
}

func (e *Engine) toolsListResult() map[string]interface{} {
	descriptors := e.dispatcher.List()
	entries := make([]toolEntry, 0, len(descriptors))
	for _, d := range descriptors {
		entries = append(entries, toolEntry{
			Name:        d.Name,
			Title:       d.Title,
			Description: d.Description,
			InputSchema: catalog.InputSchema(d.Shape),
			Annotations: annotationHints(d.Annotations),
		})
	}
	return map[string]interface{}{"tools": entries}
}

// annotationHints converts effect annotations to MCP tool annotation hints.
// Only explicitly set hints are emitted; an empty map collapses to absent.
func annotationHints(a catalog.Annotations) map[string]interface{} {
	hints := make(map[string]interface{})
	if a.ReadOnly {
		hints["readOnlyHint"] = true
	}
	if a.Destructive {
		hints["destructiveHint"] = true
	}
	if a.Idempotent {
		hints["idempotentHint"] = true
	}
	if a.OpenWorld {
		hints["openWorldHint"] = true
	}
	if len(hints) == 0 {
		return nil
	}
	return hints
}

func (e *Engine) handleToolCall(ctx context.Context, id []byte, msg *mcp.Message) []byte {
	params := msg.ParseParams()
	if params == nil {
		return mcp.EncodeError(id, mcp.ErrCodeInvalidParams, "Invalid params")
	}

	name, _ := params["name"].(string)
	if name == "" {
		return mcp.EncodeError(id, mcp.ErrCodeInvalidParams, "Missing tool name")
	}
	args, _ := params["arguments"].(map[string]interface{})

	res := e.dispatcher.Invoke(ctx, name, args)

	return e.respond(id, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": res.Content},
		},
		"isError": res.IsError,
	})
}
