// Package http provides the HTTP inbound transport for the MCP server.
//
// Two bindings share one listener:
//
//   - Streamable HTTP on /mcp: POST carries JSON-RPC messages, GET opens an
//     SSE stream for server-pushed messages, DELETE terminates the session.
//     Sessions are keyed by an opaque token in the Mcp-Session-Id header,
//     minted when an initialize request arrives without one.
//
//   - Legacy SSE on /sse + /messages: GET /sse opens a long-lived stream and
//     advertises a message endpoint carrying the session ID; POST /messages
//     submits JSON-RPC messages whose responses come back over the stream.
//
// The package also serves /health and Prometheus /metrics, and owns the
// graceful-shutdown sweep over both session stores.
package http
