// Package tools declares the full operation catalog of the s2t-mcp server:
// one descriptor per accelerator operation, each pairing a declarative
// input shape with a handler that normalizes arguments, calls the remote
// service, and renders the JSON result as readable text. Four interview
// operations are purely local and never touch the network.
package tools

import (
	"context"
	"encoding/json"
)

// Caller abstracts the accelerator client so handlers can be exercised
// against a fake remote in tests. Satisfied by *accel.Client.
type Caller interface {
	Call(ctx context.Context, endpoint, method string, body interface{}) (json.RawMessage, error)
}
