package mcp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// DecodeMessage deserializes JSON-RPC wire format data.
// It returns either a *jsonrpc.Request or *jsonrpc.Response based on content.
// This delegates to the MCP SDK's jsonrpc package.
func DecodeMessage(data []byte) (jsonrpc.Message, error) {
	return jsonrpc.DecodeMessage(data)
}

// WrapMessage decodes raw JSON-RPC bytes and wraps them in a Message
// with the current timestamp.
func WrapMessage(raw []byte) (*Message, error) {
	decoded, err := jsonrpc.DecodeMessage(raw)
	if err != nil {
		return nil, err
	}

	return &Message{
		Raw:       raw,
		Decoded:   decoded,
		Timestamp: time.Now(),
	}, nil
}

// resultEnvelope is the wire shape of a JSON-RPC success response.
// The ID is carried as raw bytes so the client's original encoding
// (number or string) is echoed back untouched.
type resultEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
}

// errorEnvelope is the wire shape of a JSON-RPC error response.
type errorEnvelope struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail is the error member of a JSON-RPC error response.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// EncodeResult serializes a success response for the given request ID.
// The result value is marshaled in place.
func EncodeResult(id json.RawMessage, result interface{}) ([]byte, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	if id == nil {
		id = json.RawMessage("null")
	}
	return json.Marshal(resultEnvelope{
		JSONRPC: "2.0",
		ID:      id,
		Result:  resultJSON,
	})
}

// EncodeError serializes an error response for the given request ID.
// A nil ID encodes as JSON null, per the JSON-RPC 2.0 spec for requests
// whose ID could not be determined.
func EncodeError(id json.RawMessage, code int, message string) []byte {
	var idVal interface{}
	if id != nil {
		idVal = id
	}
	out, err := json.Marshal(errorEnvelope{
		JSONRPC: "2.0",
		ID:      idVal,
		Error:   ErrorDetail{Code: code, Message: message},
	})
	if err != nil {
		// Marshaling a flat struct of primitives cannot fail at runtime.
		panic(fmt.Sprintf("encoding JSON-RPC error: %v", err))
	}
	return out
}
