// Package dispatch resolves operation names to their handlers and
// normalizes every outcome into a structured call result. It is the single
// chokepoint guaranteeing the transport layer never sees an unhandled
// fault from operation execution.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

// ErrUnknownTool is returned when an operation name has no registry entry.
var ErrUnknownTool = errors.New("unknown tool")

// Result is the uniform outcome of a tool invocation. A failed call is a
// Result with IsError set, never an error value crossing the transport
// boundary.
type Result struct {
	// Content is the formatted text block (or "Error: ..." on failure).
	Content string

	// IsError marks validation, remote-call, and unknown-tool failures.
	IsError bool
}

// Dispatcher routes tool calls through the operation registry. It is
// stateless apart from the registry reference and safe for concurrent use;
// every session shares one instance.
type Dispatcher struct {
	registry *catalog.Registry
	logger   *slog.Logger
}

// New creates a Dispatcher over the given registry.
func New(registry *catalog.Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// List returns the full operation catalog in declaration order.
func (d *Dispatcher) List() []catalog.Descriptor {
	return d.registry.List()
}

// Invoke executes the named operation against a raw argument bag.
// It never returns an error and never panics: lookup failures, argument
// validation failures, remote-call failures, and handler panics all
// converge on an error-flavored Result.
func (d *Dispatcher) Invoke(ctx context.Context, name string, rawArgs map[string]interface{}) (res Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool handler panicked", "tool", name, "panic", r)
			res = errorResult(fmt.Sprintf("internal failure in %s", name))
		}
	}()

	desc, ok := d.registry.Lookup(name)
	if !ok {
		return errorResult(fmt.Sprintf("%s: %s", unknownToolMessage, name))
	}

	if rawArgs == nil {
		rawArgs = map[string]interface{}{}
	}

	args, err := catalog.ValidateArgs(desc.Shape, rawArgs)
	if err != nil {
		return errorResult(err.Error())
	}

	text, err := desc.Handler(ctx, args)
	if err != nil {
		d.logger.Debug("tool call failed", "tool", name, "error", err, "duration", time.Since(start))
		return errorResult(err.Error())
	}

	d.logger.Debug("tool call succeeded", "tool", name, "duration", time.Since(start))
	return Result{Content: text}
}

const unknownToolMessage = "Unknown tool"

// errorResult wraps a failure message in the uniform error envelope.
func errorResult(message string) Result {
	return Result{Content: "Error: " + message, IsError: true}
}
