// Package stdio provides the stdio transport adapter: newline-delimited
// JSON-RPC over stdin/stdout for clients that spawn the server as a
// subprocess.
package stdio

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/s2t-dev/s2t-mcp/internal/domain/session"
)

// Transport reads newline-delimited JSON-RPC messages from a reader and
// writes responses to a writer. One transport serves exactly one session.
type Transport struct {
	engine session.Handler
	logger *slog.Logger

	in  io.Reader
	out io.Writer

	mu sync.Mutex // serializes writes to out
}

// Option configures a Transport.
type Option func(*Transport)

// WithStreams overrides stdin/stdout, primarily for tests.
func WithStreams(in io.Reader, out io.Writer) Option {
	return func(t *Transport) {
		t.in = in
		t.out = out
	}
}

// New creates a stdio transport bound to the given protocol engine.
func New(engine session.Handler, logger *slog.Logger, opts ...Option) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Transport{
		engine: engine,
		logger: logger,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start reads messages until EOF or context cancellation. Notifications
// produce no output; everything else is answered on the same stream.
// EOF is a normal shutdown, not an error.
func (t *Transport) Start(ctx context.Context) error {
	scanner := bufio.NewScanner(t.in)
	// MCP messages can be large; grow the scanner past its 64KB default.
	buf := make([]byte, 0, 256*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		// The scanner reuses its buffer across Scan calls.
		raw := append([]byte(nil), line...)

		response := t.engine.Handle(ctx, raw)
		if response == nil {
			continue
		}
		if err := t.write(response); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	t.logger.Debug("stdin closed, stdio transport finished")
	return nil
}

func (t *Transport) write(response []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.out.Write(response); err != nil {
		return err
	}
	_, err := t.out.Write([]byte("\n"))
	return err
}
