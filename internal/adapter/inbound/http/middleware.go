package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// requestIDContextKey is the type for the request ID context key.
type requestIDContextKey struct{}

// RequestIDKey is the context key for the request ID.
var RequestIDKey = requestIDContextKey{}

// loggerContextKey is the type for the enriched-logger context key.
type loggerContextKey struct{}

// LoggerKey is the context key for the request-scoped logger.
var LoggerKey = loggerContextKey{}

// RequestIDMiddleware extracts or generates a request ID and stores an
// enriched logger in the context. The ID is echoed on the response for
// correlation.
func RequestIDMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			enriched := logger.With("request_id", requestID)

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			ctx = context.WithValue(ctx, LoggerKey, enriched)

			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggerFromContext retrieves the request-scoped logger from context,
// falling back to slog.Default().
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// OriginCheck validates the Origin header against an allow-list before any
// session logic runs. Entries match exactly, or by subdomain when written as
// "*.example.com". An empty list admits everything (local/dev posture);
// requests without an Origin header always pass (same-origin or
// non-browser).
func OriginCheck(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || originAllowed(origin, allowedOrigins) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Forbidden: origin not allowed", http.StatusForbidden)
		})
	}
}

// originAllowed reports whether origin matches the allow-list. Wildcard
// entries ("*.example.com") match any host ending in ".example.com"; the
// bare apex does not match a wildcard entry.
func originAllowed(origin string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}

	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Hostname()
	}

	for _, entry := range allowed {
		if entry == origin || entry == host {
			return true
		}
		if strings.HasPrefix(entry, "*.") && strings.HasSuffix(host, entry[1:]) {
			return true
		}
	}
	return false
}
