package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOriginAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"empty list admits everything", "https://anywhere.example", nil, true},
		{"exact origin match", "https://app.example.com", []string{"https://app.example.com"}, true},
		{"exact host match", "https://app.example.com", []string{"app.example.com"}, true},
		{"exact mismatch", "https://evil.example.com", []string{"https://app.example.com"}, false},
		{"wildcard admits subdomain", "https://a.corp.example", []string{"*.corp.example"}, true},
		{"wildcard admits nested subdomain", "https://x.y.corp.example", []string{"*.corp.example"}, true},
		{"wildcard rejects suffix attack", "https://corp.example.evil", []string{"*.corp.example"}, false},
		{"wildcard rejects apex", "https://corp.example", []string{"*.corp.example"}, false},
		{"mixed list", "https://b.corp.example", []string{"https://app.example.com", "*.corp.example"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := originAllowed(tt.origin, tt.allowed); got != tt.want {
				t.Errorf("originAllowed(%q, %v) = %v, want %v", tt.origin, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestOriginCheckMiddleware(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := OriginCheck([]string{"*.corp.example"})(next)

	t.Run("allowed origin passes", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.Header.Set("Origin", "https://a.corp.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("disallowed origin forbidden", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.Header.Set("Origin", "https://corp.example.evil")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("no origin header passes", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	var seenID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = r.Context().Value(RequestIDKey).(string)
		if LoggerFromContext(r.Context()) == nil {
			t.Error("no logger in context")
		}
	})
	handler := RequestIDMiddleware(slog.Default())(next)

	t.Run("generates when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if seenID == "" {
			t.Error("no request ID generated")
		}
		if rec.Header().Get("X-Request-ID") != seenID {
			t.Error("request ID not echoed on response")
		}
	})

	t.Run("preserves client-provided ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "client-chosen")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if seenID != "client-chosen" {
			t.Errorf("request ID = %q, want client-chosen", seenID)
		}
	})
}
