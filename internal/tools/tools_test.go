package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

// fakeCaller records the last remote call and returns a canned response.
type fakeCaller struct {
	lastEndpoint string
	lastMethod   string
	lastBody     interface{}
	calls        int
	result       json.RawMessage
	err          error
}

func (f *fakeCaller) Call(_ context.Context, endpoint, method string, body interface{}) (json.RawMessage, error) {
	f.calls++
	f.lastEndpoint = endpoint
	f.lastMethod = method
	f.lastBody = body
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// invoke normalizes args through the descriptor's shape and runs the handler,
// the same path the dispatcher takes.
func invoke(t *testing.T, d catalog.Descriptor, args map[string]interface{}) (string, error) {
	t.Helper()
	normalized, err := catalog.ValidateArgs(d.Shape, args)
	if err != nil {
		return "", err
	}
	return d.Handler(context.Background(), normalized)
}

func bodyMap(t *testing.T, body interface{}) map[string]interface{} {
	t.Helper()
	m, ok := body.(map[string]interface{})
	if !ok {
		t.Fatalf("request body is %T, want map", body)
	}
	return m
}

func TestChunkText(t *testing.T) {
	t.Parallel()

	t.Run("short text is a single chunk", func(t *testing.T) {
		t.Parallel()
		chunks := chunkText(strings.Repeat("A", 150), defaultChunkSize, defaultChunkOverlap)
		if len(chunks) != 1 {
			t.Fatalf("got %d chunks, want 1", len(chunks))
		}
		if len(chunks[0]) != 150 {
			t.Errorf("chunk length = %d, want 150", len(chunks[0]))
		}
	})

	t.Run("long text overlaps", func(t *testing.T) {
		t.Parallel()
		text := strings.Repeat("x", 2500)
		chunks := chunkText(text, 1000, 100)
		if len(chunks) != 3 {
			t.Fatalf("got %d chunks, want 3", len(chunks))
		}
		if len(chunks[0]) != 1000 || len(chunks[1]) != 1000 {
			t.Errorf("full chunks have lengths %d, %d, want 1000", len(chunks[0]), len(chunks[1]))
		}
		// Third chunk starts at 1800 with 700 remaining.
		if len(chunks[2]) != 700 {
			t.Errorf("final chunk length = %d, want 700", len(chunks[2]))
		}
	})

	t.Run("degenerate overlap is ignored", func(t *testing.T) {
		t.Parallel()
		chunks := chunkText(strings.Repeat("x", 250), 100, 100)
		if len(chunks) != 3 {
			t.Fatalf("got %d chunks, want 3", len(chunks))
		}
	})
}

func TestPreview(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("A", 150)
	got := preview(long)
	if len(got) != 103 {
		t.Errorf("preview length = %d, want 103", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview %q does not end with ellipsis", got)
	}

	short := "hello"
	if preview(short) != short {
		t.Errorf("short text should pass through unchanged")
	}
}

func TestGenerateEmbeddings(t *testing.T) {
	t.Parallel()

	fc := &fakeCaller{result: json.RawMessage(`{
		"model": "embed-3",
		"embeddings": [{"dimensions": 1536}]
	}`)}
	d := generateEmbeddings(fc)

	out, err := invoke(t, d, map[string]interface{}{
		"text": strings.Repeat("A", 150),
	})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	if fc.lastEndpoint != "/embeddings/generate" {
		t.Errorf("endpoint = %q", fc.lastEndpoint)
	}
	body := bodyMap(t, fc.lastBody)
	chunks, ok := body["chunks"].([]string)
	if !ok || len(chunks) != 1 {
		t.Fatalf("body chunks = %#v, want one chunk", body["chunks"])
	}

	if !strings.Contains(out, "Chunk 0 (1536 dims)") {
		t.Errorf("output missing chunk line:\n%s", out)
	}
	// 150 chars previews to 100 + "...".
	if !strings.Contains(out, strings.Repeat("A", 100)+"...") {
		t.Errorf("output missing truncated preview:\n%s", out)
	}
	if strings.Contains(out, strings.Repeat("A", 101)) {
		t.Errorf("preview exceeded 100 characters:\n%s", out)
	}
}

func TestGenerateEmbeddingsMissingText(t *testing.T) {
	t.Parallel()

	fc := &fakeCaller{}
	d := generateEmbeddings(fc)

	_, err := invoke(t, d, map[string]interface{}{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := err.Error(); got != "Required parameter 'text' must be a non-empty string" {
		t.Errorf("error = %q", got)
	}
	if fc.calls != 0 {
		t.Errorf("remote was called %d times before validation failure", fc.calls)
	}
}

func TestAssessRiskEnvironmentMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        map[string]interface{}
		wantEnv     string
		wantContext string
	}{
		{
			name:        "default environment is local",
			args:        map[string]interface{}{"action": "deploy service"},
			wantEnv:     "local",
			wantContext: "development",
		},
		{
			name:        "production forwards unchanged",
			args:        map[string]interface{}{"action": "deploy service", "environment": "production"},
			wantEnv:     "production",
			wantContext: "production",
		},
		{
			name:        "staging forwards unchanged",
			args:        map[string]interface{}{"action": "deploy service", "environment": "staging"},
			wantEnv:     "staging",
			wantContext: "staging",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fc := &fakeCaller{result: json.RawMessage(`{"riskLevel": "low", "score": 2}`)}
			d := assessRisk(fc)

			if _, err := invoke(t, d, tt.args); err != nil {
				t.Fatalf("handler failed: %v", err)
			}

			body := bodyMap(t, fc.lastBody)
			if body["environment"] != tt.wantEnv {
				t.Errorf("environment = %v, want %s", body["environment"], tt.wantEnv)
			}
			if body["context"] != tt.wantContext {
				t.Errorf("context = %v, want %s", body["context"], tt.wantContext)
			}
		})
	}
}

func TestAssessRiskRejectsUnknownEnvironment(t *testing.T) {
	t.Parallel()

	fc := &fakeCaller{}
	d := assessRisk(fc)

	_, err := invoke(t, d, map[string]interface{}{
		"action":      "deploy",
		"environment": "qa",
	})
	if err == nil {
		t.Fatal("expected enum rejection")
	}
	if fc.calls != 0 {
		t.Error("remote was called despite invalid environment")
	}
}

func TestRemoteFailurePassthrough(t *testing.T) {
	t.Parallel()

	fc := &fakeCaller{err: errors.New("Network error")}
	d := classifyDecision(fc)

	_, err := invoke(t, d, map[string]interface{}{"action": "rm -rf /"})
	if err == nil {
		t.Fatal("expected remote failure")
	}
	if err.Error() != "Network error" {
		t.Errorf("error = %q, want verbatim remote message", err.Error())
	}
}

func TestCheckFileLockUsesGet(t *testing.T) {
	t.Parallel()

	fc := &fakeCaller{result: json.RawMessage(`{"locked": false}`)}
	d := checkFileLock(fc)

	if _, err := invoke(t, d, map[string]interface{}{"path": "src/main.go"}); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if fc.lastMethod != "GET" {
		t.Errorf("method = %q, want GET", fc.lastMethod)
	}
	if !strings.HasPrefix(fc.lastEndpoint, "/agents/locks/status?path=") {
		t.Errorf("endpoint = %q", fc.lastEndpoint)
	}
	if fc.lastBody != nil {
		t.Error("GET request carried a body")
	}
}

func TestInterviewLifecycle(t *testing.T) {
	t.Parallel()

	store := newInterviewStore()
	start := startInterview(store)
	answer := answerInterview(store)
	status := interviewStatus(store)
	cancel := cancelInterview(store)

	out, err := invoke(t, start, map[string]interface{}{"topic": "billing revamp"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !strings.Contains(out, "Question 1") {
		t.Fatalf("start output missing first question:\n%s", out)
	}

	// Recover the id from the store; exactly one interview is active.
	var id string
	store.mu.RLock()
	for k := range store.m {
		id = k
	}
	store.mu.RUnlock()
	if id == "" {
		t.Fatal("no interview recorded in store")
	}

	for i := 0; i < len(interviewQuestions); i++ {
		out, err = invoke(t, answer, map[string]interface{}{
			"interview_id": id,
			"answer":       "because reasons",
		})
		if err != nil {
			t.Fatalf("answer %d failed: %v", i+1, err)
		}
	}
	if !strings.Contains(out, "Interview Complete") {
		t.Errorf("final answer did not complete the interview:\n%s", out)
	}

	// Answering past completion is an error, not a panic.
	if _, err := invoke(t, answer, map[string]interface{}{
		"interview_id": id,
		"answer":       "extra",
	}); err == nil {
		t.Error("expected error answering a completed interview")
	}

	out, err = invoke(t, status, map[string]interface{}{"interview_id": id})
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "5/5") {
		t.Errorf("status does not show completion:\n%s", out)
	}

	// Cancel twice; second is a no-op.
	if _, err := invoke(t, cancel, map[string]interface{}{"interview_id": id}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	out, err = invoke(t, cancel, map[string]interface{}{"interview_id": id})
	if err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if !strings.Contains(out, "Was active**: false") {
		t.Errorf("second cancel should report inactive:\n%s", out)
	}

	// Status after cancel fails cleanly.
	if _, err := invoke(t, status, map[string]interface{}{"interview_id": id}); err == nil {
		t.Error("expected error for cancelled interview status")
	}
}

func TestCatalogAssembly(t *testing.T) {
	t.Parallel()

	reg := New(&fakeCaller{})
	if reg.Len() != 31 {
		t.Errorf("catalog has %d operations, want 31", reg.Len())
	}

	list := reg.List()
	if list[0].Name != "s2t_generate_embeddings" {
		t.Errorf("first operation = %q", list[0].Name)
	}
	if list[len(list)-1].Name != "s2t_cancel_interview" {
		t.Errorf("last operation = %q", list[len(list)-1].Name)
	}

	for _, d := range list {
		if !strings.HasPrefix(d.Name, "s2t_") {
			t.Errorf("operation %q missing prefix", d.Name)
		}
		if d.Handler == nil {
			t.Errorf("operation %q has no handler", d.Name)
		}
		if len(d.Shape) == 0 {
			t.Errorf("operation %q declares no inputs", d.Name)
		}
	}

	if _, ok := reg.Lookup("s2t_delete_agent_memory"); !ok {
		t.Error("destructive memory delete missing from catalog")
	}
	if d, _ := reg.Lookup("s2t_delete_agent_memory"); !d.Annotations.Destructive {
		t.Error("memory delete should be marked destructive")
	}
}

func TestDocBuilder(t *testing.T) {
	t.Parallel()

	d := &doc{}
	d.title("Report")
	d.field("Count", 3)
	d.blank()
	d.section("Items")
	d.list([]string{"a", "b"})

	out := d.String()
	if !strings.HasPrefix(out, "# Report\n") {
		t.Errorf("missing title: %q", out)
	}
	if !strings.HasSuffix(out, "- b\n") {
		t.Errorf("should end with single trailing newline: %q", out)
	}
	if strings.HasSuffix(out, "\n\n") {
		t.Errorf("trailing blank lines not trimmed: %q", out)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	if got := percent(0.875); got != "88%" {
		t.Errorf("percent(0.875) = %q", got)
	}
	if got := percent(1); got != "100%" {
		t.Errorf("percent(1) = %q", got)
	}
}
