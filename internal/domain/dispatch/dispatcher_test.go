package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

func testRegistry() *catalog.Registry {
	return catalog.NewRegistry(
		catalog.Descriptor{
			Name:  "s2t_echo",
			Title: "Echo",
			Shape: []catalog.Field{
				{Name: "text", Type: catalog.TypeString, Required: true},
			},
			Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return "echo: " + args["text"].(string), nil
			},
		},
		catalog.Descriptor{
			Name: "s2t_fail",
			Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
				return "", errors.New("Network error")
			},
		},
		catalog.Descriptor{
			Name: "s2t_panic",
			Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
				panic("boom")
			},
		},
	)
}

func TestInvoke_Success(t *testing.T) {
	t.Parallel()

	d := New(testRegistry(), nil)
	res := d.Invoke(context.Background(), "s2t_echo", map[string]interface{}{"text": "hi"})

	if res.IsError {
		t.Fatalf("IsError = true, content: %s", res.Content)
	}
	if res.Content != "echo: hi" {
		t.Errorf("Content = %q, want %q", res.Content, "echo: hi")
	}
}

func TestInvoke_UnknownTool(t *testing.T) {
	t.Parallel()

	d := New(testRegistry(), nil)
	res := d.Invoke(context.Background(), "s2t_does_not_exist", nil)

	if !res.IsError {
		t.Fatal("IsError = false, want true")
	}
	if !strings.Contains(res.Content, "Unknown tool: s2t_does_not_exist") {
		t.Errorf("Content = %q, want unknown-tool message", res.Content)
	}
}

func TestInvoke_ValidationFailure(t *testing.T) {
	t.Parallel()

	d := New(testRegistry(), nil)
	res := d.Invoke(context.Background(), "s2t_echo", map[string]interface{}{})

	if !res.IsError {
		t.Fatal("IsError = false, want true")
	}
	want := "Error: Required parameter 'text' must be a non-empty string"
	if res.Content != want {
		t.Errorf("Content = %q, want %q", res.Content, want)
	}
}

func TestInvoke_RemoteFailurePassthrough(t *testing.T) {
	t.Parallel()

	d := New(testRegistry(), nil)
	res := d.Invoke(context.Background(), "s2t_fail", nil)

	if !res.IsError {
		t.Fatal("IsError = false, want true")
	}
	// The remote failure message must surface unmodified.
	if res.Content != "Error: Network error" {
		t.Errorf("Content = %q, want %q", res.Content, "Error: Network error")
	}
}

func TestInvoke_NeverPanics(t *testing.T) {
	t.Parallel()

	d := New(testRegistry(), nil)

	// A panicking handler must still produce a Result.
	res := d.Invoke(context.Background(), "s2t_panic", nil)
	if !res.IsError {
		t.Error("panicking handler: IsError = false, want true")
	}

	// Arbitrary garbage argument bags must not escape either.
	bags := []map[string]interface{}{
		nil,
		{"text": 12345},
		{"text": []interface{}{"nested"}},
		{"unrelated": map[string]interface{}{"deep": true}},
	}
	for _, bag := range bags {
		for _, name := range []string{"s2t_echo", "", "s2t_panic", "nonsense"} {
			res := d.Invoke(context.Background(), name, bag)
			if res.Content == "" {
				t.Errorf("Invoke(%q) returned empty content", name)
			}
		}
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	d := New(testRegistry(), nil)
	list := d.List()

	if len(list) != 3 {
		t.Fatalf("List() len = %d, want 3", len(list))
	}
	if list[0].Name != "s2t_echo" {
		t.Errorf("List()[0] = %q, want s2t_echo (declaration order)", list[0].Name)
	}
}
