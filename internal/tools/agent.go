package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

func queueAgentTask(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_queue_agent_task",
		Title:       "Queue Agent Task",
		Description: "Queue a task for asynchronous execution by a background agent.",
		Shape: []catalog.Field{
			{Name: "task", Type: catalog.TypeString, Required: true, Description: "Task description"},
			{Name: "agent", Type: catalog.TypeString, Description: "Target agent name; empty lets the queue route it"},
			{Name: "priority", Type: catalog.TypeEnum, Enum: []string{"low", "normal", "high"}, Default: "normal"},
			{Name: "payload", Type: catalog.TypeObject, Description: "Structured task payload"},
		},
		Annotations: catalog.Annotations{OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/agents/tasks", http.MethodPost, map[string]interface{}{
				"task":     argString(args, "task"),
				"agent":    argString(args, "agent"),
				"priority": argString(args, "priority"),
				"payload":  argObject(args, "payload"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				TaskID   string `json:"taskId"`
				Status   string `json:"status"`
				Position int    `json:"position"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Task Queued")
			d.field("Task", resp.TaskID)
			d.field("Status", resp.Status)
			d.field("Queue position", resp.Position)
			return d.String(), nil
		},
	}
}

func storeAgentMemory(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_store_agent_memory",
		Title:       "Store Agent Memory",
		Description: "Persist a memory entry under a key in the shared agent memory store.",
		Shape: []catalog.Field{
			{Name: "key", Type: catalog.TypeString, Required: true, Description: "Memory key"},
			{Name: "value", Type: catalog.TypeString, Required: true, Description: "Memory content"},
			{Name: "tags", Type: catalog.TypeArray, Description: "Tags for later search"},
			{Name: "ttl_seconds", Type: catalog.TypeInteger, Min: catalog.Float(0), Description: "Expiry in seconds; 0 or absent keeps it indefinitely"},
		},
		Annotations: catalog.Annotations{Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/agents/memory", http.MethodPost, map[string]interface{}{
				"key":        argString(args, "key"),
				"value":      argString(args, "value"),
				"tags":       argStrings(args, "tags"),
				"ttlSeconds": argInt(args, "ttl_seconds"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Stored  bool   `json:"stored"`
				Version int    `json:"version"`
				Key     string `json:"key"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Memory Stored")
			d.field("Key", argString(args, "key"))
			d.field("Version", resp.Version)
			return d.String(), nil
		},
	}
}

func retrieveAgentMemory(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_retrieve_agent_memory",
		Title:       "Retrieve Agent Memory",
		Description: "Retrieve a memory entry by exact key.",
		Shape: []catalog.Field{
			{Name: "key", Type: catalog.TypeString, Required: true, Description: "Memory key"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/agents/memory/retrieve", http.MethodPost, map[string]interface{}{
				"key": argString(args, "key"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Found bool     `json:"found"`
				Value string   `json:"value"`
				Tags  []string `json:"tags"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Memory Retrieved")
			d.field("Key", argString(args, "key"))
			d.field("Found", resp.Found)
			d.blank()
			if resp.Found {
				d.line("%s", resp.Value)
				if len(resp.Tags) > 0 {
					d.blank()
					d.field("Tags", len(resp.Tags))
					d.list(resp.Tags)
				}
			}
			return d.String(), nil
		},
	}
}

func searchAgentMemory(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_search_agent_memory",
		Title:       "Search Agent Memory",
		Description: "Semantic search over stored agent memories.",
		Shape: []catalog.Field{
			{Name: "query", Type: catalog.TypeString, Required: true, Description: "Natural-language query"},
			{Name: "limit", Type: catalog.TypeInteger, Default: float64(5), Min: catalog.Float(1), Max: catalog.Float(50)},
			{Name: "tags", Type: catalog.TypeArray, Description: "Restrict results to these tags"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/agents/memory/search", http.MethodPost, map[string]interface{}{
				"query": argString(args, "query"),
				"limit": argInt(args, "limit"),
				"tags":  argStrings(args, "tags"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Results []struct {
					Key   string  `json:"key"`
					Value string  `json:"value"`
					Score float64 `json:"score"`
				} `json:"results"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Memory Search")
			d.field("Results", len(resp.Results))
			d.blank()
			for _, r := range resp.Results {
				d.line("- %s (score %s): %s", r.Key, percent(r.Score), preview(r.Value))
			}
			return d.String(), nil
		},
	}
}

func deleteAgentMemory(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_delete_agent_memory",
		Title:       "Delete Agent Memory",
		Description: "Delete a memory entry by key. The entry cannot be recovered.",
		Shape: []catalog.Field{
			{Name: "key", Type: catalog.TypeString, Required: true, Description: "Memory key to delete"},
		},
		Annotations: catalog.Annotations{Destructive: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/agents/memory/delete", http.MethodPost, map[string]interface{}{
				"key": argString(args, "key"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Deleted bool `json:"deleted"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Memory Deleted")
			d.field("Key", argString(args, "key"))
			d.field("Deleted", resp.Deleted)
			return d.String(), nil
		},
	}
}

func createTraceContext(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_create_trace_context",
		Title:       "Create Trace Context",
		Description: "Create a distributed-trace context for correlating work across agents.",
		Shape: []catalog.Field{
			{Name: "operation", Type: catalog.TypeString, Required: true, Description: "Operation name for the root span"},
			{Name: "parent_trace_id", Type: catalog.TypeString, Description: "Existing trace to attach to"},
		},
		Annotations: catalog.Annotations{OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/agents/trace-context", http.MethodPost, map[string]interface{}{
				"operation":     argString(args, "operation"),
				"parentTraceId": argString(args, "parent_trace_id"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				TraceID     string `json:"traceId"`
				SpanID      string `json:"spanId"`
				Traceparent string `json:"traceparent"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Trace Context")
			d.field("Trace", resp.TraceID)
			d.field("Span", resp.SpanID)
			if resp.Traceparent != "" {
				d.field("Traceparent", resp.Traceparent)
			}
			return d.String(), nil
		},
	}
}

func acquireFileLock(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_acquire_file_lock",
		Title:       "Acquire File Lock",
		Description: "Acquire an advisory lock on a file path so concurrent agents do not clobber each other.",
		Shape: []catalog.Field{
			{Name: "path", Type: catalog.TypeString, Required: true, Description: "File path to lock"},
			{Name: "owner", Type: catalog.TypeString, Required: true, Description: "Lock owner identifier"},
			{Name: "ttl_seconds", Type: catalog.TypeInteger, Default: float64(300), Min: catalog.Float(1), Max: catalog.Float(3600), Description: "Lock lifetime in seconds"},
		},
		Annotations: catalog.Annotations{OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/agents/locks/acquire", http.MethodPost, map[string]interface{}{
				"path":       argString(args, "path"),
				"owner":      argString(args, "owner"),
				"ttlSeconds": argInt(args, "ttl_seconds"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Acquired  bool   `json:"acquired"`
				HeldBy    string `json:"heldBy"`
				ExpiresAt string `json:"expiresAt"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("File Lock")
			d.field("Path", argString(args, "path"))
			d.field("Acquired", resp.Acquired)
			if !resp.Acquired && resp.HeldBy != "" {
				d.field("Held by", resp.HeldBy)
			}
			if resp.ExpiresAt != "" {
				d.field("Expires", resp.ExpiresAt)
			}
			return d.String(), nil
		},
	}
}

func releaseFileLock(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_release_file_lock",
		Title:       "Release File Lock",
		Description: "Release an advisory file lock held by an owner.",
		Shape: []catalog.Field{
			{Name: "path", Type: catalog.TypeString, Required: true, Description: "Locked file path"},
			{Name: "owner", Type: catalog.TypeString, Required: true, Description: "Lock owner identifier"},
		},
		Annotations: catalog.Annotations{Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/agents/locks/release", http.MethodPost, map[string]interface{}{
				"path":  argString(args, "path"),
				"owner": argString(args, "owner"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Released bool `json:"released"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("File Lock Released")
			d.field("Path", argString(args, "path"))
			d.field("Released", resp.Released)
			return d.String(), nil
		},
	}
}

func checkFileLock(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_check_file_lock",
		Title:       "Check File Lock",
		Description: "Check whether a file path is currently locked and by whom.",
		Shape: []catalog.Field{
			{Name: "path", Type: catalog.TypeString, Required: true, Description: "File path to check"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			endpoint := "/agents/locks/status?path=" + url.QueryEscape(argString(args, "path"))
			result, err := client.Call(ctx, endpoint, http.MethodGet, nil)
			if err != nil {
				return "", err
			}

			var resp struct {
				Locked    bool   `json:"locked"`
				Owner     string `json:"owner"`
				ExpiresAt string `json:"expiresAt"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("File Lock Status")
			d.field("Path", argString(args, "path"))
			d.field("Locked", resp.Locked)
			if resp.Locked {
				d.field("Owner", resp.Owner)
				if resp.ExpiresAt != "" {
					d.field("Expires", resp.ExpiresAt)
				}
			}
			return d.String(), nil
		},
	}
}
