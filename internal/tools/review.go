package tools

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

func dispatchReview(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_dispatch_review",
		Title:       "Dispatch Review",
		Description: "Dispatch a change for parallel review across multiple reviewer domains.",
		Shape: []catalog.Field{
			{Name: "content", Type: catalog.TypeString, Required: true, Description: "The change or document under review"},
			{Name: "domains", Type: catalog.TypeArray, Required: true, Description: "Reviewer domains (security, architecture, cost, ...)"},
			{Name: "priority", Type: catalog.TypeEnum, Enum: []string{"low", "normal", "high"}, Default: "normal"},
		},
		Annotations: catalog.Annotations{OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/review/dispatch", http.MethodPost, map[string]interface{}{
				"content":  argString(args, "content"),
				"domains":  argStrings(args, "domains"),
				"priority": argString(args, "priority"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				ReviewID string `json:"reviewId"`
				Reviews  []struct {
					Domain  string   `json:"domain"`
					Verdict string   `json:"verdict"`
					Notes   []string `json:"notes"`
				} `json:"reviews"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Review Dispatched")
			d.field("Review", resp.ReviewID)
			d.field("Domains", len(resp.Reviews))
			d.blank()
			for _, r := range resp.Reviews {
				d.line("- %s: %s", r.Domain, r.Verdict)
				for _, n := range r.Notes {
					d.line("  - %s", n)
				}
			}
			return d.String(), nil
		},
	}
}

func synthesizeReview(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_synthesize_review",
		Title:       "Synthesize Review",
		Description: "Combine per-domain review verdicts into a single overall verdict.",
		Shape: []catalog.Field{
			{Name: "review_id", Type: catalog.TypeString, Required: true, Description: "Identifier returned by review dispatch"},
			{Name: "strategy", Type: catalog.TypeEnum, Enum: []string{"strictest", "majority", "weighted"}, Default: "strictest"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/review/synthesize", http.MethodPost, map[string]interface{}{
				"reviewId": argString(args, "review_id"),
				"strategy": argString(args, "strategy"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Verdict   string   `json:"verdict"`
				Summary   string   `json:"summary"`
				Blockers  []string `json:"blockers"`
				Conflicts []string `json:"conflicts"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Review Synthesis")
			d.field("Verdict", resp.Verdict)
			d.field("Strategy", argString(args, "strategy"))
			d.blank()
			if resp.Summary != "" {
				d.line("%s", resp.Summary)
				d.blank()
			}
			if len(resp.Blockers) > 0 {
				d.section("Blockers")
				d.list(resp.Blockers)
			}
			if len(resp.Conflicts) > 0 {
				d.section("Conflicting Verdicts")
				d.list(resp.Conflicts)
			}
			return d.String(), nil
		},
	}
}
