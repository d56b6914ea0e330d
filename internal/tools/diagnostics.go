package tools

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

func clusterErrors(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_cluster_errors",
		Title:       "Cluster Errors",
		Description: "Group raw error messages into recurring patterns with suggested root causes.",
		Shape: []catalog.Field{
			{Name: "errors", Type: catalog.TypeArray, Required: true, Description: "Raw error messages or log lines"},
			{Name: "max_clusters", Type: catalog.TypeInteger, Default: float64(10), Min: catalog.Float(1), Max: catalog.Float(50)},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/diagnostics/error-clusters", http.MethodPost, map[string]interface{}{
				"errors":      argStrings(args, "errors"),
				"maxClusters": argInt(args, "max_clusters"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Clusters []struct {
					Pattern   string `json:"pattern"`
					Count     int    `json:"count"`
					RootCause string `json:"rootCause"`
					Sample    string `json:"sample"`
				} `json:"clusters"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Error Clusters")
			d.field("Clusters", len(resp.Clusters))
			d.blank()
			for _, c := range resp.Clusters {
				d.line("- %s (%d occurrences)", c.Pattern, c.Count)
				if c.RootCause != "" {
					d.line("  Likely cause: %s", c.RootCause)
				}
				if c.Sample != "" {
					d.line("  Sample: %s", preview(c.Sample))
				}
			}
			return d.String(), nil
		},
	}
}
