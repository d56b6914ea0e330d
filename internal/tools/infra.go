package tools

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

func generateInfraTemplate(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_generate_infra_template",
		Title:       "Generate Infrastructure Template",
		Description: "Synthesize an infrastructure-as-code template from a natural-language description.",
		Shape: []catalog.Field{
			{Name: "description", Type: catalog.TypeString, Required: true, MinLen: 10, Description: "What the infrastructure should do"},
			{Name: "format", Type: catalog.TypeEnum, Enum: []string{"terraform", "cloudformation", "cdk"}, Default: "terraform"},
			{Name: "region", Type: catalog.TypeString, Default: "us-east-1"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/infra/template", http.MethodPost, map[string]interface{}{
				"description": argString(args, "description"),
				"format":      argString(args, "format"),
				"region":      argString(args, "region"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Template  string   `json:"template"`
				Resources []string `json:"resources"`
				Warnings  []string `json:"warnings"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Infrastructure Template")
			d.field("Format", argString(args, "format"))
			d.field("Resources", len(resp.Resources))
			d.blank()
			if resp.Template != "" {
				d.code(resp.Template)
			}
			if len(resp.Resources) > 0 {
				d.section("Resources")
				d.list(resp.Resources)
			}
			if len(resp.Warnings) > 0 {
				d.section("Warnings")
				d.list(resp.Warnings)
			}
			return d.String(), nil
		},
	}
}

func designDynamoDBSchema(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_design_dynamodb_schema",
		Title:       "Design DynamoDB Schema",
		Description: "Derive a single-table DynamoDB design from declared access patterns.",
		Shape: []catalog.Field{
			{Name: "access_patterns", Type: catalog.TypeArray, Required: true, Description: "Access patterns the table must serve"},
			{Name: "entity_types", Type: catalog.TypeArray, Description: "Entity type names"},
			{Name: "expected_scale", Type: catalog.TypeEnum, Enum: []string{"small", "medium", "large"}, Default: "medium"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/infra/dynamodb-design", http.MethodPost, map[string]interface{}{
				"accessPatterns": argStrings(args, "access_patterns"),
				"entityTypes":    argStrings(args, "entity_types"),
				"expectedScale":  argString(args, "expected_scale"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				TableName string `json:"tableName"`
				Keys      struct {
					Partition string `json:"partition"`
					Sort      string `json:"sort"`
				} `json:"keys"`
				Indexes []struct {
					Name      string `json:"name"`
					Partition string `json:"partition"`
					Sort      string `json:"sort"`
				} `json:"indexes"`
				Notes []string `json:"notes"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("DynamoDB Table Design")
			d.field("Table", resp.TableName)
			d.field("Partition key", resp.Keys.Partition)
			d.field("Sort key", resp.Keys.Sort)
			d.blank()
			if len(resp.Indexes) > 0 {
				d.section("Secondary Indexes")
				for _, idx := range resp.Indexes {
					d.line("- %s: PK=%s SK=%s", idx.Name, idx.Partition, idx.Sort)
				}
				d.blank()
			}
			if len(resp.Notes) > 0 {
				d.section("Design Notes")
				d.list(resp.Notes)
			}
			return d.String(), nil
		},
	}
}

func checkCLIReadiness(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_check_cli_readiness",
		Title:       "Check CLI Readiness",
		Description: "Verify the local toolchain against the accelerator's CLI readiness checklist.",
		Shape: []catalog.Field{
			{Name: "tools", Type: catalog.TypeArray, Description: "Tool names to check; empty checks the default set"},
			{Name: "platform", Type: catalog.TypeEnum, Enum: []string{"linux", "darwin", "windows"}, Default: "linux"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/cli/readiness", http.MethodPost, map[string]interface{}{
				"tools":    argStrings(args, "tools"),
				"platform": argString(args, "platform"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Ready  bool `json:"ready"`
				Checks []struct {
					Name   string `json:"name"`
					Status string `json:"status"`
					Detail string `json:"detail"`
				} `json:"checks"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("CLI Readiness")
			d.field("Ready", resp.Ready)
			d.blank()
			for _, c := range resp.Checks {
				if c.Detail != "" {
					d.line("- %s: %s (%s)", c.Name, c.Status, c.Detail)
				} else {
					d.line("- %s: %s", c.Name, c.Status)
				}
			}
			return d.String(), nil
		},
	}
}
