package tools

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

func validateOAuthConfig(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_validate_oauth_config",
		Title:       "Validate OAuth Configuration",
		Description: "Check an OAuth provider configuration for misconfigurations and insecure settings.",
		Shape: []catalog.Field{
			{Name: "provider", Type: catalog.TypeEnum, Required: true, Enum: []string{"google", "github", "okta", "auth0", "azure-ad", "custom"}, Description: "OAuth provider"},
			{Name: "config", Type: catalog.TypeObject, Required: true, Description: "Provider configuration to validate"},
			{Name: "flow", Type: catalog.TypeEnum, Enum: []string{"authorization_code", "client_credentials", "device_code"}, Default: "authorization_code"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/security/oauth-validate", http.MethodPost, map[string]interface{}{
				"provider": argString(args, "provider"),
				"config":   argObject(args, "config"),
				"flow":     argString(args, "flow"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Valid           bool     `json:"valid"`
				Errors          []string `json:"errors"`
				Warnings        []string `json:"warnings"`
				Recommendations []string `json:"recommendations"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("OAuth Configuration Review")
			d.field("Provider", argString(args, "provider"))
			d.field("Valid", resp.Valid)
			d.blank()
			if len(resp.Errors) > 0 {
				d.section("Errors")
				d.list(resp.Errors)
			}
			if len(resp.Warnings) > 0 {
				d.section("Warnings")
				d.list(resp.Warnings)
			}
			if len(resp.Recommendations) > 0 {
				d.section("Recommendations")
				d.list(resp.Recommendations)
			}
			return d.String(), nil
		},
	}
}

func validateIAMPolicy(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_validate_iam_policy",
		Title:       "Validate IAM Policy",
		Description: "Score an IAM policy document and report findings grouped by severity.",
		Shape: []catalog.Field{
			{Name: "policy", Type: catalog.TypeObject, Required: true, Description: "IAM policy document"},
			{Name: "strict", Type: catalog.TypeBoolean, Default: false, Description: "Fail on warnings as well as errors"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/security/iam-validate", http.MethodPost, map[string]interface{}{
				"policy": argObject(args, "policy"),
				"strict": argBool(args, "strict"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Score    float64 `json:"score"`
				Findings []struct {
					Severity string `json:"severity"`
					Message  string `json:"message"`
					Resource string `json:"resource"`
				} `json:"findings"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("IAM Policy Validation")
			d.line("**Score**: %.0f/100", resp.Score)
			d.blank()
			if len(resp.Findings) > 0 {
				d.section("Findings")
				for _, f := range resp.Findings {
					if f.Resource != "" {
						d.line("- [%s] %s (%s)", f.Severity, f.Message, f.Resource)
					} else {
						d.line("- [%s] %s", f.Severity, f.Message)
					}
				}
			} else {
				d.line("No findings.")
			}
			return d.String(), nil
		},
	}
}

func scanDependencies(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_scan_dependencies",
		Title:       "Scan Dependencies",
		Description: "Scan a dependency manifest for known vulnerabilities.",
		Shape: []catalog.Field{
			{Name: "manifest", Type: catalog.TypeString, Required: true, Description: "Manifest file contents (package.json, go.mod, requirements.txt, ...)"},
			{Name: "ecosystem", Type: catalog.TypeEnum, Enum: []string{"npm", "go", "pypi", "maven", "cargo"}, Default: "npm"},
			{Name: "include_dev", Type: catalog.TypeBoolean, Default: true, Description: "Include development dependencies"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/security/dependency-scan", http.MethodPost, map[string]interface{}{
				"manifest":   argString(args, "manifest"),
				"ecosystem":  argString(args, "ecosystem"),
				"includeDev": argBool(args, "include_dev"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Scanned         int `json:"scanned"`
				Vulnerabilities []struct {
					Package  string `json:"package"`
					Severity string `json:"severity"`
					ID       string `json:"id"`
					Fix      string `json:"fix"`
				} `json:"vulnerabilities"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Dependency Scan")
			d.field("Packages scanned", resp.Scanned)
			d.field("Vulnerabilities", len(resp.Vulnerabilities))
			d.blank()
			for _, v := range resp.Vulnerabilities {
				line := "- [" + v.Severity + "] " + v.Package + ": " + v.ID
				if v.Fix != "" {
					line += " (fix: " + v.Fix + ")"
				}
				d.line("%s", line)
			}
			return d.String(), nil
		},
	}
}
