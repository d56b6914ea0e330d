package tools

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

// environmentContext maps the caller-facing environment name to the
// context label the governance service expects. The service has no
// notion of "local"; local work is assessed as development.
func environmentContext(env string) string {
	if env == "local" {
		return "development"
	}
	return env
}

func classifyDecision(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_classify_decision",
		Title:       "Classify Decision",
		Description: "Classify a proposed action as APPROVE, ESCALATE, or BLOCK with confidence and reasoning.",
		Shape: []catalog.Field{
			{Name: "action", Type: catalog.TypeString, Required: true, Description: "The action to classify"},
			{Name: "context", Type: catalog.TypeObject, Description: "Supporting context for the decision"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/governance/classify", http.MethodPost, map[string]interface{}{
				"action":  argString(args, "action"),
				"context": argObject(args, "context"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Classification string  `json:"classification"`
				Confidence     float64 `json:"confidence"`
				Reasoning      string  `json:"reasoning"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Decision Classification")
			d.field("Classification", resp.Classification)
			d.field("Confidence", percent(resp.Confidence))
			d.blank()
			if resp.Reasoning != "" {
				d.section("Reasoning")
				d.line("%s", resp.Reasoning)
			}
			return d.String(), nil
		},
	}
}

func assessRisk(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_assess_risk",
		Title:       "Assess Risk",
		Description: "Assess the risk of an action in a target environment.",
		Shape: []catalog.Field{
			{Name: "action", Type: catalog.TypeString, Required: true, Description: "The action to assess"},
			{Name: "environment", Type: catalog.TypeEnum, Enum: []string{"local", "staging", "production"}, Default: "local"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			env := argString(args, "environment")
			result, err := client.Call(ctx, "/governance/risk", http.MethodPost, map[string]interface{}{
				"action":      argString(args, "action"),
				"environment": env,
				"context":     environmentContext(env),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				RiskLevel   string   `json:"riskLevel"`
				Score       float64  `json:"score"`
				Factors     []string `json:"factors"`
				Mitigations []string `json:"mitigations"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Risk Assessment")
			d.field("Environment", env)
			d.field("Risk level", resp.RiskLevel)
			d.line("**Score**: %.1f/10", resp.Score)
			d.blank()
			if len(resp.Factors) > 0 {
				d.section("Risk Factors")
				d.list(resp.Factors)
			}
			if len(resp.Mitigations) > 0 {
				d.section("Suggested Mitigations")
				d.list(resp.Mitigations)
			}
			return d.String(), nil
		},
	}
}

func checkFinancialImpact(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_check_financial_impact",
		Title:       "Check Financial Impact",
		Description: "Check whether an action's projected spend stays within governance limits.",
		Shape: []catalog.Field{
			{Name: "action", Type: catalog.TypeString, Required: true, Description: "The action being evaluated"},
			{Name: "estimated_cost", Type: catalog.TypeNumber, Min: catalog.Float(0), Description: "Estimated cost in USD"},
			{Name: "recurring", Type: catalog.TypeBoolean, Default: false, Description: "Whether the cost recurs monthly"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/governance/financial-impact", http.MethodPost, map[string]interface{}{
				"action":        argString(args, "action"),
				"estimatedCost": argFloat(args, "estimated_cost"),
				"recurring":     argBool(args, "recurring"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Approved  bool     `json:"approved"`
				Limit     float64  `json:"limit"`
				Projected float64  `json:"projected"`
				Notes     []string `json:"notes"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Financial Impact Check")
			d.field("Approved", resp.Approved)
			d.line("**Projected**: $%.2f (limit $%.2f)", resp.Projected, resp.Limit)
			d.blank()
			if len(resp.Notes) > 0 {
				d.section("Notes")
				d.list(resp.Notes)
			}
			return d.String(), nil
		},
	}
}

func checkCompliance(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_check_compliance",
		Title:       "Check Compliance",
		Description: "Check an action against the configured compliance frameworks.",
		Shape: []catalog.Field{
			{Name: "action", Type: catalog.TypeString, Required: true, Description: "The action to check"},
			{Name: "frameworks", Type: catalog.TypeArray, Description: "Frameworks to check against (SOC2, HIPAA, GDPR, ...); empty checks all configured"},
			{Name: "data_classes", Type: catalog.TypeArray, Description: "Data classifications the action touches"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/governance/compliance", http.MethodPost, map[string]interface{}{
				"action":      argString(args, "action"),
				"frameworks":  argStrings(args, "frameworks"),
				"dataClasses": argStrings(args, "data_classes"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Compliant bool `json:"compliant"`
				Results   []struct {
					Framework string   `json:"framework"`
					Status    string   `json:"status"`
					Issues    []string `json:"issues"`
				} `json:"results"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Compliance Check")
			d.field("Compliant", resp.Compliant)
			d.blank()
			for _, r := range resp.Results {
				d.line("- %s: %s", r.Framework, r.Status)
				for _, issue := range r.Issues {
					d.line("  - %s", issue)
				}
			}
			return d.String(), nil
		},
	}
}

func searchPrecedents(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_search_precedents",
		Title:       "Search Precedents",
		Description: "Find past governance decisions similar to a proposed action.",
		Shape: []catalog.Field{
			{Name: "action", Type: catalog.TypeString, Required: true, Description: "The action to find precedents for"},
			{Name: "limit", Type: catalog.TypeInteger, Default: float64(5), Min: catalog.Float(1), Max: catalog.Float(20), Description: "Maximum precedents to return"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/governance/precedents/search", http.MethodPost, map[string]interface{}{
				"action": argString(args, "action"),
				"limit":  argInt(args, "limit"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Precedents []struct {
					Action     string  `json:"action"`
					Decision   string  `json:"decision"`
					Outcome    string  `json:"outcome"`
					Similarity float64 `json:"similarity"`
				} `json:"precedents"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Precedent Search")
			d.field("Matches", len(resp.Precedents))
			d.blank()
			for _, p := range resp.Precedents {
				d.line("- [%s] %s (similarity %s)", p.Decision, preview(p.Action), percent(p.Similarity))
				if p.Outcome != "" {
					d.line("  Outcome: %s", p.Outcome)
				}
			}
			return d.String(), nil
		},
	}
}

func recordOutcome(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_record_outcome",
		Title:       "Record Decision Outcome",
		Description: "Record the observed outcome of a past governance decision so future classifications can learn from it.",
		Shape: []catalog.Field{
			{Name: "decision_id", Type: catalog.TypeString, Required: true, Description: "Identifier of the decision"},
			{Name: "outcome", Type: catalog.TypeEnum, Required: true, Enum: []string{"success", "failure", "partial", "rolled_back"}},
			{Name: "notes", Type: catalog.TypeString, Description: "Free-form observations"},
		},
		Annotations: catalog.Annotations{OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			result, err := client.Call(ctx, "/governance/outcomes", http.MethodPost, map[string]interface{}{
				"decisionId": argString(args, "decision_id"),
				"outcome":    argString(args, "outcome"),
				"notes":      argString(args, "notes"),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Recorded bool   `json:"recorded"`
				ID       string `json:"id"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Outcome Recorded")
			d.field("Decision", argString(args, "decision_id"))
			d.field("Outcome", argString(args, "outcome"))
			if resp.ID != "" {
				d.field("Record", resp.ID)
			}
			return d.String(), nil
		},
	}
}

func estimateBlastRadius(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_estimate_blast_radius",
		Title:       "Estimate Blast Radius",
		Description: "Estimate which resources and services an action would affect if it goes wrong.",
		Shape: []catalog.Field{
			{Name: "action", Type: catalog.TypeString, Required: true, Description: "The action to analyze"},
			{Name: "environment", Type: catalog.TypeEnum, Enum: []string{"local", "staging", "production"}, Default: "local"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			env := argString(args, "environment")
			result, err := client.Call(ctx, "/governance/blast-radius", http.MethodPost, map[string]interface{}{
				"action":      argString(args, "action"),
				"environment": env,
				"context":     environmentContext(env),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Scope      string   `json:"scope"`
				Affected   []string `json:"affected"`
				Downtime   string   `json:"downtime"`
				Reversible bool     `json:"reversible"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Blast Radius Estimate")
			d.field("Scope", resp.Scope)
			d.field("Reversible", resp.Reversible)
			if resp.Downtime != "" {
				d.field("Expected downtime", resp.Downtime)
			}
			d.blank()
			if len(resp.Affected) > 0 {
				d.section("Affected Resources")
				d.list(resp.Affected)
			}
			return d.String(), nil
		},
	}
}

func generateRollbackPlan(client Caller) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_generate_rollback_plan",
		Title:       "Generate Rollback Plan",
		Description: "Produce an ordered rollback plan for an action before it is executed.",
		Shape: []catalog.Field{
			{Name: "action", Type: catalog.TypeString, Required: true, Description: "The action to plan rollback for"},
			{Name: "environment", Type: catalog.TypeEnum, Enum: []string{"local", "staging", "production"}, Default: "local"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			env := argString(args, "environment")
			result, err := client.Call(ctx, "/governance/rollback-plan", http.MethodPost, map[string]interface{}{
				"action":      argString(args, "action"),
				"environment": env,
				"context":     environmentContext(env),
			})
			if err != nil {
				return "", err
			}

			var resp struct {
				Feasible bool     `json:"feasible"`
				Steps    []string `json:"steps"`
				Caveats  []string `json:"caveats"`
			}
			if err := json.Unmarshal(result, &resp); err != nil {
				return "", err
			}

			d := &doc{}
			d.title("Rollback Plan")
			d.field("Feasible", resp.Feasible)
			d.blank()
			if len(resp.Steps) > 0 {
				d.section("Steps")
				d.numbered(resp.Steps)
			}
			if len(resp.Caveats) > 0 {
				d.section("Caveats")
				d.list(resp.Caveats)
			}
			return d.String(), nil
		},
	}
}
