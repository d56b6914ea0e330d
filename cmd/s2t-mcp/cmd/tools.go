package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
	"github.com/s2t-dev/s2t-mcp/internal/tools"
)

var toolsJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool catalog",
	Long: `List every tool the server exposes, in catalog order.

The catalog is static: no API key or network access is needed to list it.`,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Emit the catalog as JSON (names, descriptions, input schemas)")
	rootCmd.AddCommand(toolsCmd)
}

// offlineCaller satisfies the tools package without any remote connectivity.
// Listing never invokes handlers, so it is never called.
type offlineCaller struct{}

func (offlineCaller) Call(_ context.Context, endpoint, _ string, _ interface{}) (json.RawMessage, error) {
	return nil, fmt.Errorf("no API connection (endpoint %s)", endpoint)
}

func runTools(cmd *cobra.Command, args []string) error {
	registry := tools.New(offlineCaller{})

	if toolsJSON {
		type entry struct {
			Name        string                 `json:"name"`
			Description string                 `json:"description,omitempty"`
			InputSchema map[string]interface{} `json:"inputSchema"`
		}
		entries := make([]entry, 0, registry.Len())
		for _, d := range registry.List() {
			entries = append(entries, entry{
				Name:        d.Name,
				Description: d.Description,
				InputSchema: catalog.InputSchema(d.Shape),
			})
		}
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, d := range registry.List() {
		required := 0
		for _, f := range d.Shape {
			if f.Required {
				required++
			}
		}
		fmt.Printf("%-32s %s (%d args, %d required)\n", d.Name, d.Description, len(d.Shape), required)
	}
	fmt.Printf("\n%d tools\n", registry.Len())
	return nil
}
