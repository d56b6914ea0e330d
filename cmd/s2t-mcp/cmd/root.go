// Package cmd provides the CLI commands for the s2t-mcp server.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s2t-dev/s2t-mcp/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "s2t-mcp",
	Short: "s2t-mcp - MCP server for the S2T accelerator API",
	Long: `s2t-mcp exposes the S2T accelerator operations (security scanning,
infrastructure-template generation, governance classification, agent
orchestration) as MCP tools.

Quick start:
  1. export S2T_API_KEY=<your key>
  2. Run: s2t-mcp serve

Configuration:
  Config is loaded from s2t-mcp.yaml in the current directory,
  $HOME/.s2t-mcp/, or /etc/s2t-mcp/.

  Environment variables override config values:
    S2T_API_KEY          accelerator API key (required)
    S2T_API_URL          accelerator base URL
    S2T_PORT             HTTP listen port (default 3001)
    S2T_ALLOWED_ORIGINS  comma-separated Origin allow-list
    S2T_LOG_LEVEL        debug|info|warn|error

Commands:
  serve       Start the MCP server (HTTP by default, --stdio for stdio)
  tools       List the tool catalog
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./s2t-mcp.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
