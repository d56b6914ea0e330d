package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/s2t-dev/s2t-mcp/internal/adapter/inbound/http"
	"github.com/s2t-dev/s2t-mcp/internal/adapter/inbound/stdio"
	"github.com/s2t-dev/s2t-mcp/internal/adapter/outbound/accel"
	"github.com/s2t-dev/s2t-mcp/internal/config"
	"github.com/s2t-dev/s2t-mcp/internal/domain/dispatch"
	"github.com/s2t-dev/s2t-mcp/internal/domain/session"
	"github.com/s2t-dev/s2t-mcp/internal/service"
	"github.com/s2t-dev/s2t-mcp/internal/tools"
)

var (
	devMode   bool
	stdioMode bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the s2t-mcp server.

By default the server listens for Streamable HTTP connections on the
configured port (also serving the legacy SSE binding, /health, and
/metrics). With --stdio it speaks line-delimited JSON-RPC over
stdin/stdout instead, for clients that spawn the server as a subprocess.

Examples:
  # HTTP mode on the configured port
  s2t-mcp serve

  # Stdio mode (for MCP client configs)
  s2t-mcp serve --stdio

  # With a specific config file
  s2t-mcp --config /path/to/s2t-mcp.yaml serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode (debug logging)")
	serveCmd.Flags().BoolVar(&stdioMode, "stdio", false, "Serve over stdin/stdout instead of HTTP")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if devMode {
		cfg.DevMode = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Signal context for graceful shutdown. stop() restores default signal
	// handling so a second Ctrl+C does a hard kill.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()

	// Logger to stderr: stdout is reserved for the MCP stream in stdio mode.
	logLevel := parseLogLevel(cfg.Server.LogLevel)
	if cfg.DevMode {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if file := config.ConfigFileUsed(); file != "" {
		logger.Info("loaded config file", "path", file)
	}

	service.ServerVersion = Version

	client := accel.New(cfg.API.BaseURL, cfg.API.Key, accel.WithLogger(logger))
	registry := tools.New(client)
	dispatcher := dispatch.New(registry, logger)
	engineFactory := func() session.Handler {
		return service.NewEngine(dispatcher, logger)
	}

	logger.Info("catalog assembled", "tools", registry.Len(), "api_url", cfg.API.BaseURL)

	if stdioMode {
		transport := stdio.New(engineFactory(), logger)
		logger.Info("serving on stdio")
		return transport.Start(ctx)
	}

	transport := http.New(engineFactory,
		http.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		http.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		http.WithLogger(logger),
		http.WithVersion(Version),
	)
	if err := transport.Start(ctx); err != nil {
		// A missed shutdown deadline must surface as a non-zero exit.
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
