// Package config provides configuration types and loading for the s2t-mcp server.
//
// Configuration comes from three layers, later layers overriding earlier ones:
//
//  1. s2t-mcp.yaml found in ., $HOME/.s2t-mcp/, or /etc/s2t-mcp/
//  2. Environment variables with the S2T_ prefix (S2T_API_KEY, S2T_API_URL,
//     S2T_PORT, S2T_ALLOWED_ORIGINS, S2T_LOG_LEVEL)
//  3. CLI flags
//
// The API key is the only required value: the server refuses to start
// without it.
package config

// Config is the top-level configuration for the s2t-mcp server.
type Config struct {
	// API configures the connection to the remote accelerator service.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// Server configures the HTTP listener and transport behavior.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// DevMode enables development features (debug logging).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// APIConfig configures the outbound accelerator API client.
type APIConfig struct {
	// Key is the accelerator API key, attached to every outbound call.
	// Required; the process exits at startup if missing.
	Key string `yaml:"key" mapstructure:"key" validate:"required"`

	// BaseURL is the accelerator API base URL.
	// Defaults to the hosted service if empty.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
}

// DefaultBaseURL is the hosted accelerator API endpoint.
const DefaultBaseURL = "https://api.s2t.dev/v1"

// DefaultPort is the HTTP listen port when none is configured.
const DefaultPort = 3001

// ServerConfig configures the inbound HTTP server.
type ServerConfig struct {
	// Port is the TCP port to listen on. Defaults to 3001.
	Port int `yaml:"port" mapstructure:"port" validate:"omitempty,min=1,max=65535"`

	// AllowedOrigins is the Origin allow-list for browser clients.
	// Entries are exact origins or wildcard subdomains ("*.example.com").
	// Empty means unrestricted (local/dev posture).
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error". Defaults to "info".
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
}

// SetDefaults fills zero-valued fields with their documented defaults.
func (c *Config) SetDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
}
