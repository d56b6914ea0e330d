package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and environment
// variables. If configFile is empty, standard locations are searched for
// s2t-mcp.yaml/.yml. The search requires an explicit YAML extension so the
// binary itself (same base name, no extension) is never matched.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file in any standard location. Set name/type without
		// search paths so ReadInConfig returns ConfigFileNotFoundError,
		// which callers handle gracefully (env-only configuration).
		viper.SetConfigName("s2t-mcp")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("S2T")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindEnvKeys()
}

// findConfigFile searches standard locations for an s2t-mcp config file
// with an explicit YAML extension.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".s2t-mcp"),
		"/etc/s2t-mcp",
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "s2t-mcp"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindEnvKeys binds config keys to their short environment names.
// The documented variables are S2T_API_KEY, S2T_API_URL, S2T_PORT,
// S2T_ALLOWED_ORIGINS, and S2T_LOG_LEVEL; the nested forms
// (S2T_API_BASE_URL, S2T_SERVER_PORT, ...) also work via AutomaticEnv.
func bindEnvKeys() {
	_ = viper.BindEnv("api.key", "S2T_API_KEY")
	_ = viper.BindEnv("api.base_url", "S2T_API_URL", "S2T_API_BASE_URL")
	_ = viper.BindEnv("server.port", "S2T_PORT", "S2T_SERVER_PORT")
	_ = viper.BindEnv("server.allowed_origins", "S2T_ALLOWED_ORIGINS")
	_ = viper.BindEnv("server.log_level", "S2T_LOG_LEVEL")
	_ = viper.BindEnv("dev_mode", "S2T_DEV_MODE")
}

// LoadConfig reads the configuration file, applies environment overrides
// and defaults, and returns the Config. Callers apply CLI flag overrides,
// then call Validate to complete initialization.
func LoadConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars only.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// S2T_ALLOWED_ORIGINS is a comma-separated list when it comes from the
	// environment; Viper delivers it as a single string in that case.
	if len(cfg.Server.AllowedOrigins) == 1 && strings.Contains(cfg.Server.AllowedOrigins[0], ",") {
		cfg.Server.AllowedOrigins = splitOrigins(cfg.Server.AllowedOrigins[0])
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// splitOrigins splits a comma-separated origin list, trimming whitespace
// and dropping empty entries.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// ConfigFileUsed returns the path of the config file in use, if any.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
