package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate validates the Config using struct tags plus cross-field rules.
// Returns an error with actionable messages if validation fails.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	return c.validateOrigins()
}

// validateOrigins rejects malformed allow-list entries. A valid entry is an
// exact origin (scheme://host[:port]) or a wildcard subdomain pattern
// ("*.example.com").
func (c *Config) validateOrigins() error {
	for _, origin := range c.Server.AllowedOrigins {
		if origin == "" {
			return errors.New("server.allowed_origins: empty entry")
		}
		if strings.HasPrefix(origin, "*.") {
			if len(origin) <= 2 || strings.Contains(origin[2:], "*") {
				return fmt.Errorf("server.allowed_origins: invalid wildcard pattern %q", origin)
			}
			continue
		}
		if strings.Contains(origin, "*") {
			return fmt.Errorf("server.allowed_origins: wildcard only allowed as leading *. in %q", origin)
		}
	}
	return nil
}

// formatValidationErrors converts validator errors into actionable messages.
func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch {
		case fe.Namespace() == "Config.API.Key":
			msgs = append(msgs, "api.key: S2T_API_KEY environment variable is required")
		case fe.Tag() == "url":
			msgs = append(msgs, fmt.Sprintf("%s: must be a valid URL", configPath(fe)))
		case fe.Tag() == "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s]", configPath(fe), fe.Param()))
		case fe.Tag() == "min" || fe.Tag() == "max":
			msgs = append(msgs, fmt.Sprintf("%s: out of range (%s=%s)", configPath(fe), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", configPath(fe), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// configPath renders a field namespace like Config.Server.Port as server.port.
func configPath(fe validator.FieldError) string {
	path := strings.TrimPrefix(fe.Namespace(), "Config.")
	return strings.ToLower(path)
}
