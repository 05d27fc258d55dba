package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aaronzipp/escape-the-upside-down/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // config key, e.g. "server.read_timeout"
	Value   any
	Message string
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Validate checks every field and returns all problems found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Server.Addr == "" {
		errs = append(errs, ValidationError{"server.addr", c.Server.Addr, "must not be empty"})
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, ValidationError{"server.read_timeout", c.Server.ReadTimeout, "must not be negative"})
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, ValidationError{"server.write_timeout", c.Server.WriteTimeout, "must not be negative"})
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, ValidationError{"server.shutdown_timeout", c.Server.ShutdownTimeout, "must be positive"})
	}
	if u, err := url.Parse(c.Server.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{"server.public_url", c.Server.PublicURL, "must be an absolute URL"})
	}

	for _, origin := range c.CORS.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			errs = append(errs, ValidationError{"cors.allowed_origins", c.CORS.AllowedOrigins, "must not contain empty origins"})
			break
		}
	}

	if !logging.IsValidLevel(c.Log.Level) {
		errs = append(errs, ValidationError{"log.level", c.Log.Level, "must be one of DEBUG, INFO, WARN, ERROR"})
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, ValidationError{"log.format", c.Log.Format, "must be text or json"})
	}

	return errs
}
