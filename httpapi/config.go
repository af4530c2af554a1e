package httpapi

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-relay/core"
)

const (
	defaultBodyLimit   = "2M"
	defaultSessionName = "relay_oauth"
)

// Config holds the inbound surface settings. SigningKey may be empty only in
// development mode, where signature checks are skipped.
type Config struct {
	SigningKey     string   `mapstructure:"signing_key"`
	Development    bool     `mapstructure:"development"`
	FrontendURL    string   `mapstructure:"frontend_url"`
	PublicURL      string   `mapstructure:"public_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	SessionSecret  string   `mapstructure:"session_secret"`
	SessionName    string   `mapstructure:"session_name"`
	BodyLimit      string   `mapstructure:"body_limit"`
}

func (c Config) Validate() error {
	fields := make([]goerrors.FieldError, 0)
	if !c.Development && strings.TrimSpace(c.SigningKey) == "" {
		fields = append(fields, goerrors.FieldError{Field: "signing_key", Message: "is required outside development"})
	}
	if strings.TrimSpace(c.SessionSecret) == "" {
		fields = append(fields, goerrors.FieldError{Field: "session_secret", Message: "is required"})
	}
	if len(fields) == 0 {
		return nil
	}
	return goerrors.NewValidation("httpapi: invalid config", fields...).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.ErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.SessionName) == "" {
		c.SessionName = defaultSessionName
	}
	if strings.TrimSpace(c.BodyLimit) == "" {
		c.BodyLimit = defaultBodyLimit
	}
	c.FrontendURL = strings.TrimRight(strings.TrimSpace(c.FrontendURL), "/")
	c.PublicURL = strings.TrimRight(strings.TrimSpace(c.PublicURL), "/")
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.AllowedOrigins = origins
	return c
}
