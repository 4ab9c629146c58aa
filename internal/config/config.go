// Package config provides configuration data structures for techcat.
package config

import (
	"fmt"
	"net/url"
	"time"

	apperrors "github.com/dbmrq/techcat/internal/errors"
	"github.com/dbmrq/techcat/internal/logging"
)

// Config represents the complete techcat configuration, assembled from
// defaults, an optional techcat.yaml and TECHCAT_* environment variables.
type Config struct {
	Data   DataConfig   `mapstructure:"data"   yaml:"data"   json:"data"`
	Gemini GeminiConfig `mapstructure:"gemini" yaml:"gemini" json:"gemini"`
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
	Log    LogConfig    `mapstructure:"log"    yaml:"log"    json:"log"`
}

// DataConfig locates the technology dataset.
type DataConfig struct {
	// Path is the dataset file (default: data.json). Ignored when URL is set.
	Path string `mapstructure:"path" yaml:"path" json:"path"`
	// URL fetches the dataset over HTTP(S) instead of reading Path.
	URL string `mapstructure:"url" yaml:"url" json:"url"`
}

// GeminiConfig configures the comparison backend.
type GeminiConfig struct {
	// APIKey is read from GEMINI_API_KEY when not set explicitly.
	APIKey string `mapstructure:"api_key" yaml:"api_key" json:"-"`
	// Model is the generative model name (default: gemini-2.5-flash).
	Model string `mapstructure:"model" yaml:"model" json:"model"`
	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	// Timeout bounds one comparison request. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	// PromptDir holds optional web_*.txt and cli_*.txt prompt overrides.
	PromptDir string `mapstructure:"prompt_dir" yaml:"prompt_dir" json:"prompt_dir"`
}

// ServerConfig configures the HTTP server started by "techcat serve".
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr" json:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout" json:"read_header_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS headers.
	CORSOrigin string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
}

// LogFormat selects the slog handler.
type LogFormat string

const (
	// LogFormatText uses slog's key=value handler.
	LogFormatText LogFormat = "text"
	// LogFormatJSON uses slog's JSON handler.
	LogFormatJSON LogFormat = "json"
)

// LogConfig configures logging.
type LogConfig struct {
	Level  string    `mapstructure:"level" yaml:"level" json:"level"`
	Format LogFormat `mapstructure:"format" yaml:"format" json:"format"`
	// Dir enables a log file in this directory.
	Dir     string `mapstructure:"dir" yaml:"dir" json:"dir"`
	Console bool   `mapstructure:"console" yaml:"console" json:"console"`
}

// Default values.
const (
	DefaultDataPath          = "data.json"
	DefaultModel             = "gemini-2.5-flash"
	DefaultAddr              = ":3000"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultCORSOrigin        = "*"
	DefaultLogLevel          = "info"
)

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path: DefaultDataPath,
		},
		Gemini: GeminiConfig{
			Model: DefaultModel,
		},
		Server: ServerConfig{
			Addr:              DefaultAddr,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			IdleTimeout:       DefaultIdleTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
			CORSOrigin:        DefaultCORSOrigin,
		},
		Log: LogConfig{
			Level:   DefaultLogLevel,
			Format:  LogFormatText,
			Console: true,
		},
	}
}

// ApplyDefaults applies default values to any unset fields.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.Data.Path == "" && c.Data.URL == "" {
		c.Data.Path = defaults.Data.Path
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaults.Gemini.Model
	}

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = defaults.Server.ReadHeaderTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = defaults.Server.IdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	// CORSOrigin may be cleared on purpose, so it is only defaulted by NewConfig.

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
}

// RequireAPIKey reports the fatal startup error when no Gemini key is configured.
func (c *Config) RequireAPIKey() error {
	if c.Gemini.APIKey == "" {
		return apperrors.MissingAPIKey()
	}
	return nil
}

// LoggingConfig converts the log section into a logging.Config.
func (c *Config) LoggingConfig() *logging.Config {
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		lc.Level = level
	}
	lc.LogDir = c.Log.Dir
	lc.Console = c.Log.Console
	lc.JSONFormat = c.Log.Format == LogFormatJSON
	return lc
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
	Options []string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// AppError converts the validation error into a user-facing error with a suggestion.
func (e *ValidationError) AppError() *apperrors.Error {
	return apperrors.ConfigValidationError(e.Field, e.Message, e.Options)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Unwrap exposes each entry as an *errors.Error so errors.Is matches ErrConfig.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, v := range e {
		errs[i] = v.AppError()
	}
	return errs
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Data.Path == "" && c.Data.URL == "" {
		errs = append(errs, &ValidationError{Field: "data.path", Message: "either data.path or data.url must be set"})
	}
	if c.Data.URL != "" {
		if err := validateHTTPURL(c.Data.URL); err != nil {
			errs = append(errs, &ValidationError{Field: "data.url", Message: err.Error()})
		}
	}

	if c.Gemini.BaseURL != "" {
		if err := validateHTTPURL(c.Gemini.BaseURL); err != nil {
			errs = append(errs, &ValidationError{Field: "gemini.base_url", Message: err.Error()})
		}
	}
	if c.Gemini.Timeout < 0 {
		errs = append(errs, &ValidationError{Field: "gemini.timeout", Message: "must be non-negative"})
	}

	for _, d := range []struct {
		field string
		value time.Duration
	}{
		{"server.read_header_timeout", c.Server.ReadHeaderTimeout},
		{"server.idle_timeout", c.Server.IdleTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
	} {
		if d.value < 0 {
			errs = append(errs, &ValidationError{Field: d.field, Message: "must be non-negative"})
		}
	}

	if c.Log.Level != "" {
		if _, err := logging.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, &ValidationError{
				Field:   "log.level",
				Message: "must be 'debug', 'info', 'warn', or 'error'",
				Options: []string{"debug", "info", "warn", "error"},
			})
		}
	}
	if c.Log.Format != "" {
		switch c.Log.Format {
		case LogFormatText, LogFormatJSON:
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "log.format",
				Message: "must be 'text' or 'json'",
				Options: []string{string(LogFormatText), string(LogFormatJSON)},
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL")
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}
