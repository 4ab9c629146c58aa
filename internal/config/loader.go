package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	apperrors "github.com/dbmrq/techcat/internal/errors"
)

const (
	// DefaultConfigPath is the optional config file looked up in the working directory.
	DefaultConfigPath = "techcat.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "TECHCAT"
)

// Loader handles loading configuration from files and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader. Every key has a default
// registered so that TECHCAT_* variables reach Unmarshal even without a file.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, NewConfig())
	// GEMINI_API_KEY is honored without the prefix.
	_ = v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", apperrors.APIKeyEnv)

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	// The dataset path is defaulted after loading so that a configured URL
	// is not shadowed by it.
	v.SetDefault("data.path", "")
	v.SetDefault("data.url", cfg.Data.URL)
	v.SetDefault("gemini.model", cfg.Gemini.Model)
	v.SetDefault("gemini.base_url", cfg.Gemini.BaseURL)
	v.SetDefault("gemini.timeout", cfg.Gemini.Timeout)
	v.SetDefault("gemini.prompt_dir", cfg.Gemini.PromptDir)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.read_header_timeout", cfg.Server.ReadHeaderTimeout)
	v.SetDefault("server.idle_timeout", cfg.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.cors_origin", cfg.Server.CORSOrigin)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", string(cfg.Log.Format))
	v.SetDefault("log.dir", cfg.Log.Dir)
	v.SetDefault("log.console", cfg.Log.Console)
}

// LoadConfig loads configuration, merges environment variables, applies
// defaults and validates the result.
//
// An explicit path must exist. With an empty path, DefaultConfigPath is read
// when present and silently skipped otherwise.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, &LoadError{
				Path:    path,
				Message: "config file not found",
				Err:     err,
			}
		}
		path = ""
	}

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, &LoadError{
				Path:    path,
				Message: "failed to read config file",
				Err:     err,
			}
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{
			Path:    l.source(path),
			Message: "failed to parse configuration",
			Err:     err,
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    l.source(path),
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return cfg, nil
}

// Set overrides a single key, as command-line flags do.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

func (l *Loader) source(path string) string {
	if path == "" {
		return "environment"
	}
	return path
}

// viperDecodeHook composes the standard mapstructure hooks with ours.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToCustomTypeHookFunc(),
	)
}

// stringToCustomTypeHookFunc creates a decode hook for our custom types.
func stringToCustomTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		switch to {
		case reflect.TypeOf(LogFormat("")):
			return LogFormat(strings.ToLower(strings.TrimSpace(data.(string)))), nil
		}

		return data, nil
	}
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads configuration.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}
