package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/dbmrq/techcat/internal/errors"
	"github.com/dbmrq/techcat/internal/logging"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.Data.Path != DefaultDataPath {
		t.Errorf("expected data.path %q, got %q", DefaultDataPath, cfg.Data.Path)
	}
	if cfg.Gemini.Model != DefaultModel {
		t.Errorf("expected gemini.model %q, got %q", DefaultModel, cfg.Gemini.Model)
	}
	if cfg.Gemini.Timeout != 0 {
		t.Errorf("expected no comparison timeout by default, got %v", cfg.Gemini.Timeout)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("expected server.addr %q, got %q", DefaultAddr, cfg.Server.Addr)
	}
	if cfg.Server.CORSOrigin != "*" {
		t.Errorf("expected permissive CORS by default, got %q", cfg.Server.CORSOrigin)
	}
	if cfg.Log.Format != LogFormatText {
		t.Errorf("expected log.format %q, got %q", LogFormatText, cfg.Log.Format)
	}
	if !cfg.Log.Console {
		t.Error("expected console logging by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Data.Path != DefaultDataPath {
		t.Errorf("expected data.path %q, got %q", DefaultDataPath, cfg.Data.Path)
	}
	if cfg.Gemini.Model != DefaultModel {
		t.Errorf("expected gemini.model %q, got %q", DefaultModel, cfg.Gemini.Model)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("expected shutdown timeout %v, got %v", DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("expected log.level %q, got %q", DefaultLogLevel, cfg.Log.Level)
	}
}

func TestConfig_ApplyDefaults_PreservesValues(t *testing.T) {
	cfg := &Config{
		Data:   DataConfig{Path: "langs.json"},
		Gemini: GeminiConfig{Model: "gemini-2.0-pro"},
		Server: ServerConfig{Addr: ":8080", IdleTimeout: time.Second},
		Log:    LogConfig{Level: "debug", Format: LogFormatJSON},
	}
	cfg.ApplyDefaults()

	if cfg.Data.Path != "langs.json" {
		t.Errorf("data.path overwritten: %q", cfg.Data.Path)
	}
	if cfg.Gemini.Model != "gemini-2.0-pro" {
		t.Errorf("gemini.model overwritten: %q", cfg.Gemini.Model)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.IdleTimeout != time.Second {
		t.Errorf("server settings overwritten: %+v", cfg.Server)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != LogFormatJSON {
		t.Errorf("log settings overwritten: %+v", cfg.Log)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "no data source",
			modify:    func(c *Config) { c.Data.Path = "" },
			wantField: "data.path",
		},
		{
			name:      "data url without scheme",
			modify:    func(c *Config) { c.Data.URL = "example.com/data.json" },
			wantField: "data.url",
		},
		{
			name:      "ftp base url",
			modify:    func(c *Config) { c.Gemini.BaseURL = "ftp://example.com" },
			wantField: "gemini.base_url",
		},
		{
			name:      "negative gemini timeout",
			modify:    func(c *Config) { c.Gemini.Timeout = -time.Second },
			wantField: "gemini.timeout",
		},
		{
			name:      "negative idle timeout",
			modify:    func(c *Config) { c.Server.IdleTimeout = -time.Second },
			wantField: "server.idle_timeout",
		},
		{
			name:      "unknown log level",
			modify:    func(c *Config) { c.Log.Level = "chatty" },
			wantField: "log.level",
		},
		{
			name:      "unknown log format",
			modify:    func(c *Config) { c.Log.Format = "xml" },
			wantField: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			found := false
			for _, v := range verrs {
				if v.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %q, got %v", tt.wantField, err)
			}
			if !errors.Is(err, apperrors.ErrConfig) {
				t.Error("validation errors should match ErrConfig")
			}
		})
	}
}

func TestConfig_Validate_DataURL(t *testing.T) {
	cfg := NewConfig()
	cfg.Data.Path = ""
	cfg.Data.URL = "https://example.com/data.json"

	if err := cfg.Validate(); err != nil {
		t.Errorf("https data url should be valid: %v", err)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	single := ValidationErrors{{Field: "log.level", Message: "bad"}}
	if single.Error() != "log.level: bad" {
		t.Errorf("unexpected single message %q", single.Error())
	}

	multi := ValidationErrors{
		{Field: "log.level", Message: "bad"},
		{Field: "log.format", Message: "worse"},
	}
	msg := multi.Error()
	if !strings.HasPrefix(msg, "multiple validation errors:") || !strings.Contains(msg, "log.format: worse") {
		t.Errorf("unexpected multi message %q", msg)
	}
}

func TestValidationError_AppError(t *testing.T) {
	v := &ValidationError{Field: "log.format", Message: "must be 'text' or 'json'", Options: []string{"text", "json"}}
	appErr := v.AppError()

	if appErr.Details["field"] != "log.format" {
		t.Errorf("expected field detail, got %v", appErr.Details)
	}
	if !strings.Contains(appErr.Suggestion, "text, json") {
		t.Errorf("suggestion should list options, got %q", appErr.Suggestion)
	}
}

func TestConfig_RequireAPIKey(t *testing.T) {
	cfg := NewConfig()
	err := cfg.RequireAPIKey()
	if err == nil {
		t.Fatal("expected error without API key")
	}
	if !errors.Is(err, apperrors.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}

	cfg.Gemini.APIKey = "key"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("unexpected error with API key: %v", err)
	}
}

func TestConfig_LoggingConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Log = LogConfig{Level: "warn", Format: LogFormatJSON, Dir: "/tmp/techcat-logs", Console: false}

	lc := cfg.LoggingConfig()
	if lc.Level != logging.LevelWarn {
		t.Errorf("expected WARN, got %v", lc.Level)
	}
	if !lc.JSONFormat {
		t.Error("expected JSON format")
	}
	if lc.LogDir != "/tmp/techcat-logs" {
		t.Errorf("expected log dir, got %q", lc.LogDir)
	}
	if lc.Console {
		t.Error("expected console disabled")
	}
}
