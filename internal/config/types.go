package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Gemini     GeminiConfig     `json:"gemini" yaml:"gemini" mapstructure:"gemini"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host         string        `json:"host" yaml:"host" mapstructure:"host" validate:"required"`
	Port         int           `json:"port" yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0s"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0s"`
	IdleTimeout  time.Duration `json:"idle_timeout" yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0s"`
}

// GeminiConfig holds the model-service configuration. APIKey is deliberately
// not validated: a missing key is reported per request.
type GeminiConfig struct {
	APIKey    string        `json:"-" yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string        `json:"base_url" yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Model     string        `json:"model" yaml:"model" mapstructure:"model" validate:"required,excludesall=/?#"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0s"`
	UserAgent string        `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ExtractionConfig controls the error surface of the extract endpoint
type ExtractionConfig struct {
	StrictErrors         bool  `json:"strict_errors" yaml:"strict_errors" mapstructure:"strict_errors"`
	RedactUpstreamErrors bool  `json:"redact_upstream_errors" yaml:"redact_upstream_errors" mapstructure:"redact_upstream_errors"`
	ValidateRecords      bool  `json:"validate_records" yaml:"validate_records" mapstructure:"validate_records"`
	MaxBodyBytes         int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gte=0"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"omitempty,oneof=json text"`
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// Defaults
const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.5-flash-preview-05-20"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8082,
			ReadTimeout: 30 * time.Second,
			// no write timeout: the upstream call decides how long a request takes
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		Gemini: GeminiConfig{
			BaseURL: DefaultGeminiBaseURL,
			Model:   DefaultGeminiModel,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// APIKeyConfigured reports whether a model-service credential is present
func (c *Config) APIKeyConfigured() bool {
	return c.Gemini.APIKey != ""
}

// Address returns the host:port the HTTP server binds to
func (c *Config) Address() string {
	return joinHostPort(c.Server.Host, c.Server.Port)
}
