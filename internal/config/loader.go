package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every automatically bound environment variable
const EnvPrefix = "EXTRACTOR"

// Loader handles loading configuration from multiple sources
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// well-known names that predate the prefix
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY", EnvPrefix+"_GEMINI_API_KEY")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", EnvPrefix+"_LOGGING_FORMAT", "LOG_FORMAT")
	_ = v.BindEnv("logging.output", EnvPrefix+"_LOGGING_OUTPUT", "LOG_OUTPUT")

	return &Loader{v: v}
}

// Viper exposes the underlying instance so commands can bind flags
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration in priority order:
// 1. Flags bound by the caller
// 2. Environment variables (including a .env file)
// 3. Configuration file (optional)
// 4. Default values
func (l *Loader) Load(configFile string) (*Config, error) {
	if _, err := LoadEnvFromMultiplePaths(); err != nil {
		return nil, err
	}

	if configFile != "" {
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("./config")
		l.v.AddConfigPath("/etc/worklist-extractor")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Gemini.BaseURL = strings.TrimRight(cfg.Gemini.BaseURL, "/")

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Load is a shortcut for NewLoader().Load
func Load(configFile string) (*Config, error) {
	return NewLoader().Load(configFile)
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)

	v.SetDefault("gemini.base_url", d.Gemini.BaseURL)
	v.SetDefault("gemini.model", d.Gemini.Model)
	v.SetDefault("gemini.timeout", d.Gemini.Timeout)
	v.SetDefault("gemini.user_agent", "")

	v.SetDefault("extraction.strict_errors", false)
	v.SetDefault("extraction.redact_upstream_errors", false)
	v.SetDefault("extraction.validate_records", false)
	v.SetDefault("extraction.max_body_bytes", 0)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
