// Package config loads relay settings from an optional YAML file, RELAY_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved settings.
type Config struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	Temperature  *float64      `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Timeout      time.Duration `mapstructure:"timeout"`
	CycleTimeout time.Duration `mapstructure:"cycle_timeout"`
	StreamUsage  bool          `mapstructure:"stream_usage"`
	RateLimit    int           `mapstructure:"rate_limit"`
	Speech       Speech        `mapstructure:"speech"`
	Logging      Logging       `mapstructure:"logging"`
	Metrics      Metrics       `mapstructure:"metrics"`
}

// Speech configures the text-to-speech completion hook.
type Speech struct {
	Enabled bool   `mapstructure:"enabled"`
	Command string `mapstructure:"command"`
}

// Metrics configures the Prometheus endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string `mapstructure:"addr"`
}

// Logging configures the zap logger built by NewLogger.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// keys without a default still need an env binding so that Unmarshal sees
// them.
var boundKeys = []string{
	"temperature",
	"speech.command",
	"logging.file",
	"metrics.addr",
}

// Load reads configuration from configPath, or from relay.yaml in the
// working directory or the user config directory when configPath is empty.
// A missing file is not an error.
//
// Environment variables use the RELAY_ prefix with dots replaced by
// underscores: RELAY_SPEECH_ENABLED=true. The API key also falls back to
// OPENAI_API_KEY.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("base_url", "https://api.openai.com/v1")
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("max_tokens", 0)
	v.SetDefault("system_prompt", "You are a helpful assistant.")
	v.SetDefault("timeout", "30s")
	v.SetDefault("cycle_timeout", "0s")
	v.SetDefault("stream_usage", false)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("speech.enabled", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("relay")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/relay")
	}

	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", "RELAY_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding api_key: %w", err)
	}
	for _, key := range boundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}

// Decode unmarshals v into a Config and validates it.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("config: api_key is required (set RELAY_API_KEY or OPENAI_API_KEY)")
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("config: model is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: base_url %q must be an absolute http(s) URL", c.BaseURL)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("config: temperature %v must be between 0 and 2", *c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config: max_tokens %d must not be negative", c.MaxTokens)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: rate_limit %d must not be negative", c.RateLimit)
	}
	if c.Timeout < 0 || c.CycleTimeout < 0 {
		return errors.New("config: timeouts must not be negative")
	}
	if c.Speech.Enabled && strings.TrimSpace(c.Speech.Command) == "" {
		return errors.New("config: speech.command is required when speech is enabled")
	}
	return nil
}
