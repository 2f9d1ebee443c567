package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/relay/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RELAY_API_KEY", "OPENAI_API_KEY", "RELAY_MODEL", "RELAY_BASE_URL",
		"RELAY_TEMPERATURE", "RELAY_SPEECH_ENABLED", "RELAY_SPEECH_COMMAND",
		"RELAY_RATE_LIMIT", "RELAY_METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RELAY_API_KEY", "sk-test")
	path := writeConfig(t, "")

	v, err := config.Load(path)
	require.NoError(t, err)
	cfg, err := config.Decode(v)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Nil(t, cfg.Temperature)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Zero(t, cfg.CycleTimeout)
	assert.False(t, cfg.Speech.Enabled)
	assert.Zero(t, cfg.RateLimit)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api_key: sk-file
model: gpt-4o
temperature: 0.5
max_tokens: 256
system_prompt: Be brief.
cycle_timeout: 2m
rate_limit: 20
metrics:
  addr: 127.0.0.1:9464
speech:
  enabled: true
  command: espeak --stdin
logging:
  level: debug
  format: console
`)

	v, err := config.Load(path)
	require.NoError(t, err)
	cfg, err := config.Decode(v)
	require.NoError(t, err)

	assert.Equal(t, "sk-file", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.5, *cfg.Temperature, 1e-9)
	assert.Equal(t, 256, cfg.MaxTokens)
	assert.Equal(t, "Be brief.", cfg.SystemPrompt)
	assert.Equal(t, 2*time.Minute, cfg.CycleTimeout)
	assert.Equal(t, 20, cfg.RateLimit)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
	assert.True(t, cfg.Speech.Enabled)
	assert.Equal(t, "espeak --stdin", cfg.Speech.Command)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("RELAY_MODEL", "gpt-4.1")
	t.Setenv("RELAY_TEMPERATURE", "1.5")
	t.Setenv("RELAY_SPEECH_COMMAND", "say")
	path := writeConfig(t, "api_key: sk-file\nmodel: gpt-4o\n")

	v, err := config.Load(path)
	require.NoError(t, err)
	cfg, err := config.Decode(v)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", cfg.Model)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 1.5, *cfg.Temperature, 1e-9)
	assert.Equal(t, "say", cfg.Speech.Command)
}

func TestLoad_APIKeyFallsBackToOpenAIVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	v, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", v.GetString("api_key"))

	t.Setenv("RELAY_API_KEY", "sk-relay")
	v, err = config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "sk-relay", v.GetString("api_key"))
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(writeConfig(t, "model: [unterminated\n"))
	assert.Error(t, err)
}

func TestDecode_RejectsInvalidConfig(t *testing.T) {
	clearEnv(t)
	_, err := config.Decode(mustLoad(t, "model: gpt-4o\n"))
	assert.ErrorContains(t, err, "api_key")
}

func mustLoad(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v, err := config.Load(writeConfig(t, content))
	require.NoError(t, err)
	return v
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	valid := func() config.Config {
		return config.Config{
			APIKey:  "sk-test",
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		}
	}
	temp := func(f float64) *float64 { return &f }

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "local server", mutate: func(c *config.Config) { c.BaseURL = "http://localhost:11434/v1" }},
		{name: "missing api key", mutate: func(c *config.Config) { c.APIKey = " " }, wantErr: "api_key"},
		{name: "missing model", mutate: func(c *config.Config) { c.Model = "" }, wantErr: "model"},
		{name: "relative base url", mutate: func(c *config.Config) { c.BaseURL = "/v1" }, wantErr: "base_url"},
		{name: "unsupported scheme", mutate: func(c *config.Config) { c.BaseURL = "ftp://example.com" }, wantErr: "base_url"},
		{name: "temperature too high", mutate: func(c *config.Config) { c.Temperature = temp(2.5) }, wantErr: "temperature"},
		{name: "temperature at bound", mutate: func(c *config.Config) { c.Temperature = temp(2) }},
		{name: "negative max tokens", mutate: func(c *config.Config) { c.MaxTokens = -1 }, wantErr: "max_tokens"},
		{name: "negative rate limit", mutate: func(c *config.Config) { c.RateLimit = -1 }, wantErr: "rate_limit"},
		{name: "negative timeout", mutate: func(c *config.Config) { c.CycleTimeout = -time.Second }, wantErr: "timeouts"},
		{name: "speech without command", mutate: func(c *config.Config) { c.Speech.Enabled = true }, wantErr: "speech.command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
