package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaultsToLongpoll(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: " Polling "}}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing token", Config{}},
		{"unknown run mode", Config{Telegram: TelegramConfig{Token: "t", RunMode: "push"}}},
		{"webhook without url", Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}, Webhook: WebhookConfig{Port: 8443}}},
		{"webhook without port", Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}, Webhook: WebhookConfig{URL: "https://x"}}},
		{"negative poll timeout", Config{Telegram: TelegramConfig{Token: "t", LongPollTimeoutSeconds: -1}}},
		{"bad exclusion", Config{Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.Error(t, Normalize(&cfg))
		})
	}
}

func TestNormalizeExclusions(t *testing.T) {
	cfg := &Config{
		Telegram:  TelegramConfig{Token: "t"},
		RateLimit: RateLimitConfig{ExcludeUpdates: []string{" Callback", "", "MESSAGE"}},
	}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, []string{UpdateCallback, UpdateMessage}, cfg.RateLimit.ExcludeUpdates)
}

func TestLoadIntoEnvOverridesYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telegram:\n  token: from-yaml\n  run_mode: webhook\n"), 0o644))
	t.Setenv("BOT_TOKEN", "from-env")

	var cfg Config
	require.NoError(t, LoadInto(path, &cfg))
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, "webhook", cfg.Telegram.RunMode)
}

func TestLoadIntoMissingRequiredEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TOKEN", "")
	os.Unsetenv("BOT_TOKEN")

	var cfg Config
	err := LoadInto("", &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoadIntoMissingFile(t *testing.T) {
	var cfg Config
	err := LoadInto(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
