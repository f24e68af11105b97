package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/finbot/core/config"
)

const sampleYAML = `
telegram:
  run_mode: polling
  admin_id: 42
logging:
  level: debug
database:
  host: db
  user: bot
  name: finance
rates:
  timeout_seconds: 3
texts:
  menu:
    rates: "Rates"
  tips:
    - "Spend less"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// unsetenv removes key for the rest of the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("EXCHANGE_API_KEY", "key")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.AdminID)
	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, "debug", cfg.Logging.Level)

	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "secret", cfg.Database.Password)

	assert.Equal(t, "key", cfg.Rates.APIKey)
	assert.Equal(t, defaultRatesURL, cfg.Rates.BaseURL)
	assert.Equal(t, 3.0, cfg.Rates.Timeout().Seconds())

	assert.Equal(t, "Rates", cfg.Texts.Menu.Rates)
	assert.Equal(t, "🔙 Назад", cfg.Texts.Back)
	assert.Equal(t, []string{"Spend less"}, cfg.Texts.Tips)
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, sampleYAML)

	t.Setenv("BOT_TOKEN", "123:abc")
	unsetenv(t, "EXCHANGE_API_KEY")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXCHANGE_API_KEY")

	t.Setenv("EXCHANGE_API_KEY", "key")
	unsetenv(t, "BOT_TOKEN")
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoadWithoutFileUsesEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("EXCHANGE_API_KEY", "key")
	t.Setenv("DB_NAME", "finance")
	t.Setenv("EXCHANGE_API_URL", "http://rates.local/v6/")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://rates.local/v6", cfg.Rates.BaseURL)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 10.0, cfg.Rates.Timeout().Seconds())
}

func TestLoadRejectsDuplicateLabels(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("EXCHANGE_API_KEY", "key")

	_, err := Load(writeConfig(t, "database:\n  name: f\ntexts:\n  back: \"💱 Курс валют\"\n"))
	assert.Error(t, err)
}
