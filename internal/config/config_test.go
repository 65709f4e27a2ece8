package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boterrors "github.com/ducminhle1904/midpoint-reversal-bot/internal/errors"
)

var configKeys = []string{
	"ENV", "LOG_LEVEL", "LOG_PRETTY", "BINANCE_BASE_URL", "BOT_TOKEN",
	"CHAT_ID", "TELEGRAM_BASE_URL", "MONITOR_ADDR",
}

// clearEnv unsets every config key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		if v, ok := os.LookupEnv(k); ok {
			t.Setenv(k, v) // restored on cleanup
			require.NoError(t, os.Unsetenv(k))
		}
	}
	t.Cleanup(func() {
		for _, k := range configKeys {
			os.Unsetenv(k)
		}
	})
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load(Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, "https://api.binance.com", cfg.Binance.BaseURL)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.BaseURL)
	assert.Equal(t, ":8080", cfg.Monitoring.Addr)
	assert.True(t, cfg.DryRun)
	assert.False(t, cfg.HasTelegram())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHAT_ID", "-1001234")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("MONITOR_ADDR", "")

	cfg, err := Load(Options{EnvFile: writeFile(t, ".env", "")})
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	id, err := cfg.ChatID()
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234), id)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Empty(t, cfg.Monitoring.Addr, "empty MONITOR_ADDR disables the server")
	assert.True(t, cfg.HasTelegram())
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "from-env")

	envFile := writeFile(t, ".env", "BOT_TOKEN=from-file\nCHAT_ID=42\n")
	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
}

func TestLoad_YAMLOverlayEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHAT_ID", "7")

	yamlFile := writeFile(t, "bot.yaml", `
env: staging
log_level: warn
telegram:
  token: yaml-token
  chat_id: "99"
binance:
  base_url: http://localhost:9000
monitoring:
  addr: "127.0.0.1:9100"
`)
	cfg, err := Load(Options{EnvFile: writeFile(t, ".env", ""), ConfigFile: yamlFile})
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "yaml-token", cfg.Telegram.Token)
	assert.Equal(t, "7", cfg.Telegram.ChatID)
	assert.Equal(t, "http://localhost:9000", cfg.Binance.BaseURL)
	assert.Equal(t, "127.0.0.1:9100", cfg.Monitoring.Addr)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.BaseURL, "untouched keys keep defaults")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		opts func(t *testing.T) Options
	}{
		{
			name: "missing token",
			env:  map[string]string{"CHAT_ID": "1"},
		},
		{
			name: "missing chat",
			env:  map[string]string{"BOT_TOKEN": "t"},
		},
		{
			name: "chat not integer",
			env:  map[string]string{"BOT_TOKEN": "t", "CHAT_ID": "@channel"},
		},
		{
			name: "bad log level",
			env:  map[string]string{"BOT_TOKEN": "t", "CHAT_ID": "1", "LOG_LEVEL": "loud"},
		},
		{
			name: "bad log pretty",
			env:  map[string]string{"BOT_TOKEN": "t", "CHAT_ID": "1", "LOG_PRETTY": "maybe"},
		},
		{
			name: "explicit env file missing",
			env:  map[string]string{"BOT_TOKEN": "t", "CHAT_ID": "1"},
			opts: func(t *testing.T) Options {
				return Options{EnvFile: filepath.Join(t.TempDir(), "nope.env")}
			},
		},
		{
			name: "config file missing",
			env:  map[string]string{"BOT_TOKEN": "t", "CHAT_ID": "1"},
			opts: func(t *testing.T) Options {
				return Options{EnvFile: writeFile(t, ".env", ""), ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}
			},
		},
		{
			name: "config file malformed",
			env:  map[string]string{"BOT_TOKEN": "t", "CHAT_ID": "1"},
			opts: func(t *testing.T) Options {
				return Options{EnvFile: writeFile(t, ".env", ""), ConfigFile: writeFile(t, "bad.yaml", "telegram: [")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := Options{EnvFile: writeFile(t, ".env", "")}
			if tt.opts != nil {
				opts = tt.opts(t)
			}

			_, err := Load(opts)
			require.Error(t, err)

			var botErr *boterrors.BotError
			require.ErrorAs(t, err, &botErr)
			assert.Equal(t, boterrors.ErrorCategoryConfiguration, botErr.Category)
			assert.True(t, botErr.IsFatal())
		})
	}
}

func TestValidate_DryRunChecksChatFormat(t *testing.T) {
	cfg := Default()
	cfg.DryRun = true
	assert.NoError(t, cfg.Validate())

	cfg.Telegram.ChatID = "abc"
	assert.Error(t, cfg.Validate())
}
