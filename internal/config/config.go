package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	boterrors "github.com/ducminhle1904/midpoint-reversal-bot/internal/errors"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/exchange"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/logger"
	"github.com/ducminhle1904/midpoint-reversal-bot/internal/notifications"
)

const DefaultEnvFile = ".env"

type Config struct {
	Environment string `yaml:"env"`
	LogLevel    string `yaml:"log_level"`
	LogPretty   bool   `yaml:"log_pretty"`

	// DryRun logs alerts instead of sending them; token and chat are optional
	DryRun bool `yaml:"-"`

	Binance struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"binance"`

	Telegram struct {
		Token   string `yaml:"token"`
		ChatID  string `yaml:"chat_id"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"telegram"`

	Monitoring struct {
		// Empty disables the HTTP server
		Addr string `yaml:"addr"`
	} `yaml:"monitoring"`
}

// Options selects the sources Load reads
type Options struct {
	EnvFile    string // dotenv file, DefaultEnvFile when empty; a missing file is ignored
	ConfigFile string // optional YAML file
	DryRun     bool
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	cfg := &Config{
		Environment: "production",
		LogLevel:    "info",
	}
	cfg.Binance.BaseURL = exchange.DefaultBinanceBaseURL
	cfg.Telegram.BaseURL = notifications.DefaultTelegramBaseURL
	cfg.Monitoring.Addr = ":8080"
	return cfg
}

// Load builds the configuration from defaults, then the YAML file, then the
// environment. Variables from the dotenv file never override ones already set.
func Load(opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	cfg := Default()
	if opts.ConfigFile != "" {
		raw, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return nil, boterrors.WrapError(err, boterrors.ErrorCategoryConfiguration, "config", "Load")
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, boterrors.WrapError(fmt.Errorf("%s: %w", opts.ConfigFile, err), boterrors.ErrorCategoryConfiguration, "config", "Load")
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.DryRun = opts.DryRun

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return boterrors.NewConfigurationError("config", "LoadEnvFile", fmt.Sprintf("environment file %s not found", path))
		}
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return boterrors.WrapError(err, boterrors.ErrorCategoryConfiguration, "config", "LoadEnvFile")
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Environment, "ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Binance.BaseURL, "BINANCE_BASE_URL")
	setString(&c.Telegram.Token, "BOT_TOKEN")
	setString(&c.Telegram.ChatID, "CHAT_ID")
	setString(&c.Telegram.BaseURL, "TELEGRAM_BASE_URL")

	// MONITOR_ADDR="" is meaningful, so presence matters here
	if v, ok := os.LookupEnv("MONITOR_ADDR"); ok {
		c.Monitoring.Addr = strings.TrimSpace(v)
	}

	if v := strings.TrimSpace(os.Getenv("LOG_PRETTY")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return boterrors.NewConfigurationError("config", "Load", fmt.Sprintf("LOG_PRETTY must be a boolean, got %q", v))
		}
		c.LogPretty = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks the configuration, returning a CONFIG error
func (c *Config) Validate() error {
	fail := func(format string, args ...interface{}) error {
		return boterrors.NewConfigurationError("config", "Validate", fmt.Sprintf(format, args...))
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fail("LOG_LEVEL: %v", err)
	}
	if c.Binance.BaseURL == "" {
		return fail("BINANCE_BASE_URL must not be empty")
	}
	if c.Telegram.BaseURL == "" {
		return fail("TELEGRAM_BASE_URL must not be empty")
	}

	if !c.DryRun {
		if c.Telegram.Token == "" {
			return fail("BOT_TOKEN is required")
		}
		if c.Telegram.ChatID == "" {
			return fail("CHAT_ID is required")
		}
	}
	if c.Telegram.ChatID != "" {
		if _, err := c.ChatID(); err != nil {
			return fail("CHAT_ID must be an integer, got %q", c.Telegram.ChatID)
		}
	}
	return nil
}

// ChatID returns the numeric Telegram chat ID
func (c *Config) ChatID() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Telegram.ChatID), 10, 64)
}

// HasTelegram reports whether alerts can be delivered to Telegram
func (c *Config) HasTelegram() bool {
	_, err := c.ChatID()
	return !c.DryRun && c.Telegram.Token != "" && err == nil
}
