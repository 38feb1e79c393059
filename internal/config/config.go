// Package config provides configuration management for the catalyst analyzer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Analyzer      AnalyzerConfig     `mapstructure:"analyzer"`
	MarketData    MarketDataConfig   `mapstructure:"market_data"`
	UI            UIConfig           `mapstructure:"ui"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Credentials   Credentials        `mapstructure:"-"` // Loaded separately

	// Dir is the directory the configuration was loaded from. All state,
	// including the catalyst database, lives under it.
	Dir string `mapstructure:"-"`
}

// AnalyzerConfig holds scoring rule thresholds.
type AnalyzerConfig struct {
	// UnderpoweredMinEnrollment applies to Phase 1 records only.
	UnderpoweredMinEnrollment int `mapstructure:"underpowered_min_enrollment"`
	// DilutionRunwayMonths is the cash runway floor for the dilution flag.
	DilutionRunwayMonths float64 `mapstructure:"dilution_runway_months"`
	// ScanLimit caps how many upcoming catalysts a scan displays.
	ScanLimit int `mapstructure:"scan_limit"`
}

// MarketDataConfig holds market data provider configuration.
type MarketDataConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/biotrial"
	}
	return filepath.Join(home, ".config", "biotrial")
}

// DefaultDBPath returns the default catalyst database path.
func DefaultDBPath() string {
	return filepath.Join(DefaultConfigDir(), "biotrial.db")
}

// DBPath returns the catalyst database path under the loaded config
// directory, so an alternate --config directory relocates the database too.
func (c *Config) DBPath() string {
	if c.Dir == "" {
		return DefaultDBPath()
	}
	return filepath.Join(c.Dir, "biotrial.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{Dir: configDir}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("analyzer.underpowered_min_enrollment", 20)
	v.SetDefault("analyzer.dilution_runway_months", 4.0)
	v.SetDefault("analyzer.scan_limit", 10)
	v.SetDefault("market_data.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market_data.timeout", "10s")
	v.SetDefault("market_data.cache_ttl", "1h")
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: write a template, then continue with defaults.
			if werr := createTemplateConfig(configDir); werr != nil {
				return werr
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("openai.model", "gpt-4o-mini")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := createTemplateCredentials(configDir); werr != nil {
				return werr
			}
			return v.Unmarshal(creds)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("BIOTRIAL_WEBHOOK_URL"); v != "" {
		cfg.Notifications.Webhook.URL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notifications.Telegram.BotToken = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analyzer.UnderpoweredMinEnrollment < 0 {
		return fmt.Errorf("underpowered_min_enrollment must be non-negative")
	}
	if c.Analyzer.DilutionRunwayMonths < 0 {
		return fmt.Errorf("dilution_runway_months must be non-negative")
	}
	if c.Analyzer.ScanLimit <= 0 {
		return fmt.Errorf("scan_limit must be positive")
	}
	if c.MarketData.BaseURL == "" {
		return fmt.Errorf("market_data.base_url must be set")
	}
	if c.MarketData.Timeout <= 0 {
		return fmt.Errorf("market_data.timeout must be positive")
	}
	if c.Notifications.Telegram.Enabled && c.Notifications.Telegram.BotToken == "" {
		return fmt.Errorf("telegram notifications enabled without bot_token")
	}
	if c.Notifications.Webhook.Enabled && c.Notifications.Webhook.URL == "" {
		return fmt.Errorf("webhook notifications enabled without url")
	}
	return nil
}
