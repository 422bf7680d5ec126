// Package config provides configuration management for the journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "equilibrium-coach/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Journal     JournalConfig `mapstructure:"journal"`
	Coach       CoachConfig   `mapstructure:"coach"`
	UI          UIConfig      `mapstructure:"ui"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately
}

// JournalConfig holds journal storage settings.
type JournalConfig struct {
	DatabasePath   string `mapstructure:"database_path"`
	DefaultAccount string `mapstructure:"default_account"`
}

// CoachConfig holds AI coach settings.
type CoachConfig struct {
	Model      string `mapstructure:"model"`
	MaxHistory int    `mapstructure:"max_history"`
}

// UIConfig holds terminal output settings.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Credentials holds API credentials, kept out of the main config file.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds the OpenAI API key for the coach.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/equilibrium"
	}
	return filepath.Join(home, ".config", "equilibrium")
}

// Load loads configuration from the specified directory. First runs get
// template files written out and proceed on defaults so journaling is
// never blocked by missing config.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := defaults(configDir)

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	// Empty paths in the file mean "use the config dir"
	if cfg.Journal.DatabasePath == "" {
		cfg.Journal.DatabasePath = filepath.Join(configDir, "journal.db")
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(configDir, "equilibrium.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func defaults(configDir string) *Config {
	return &Config{
		Journal: JournalConfig{
			DatabasePath: filepath.Join(configDir, "journal.db"),
		},
		Coach: CoachConfig{
			Model:      "gpt-4o-mini",
			MaxHistory: 40,
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "02-Jan-2006",
			TimeFormat:   "15:04:05",
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       filepath.Join(configDir, "equilibrium.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir, name)
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

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("EQUILIBRIUM_DB_PATH"); v != "" {
		cfg.Journal.DatabasePath = v
	}
	if v := os.Getenv("EQUILIBRIUM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for values the rest of the program
// cannot work with.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid,
			"unknown log level %q", c.Logging.Level)
	}
	if c.Journal.DatabasePath == "" {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "journal.database_path is empty")
	}
	if c.Coach.MaxHistory < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "coach.max_history must be non-negative")
	}
	return nil
}

// CoachEnabled reports whether an OpenAI key is configured.
func (c *Config) CoachEnabled() bool {
	return c.Credentials.OpenAI.APIKey != ""
}
