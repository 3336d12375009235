package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all finanzas client configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Email   EmailConfig   `mapstructure:"email"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig locates the backend REST API.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"`
}

// StorageConfig defines the local key-value database.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// EmailConfig identifies the transactional email service.
type EmailConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Endpoint         string `mapstructure:"endpoint"`
	ServiceID        string `mapstructure:"service_id"`
	UserID           string `mapstructure:"user_id"`
	DebtTemplateID   string `mapstructure:"debt_template_id"`
	BudgetTemplateID string `mapstructure:"budget_template_id"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".finanzas"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Defaults
	home, _ := os.UserHomeDir()
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("storage.path", filepath.Join(home, ".finanzas", "finanzas.db"))
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.endpoint", "https://api.emailjs.com/api/v1.0/email/send")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Environment variables
	v.SetEnvPrefix("FINZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
