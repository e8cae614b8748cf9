package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	DocuSeal    DocuSealConfig
	LogLevel    string
}

type DocuSealConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DOCUSEAL_BASE_URL", "https://api.docuseal.com")
	viper.SetDefault("DOCUSEAL_TIMEOUT_SECONDS", 30)

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	rawTimeout := viper.GetString("DOCUSEAL_TIMEOUT_SECONDS")
	timeoutSeconds, err := strconv.Atoi(rawTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid DOCUSEAL_TIMEOUT_SECONDS %q: %w", rawTimeout, err)
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		DocuSeal: DocuSealConfig{
			BaseURL: getEnvOrViper("DOCUSEAL_BASE_URL", "https://api.docuseal.com"),
			// The API key may legitimately be absent: startup logs a warning
			// and every gateway call then fails fast with a
			// ConfigurationError instead of attempting the network call.
			APIKey:  getEnvOrViper("DOCUSEAL_API_KEY", ""),
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
