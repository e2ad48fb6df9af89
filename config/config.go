package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultSheetCSVURL is the public spreadsheet export treated as the authoritative IPO list.
const DefaultSheetCSVURL = "https://docs.google.com/spreadsheets/d/1M2oDbuBU20Iyxgq_cKpjgk0WCu-8xxGQcnKhlM0Mq9I/export?format=csv"

type Config struct {
	ServerPort   string `yaml:"server_port" validate:"required,numeric"`
	SheetCSVURL  string `yaml:"sheet_csv_url" validate:"omitempty,url"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model" validate:"required"`

	RefreshInterval   time.Duration `yaml:"refresh_interval" validate:"min=1s"`
	NotificationTTL   time.Duration `yaml:"notification_ttl" validate:"min=1s"`
	DiscoveryCacheTTL time.Duration `yaml:"discovery_cache_ttl" validate:"min=0"`
	HTTPTimeout       time.Duration `yaml:"http_timeout" validate:"min=0"`

	LogLevel  string `yaml:"log_level" validate:"oneof=trace debug info warn warning error"`
	LogFormat string `yaml:"log_format" validate:"oneof=json text"`
}

// SimplifiedCacheConfig holds in-memory cache configuration
type SimplifiedCacheConfig struct {
	DefaultTTL time.Duration `json:"default_ttl"`
	MaxSize    int           `json:"max_size"`
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() *SimplifiedCacheConfig {
	return &SimplifiedCacheConfig{
		DefaultTTL: 5 * time.Minute,
		MaxSize:    100,
	}
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		ServerPort:        "8080",
		SheetCSVURL:       DefaultSheetCSVURL,
		GeminiModel:       "gemini-2.5-pro",
		RefreshInterval:   120 * time.Second,
		NotificationTTL:   4 * time.Second,
		DiscoveryCacheTTL: 5 * time.Minute,
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// MarketIntelEnabled reports whether the optional AI credential is configured
func (c *Config) MarketIntelEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadConfig reads .env, then the optional YAML file named by CONFIG_FILE,
// then environment overrides, and validates the result.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.SheetCSVURL = getEnv("SHEET_CSV_URL", c.SheetCSVURL)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", getEnv("API_KEY", c.GeminiAPIKey))
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	c.RefreshInterval = getDurationEnv("REFRESH_INTERVAL", c.RefreshInterval)
	c.NotificationTTL = getDurationEnv("NOTIFICATION_TTL", c.NotificationTTL)
	c.DiscoveryCacheTTL = getDurationEnv("DISCOVERY_CACHE_TTL", c.DiscoveryCacheTTL)
	c.HTTPTimeout = getDurationEnv("HTTP_TIMEOUT", c.HTTPTimeout)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		logrus.Warnf("Invalid %s value: %s, using default %v", key, value, fallback)
		return fallback
	}
	return duration
}
