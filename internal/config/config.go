package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Database    DatabaseConfig
	Shopify     ShopifyConfig
	Import      ImportConfig
	Media       MediaConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
	Active      bool // disabled credentials abort the run before any row is processed
}

// ImportConfig selects the active scope for a run and points at the
// declarative field mapping table.
type ImportConfig struct {
	Locale      string
	Channel     string
	Currency    string
	MappingFile string // JSON mapping table (field -> attribute, images, family)
	RunID       string // stable run id (UUID); empty generates a fresh one
}

// MediaConfig selects the media backend. Backend is "disk" or "s3".
type MediaConfig struct {
	Backend  string
	TempDir  string // local download cache, e.g. /tmp/pimsync-media
	BaseDir  string // disk backend root
	S3Bucket string
	S3Region string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHOPIFY_CREDENTIALS_ACTIVE", "true")
	viper.SetDefault("IMPORT_LOCALE", "en_US")
	viper.SetDefault("IMPORT_CHANNEL", "default")
	viper.SetDefault("IMPORT_CURRENCY", "USD")
	viper.SetDefault("MEDIA_BACKEND", "disk")
	viper.SetDefault("MEDIA_TEMP_DIR", "/tmp/pimsync-media")
	viper.SetDefault("MEDIA_BASE_DIR", "storage/product")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "pimsync"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Shopify: ShopifyConfig{
			ShopDomain:  strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", "")),
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2026-01"),
			Active:      getEnvOrViper("SHOPIFY_CREDENTIALS_ACTIVE", "true") == "true",
		},
		Import: ImportConfig{
			Locale:      getEnvOrViper("IMPORT_LOCALE", "en_US"),
			Channel:     getEnvOrViper("IMPORT_CHANNEL", "default"),
			Currency:    getEnvOrViper("IMPORT_CURRENCY", "USD"),
			MappingFile: getEnvOrViper("IMPORT_MAPPING_FILE", "mapping.json"),
			RunID:       strings.TrimSpace(getEnvOrViper("IMPORT_RUN_ID", "")),
		},
		Media: MediaConfig{
			Backend:  getEnvOrViper("MEDIA_BACKEND", "disk"),
			TempDir:  getEnvOrViper("MEDIA_TEMP_DIR", "/tmp/pimsync-media"),
			BaseDir:  getEnvOrViper("MEDIA_BASE_DIR", "storage/product"),
			S3Bucket: strings.TrimSpace(getEnvOrViper("MEDIA_S3_BUCKET", "")),
			S3Region: strings.TrimSpace(getEnvOrViper("MEDIA_S3_REGION", "")),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Shopify.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if cfg.Shopify.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}
	if cfg.Media.Backend == "s3" && cfg.Media.S3Bucket == "" {
		return nil, fmt.Errorf("MEDIA_S3_BUCKET is required when MEDIA_BACKEND=s3")
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
