package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// TableNameEnv names the environment variable holding the posts table
const TableNameEnv = "DYNAMODB_TABLE_NAME"

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required"`
	Port        string `validate:"required,numeric"`
	TableName   string `validate:"required"`
	Storage     StorageConfig
	Log         LogConfig
}

// StorageConfig holds item store configuration
type StorageConfig struct {
	Type       string `validate:"oneof=dynamodb sqlite memory"`
	Region     string
	Endpoint   string `validate:"omitempty,url"`
	SQLitePath string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn error fatal panic"`
	Format string `validate:"oneof=json text"`
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("STORAGE_TYPE", "dynamodb")
	v.SetDefault("SQLITE_PATH", "./data/posts.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		TableName:   v.GetString(TableNameEnv),
		Storage: StorageConfig{
			Type:       v.GetString("STORAGE_TYPE"),
			Region:     v.GetString("AWS_REGION"),
			Endpoint:   v.GetString("DYNAMODB_ENDPOINT"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for missing or malformed values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// TableNameFunc returns a resolver that reads the table name from the
// environment on every call, falling back to the loaded value
func (c *Config) TableNameFunc() func() string {
	fallback := c.TableName
	return func() string {
		return GetEnv(TableNameEnv, fallback)
	}
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
