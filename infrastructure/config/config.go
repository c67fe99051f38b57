package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Persistence
	DataFile   string
	AutoReload bool
	AutoSave   bool

	// Workspace defaults
	DefaultUser string
	IDPrefix    string

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		DataFile:   getEnv("DATA_FILE", "reqboard.json"),
		AutoReload: getEnvBool("AUTO_RELOAD", false),
		AutoSave:   getEnvBool("AUTO_SAVE", false),

		DefaultUser: getEnv("DEFAULT_USER", "User"),
		IDPrefix:    getEnv("ID_PREFIX", "R"),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig for backwards compatibility
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("DATA_FILE cannot be empty")
	}
	if dir := filepath.Dir(c.DataFile); dir == "" {
		return fmt.Errorf("DATA_FILE must carry a usable directory")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
