package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Persistence modes
const (
	PersistenceMemory   = "memory"
	PersistencePostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	Port            int
	LogLevel        string
	LogFormat       string
	LogDir          string
	Environment     string
	APIKey          string // empty disables API key authentication
	PersistenceMode string // memory or postgres
	DBUser          string
	DBPassword      string
	DBHost          string
	DBPort          string
	DBName          string
	TrustedProxies  []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		LogDir:          getEnv("LOG_DIR", "logs"),
		Environment:     getEnv("ENVIRONMENT", "dev"),
		APIKey:          getEnv("API_KEY", ""),
		PersistenceMode: getEnv("PERSISTENCE_MODE", PersistenceMemory),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBName:          getEnv("DB_NAME", "colorrush"),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if cfg.PersistenceMode != PersistenceMemory && cfg.PersistenceMode != PersistencePostgres {
		return nil, fmt.Errorf("invalid PERSISTENCE_MODE value: %q", cfg.PersistenceMode)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
