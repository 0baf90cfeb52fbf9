// Package config loads runtime configuration from the environment.
// A .env file in the working directory is applied first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the back-office engine.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Business BusinessConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Environment string
	LogLevel    string
	Storage     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains Postgres pool configuration
type DatabaseConfig struct {
	URL              string
	MaxConns         int32
	MinConns         int32
	StatementTimeout time.Duration
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
}

// RedisConfig contains the settings cache configuration. Empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// BusinessConfig holds defaults applied by the domain services.
type BusinessConfig struct {
	DefaultTaxRate        decimal.Decimal
	DefaultLocation       string
	DefaultInvoiceType    string
	DefaultPointOfSale    int
	AuthorizationValidity time.Duration
	ReturnRestockRule     string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	// missing .env is fine
	_ = godotenv.Load()

	taxRate, err := decimal.NewFromString(getEnv("DEFAULT_TAX_RATE", "21"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_TAX_RATE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Storage:     strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			URL:              os.Getenv("DATABASE_URL"),
			MaxConns:         int32(getEnvInt("DB_MAX_CONNS", 20)),
			MinConns:         int32(getEnvInt("DB_MIN_CONNS", 2)),
			StatementTimeout: getEnvDuration("DB_STATEMENT_TIMEOUT", 30*time.Second),
			MaxConnLifetime:  getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime:  getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("SETTINGS_CACHE_TTL", 5*time.Minute),
		},
		Business: BusinessConfig{
			DefaultTaxRate:        taxRate,
			DefaultLocation:       getEnv("DEFAULT_LOCATION", "main"),
			DefaultInvoiceType:    strings.ToUpper(getEnv("DEFAULT_INVOICE_TYPE", "B")),
			DefaultPointOfSale:    getEnvInt("DEFAULT_POINT_OF_SALE", 1),
			AuthorizationValidity: getEnvDuration("AUTHORIZATION_VALIDITY", 240*time.Hour),
			ReturnRestockRule:     getEnv("RETURN_RESTOCK_RULE", `condition == "sellable"`),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values.
func (c *Config) Validate() error {
	switch c.App.Storage {
	case StoragePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s storage", StoragePostgres)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.App.Storage)
	}
	if c.Business.DefaultTaxRate.IsNegative() {
		return fmt.Errorf("DEFAULT_TAX_RATE must not be negative")
	}
	if c.Business.DefaultPointOfSale <= 0 {
		return fmt.Errorf("DEFAULT_POINT_OF_SALE must be positive")
	}
	return nil
}

// IsDevelopment reports whether pretty logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
