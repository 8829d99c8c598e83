package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"coinbot/database"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Store backends
const (
	StoreBackendPostgres = "postgres"
	StoreBackendMongo    = "mongo"
	StoreBackendRedis    = "redis"
	StoreBackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "text" or "json"

	// Ledger store selection
	StoreBackend string `env:"STORE_BACKEND" envDefault:"postgres"`

	// Postgres configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// MongoDB configuration
	MongoURI        string `env:"DB_URI"`
	MongoDatabase   string `env:"DB_NAME" envDefault:"coinbot"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"accounts"`

	// Redis configuration
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// NATS configuration, event forwarding is off when empty
	NATSServers string `env:"NATS_SERVERS"`

	// OpenTelemetry configuration
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"console"` // "console", "otlp" or "none"
	OTelOTLPEndpoint         string `env:"OTEL_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"coinbot"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MS" envDefault:"10000"`

	// EconomyFile optionally points to a TOML file overriding EconomySettings
	EconomyFile string `env:"ECONOMY_FILE"`

	EconomySettings EconomySettings
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads .env, the environment and the optional economy file without touching
// the global instance
func Load() (*Config, error) {
	return load()
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from .env, environment variables and the economy file
func load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.EconomyFile != "" {
		if err := config.EconomySettings.LoadFile(config.EconomyFile); err != nil {
			return nil, err
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreBackendPostgres, StoreBackendMongo, StoreBackendRedis, StoreBackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.Environment != "test" {
		// Validate required configuration
		if c.StoreBackend == StoreBackendPostgres && c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
		if c.StoreBackend == StoreBackendMongo && c.MongoURI == "" {
			return errors.New("DB_URI is required for the mongo store")
		}
		// If DatabaseName is provided, ensure it's not empty
		if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
			return errors.New("DATABASE_NAME cannot be empty when provided")
		}
	}

	if _, err := c.Economy(); err != nil {
		return err
	}
	return nil
}

// ConfigureLogging applies the configured level and format to logrus
func (c *Config) ConfigureLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	log.SetLevel(level)

	switch c.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:              "test",
		LogLevel:                 "info",
		LogFormat:                "text",
		StoreBackend:             StoreBackendMemory,
		MongoDatabase:            "coinbot_test",
		MongoCollection:          "accounts",
		OTelExporterType:         "none",
		OTelServiceName:          "coinbot-test",
		OTelExportIntervalMillis: 1000,
		EconomySettings:          DefaultEconomySettings(),
	}
}
