package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	DriverPostgres     = "postgres"
	DriverOracle       = "oracle"
	DriverGormPostgres = "gorm-postgres"
	DriverSQLite       = "sqlite"
	DriverMemory       = "memory"

	BackendDatabase = "database"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	ServerPort string
	ServerHost string
	LogLevel   string

	DBDriver string
	DBDSN    string

	// RegistryBackend selects the shared symbol ledger. "database" keeps it
	// next to the assets (in process memory when DBDriver is memory).
	RegistryBackend string
	RedisAddr       string
	RedisPassword   string
	RedisKey        string

	// RegistryRefreshInterval is how often the registry re-reads the store;
	// zero disables refreshing.
	RegistryRefreshInterval time.Duration
	MigrationBatchSize      int
}

func Load() (*Config, error) {
	dbDriver := getEnvOrDefault("DB_DRIVER", DriverPostgres)
	switch dbDriver {
	case DriverPostgres, DriverOracle, DriverGormPostgres, DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s (expected postgres, oracle, gorm-postgres, sqlite or memory)", dbDriver)
	}

	dbDSN := os.Getenv("DB_DSN")
	if dbDSN == "" && dbDriver != DriverMemory {
		return nil, fmt.Errorf("DB_DSN environment variable is required for the %s driver", dbDriver)
	}

	backend := getEnvOrDefault("REGISTRY_BACKEND", BackendDatabase)
	switch backend {
	case BackendDatabase, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unsupported REGISTRY_BACKEND: %s (expected database, redis or memory)", backend)
	}

	refreshInterval, err := time.ParseDuration(getEnvOrDefault("REGISTRY_REFRESH_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REGISTRY_REFRESH_INTERVAL: %w", err)
	}
	if refreshInterval < 0 {
		return nil, fmt.Errorf("invalid REGISTRY_REFRESH_INTERVAL: %s is negative", refreshInterval)
	}

	batchSize, err := strconv.Atoi(getEnvOrDefault("MIGRATION_BATCH_SIZE", "100"))
	if err != nil || batchSize <= 0 {
		return nil, fmt.Errorf("invalid MIGRATION_BATCH_SIZE: must be a positive integer")
	}

	return &Config{
		ServerPort:              getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:              getEnvOrDefault("SERVER_HOST", "localhost"),
		LogLevel:                getEnvOrDefault("LOG_LEVEL", "info"),
		DBDriver:                dbDriver,
		DBDSN:                   dbDSN,
		RegistryBackend:         backend,
		RedisAddr:               getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		RedisKey:                getEnvOrDefault("REDIS_KEY", "symbology:symbols"),
		RegistryRefreshInterval: refreshInterval,
		MigrationBatchSize:      batchSize,
	}, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
