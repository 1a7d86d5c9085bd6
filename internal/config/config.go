package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/tally-pad/internal/platform/logging"
)

const (
	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"
)

// Config stores runtime configuration for the scorekeeper.
type Config struct {
	AppEnv            string
	ServiceName       string
	StoreDriver       string
	StorePath         string
	StoreBusyTimeout  time.Duration
	StoreTraceQueries bool
	MigrationWorkers  int
	LogLevel          logging.Level
	LogFile           string
	LogMaxSizeMB      int
	LogMaxBackups     int
}

// LoadDotEnv seeds the environment from the given files, ".env" by default.
// Missing files are skipped and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat dotenv file %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load dotenv file %s: %w", path, err)
		}
	}
	return nil
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storeDriver, err := parseStoreDriver(getEnv("STORE_DRIVER", StoreDriverSQLite))
	if err != nil {
		return Config{}, err
	}
	storePath := strings.TrimSpace(getEnv("STORE_PATH", "tallypad-games.db"))
	if storeDriver == StoreDriverSQLite && storePath == "" {
		return Config{}, fmt.Errorf("STORE_PATH is required when STORE_DRIVER=%s", StoreDriverSQLite)
	}
	storeBusyTimeout, err := time.ParseDuration(getEnv("STORE_BUSY_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STORE_BUSY_TIMEOUT: %w", err)
	}
	if storeBusyTimeout <= 0 {
		return Config{}, fmt.Errorf("STORE_BUSY_TIMEOUT must be > 0")
	}

	traceDefault := "false"
	if appEnv == EnvDev {
		traceDefault = "true"
	}
	storeTraceQueries, err := strconv.ParseBool(getEnv("STORE_TRACE_QUERIES", traceDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse STORE_TRACE_QUERIES: %w", err)
	}

	migrationWorkers, err := getEnvAsInt("MIGRATION_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse MIGRATION_WORKERS: %w", err)
	}
	if migrationWorkers < 1 {
		return Config{}, fmt.Errorf("MIGRATION_WORKERS must be >= 1")
	}

	logMaxSizeMB, err := getEnvAsInt("LOG_MAX_SIZE_MB", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_MAX_SIZE_MB: %w", err)
	}
	if logMaxSizeMB < 1 {
		return Config{}, fmt.Errorf("LOG_MAX_SIZE_MB must be >= 1")
	}
	logMaxBackups, err := getEnvAsInt("LOG_MAX_BACKUPS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_MAX_BACKUPS: %w", err)
	}
	if logMaxBackups < 0 {
		return Config{}, fmt.Errorf("LOG_MAX_BACKUPS must be >= 0")
	}

	return Config{
		AppEnv:            appEnv,
		ServiceName:       strings.TrimSpace(getEnv("APP_SERVICE_NAME", "tally-pad")),
		StoreDriver:       storeDriver,
		StorePath:         storePath,
		StoreBusyTimeout:  storeBusyTimeout,
		StoreTraceQueries: storeTraceQueries,
		MigrationWorkers:  migrationWorkers,
		LogLevel:          logging.ParseLevel(getEnv("APP_LOG_LEVEL", defaultLogLevel(appEnv))),
		LogFile:           strings.TrimSpace(getEnv("LOG_FILE", "")),
		LogMaxSizeMB:      logMaxSizeMB,
		LogMaxBackups:     logMaxBackups,
	}, nil
}

// LoggingOptions maps the log settings onto the logging package.
func (c Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.LogLevel,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
	}
}

func defaultLogLevel(appEnv string) string {
	if appEnv == EnvDev {
		return "debug"
	}
	return "info"
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseStoreDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StoreDriverSQLite, StoreDriverMemory:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", v, StoreDriverSQLite, StoreDriverMemory)
	}
}
