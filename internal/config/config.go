package config

import (
	"os"
	"strconv"
	"strings"

	"churnscope/internal/errors"
)

// Source kinds
const (
	SourceExcel    = "excel"
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig
	Database  DatabaseConfig
	Server    ServerConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// DataConfig describes where the churn table is read from
type DataConfig struct {
	Source    string // excel, csv or postgres
	File      string
	SheetName string
	Table     string
}

// DatabaseConfig holds database connection settings, only needed for the postgres source
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ProfilingConfig holds the ops listener settings (health checks and pprof)
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:      *loadDataConfig(),
		Database:  DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")},
		Server:    *loadServerConfig(),
		Profiling: *loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	file := getEnvOrDefault("DATA_FILE", "Dataset.xlsx")
	source := strings.ToLower(getEnvOrDefault("CHURN_SOURCE", ""))
	if source == "" {
		source = SourceExcel
		if strings.HasSuffix(strings.ToLower(file), ".csv") {
			source = SourceCSV
		}
	}

	return &DataConfig{
		Source:    source,
		File:      file,
		SheetName: getEnvOrDefault("DATA_SHEET", "01 Churn-Dataset"),
		Table:     getEnvOrDefault("DATA_TABLE", "churn_customers"),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", true),
	}
}

func validateConfig(config *Config) error {
	switch config.Data.Source {
	case SourceExcel, SourceCSV:
		if config.Data.File == "" {
			return errors.ConfigInvalid("DATA_FILE is required for file sources")
		}
	case SourcePostgres:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required when CHURN_SOURCE=postgres")
		}
		if config.Data.Table == "" {
			return errors.ConfigInvalid("DATA_TABLE is required when CHURN_SOURCE=postgres")
		}
	default:
		return errors.ConfigInvalid("CHURN_SOURCE must be one of excel, csv, postgres; got " + config.Data.Source)
	}

	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Profiling.Port == config.Server.Port {
		return errors.ConfigInvalid("PPROF_PORT must differ from PORT")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
