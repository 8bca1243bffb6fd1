package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Port       string
	DBDriver   string
	DBConn     string
	LogLevel   string
	SecretKey  string
	DailyLimit float64
	CSVFile    string
}

// NewConfig loads configuration from a .env file if present, then from
// environment variables
func NewConfig() (*Config, error) {
	// A missing .env is fine; production relies on real env variables.
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBDriver:  getEnv("DB_DRIVER", DriverSQLite),
		DBConn:    getEnv("DB_CONN", "transactions.db"),
		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		SecretKey: getEnv("SECRET_KEY", "dev"),
		CSVFile:   getEnv("CSV_FILE_PATH", "transactions_1.csv"),
	}

	if cfg.DBDriver != DriverSQLite && cfg.DBDriver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}

	limit, err := strconv.ParseFloat(getEnv("DAILY_LIMIT", "200000"), 64)
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("DAILY_LIMIT must be a positive number")
	}
	cfg.DailyLimit = limit

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
