package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	Ledger    LedgerConfig
	Scheduler SchedulerConfig
	LogLevel  string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LedgerConfig tunes transaction execution
type LedgerConfig struct {
	// LockTimeout bounds how long a submission waits on a contended
	// account row before failing as retryable.
	LockTimeout time.Duration
}

// SchedulerConfig tunes the auto debit scheduler
type SchedulerConfig struct {
	RatePerSecond float64
	Burst         int
}

func Load() *Config {
	// Missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "banking_user"),
			Password:        getEnv("DB_PASSWORD", "banking_password"),
			Name:            getEnv("DB_NAME", "banking_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Ledger: LedgerConfig{
			LockTimeout: getDurationEnv("LEDGER_LOCK_TIMEOUT", 5*time.Second),
		},
		Scheduler: SchedulerConfig{
			RatePerSecond: getFloatEnv("SCHEDULER_RATE_PER_SECOND", 25),
			Burst:         getIntEnv("SCHEDULER_BURST", 5),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
