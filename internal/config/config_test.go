package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "banking_db", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxConnections)
	assert.Equal(t, 5*time.Second, cfg.Ledger.LockTimeout)
	assert.Equal(t, 25.0, cfg.Scheduler.RatePerSecond)
	assert.Equal(t, 5, cfg.Scheduler.Burst)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_MAX_CONNECTIONS", "50")
	t.Setenv("LEDGER_LOCK_TIMEOUT", "250ms")
	t.Setenv("SCHEDULER_RATE_PER_SECOND", "100.5")
	t.Setenv("SCHEDULER_BURST", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5433", cfg.Database.Port)
	assert.Equal(t, 50, cfg.Database.MaxConnections)
	assert.Equal(t, 250*time.Millisecond, cfg.Ledger.LockTimeout)
	assert.Equal(t, 100.5, cfg.Scheduler.RatePerSecond)
	assert.Equal(t, 10, cfg.Scheduler.Burst)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_CONNECTIONS", "not-a-number")
	t.Setenv("LEDGER_LOCK_TIMEOUT", "soon")
	t.Setenv("SCHEDULER_RATE_PER_SECOND", "fast")

	cfg := Load()

	assert.Equal(t, 25, cfg.Database.MaxConnections)
	assert.Equal(t, 5*time.Second, cfg.Ledger.LockTimeout)
	assert.Equal(t, 25.0, cfg.Scheduler.RatePerSecond)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "banking_user",
		Password: "secret",
		Name:     "banking_db",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Equal(t, "host=localhost port=5432 user=banking_user password=secret dbname=banking_db sslmode=disable", dsn)
}
