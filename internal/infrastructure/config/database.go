package config

import (
	"fmt"
	"strings"
	"time"
)

const sqliteMemoryPath = ":memory:"

// DatabaseConfig selects the store behind mission memory, run records and
// tick logs. SQLite is the default; postgres serves shared deployments.
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// URL takes precedence over the individual postgres fields
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// Path is the SQLite file; empty or ":memory:" opens a private in-memory database
	Path string `mapstructure:"path"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig sizes the postgres connection pool
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// PostgresDSN returns URL when set, else a key/value DSN built from the fields
func (d DatabaseConfig) PostgresDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// InMemory reports whether the SQLite path names a private in-memory database
func (d DatabaseConfig) InMemory() bool {
	return d.Path == "" || d.Path == sqliteMemoryPath
}

// SQLitePath returns the path to open. File databases get WAL journaling and a
// busy timeout unless the path already carries query options, since tick logs
// are written while the CLI reads them.
func (d DatabaseConfig) SQLitePath() string {
	if d.InMemory() {
		return sqliteMemoryPath
	}
	if strings.Contains(d.Path, "?") {
		return d.Path
	}
	return d.Path + "?_journal_mode=WAL&_busy_timeout=5000"
}
