package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Review   ReviewConfig   `mapstructure:"review" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver is the database/sql driver name: "pgx" for PostgreSQL or "sqlite".
	Driver          string        `mapstructure:"driver" validate:"required,oneof=pgx sqlite"`
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// ReviewConfig controls batch review processing.
type ReviewConfig struct {
	// BatchConcurrency bounds how many review lanes run at once.
	BatchConcurrency int `mapstructure:"batch_concurrency" validate:"gte=1,lte=256"`
	// MaxBatchSize is the largest number of events accepted in one batch.
	MaxBatchSize int `mapstructure:"max_batch_size" validate:"gte=1,lte=10000"`
}

// SRSConfig overrides the scheduling algorithm parameters.
type SRSConfig struct {
	MinEaseFactor      float64 `mapstructure:"min_ease_factor" validate:"gte=1.3,lte=2.5"`
	FirstIntervalDays  int     `mapstructure:"first_interval_days" validate:"gte=1"`
	SecondIntervalDays int     `mapstructure:"second_interval_days" validate:"gte=1"`
}
