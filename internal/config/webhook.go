package config

import "time"

// Webhook represents the configuration for billing event publishing and consumption
type Webhook struct {
	Enabled         bool          `mapstructure:"enabled"`
	Topic           string        `mapstructure:"topic" default:"billing_events"`
	MaxRetries      int           `mapstructure:"max_retries" validate:"min=0"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}
