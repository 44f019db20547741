package cron_config

import "time"

type Config struct {
	// Longest single sleep while waiting for the next run, the wall clock is
	// re-read after each one
	MaxSleep time.Duration `env:"SCHEDULER_MAX_SLEEP" envDefault:"60s"`
	// Cadence used when the report configuration has no recurrence
	DefaultInterval time.Duration `env:"SCHEDULER_DEFAULT_INTERVAL" envDefault:"24h"`
}
