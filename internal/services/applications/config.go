package applications

import (
	"time"

	"jobtrack/internal/common/config"
)

// Config controls validation and retry behaviour of the store.
type Config struct {
	AllowCustomStatus bool
	DefaultPageSize   int
	MaxPageSize       int
	RetryDelay        time.Duration
}

func ConfigFrom(c config.TrackerConfig) *Config {
	return &Config{
		AllowCustomStatus: c.AllowCustomStatus,
		DefaultPageSize:   c.DefaultPageSize,
		MaxPageSize:       c.MaxPageSize,
		RetryDelay:        config.GetDuration(c.RetryDelay),
	}
}

func DefaultConfig() *Config {
	return &Config{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		RetryDelay:      50 * time.Millisecond,
	}
}
