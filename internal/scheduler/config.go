package scheduler

import (
	"time"

	"github.com/smallbiznis/quoteflow/internal/config"
)

// Config controls how often the sweeper runs and how long one pass may take.
type Config struct {
	RunInterval  time.Duration
	SweepTimeout time.Duration
	EnabledJobs  []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval:  time.Minute,
		SweepTimeout: 10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.SweepTimeout <= 0 {
		c.SweepTimeout = defaults.SweepTimeout
	}
	return c
}

func ProvideConfig(cfg config.Config) Config {
	return Config{RunInterval: cfg.Session.SweepInterval}.withDefaults()
}
