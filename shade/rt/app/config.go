package app

import (
	"runtime"
	"time"

	"github.com/gekko3d/lumen/shade/rt/lighting"
)

type Config struct {
	Quality     lighting.Quality
	Workers     int
	RowsPerTask int
	QueueSize   int
	IdleTimeout time.Duration
	Debug       bool
}

func DefaultConfig() Config {
	return Config{
		Quality:     lighting.QualityFast,
		Workers:     runtime.NumCPU(),
		RowsPerTask: 8,
		QueueSize:   256,
		IdleTimeout: time.Second,
	}
}

type Option func(*Config)

func WithQuality(q lighting.Quality) Option {
	return func(c *Config) { c.Quality = q }
}

// WithWorkers sets the size of the shading pool. n <= 0 keeps the default.
func WithWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Workers = n
		}
	}
}

func WithRowsPerTask(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.RowsPerTask = n
		}
	}
}

func WithDebug(debug bool) Option {
	return func(c *Config) { c.Debug = debug }
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.RowsPerTask <= 0 {
		c.RowsPerTask = d.RowsPerTask
	}
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	return c
}
