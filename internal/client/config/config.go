package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the CLI.
type Config struct {
	Server         string
	DatabasePath   string
	Workers        int
	RequestTimeout time.Duration
	LogFile        string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Server = "production"
	c.DatabasePath = "urchin.db"
	c.Workers = 4
	c.RequestTimeout = 30 * time.Second
	c.LogFile = ""
	c.LogLevel = "info"
}

// LoadConfig constructs a Config from defaults, then the JSON file (if any),
// then command-line flags. Invalid input panics.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
