package config

import (
	"flag"
	"time"
)

// parseFlags overlays cfg with command-line flags. Only the flags listed in
// the package doc are looked at; parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = filterArgs(args, "-s", "-d", "-w", "-t", "-l", "-v")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Server, "s", cfg.Server, "server endpoint: production, staging or development")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "number of request workers")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only when given, so a sub-second JSON timeout survives
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
