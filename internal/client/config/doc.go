// Package config loads runtime configuration for the urchin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string   server endpoint name: production, staging or development
//	-d string   path of the local SQLite database
//	-w int      number of concurrent request workers
//	-t int      request timeout (seconds)
//	-l string   log file (rotated); stderr when empty
//	-v string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations may be strings like "30s" or integer nanoseconds. Keys that are
// absent leave the defaults in place:
//
//	{
//	  "server": "staging",
//	  "database_path": "/var/lib/urchin/urchin.db",
//	  "workers": 8,
//	  "request_timeout": "15s",
//	  "log_file": "/var/log/urchin.log",
//	  "log_level": "debug"
//	}
//
// Environment variables are not read.
package config
