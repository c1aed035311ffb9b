package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts either a Go duration string ("30s") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		d.Duration = time.Duration(x)
	case string:
		p, err := time.ParseDuration(x)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", x, err)
		}
		d.Duration = p
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// jsonConfig is the on-disk shape. Pointers tell absent keys from zero values.
type jsonConfig struct {
	Server         *string   `json:"server"`
	DatabasePath   *string   `json:"database_path"`
	Workers        *int      `json:"workers"`
	RequestTimeout *Duration `json:"request_timeout"`
	LogFile        *string   `json:"log_file"`
	LogLevel       *string   `json:"log_level"`
}

// parseJSON overlays cfg with the file named by -c / -config, if given.
// It panics on read or unmarshal errors.
func parseJSON(cfg *Config, args []string) {
	path := configFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Server != nil {
		cfg.Server = *jc.Server
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.Workers != nil {
		cfg.Workers = *jc.Workers
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
