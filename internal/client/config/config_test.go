package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "production", c.Server)
	assert.Equal(t, "urchin.db", c.DatabasePath)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.LogFile)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, `{"server":"staging","workers":8,"request_timeout":"1500ms","log_level":"debug"}`)

	tests := []struct {
		name string
		args []string
		want func(c *Config)
	}{
		{
			name: "no sources",
			args: nil,
			want: func(c *Config) {},
		},
		{
			name: "json only",
			args: []string{"-c", path},
			want: func(c *Config) {
				c.Server = "staging"
				c.Workers = 8
				c.RequestTimeout = 1500 * time.Millisecond
				c.LogLevel = "debug"
			},
		},
		{
			name: "flags override json",
			args: []string{"-config=" + path, "-s", "development", "-t", "5", "-d", "/tmp/x.db"},
			want: func(c *Config) {
				c.Server = "development"
				c.Workers = 8
				c.RequestTimeout = 5 * time.Second
				c.LogLevel = "debug"
				c.DatabasePath = "/tmp/x.db"
			},
		},
		{
			name: "unknown flags are ignored",
			args: []string{"-x", "1", "-w", "2", "positional"},
			want: func(c *Config) { c.Workers = 2 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := defaults()
			tt.want(want)

			got := load(tt.args)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestParseFlags_BadValuePanics(t *testing.T) {
	cfg := defaults()
	require.Panics(t, func() { parseFlags(cfg, []string{"-t", "soon"}) })
}

func TestParseJSON_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		require.Panics(t, func() { parseJSON(defaults(), []string{"-c", "/no/such/file.json"}) })
	})
	t.Run("invalid json", func(t *testing.T) {
		path := writeFile(t, `{ not json`)
		require.Panics(t, func() { parseJSON(defaults(), []string{"-c", path}) })
	})
	t.Run("invalid duration", func(t *testing.T) {
		path := writeFile(t, `{"request_timeout":"forever"}`)
		require.Panics(t, func() { parseJSON(defaults(), []string{"-c", path}) })
	})
}

func TestDuration_Nanoseconds(t *testing.T) {
	path := writeFile(t, `{"request_timeout":2000000000}`)
	cfg := defaults()
	parseJSON(cfg, []string{"-c", path})
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}
