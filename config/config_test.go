package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 1000, cfg.Cache.Size)
	assert.Equal(t, "", cfg.Log.Level)
	assert.Equal(t, LogFormatConsole, cfg.Log.Format)
	assert.Equal(t, "8082", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 2.0, cfg.Server.RateLimit)
	assert.Equal(t, 5, cfg.Server.Burst)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "onpage.yaml")
	content := `
domain: example.com
format: json
cache:
  ttl: 5m
  size: 10
log:
  level: debug
  file:
    path: /tmp/onpage.log
server:
  port: "9000"
  rateLimit: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "example.com", cfg.Domain)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Cache.Size)
	assert.Equal(t, LogLevelDebug, cfg.Log.Level)
	assert.Equal(t, "/tmp/onpage.log", cfg.Log.File.Path)
	assert.Equal(t, 10, cfg.Log.File.MaxSize)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimit)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ONPAGE_FORMAT", "yaml")
	t.Setenv("ONPAGE_CACHE_SIZE", "42")
	t.Setenv("ONPAGE_SERVER_PORT", "7000")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, 42, cfg.Cache.Size)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.True(t, cfg.Server.DevMode)
}

func TestLoad_LegacyPort(t *testing.T) {
	t.Setenv("PORT", "8181")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "8181", cfg.Server.Port)
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("ONPAGE_FORMAT", "yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "text", "")
	flags.String("log-level", "warn", "")
	flags.Bool("strict", false, "")
	flags.Bool("no-color", false, "")
	require.NoError(t, flags.Parse([]string{"--format", "json", "--strict", "--no-color"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Strict)
	assert.False(t, cfg.Color)
	// unset flags leave lower sources alone
	assert.Equal(t, "", cfg.Log.Level)
}

func TestLoad_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.False(t, cfg.Color)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Format: "text",
			Cache:  CacheConfig{TTL: time.Minute, Size: 1},
			Log:    LogConfig{Level: LogLevelWarn, Format: LogFormatJSON},
			Server: ServerConfig{Mode: "release", RateLimit: 1, Burst: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{name: "valid", mutate: func(*Config) {}, valid: true},
		{name: "bad format", mutate: func(c *Config) { c.Format = "xml" }},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "trace" }},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "text" }},
		{name: "zero ttl", mutate: func(c *Config) { c.Cache.TTL = 0 }},
		{name: "zero cache size", mutate: func(c *Config) { c.Cache.Size = 0 }},
		{name: "bad mode", mutate: func(c *Config) { c.Server.Mode = "prod" }},
		{name: "zero rate", mutate: func(c *Config) { c.Server.RateLimit = 0 }},
		{name: "zero burst", mutate: func(c *Config) { c.Server.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.Equal(t, "", LoadEnv())

	require.NoError(t, os.WriteFile(".env", []byte("ONPAGE_TEST_LOADENV=from-dotenv\n"), 0o644))
	t.Setenv("ONPAGE_TEST_LOADENV", "")
	require.NoError(t, os.Unsetenv("ONPAGE_TEST_LOADENV"))

	assert.Equal(t, ".env", LoadEnv())
	assert.Equal(t, "from-dotenv", os.Getenv("ONPAGE_TEST_LOADENV"))
}
