// Package config loads onpage settings from defaults, an optional config
// file, .env files and ONPAGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable
const EnvPrefix = "ONPAGE"

// Log levels and formats
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config is the complete application configuration
type Config struct {
	Domain  string       `mapstructure:"domain"`
	Format  string       `mapstructure:"format"`
	Color   bool         `mapstructure:"color"`
	Strict  bool         `mapstructure:"strict"`
	DataDir string       `mapstructure:"dataDir"`
	Cache   CacheConfig  `mapstructure:"cache"`
	Log     LogConfig    `mapstructure:"log"`
	Server  ServerConfig `mapstructure:"server"`
}

// CacheConfig sizes the analysis cache
type CacheConfig struct {
	TTL  time.Duration `mapstructure:"ttl"`
	Size int           `mapstructure:"size"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   FileLogConfig `mapstructure:"file"`
}

// FileLogConfig enables a rotating log file when Path is set
type FileLogConfig struct {
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"maxSize"`
	MaxAge     int    `mapstructure:"maxAge"`
	MaxBackups int    `mapstructure:"maxBackups"`
	Compress   bool   `mapstructure:"compress"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port      string  `mapstructure:"port"`
	Mode      string  `mapstructure:"mode"`
	RateLimit float64 `mapstructure:"rateLimit"`
	Burst     int     `mapstructure:"burst"`
	DevMode   bool    `mapstructure:"devMode"`
}

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"domain":    "domain",
	"format":    "format",
	"strict":    "strict",
	"data-dir":  "dataDir",
	"log-level": "log.level",
	"port":      "server.port",
}

// legacyEnv keeps the plain variable names the server has always honoured
var legacyEnv = map[string]string{
	"server.port":    "PORT",
	"server.mode":    "GIN_MODE",
	"server.devMode": "DEV_MODE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("domain", "")
	v.SetDefault("format", "text")
	v.SetDefault("color", true)
	v.SetDefault("strict", false)
	v.SetDefault("dataDir", "")

	v.SetDefault("cache.ttl", 30*time.Minute)
	v.SetDefault("cache.size", 1000)

	// empty lets each command pick its own level
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", LogFormatConsole)
	v.SetDefault("log.file.path", "")
	v.SetDefault("log.file.maxSize", 10)
	v.SetDefault("log.file.maxAge", 7)
	v.SetDefault("log.file.maxBackups", 3)
	v.SetDefault("log.file.compress", false)

	v.SetDefault("server.port", "8082")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.rateLimit", 2.0)
	v.SetDefault("server.burst", 5)
	v.SetDefault("server.devMode", false)
}

// LoadEnv loads .env.development, falling back to .env.
// It returns the file that was loaded, or an empty string when neither exists.
func LoadEnv() string {
	for _, file := range []string{".env.development", ".env"} {
		if err := godotenv.Load(file); err == nil {
			return file
		}
	}
	return ""
}

// Load builds the configuration. path may be empty, in which case
// ./onpage.yaml is used when present. Flags that were set on the command
// line override every other source.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("onpage")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, envName(key), legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if flags != nil {
		for flag, key := range flagKeys {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
				}
			}
		}
		if f := flags.Lookup("no-color"); f != nil && f.Changed && f.Value.String() == "true" {
			v.Set("color", false)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.Color = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Validate rejects values the application cannot run with
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q: expected text, json or yaml", c.Format)
	}
	switch c.Log.Level {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server.mode %q", c.Server.Mode)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("server.rateLimit must be positive, got %g", c.Server.RateLimit)
	}
	if c.Server.Burst <= 0 {
		return fmt.Errorf("server.burst must be positive, got %d", c.Server.Burst)
	}
	return nil
}
