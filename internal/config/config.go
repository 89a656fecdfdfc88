// Package config loads asset index settings from YAML and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meigma/assets/manifest"
)

// Source kinds.
const (
	SourceFS   = "fs"
	SourceHTTP = "http"
	SourceS3   = "s3"
)

// Config is the top-level configuration of the asset tooling.
type Config struct {
	Platform        string         `yaml:"platform"` // empty = running GOOS
	Mode            string         `yaml:"mode"`     // "", "native" or "manifest"
	Root            string         `yaml:"root"`
	DirectoryPolicy string         `yaml:"directory_policy"`
	ReadConcurrency int            `yaml:"read_concurrency"`
	Manifest        ManifestConfig `yaml:"manifest"`
	Source          SourceConfig   `yaml:"source"`
	Log             LogConfig      `yaml:"log"`
}

// ManifestConfig holds manifest file settings.
type ManifestConfig struct {
	Name   string `yaml:"name"`
	Offset int    `yaml:"offset"`
}

// SourceConfig selects where assets are read from.
type SourceConfig struct {
	Kind string     `yaml:"kind"` // "fs", "http" or "s3"
	Dir  string     `yaml:"dir"`  // local directory for kind "fs"
	HTTP HTTPConfig `yaml:"http"`
	S3   S3Config   `yaml:"s3"`
}

// HTTPConfig holds settings for the HTTP fetch channel.
type HTTPConfig struct {
	Headers  map[string]string `yaml:"headers"`
	Timeout  string            `yaml:"timeout"` // duration string, "0" disables
	MaxBytes int64             `yaml:"max_bytes"`
}

// S3Config holds settings for the object store fetch channel.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Defaults returns a Config with default values applied.
func Defaults() *Config {
	return &Config{
		DirectoryPolicy: "prefix",
		ReadConcurrency: 4,
		Manifest: ManifestConfig{
			Name:   manifest.DefaultFileName,
			Offset: manifest.DefaultOffset,
		},
		Source: SourceConfig{
			Kind: SourceFS,
			Dir:  ".",
			HTTP: HTTPConfig{Timeout: "30s"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates the result. A missing file, or an
// empty path, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides overwrites cfg with any ASSETS_* environment variables
// that are set.
func ApplyEnvOverrides(cfg *Config) {
	str := map[string]*string{
		"ASSETS_PLATFORM":         &cfg.Platform,
		"ASSETS_MODE":             &cfg.Mode,
		"ASSETS_ROOT":             &cfg.Root,
		"ASSETS_DIRECTORY_POLICY": &cfg.DirectoryPolicy,
		"ASSETS_MANIFEST_NAME":    &cfg.Manifest.Name,
		"ASSETS_SOURCE_KIND":      &cfg.Source.Kind,
		"ASSETS_SOURCE_DIR":       &cfg.Source.Dir,
		"ASSETS_HTTP_TIMEOUT":     &cfg.Source.HTTP.Timeout,
		"ASSETS_S3_ENDPOINT":      &cfg.Source.S3.Endpoint,
		"ASSETS_S3_BUCKET":        &cfg.Source.S3.Bucket,
		"ASSETS_S3_PREFIX":        &cfg.Source.S3.Prefix,
		"ASSETS_S3_ACCESS_KEY":    &cfg.Source.S3.AccessKey,
		"ASSETS_S3_SECRET_KEY":    &cfg.Source.S3.SecretKey,
		"ASSETS_S3_REGION":        &cfg.Source.S3.Region,
		"ASSETS_LOG_LEVEL":        &cfg.Log.Level,
		"ASSETS_LOG_FORMAT":       &cfg.Log.Format,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("ASSETS_MANIFEST_OFFSET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Manifest.Offset = n
		}
	}
	if v := os.Getenv("ASSETS_READ_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReadConcurrency = n
		}
	}
	if v := os.Getenv("ASSETS_S3_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Source.S3.UseSSL = b
		}
	}
}

// HTTPTimeout returns the parsed HTTP timeout. Validate has already rejected
// unparseable values; an empty value means no timeout.
func (c *Config) HTTPTimeout() time.Duration {
	d, _ := parseDuration(c.Source.HTTP.Timeout)
	return d
}

// LogLevel returns the slog level named by Log.Level, or info.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
