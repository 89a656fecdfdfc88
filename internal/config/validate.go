package config

import (
	"fmt"
	"strings"

	"github.com/meigma/assets"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a
// *ValidationError listing every problem found.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateIndex(cfg, ve)
	validateSource(cfg, ve)
	validateLog(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateIndex(cfg *Config, ve *ValidationError) {
	if cfg.Mode != "" {
		if _, err := assets.ParseMode(cfg.Mode); err != nil {
			ve.Add("mode: must be native or manifest, got %q", cfg.Mode)
		}
	}
	if _, err := assets.ParseDirectoryPolicy(cfg.DirectoryPolicy); err != nil {
		ve.Add("directory_policy: must be prefix, segment or unsupported, got %q", cfg.DirectoryPolicy)
	}
	if cfg.ReadConcurrency < 1 {
		ve.Add("read_concurrency: must be at least 1, got %d", cfg.ReadConcurrency)
	}
	if cfg.Manifest.Name == "" {
		ve.Add("manifest.name: required")
	}
	if strings.Contains(cfg.Manifest.Name, "/") {
		ve.Add("manifest.name: must be a bare file name, got %q", cfg.Manifest.Name)
	}
	if cfg.Manifest.Offset < 0 {
		ve.Add("manifest.offset: must be non-negative, got %d", cfg.Manifest.Offset)
	}
}

func validateSource(cfg *Config, ve *ValidationError) {
	src := cfg.Source
	switch src.Kind {
	case SourceFS:
		if src.Dir == "" {
			ve.Add("source.dir: required for kind %q", SourceFS)
		}
	case SourceHTTP:
		if _, err := parseDuration(src.HTTP.Timeout); err != nil {
			ve.Add("source.http.timeout: %v", err)
		}
		if src.HTTP.MaxBytes < 0 {
			ve.Add("source.http.max_bytes: must be non-negative, got %d", src.HTTP.MaxBytes)
		}
		if strings.EqualFold(cfg.Mode, "native") {
			ve.Add("source.kind: %q cannot serve native mode", SourceHTTP)
		}
	case SourceS3:
		if src.S3.Endpoint == "" {
			ve.Add("source.s3.endpoint: required for kind %q", SourceS3)
		}
		if src.S3.Bucket == "" {
			ve.Add("source.s3.bucket: required for kind %q", SourceS3)
		}
		if src.S3.AccessKey == "" || src.S3.SecretKey == "" {
			ve.Add("source.s3: access_key and secret_key are required")
		}
		if strings.EqualFold(cfg.Mode, "native") {
			ve.Add("source.kind: %q cannot serve native mode", SourceS3)
		}
	default:
		ve.Add("source.kind: must be fs, http or s3, got %q", src.Kind)
	}
}

func validateLog(cfg *Config, ve *ValidationError) {
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		ve.Add("log.level: unknown level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		ve.Add("log.format: must be text or json, got %q", cfg.Log.Format)
	}
}
