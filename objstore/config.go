package objstore

import (
	"fmt"

	"github.com/minio/minio-go/v7"
)

// Config holds object store connection settings.
type Config struct {
	// Endpoint is the S3-compatible server address (e.g., "localhost:9000").
	Endpoint string

	// Bucket is the bucket holding the asset bundle.
	Bucket string

	// Prefix is an optional key prefix for every asset (the bundle root).
	Prefix string

	// AccessKey is the access key ID for authentication.
	AccessKey string

	// SecretKey is the secret access key for authentication.
	SecretKey string

	// Region skips bucket location lookups when set.
	Region string

	// UseSSL enables HTTPS connections.
	UseSSL bool

	// Client is an optional pre-configured client.
	// If provided, Endpoint, AccessKey, SecretKey, Region and UseSSL are ignored.
	Client *minio.Client
}

// validate checks the configuration. Either Client or Endpoint plus
// credentials must be provided; Bucket is always required.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if c.Client != nil {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required when client is not provided")
	}
	return nil
}
