// Package objstore provides a fetch channel backed by an S3-compatible
// object store.
//
// Asset bundles published to a bucket behave like the remote-fetch-only
// archives the manifest exists for: objects can be fetched whole, and the
// manifest replaces listing.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Scheme prefixes fully qualified object URLs ("s3://bucket/key").
const Scheme = "s3://"

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("objstore: object not found")

// Fetcher retrieves whole objects from a bucket.
// It satisfies assets.Fetcher.
type Fetcher struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher from cfg.
func New(cfg Config, opts ...Option) (*Fetcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
	}

	f := &Fetcher{
		client: client,
		bucket: cfg.Bucket,
		prefix: normalizePrefix(cfg.Prefix),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (f *Fetcher) log() *slog.Logger {
	if f.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.logger
}

// Fetch downloads the object named by url. A URL of the form
// "s3://bucket/key" addresses the object directly; anything else is treated as
// a key relative to the configured prefix in the configured bucket.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	bucket, key := f.Resolve(url)

	obj, err := f.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translate(bucket, key, err)
	}
	f.log().Debug("fetched object", "bucket", bucket, "key", key, "size", len(data))
	return data, nil
}

// Resolve maps a fetch URL to the bucket and object key it addresses.
func (f *Fetcher) Resolve(url string) (bucket, key string) {
	if rest, ok := strings.CutPrefix(url, Scheme); ok {
		bucket, key, _ = strings.Cut(rest, "/")
		return bucket, strings.TrimLeft(key, "/")
	}
	return f.bucket, joinKey(f.prefix, url)
}

func translate(bucket, key string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}
	return fmt.Errorf("get object %s/%s: %w", bucket, key, err)
}

// normalizePrefix uses forward slashes and trims surrounding slashes.
func normalizePrefix(prefix string) string {
	return strings.Trim(strings.ReplaceAll(prefix, `\`, "/"), "/")
}

func joinKey(prefix, name string) string {
	name = strings.TrimLeft(name, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
