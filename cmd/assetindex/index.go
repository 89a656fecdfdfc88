package main

import (
	"context"
	"fmt"
	"log/slog"
	nethttp "net/http"

	"github.com/meigma/assets"
	assetshttp "github.com/meigma/assets/http"
	"github.com/meigma/assets/internal/config"
	"github.com/meigma/assets/objstore"
	"github.com/meigma/assets/storage"
)

// openIndex builds an Index from cfg, initializes it and waits until it is
// ready. The caller must call Destroy.
func openIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*assets.Index, error) {
	policy, err := assets.ParseDirectoryPolicy(cfg.DirectoryPolicy)
	if err != nil {
		return nil, err
	}

	opts := []assets.Option{
		assets.WithRoot(cfg.Root),
		assets.WithManifestName(cfg.Manifest.Name),
		assets.WithOffset(cfg.Manifest.Offset),
		assets.WithDirectoryPolicy(policy),
		assets.WithReadConcurrency(cfg.ReadConcurrency),
		assets.WithLogger(logger),
	}
	if cfg.Platform != "" {
		opts = append(opts, assets.WithPlatform(cfg.Platform))
	}
	if cfg.Mode != "" {
		mode, err := assets.ParseMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, assets.WithMode(mode))
	}

	source, err := sourceOptions(cfg, logger)
	if err != nil {
		return nil, err
	}
	opts = append(opts, source...)

	ix, err := assets.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := ix.Init(ctx); err != nil {
		return nil, err
	}
	if err := ix.Wait(ctx); err != nil {
		ix.Destroy()
		return nil, err
	}
	logger.Debug("index opened", "mode", ix.Mode().String(), "source", cfg.Source.Kind)
	return ix, nil
}

// sourceOptions wires the configured source as the Index's Storage and/or
// Fetcher. A local directory serves both modes; remote sources serve only
// manifest mode.
func sourceOptions(cfg *config.Config, logger *slog.Logger) ([]assets.Option, error) {
	switch cfg.Source.Kind {
	case config.SourceFS:
		s := storage.NewLocal(cfg.Source.Dir, storage.WithLogger(logger))
		return []assets.Option{assets.WithStorage(s), assets.WithFetcher(s)}, nil

	case config.SourceHTTP:
		httpOpts := []assetshttp.Option{
			assetshttp.WithClient(&nethttp.Client{Timeout: cfg.HTTPTimeout()}),
			assetshttp.WithMaxBytes(cfg.Source.HTTP.MaxBytes),
			assetshttp.WithLogger(logger),
		}
		for k, v := range cfg.Source.HTTP.Headers {
			httpOpts = append(httpOpts, assetshttp.WithHeader(k, v))
		}
		return []assets.Option{assets.WithFetcher(assetshttp.NewFetcher(httpOpts...))}, nil

	case config.SourceS3:
		s3 := cfg.Source.S3
		f, err := objstore.New(objstore.Config{
			Endpoint:  s3.Endpoint,
			Bucket:    s3.Bucket,
			Prefix:    s3.Prefix,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			Region:    s3.Region,
			UseSSL:    s3.UseSSL,
		}, objstore.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("object store: %w", err)
		}
		return []assets.Option{assets.WithFetcher(f)}, nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}
