package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/blobstore"
	"github.com/hupe1980/molframe/blobstore/minio"
	"github.com/hupe1980/molframe/blobstore/s3"
	"github.com/hupe1980/molframe/codec"
	"github.com/hupe1980/molframe/featurestore"
	"github.com/hupe1980/molframe/internal/config"
)

// openBlobStore returns nil for the "none" backend.
func openBlobStore(ctx context.Context, cfg config.StoreConfig) (blobstore.BlobStore, error) {
	var (
		store blobstore.BlobStore
		err   error
	)
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "local":
		store = blobstore.NewLocalStore(cfg.Path)
	case "s3":
		opts := []s3.Option{s3.WithPrefix(cfg.Prefix)}
		if cfg.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.Endpoint))
		}
		store, err = s3.New(ctx, cfg.Bucket, opts...)
	case "minio":
		store, err = minio.Dial(minio.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			Secure:    cfg.Secure,
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
		})
	default:
		return nil, errors.Newf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s store", cfg.Backend)
	}

	if cfg.CacheDir != "" && cfg.Backend != "local" {
		store = blobstore.NewCachingStore(store, blobstore.NewLocalStore(cfg.CacheDir))
	}
	return store, nil
}

// openFeatureStore returns nil when no backend is configured.
func openFeatureStore(ctx context.Context, cfg config.StoreConfig) (*featurestore.Store, error) {
	blobs, err := openBlobStore(ctx, cfg)
	if err != nil || blobs == nil {
		return nil, err
	}
	c, ok := codec.ByName(cfg.Codec)
	if !ok {
		return nil, errors.Newf("unknown codec %q", cfg.Codec)
	}
	comp, err := codec.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	return featurestore.New(blobs, featurestore.WithCodec(c), featurestore.WithCompression(comp)), nil
}
