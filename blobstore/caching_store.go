package blobstore

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"
)

// CachingStore wraps a (typically remote) BlobStore and keeps a copy of
// every blob it reads in a second, local store. Blobs are immutable once
// written, so a cached copy stays valid until the blob is overwritten or
// deleted through this store.
type CachingStore struct {
	inner BlobStore
	cache BlobStore
	group singleflight.Group
}

// NewCachingStore creates a new CachingStore.
func NewCachingStore(inner, cache BlobStore) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: cache,
	}
}

// Open serves name from the cache, filling it from the inner store on a
// miss. Concurrent misses for the same name fetch once.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if b, err := s.cache.Open(ctx, name); err == nil {
		return b, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	_, err, _ := s.group.Do(name, func() (any, error) {
		data, err := ReadAll(ctx, s.inner, name)
		if err != nil {
			return nil, err
		}
		return nil, s.cache.Put(ctx, name, data)
	})
	if err != nil {
		return nil, err
	}
	return s.cache.Open(ctx, name)
}

// Create writes through to the inner store; the cached copy is dropped.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := s.cache.Delete(ctx, name); err != nil {
		return nil, err
	}
	return s.inner.Create(ctx, name)
}

// Put writes through to the inner store and refreshes the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.cache.Delete(ctx, name); err != nil {
		return err
	}
	if err := s.inner.Put(ctx, name, data); err != nil {
		return err
	}
	return s.cache.Put(ctx, name, data)
}

// Delete removes name from both stores.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	if err := s.cache.Delete(ctx, name); err != nil {
		return err
	}
	return s.inner.Delete(ctx, name)
}

// List lists the inner store, which is authoritative.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}
