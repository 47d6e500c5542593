package featurestore

import (
	"context"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/blobstore"
	"github.com/hupe1980/molframe/codec"
	"github.com/hupe1980/molframe/frame"
	"golang.org/x/sync/errgroup"
)

const snapshotExt = ".molf"

var (
	// ErrFrameNotFound is returned when no frame is saved under a name.
	ErrFrameNotFound = errors.New("feature frame not found")
	// ErrInvalidName is returned for names that cannot be stored.
	ErrInvalidName = errors.New("invalid feature frame name")
)

// Store saves and loads feature frames.
type Store struct {
	blobs       blobstore.BlobStore
	codec       codec.Codec
	compression codec.Compression
	parallelism int
	now         func() time.Time
	mu          sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the snapshot codec. Nil keeps codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithCompression sets the snapshot block compression.
func WithCompression(c codec.Compression) Option {
	return func(s *Store) { s.compression = c }
}

// WithParallelism bounds concurrent uploads in SaveAll. Values < 1 mean
// unbounded.
func WithParallelism(n int) Option {
	return func(s *Store) { s.parallelism = n }
}

// New creates a Store on top of blobs.
func New(blobs blobstore.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:       blobs,
		codec:       codec.Default,
		compression: codec.CompressionZSTD,
		parallelism: 4,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateName(name string) error {
	switch {
	case name == "":
		return errors.Wrap(ErrInvalidName, "empty name")
	case strings.HasPrefix(name, "/"), path.Clean(name) != name:
		return errors.Wrapf(ErrInvalidName, "%q is not a clean relative path", name)
	case strings.HasPrefix(name, "../") || name == "..":
		return errors.Wrapf(ErrInvalidName, "%q escapes the store", name)
	}
	return nil
}

func blobName(name string) string { return name + snapshotExt }

// put encodes and uploads f without touching the manifest.
func (s *Store) put(ctx context.Context, name string, f *frame.Frame) (Entry, error) {
	if err := validateName(name); err != nil {
		return Entry{}, err
	}
	if f == nil {
		return Entry{}, errors.Newf("frame %q is nil", name)
	}

	data, err := codec.EncodeFrame(f, s.codec, s.compression)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "encode %s", name)
	}
	if err := s.blobs.Put(ctx, blobName(name), data); err != nil {
		return Entry{}, errors.Wrapf(err, "write %s", name)
	}

	return Entry{
		Name:        name,
		Path:        blobName(name),
		Rows:        f.Len(),
		Columns:     len(f.Names()),
		Codec:       s.codec.Name(),
		Compression: s.compression.String(),
		Size:        len(data),
		SavedAt:     s.now().UTC(),
	}, nil
}

// Save writes f under name, replacing any frame saved there before.
func (s *Store) Save(ctx context.Context, name string, f *frame.Frame) error {
	e, err := s.put(ctx, name, f)
	if err != nil {
		return err
	}
	return s.updateManifest(ctx, func(m *Manifest) { m.Entries[name] = e })
}

// SaveAll writes all frames concurrently and records them in one manifest
// update. On error nothing is added to the manifest; snapshots that were
// already uploaded are left in place and are overwritten by the next save.
func (s *Store) SaveAll(ctx context.Context, frames map[string]*frame.Frame) error {
	for name := range frames {
		if err := validateName(name); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.parallelism > 0 {
		g.SetLimit(s.parallelism)
	}

	var mu sync.Mutex
	entries := make(map[string]Entry, len(frames))
	for name, f := range frames {
		g.Go(func() error {
			e, err := s.put(gctx, name, f)
			if err != nil {
				return err
			}
			mu.Lock()
			entries[name] = e
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return s.updateManifest(ctx, func(m *Manifest) {
		for name, e := range entries {
			m.Entries[name] = e
		}
	})
}

// Load reads the frame saved under name.
func (s *Store) Load(ctx context.Context, name string) (*frame.Frame, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := blobstore.ReadAll(ctx, s.blobs, blobName(name))
	if errors.Is(err, blobstore.ErrNotFound) {
		return nil, errors.Wrapf(ErrFrameNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	f, err := codec.DecodeFrame(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	return f, nil
}

// List returns the manifest entries whose name starts with prefix, by name.
func (s *Store) List(ctx context.Context, prefix string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx)
	if err != nil {
		return nil, err
	}
	return m.Sorted(prefix), nil
}

// Manifest returns the current manifest.
func (s *Store) Manifest(ctx context.Context) (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadManifest(ctx)
}

// Delete removes the frame saved under name. Deleting an unknown name is
// not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, blobName(name)); err != nil {
		return errors.Wrapf(err, "delete %s", name)
	}
	return s.updateManifest(ctx, func(m *Manifest) { delete(m.Entries, name) })
}
