package featurestore

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/molframe/blobstore"
	"github.com/samber/lo"
)

const (
	ManifestName   = "MANIFEST.json"
	CurrentVersion = 1
)

// Manifest describes the frames held by a store.
type Manifest struct {
	Version int              `json:"version"`
	ID      uint64           `json:"id"`
	Entries map[string]Entry `json:"entries"`
}

// Entry describes a single saved frame.
type Entry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"` // Relative to the store root
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	Codec       string    `json:"codec"`
	Compression string    `json:"compression"`
	Size        int       `json:"size"`
	SavedAt     time.Time `json:"saved_at"`
}

// Sorted returns the entries ordered by name, optionally filtered by prefix.
func (m *Manifest) Sorted(prefix string) []Entry {
	entries := lo.Filter(lo.Values(m.Entries), func(e Entry, _ int) bool {
		return strings.HasPrefix(e.Name, prefix)
	})
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries
}

// loadManifest reads the manifest; a missing one is an empty manifest.
func (s *Store) loadManifest(ctx context.Context) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, s.blobs, ManifestName)
	if errors.Is(err, blobstore.ErrNotFound) {
		return &Manifest{Version: CurrentVersion, Entries: map[string]Entry{}}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var m Manifest
	if err := s.codec.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "decode manifest")
	}
	if m.Version != CurrentVersion {
		return nil, errors.Newf("unsupported manifest version: %d (expected %d)", m.Version, CurrentVersion)
	}
	if m.Entries == nil {
		m.Entries = map[string]Entry{}
	}
	return &m, nil
}

// saveManifest bumps the manifest ID and writes it with a single Put.
func (s *Store) saveManifest(ctx context.Context, m *Manifest) error {
	m.Version = CurrentVersion
	m.ID++

	data, err := s.codec.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "encode manifest")
	}
	return errors.Wrap(s.blobs.Put(ctx, ManifestName, data), "write manifest")
}

// updateManifest applies fn to the current manifest and saves the result.
func (s *Store) updateManifest(ctx context.Context, fn func(*Manifest)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadManifest(ctx)
	if err != nil {
		return err
	}
	fn(m)
	return s.saveManifest(ctx, m)
}
