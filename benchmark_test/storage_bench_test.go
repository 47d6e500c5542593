package benchmark_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/hupe1980/molframe"
	"github.com/hupe1980/molframe/blobstore"
	"github.com/hupe1980/molframe/codec"
	"github.com/hupe1980/molframe/featurestore"
	"github.com/hupe1980/molframe/frame"
)

// LatencyStore wraps a BlobStore and adds artificial latency to Open.
// It also returns a LatencyBlob that adds latency to reads.
type LatencyStore struct {
	base    blobstore.BlobStore
	latency time.Duration
}

func (s *LatencyStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	time.Sleep(s.latency / 2) // Overhead for metadata check
	b, err := s.base.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &LatencyBlob{base: b, latency: s.latency}, nil
}

func (s *LatencyStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	return s.base.Create(ctx, name)
}

func (s *LatencyStore) Put(ctx context.Context, name string, data []byte) error {
	return s.base.Put(ctx, name, data)
}

func (s *LatencyStore) Delete(ctx context.Context, name string) error {
	return s.base.Delete(ctx, name)
}

func (s *LatencyStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.base.List(ctx, prefix)
}

type LatencyBlob struct {
	base    blobstore.Blob
	latency time.Duration
}

func (b *LatencyBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	time.Sleep(b.latency)
	return b.base.ReadAt(ctx, p, off)
}

func (b *LatencyBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	time.Sleep(b.latency)
	return b.base.ReadRange(ctx, off, length)
}

func (b *LatencyBlob) Size() int64  { return b.base.Size() }
func (b *LatencyBlob) Close() error { return b.base.Close() }

func fingerprints(b *testing.B) *frame.Frame {
	b.Helper()
	fp, err := molframe.MorganFingerprint(benchMols(b, sizeSmall), "mol", molframe.WithKind(molframe.KindBits))
	if err != nil {
		b.Fatal(err)
	}
	return fp
}

func BenchmarkFeatureStore_Save(b *testing.B) {
	ctx := context.Background()
	fp := fingerprints(b)

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		for _, comp := range []codec.Compression{codec.CompressionNone, codec.CompressionLZ4, codec.CompressionZSTD} {
			b.Run(fmt.Sprintf("%s/%s", c.Name(), comp), func(b *testing.B) {
				s := featurestore.New(blobstore.NewMemoryStore(), featurestore.WithCodec(c), featurestore.WithCompression(comp))

				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if err := s.Save(ctx, "morgan", fp); err != nil {
						b.Fatal(err)
					}
				}
				b.StopTimer()

				m, err := s.Manifest(ctx)
				if err != nil {
					b.Fatal(err)
				}
				b.ReportMetric(float64(m.Entries["morgan"].Size), "bytes")
			})
		}
	}
}

func BenchmarkFeatureStore_LoadCached(b *testing.B) {
	ctx := context.Background()
	fp := fingerprints(b)

	remote := &LatencyStore{base: blobstore.NewMemoryStore(), latency: time.Millisecond}
	if err := featurestore.New(remote).Save(ctx, "morgan", fp); err != nil {
		b.Fatal(err)
	}

	stores := map[string]blobstore.BlobStore{
		"direct": remote,
		"cached": blobstore.NewCachingStore(remote, blobstore.NewMemoryStore()),
	}
	for name, blobs := range stores {
		b.Run(name, func(b *testing.B) {
			s := featurestore.New(blobs)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.Load(ctx, "morgan"); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
