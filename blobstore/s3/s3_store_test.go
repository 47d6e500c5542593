package s3

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/molframe/blobstore"
	"github.com/hupe1980/molframe/featurestore"
	"github.com/hupe1980/molframe/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	prefix := fmt.Sprintf("test-molframe-%d/", time.Now().UnixNano())
	store := NewStore(s3.NewFromConfig(cfg), bucket, prefix)
	fs := featurestore.New(store)

	t.Run("SaveLoad", func(t *testing.T) {
		// Put goes through the upload manager.
		want := testutil.NewRNG(1).FloatFrame(4096, 256, "")
		require.NoError(t, fs.Save(ctx, "run/morgan", want))

		names, err := store.List(ctx, "run/")
		require.NoError(t, err)
		assert.Equal(t, []string{"run/morgan.molf"}, names)

		got, err := fs.Load(ctx, "run/morgan")
		require.NoError(t, err)
		assert.Equal(t, want.Names(), got.Names())
		assert.Equal(t, want.Index(), got.Index())

		b, err := store.Open(ctx, "run/morgan.molf")
		require.NoError(t, err)
		head := make([]byte, 5)
		_, err = b.ReadAt(ctx, head, 0)
		require.NoError(t, err)
		assert.Equal(t, "MOLF\x01", string(head))
		require.NoError(t, b.Close())

		require.NoError(t, fs.Delete(ctx, "run/morgan"))
		require.NoError(t, store.Delete(ctx, featurestore.ManifestName))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "nonexistent.molf")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
