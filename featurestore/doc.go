// Package featurestore persists named feature frames to a blob store.
//
// Each frame is written as a self-describing codec snapshot under
// "<name>.molf". A versioned MANIFEST.json blob lists what has been saved,
// with row and column counts, so catalogs can be browsed without decoding
// the snapshots.
//
//	fs := featurestore.New(blobstore.NewLocalStore(dir),
//		featurestore.WithCompression(codec.CompressionZSTD))
//	err := fs.Save(ctx, "train/morgan", fp)
//	fp, err = fs.Load(ctx, "train/morgan")
//
// SaveAll uploads several frames in parallel and updates the manifest once.
package featurestore
