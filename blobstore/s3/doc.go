// Package s3 stores feature frame snapshots in Amazon S3.
//
//	store, err := s3.New(ctx, "chem", s3.WithPrefix("features/"), s3.WithRegion("eu-west-1"))
//	if err != nil {
//	    return err
//	}
//	fs := featurestore.New(store)
//
// Large snapshots go through the multipart upload manager; reads use
// ranged GetObject calls and listing follows ListObjectsV2 pagination.
package s3
