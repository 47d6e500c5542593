// Package minio stores feature frame snapshots in MinIO or any other
// S3-compatible service (Ceph, Garage, SeaweedFS) through minio-go.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    return err
//	}
//	fs := featurestore.New(minioblob.NewStore(client, "chem", "features/"))
//
// Snapshots are uploaded with a single PutObject and read with ranged
// GetObject calls. The molframe CLI selects this backend with
// store.backend=minio and store.endpoint.
package minio
