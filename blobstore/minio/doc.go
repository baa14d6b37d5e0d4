// Package minio provides a BlobStore backed by the MinIO client.
//
// It works with MinIO and other S3-compatible services (Ceph, Garage,
// SeaweedFS) and does not pull in the AWS SDK.
//
//	store, err := minio.New("localhost:9000", "snapshots",
//	    minio.WithCredentials("minioadmin", "minioadmin"),
//	    minio.WithPrefix("songclust/"),
//	)
//
// Without WithCredentials the MINIO_ACCESS_KEY / MINIO_SECRET_KEY and then
// AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY environment variables are used.
// Use NewStore to wrap an existing client.
package minio
