// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("snapshots/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// Credentials and region come from the default AWS configuration chain
// (environment, shared config, IMDS) unless overridden by options. Use
// NewStore to wrap an existing client.
//
// Uploads go through the s3 manager uploader, which switches to multipart
// uploads for large snapshots. Reads are ranged GETs.
package s3
