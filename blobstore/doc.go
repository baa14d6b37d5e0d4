// Package blobstore abstracts where snapshots live.
//
// A BlobStore holds immutable, whole-object blobs addressed by name.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local directory; reads are memory-mapped
//   - MemoryStore: in-process map, for tests and ephemeral runs
//   - s3.Store: Amazon S3 (aws-sdk-go-v2, multipart uploads)
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Open must return an error satisfying errors.Is(err, ErrNotFound) for a
// missing blob. Delete of a missing blob is not an error.
package blobstore
