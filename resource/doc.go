// Package resource implements the Controller that bounds what clustering runs
// may consume.
//
// Three resources are governed:
//
//   - Memory: dense structures such as agglomerative distance matrices and
//     LSH signature stores reserve their size up front (non-blocking, fail-fast)
//   - Workers: concurrent seed+refine trials take a worker slot each
//   - IO: snapshot reads and writes pass through a token bucket
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────┐
//	│                       Controller                         │
//	├─────────────────┬─────────────────┬──────────────────────┤
//	│  Memory Budget  │  Worker Slots   │  IO Rate Limiter     │
//	│  (fail-fast)    │  (semaphore)    │  (token bucket)      │
//	├─────────────────┼─────────────────┼──────────────────────┤
//	│  ReserveMemory  │  AcquireWorker  │  AcquireIO           │
//	│  ReleaseMemory  │  TryAcquire-    │  Writer / Reader     │
//	│  MemoryUsage    │  Worker         │                      │
//	└─────────────────┴─────────────────┴──────────────────────┘
//
// # Memory
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	})
//
//	release, err := rc.ReserveMemory(hierarchy.MatrixBytes(n))
//	if err != nil {
//	    return err // wraps ErrMemoryLimitExceeded
//	}
//	defer release()
//
// # Workers
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # IO
//
//	w := rc.Writer(ctx, file)
//	r := rc.Reader(ctx, file)
//
// All methods are safe for concurrent use, and all of them treat a nil
// *Controller as unlimited.
package resource
