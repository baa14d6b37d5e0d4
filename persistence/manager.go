package persistence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hupe1980/songclust/blobstore"
	"github.com/hupe1980/songclust/codec"
	"github.com/hupe1980/songclust/resource"
)

// Extension is appended to snapshot names that have none.
const Extension = ".scl"

// ManagerOptions configures the persistence manager.
type ManagerOptions struct {
	// Codec is used for new snapshots. Defaults to codec.Default.
	Codec codec.Codec

	// Compression is used for new snapshots.
	Compression Compression

	// ResourceController throttles snapshot IO (optional).
	ResourceController *resource.Controller
}

// Manager saves and loads snapshots through a blob store.
//
// The Manager is safe for concurrent use.
type Manager struct {
	store       blobstore.BlobStore
	codec       codec.Codec
	compression Compression
	rc          *resource.Controller

	mu     sync.RWMutex
	closed bool
}

// NewManager creates a manager on top of store.
func NewManager(store blobstore.BlobStore, opts ManagerOptions) *Manager {
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	return &Manager{
		store:       store,
		codec:       opts.Codec,
		compression: opts.Compression,
		rc:          opts.ResourceController,
	}
}

// Codec returns the codec used for new snapshots.
func (pm *Manager) Codec() codec.Codec {
	return pm.codec
}

// Compression returns the compression used for new snapshots.
func (pm *Manager) Compression() Compression {
	return pm.compression
}

// Save encodes v and stores it under name. It returns the snapshot size.
func (pm *Manager) Save(ctx context.Context, name string, kind Kind, v any) (int64, error) {
	key, err := pm.begin(name)
	if err != nil {
		return 0, err
	}
	defer pm.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	n, err := Encode(pm.rc.Writer(ctx, &buf), kind, v, pm.codec, pm.compression)
	if err != nil {
		return 0, err
	}
	if err := pm.store.Put(ctx, key, buf.Bytes()); err != nil {
		return 0, fmt.Errorf("persistence: save %s: %w", key, err)
	}
	return n, nil
}

// Load reads the snapshot stored under name into v.
func (pm *Manager) Load(ctx context.Context, name string, kind Kind, v any) (Header, error) {
	key, err := pm.begin(name)
	if err != nil {
		return Header{}, err
	}
	defer pm.mu.RUnlock()

	blob, err := pm.store.Open(ctx, key)
	if err != nil {
		return Header{}, fmt.Errorf("persistence: load %s: %w", key, err)
	}
	defer blob.Close()

	var r io.Reader
	if m, ok := blob.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return Header{}, err
		}
		if err := pm.rc.AcquireIO(ctx, len(data)); err != nil {
			return Header{}, err
		}
		r = bytes.NewReader(data)
	} else {
		r = pm.rc.Reader(ctx, blobstore.NewReader(blob))
	}

	h, err := Decode(r, kind, v)
	if err != nil {
		return h, fmt.Errorf("persistence: load %s: %w", key, err)
	}
	return h, nil
}

// Stat reads only the header of the snapshot stored under name.
func (pm *Manager) Stat(ctx context.Context, name string) (Header, error) {
	key, err := pm.begin(name)
	if err != nil {
		return Header{}, err
	}
	defer pm.mu.RUnlock()

	blob, err := pm.store.Open(ctx, key)
	if err != nil {
		return Header{}, fmt.Errorf("persistence: stat %s: %w", key, err)
	}
	defer blob.Close()

	return ReadHeader(blobstore.NewReader(blob))
}

// Delete removes the snapshot stored under name.
func (pm *Manager) Delete(ctx context.Context, name string) error {
	key, err := pm.begin(name)
	if err != nil {
		return err
	}
	defer pm.mu.RUnlock()

	return pm.store.Delete(ctx, key)
}

// List returns the names of all snapshots in the store.
func (pm *Manager) List(ctx context.Context) ([]string, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	if pm.closed {
		return nil, ErrManagerClosed
	}

	names, err := pm.store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, n := range names {
		if strings.HasSuffix(n, Extension) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Close marks the manager closed. The blob store is owned by the caller.
func (pm *Manager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.closed = true
	return nil
}

// begin takes the read lock and resolves the blob key for name. On success
// the caller must release the lock.
func (pm *Manager) begin(name string) (string, error) {
	key, err := snapshotKey(name)
	if err != nil {
		return "", err
	}
	pm.mu.RLock()
	if pm.closed {
		pm.mu.RUnlock()
		return "", ErrManagerClosed
	}
	return key, nil
}

func snapshotKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasSuffix(name, "/") || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSnapshotName, name)
	}
	if !strings.HasSuffix(name, Extension) {
		name += Extension
	}
	return name, nil
}
