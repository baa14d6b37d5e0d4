package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]BlobStore {
	return map[string]BlobStore{
		"local":  NewLocalStore(t.TempDir()),
		"memory": NewMemoryStore(),
	}
}

func TestBlobStore_Lifecycle(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			data := []byte("hello world, this is a snapshot blob")

			require.NoError(t, store.Put(ctx, "models/kmeans.scl", data))
			require.NoError(t, store.Put(ctx, "models/lsh.scl", []byte("x")))
			require.NoError(t, store.Put(ctx, "other.scl", []byte("y")))

			blob, err := store.Open(ctx, "models/kmeans.scl")
			require.NoError(t, err)
			defer blob.Close()

			assert.Equal(t, int64(len(data)), blob.Size())

			buf := make([]byte, 5)
			n, err := blob.ReadAt(buf, 6)
			require.NoError(t, err)
			assert.Equal(t, 5, n)
			assert.Equal(t, "world", string(buf))

			n, err = blob.ReadAt(make([]byte, 4), int64(len(data))-2)
			assert.Equal(t, 2, n)
			assert.Equal(t, io.EOF, err)

			all, err := io.ReadAll(NewReader(blob))
			require.NoError(t, err)
			assert.Equal(t, data, all)

			m, ok := blob.(Mappable)
			require.True(t, ok)
			b, err := m.Bytes()
			require.NoError(t, err)
			assert.Equal(t, data, b)

			names, err := store.List(ctx, "models/")
			require.NoError(t, err)
			assert.Equal(t, []string{"models/kmeans.scl", "models/lsh.scl"}, names)

			names, err = store.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, names, 3)

			require.NoError(t, store.Put(ctx, "other.scl", []byte("replaced")))
			replaced, err := store.Open(ctx, "other.scl")
			require.NoError(t, err)
			assert.Equal(t, int64(8), replaced.Size())
			require.NoError(t, replaced.Close())

			require.NoError(t, store.Delete(ctx, "other.scl"))
			require.NoError(t, store.Delete(ctx, "other.scl"))
			_, err = store.Open(ctx, "other.scl")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStore_PutCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "a", data))
	data[0] = 'z'

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	b, err := blob.(Mappable).Bytes()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))
}

func TestLocalStore_AtomicPut(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStore(root)

	require.NoError(t, store.Put(ctx, "a.scl", []byte("data")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")
	assert.Equal(t, "a.scl", entries[0].Name())

	// A stray temporary file is not listed.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tmp-b.scl-123"), nil, 0o600))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.scl"}, names)
}

func TestLocalStore_MissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = store.Open(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_EmptyBlob(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "empty", nil))

	blob, err := store.Open(ctx, "empty")
	require.NoError(t, err)
	defer blob.Close()
	assert.Equal(t, int64(0), blob.Size())
}
