package persistence

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/songclust/blobstore"
	"github.com/hupe1980/songclust/codec"
	"github.com/hupe1980/songclust/resource"
)

type model struct {
	Centers    [][]float64 `json:"centers"`
	Assignment []int       `json:"assignment"`
}

func bigModel() model {
	m := model{Assignment: make([]int, 2000)}
	for i := range 50 {
		m.Centers = append(m.Centers, []float64{float64(i % 3), 1.5, 2.25})
	}
	for i := range m.Assignment {
		m.Assignment[i] = i % 4
	}
	return m
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		codec codec.Codec
		comp  Compression
	}{
		{"json/none", codec.JSON{}, CompressionNone},
		{"go-json/none", codec.GoJSON{}, CompressionNone},
		{"go-json/lz4", codec.GoJSON{}, CompressionLZ4},
		{"json/zstd", codec.JSON{}, CompressionZSTD},
		{"default/lz4", nil, CompressionLZ4},
	}

	in := bigModel()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := Encode(&buf, KindKMeans, in, tt.codec, tt.comp)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)
			assert.Equal(t, "SCL1", buf.String()[:4])

			var out model
			h, err := Decode(&buf, KindKMeans, &out)
			require.NoError(t, err)
			assert.Equal(t, in, out)
			assert.Equal(t, tt.comp, h.Compression)
			assert.Equal(t, KindKMeans, h.Kind)
			assert.Equal(t, Version, h.Version)
			if tt.codec != nil {
				assert.Equal(t, tt.codec.Name(), h.Codec)
			} else {
				assert.Equal(t, codec.Default.Name(), h.Codec)
			}
			if tt.comp != CompressionNone {
				assert.Less(t, h.Length, h.RawLength)
			}
		})
	}
}

func TestEncode_IncompressibleStoredRaw(t *testing.T) {
	var buf bytes.Buffer
	_, err := Encode(&buf, KindMinHash, map[string]int{"a": 1}, codec.JSON{}, CompressionZSTD)
	require.NoError(t, err)

	h, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, h.Compression)
	assert.Equal(t, h.RawLength, h.Length)
	assert.Equal(t, buf.Len(), h.Size()+int(h.Length))
}

func TestDecode_Errors(t *testing.T) {
	var buf bytes.Buffer
	_, err := Encode(&buf, KindLSH, bigModel(), codec.GoJSON{}, CompressionLZ4)
	require.NoError(t, err)
	good := buf.Bytes()

	mutate := func(f func(b []byte) []byte) []byte {
		return f(bytes.Clone(good))
	}

	tests := []struct {
		name  string
		data  []byte
		kind  Kind
		check func(t *testing.T, err error)
	}{
		{"kind", good, KindMinHash, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrKindMismatch) }},
		{"magic", mutate(func(b []byte) []byte { b[0] = 'X'; return b }), KindLSH, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrInvalidMagic)
		}},
		{"version", mutate(func(b []byte) []byte { b[4] = 9; return b }), KindLSH, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnsupportedVersion)
		}},
		{"header truncated", good[:6], KindLSH, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrTruncated) }},
		{"payload truncated", good[:len(good)-3], KindLSH, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrTruncated)
		}},
		{"corrupt payload", mutate(func(b []byte) []byte { b[len(b)-1] ^= 0xFF; return b }), KindLSH, func(t *testing.T, err error) {
			assert.True(t, IsChecksumMismatch(err), "got %v", err)
		}},
		{"empty", nil, KindLSH, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrTruncated) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out model
			_, err := Decode(bytes.NewReader(tt.data), tt.kind, &out)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestDecode_UnknownCodec(t *testing.T) {
	h := Header{Version: Version, Kind: KindKMeans, Codec: "gob", RawLength: 2, Length: 2}
	data := append(appendHeader(nil, h), '{', '}')

	var out model
	_, err := Decode(bytes.NewReader(data), KindKMeans, &out)
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, " LZ4": CompressionLZ4, "zstd": CompressionZSTD} {
		got, err := ParseCompression(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)

	assert.Equal(t, "lz4", CompressionLZ4.String())
	assert.Equal(t, "Compression(7)", Compression(7).String())
	assert.Equal(t, "hierarchy", KindHierarchy.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	stores := map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			pm := NewManager(store, ManagerOptions{
				Compression:        CompressionZSTD,
				ResourceController: resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 30}),
			})
			assert.Equal(t, codec.Default, pm.Codec())
			assert.Equal(t, CompressionZSTD, pm.Compression())

			in := bigModel()
			n, err := pm.Save(ctx, "models/run1", KindKMeans, in)
			require.NoError(t, err)
			assert.Positive(t, n)

			var out model
			h, err := pm.Load(ctx, "models/run1.scl", KindKMeans, &out)
			require.NoError(t, err)
			assert.Equal(t, in, out)
			assert.Equal(t, CompressionZSTD, h.Compression)

			st, err := pm.Stat(ctx, "models/run1")
			require.NoError(t, err)
			assert.Equal(t, h, st)

			require.NoError(t, store.Put(ctx, "notes.txt", []byte("x")))
			names, err := pm.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"models/run1.scl"}, names)

			require.NoError(t, pm.Delete(ctx, "models/run1"))
			_, err = pm.Load(ctx, "models/run1", KindKMeans, &out)
			assert.ErrorIs(t, err, blobstore.ErrNotFound)

			require.NoError(t, pm.Close())
			_, err = pm.Save(ctx, "x", KindKMeans, in)
			assert.ErrorIs(t, err, ErrManagerClosed)
			_, err = pm.List(ctx)
			assert.ErrorIs(t, err, ErrManagerClosed)
		})
	}
}

func TestManager_CorruptedBlob(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	pm := NewManager(store, ManagerOptions{})

	_, err := pm.Save(ctx, "m", KindHierarchy, bigModel())
	require.NoError(t, err)

	blob, err := store.Open(ctx, "m.scl")
	require.NoError(t, err)
	data, err := blob.(blobstore.Mappable).Bytes()
	require.NoError(t, err)
	bad := bytes.Clone(data)
	bad[len(bad)/2] ^= 0x01
	require.NoError(t, store.Put(ctx, "m.scl", bad))

	var out model
	_, err = pm.Load(ctx, "m", KindHierarchy, &out)
	require.Error(t, err)
	assert.True(t, IsChecksumMismatch(err))
}

func TestManager_InvalidNames(t *testing.T) {
	pm := NewManager(blobstore.NewMemoryStore(), ManagerOptions{})
	for _, name := range []string{"", "  ", "dir/", "../escape"} {
		_, err := pm.Save(context.Background(), name, KindLSH, 1)
		assert.ErrorIs(t, err, ErrInvalidSnapshotName, name)
	}
}

func TestManager_CancelledSave(t *testing.T) {
	store := blobstore.NewMemoryStore()
	pm := NewManager(store, ManagerOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pm.Save(ctx, "m", KindLSH, bigModel())
	assert.ErrorIs(t, err, context.Canceled)

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
