package songclust

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/songclust/blobstore"
	"github.com/hupe1980/songclust/codec"
	"github.com/hupe1980/songclust/persistence"
	"github.com/hupe1980/songclust/testutil"
)

func TestSnapshots_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(12)
	ds, _ := rng.ClusteredDataset(3, 20, 6, 0.1)

	for name, store := range map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	} {
		t.Run(name, func(t *testing.T) {
			metrics := &BasicMetricsCollector{}
			snaps := NewSnapshots(store,
				WithCodec(codec.JSON{}),
				WithCompression(persistence.CompressionLZ4),
				WithMetricsCollector(metrics),
			)
			defer snaps.Close()

			t.Run("clustering", func(t *testing.T) {
				c, err := KMeans(ctx, ds, KMeansConfig{K: 3}, WithSeed(1))
				require.NoError(t, err)
				require.NoError(t, snaps.SaveClustering(ctx, "kmeans", c))

				got, err := snaps.LoadClustering(ctx, "kmeans")
				require.NoError(t, err)
				assert.Equal(t, c, got)
			})

			t.Run("partition", func(t *testing.T) {
				p, err := Agglomerate(ctx, ds, 3, MeanLinkage)
				require.NoError(t, err)
				require.NoError(t, snaps.SavePartition(ctx, "hier", p))

				got, err := snaps.LoadPartition(ctx, "hier")
				require.NoError(t, err)
				assert.Equal(t, p, got)
			})

			t.Run("lsh", func(t *testing.T) {
				idx, err := NewLSH(LSHParams{Tau: 0.4, T: 24, R: 3, B: 8, Euclidean: true}, WithSeed(2))
				require.NoError(t, err)
				require.NoError(t, idx.HashData(ctx, ds))

				require.NoError(t, snaps.SaveLSH(ctx, "lsh", idx))
				restored, err := snaps.LoadLSH(ctx, "lsh")
				require.NoError(t, err)

				assert.Equal(t, idx.Params(), restored.Params())
				assert.Equal(t, idx.Len(), restored.Len())
				for i := range ds.Len() {
					want, err := idx.QueryAllSimilar(ctx, ds.Row(i))
					require.NoError(t, err)
					got, err := restored.QueryAllSimilar(ctx, ds.Row(i))
					require.NoError(t, err)
					assert.Equal(t, want, got, "query %d", i)
				}
			})

			t.Run("minhash", func(t *testing.T) {
				mh, err := NewMinHash(32, 1<<20)
				require.NoError(t, err)
				require.NoError(t, mh.Run(ctx, [][]string{{"a", "b", "c"}, {"b", "c", "d"}, {"x"}}))

				require.NoError(t, snaps.SaveMinHash(ctx, "mh", mh))
				restored, err := snaps.LoadMinHash(ctx, "mh")
				require.NoError(t, err)

				want, err := mh.GetSimilarity(0, 1)
				require.NoError(t, err)
				got, err := restored.GetSimilarity(0, 1)
				require.NoError(t, err)
				assert.Equal(t, want, got)

				// Restored estimators keep hashing consistently.
				a, err := mh.SimilarityOf([]string{"q", "r"}, []string{"r", "s"})
				require.NoError(t, err)
				b, err := restored.SimilarityOf([]string{"q", "r"}, []string{"r", "s"})
				require.NoError(t, err)
				assert.Equal(t, a, b)
			})

			names, err := snaps.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"hier.scl", "kmeans.scl", "lsh.scl", "mh.scl"}, names)

			h, err := snaps.Stat(ctx, "lsh")
			require.NoError(t, err)
			assert.Equal(t, persistence.KindLSH, h.Kind)
			assert.Equal(t, "json", h.Codec)

			_, err = snaps.LoadPartition(ctx, "kmeans")
			assert.ErrorIs(t, err, persistence.ErrKindMismatch)

			require.NoError(t, snaps.Delete(ctx, "mh"))
			_, err = snaps.LoadMinHash(ctx, "mh")
			assert.ErrorIs(t, err, blobstore.ErrNotFound)

			stats := metrics.GetStats()
			assert.Equal(t, int64(10), stats.SnapshotCount)
			assert.Equal(t, int64(2), stats.SnapshotErrors)
			assert.Positive(t, stats.SnapshotBytes)
		})
	}
}

func TestSnapshots_Errors(t *testing.T) {
	ctx := context.Background()
	snaps := NewSnapshots(blobstore.NewMemoryStore())

	idx, err := NewLSH(LSHParams{Tau: 0.5, T: 4, R: 2, B: 2})
	require.NoError(t, err)
	assert.ErrorIs(t, snaps.SaveLSH(ctx, "empty", idx), ErrNotFitted)

	assert.ErrorIs(t, snaps.SaveClustering(ctx, "", &Clustering{}), ErrInvalidArgument)

	require.NoError(t, snaps.Close())
	_, err = snaps.List(ctx)
	assert.ErrorIs(t, err, persistence.ErrManagerClosed)
}
