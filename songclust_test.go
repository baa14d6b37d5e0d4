package songclust

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/songclust/dataset"
	"github.com/hupe1980/songclust/resource"
	"github.com/hupe1980/songclust/testutil"
)

func twoBlobs() *dataset.Dataset {
	return dataset.MustNew([][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}})
}

// samePartition reports whether got groups points exactly like want, up to
// a renaming of labels.
func samePartition(want, got []int) bool {
	if len(want) != len(got) {
		return false
	}
	fwd := map[int]int{}
	back := map[int]int{}
	for i := range want {
		if g, ok := fwd[want[i]]; ok && g != got[i] {
			return false
		}
		if w, ok := back[got[i]]; ok && w != want[i] {
			return false
		}
		fwd[want[i]] = got[i]
		back[got[i]] = want[i]
	}
	return true
}

func TestKMeans_TwoBlobs(t *testing.T) {
	ctx := context.Background()

	res, err := KMeans(ctx, twoBlobs(), KMeansConfig{
		K:          2,
		Seeder:     Gonzalez,
		Update:     MeanUpdate,
		Start:      0,
		FixedStart: true,
	}, WithSeed(1))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 3}, res.Seeds)
	assert.Equal(t, [][]float64{{0, 0.5}, {10, 10.5}}, res.Centers)
	assert.Equal(t, []int{0, 0, 1, 1}, res.Assignment)
	assert.True(t, res.Converged)
	assert.InDelta(t, 0.25, res.Inertia, 1e-12)
	assert.Equal(t, 2, res.K())
	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, res.Members())
}

func TestKMeans_KPlusPlusFindsBlobs(t *testing.T) {
	res, err := KMeans(context.Background(), twoBlobs(), KMeansConfig{K: 2}, WithSeed(3))
	require.NoError(t, err)
	assert.True(t, samePartition([]int{0, 0, 1, 1}, res.Assignment), "assignment %v", res.Assignment)
}

func TestFit_OldestUpdate(t *testing.T) {
	ds := dataset.MustNew([][]float64{{0}, {1}, {2}, {10}})
	keys := []float64{1990, 1980, 0, 0}

	res, err := Fit(context.Background(), ds, [][]float64{{0}, {10}}, OldestUpdate, keys, WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, res.Centers[0])
	assert.Nil(t, res.Seeds)

	_, err = Fit(context.Background(), ds, [][]float64{{0}, {10}}, OldestUpdate, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestKMeans_Errors(t *testing.T) {
	ctx := context.Background()
	ds := twoBlobs()

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"k zero", func() error { _, err := KMeans(ctx, ds, KMeansConfig{K: 0}); return err }, ErrInvalidK},
		{"k above n", func() error { _, err := KMeans(ctx, ds, KMeansConfig{K: 5}); return err }, ErrInvalidK},
		{"seed k", func() error { _, err := Seed(ctx, ds, 9, Gonzalez); return err }, ErrInvalidK},
		{"unknown seeder", func() error { _, err := KMeans(ctx, ds, KMeansConfig{K: 2, Seeder: 9}); return err }, ErrInvalidArgument},
		{"unknown rule", func() error { _, err := KMeans(ctx, ds, KMeansConfig{K: 2, Update: 9}); return err }, ErrInvalidArgument},
		{"trials", func() error { _, err := BestOfTrials(ctx, ds, KMeansConfig{K: 2}, 0); return err }, ErrInvalidArgument},
		{"elbow", func() error { _, err := ElbowCurve(ctx, ds, KMeansConfig{}, 5, 1); return err }, ErrInvalidK},
		{"assignment", func() error { _, err := Inertia(ds, [][]float64{{0, 0}}, []int{0}); return err }, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := Fit(ctx, ds, [][]float64{{0, 0, 0}}, MeanUpdate, nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		var dm *ErrDimensionMismatch
		require.True(t, errors.As(err, &dm), "got %v", err)
		assert.Equal(t, 2, dm.Expected)
		assert.Equal(t, 3, dm.Actual)
		assert.NotNil(t, errors.Unwrap(dm))

		_, err = AssignCentersToData(ds, [][]float64{{1}})
		assert.True(t, errors.As(err, &dm))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := KMeans(cctx, ds, KMeansConfig{K: 2})
		assert.ErrorIs(t, err, context.Canceled)
		_, err = BestOfTrials(cctx, ds, KMeansConfig{K: 2}, 4)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBestOfTrials(t *testing.T) {
	rng := testutil.NewRNG(42)
	ds, labels := rng.ClusteredDataset(3, 20, 4, 0.1)
	ctx := context.Background()
	cfg := KMeansConfig{K: 3, Seeder: KPlusPlus, Update: MeanUpdate}

	best, err := BestOfTrials(ctx, ds, cfg, 10, WithSeed(7))
	require.NoError(t, err)
	assert.True(t, samePartition(labels, best.Assignment))

	t.Run("reproducible with seed", func(t *testing.T) {
		again, err := BestOfTrials(ctx, ds, cfg, 10, WithSeed(7),
			WithResourceController(resource.NewController(resource.Config{MaxWorkers: 2})))
		require.NoError(t, err)
		assert.Equal(t, best, again)
	})

	t.Run("no worse than a single run", func(t *testing.T) {
		single, err := KMeans(ctx, ds, cfg, WithSeed(99))
		require.NoError(t, err)
		assert.LessOrEqual(t, best.Inertia, single.Inertia+1e-9)
	})
}

func TestElbowCurve(t *testing.T) {
	rng := testutil.NewRNG(5)
	ds, _ := rng.ClusteredDataset(3, 15, 3, 0.1)

	curve, err := ElbowCurve(context.Background(), ds, KMeansConfig{Seeder: KPlusPlus}, 4, 3, WithSeed(11))
	require.NoError(t, err)
	require.Len(t, curve, 4)
	for i, p := range curve {
		assert.Equal(t, i+1, p.K)
	}
	assert.Greater(t, curve[0].Inertia, curve[2].Inertia)
}

func TestAgglomerate(t *testing.T) {
	p, err := Agglomerate(context.Background(), twoBlobs(), 2, CompleteLinkage)
	require.NoError(t, err)

	assert.Equal(t, "complete", p.Linkage)
	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, p.Clusters)
	assert.Equal(t, []int{0, 0, 1, 1}, p.Labels)
	assert.Equal(t, [][4]float64{{0, 1, 1, 2}, {2, 3, 1, 2}}, p.LinkageMatrix())
}

func TestAgglomerate_MemoryBudget(t *testing.T) {
	ds := twoBlobs()

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})
	_, err := Agglomerate(context.Background(), ds, 1, SingleLinkage, WithResourceController(rc))
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)

	rc = resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	_, err = Agglomerate(context.Background(), ds, 1, SingleLinkage, WithResourceController(rc))
	require.NoError(t, err)
	assert.Zero(t, rc.MemoryUsage())
}

func TestAgglomerate_Errors(t *testing.T) {
	for _, target := range []int{0, 5} {
		_, err := Agglomerate(context.Background(), twoBlobs(), target, MeanLinkage)
		assert.ErrorIs(t, err, ErrInvalidK, "target %d", target)
		assert.ErrorIs(t, err, ErrInvalidArgument, "target %d", target)
	}

	_, err := Agglomerate(context.Background(), twoBlobs(), 1, Linkage(9))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ParseLinkage("ward")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParse(t *testing.T) {
	for in, want := range map[string]SeedMethod{"kplusplus": KPlusPlus, "K-Means++": KPlusPlus, "gonzalez": Gonzalez} {
		got, err := ParseSeedMethod(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSeedMethod("random")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	r, err := ParseUpdateRule(" Oldest ")
	require.NoError(t, err)
	assert.Equal(t, OldestUpdate, r)
	_, err = ParseUpdateRule("median")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	l, err := ParseLinkage("mean")
	require.NoError(t, err)
	assert.Equal(t, MeanLinkage, l)

	assert.Equal(t, "gonzalez", Gonzalez.String())
	assert.Equal(t, "oldest", OldestUpdate.String())
	assert.Equal(t, "SeedMethod(5)", SeedMethod(5).String())
}

func TestMetricsAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := &BasicMetricsCollector{}
	ctx := context.Background()

	_, err := KMeans(ctx, twoBlobs(), KMeansConfig{K: 2}, WithSeed(1), WithLogger(logger), WithMetricsCollector(metrics))
	require.NoError(t, err)
	_, err = KMeans(ctx, twoBlobs(), KMeansConfig{K: 9}, WithLogger(logger), WithMetricsCollector(metrics))
	require.Error(t, err)
	_, err = Agglomerate(ctx, twoBlobs(), 2, SingleLinkage, WithLogger(logger), WithMetricsCollector(metrics))
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.FitCount)
	assert.Equal(t, int64(0), stats.FitErrors)
	assert.Positive(t, stats.FitAvgIterations)
	assert.Equal(t, int64(1), stats.AgglomerateCount)

	out := buf.String()
	assert.Contains(t, out, "fit completed")
	assert.Contains(t, out, "agglomerate completed")
	assert.Contains(t, out, "k=2")
}

func TestFit_NonConvergenceIsNotAnError(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	rng := testutil.NewRNG(9)
	ds, _ := rng.ClusteredDataset(4, 25, 3, 2)

	res, err := KMeans(context.Background(), ds, KMeansConfig{K: 4}, WithSeed(2), WithMaxIterations(1), WithMetricsCollector(metrics))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations)
	if !res.Converged {
		assert.Equal(t, int64(1), metrics.GetStats().FitNonConverged)
	}
}
