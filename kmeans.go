package songclust

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/songclust/dataset"
	"github.com/hupe1980/songclust/internal/kmeans"
)

// SeedMethod selects how initial centers are chosen.
type SeedMethod int

const (
	// KPlusPlus draws centers with probability proportional to the squared
	// distance to the nearest chosen center.
	KPlusPlus SeedMethod = iota
	// Gonzalez picks the point farthest from all chosen centers.
	Gonzalez
)

// ParseSeedMethod maps "kplusplus" (or "k-means++") and "gonzalez" (or
// "farthest") to a SeedMethod.
func ParseSeedMethod(s string) (SeedMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kplusplus", "k-means++", "kmeans++", "kpp":
		return KPlusPlus, nil
	case "gonzalez", "farthest":
		return Gonzalez, nil
	default:
		return 0, fmt.Errorf("%w: unknown seed method %q", ErrInvalidArgument, s)
	}
}

func (m SeedMethod) String() string {
	switch m {
	case KPlusPlus:
		return "kplusplus"
	case Gonzalez:
		return "gonzalez"
	default:
		return fmt.Sprintf("SeedMethod(%d)", m)
	}
}

// UpdateRule selects how a cluster's center is recomputed from its members.
type UpdateRule int

const (
	// MeanUpdate moves the center to the centroid of its members.
	MeanUpdate UpdateRule = iota
	// OldestUpdate moves the center to the centroid of the members with the
	// smallest non-zero ordering key.
	OldestUpdate
)

// ParseUpdateRule maps "mean" and "oldest" to an UpdateRule.
func ParseUpdateRule(s string) (UpdateRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean":
		return MeanUpdate, nil
	case "oldest":
		return OldestUpdate, nil
	default:
		return 0, fmt.Errorf("%w: unknown update rule %q", ErrInvalidArgument, s)
	}
}

func (r UpdateRule) String() string {
	switch r {
	case MeanUpdate:
		return "mean"
	case OldestUpdate:
		return "oldest"
	default:
		return fmt.Sprintf("UpdateRule(%d)", r)
	}
}

// KMeansConfig describes a seed-and-refine run.
type KMeansConfig struct {
	// K is the number of clusters, 1 <= K <= N.
	K int
	// Seeder picks the initial centers.
	Seeder SeedMethod
	// Update is the center-update rule.
	Update UpdateRule
	// Keys holds one ordering key per point. Required by OldestUpdate.
	Keys []float64
	// Start is the first Gonzalez center when FixedStart is set. Otherwise
	// the first center is uniformly random.
	Start      int
	FixedStart bool
}

// Clustering is the result of a partitional clustering run.
type Clustering struct {
	// Seeds are the dataset indices chosen by the seeder. Nil when Fit was
	// given explicit centers.
	Seeds []int `json:"seeds,omitempty"`
	// Centers are the final k centers.
	Centers [][]float64 `json:"centers"`
	// Assignment maps every point to its nearest final center.
	Assignment []int `json:"assignment"`
	// Iterations is the number of assign/update rounds executed.
	Iterations int `json:"iterations"`
	// Converged is false when the iteration cap stopped the run.
	Converged bool `json:"converged"`
	// EmptyRecovered counts empty clusters that were reseeded.
	EmptyRecovered int `json:"empty_recovered"`
	// Inertia is the mean squared distance to the assigned centers.
	Inertia float64 `json:"inertia"`
}

// K returns the number of clusters.
func (c *Clustering) K() int { return len(c.Centers) }

// Members returns the point indices of every cluster in ascending order.
func (c *Clustering) Members() [][]int {
	out := make([][]int, len(c.Centers))
	for i, a := range c.Assignment {
		out[a] = append(out[a], i)
	}
	return out
}

// ElbowPoint is one entry of an elbow curve.
type ElbowPoint struct {
	K       int     `json:"k"`
	Inertia float64 `json:"inertia"`
}

func seederFor(m SeedMethod, start int, fixed bool) (kmeans.Seeder, error) {
	switch m {
	case KPlusPlus:
		return kmeans.KPlusPlus{}, nil
	case Gonzalez:
		if fixed {
			return kmeans.FarthestPointFrom(start), nil
		}
		return kmeans.NewFarthestPoint(), nil
	default:
		return nil, fmt.Errorf("%w: unknown seed method %d", ErrInvalidArgument, m)
	}
}

func ruleFor(r UpdateRule, keys []float64) (kmeans.UpdateRule, error) {
	switch r {
	case MeanUpdate:
		return kmeans.MeanUpdate{}, nil
	case OldestUpdate:
		return kmeans.OldestUpdate{Keys: keys}, nil
	default:
		return nil, fmt.Errorf("%w: unknown update rule %d", ErrInvalidArgument, r)
	}
}

// Seed picks k initial center indices with the given method. Gonzalez
// starts from a random point; KMeansConfig.Start fixes it for KMeans runs.
func Seed(ctx context.Context, ds *dataset.Dataset, k int, method SeedMethod, optFns ...Option) ([]int, error) {
	o := applyOptions(optFns)
	s, err := seederFor(method, 0, false)
	if err != nil {
		return nil, err
	}
	idx, err := s.Seed(ctx, ds, k, o.random())
	return idx, translateError(err)
}

// Fit refines explicit initial centers with the Lloyd loop.
// keys are only used by OldestUpdate and may be nil otherwise.
func Fit(ctx context.Context, ds *dataset.Dataset, initial [][]float64, rule UpdateRule, keys []float64, optFns ...Option) (*Clustering, error) {
	o := applyOptions(optFns)
	r, err := ruleFor(rule, keys)
	if err != nil {
		return nil, err
	}
	return fit(ctx, ds, initial, r, o.random(), &o)
}

// KMeans seeds and refines a single run.
func KMeans(ctx context.Context, ds *dataset.Dataset, cfg KMeansConfig, optFns ...Option) (*Clustering, error) {
	o := applyOptions(optFns)
	return runKMeans(ctx, ds, cfg, o.random(), &o)
}

// BestOfTrials runs trials independent KMeans runs concurrently and returns
// the one with the lowest inertia. Ties go to the earliest trial.
//
// Every trial has its own generator; with WithSeed the outcome does not
// depend on scheduling. Parallelism is bounded by the resource controller's
// worker slots, or GOMAXPROCS without one.
func BestOfTrials(ctx context.Context, ds *dataset.Dataset, cfg KMeansConfig, trials int, optFns ...Option) (*Clustering, error) {
	o := applyOptions(optFns)
	return bestOfTrials(ctx, ds, cfg, trials, &o)
}

// ElbowCurve runs BestOfTrials for k = 1..maxK and reports the best inertia
// per k.
func ElbowCurve(ctx context.Context, ds *dataset.Dataset, cfg KMeansConfig, maxK, trials int, optFns ...Option) ([]ElbowPoint, error) {
	o := applyOptions(optFns)
	if maxK < 1 || maxK > ds.Len() {
		return nil, fmt.Errorf("%w: max k %d outside [1, %d]", ErrInvalidK, maxK, ds.Len())
	}

	curve := make([]ElbowPoint, 0, maxK)
	for k := 1; k <= maxK; k++ {
		c := cfg
		c.K = k
		ko := o
		switch {
		case o.rng != nil:
			ko.rng, ko.seed, ko.seeded = nil, o.rng.Uint64(), true
		case o.seeded:
			// distinct but reproducible streams per k
			ko.seed = o.seed + uint64(k)*0x9e3779b97f4a7c15
		}
		best, err := bestOfTrials(ctx, ds, c, trials, &ko)
		if err != nil {
			return nil, err
		}
		curve = append(curve, ElbowPoint{K: k, Inertia: best.Inertia})
	}
	return curve, nil
}

func bestOfTrials(ctx context.Context, ds *dataset.Dataset, cfg KMeansConfig, trials int, o *options) (*Clustering, error) {
	if trials < 1 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidArgument, trials)
	}

	results, err := runTrials(ctx, ds, cfg, trials, o)
	if err != nil {
		o.logger.LogTrials(ctx, trials, 0, err)
		return nil, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Inertia < best.Inertia {
			best = r
		}
	}
	o.logger.WithK(cfg.K).LogTrials(ctx, trials, best.Inertia, nil)
	return best, nil
}

// AssignCentersToData maps every point to the index of its nearest center.
func AssignCentersToData(ds *dataset.Dataset, centers [][]float64) ([]int, error) {
	a, err := kmeans.AssignCentersToData(ds, centers)
	return a, translateError(err)
}

// Inertia returns the mean squared distance from every point to its
// assigned center.
func Inertia(ds *dataset.Dataset, centers [][]float64, assignment []int) (float64, error) {
	v, err := kmeans.Inertia(ds, centers, assignment)
	return v, translateError(err)
}

func runTrials(ctx context.Context, ds *dataset.Dataset, cfg KMeansConfig, trials int, o *options) ([]*Clustering, error) {
	streams := o.streams(trials)
	results := make([]*Clustering, trials)

	g, gctx := errgroup.WithContext(ctx)
	if o.rc == nil {
		g.SetLimit(runtime.GOMAXPROCS(0))
	}
	for i := range trials {
		g.Go(func() error {
			if err := o.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer o.rc.ReleaseWorker()

			res, err := runKMeans(gctx, ds, cfg, streams[i], o)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runKMeans(ctx context.Context, ds *dataset.Dataset, cfg KMeansConfig, rng *rand.Rand, o *options) (*Clustering, error) {
	s, err := seederFor(cfg.Seeder, cfg.Start, cfg.FixedStart)
	if err != nil {
		return nil, err
	}
	r, err := ruleFor(cfg.Update, cfg.Keys)
	if err != nil {
		return nil, err
	}

	seeds, err := s.Seed(ctx, ds, cfg.K, rng)
	if err != nil {
		return nil, translateError(err)
	}
	initial, err := kmeans.CentersFromIndices(ds, seeds)
	if err != nil {
		return nil, translateError(err)
	}

	res, err := fit(ctx, ds, initial, r, rng, o)
	if err != nil {
		return nil, err
	}
	res.Seeds = seeds
	return res, nil
}

func fit(ctx context.Context, ds *dataset.Dataset, initial [][]float64, rule kmeans.UpdateRule, rng *rand.Rand, o *options) (*Clustering, error) {
	// current and next centers plus the assignment
	release, err := o.rc.ReserveMemory(int64(len(initial))*int64(ds.Dim())*16 + int64(ds.Len())*8)
	if err != nil {
		return nil, err
	}
	defer release()

	log := o.logger.WithK(len(initial))
	start := time.Now()
	res, err := kmeans.Fit(ctx, ds, initial, rule, kmeans.Config{
		MaxIterations: o.maxIterations,
		Rand:          rng,
		OnEmptyCluster: func(cluster, point, iteration int) {
			o.metricsCollector.RecordEmptyClusterRecovered()
			log.LogEmptyCluster(ctx, cluster, point, iteration)
		},
	})
	elapsed := time.Since(start)

	name := ruleName(rule)
	if err != nil {
		err = translateError(err)
		o.metricsCollector.RecordFit(name, len(initial), 0, false, elapsed, err)
		log.LogFit(ctx, name, 0, false, elapsed, err)
		return nil, err
	}
	o.metricsCollector.RecordFit(name, len(initial), res.Iterations, res.Converged, elapsed, nil)
	log.LogFit(ctx, name, res.Iterations, res.Converged, elapsed, nil)

	inertia, err := kmeans.Inertia(ds, res.Centers, res.Assignment)
	if err != nil {
		return nil, translateError(err)
	}
	return &Clustering{
		Centers:        res.Centers,
		Assignment:     res.Assignment,
		Iterations:     res.Iterations,
		Converged:      res.Converged,
		EmptyRecovered: res.EmptyRecovered,
		Inertia:        inertia,
	}, nil
}

func ruleName(r kmeans.UpdateRule) string {
	if r == nil {
		return ""
	}
	return r.Name()
}
