package songclust

import (
	"log/slog"
	"math/rand/v2"

	"github.com/hupe1980/songclust/codec"
	"github.com/hupe1980/songclust/persistence"
	"github.com/hupe1980/songclust/resource"
)

type options struct {
	seed             uint64
	seeded           bool
	rng              *rand.Rand
	maxIterations    int
	codec            codec.Codec
	compression      persistence.Compression
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
}

// Option configures clustering runs, similarity indices and snapshots.
type Option func(*options)

// WithSeed makes every random choice reproducible from seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithRand supplies the random generator directly. It takes precedence over
// WithSeed. A generator is not safe for concurrent use; runs that spawn
// parallel trials only draw their per-trial seeds from it.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithMaxIterations caps the Lloyd loop. Zero or less keeps the default of
// 300.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithCodec configures the codec used for new snapshots.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures snapshot payload compression.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &songclust.BasicMetricsCollector{}
//	res, _ := songclust.KMeans(ctx, ds, cfg, songclust.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Fits: %d, Avg iterations: %d\n", stats.FitCount, stats.FitAvgIterations)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := songclust.NewJSONLogger(slog.LevelInfo)
//	res, _ := songclust.KMeans(ctx, ds, cfg, songclust.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds memory, parallel trials and snapshot IO.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// random returns the generator for a single sequential run.
func (o *options) random() *rand.Rand {
	switch {
	case o.rng != nil:
		return o.rng
	case o.seeded:
		return rand.New(rand.NewPCG(o.seed, 0))
	default:
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// streams returns n independent generators for parallel runs. With WithSeed
// stream i is fully determined by the seed and i.
func (o *options) streams(n int) []*rand.Rand {
	out := make([]*rand.Rand, n)
	for i := range out {
		switch {
		case o.rng != nil:
			out[i] = rand.New(rand.NewPCG(o.rng.Uint64(), o.rng.Uint64()))
		case o.seeded:
			out[i] = rand.New(rand.NewPCG(o.seed, uint64(i)+1))
		default:
			out[i] = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	return out
}
