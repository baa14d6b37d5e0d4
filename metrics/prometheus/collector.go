package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/songclust"
)

var _ songclust.MetricsCollector = (*Collector)(nil)

// Collector implements songclust.MetricsCollector with client_golang
// counters and histograms.
type Collector struct {
	opLatency      *prometheus.HistogramVec
	ops            *prometheus.CounterVec
	iterations     *prometheus.HistogramVec
	nonConverged   *prometheus.CounterVec
	emptyRecovered prometheus.Counter
	hashedItems    *prometheus.CounterVec
	candidates     *prometheus.HistogramVec
	snapshotBytes  *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg. namespace
// prefixes every metric name and may be empty.
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of clustering, hashing, query and snapshot operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total operations by kind and status.",
		}, []string{"op", "variant", "status"}),
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fit_iterations",
			Help:      "Lloyd iterations per successful fit.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 300},
		}, []string{"rule"}),
		nonConverged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fit_nonconverged_total",
			Help:      "Fits stopped by the iteration cap.",
		}, []string{"rule"}),
		emptyRecovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_clusters_recovered_total",
			Help:      "Empty clusters reseeded with a random point.",
		}),
		hashedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hashed_items_total",
			Help:      "Items hashed into a similarity index.",
		}, []string{"family"}),
		candidates: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_candidates",
			Help:      "Candidates scored per similarity query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"family"}),
		snapshotBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes_total",
			Help:      "Encoded snapshot bytes saved or loaded.",
		}, []string{"op", "kind"}),
	}

	for _, m := range []prometheus.Collector{
		c.opLatency, c.ops, c.iterations, c.nonConverged,
		c.emptyRecovered, c.hashedItems, c.candidates, c.snapshotBytes,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op, variant string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, variant, s).Inc()
}

// RecordFit implements songclust.MetricsCollector.
func (c *Collector) RecordFit(rule string, _, iterations int, converged bool, d time.Duration, err error) {
	c.observe("fit", rule, d, err)
	if err != nil {
		return
	}
	c.iterations.WithLabelValues(rule).Observe(float64(iterations))
	if !converged {
		c.nonConverged.WithLabelValues(rule).Inc()
	}
}

// RecordEmptyClusterRecovered implements songclust.MetricsCollector.
func (c *Collector) RecordEmptyClusterRecovered() {
	c.emptyRecovered.Inc()
}

// RecordAgglomerate implements songclust.MetricsCollector.
func (c *Collector) RecordAgglomerate(linkage string, _, _ int, d time.Duration, err error) {
	c.observe("agglomerate", linkage, d, err)
}

// RecordHash implements songclust.MetricsCollector.
func (c *Collector) RecordHash(family string, count int, d time.Duration, err error) {
	c.observe("hash", family, d, err)
	if err == nil {
		c.hashedItems.WithLabelValues(family).Add(float64(count))
	}
}

// RecordQuery implements songclust.MetricsCollector.
func (c *Collector) RecordQuery(family string, candidates, _ int, d time.Duration, err error) {
	c.observe("query", family, d, err)
	if err == nil {
		c.candidates.WithLabelValues(family).Observe(float64(candidates))
	}
}

// RecordSnapshot implements songclust.MetricsCollector.
func (c *Collector) RecordSnapshot(op, kind string, bytes int64, d time.Duration, err error) {
	c.observe("snapshot_"+op, kind, d, err)
	if err == nil {
		c.snapshotBytes.WithLabelValues(op, kind).Add(float64(bytes))
	}
}
