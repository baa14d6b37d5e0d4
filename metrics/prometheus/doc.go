// Package prometheus exports songclust operational metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	collector, err := songprom.NewCollector(reg, "songclust")
//	res, err := songclust.KMeans(ctx, ds, cfg, songclust.WithMetricsCollector(collector))
package prometheus
