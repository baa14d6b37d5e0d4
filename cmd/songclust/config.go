package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/songclust"
	"github.com/hupe1980/songclust/codec"
	songprom "github.com/hupe1980/songclust/metrics/prometheus"
	"github.com/hupe1980/songclust/persistence"
	"github.com/hupe1980/songclust/resource"
)

// Options without a default tag keep values loaded from the config file
// unless the flag is given explicitly.
type globalOptions struct {
	Config      string  `short:"c" long:"config" description:"YAML configuration file" yaml:"-"`
	LogLevel    string  `long:"log-level" description:"Minimum log level (debug, info, warn, error)" yaml:"log_level"`
	JSONLogs    bool    `long:"json-logs" description:"Emit logs as JSON" yaml:"json_logs"`
	Seed        *uint64 `long:"seed" description:"Seed for reproducible runs" yaml:"seed"`
	Store       string  `long:"store" description:"Snapshot store URL (dir, file://, s3://, minio://)" yaml:"store"`
	Codec       string  `long:"codec" description:"Snapshot codec (json, go-json)" yaml:"codec"`
	Compression string  `long:"compression" description:"Snapshot compression (none, lz4, zstd)" yaml:"compression"`
	MemoryLimit int64   `long:"memory-limit" description:"Memory budget in bytes for working buffers" yaml:"memory_limit"`
	Workers     int64   `long:"workers" description:"Concurrent k-means trials" yaml:"workers"`
	IOLimit     int64   `long:"io-limit" description:"Snapshot IO limit in bytes per second" yaml:"io_limit"`
	MetricsFile string  `long:"metrics-file" description:"Write Prometheus metrics to this file on exit" yaml:"metrics_file"`
}

// configPath extracts --config ahead of the full parse so the file can seed
// the option structs.
func configPath(args []string) (string, error) {
	var pre struct {
		Config string `short:"c" long:"config"`
	}
	p := flags.NewParser(&pre, flags.IgnoreUnknown)
	if _, err := p.ParseArgs(args); err != nil {
		return "", err
	}
	return pre.Config, nil
}

func loadConfig(path string, a *app) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(a); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// env is the per-command runtime built from the global options.
type env struct {
	opts   []songclust.Option
	logger *songclust.Logger
	snaps  *songclust.Snapshots

	reg         *prometheus.Registry
	metricsFile string
}

func (g *globalOptions) setup(ctx context.Context, logOut io.Writer) (*env, error) {
	level := slog.LevelWarn
	if g.LogLevel != "" {
		if err := level.UnmarshalText([]byte(g.LogLevel)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", g.LogLevel, err)
		}
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(logOut, handlerOpts)
	if g.JSONLogs {
		handler = slog.NewJSONHandler(logOut, handlerOpts)
	}

	e := &env{
		logger:      songclust.NewLogger(handler),
		metricsFile: g.MetricsFile,
	}
	e.opts = append(e.opts, songclust.WithLogger(e.logger))

	if g.Seed != nil {
		e.opts = append(e.opts, songclust.WithSeed(*g.Seed))
	}

	if g.Codec != "" {
		c, ok := codec.ByName(g.Codec)
		if !ok {
			return nil, fmt.Errorf("%w: %q", persistence.ErrUnknownCodec, g.Codec)
		}
		e.opts = append(e.opts, songclust.WithCodec(c))
	}

	comp, err := persistence.ParseCompression(strings.ToLower(g.Compression))
	if err != nil {
		return nil, err
	}
	e.opts = append(e.opts, songclust.WithCompression(comp))

	if g.MemoryLimit > 0 || g.Workers > 0 || g.IOLimit > 0 {
		rc := resource.NewController(resource.Config{
			MemoryLimitBytes:   g.MemoryLimit,
			MaxWorkers:         g.Workers,
			IOLimitBytesPerSec: g.IOLimit,
		})
		e.opts = append(e.opts, songclust.WithResourceController(rc))
	}

	if g.MetricsFile != "" {
		e.reg = prometheus.NewRegistry()
		mc, err := songprom.NewCollector(e.reg, "songclust")
		if err != nil {
			return nil, err
		}
		e.opts = append(e.opts, songclust.WithMetricsCollector(mc))
	}

	if g.Store != "" {
		store, err := openStore(ctx, g.Store)
		if err != nil {
			return nil, err
		}
		e.snaps = songclust.NewSnapshots(store, e.opts...)
	}

	return e, nil
}

func (e *env) requireStore() error {
	if e.snaps == nil {
		return errors.New("--store is required for snapshots")
	}
	return nil
}

func (e *env) close() error {
	var errs []error
	if e.snaps != nil {
		errs = append(errs, e.snaps.Close())
	}
	if e.reg != nil {
		errs = append(errs, prometheus.WriteToTextfile(e.metricsFile, e.reg))
	}
	return errors.Join(errs...)
}

func openFile(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.New("--data is required")
	}
	return os.Open(path)
}
