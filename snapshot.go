package songclust

import (
	"context"
	"time"

	"github.com/hupe1980/songclust/blobstore"
	"github.com/hupe1980/songclust/internal/lsh"
	"github.com/hupe1980/songclust/internal/minhash"
	"github.com/hupe1980/songclust/persistence"
)

// Snapshots saves and loads models through a blob store.
//
// Every snapshot is a self-describing persistence envelope; WithCodec and
// WithCompression select the encoding of new snapshots, while loading always
// follows the header.
type Snapshots struct {
	pm *persistence.Manager
	o  options
}

// NewSnapshots creates a snapshot manager on top of store.
func NewSnapshots(store blobstore.BlobStore, optFns ...Option) *Snapshots {
	o := applyOptions(optFns)
	return &Snapshots{
		pm: persistence.NewManager(store, persistence.ManagerOptions{
			Codec:              o.codec,
			Compression:        o.compression,
			ResourceController: o.rc,
		}),
		o: o,
	}
}

// SaveClustering stores a partitional clustering result.
func (s *Snapshots) SaveClustering(ctx context.Context, name string, c *Clustering) error {
	return s.save(ctx, name, persistence.KindKMeans, c)
}

// LoadClustering loads a partitional clustering result.
func (s *Snapshots) LoadClustering(ctx context.Context, name string) (*Clustering, error) {
	var c Clustering
	if err := s.load(ctx, name, persistence.KindKMeans, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SavePartition stores an agglomerative clustering result.
func (s *Snapshots) SavePartition(ctx context.Context, name string, p *Partition) error {
	return s.save(ctx, name, persistence.KindHierarchy, p)
}

// LoadPartition loads an agglomerative clustering result.
func (s *Snapshots) LoadPartition(ctx context.Context, name string) (*Partition, error) {
	var p Partition
	if err := s.load(ctx, name, persistence.KindHierarchy, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveLSH stores the projections and signatures of an LSH index.
func (s *Snapshots) SaveLSH(ctx context.Context, name string, l *LSH) error {
	snap, err := l.snapshot()
	if err != nil {
		return err
	}
	return s.save(ctx, name, persistence.KindLSH, snap)
}

// LoadLSH restores an LSH index. Queries against the restored index return
// the same results as the saved one. optFns configure the restored index;
// its generator is only used by later HashData calls.
func (s *Snapshots) LoadLSH(ctx context.Context, name string, optFns ...Option) (*LSH, error) {
	var snap lsh.Snapshot
	if err := s.load(ctx, name, persistence.KindLSH, &snap); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)
	h, err := lsh.Restore(&snap, o.random())
	if err != nil {
		return nil, translateError(err)
	}
	return &LSH{h: h, o: o}, nil
}

// SaveMinHash stores the parameters and signatures of a MinHash estimator.
func (s *Snapshots) SaveMinHash(ctx context.Context, name string, mh *MinHash) error {
	return s.save(ctx, name, persistence.KindMinHash, mh.snapshot())
}

// LoadMinHash restores a MinHash estimator.
func (s *Snapshots) LoadMinHash(ctx context.Context, name string, optFns ...Option) (*MinHash, error) {
	var snap minhash.Snapshot
	if err := s.load(ctx, name, persistence.KindMinHash, &snap); err != nil {
		return nil, err
	}
	e, err := minhash.Restore(&snap)
	if err != nil {
		return nil, translateError(err)
	}
	return &MinHash{e: e, o: applyOptions(optFns)}, nil
}

// Stat returns the header of a stored snapshot.
func (s *Snapshots) Stat(ctx context.Context, name string) (persistence.Header, error) {
	h, err := s.pm.Stat(ctx, name)
	return h, translateError(err)
}

// List returns the names of all stored snapshots.
func (s *Snapshots) List(ctx context.Context) ([]string, error) {
	return s.pm.List(ctx)
}

// Delete removes a stored snapshot.
func (s *Snapshots) Delete(ctx context.Context, name string) error {
	return translateError(s.pm.Delete(ctx, name))
}

// Close releases the manager. The blob store is owned by the caller.
func (s *Snapshots) Close() error {
	return s.pm.Close()
}

func (s *Snapshots) save(ctx context.Context, name string, kind persistence.Kind, v any) error {
	start := time.Now()
	n, err := s.pm.Save(ctx, name, kind, v)
	err = translateError(err)
	s.o.metricsCollector.RecordSnapshot("save", kind.String(), n, time.Since(start), err)
	s.o.logger.LogSnapshot(ctx, "saved", name, err)
	return err
}

func (s *Snapshots) load(ctx context.Context, name string, kind persistence.Kind, v any) error {
	start := time.Now()
	h, err := s.pm.Load(ctx, name, kind, v)
	err = translateError(err)
	s.o.metricsCollector.RecordSnapshot("load", kind.String(), int64(h.Size())+int64(h.Length), time.Since(start), err)
	s.o.logger.LogSnapshot(ctx, "loaded", name, err)
	return err
}
