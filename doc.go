// Package songclust groups high-dimensional audio feature vectors and
// estimates similarity between them.
//
// It offers three families of algorithms over a dataset.Dataset:
//
//   - partitional clustering: k-means++ or Gonzalez seeding followed by a
//     Lloyd loop with a mean or oldest-member center update
//   - agglomerative clustering with single, complete or mean linkage
//   - approximate similarity: banded random-projection LSH over vectors and
//     MinHash over token sets
//
// # Quick Start
//
//	ds, _ := dataset.ReadCSV(f)
//	res, _ := songclust.KMeans(ctx, ds, songclust.KMeansConfig{
//	    K:      4,
//	    Seeder: songclust.Gonzalez,
//	    Update: songclust.MeanUpdate,
//	}, songclust.WithSeed(42))
//	fmt.Println(res.Centers, res.Inertia)
//
// Several seeded runs in parallel, keeping the best:
//
//	best, _ := songclust.BestOfTrials(ctx, ds, cfg, 10, songclust.WithSeed(42))
//
// Agglomerative clustering:
//
//	p, _ := songclust.Agglomerate(ctx, ds, 3, songclust.CompleteLinkage)
//
// # Similarity
//
//	idx, _ := songclust.NewLSH(songclust.LSHParams{Tau: 0.5, T: 40, R: 4, B: 10})
//	_ = idx.HashData(ctx, ds)
//	similar, _ := idx.QueryAllSimilar(ctx, query)
//
//	mh, _ := songclust.NewMinHash(200, 1<<32)
//	_ = mh.Run(ctx, observations)
//	j, _ := mh.GetSimilarity(0, 1)
//
// # Snapshots
//
// Results and indices are saved as self-describing snapshots through any
// blobstore.BlobStore (local disk, memory, S3, MinIO):
//
//	snaps := songclust.NewSnapshots(blobstore.NewLocalStore("./models"),
//	    songclust.WithCompression(persistence.CompressionZSTD))
//	_ = snaps.SaveLSH(ctx, "tags", idx)
//	idx, _ = snaps.LoadLSH(ctx, "tags")
//
// # Resources
//
// WithResourceController bounds the memory reserved by a run (the N×N
// distance matrix of Agglomerate, Lloyd state), the number of parallel
// trials and snapshot IO throughput.
package songclust
