// Package hierarchy implements bottom-up agglomerative clustering over a
// dense squared-Euclidean distance matrix.
//
// Clusters live in an arena addressed by stable integer IDs. The N input
// points are the singleton clusters 0..N-1 and every merge creates a new
// cluster with the next free ID (N, N+1, ...), which is the usual dendrogram
// numbering. The merge trace can be exported as a linkage matrix.
package hierarchy
