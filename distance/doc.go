// Package distance provides the vector primitives shared by every clustering
// and hashing strategy in songclust.
//
// # Metric
//
// All clustering code measures dissimilarity with squared Euclidean distance
// (SquaredL2). The square root is never taken: for nearest-center search and
// for linkage ordering it is monotone with true Euclidean distance, and
// skipping it keeps the inner loops free of sqrt calls.
//
// # Usage
//
//	d := distance.SquaredL2(a, b)
//	p := distance.Dot(a, b)
//	ok := distance.NormalizeL2InPlace(v)
//	distance.Mean(dst, rows...)
package distance
