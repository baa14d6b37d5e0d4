// Package lsh implements banded random-projection locality sensitive hashing.
//
// Each of T hash functions projects a vector onto a random unit direction.
// The cosine family keeps the sign of the projection, the Euclidean family
// buckets the projection shifted by a random offset. Signatures are split
// into B bands of R codes; two signatures agree on a band only if all R codes
// match, and their estimated similarity is the fraction of agreeing bands.
package lsh
