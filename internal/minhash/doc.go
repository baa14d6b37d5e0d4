// Package minhash estimates Jaccard similarity between token sets with k
// salted hash functions.
//
// Hash function i is BLAKE2b-256 keyed with the 8-byte big-endian encoding of
// salt i. The first 8 bytes of the digest, read as a big-endian uint64 and
// reduced modulo m, form the hash value. A signature holds, for every salt,
// the minimum hash value over the observation's tokens.
package minhash
