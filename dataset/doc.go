// Package dataset holds the dense feature matrix consumed by every clustering
// and hashing engine, plus the line-oriented readers and writers used at the
// boundary with the ingestion and reporting tools.
//
// A Dataset is N rows by D columns stored row-major in one contiguous slice.
// Row indices are the stable identity of each observation for the lifetime of
// a run. Algorithms receive read-only views through Row and never mutate them.
package dataset
