package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when a dataset would contain no rows or no columns.
	ErrEmpty = errors.New("dataset: no rows or zero dimension")

	// ErrRagged is returned when rows have different lengths.
	ErrRagged = errors.New("dataset: rows have different dimensions")
)

// Dataset is an immutable N×D matrix of float64 features.
type Dataset struct {
	data []float64
	n    int
	dim  int
}

// New copies rows into a new Dataset.
func New(rows [][]float64) (*Dataset, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmpty
	}
	dim := len(rows[0])
	data := make([]float64, 0, len(rows)*dim)
	for i, r := range rows {
		if len(r) != dim {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrRagged, i, len(r), dim)
		}
		data = append(data, r...)
	}
	return &Dataset{data: data, n: len(rows), dim: dim}, nil
}

// FromFlat wraps a row-major slice without copying. The caller must not
// modify data afterwards.
func FromFlat(data []float64, dim int) (*Dataset, error) {
	if dim <= 0 || len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("%w: %d values is not a multiple of dimension %d", ErrRagged, len(data), dim)
	}
	return &Dataset{data: data, n: len(data) / dim, dim: dim}, nil
}

// MustNew is like New but panics on error. Intended for tests and examples.
func MustNew(rows [][]float64) *Dataset {
	ds, err := New(rows)
	if err != nil {
		panic(err)
	}
	return ds
}

// Len returns the number of rows (N).
func (d *Dataset) Len() int { return d.n }

// Dim returns the number of columns (D).
func (d *Dataset) Dim() int { return d.dim }

// Row returns a read-only view of row i.
func (d *Dataset) Row(i int) []float64 {
	return d.data[i*d.dim : (i+1)*d.dim : (i+1)*d.dim]
}

// Rows returns views of all rows in order.
func (d *Dataset) Rows() [][]float64 {
	out := make([][]float64, d.n)
	for i := range out {
		out[i] = d.Row(i)
	}
	return out
}

// SizeBytes returns the size of the feature storage in bytes.
func (d *Dataset) SizeBytes() int64 {
	return int64(len(d.data)) * 8
}
