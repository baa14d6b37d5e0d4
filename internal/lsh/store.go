package lsh

import (
	"encoding/binary"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
)

// Signature is the sequence of T hash codes of one vector.
type Signature []int64

// Store is an append-only, insertion-ordered list of signatures together with
// a per-band bucket index. Signature i belongs to item i.
type Store struct {
	r, b    int
	sigs    []Signature
	buckets []map[uint64]*roaring.Bitmap
}

func newStore(r, b int) *Store {
	s := &Store{r: r, b: b, buckets: make([]map[uint64]*roaring.Bitmap, b)}
	for i := range s.buckets {
		s.buckets[i] = make(map[uint64]*roaring.Bitmap)
	}
	return s
}

// Len returns the number of stored signatures.
func (s *Store) Len() int { return len(s.sigs) }

// At returns signature i. The returned slice must not be modified.
func (s *Store) At(i int) Signature { return s.sigs[i] }

// Signatures returns all stored signatures in insertion order. The returned
// slices must not be modified.
func (s *Store) Signatures() []Signature { return s.sigs }

func (s *Store) add(sig Signature) int {
	id := len(s.sigs)
	s.sigs = append(s.sigs, sig)
	for band := range s.b {
		key := s.bandKey(sig, band)
		bm, ok := s.buckets[band][key]
		if !ok {
			bm = roaring.New()
			s.buckets[band][key] = bm
		}
		bm.Add(uint32(id))
	}
	return id
}

// candidates returns every stored item sharing at least one band key with sig.
func (s *Store) candidates(sig Signature) *roaring.Bitmap {
	out := roaring.New()
	for band := range s.b {
		if bm, ok := s.buckets[band][s.bandKey(sig, band)]; ok {
			out.Or(bm)
		}
	}
	return out
}

func (s *Store) bandKey(sig Signature, band int) uint64 {
	var buf [8]byte
	d := xxhash.New()
	for _, code := range sig[band*s.r : (band+1)*s.r] {
		binary.LittleEndian.PutUint64(buf[:], uint64(code))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// estimate returns the fraction of the b bands of r codes on which x and y
// agree at every position.
func estimate(x, y Signature, r, b int) float64 {
	matched := 0
	for band := range b {
		lo := band * r
		agree := true
		for i := lo; i < lo+r; i++ {
			if x[i] != y[i] {
				agree = false
				break
			}
		}
		if agree {
			matched++
		}
	}
	return float64(matched) / float64(b)
}
