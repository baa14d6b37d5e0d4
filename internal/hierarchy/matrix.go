package hierarchy

import (
	"math"

	"github.com/hupe1980/songclust/dataset"
	"github.com/hupe1980/songclust/distance"
)

// matrix is a dense symmetric n×n distance matrix addressed by cluster ID.
// Storage is by slot; each live slot holds exactly one cluster and a retired
// slot is +Inf in every cell.
type matrix struct {
	n    int
	cell []float64
	slot map[int]int // cluster ID -> slot
	ids  []int       // slot -> cluster ID, -1 once retired
}

// MatrixBytes returns the number of bytes the distance matrix of n points needs.
func MatrixBytes(n int) int64 {
	return int64(n) * int64(n) * 8
}

// newMatrix gives point i the cluster ID i.
func newMatrix(ds *dataset.Dataset) *matrix {
	n := ds.Len()
	m := &matrix{
		n:    n,
		cell: make([]float64, n*n),
		slot: make(map[int]int, n),
		ids:  make([]int, n),
	}
	inf := math.Inf(1)
	for i := range n {
		m.slot[i] = i
		m.ids[i] = i
		m.set(i, i, inf)
		ri := ds.Row(i)
		for j := i + 1; j < n; j++ {
			d := distance.SquaredL2(ri, ds.Row(j))
			m.set(i, j, d)
			m.set(j, i, d)
		}
	}
	return m
}

func (m *matrix) at(i, j int) float64 { return m.cell[i*m.n+j] }

func (m *matrix) set(i, j int, v float64) { m.cell[i*m.n+j] = v }

// distance returns the linkage distance between clusters x and y. ok is
// false when either ID is not a live cluster.
func (m *matrix) distance(x, y int) (d float64, ok bool) {
	a, okA := m.slot[x]
	b, okB := m.slot[y]
	if !okA || !okB {
		return 0, false
	}
	return m.at(a, b), true
}

// closest scans the upper triangle row by row and returns the IDs of the
// first pair holding the minimum, lower slot first. When every remaining
// cell is +Inf it returns the two lowest live slots at distance +Inf.
func (m *matrix) closest() (left, right int, d float64) {
	a, b := -1, -1
	d = math.Inf(1)
	for r := range m.n {
		row := m.cell[r*m.n : (r+1)*m.n]
		for c := r + 1; c < m.n; c++ {
			if row[c] < d {
				a, b, d = r, c, row[c]
			}
		}
	}
	if a < 0 {
		a, b = m.firstLivePair()
	}
	return m.ids[a], m.ids[b], d
}

func (m *matrix) firstLivePair() (int, int) {
	a := -1
	for i, id := range m.ids {
		if id < 0 {
			continue
		}
		if a < 0 {
			a = i
			continue
		}
		return a, i
	}
	return a, a
}

// merge folds cluster right into cluster left under linkage l and renames
// the result id. left must sit in the lower slot. right's slot is retired.
func (m *matrix) merge(left, right, id int, l Linkage) {
	a, b := m.slot[left], m.slot[right]
	inf := math.Inf(1)
	for k, kid := range m.ids {
		if k == a || k == b || kid < 0 {
			continue
		}
		d := l.combine(m.at(a, k), m.at(b, k))
		m.set(a, k, d)
		m.set(k, a, d)
	}
	m.set(a, a, inf)
	for k := range m.n {
		m.set(b, k, inf)
		m.set(k, b, inf)
	}

	delete(m.slot, left)
	delete(m.slot, right)
	m.slot[id] = a
	m.ids[a] = id
	m.ids[b] = -1
}

// clusters returns the live cluster IDs in slot order.
func (m *matrix) clusters() []int {
	out := make([]int, 0, len(m.slot))
	for _, id := range m.ids {
		if id >= 0 {
			out = append(out, id)
		}
	}
	return out
}
