package hierarchy

import (
	"fmt"
	"strings"
)

// Linkage decides the distance between a merged cluster and any other cluster
// from the two distances of its parts.
type Linkage int

const (
	// Single keeps the smaller of the two distances.
	Single Linkage = iota
	// Complete keeps the larger of the two distances.
	Complete
	// Mean keeps the arithmetic average of the two distances.
	Mean
)

// ParseLinkage maps "single", "complete" or "mean" to a Linkage.
func ParseLinkage(name string) (Linkage, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "single":
		return Single, nil
	case "complete":
		return Complete, nil
	case "mean":
		return Mean, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLinkage, name)
	}
}

func (l Linkage) String() string {
	switch l {
	case Single:
		return "single"
	case Complete:
		return "complete"
	case Mean:
		return "mean"
	default:
		return fmt.Sprintf("Linkage(%d)", int(l))
	}
}

func (l Linkage) valid() bool {
	return l >= Single && l <= Mean
}

// combine returns the distance from the merged cluster given the distances
// from its two parts.
func (l Linkage) combine(a, b float64) float64 {
	switch l {
	case Complete:
		return max(a, b)
	case Mean:
		return (a + b) / 2
	default:
		return min(a, b)
	}
}
