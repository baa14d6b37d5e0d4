package kmeans

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/hupe1980/songclust/dataset"
	"github.com/hupe1980/songclust/distance"
)

// DefaultMaxIterations bounds the relaxation loop when Config.MaxIterations is unset.
const DefaultMaxIterations = 300

// Phase is a state of the refiner.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseAssigning
	PhaseUpdating
	PhaseConverged
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseAssigning:
		return "assigning"
	case PhaseUpdating:
		return "updating"
	case PhaseConverged:
		return "converged"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Config tunes a Fit run.
type Config struct {
	// MaxIterations caps the number of assign/update rounds.
	// Zero means DefaultMaxIterations.
	MaxIterations int

	// Rand draws replacement points for empty clusters.
	// Nil means a randomly seeded generator.
	Rand *rand.Rand

	// OnEmptyCluster, if set, is called every time an empty cluster is
	// reseeded with a random point.
	OnEmptyCluster func(cluster, point, iteration int)
}

// Result is the outcome of a Fit run.
type Result struct {
	// Centers holds the final k centers.
	Centers [][]float64
	// Assignment maps every point to its nearest final center.
	Assignment []int
	// Iterations is the number of assign/update rounds executed.
	Iterations int
	// Converged is false when the iteration cap stopped the loop before the
	// centers stabilised.
	Converged bool
	// EmptyRecovered counts empty clusters reseeded during the run.
	EmptyRecovered int
}

// state is the mutable run state owned by a single Fit call.
type state struct {
	ds        *dataset.Dataset
	rule      UpdateRule
	cfg       Config
	phase     Phase
	centers   [][]float64
	prev      []float64
	members   [][]int
	iter      int
	capped    bool
	recovered int
}

// Fit runs Lloyd's relaxation from the given initial centers.
//
// Each round assigns every point to its nearest center (lowest index on
// ties), reseeds each empty cluster with one uniformly drawn point, then
// recomputes every center with rule. The loop stops when no center changed
// during a round, or after cfg.MaxIterations rounds (Result.Converged is then
// false). ctx is checked once per round.
func Fit(ctx context.Context, ds *dataset.Dataset, initial [][]float64, rule UpdateRule, cfg Config) (*Result, error) {
	if rule == nil {
		return nil, ErrNilRule
	}
	if err := validateK(ds, len(initial)); err != nil {
		return nil, err
	}
	if err := validateCenters(ds, initial); err != nil {
		return nil, err
	}
	if err := rule.Validate(ds); err != nil {
		return nil, err
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s := &state{ds: ds, rule: rule, cfg: cfg, phase: PhaseInitializing}

	for s.phase != PhaseConverged {
		switch s.phase {
		case PhaseInitializing:
			s.init(initial)
			s.phase = PhaseAssigning
		case PhaseAssigning:
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if s.iter >= cfg.MaxIterations {
				s.capped = true
				s.phase = PhaseConverged
				continue
			}
			s.iter++
			s.assign()
			s.phase = PhaseUpdating
		case PhaseUpdating:
			if s.update() {
				s.phase = PhaseConverged
			} else {
				s.phase = PhaseAssigning
			}
		}
	}

	assignment, err := AssignCentersToData(ds, s.centers)
	if err != nil {
		return nil, err
	}

	return &Result{
		Centers:        s.centers,
		Assignment:     assignment,
		Iterations:     s.iter,
		Converged:      !s.capped,
		EmptyRecovered: s.recovered,
	}, nil
}

func (s *state) init(initial [][]float64) {
	k := len(initial)
	s.centers = make([][]float64, k)
	for j, c := range initial {
		s.centers[j] = slices.Clone(c)
	}
	s.prev = make([]float64, s.ds.Dim())
	s.members = make([][]int, k)
}

func (s *state) assign() {
	for j := range s.members {
		s.members[j] = s.members[j][:0]
	}
	for i := range s.ds.Len() {
		j, _ := AssignPartition(s.ds.Row(i), s.centers)
		s.members[j] = append(s.members[j], i)
	}

	for j := range s.members {
		if len(s.members[j]) > 0 {
			continue
		}
		p := s.cfg.Rand.IntN(s.ds.Len())
		s.members[j] = append(s.members[j], p)
		s.recovered++
		if s.cfg.OnEmptyCluster != nil {
			s.cfg.OnEmptyCluster(j, p, s.iter)
		}
	}
}

// update recomputes every center and reports whether all of them are
// unchanged.
func (s *state) update() bool {
	stable := true
	for j, c := range s.centers {
		copy(s.prev, c)
		s.rule.Update(s.ds, s.members[j], c)
		if !distance.Equal(s.prev, c) {
			stable = false
		}
	}
	return stable
}
