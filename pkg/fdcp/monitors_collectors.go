package fdcp

import "sort"

// monitors_collectors.go: SolutionCollector (spec.md §4.G "first / last /
// best / N-best / all; stores snapshots of a user-selected subset"). Each
// mode snapshots via Solver.Snapshot at AtSolution time; "best"/"N-best"
// rank by an optional objective variable read back at the same instant.

// CollectorMode selects which solutions a SolutionCollector keeps. It
// records at AtSolution, which fires before any monitor's AcceptSolution,
// so a solution that a later monitor rejects is still recorded.
type CollectorMode int

const (
	// CollectFirst keeps only the first solution reached.
	CollectFirst CollectorMode = iota
	// CollectLast keeps only the most recently reached solution.
	CollectLast
	// CollectAll keeps every solution reached, in order.
	CollectAll
	// CollectBest keeps only the single best solution seen so far, by
	// objective value (ties keep the earlier one).
	CollectBest
	// CollectNBest keeps the N best solutions seen so far, by objective
	// value, evicting the worst once more than N are held.
	CollectNBest
)

// SolutionCollector is a SearchMonitor that snapshots Solver state at every
// solution reached (its AtSolution event), per its configured
// CollectorMode.
type SolutionCollector struct {
	BaseMonitor
	mode      CollectorMode
	objective *IntVar
	minimize  bool
	limit     int // used by CollectNBest; ignored otherwise

	solutions []*Assignment
}

// NewSolutionCollector creates a collector in the given mode. objective may
// be nil (the collector then just records Snapshot() with no Objective
// field set) except in CollectBest/CollectNBest mode, which require it to
// rank solutions. limit is the N for CollectNBest and is ignored by every
// other mode.
func NewSolutionCollector(mode CollectorMode, objective *IntVar, minimize bool, limit int) *SolutionCollector {
	return &SolutionCollector{mode: mode, objective: objective, minimize: minimize, limit: limit}
}

func (c *SolutionCollector) snapshot(s *Solver) *Assignment {
	a := s.Snapshot()
	if c.objective != nil && c.objective.IsBound() {
		a = a.WithObjective(c.objective.Value())
	}
	return a
}

// betterObjective reports whether a is strictly better than b under this
// collector's sense (lower is better when minimize).
func (c *SolutionCollector) betterObjective(a, b *Assignment) bool {
	if c.minimize {
		return a.Objective < b.Objective
	}
	return a.Objective > b.Objective
}

func (c *SolutionCollector) AtSolution(s *Solver) {
	a := c.snapshot(s)
	switch c.mode {
	case CollectFirst:
		if len(c.solutions) == 0 {
			c.solutions = append(c.solutions, a)
		}
	case CollectLast:
		if len(c.solutions) == 0 {
			c.solutions = append(c.solutions, a)
		} else {
			c.solutions[0] = a
		}
	case CollectAll:
		c.solutions = append(c.solutions, a)
	case CollectBest:
		if len(c.solutions) == 0 || c.betterObjective(a, c.solutions[0]) {
			c.solutions = []*Assignment{a}
		}
	case CollectNBest:
		c.solutions = append(c.solutions, a)
		sort.SliceStable(c.solutions, func(i, j int) bool {
			return c.betterObjective(c.solutions[i], c.solutions[j])
		})
		if c.limit > 0 && len(c.solutions) > c.limit {
			c.solutions = c.solutions[:c.limit]
		}
	}
}

// Solutions returns every snapshot currently held, in the order defined by
// the collector's mode (insertion order for First/Last/All, best-first for
// Best/NBest).
func (c *SolutionCollector) Solutions() []*Assignment { return c.solutions }

// Last returns the most recently collected solution, or nil if none.
func (c *SolutionCollector) Last() *Assignment {
	if len(c.solutions) == 0 {
		return nil
	}
	return c.solutions[len(c.solutions)-1]
}

// Best returns the best-ranked solution held (the only one in CollectBest
// mode, the first in CollectNBest mode), or nil if none.
func (c *SolutionCollector) Best() *Assignment {
	if len(c.solutions) == 0 {
		return nil
	}
	return c.solutions[0]
}

// Count returns the number of solutions currently held.
func (c *SolutionCollector) Count() int { return len(c.solutions) }
