package fdcp

import "fmt"

// nooverlap.go: NoOverlap (spec.md §4.D), the capacity-1 specialization
// of Cumulative used for machine scheduling / disjunctive resources.
// Grounded on the teacher's nooverlap.go, which is itself a thin wrapper
// the same way around its cumulative.go.

// NoOverlapInterval is one interval in a no-overlap set: [Start,
// Start+Duration).
type NoOverlapInterval struct {
	Start    *IntVar
	Duration *IntVar
}

// NewNoOverlap returns the constraint that no two intervals overlap in
// time, built directly as Cumulative with capacity 1 and a constant
// demand of 1 per task.
func (s *Solver) NewNoOverlap(intervals []NoOverlapInterval) Constraint {
	tasks := make([]CumulativeTask, len(intervals))
	one := s.NewIntConst(1, "")
	for i, iv := range intervals {
		tasks[i] = CumulativeTask{Start: iv.Start, Duration: iv.Duration, Demand: one}
	}
	c := s.NewCumulative(tasks, 1).(*cumulativeConstraint)
	return &noOverlapConstraint{baseConstraint: baseConstraint{kind: "no_overlap", vars: c.vars}, inner: c}
}

type noOverlapConstraint struct {
	baseConstraint
	inner *cumulativeConstraint
}

func (c *noOverlapConstraint) Post(s *Solver)             { c.inner.Post(s) }
func (c *noOverlapConstraint) InitialPropagate(s *Solver) { c.inner.InitialPropagate(s) }
func (c *noOverlapConstraint) String() string {
	return fmt.Sprintf("no_overlap(%d intervals)", len(c.inner.tasks))
}
