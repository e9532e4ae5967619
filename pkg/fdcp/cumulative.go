package fdcp

import "fmt"

// cumulative.go: the Cumulative global constraint (spec.md §4.D): a set
// of tasks, each with a start, a duration, and a demand, must never ask
// for more than capacity at any instant. Propagation is a time-table
// sweep over each task's compulsory part — the interval
// [Start.Max(), Start.Min()+Duration.Min()) that every task occupies
// regardless of how its remaining slack is resolved — followed by a
// forward scan that pushes each task's earliest start past any window
// where it would overload the profile built from the other tasks'
// compulsory parts. This is the single-direction half of full
// time-table edge-finding (spec.md's sweep is bidirectional); the
// symmetric backward scan over latest completion times is not
// implemented, see DESIGN.md. Grounded on the teacher's cumulative.go for
// the per-task struct shape and on its use of the same compulsory-part
// idea for scheduling demos.
type CumulativeTask struct {
	Start    *IntVar
	Duration *IntVar
	Demand   *IntVar
}

type cumulativeConstraint struct {
	baseConstraint
	tasks    []CumulativeTask
	capacity int64
}

// NewCumulative returns the constraint that, at every instant, the sum of
// Demand over tasks whose interval covers that instant never exceeds
// capacity.
func (s *Solver) NewCumulative(tasks []CumulativeTask, capacity int64) Constraint {
	vars := make([]*IntVar, 0, len(tasks)*3)
	for _, t := range tasks {
		vars = append(vars, t.Start, t.Duration, t.Demand)
	}
	return &cumulativeConstraint{
		baseConstraint: baseConstraint{kind: "cumulative", vars: vars},
		tasks:          tasks, capacity: capacity,
	}
}

func (c *cumulativeConstraint) Post(s *Solver) {
	d := NewDemon(PriorityDelayed, func(sv *Solver) { c.propagate(sv) })
	for _, t := range c.tasks {
		t.Start.WhenRangeDelayed(d)
		t.Duration.WhenRangeDelayed(d)
		t.Demand.WhenRangeDelayed(d)
	}
}

func (c *cumulativeConstraint) InitialPropagate(s *Solver) { c.propagate(s) }

type compulsoryPart struct {
	lo, hi int64 // [lo, hi)
	demand int64
	task   int
}

func (c *cumulativeConstraint) compulsoryParts() []compulsoryPart {
	parts := make([]compulsoryPart, 0, len(c.tasks))
	for i, t := range c.tasks {
		lo := t.Start.Max()
		hi := t.Start.Min() + t.Duration.Min()
		if lo < hi {
			parts = append(parts, compulsoryPart{lo: lo, hi: hi, demand: t.Demand.Min(), task: i})
		}
	}
	return parts
}

// demandAt sums the demand of every compulsory part (excluding exclude)
// covering instant t.
func demandAt(parts []compulsoryPart, t int64, exclude int) int64 {
	var total int64
	for _, p := range parts {
		if p.task == exclude {
			continue
		}
		if t >= p.lo && t < p.hi {
			total += p.demand
		}
	}
	return total
}

func (c *cumulativeConstraint) propagate(s *Solver) {
	parts := c.compulsoryParts()

	// Feasibility check: the full profile (every task's compulsory part,
	// nothing excluded) must never exceed capacity.
	for _, p := range parts {
		for t := p.lo; t < p.hi; t++ {
			if demandAt(parts, t, -1) > c.capacity {
				fail("fdcp: cumulative: capacity %d exceeded at time %d", c.capacity, t)
			}
		}
	}

	// Forward sweep: push each task's earliest start past any window
	// where it would overload the profile built from the OTHER tasks'
	// compulsory parts.
	for i, t := range c.tasks {
		dur := t.Duration.Min()
		if dur <= 0 || t.Demand.Min() <= 0 {
			continue
		}
		s0 := t.Start.Min()
		limit := t.Start.Max()
		for s0 <= limit {
			overloaded := false
			for off := int64(0); off < dur; off++ {
				if demandAt(parts, s0+off, i)+t.Demand.Min() > c.capacity {
					overloaded = true
					break
				}
			}
			if !overloaded {
				break
			}
			s0++
		}
		if s0 > t.Start.Min() {
			t.Start.SetMin(s0)
		}
	}
}

func (c *cumulativeConstraint) String() string {
	return fmt.Sprintf("cumulative(%d tasks, capacity=%d)", len(c.tasks), c.capacity)
}
