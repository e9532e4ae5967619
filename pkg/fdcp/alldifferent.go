package fdcp

import "fmt"

// alldifferent.go: the AllDifferent global constraint (spec.md §4.D).
// Whenever a variable in the group becomes bound, a scan over the group
// removes every bound variable's value from the other variables, the
// classic value-based propagation pass. A delayed demon
// additionally checks Hall intervals over the current bounds (spec.md's
// "detect when a subset of N variables has a combined domain spanning
// exactly N values, and prune any other variable overlapping that span"),
// a cheaper approximation of full domain-consistent filtering.

type allDifferentConstraint struct {
	baseConstraint
	vars []*IntVar
}

// NewAllDifferent returns the constraint that every variable in vars
// takes a pairwise distinct value.
func (s *Solver) NewAllDifferent(vars []*IntVar) Constraint {
	return &allDifferentConstraint{
		baseConstraint: baseConstraint{kind: "all_different", vars: vars},
		vars:           vars,
	}
}

func (c *allDifferentConstraint) Post(s *Solver) {
	boundDemon := NewDemon(PriorityNormal, func(sv *Solver) {
		c.propagateBound(sv)
	})
	for _, v := range c.vars {
		v.WhenBound(boundDemon)
	}
	hallDemon := NewDemon(PriorityDelayed, func(sv *Solver) {
		c.propagateHall(sv)
	})
	for _, v := range c.vars {
		v.WhenRangeDelayed(hallDemon)
	}
}

func (c *allDifferentConstraint) InitialPropagate(s *Solver) {
	c.propagateBound(s)
	c.propagateHall(s)
}

// propagateBound removes every bound variable's value from every other
// variable in the group.
func (c *allDifferentConstraint) propagateBound(s *Solver) {
	for _, v := range c.vars {
		if !v.IsBound() {
			continue
		}
		val := v.Value()
		for _, w := range c.vars {
			if w == v {
				continue
			}
			if w.IsBound() {
				if w.Value() == val {
					fail("fdcp: all_different: %s and %s both bound to %d", v, w, val)
				}
				continue
			}
			if w.Contains(val) {
				w.RemoveValue(val)
			}
		}
	}
}

// propagateHall finds intervals [lo,hi] whose combined domain spans
// exactly hi-lo+1 values across exactly that many variables (a Hall set)
// and removes [lo,hi] from every other variable — the interval
// generalization of the point-value pruning above, grounded on the same
// bounds-consistency idea as Régin's filtering without its full
// union-find matching machinery.
func (c *allDifferentConstraint) propagateHall(s *Solver) {
	n := len(c.vars)
	for i := 0; i < n; i++ {
		lo := c.vars[i].Min()
		hi := c.vars[i].Max()
		for j := i; j < n; j++ {
			hi = maxI64(hi, c.vars[j].Max())
			span := hi - lo + 1
			if span <= 0 || span > int64(n) {
				continue
			}
			count := 0
			for _, v := range c.vars {
				if v.Min() >= lo && v.Max() <= hi {
					count++
				}
			}
			if int64(count) == span {
				for _, v := range c.vars {
					if v.Min() >= lo && v.Max() <= hi {
						continue
					}
					if v.Min() <= hi && v.Max() >= lo {
						for val := maxI64(lo, v.Min()); val <= minI64(hi, v.Max()); val++ {
							if v.Contains(val) {
								v.RemoveValue(val)
							}
						}
					}
				}
			}
		}
	}
}

func (c *allDifferentConstraint) String() string {
	return fmt.Sprintf("all_different(%v)", c.vars)
}
