package fdcp

import "fmt"

// table.go: the extensional Table global constraint (spec.md §4.D). The
// set of valid tuples is a reversible per-tuple flag: a tuple is marked
// invalid (never revalidated, restored on backtrack through the trail
// like everything else reversible in this package) the moment any of its
// positions no longer matches its variable's domain. After marking,
// every position's variable is pruned down to the values still supported
// by at least one valid tuple. Grounded on the teacher's table.go for the
// "reversible sparse set of valid tuples" idiom named directly in
// spec.md §4.D.
type tableConstraint struct {
	baseConstraint
	vars   []*IntVar
	tuples [][]int64
	valid  []*RevBool
}

// NewTable returns the constraint that vars' joint assignment is exactly
// one row of tuples.
func (s *Solver) NewTable(vars []*IntVar, tuples [][]int64) Constraint {
	valid := make([]*RevBool, len(tuples))
	for i := range tuples {
		valid[i] = NewRevBool(s.trail, true)
	}
	return &tableConstraint{
		baseConstraint: baseConstraint{kind: "table", vars: vars},
		vars:           vars, tuples: tuples, valid: valid,
	}
}

func (c *tableConstraint) Post(s *Solver) {
	d := NewDemon(PriorityDelayed, func(sv *Solver) { c.propagate(sv) })
	for _, v := range c.vars {
		v.WhenDomainDelayed(d)
	}
}

func (c *tableConstraint) InitialPropagate(s *Solver) { c.propagate(s) }

// propagate invalidates any tuple that no longer matches every variable's
// domain, then removes from each variable any value with no remaining
// support.
func (c *tableConstraint) propagate(s *Solver) {
	support := make([]map[int64]bool, len(c.vars))
	for i := range support {
		support[i] = make(map[int64]bool)
	}

	anyValid := false
	for ti, row := range c.tuples {
		if !c.valid[ti].Value() {
			continue
		}
		ok := true
		for vi, v := range c.vars {
			if !v.Contains(row[vi]) {
				ok = false
				break
			}
		}
		if !ok {
			c.valid[ti].Set(false)
			continue
		}
		anyValid = true
		for vi, val := range row {
			support[vi][val] = true
		}
	}

	if !anyValid {
		fail("fdcp: table: no tuple satisfies the current domains")
	}

	for vi, v := range c.vars {
		var toRemove []int64
		v.Each(func(val int64) {
			if !support[vi][val] {
				toRemove = append(toRemove, val)
			}
		})
		for _, val := range toRemove {
			v.RemoveValue(val)
		}
	}
}

func (c *tableConstraint) String() string {
	return fmt.Sprintf("table(%v, %d tuples)", c.vars, len(c.tuples))
}
