package fdcp

import "fmt"

// element.go: the Element global constraint (spec.md §4.D). Two-way
// propagation between an index variable and a result variable through a
// fixed table of per-index expressions: index is restricted to the
// indices whose table entry still intersects result, and result is
// restricted to the union of the table entries reachable from index's
// remaining domain. Grounded on the teacher's element.go for the
// two-directional demon shape; the bound-consistency formulas here are
// this package's own, built on Domain's Each/Contains directly rather
// than the teacher's persistent-domain union helpers.

type elementConstraint struct {
	baseConstraint
	index  *IntVar
	table  []*IntVar
	result *IntVar
}

// NewElement returns the constraint result == table[index], for a fixed
// table of per-index variables (constants can be passed via
// Solver.NewIntConst).
func (s *Solver) NewElement(index *IntVar, table []*IntVar, result *IntVar) Constraint {
	vars := append([]*IntVar{index, result}, table...)
	return &elementConstraint{
		baseConstraint: baseConstraint{kind: "element", vars: vars},
		index:          index, table: table, result: result,
	}
}

func (c *elementConstraint) Post(s *Solver) {
	d := NewDemon(PriorityDelayed, func(sv *Solver) { c.propagate(sv) })
	c.index.WhenDomainDelayed(d)
	c.result.WhenRangeDelayed(d)
	for _, t := range c.table {
		t.WhenRangeDelayed(d)
	}
}

func (c *elementConstraint) InitialPropagate(s *Solver) { c.propagate(s) }

func (c *elementConstraint) propagate(s *Solver) {
	c.index.SetRange(0, int64(len(c.table)-1))

	// Narrow index: drop any i whose table[i] no longer intersects result.
	var removable []int64
	c.index.Each(func(i int64) {
		if i < 0 || int(i) >= len(c.table) {
			removable = append(removable, i)
			return
		}
		t := c.table[i]
		if t.Max() < c.result.Min() || t.Min() > c.result.Max() {
			removable = append(removable, i)
		}
	})
	for _, i := range removable {
		c.index.RemoveValue(i)
	}

	// Narrow result: union of table[i].Min()/Max() over the surviving index
	// values only.
	var lo, hi int64
	first := true
	c.index.Each(func(i int64) {
		t := c.table[i]
		if first {
			lo, hi = t.Min(), t.Max()
			first = false
			return
		}
		if t.Min() < lo {
			lo = t.Min()
		}
		if t.Max() > hi {
			hi = t.Max()
		}
	})
	if !first {
		c.result.SetRange(lo, hi)
	}
}

func (c *elementConstraint) String() string {
	return fmt.Sprintf("element(%s, table[%d], %s)", c.index, len(c.table), c.result)
}
