package fdcp

import "fmt"

// constraints_linear.go: the arithmetic relational constraints over
// IntExpr (spec.md §4.D "arithmetic constraints"): <=, ==, !=, plus the
// sum/scalar-product conveniences built directly on NewSum/NewScalarProd
// since those already provide bound consistency through their Var().

// leqConstraint posts a <= b.
type leqConstraint struct {
	baseConstraint
	a, b IntExpr
}

// NewLessOrEqual returns the constraint a <= b.
func (s *Solver) NewLessOrEqual(a, b IntExpr) Constraint {
	av, bv := a.Var(), b.Var()
	return &leqConstraint{baseConstraint: baseConstraint{kind: "<=", vars: []*IntVar{av, bv}}, a: a, b: b}
}

func (c *leqConstraint) Post(s *Solver) {
	av, bv := c.a.Var(), c.b.Var()
	d := NewDemon(PriorityNormal, func(sv *Solver) {
		av.SetMax(bv.Max())
		bv.SetMin(av.Min())
	})
	av.WhenRange(d)
	bv.WhenRange(d)
}

func (c *leqConstraint) InitialPropagate(s *Solver) {
	av, bv := c.a.Var(), c.b.Var()
	av.SetMax(bv.Max())
	bv.SetMin(av.Min())
}

func (c *leqConstraint) String() string { return fmt.Sprintf("(%s <= %s)", c.a.Var(), c.b.Var()) }

// equalConstraint posts a == b.
type equalConstraint struct {
	baseConstraint
	a, b IntExpr
}

// NewEqual returns the constraint a == b.
func (s *Solver) NewEqual(a, b IntExpr) Constraint {
	av, bv := a.Var(), b.Var()
	return &equalConstraint{baseConstraint: baseConstraint{kind: "==", vars: []*IntVar{av, bv}}, a: a, b: b}
}

func (c *equalConstraint) Post(s *Solver) {
	av, bv := c.a.Var(), c.b.Var()
	d := NewDemon(PriorityNormal, func(sv *Solver) {
		av.SetRange(bv.Min(), bv.Max())
		bv.SetRange(av.Min(), av.Max())
	})
	av.WhenRange(d)
	bv.WhenRange(d)
}

func (c *equalConstraint) InitialPropagate(s *Solver) {
	av, bv := c.a.Var(), c.b.Var()
	av.SetRange(bv.Min(), bv.Max())
	bv.SetRange(av.Min(), av.Max())
}

func (c *equalConstraint) String() string { return fmt.Sprintf("(%s == %s)", c.a.Var(), c.b.Var()) }

// notEqualConstraint posts a != b: an immediate demon fires only once either
// side becomes bound, at which point it punches the single matching hole
// in the other side (spec.md §4.B "domain events... interior holes").
type notEqualConstraint struct {
	baseConstraint
	a, b IntExpr
}

// NewNotEqual returns the constraint a != b.
func (s *Solver) NewNotEqual(a, b IntExpr) Constraint {
	av, bv := a.Var(), b.Var()
	return &notEqualConstraint{baseConstraint: baseConstraint{kind: "!=", vars: []*IntVar{av, bv}}, a: a, b: b}
}

func (c *notEqualConstraint) Post(s *Solver) {
	av, bv := c.a.Var(), c.b.Var()
	d := NewDemon(PriorityNormal, func(sv *Solver) {
		if bv.IsBound() {
			av.RemoveValue(bv.Value())
		}
		if av.IsBound() {
			bv.RemoveValue(av.Value())
		}
	})
	av.WhenBound(d)
	bv.WhenBound(d)
}

func (c *notEqualConstraint) InitialPropagate(s *Solver) {
	av, bv := c.a.Var(), c.b.Var()
	if bv.IsBound() {
		av.RemoveValue(bv.Value())
	}
	if av.IsBound() {
		bv.RemoveValue(av.Value())
	}
}

func (c *notEqualConstraint) String() string {
	return fmt.Sprintf("(%s != %s)", c.a.Var(), c.b.Var())
}

// NewSumEqual is the common case of a linear equality sum(vars) == target,
// built directly on NewScalarProd with all-1 coefficients plus NewEqual —
// most models reach for this instead of composing NewScalarProd by hand.
func (s *Solver) NewSumEqual(vars []*IntVar, target IntExpr) Constraint {
	coeffs := make([]int64, len(vars))
	for i := range coeffs {
		coeffs[i] = 1
	}
	return s.NewEqual(s.NewScalarProd(vars, coeffs), target)
}
