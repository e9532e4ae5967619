package fdcp

import "fmt"

// expr.go: the IntExpr library (spec.md §3 "Expression", §4.D). An
// IntExpr is anything with computable Min/Max bounds; Var() materializes
// it into a genuine IntVar the first time it is asked for, memoizing the
// result on the Solver's expression cache so that two requests for the
// same expression shape (e.g. x+y built twice) return the same variable
// (SPEC_FULL.md §4.B "model cache"). Every materialized expression posts
// a bound-consistency demon linking its operands to the result variable
// in both directions — narrowing either side narrows the other.

// IntExpr is any quantity whose current bounds can be read without first
// binding it to a concrete IntVar; plain *IntVar already satisfies this.
type IntExpr interface {
	Min() int64
	Max() int64
	// Var materializes this expression as an IntVar, building and posting
	// its linking demons the first time it is called.
	Var() *IntVar
}

// exprKey returns a cache key identifying an expression shape, so repeated
// requests for an equivalent expression reuse one materialized variable
// (unless config.DisableExpressionOptimization is set).
func exprKey(kind string, ids ...int) string {
	s := kind
	for _, id := range ids {
		s += fmt.Sprintf(":%d", id)
	}
	return s
}

func (s *Solver) cachedExpr(key string, build func() IntExpr) IntExpr {
	if s.config.DisableExpressionOptimization {
		return build()
	}
	if e, ok := s.exprCache[key]; ok {
		return e
	}
	e := build()
	s.exprCache[key] = e
	return e
}

// --- identity: a plain *IntVar is already an IntExpr --------------------

func (v *IntVar) Var() *IntVar { return v }

// --- sumExpr: a + b -------------------------------------------------------

type sumExpr struct {
	s    *Solver
	a, b IntExpr
	v    *IntVar
}

// NewSum returns the expression a+b, reusing a cached materialization when
// one already exists for this (a,b) pair.
func (s *Solver) NewSum(a, b IntExpr) IntExpr {
	key := exprKey("sum", a.Var().ID(), b.Var().ID())
	return s.cachedExpr(key, func() IntExpr { return &sumExpr{s: s, a: a, b: b} })
}

func (e *sumExpr) Min() int64 { return CapAdd(e.a.Min(), e.b.Min()) }
func (e *sumExpr) Max() int64 { return CapAdd(e.a.Max(), e.b.Max()) }

func (e *sumExpr) Var() *IntVar {
	if e.v != nil {
		return e.v
	}
	av, bv := e.a.Var(), e.b.Var()
	r := e.s.NewIntVar(e.Min(), e.Max(), fmt.Sprintf("(%s+%s)", av, bv))
	link := NewDemon(PriorityNormal, func(sv *Solver) {
		r.SetRange(CapAdd(av.Min(), bv.Min()), CapAdd(av.Max(), bv.Max()))
		// r == a+b  =>  a == r-b, b == r-a (bound-consistency both ways).
		av.SetRange(CapSub(r.Min(), bv.Max()), CapSub(r.Max(), bv.Min()))
		bv.SetRange(CapSub(r.Min(), av.Max()), CapSub(r.Max(), av.Min()))
	})
	av.WhenRange(link)
	bv.WhenRange(link)
	r.WhenRange(link)
	e.v = r
	r.castExpr = e
	return r
}

// --- diffExpr: a - b ------------------------------------------------------

type diffExpr struct {
	s    *Solver
	a, b IntExpr
	v    *IntVar
}

// NewDifference returns the expression a-b.
func (s *Solver) NewDifference(a, b IntExpr) IntExpr {
	key := exprKey("diff", a.Var().ID(), b.Var().ID())
	return s.cachedExpr(key, func() IntExpr { return &diffExpr{s: s, a: a, b: b} })
}

func (e *diffExpr) Min() int64 { return CapSub(e.a.Min(), e.b.Max()) }
func (e *diffExpr) Max() int64 { return CapSub(e.a.Max(), e.b.Min()) }

func (e *diffExpr) Var() *IntVar {
	if e.v != nil {
		return e.v
	}
	av, bv := e.a.Var(), e.b.Var()
	r := e.s.NewIntVar(e.Min(), e.Max(), fmt.Sprintf("(%s-%s)", av, bv))
	link := NewDemon(PriorityNormal, func(sv *Solver) {
		r.SetRange(CapSub(av.Min(), bv.Max()), CapSub(av.Max(), bv.Min()))
		av.SetRange(CapAdd(r.Min(), bv.Min()), CapAdd(r.Max(), bv.Max()))
		bv.SetRange(CapSub(av.Min(), r.Max()), CapSub(av.Max(), r.Min()))
	})
	av.WhenRange(link)
	bv.WhenRange(link)
	r.WhenRange(link)
	e.v = r
	r.castExpr = e
	return r
}

// --- oppExpr: -a ------------------------------------------------------

type oppExpr struct {
	s *Solver
	a IntExpr
	v *IntVar
}

// NewOpposite returns the expression -a.
func (s *Solver) NewOpposite(a IntExpr) IntExpr {
	key := exprKey("opp", a.Var().ID())
	return s.cachedExpr(key, func() IntExpr { return &oppExpr{s: s, a: a} })
}

func (e *oppExpr) Min() int64 { return CapOpp(e.a.Max()) }
func (e *oppExpr) Max() int64 { return CapOpp(e.a.Min()) }

func (e *oppExpr) Var() *IntVar {
	if e.v != nil {
		return e.v
	}
	av := e.a.Var()
	r := e.s.NewIntVar(e.Min(), e.Max(), fmt.Sprintf("(-%s)", av))
	link := NewDemon(PriorityNormal, func(sv *Solver) {
		r.SetRange(CapOpp(av.Max()), CapOpp(av.Min()))
		av.SetRange(CapOpp(r.Max()), CapOpp(r.Min()))
	})
	av.WhenRange(link)
	r.WhenRange(link)
	e.v = r
	r.castExpr = e
	return r
}

// --- scaleExpr: c * a (a fixed scalar, not var*var) ---------------------

type scaleExpr struct {
	s *Solver
	a IntExpr
	c int64
	v *IntVar
}

// NewScale returns the expression c*a for a fixed scalar c.
func (s *Solver) NewScale(a IntExpr, c int64) IntExpr {
	if c == 1 {
		return a
	}
	if c == -1 {
		return s.NewOpposite(a)
	}
	key := exprKey("scale", a.Var().ID(), int(c))
	return s.cachedExpr(key, func() IntExpr { return &scaleExpr{s: s, a: a, c: c} })
}

func (e *scaleExpr) Min() int64 {
	if e.c >= 0 {
		return CapProd(e.a.Min(), e.c)
	}
	return CapProd(e.a.Max(), e.c)
}
func (e *scaleExpr) Max() int64 {
	if e.c >= 0 {
		return CapProd(e.a.Max(), e.c)
	}
	return CapProd(e.a.Min(), e.c)
}

func (e *scaleExpr) Var() *IntVar {
	if e.v != nil {
		return e.v
	}
	av := e.a.Var()
	r := e.s.NewIntVar(e.Min(), e.Max(), fmt.Sprintf("(%d*%s)", e.c, av))
	link := NewDemon(PriorityNormal, func(sv *Solver) {
		r.SetRange(e.Min(), e.Max())
		lo, hi := r.Min(), r.Max()
		if e.c > 0 {
			av.SetRange(ceilDiv(lo, e.c), floorDiv(hi, e.c))
		} else {
			av.SetRange(ceilDiv(hi, e.c), floorDiv(lo, e.c))
		}
	})
	av.WhenRange(link)
	r.WhenRange(link)
	e.v = r
	r.castExpr = e
	return r
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

// --- scalarProdExpr: sum(coeffs[i] * vars[i]) ---------------------------

type scalarProdExpr struct {
	s      *Solver
	vars   []*IntVar
	coeffs []int64
	v      *IntVar
}

// NewScalarProd returns the expression sum_i coeffs[i]*vars[i].
func (s *Solver) NewScalarProd(vars []*IntVar, coeffs []int64) IntExpr {
	if len(vars) != len(coeffs) {
		panic("fdcp: NewScalarProd: vars and coeffs length mismatch")
	}
	ids := make([]int, 0, len(vars)+len(coeffs))
	for i, v := range vars {
		ids = append(ids, v.ID(), int(coeffs[i]))
	}
	key := exprKey("scalprod", ids...)
	return s.cachedExpr(key, func() IntExpr {
		return &scalarProdExpr{s: s, vars: vars, coeffs: coeffs}
	})
}

func (e *scalarProdExpr) bounds() (lo, hi int64) {
	for i, v := range e.vars {
		c := e.coeffs[i]
		if c >= 0 {
			lo = CapAdd(lo, CapProd(c, v.Min()))
			hi = CapAdd(hi, CapProd(c, v.Max()))
		} else {
			lo = CapAdd(lo, CapProd(c, v.Max()))
			hi = CapAdd(hi, CapProd(c, v.Min()))
		}
	}
	return lo, hi
}

func (e *scalarProdExpr) Min() int64 { lo, _ := e.bounds(); return lo }
func (e *scalarProdExpr) Max() int64 { _, hi := e.bounds(); return hi }

func (e *scalarProdExpr) Var() *IntVar {
	if e.v != nil {
		return e.v
	}
	lo, hi := e.bounds()
	r := e.s.NewIntVar(lo, hi, "(scalar_prod)")
	propagate := func(sv *Solver) {
		lo, hi := e.bounds()
		r.SetRange(lo, hi)
		// Bound-consistency on each term: var_i in [ (r.Min - sum_{j!=i} max_j) / c_i , ... ].
		for i, v := range e.vars {
			c := e.coeffs[i]
			if c == 0 {
				continue
			}
			var restLo, restHi int64
			for j, w := range e.vars {
				if j == i {
					continue
				}
				cj := e.coeffs[j]
				if cj >= 0 {
					restLo = CapAdd(restLo, CapProd(cj, w.Min()))
					restHi = CapAdd(restHi, CapProd(cj, w.Max()))
				} else {
					restLo = CapAdd(restLo, CapProd(cj, w.Max()))
					restHi = CapAdd(restHi, CapProd(cj, w.Min()))
				}
			}
			termLo := CapSub(r.Min(), restHi)
			termHi := CapSub(r.Max(), restLo)
			if c > 0 {
				v.SetRange(ceilDiv(termLo, c), floorDiv(termHi, c))
			} else {
				v.SetRange(ceilDiv(termHi, c), floorDiv(termLo, c))
			}
		}
	}
	d := NewDemon(PriorityDelayed, propagate)
	for _, v := range e.vars {
		v.WhenRangeDelayed(d)
	}
	r.WhenRangeDelayed(d)
	e.v = r
	r.castExpr = e
	return r
}

// --- absExpr: |a| --------------------------------------------------------

type absExpr struct {
	s *Solver
	a IntExpr
	v *IntVar
}

// NewAbs returns the expression |a|.
func (s *Solver) NewAbs(a IntExpr) IntExpr {
	key := exprKey("abs", a.Var().ID())
	return s.cachedExpr(key, func() IntExpr { return &absExpr{s: s, a: a} })
}

func absBounds(lo, hi int64) (int64, int64) {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo >= 0 {
		return lo, hi
	}
	if hi <= 0 {
		return CapOpp(hi), CapOpp(lo)
	}
	top := maxI64(CapOpp(lo), hi)
	return 0, top
}

func (e *absExpr) Min() int64 { lo, _ := absBounds(e.a.Min(), e.a.Max()); return lo }
func (e *absExpr) Max() int64 { _, hi := absBounds(e.a.Min(), e.a.Max()); return hi }

func (e *absExpr) Var() *IntVar {
	if e.v != nil {
		return e.v
	}
	av := e.a.Var()
	lo, hi := absBounds(av.Min(), av.Max())
	r := e.s.NewIntVar(lo, hi, fmt.Sprintf("|%s|", av))
	link := NewDemon(PriorityNormal, func(sv *Solver) {
		lo, hi := absBounds(av.Min(), av.Max())
		r.SetRange(lo, hi)
		// r == |a|  =>  a in [-r.Max, r.Max] intersected with a's own sign span.
		rmax := r.Max()
		if av.Min() >= 0 {
			av.SetRange(r.Min(), rmax)
		} else if av.Max() <= 0 {
			av.SetRange(CapOpp(rmax), CapOpp(r.Min()))
		} else {
			av.SetRange(CapOpp(rmax), rmax)
		}
	})
	av.WhenRange(link)
	r.WhenRange(link)
	e.v = r
	r.castExpr = e
	return r
}

// --- min2Expr / max2Expr: min(a,b), max(a,b) ----------------------------

type min2Expr struct {
	s    *Solver
	a, b IntExpr
	v    *IntVar
}

// NewMin2 returns the expression min(a,b).
func (s *Solver) NewMin2(a, b IntExpr) IntExpr {
	key := exprKey("min2", a.Var().ID(), b.Var().ID())
	return s.cachedExpr(key, func() IntExpr { return &min2Expr{s: s, a: a, b: b} })
}

func (e *min2Expr) Min() int64 { return minI64(e.a.Min(), e.b.Min()) }
func (e *min2Expr) Max() int64 { return minI64(e.a.Max(), e.b.Max()) }

func (e *min2Expr) Var() *IntVar {
	if e.v != nil {
		return e.v
	}
	av, bv := e.a.Var(), e.b.Var()
	r := e.s.NewIntVar(e.Min(), e.Max(), fmt.Sprintf("min(%s,%s)", av, bv))
	link := NewDemon(PriorityNormal, func(sv *Solver) {
		r.SetRange(minI64(av.Min(), bv.Min()), minI64(av.Max(), bv.Max()))
		av.SetMin(r.Min())
		bv.SetMin(r.Min())
		if av.Min() > r.Max() {
			bv.SetMax(r.Max())
		}
		if bv.Min() > r.Max() {
			av.SetMax(r.Max())
		}
	})
	av.WhenRange(link)
	bv.WhenRange(link)
	r.WhenRange(link)
	e.v = r
	r.castExpr = e
	return r
}

type max2Expr struct {
	s    *Solver
	a, b IntExpr
	v    *IntVar
}

// NewMax2 returns the expression max(a,b).
func (s *Solver) NewMax2(a, b IntExpr) IntExpr {
	key := exprKey("max2", a.Var().ID(), b.Var().ID())
	return s.cachedExpr(key, func() IntExpr { return &max2Expr{s: s, a: a, b: b} })
}

func (e *max2Expr) Min() int64 { return maxI64(e.a.Min(), e.b.Min()) }
func (e *max2Expr) Max() int64 { return maxI64(e.a.Max(), e.b.Max()) }

func (e *max2Expr) Var() *IntVar {
	if e.v != nil {
		return e.v
	}
	av, bv := e.a.Var(), e.b.Var()
	r := e.s.NewIntVar(e.Min(), e.Max(), fmt.Sprintf("max(%s,%s)", av, bv))
	link := NewDemon(PriorityNormal, func(sv *Solver) {
		r.SetRange(maxI64(av.Min(), bv.Min()), maxI64(av.Max(), bv.Max()))
		av.SetMax(r.Max())
		bv.SetMax(r.Max())
		if av.Max() < r.Min() {
			bv.SetMin(r.Min())
		}
		if bv.Max() < r.Min() {
			av.SetMin(r.Min())
		}
	})
	av.WhenRange(link)
	bv.WhenRange(link)
	r.WhenRange(link)
	e.v = r
	r.castExpr = e
	return r
}

// --- squareExpr: a*a ------------------------------------------------------

type squareExpr struct {
	s *Solver
	a IntExpr
	v *IntVar
}

// NewSquare returns the expression a*a.
func (s *Solver) NewSquare(a IntExpr) IntExpr {
	key := exprKey("square", a.Var().ID())
	return s.cachedExpr(key, func() IntExpr { return &squareExpr{s: s, a: a} })
}

func squareBounds(lo, hi int64) (int64, int64) {
	absLo, absHi := absBounds(lo, hi)
	_ = absLo
	top := CapProd(absHi, absHi)
	if lo <= 0 && hi >= 0 {
		return 0, top
	}
	bottom := CapProd(absBoundsMin(lo, hi), absBoundsMin(lo, hi))
	if bottom > top {
		bottom, top = top, bottom
	}
	return bottom, top
}

func absBoundsMin(lo, hi int64) int64 {
	lo2, _ := absBounds(lo, hi)
	return lo2
}

func (e *squareExpr) Min() int64 { lo, _ := squareBounds(e.a.Min(), e.a.Max()); return lo }
func (e *squareExpr) Max() int64 { _, hi := squareBounds(e.a.Min(), e.a.Max()); return hi }

func (e *squareExpr) Var() *IntVar {
	if e.v != nil {
		return e.v
	}
	av := e.a.Var()
	lo, hi := squareBounds(av.Min(), av.Max())
	r := e.s.NewIntVar(lo, hi, fmt.Sprintf("%s^2", av))
	link := NewDemon(PriorityNormal, func(sv *Solver) {
		lo, hi := squareBounds(av.Min(), av.Max())
		r.SetRange(lo, hi)
		bound := int64(0)
		for bound*bound < r.Max() {
			bound++
		}
		if av.Min() >= 0 {
			av.SetMax(bound)
		} else if av.Max() <= 0 {
			av.SetMin(CapOpp(bound))
		}
	})
	av.WhenRange(link)
	r.WhenRange(link)
	e.v = r
	r.castExpr = e
	return r
}
