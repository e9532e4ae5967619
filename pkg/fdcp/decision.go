package fdcp

import "fmt"

// decision.go: Decision and DecisionBuilder (spec.md §3 "Decision",
// §4.F). A Decision is a single binary choice point: Apply narrows the
// model one way, Refute narrows it the complementary way if Apply's
// branch later fails. A DecisionBuilder hands out one Decision per call
// to Next, returning nil once every variable it cares about is bound
// (search.go then treats that as a candidate solution).

// Decision is a single binary choice point in the search tree.
type Decision interface {
	// Apply narrows the model along this decision's primary branch.
	Apply(s *Solver)
	// Refute narrows the model along the complementary branch, tried only
	// if Apply's branch is exhausted or fails.
	Refute(s *Solver)
	// String renders the decision for search logs.
	String() string
}

// DecisionBuilder hands out the next Decision to try, or nil when it has
// nothing left to decide (every variable it governs is already bound).
type DecisionBuilder interface {
	Next(s *Solver) Decision
}

// assignVarDecision binds v to val on Apply, and excludes val from v's
// domain on Refute — the standard "x == val" / "x != val" split used by
// value-then-variable enumeration (spec.md §4.F).
type assignVarDecision struct {
	v   *IntVar
	val int64
}

func (d *assignVarDecision) Apply(s *Solver)  { d.v.SetValue(d.val) }
func (d *assignVarDecision) Refute(s *Solver) { d.v.RemoveValue(d.val) }
func (d *assignVarDecision) String() string {
	return fmt.Sprintf("[%s == %d]", d.v.String(), d.val)
}

// splitVarDecision bisects v's domain at mid: Apply keeps the lower half,
// Refute keeps the upper half (spec.md's ValueSplit heuristic).
type splitVarDecision struct {
	v   *IntVar
	mid int64
}

func (d *splitVarDecision) Apply(s *Solver)  { d.v.SetMax(d.mid) }
func (d *splitVarDecision) Refute(s *Solver) { d.v.SetMin(d.mid + 1) }
func (d *splitVarDecision) String() string {
	return fmt.Sprintf("[%s <= %d or > %d]", d.v.String(), d.mid, d.mid)
}

// phaseBuilder is the default DecisionBuilder built by Solver.Phase: it
// repeatedly selects an unbound variable from vars by VariableHeuristic
// and proposes a value (or split point) by ValueHeuristic, until every
// variable in vars is bound.
type phaseBuilder struct {
	s      *Solver
	vars   []*IntVar
	varH   VariableHeuristic
	valH   ValueHeuristic
	degree map[int]int // variable ID -> number of constraints mentioning it, for MinDomainOverDegree
}

// Phase builds the default DecisionBuilder: branch over vars using the
// Solver's configured (or explicitly given) variable/value heuristics
// until every one of them is bound (spec.md §6 "Phase(vars, var_strategy,
// value_strategy)").
func (s *Solver) Phase(vars []*IntVar, varH VariableHeuristic, valH ValueHeuristic) DecisionBuilder {
	degree := make(map[int]int, len(vars))
	for _, c := range s.constraints {
		// baseConstraint-derived constraints expose Vars(); others are
		// counted as degree 0 and simply fall back to declaration order
		// for MinDomainOverDegree ties.
		if vc, ok := c.(interface{ Vars() []*IntVar }); ok {
			for _, v := range vc.Vars() {
				degree[v.ID()]++
			}
		}
	}
	return &phaseBuilder{s: s, vars: vars, varH: varH, valH: valH, degree: degree}
}

// DefaultPhase builds a DecisionBuilder using the Solver's configured
// heuristics (spec.md §6 default Phase).
func (s *Solver) DefaultPhase(vars []*IntVar) DecisionBuilder {
	return s.Phase(vars, s.config.VariableHeuristic, s.config.ValueHeuristic)
}

func (b *phaseBuilder) Next(s *Solver) Decision {
	idx := b.selectVariable()
	if idx < 0 {
		return nil
	}
	v := b.vars[idx]
	return b.selectValue(v)
}

func (b *phaseBuilder) selectVariable() int {
	best := -1
	unbound := 0
	for i, v := range b.vars {
		if v.IsBound() {
			continue
		}
		unbound++
		if best < 0 {
			best = i
			continue
		}
		switch b.varH {
		case HeuristicFirstUnbound:
			return best // best already holds the first unbound index
		case HeuristicMinDomain:
			if v.Size() < b.vars[best].Size() {
				best = i
			}
		case HeuristicMaxDomain:
			if v.Size() > b.vars[best].Size() {
				best = i
			}
		case HeuristicMinDomainOverDegree:
			bestDeg := int64(b.degree[b.vars[best].ID()])
			curDeg := int64(b.degree[v.ID()])
			bestRatio := float64(b.vars[best].Size()) / float64(maxI64(1, bestDeg))
			curRatio := float64(v.Size()) / float64(maxI64(1, curDeg))
			if curRatio < bestRatio {
				best = i
			}
		case HeuristicRandom:
			if s := b.s.Rand().Intn(unbound); s == 0 {
				best = i
			}
		default:
			if v.Size() < b.vars[best].Size() {
				best = i
			}
		}
	}
	return best
}

func (b *phaseBuilder) selectValue(v *IntVar) Decision {
	switch b.valH {
	case ValueMax:
		return &assignVarDecision{v: v, val: v.Max()}
	case ValueRandom:
		if v.Size() > int64(b.s.config.LargeDomainNoSplittingLimit) {
			return &assignVarDecision{v: v, val: v.Min()}
		}
		n := int(v.Size())
		k := b.s.Rand().Intn(n)
		var chosen int64
		i := 0
		v.Each(func(val int64) {
			if i == k {
				chosen = val
			}
			i++
		})
		return &assignVarDecision{v: v, val: chosen}
	case ValueCenter:
		if v.Size() > int64(b.s.config.LargeDomainNoSplittingLimit) {
			return &assignVarDecision{v: v, val: v.Min()}
		}
		mid := v.Min() + (v.Max()-v.Min())/2
		for off := int64(0); ; off++ {
			if v.Contains(mid - off) {
				mid -= off
				break
			}
			if v.Contains(mid + off) {
				mid += off
				break
			}
		}
		return &assignVarDecision{v: v, val: mid}
	case ValueSplit:
		mid := v.Min() + (v.Max()-v.Min())/2
		return &splitVarDecision{v: v, mid: mid}
	default: // ValueMin
		return &assignVarDecision{v: v, val: v.Min()}
	}
}

// --- combinators (spec.md §4.F) -----------------------------------------

// composeBuilder chains DecisionBuilders: on every call it asks each child
// in order and returns the first non-nil decision.
type composeBuilder struct {
	children []DecisionBuilder
}

// Compose returns a DecisionBuilder that asks each child in order and
// returns the first decision any of them offers, so a later child is only
// consulted once every earlier one has nothing left to decide (spec.md's
// Compose combinator), e.g. Phase(primaryVars, ...) followed by
// Phase(tieBreakVars, ...).
func Compose(children ...DecisionBuilder) DecisionBuilder {
	return &composeBuilder{children: children}
}

func (b *composeBuilder) Next(s *Solver) Decision {
	for _, child := range b.children {
		if d := child.Next(s); d != nil {
			return d
		}
	}
	return nil
}

// tryBuilder wraps a single DecisionBuilder and hands out exactly its
// decisions; nothing in the package treats it differently from inner.
type tryBuilder struct {
	inner DecisionBuilder
}

// Try returns a DecisionBuilder equivalent to inner. It takes one builder
// and adds no branching of its own: there is no choice between
// alternative sub-builders.
func Try(inner DecisionBuilder) DecisionBuilder { return &tryBuilder{inner: inner} }

func (b *tryBuilder) Next(s *Solver) Decision { return b.inner.Next(s) }

// solveOnceBuilder forwards inner's decisions to the enclosing search one
// at a time, where they are applied and refuted like any other decision;
// it does not run a nested search and does not collapse inner's decisions
// into a single one.
type solveOnceBuilder struct {
	inner DecisionBuilder
	done  bool
}

// SolveOnce returns a DecisionBuilder that passes through inner's
// decisions until inner first returns nil, and returns nil on every call
// after that.
func SolveOnce(inner DecisionBuilder) DecisionBuilder {
	return &solveOnceBuilder{inner: inner}
}

func (b *solveOnceBuilder) Next(s *Solver) Decision {
	if b.done {
		return nil
	}
	d := b.inner.Next(s)
	if d == nil {
		b.done = true
	}
	return d
}
