package fdcp

import "math"

// metaheuristics.go: TabuSearch, SimulatedAnnealing, GuidedLocalSearch
// (spec.md §4.H), each a SearchMonitor layered over the same DFS
// branch-and-bound engine OptimizeVar uses. spec.md describes these three
// in terms of a dedicated local-search "neighbor" loop (AcceptNeighbor /
// AtLocalOptimum); this engine has no such loop — it is plain DFS over
// Decisions — so each monitor here treats "the next accepted solution" as
// the local-optimum event instead, which is the natural embedding of the
// same idea into a tree search: every accepted leaf plays the role a
// local-search neighborhood move would play. Every deviation from
// spec.md's literal neighbor-based formulation is called out below.

// --- Tabu search ---------------------------------------------------------

type tabuEntry struct {
	v             *IntVar
	val           int64
	expiresAtFail int64
}

// TabuSearch maintains keep/forbid lists of (var, value) pairs aged out by
// fail-count tenure (spec.md §4.H). Simplification: spec.md's soft-tabu
// rule is a posted disjunction ("objective improves OR fewer than
// tabu_factor*|lists| tabu constraints are violated"); building that
// disjunction would need a generic reified Or over linear constraints,
// which this package does not yet have. Instead BeginNextDecision prunes
// every still-active forbidden value unconditionally unless doing so would
// empty the variable's domain, in which case the tabu is left unenforced
// for that node — the same "soft" spirit (a tabu status can be overridden
// when there is no alternative) without counting violations. See
// DESIGN.md.
type TabuSearch struct {
	BaseMonitor
	objective     *IntVar
	tenure        int64
	keep, forbid  []tabuEntry
	lastValues    map[int]int64
	lastObjective int64
	haveLast      bool
}

// NewTabuSearch creates a tabu monitor over objective with the given
// tenure (in fail count).
func NewTabuSearch(objective *IntVar, tenure int64) *TabuSearch {
	return &TabuSearch{objective: objective, tenure: tenure, lastValues: make(map[int]int64)}
}

func (t *TabuSearch) ageOut(s *Solver) {
	fails := s.Monitor().Stats().Fails
	kept := t.keep[:0]
	for _, e := range t.keep {
		if e.expiresAtFail > fails {
			kept = append(kept, e)
		}
	}
	t.keep = kept
	forb := t.forbid[:0]
	for _, e := range t.forbid {
		if e.expiresAtFail > fails {
			forb = append(forb, e)
		}
	}
	t.forbid = forb
}

func (t *TabuSearch) BeginNextDecision(s *Solver, db DecisionBuilder) {
	t.ageOut(s)
	for _, e := range t.forbid {
		if e.v.Size() > 1 && e.v.Contains(e.val) {
			e.v.RemoveValue(e.val)
		}
	}
	for _, e := range t.keep {
		if e.v.Contains(e.val) {
			e.v.SetValue(e.val)
		}
	}
}

// AcceptSolution diffs the newly accepted assignment against the last
// committed one: every variable whose value changed has its old value
// appended to forbid (re-adopting it would undo the move that just
// improved things) and its new value appended to keep, both with the same
// expiry. A plateau solution (same objective as the last accepted one) is
// rejected to avoid cycling between equally-good assignments, exactly as
// spec.md describes.
func (t *TabuSearch) AcceptSolution(s *Solver) bool {
	obj := t.objective.Value()
	plateau := t.haveLast && obj == t.lastObjective
	expires := s.Monitor().Stats().Fails + t.tenure
	for _, v := range s.Vars() {
		if !v.IsBound() {
			continue
		}
		val := v.Value()
		if old, seen := t.lastValues[v.ID()]; seen && old != val {
			t.forbid = append(t.forbid, tabuEntry{v: v, val: old, expiresAtFail: expires})
			t.keep = append(t.keep, tabuEntry{v: v, val: val, expiresAtFail: expires})
		}
		t.lastValues[v.ID()] = val
	}
	t.lastObjective, t.haveLast = obj, true
	return !plateau
}

// --- Simulated annealing --------------------------------------------------

// SimulatedAnnealing accepts worse solutions with probability exp(-Δ/T)
// under a Cauchy cooling schedule T(i) = T0/i (spec.md §4.H), encoded as a
// bound on the objective rather than an explicit probability draw on the
// solution itself: on every node it widens the admissible objective bound
// by floor(T * log2(U)) for a fresh uniform draw U from the Solver's own
// *rand.Rand (never math/rand's global source, per spec.md §3's ambient
// note).
type SimulatedAnnealing struct {
	BaseMonitor
	objective   *IntVar
	minimize    bool
	t0          float64
	i           int64
	current     int64
	haveCurrent bool
}

// NewSimulatedAnnealing creates an annealing monitor over objective with
// initial temperature t0.
func NewSimulatedAnnealing(objective *IntVar, minimize bool, t0 float64) *SimulatedAnnealing {
	return &SimulatedAnnealing{objective: objective, minimize: minimize, t0: t0, i: 1}
}

func (a *SimulatedAnnealing) temperature() float64 { return a.t0 / float64(a.i) }

func (a *SimulatedAnnealing) BeginNextDecision(s *Solver, db DecisionBuilder) {
	if !a.haveCurrent {
		return
	}
	u := s.Rand().Float64()
	if u <= 0 {
		u = 1e-9
	}
	delta := int64(math.Floor(a.temperature() * math.Log2(u))) // <= 0
	if a.minimize {
		a.objective.SetMax(a.current - delta)
	} else {
		a.objective.SetMin(a.current + delta)
	}
}

// AcceptSolution records the new current value and advances the
// local-optimum counter i, cooling the schedule; it always accepts, since
// BeginNextDecision's bound already encodes the acceptance probability.
func (a *SimulatedAnnealing) AcceptSolution(s *Solver) bool {
	a.current = a.objective.Value()
	a.haveCurrent = true
	a.i++
	return true
}

// --- Guided local search ---------------------------------------------------

// GuidedLocalSearch maintains a penalty counter per (var, value) pair and
// biases the search away from repeatedly-penalized assignment components
// (spec.md §4.H). This monitor applies OptimizeVar's cut against the true
// objective directly and never computes an augmented objective: at each
// accepted solution it bumps the penalty of the bound components with the
// largest utility cost/(1+penalty), and the penalties reach the search
// only through Penalty(v, val), which a caller-supplied value heuristic
// can consult. See DESIGN.md.
type GuidedLocalSearch struct {
	BaseMonitor
	objective      *IntVar
	minimize       bool
	cost           func(v *IntVar, val int64) int64
	lambda         int64
	resetOnImprove bool

	penalty  map[int]map[int64]int64
	bestTrue int64
	haveBest bool
}

// NewGuidedLocalSearch creates a GLS monitor. cost assigns a per-component
// cost to a bound (var, value) pair (e.g. an edge weight in a routing
// model); lambda is stored but no computation reads it; resetOnImprove clears every
// penalty counter the moment a new best true-objective solution is found.
func NewGuidedLocalSearch(objective *IntVar, minimize bool, cost func(*IntVar, int64) int64, lambda int64, resetOnImprove bool) *GuidedLocalSearch {
	return &GuidedLocalSearch{
		objective: objective, minimize: minimize, cost: cost, lambda: lambda,
		resetOnImprove: resetOnImprove, penalty: make(map[int]map[int64]int64),
	}
}

// Penalty returns the current penalty count for (v, val).
func (g *GuidedLocalSearch) Penalty(v *IntVar, val int64) int64 {
	m := g.penalty[v.ID()]
	if m == nil {
		return 0
	}
	return m[val]
}

func (g *GuidedLocalSearch) bump(v *IntVar, val int64) {
	m := g.penalty[v.ID()]
	if m == nil {
		m = make(map[int64]int64)
		g.penalty[v.ID()] = m
	}
	m[val]++
}

func (g *GuidedLocalSearch) BeginNextDecision(s *Solver, db DecisionBuilder) {
	if !g.haveBest {
		return
	}
	if g.minimize {
		g.objective.SetMax(g.bestTrue - 1)
	} else {
		g.objective.SetMin(g.bestTrue + 1)
	}
}

// AcceptSolution penalizes the maximal-utility components of this solution
// (utility = cost/(1+penalty); ties all get penalized, per spec.md), then
// records a new true-objective best (resetting penalties first if
// resetOnImprove is set). It always accepts.
func (g *GuidedLocalSearch) AcceptSolution(s *Solver) bool {
	var maxUtility float64 = -1
	type comp struct {
		v   *IntVar
		val int64
	}
	var maximal []comp
	for _, v := range s.Vars() {
		if !v.IsBound() {
			continue
		}
		val := v.Value()
		cost := g.cost(v, val)
		if cost == 0 {
			continue
		}
		utility := float64(cost) / float64(1+g.Penalty(v, val))
		switch {
		case utility > maxUtility:
			maxUtility = utility
			maximal = []comp{{v, val}}
		case utility == maxUtility:
			maximal = append(maximal, comp{v, val})
		}
	}
	for _, c := range maximal {
		g.bump(c.v, c.val)
	}

	obj := g.objective.Value()
	improved := !g.haveBest || (g.minimize && obj < g.bestTrue) || (!g.minimize && obj > g.bestTrue)
	if improved {
		if g.resetOnImprove {
			g.penalty = make(map[int]map[int64]int64)
		}
		g.bestTrue, g.haveBest = obj, true
	}
	return true
}
