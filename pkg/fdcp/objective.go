package fdcp

// objective.go: OptimizeVar (spec.md §4.H). Installed as a SearchMonitor,
// it tightens the objective on every node visited after the first
// solution and accepts only strictly improving solutions, turning a plain
// "find any solution" DFS into branch-and-bound optimization without the
// search engine itself knowing anything about objectives. Solve returns at
// the first accepted solution, so the cut applies to the nodes of the next
// Solve call on the same Solver with the same OptimizeVar attached.

// OptimizeSense selects whether a term should be driven down or up.
type OptimizeSense int

const (
	// Minimize drives a term's value down.
	Minimize OptimizeSense = iota
	// Maximize drives a term's value up.
	Maximize
)

// ObjectiveTerm is one (variable, sense, step) triple in an ordered
// lexicographic objective (spec.md §4.H "ordered list of (variable, sense,
// step) triples").
type ObjectiveTerm struct {
	Var   *IntVar
	Sense OptimizeSense
	Step  int64
}

// OptimizeVar is the branch-and-bound objective monitor: on every node
// after the first accepted solution, it constrains the leading
// not-yet-matched term to strictly improve on the corresponding value from
// the best solution found so far, by at least Step. Earlier terms that are
// already tied at their best value fall through to the next term,
// realizing lexicographic (rather than single-objective) optimization.
type OptimizeVar struct {
	BaseMonitor
	terms []ObjectiveTerm
	best  []int64
	have  bool
}

// NewOptimize creates an OptimizeVar over the given ordered terms. A
// single-objective search is just NewOptimize(ObjectiveTerm{Var: obj,
// Sense: Minimize, Step: 1}).
func NewOptimize(terms ...ObjectiveTerm) *OptimizeVar {
	return &OptimizeVar{terms: terms, best: make([]int64, len(terms))}
}

// BeginNextDecision posts the current branch-and-bound cut before the
// DecisionBuilder is asked for the next decision: terms already bound to
// their best value are skipped, and the first term that is not (or the
// last term, if every earlier one is tied) must beat its best value by
// Step; a failure here (the model has no room left to improve along this
// branch) is reported exactly like a failed propagation — see search.go's
// runGuarded.
func (o *OptimizeVar) BeginNextDecision(s *Solver, db DecisionBuilder) {
	if !o.have {
		return
	}
	for i, t := range o.terms {
		if i < len(o.terms)-1 && t.Var.IsBound() && t.Var.Value() == o.best[i] {
			continue
		}
		if t.Sense == Minimize {
			t.Var.SetMax(o.best[i] - t.Step)
		} else {
			t.Var.SetMin(o.best[i] + t.Step)
		}
		break
	}
}

// AcceptSolution records this solution's term values as the new best and
// accepts it. Since BeginNextDecision's cut already forces every
// lexicographically-reached solution to strictly improve on the previous
// best, every solution that reaches here is accepted.
func (o *OptimizeVar) AcceptSolution(s *Solver) bool {
	for i, t := range o.terms {
		o.best[i] = t.Var.Value()
	}
	o.have = true
	return true
}

// Best returns the best term values found so far and whether any solution
// has been accepted yet.
func (o *OptimizeVar) Best() ([]int64, bool) {
	out := make([]int64, len(o.best))
	copy(out, o.best)
	return out, o.have
}
