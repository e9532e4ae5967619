package fdcp

import "fmt"

// constraint.go: the Constraint abstraction (spec.md §3 "Constraint",
// §4.D). A Constraint is a logical relation plus a Post hook (attach
// demons to the variables it watches) and an InitialPropagate hook (run
// once, eagerly, the moment it is added to the model). Constraints are
// immutable after posting: Post/InitialPropagate run exactly once, and all
// later narrowing happens through the demons they registered.

// Constraint is the common interface every global/arithmetic/boolean
// constraint in this package implements.
type Constraint interface {
	// Post attaches this constraint's demons to the variables it watches.
	// Called once, when the constraint is added to a Solver.
	Post(s *Solver)

	// InitialPropagate performs the constraint's first propagation pass,
	// before any search decision has been made. Called once, immediately
	// after Post.
	InitialPropagate(s *Solver)

	// String renders the constraint for debugging/logging.
	String() string
}

// constraintRegistration wraps a Constraint. AddConstraint does not use
// it, and nothing else in the package does either.
type constraintRegistration struct {
	c Constraint
}

// AddConstraint posts c and runs its initial propagation (spec.md §6
// "add_constraint(c) posts and initially propagates"). It must be called
// before the first Solve; posting after search has started is a
// programming error (the spec's "no incremental model editing across
// searches" non-goal).
func (s *Solver) AddConstraint(c Constraint) {
	if s.searchStarted {
		panic("fdcp: AddConstraint called after search started (no incremental model editing across searches)")
	}
	s.constraints = append(s.constraints, c)
	c.Post(s)
	s.runInitialPropagate(c)
}

// runInitialPropagate runs one constraint's InitialPropagate, converting
// any fail() raised inside it into the root-infeasibility flag checked by
// Solve, rather than letting it escape AddConstraint as a panic.
func (s *Solver) runInitialPropagate(c Constraint) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(failSignal); ok {
				s.rootInfeasible = true
				return
			}
			panic(r)
		}
	}()
	c.InitialPropagate(s)
	s.drainQueue()
}

// baseConstraint is embedded by concrete constraints that want a default
// String() derived from their type name and variables; most constraint
// files override String() directly, this is only used by the simplest
// linking constraints.
type baseConstraint struct {
	kind string
	vars []*IntVar
}

func (b *baseConstraint) String() string {
	return fmt.Sprintf("%s(%v)", b.kind, b.vars)
}

// Vars returns the variables this constraint was built over, used by
// Solver.Phase to compute each variable's constraint degree for
// HeuristicMinDomainOverDegree.
func (b *baseConstraint) Vars() []*IntVar { return b.vars }
