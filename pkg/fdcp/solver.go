package fdcp

import (
	"context"
	"fmt"
	"math/rand"
)

// solver.go: the Solver façade (spec.md §6). A Solver owns every variable,
// expression, constraint, demon, monitor, and the trail — there is no
// process-global state (spec.md §9). Decisions and Assignments may
// outlive a search node but never outlive the Solver.

// Solver is the central object a client builds a model against, then
// searches with. It is not safe for concurrent use from multiple
// goroutines (spec.md §5); the sanctioned form of concurrency is running
// several independent Solvers, each owning its own Trail, coordinated
// only through the portfolio layer (see portfolio.go).
type Solver struct {
	config *SolverConfig
	rng    *rand.Rand

	trail *Trail
	queue *PropQueue

	vars        []*IntVar
	constraints []Constraint

	// exprCache canonicalizes expression shapes (spec.md §4.D "model
	// cache") so that x+y, x+1, |x|, x*k, etc. are built once and reused;
	// keyed by a string built from the expression's kind and operand IDs.
	exprCache map[string]IntExpr

	// intConstCache pools small integer constants when config.ShareIntConsts.
	intConstCache map[int64]*IntVar

	negCache map[int]*BoolVar // BoolVar.ID() -> its materialized negation

	rootInfeasible bool
	searchStarted  bool

	monitor     *SolverMonitor
	monitors    []SearchMonitor
	trailDepth0 int

	stats SolverStats
}

// NewSolver creates an empty Solver with the default configuration.
func NewSolver() *Solver { return NewSolverWithConfig(DefaultSolverConfig()) }

// NewSolverWithConfig creates an empty Solver with custom configuration.
func NewSolverWithConfig(cfg *SolverConfig) *Solver {
	if cfg == nil {
		cfg = DefaultSolverConfig()
	}
	s := &Solver{
		config:        cfg,
		rng:           cfg.newRand(),
		trail:         NewTrail(),
		queue:         NewPropQueue(),
		exprCache:     make(map[string]IntExpr),
		intConstCache: make(map[int64]*IntVar),
		negCache:      make(map[int]*BoolVar),
	}
	s.monitor = NewSolverMonitor()
	return s
}

// Trail exposes the Solver's reversible-state trail, for components (the
// precedence propagator, constraints, metaheuristics) that need reversible
// cells of their own beyond a plain IntVar domain.
func (s *Solver) Trail() *Trail { return s.trail }

// Rand returns the Solver's private random source, seeded from
// config.RandomSeed. All randomized heuristics in this package read from
// this source; never from the global math/rand functions.
func (s *Solver) Rand() *rand.Rand { return s.rng }

// Config returns the Solver's configuration.
func (s *Solver) Config() *SolverConfig { return s.config }

// Vars returns every variable created on this Solver, in creation order.
func (s *Solver) Vars() []*IntVar { return s.vars }

// Var returns the variable with the given ID.
func (s *Solver) Var(id int) *IntVar { return s.vars[id] }

// --- variable factories (spec.md §6) ------------------------------------

// NewIntVar creates a new finite-domain integer variable with domain
// [lo, hi].
func (s *Solver) NewIntVar(lo, hi int64, name string) *IntVar {
	if lo > hi {
		panic(fmt.Sprintf("fdcp: NewIntVar(%d,%d,%q): empty domain", lo, hi, name))
	}
	id := len(s.vars)
	v := newIntVar(s, id, name, newBoundsOrBitsetDomain(s.trail, lo, hi))
	s.vars = append(s.vars, v)
	return v
}

// NewIntVarFromValues creates a variable whose domain is exactly the given
// sorted, deduplicated set of values.
func (s *Solver) NewIntVarFromValues(values []int64, name string) *IntVar {
	id := len(s.vars)
	v := newIntVar(s, id, name, newDomainFromValues(s.trail, values))
	s.vars = append(s.vars, v)
	return v
}

// NewBoolVar creates a new boolean (0/1) variable.
func (s *Solver) NewBoolVar(name string) *BoolVar {
	id := len(s.vars)
	v := newBoolVar(s, id, name)
	s.vars = append(s.vars, v.IntVar)
	return v
}

// NewIntConst creates (or, when config.ShareIntConsts is set, reuses) a
// bound constant variable with the given value.
func (s *Solver) NewIntConst(value int64, name string) *IntVar {
	if s.config.ShareIntConsts {
		if v, ok := s.intConstCache[value]; ok {
			return v
		}
	}
	id := len(s.vars)
	v := newIntVar(s, id, name, newConstDomain(value))
	s.vars = append(s.vars, v)
	if s.config.ShareIntConsts {
		s.intConstCache[value] = v
	}
	return v
}

// negatedLiteral returns (creating once) the BoolVar equal to 1-b, linked
// to b by a demon in both directions.
func (s *Solver) negatedLiteral(b *BoolVar) *BoolVar {
	if n, ok := s.negCache[b.ID()]; ok {
		return n
	}
	n := s.NewBoolVar(fmt.Sprintf("¬%s", b.String()))
	s.negCache[b.ID()] = n
	s.negCache[n.ID()] = b
	link := func(sv *Solver) {
		if b.IsBound() {
			if b.IsTrue() {
				n.SetFalse()
			} else {
				n.SetTrue()
			}
		}
		if n.IsBound() {
			if n.IsTrue() {
				b.SetFalse()
			} else {
				b.SetTrue()
			}
		}
	}
	d := NewDemon(PriorityNormal, link)
	b.WhenBound(d)
	n.WhenBound(d)
	link(s)
	return n
}

// --- propagation (spec.md §4.C) -----------------------------------------

// drainQueue runs the fixed-point propagation loop: pop the highest
// priority non-empty FIFO, run it (unless inhibited), repeat until every
// FIFO is empty. A Fail raised by any demon propagates up as a panic; the
// caller (propagateFixpoint, used by AddConstraint's runInitialPropagate
// and by search's applyOrRefute) is responsible for recovering it.
func (s *Solver) drainQueue() {
	for {
		d := s.queue.Dequeue()
		if d == nil {
			return
		}
		runDemon(s, d)
	}
}

// propagateFixpoint runs every variable's snapshotOldBounds, drains the
// queue to a fixed point, and returns nil on success or the failSignal
// error on contradiction. It never panics; recoverFail converts the
// failSignal panic raised by fail() into this return value.
func (s *Solver) propagateFixpoint() (err error) {
	defer recoverFail(&err)
	for _, v := range s.vars {
		v.snapshotOldBounds()
	}
	s.drainQueue()
	return nil
}

// --- top-level solve entry points (spec.md §6) --------------------------

// Solve runs db to exhaustion or until a monitor accepts a solution,
// attaching monitors for the duration of this call. It returns true if a
// solution was found and accepted.
func (s *Solver) Solve(ctx context.Context, db DecisionBuilder, monitors ...SearchMonitor) bool {
	s.searchStarted = true
	s.monitors = monitors
	eng := newSearchEngine(s, db, monitors)
	return eng.run(ctx)
}

// SolveAndCommit behaves like Solve but leaves the trail positioned at the
// accepted solution's search node instead of unwinding it, so callers can
// inspect variables directly afterward without re-solving. It returns
// false (with the trail unwound to the root) if no solution is found.
func (s *Solver) SolveAndCommit(ctx context.Context, db DecisionBuilder, monitors ...SearchMonitor) bool {
	s.searchStarted = true
	s.monitors = monitors
	eng := newSearchEngine(s, db, monitors)
	eng.commitOnSuccess = true
	return eng.run(ctx)
}

// Monitor returns the Solver's statistics monitor (always non-nil; safe
// to call its recording methods even before a Solve call).
func (s *Solver) Monitor() *SolverMonitor { return s.monitor }
