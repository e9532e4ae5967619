package fdcp

import "context"

// search.go: the DFS search engine (spec.md §4.F). A search node pushes a
// trail level, applies (or refutes) one Decision, propagates to a fixed
// point, and recurses; a Fail anywhere under that node unwinds back to it
// via the trail, and the node tries its complementary branch before
// giving up. Decisions come from a DecisionBuilder; monitors observe
// every step without participating in the trail themselves.

type searchEngine struct {
	s               *Solver
	db              DecisionBuilder
	monitors        []SearchMonitor
	commitOnSuccess bool
}

func newSearchEngine(s *Solver, db DecisionBuilder, monitors []SearchMonitor) *searchEngine {
	return &searchEngine{s: s, db: db, monitors: monitors}
}

// restartSignal is raised (by a restart monitor's PeriodicCheck, e.g.
// LubyRestart/ConstantRestart) to unwind every pushed trail level back to
// the root and begin the search over, the same panic/recover long-jump
// idiom failSignal uses for ordinary backtracking. It is never confused
// with failSignal: dfsWithRestart recovers only this type and re-panics
// anything else, including a failSignal that somehow escaped applyOrRefute.
type restartSignal struct{}

// run drives the search to the first accepted solution (or exhaustion),
// returning whether one was found. The initial model propagation (run by
// every AddConstraint call) is assumed already at a fixed point; run only
// re-propagates after this call's own decisions. A restart monitor may
// unwind the current attempt via restartSignal; run fires RestartSearch on
// every monitor and tries again from the root.
func (e *searchEngine) run(ctx context.Context) bool {
	s := e.s
	for _, m := range e.monitors {
		m.EnterSearch(s)
	}
	defer func() {
		for _, m := range e.monitors {
			m.ExitSearch(s)
		}
	}()

	if s.rootInfeasible {
		for _, m := range e.monitors {
			m.NoMoreSolutions(s)
		}
		return false
	}

	for {
		found, restarted := e.dfsWithRestart(ctx)
		if restarted {
			for _, m := range e.monitors {
				m.RestartSearch(s)
			}
			continue
		}
		if !found {
			for _, m := range e.monitors {
				m.NoMoreSolutions(s)
			}
		}
		return found
	}
}

// dfsWithRestart runs dfs, converting a restartSignal panic raised anywhere
// beneath it (every intervening tryBranch frame pops its trail level as the
// panic unwinds, same as a failSignal) into a plain bool.
func (e *searchEngine) dfsWithRestart(ctx context.Context) (found, restarted bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(restartSignal); ok {
				restarted = true
				return
			}
			panic(r)
		}
	}()
	found = e.dfs(ctx)
	return found, false
}

// dfs explores one search node: ask the builder for the next decision, and
// either report a solution (nil decision) or try Apply then Refute.
func (e *searchEngine) dfs(ctx context.Context) bool {
	s := e.s

	if err := ctx.Err(); err != nil {
		return false
	}
	for _, m := range e.monitors {
		if !m.PeriodicCheck(s) {
			return false
		}
	}
	s.monitor.recordNode()

	// BeginNextDecision may itself tighten a bound (OptimizeVar's cut,
	// GuidedLocalSearch's augmented-objective cut, ...) and fail; that
	// failure is a dead end at this node exactly like a failed
	// propagation, not an escaping panic.
	if e.runGuarded(func() {
		for _, m := range e.monitors {
			m.BeginNextDecision(s, e.db)
		}
	}) {
		return e.reportNodeFailure()
	}

	d := e.db.Next(s)
	for _, m := range e.monitors {
		m.EndNextDecision(s, e.db, d)
	}

	if d == nil {
		return e.acceptLeaf(ctx)
	}

	if e.tryBranch(ctx, d, true) {
		return true
	}
	return e.tryBranch(ctx, d, false)
}

// runGuarded runs f, converting a failSignal panic raised inside it (e.g.
// a metaheuristic monitor tightening a bound past feasibility) into a
// returned bool instead of letting it escape to dfsWithRestart, which only
// recovers restartSignal.
func (e *searchEngine) runGuarded(f func()) (failed bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(failSignal); ok {
				failed = true
				return
			}
			panic(r)
		}
	}()
	f()
	return false
}

// reportNodeFailure records and announces a fail that happened before any
// decision was even produced at this node (same bookkeeping tryBranch does
// for a decision that failed after being applied).
func (e *searchEngine) reportNodeFailure() bool {
	s := e.s
	s.monitor.recordFail()
	for _, m := range e.monitors {
		m.BeginFail(s)
	}
	for _, m := range e.monitors {
		m.EndFail(s)
	}
	return false
}

// acceptLeaf is called when the DecisionBuilder reports nothing left to
// decide: every governed variable is bound. It fires AtSolution/
// AcceptSolution and, if every monitor accepts, counts the solution and
// reports success up the recursion.
func (e *searchEngine) acceptLeaf(ctx context.Context) bool {
	s := e.s
	for _, m := range e.monitors {
		m.AtSolution(s)
	}
	for _, m := range e.monitors {
		if !m.AcceptSolution(s) {
			return false
		}
	}
	s.monitor.recordSolution()
	return true
}

// tryBranch pushes a trail level, applies or refutes d, propagates to a
// fixed point, and on success recurses. On any failure (propagation or a
// deeper branch exhausting itself) it unwinds the trail level it pushed,
// unless this branch is the one that ultimately produced an accepted
// solution and the engine was asked to leave the trail positioned there
// (Solver.SolveAndCommit).
func (e *searchEngine) tryBranch(ctx context.Context, d Decision, apply bool) (solved bool) {
	s := e.s
	s.trail.PushLevel()
	committed := false
	defer func() {
		if !committed {
			s.trail.PopLevel()
		}
	}()

	failed := e.applyOrRefute(d, apply)

	for _, m := range e.monitors {
		m.AfterDecision(s, d, apply)
	}

	if failed {
		s.monitor.recordFail()
		for _, m := range e.monitors {
			m.BeginFail(s)
		}
		for _, m := range e.monitors {
			m.EndFail(s)
		}
		return false
	}

	s.monitor.recordBranch()
	if e.dfs(ctx) {
		committed = e.commitOnSuccess
		return true
	}
	return false
}

// applyOrRefute runs d.Apply or d.Refute followed by a fixed-point
// propagation pass, recovering a failSignal panic into a plain bool so
// the caller never has to unwind past tryBranch's own trail bookkeeping.
func (e *searchEngine) applyOrRefute(d Decision, apply bool) (failed bool) {
	s := e.s
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(failSignal); ok {
				failed = true
				return
			}
			panic(r)
		}
	}()

	if apply {
		for _, m := range e.monitors {
			m.ApplyDecision(s, d)
		}
		d.Apply(s)
	} else {
		for _, m := range e.monitors {
			m.RefuteDecision(s, d)
		}
		d.Refute(s)
	}

	if err := s.propagateFixpoint(); err != nil {
		failed = true
	}
	return failed
}
