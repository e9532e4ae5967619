package fdcp

import (
	"context"
	"sync"
	"sync/atomic"
)

// portfolio.go: PortfolioRunner (SPEC_FULL.md §4.I), the one form of
// concurrency above the single-threaded core that spec.md §5 sanctions: N
// independent Solvers (each its own Model, Trail, and diversified
// SolverConfig), each racing in its own goroutine, coordinating only
// through a lock-free SharedBound and a context.CancelFunc broadcast on
// first success. Grounded on the teacher's internal/parallel worker pool
// (task closures here are independent Solver.Solve calls; the pool's
// deadlock detector and statistics have no counterpart here) and
// its optimize_parallel.go/parallel_search.go for the shared-bound
// coordination pattern — both since trimmed from this tree as unwired
// teacher carryover, grounding cited here and in DESIGN.md.

// SharedBound is a lock-free best-objective register shared by every
// worker in a PortfolioRunner. It never blocks: Improve is a single
// compare-and-swap retry loop over an atomic.Int64 plus an atomic.Bool
// marking whether any worker has reported a bound yet.
type SharedBound struct {
	best  atomic.Int64
	found atomic.Bool
}

// NewSharedBound creates an empty shared bound.
func NewSharedBound() *SharedBound { return &SharedBound{} }

// Improve attempts to install val as the new shared best for the given
// optimization sense, returning true if it succeeded (no bound existed
// yet, or val strictly improves on the current one).
func (b *SharedBound) Improve(minimize bool, val int64) bool {
	for {
		hadBound := b.found.Load()
		cur := b.best.Load()
		if hadBound {
			if minimize && val >= cur {
				return false
			}
			if !minimize && val <= cur {
				return false
			}
		}
		if b.best.CompareAndSwap(cur, val) {
			b.found.Store(true)
			return true
		}
	}
}

// Value returns the current shared best and whether any worker has
// reported one.
func (b *SharedBound) Value() (int64, bool) { return b.best.Load(), b.found.Load() }

// PortfolioBuildFunc builds one worker's independent model: a fresh
// Solver (constructed with cfg), the DecisionBuilder to search it with, the
// objective variable to race on (nil for a plain satisfaction search), its
// optimization sense, and the monitors to attach.
type PortfolioBuildFunc func(cfg *SolverConfig) (s *Solver, db DecisionBuilder, objective *IntVar, minimize bool, monitors []SearchMonitor)

// PortfolioResult is the outcome reported by the worker that won the race
// (installed the best bound, or was first to find any solution in a plain
// satisfaction search).
type PortfolioResult struct {
	WorkerIndex int
	Solver      *Solver
	Assignment  *Assignment
}

// PortfolioRunner launches Workers independent Solvers against the same
// build recipe, each seeded and heuristic-diversified differently, and
// returns the best result found before every worker exhausts its search or
// ctx is cancelled.
type PortfolioRunner struct {
	Workers    int
	Build      PortfolioBuildFunc
	BaseConfig *SolverConfig

	// Heuristics rotates across workers (round-robin by worker index) so
	// the portfolio explores structurally different search orders, not
	// just different random seeds.
	Heuristics []VariableHeuristic
}

// NewPortfolioRunner creates a runner with workers goroutines, each
// building its model via build. BaseConfig starts as DefaultSolverConfig,
// and Heuristics starts as a rotation over five VariableHeuristics (every
// one except HeuristicMaxRegret and HeuristicPath).
func NewPortfolioRunner(workers int, build PortfolioBuildFunc) *PortfolioRunner {
	if workers < 1 {
		workers = 1
	}
	return &PortfolioRunner{
		Workers:    workers,
		Build:      build,
		BaseConfig: DefaultSolverConfig(),
		Heuristics: []VariableHeuristic{
			HeuristicMinDomainOverDegree, HeuristicMinDomain, HeuristicMaxDomain,
			HeuristicFirstUnbound, HeuristicRandom,
		},
	}
}

// Run races Workers independent Solves. Each worker's Solver/Context
// cancellation is entirely local to this call: no Solver state is ever
// touched from more than one goroutine.
func (p *PortfolioRunner) Run(ctx context.Context) *PortfolioResult {
	bound := NewSharedBound()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var best *PortfolioResult

	var wg sync.WaitGroup
	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := *p.BaseConfig
			cfg.RandomSeed = p.BaseConfig.RandomSeed + int64(idx)*7919
			if len(p.Heuristics) > 0 {
				cfg.VariableHeuristic = p.Heuristics[idx%len(p.Heuristics)]
			}

			s, db, objective, minimize, monitors := p.Build(&cfg)
			if !s.Solve(runCtx, db, monitors...) {
				return
			}

			if objective != nil && !bound.Improve(minimize, objective.Value()) {
				return
			}

			mu.Lock()
			best = &PortfolioResult{WorkerIndex: idx, Solver: s, Assignment: s.Snapshot()}
			mu.Unlock()
			cancel()
		}(i)
	}
	wg.Wait()
	return best
}
