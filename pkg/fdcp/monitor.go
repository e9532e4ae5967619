package fdcp

// monitor.go: the SearchMonitor interface and its twenty named callbacks
// (spec.md §4.G), plus SolverMonitor, the Solver's always-on internal
// counters (demon runs, fails, node count) that exist whether or not the
// caller attaches any SearchMonitor.

// SearchMonitor observes a search without influencing its control flow
// (beyond the accept/refuse hooks explicitly named below). Every method
// has a default no-op embedding via BaseMonitor; concrete monitors embed
// BaseMonitor and override only the events they care about.
type SearchMonitor interface {
	EnterSearch(s *Solver)
	ExitSearch(s *Solver)
	RestartSearch(s *Solver)

	BeginNextDecision(s *Solver, db DecisionBuilder)
	EndNextDecision(s *Solver, db DecisionBuilder, d Decision)

	ApplyDecision(s *Solver, d Decision)
	RefuteDecision(s *Solver, d Decision)
	AfterDecision(s *Solver, d Decision, didApply bool)

	BeginFail(s *Solver)
	EndFail(s *Solver)

	BeginInitialPropagation(s *Solver)
	EndInitialPropagation(s *Solver)

	// AtSolution is called when a full assignment is reached, before it is
	// accepted; returning false from AcceptSolution rejects it and resumes
	// search as though it had failed.
	AtSolution(s *Solver)
	AcceptSolution(s *Solver) bool

	NoMoreSolutions(s *Solver)

	// AcceptNeighbor/AcceptDelta/AtLocalOptimum/AcceptUncheckedNeighbor are
	// used by the metaheuristic local-search wrappers (spec.md §4.H); a
	// plain DFS search never calls them.
	AcceptNeighbor(s *Solver) bool
	AcceptDelta(s *Solver) bool
	AtLocalOptimum(s *Solver)
	AcceptUncheckedNeighbor(s *Solver) bool

	// PeriodicCheck is polled by the search loop roughly once per node; a
	// limit monitor returns false here to stop the search early.
	PeriodicCheck(s *Solver) bool
}

// BaseMonitor implements every SearchMonitor method as a permissive no-op
// (accept hooks return true). Concrete monitors embed this and override
// only what they need.
type BaseMonitor struct{}

func (BaseMonitor) EnterSearch(*Solver)   {}
func (BaseMonitor) ExitSearch(*Solver)    {}
func (BaseMonitor) RestartSearch(*Solver) {}

func (BaseMonitor) BeginNextDecision(*Solver, DecisionBuilder)         {}
func (BaseMonitor) EndNextDecision(*Solver, DecisionBuilder, Decision) {}

func (BaseMonitor) ApplyDecision(*Solver, Decision)            {}
func (BaseMonitor) RefuteDecision(*Solver, Decision)           {}
func (BaseMonitor) AfterDecision(*Solver, Decision, bool) {}

func (BaseMonitor) BeginFail(*Solver) {}
func (BaseMonitor) EndFail(*Solver)   {}

func (BaseMonitor) BeginInitialPropagation(*Solver) {}
func (BaseMonitor) EndInitialPropagation(*Solver)   {}

func (BaseMonitor) AtSolution(*Solver)        {}
func (BaseMonitor) AcceptSolution(*Solver) bool { return true }

func (BaseMonitor) NoMoreSolutions(*Solver) {}

func (BaseMonitor) AcceptNeighbor(*Solver) bool          { return true }
func (BaseMonitor) AcceptDelta(*Solver) bool             { return true }
func (BaseMonitor) AtLocalOptimum(*Solver)               {}
func (BaseMonitor) AcceptUncheckedNeighbor(*Solver) bool { return true }

func (BaseMonitor) PeriodicCheck(*Solver) bool { return true }

// SolverStats are the always-on counters every Solver maintains,
// independent of any attached SearchMonitor.
type SolverStats struct {
	DemonRuns   int64
	Fails       int64
	Nodes       int64
	Solutions   int64
	Branches    int64
}

// SolverMonitor is the Solver's built-in bookkeeping: it is not a
// SearchMonitor (it has no events to veto), just plain counters that
// every other monitor and the CLI harness can read back.
type SolverMonitor struct {
	stats SolverStats
}

// NewSolverMonitor creates a zeroed SolverMonitor.
func NewSolverMonitor() *SolverMonitor { return &SolverMonitor{} }

func (m *SolverMonitor) recordDemonRun() { m.stats.DemonRuns++ }
func (m *SolverMonitor) recordFail()     { m.stats.Fails++ }
func (m *SolverMonitor) recordNode()     { m.stats.Nodes++ }
func (m *SolverMonitor) recordSolution() { m.stats.Solutions++ }
func (m *SolverMonitor) recordBranch()   { m.stats.Branches++ }

// Stats returns a snapshot of the current counters.
func (m *SolverMonitor) Stats() SolverStats { return m.stats }
