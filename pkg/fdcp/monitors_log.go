package fdcp

import (
	"fmt"
	"io"
	"os"
)

// monitors_log.go: SearchLog and SearchTrace (spec.md §4.G "emits
// structured progress every k branches and on each improving solution" /
// "verbose event log for debugging"). Lines are terse key=value pairs to
// an io.Writer, matching SPEC_FULL.md §4.K's note that no third-party
// logging library is wired in for this package — see DESIGN.md.

// SearchLog prints one key=value progress line every Period branches and
// one line for every solution reached; when an objective is configured,
// that line carries its value and whether it improved on the best seen.
type SearchLog struct {
	BaseMonitor
	w         io.Writer
	period    int64
	objective *IntVar
	minimize  bool
	bestSeen  int64
	haveBest  bool
}

// NewSearchLog creates a log writing to w (os.Stderr if w is nil) that
// prints a line every period branches. objective may be nil; when set, the
// per-solution line reports its value and whether it improved on the
// previous best.
func NewSearchLog(w io.Writer, period int64, objective *IntVar, minimize bool) *SearchLog {
	if w == nil {
		w = os.Stderr
	}
	if period <= 0 {
		period = 1000
	}
	return &SearchLog{w: w, period: period, objective: objective, minimize: minimize}
}

func (l *SearchLog) AfterDecision(s *Solver, d Decision, applied bool) {
	st := s.Monitor().Stats()
	if st.Branches%l.period == 0 {
		fmt.Fprintf(l.w, "branches=%d fails=%d nodes=%d solutions=%d\n", st.Branches, st.Fails, st.Nodes, st.Solutions)
	}
}

func (l *SearchLog) AtSolution(s *Solver) {
	st := s.Monitor().Stats()
	if l.objective == nil || !l.objective.IsBound() {
		fmt.Fprintf(l.w, "solution=%d branches=%d fails=%d\n", st.Solutions, st.Branches, st.Fails)
		return
	}
	obj := l.objective.Value()
	improved := !l.haveBest || (l.minimize && obj < l.bestSeen) || (!l.minimize && obj > l.bestSeen)
	if improved {
		l.bestSeen, l.haveBest = obj, true
	}
	fmt.Fprintf(l.w, "solution=%d objective=%d improved=%t branches=%d fails=%d\n", st.Solutions, obj, improved, st.Branches, st.Fails)
}

func (l *SearchLog) EnterSearch(s *Solver) { fmt.Fprintf(l.w, "enter_search vars=%d\n", len(s.Vars())) }
func (l *SearchLog) ExitSearch(s *Solver) {
	st := s.Monitor().Stats()
	fmt.Fprintf(l.w, "exit_search branches=%d fails=%d nodes=%d solutions=%d\n", st.Branches, st.Fails, st.Nodes, st.Solutions)
}

// SearchTrace prints one line per search event, for step-by-step debugging
// of a small model; far noisier than SearchLog and not meant for normal
// runs.
type SearchTrace struct {
	BaseMonitor
	w io.Writer
}

// NewSearchTrace creates a trace writing to w (os.Stderr if nil).
func NewSearchTrace(w io.Writer) *SearchTrace {
	if w == nil {
		w = os.Stderr
	}
	return &SearchTrace{w: w}
}

func (t *SearchTrace) EnterSearch(s *Solver)   { fmt.Fprintln(t.w, "trace: enter_search") }
func (t *SearchTrace) ExitSearch(s *Solver)    { fmt.Fprintln(t.w, "trace: exit_search") }
func (t *SearchTrace) RestartSearch(s *Solver) { fmt.Fprintln(t.w, "trace: restart_search") }

func (t *SearchTrace) ApplyDecision(s *Solver, d Decision)  { fmt.Fprintf(t.w, "trace: apply %v\n", d) }
func (t *SearchTrace) RefuteDecision(s *Solver, d Decision) { fmt.Fprintf(t.w, "trace: refute %v\n", d) }
func (t *SearchTrace) AfterDecision(s *Solver, d Decision, applied bool) {
	fmt.Fprintf(t.w, "trace: after applied=%t\n", applied)
}

func (t *SearchTrace) BeginFail(s *Solver) { fmt.Fprintln(t.w, "trace: begin_fail") }
func (t *SearchTrace) EndFail(s *Solver)   { fmt.Fprintln(t.w, "trace: end_fail") }

func (t *SearchTrace) AtSolution(s *Solver)      { fmt.Fprintln(t.w, "trace: at_solution") }
func (t *SearchTrace) NoMoreSolutions(s *Solver) { fmt.Fprintln(t.w, "trace: no_more_solutions") }
