package fdcp

import "time"

// monitors_limits.go: the limit family (spec.md §4.G "time / branches /
// failures / solutions, cumulative or per-solve; a composed OR-limit; a
// custom-predicate limit; an improvement-rate limit using a sliding window
// of solution improvements"). Every limit is a SearchMonitor whose
// PeriodicCheck returns false once its bound is reached, which search.go's
// dfs loop polls once per node before asking the DecisionBuilder for the
// next decision.

// TimeLimit stops the search once the wall clock passes a deadline set at
// construction time.
type TimeLimit struct {
	BaseMonitor
	deadline time.Time
}

// NewTimeLimit creates a limit that fires d after this call.
func NewTimeLimit(d time.Duration) *TimeLimit { return &TimeLimit{deadline: time.Now().Add(d)} }

func (l *TimeLimit) PeriodicCheck(s *Solver) bool { return time.Now().Before(l.deadline) }

// BranchLimit stops the search once the solver's cumulative branch count
// reaches max.
type BranchLimit struct {
	BaseMonitor
	max int64
}

func NewBranchLimit(max int64) *BranchLimit { return &BranchLimit{max: max} }

func (l *BranchLimit) PeriodicCheck(s *Solver) bool { return s.Monitor().Stats().Branches < l.max }

// FailLimit stops the search once the solver's cumulative fail count
// reaches max.
type FailLimit struct {
	BaseMonitor
	max int64
}

func NewFailLimit(max int64) *FailLimit { return &FailLimit{max: max} }

func (l *FailLimit) PeriodicCheck(s *Solver) bool { return s.Monitor().Stats().Fails < l.max }

// SolutionLimit stops the search once max solutions have been accepted.
type SolutionLimit struct {
	BaseMonitor
	max int64
}

func NewSolutionLimit(max int64) *SolutionLimit { return &SolutionLimit{max: max} }

func (l *SolutionLimit) PeriodicCheck(s *Solver) bool { return s.Monitor().Stats().Solutions < l.max }

// OrLimit composes several limits: the search stops as soon as any one of
// them would stop it alone (logical OR over "should stop", equivalently
// logical AND over "keep going").
type OrLimit struct {
	BaseMonitor
	limits []SearchMonitor
}

// NewOrLimit composes limits; each must itself implement PeriodicCheck
// meaningfully (an embedded BaseMonitor that never overrides it always
// votes "keep going", which is harmless here).
func NewOrLimit(limits ...SearchMonitor) *OrLimit { return &OrLimit{limits: limits} }

func (l *OrLimit) PeriodicCheck(s *Solver) bool {
	for _, lim := range l.limits {
		if !lim.PeriodicCheck(s) {
			return false
		}
	}
	return true
}

// PredicateLimit stops the search the first time a user-supplied predicate
// returns false.
type PredicateLimit struct {
	BaseMonitor
	pred func(s *Solver) bool
}

// NewPredicateLimit creates a limit driven entirely by pred.
func NewPredicateLimit(pred func(s *Solver) bool) *PredicateLimit {
	return &PredicateLimit{pred: pred}
}

func (l *PredicateLimit) PeriodicCheck(s *Solver) bool { return l.pred(s) }

// ImprovementRateLimit stops the search once a sliding window of the last
// WindowSize accepted-solution objective values shows no improvement
// (spec.md's "improvement-rate limit using a sliding window of solution
// improvements").
type ImprovementRateLimit struct {
	BaseMonitor
	objective  *IntVar
	minimize   bool
	windowSize int
	window     []int64
	stopped    bool
}

// NewImprovementRateLimit creates a limit over objective's accepted values,
// stopping once windowSize consecutive solutions fail to improve on the
// oldest value in the window.
func NewImprovementRateLimit(objective *IntVar, minimize bool, windowSize int) *ImprovementRateLimit {
	if windowSize < 2 {
		windowSize = 2
	}
	return &ImprovementRateLimit{objective: objective, minimize: minimize, windowSize: windowSize}
}

func (l *ImprovementRateLimit) AtSolution(s *Solver) {
	if !l.objective.IsBound() {
		return
	}
	v := l.objective.Value()
	l.window = append(l.window, v)
	if len(l.window) > l.windowSize {
		l.window = l.window[len(l.window)-l.windowSize:]
	}
	if len(l.window) < l.windowSize {
		return
	}
	oldest, newest := l.window[0], l.window[len(l.window)-1]
	if l.minimize {
		l.stopped = newest >= oldest
	} else {
		l.stopped = newest <= oldest
	}
}

func (l *ImprovementRateLimit) PeriodicCheck(s *Solver) bool { return !l.stopped }
