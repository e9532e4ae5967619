package fdcp

// monitors_restart.go: Luby and constant restart monitors (spec.md §4.G
// "on each fail-count threshold, triggers a top-level restart"). Both
// monitors only ever run on PeriodicCheck, counting fails since their own
// last restart and raising search.go's restartSignal once the schedule's
// threshold is crossed.

// lubySequence returns the i'th (1-based) term of the standard Luby
// restart sequence: 1 1 2 1 1 2 4 1 1 2 1 1 2 4 8 ... Used unscaled by
// LubyRestart, which multiplies it by a caller-chosen unit.
func lubySequence(i int64) int64 {
	for k := int64(1); ; k++ {
		full := int64(1)<<uint(k) - 1
		if i == full {
			return int64(1) << uint(k-1)
		}
		half := int64(1) << uint(k-1)
		if half <= i && i < full {
			return lubySequence(i - half + 1)
		}
	}
}

// LubyRestart triggers a top-level restart whenever the fail count since
// the last restart reaches the next term of the Luby sequence, scaled by
// unit. This is the standard randomization-resistant restart schedule used
// by most CDCL/CP solvers: short early restarts, exponentially longer runs
// interspersed, without ever committing to a single fixed period.
type LubyRestart struct {
	BaseMonitor
	unit               int64
	index              int64
	failsAtLastRestart int64
}

// NewLubyRestart creates a Luby schedule with the given scale unit (the
// sequence's "1" maps to unit fails).
func NewLubyRestart(unit int64) *LubyRestart {
	if unit <= 0 {
		unit = 1
	}
	return &LubyRestart{unit: unit, index: 1}
}

func (r *LubyRestart) PeriodicCheck(s *Solver) bool {
	fails := s.Monitor().Stats().Fails - r.failsAtLastRestart
	if fails >= lubySequence(r.index)*r.unit {
		r.index++
		r.failsAtLastRestart = s.Monitor().Stats().Fails
		panic(restartSignal{})
	}
	return true
}

// ConstantRestart triggers a top-level restart every fixed number of fails.
type ConstantRestart struct {
	BaseMonitor
	period             int64
	failsAtLastRestart int64
}

// NewConstantRestart creates a restart schedule firing every period fails.
func NewConstantRestart(period int64) *ConstantRestart {
	if period <= 0 {
		period = 1
	}
	return &ConstantRestart{period: period}
}

func (r *ConstantRestart) PeriodicCheck(s *Solver) bool {
	fails := s.Monitor().Stats().Fails - r.failsAtLastRestart
	if fails >= r.period {
		r.failsAtLastRestart = s.Monitor().Stats().Fails
		panic(restartSignal{})
	}
	return true
}
