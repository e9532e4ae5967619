package fdcp

import "errors"

// errors.go: the error taxonomy from spec.md §7. No Go error crosses the
// Solver API boundary: model errors (an empty initial domain, posting
// after search has started, and the like) panic at the call that makes
// them, and Fail/Unfeasible/Stop are internal control-flow signals (see
// trail.go's failSignal and search.go's limit checks). The sentinel values
// below are defined for errors.Is comparisons, but nothing in this package
// currently returns or wraps any of them.

// ErrEmptyDomain names an empty initial domain; NewIntVar reports that
// case with a panic rather than with this value.
var ErrEmptyDomain = errors.New("fdcp: empty domain")

// ErrModelInvalid names a model that is not well-formed; no function in
// this package returns it.
var ErrModelInvalid = errors.New("fdcp: invalid model")

// ErrDivideByZero names a division or modulo by a constant zero; this
// package has no division or modulo expression factory.
var ErrDivideByZero = errors.New("fdcp: division by zero")

// ErrSearchLimitReached names a search stopped by a limit (time, nodes,
// failures) before exhaustion; no function in this package returns it.
var ErrSearchLimitReached = errors.New("fdcp: search limit reached")

// ErrStopRequested names a search stopped by a monitor's periodic check
// or a cancelled context; Solve reports that case as a false result, not
// with this value.
var ErrStopRequested = errors.New("fdcp: stop requested")
