// Package fdcp implements a finite-domain constraint programming core:
// a trail-based reversible store, three-representation integer domains,
// a demon-driven propagation engine, global constraints, a precedence
// propagator, a pluggable decision-builder search, search monitors, and
// objective/metaheuristic wrappers over that search.
//
// trail.go: reversible memory. Every mutation made to a domain, to a
// watcher list, or to any other search-level-scoped piece of solver state
// goes through a Rev* cell so that it can be undone in LIFO order when the
// search backtracks.
package fdcp

import "fmt"

// undoRecord is one entry on the trail: a closure that puts a reversible
// cell back to the value (and save stamp) it held before the recorded
// write.
type undoRecord struct {
	restore func()
}

// Trail is the single growable undo log shared by every reversible cell in
// a Solver. It is keyed by a search-level stamp equal to the current depth:
// PushLevel() bumps the stamp and remembers the trail's current length;
// PopLevel() rewinds the trail to that length, running each record's
// restore closure in LIFO order, then decrements the stamp. Because a
// sibling branch reuses the same stamp, each record also restores its
// cell's save stamp, so the first write in the sibling is recorded again.
//
// A cell records itself on the trail at most once per stamp: each cell
// carries its own "last written at" stamp, and save() is a no-op if that
// stamp already equals the trail's current stamp. This keeps a tight
// propagation loop that repeatedly touches the same cell from growing the
// trail unboundedly within one search level.
type Trail struct {
	stamp   int64
	marks   []int // trail length at the start of each pushed level
	records []undoRecord
}

// NewTrail creates an empty trail at stamp 0 (the root search level).
func NewTrail() *Trail {
	return &Trail{marks: make([]int, 0, 64), records: make([]undoRecord, 0, 256)}
}

// Stamp returns the current search-level stamp. Stamp 0 is the root level,
// before any decision has been applied.
func (t *Trail) Stamp() int64 { return t.stamp }

// Depth returns the number of currently pushed levels.
func (t *Trail) Depth() int { return len(t.marks) }

// PushLevel increments the search-level stamp and opens a new undo scope.
// Every cell written after this call (and before the matching PopLevel)
// is restored to its pre-write value when that PopLevel runs.
func (t *Trail) PushLevel() {
	t.stamp++
	t.marks = append(t.marks, len(t.records))
}

// PopLevel rewinds the trail to the mark saved by the matching PushLevel,
// restoring cells in LIFO order, then decrements the stamp. Calling
// PopLevel without a matching PushLevel panics: it indicates a bug in the
// search engine's node bookkeeping, not a recoverable runtime condition.
func (t *Trail) PopLevel() {
	if len(t.marks) == 0 {
		panic("fdcp: Trail.PopLevel called with no pushed level")
	}
	mark := t.marks[len(t.marks)-1]
	t.marks = t.marks[:len(t.marks)-1]
	for i := len(t.records) - 1; i >= mark; i-- {
		t.records[i].restore()
	}
	t.records = t.records[:mark]
	t.stamp--
}

// record appends a restore closure to the trail. Reversible cells call
// this from their own save() once per stamp.
func (t *Trail) record(restore func()) {
	t.records = append(t.records, undoRecord{restore: restore})
}

// failSignal is the internal control-flow value used to unwind to the
// nearest choice point on a propagation contradiction (spec's "Fail").
// It is never exported and must never cross the Solver.Solve boundary:
// search recovers it at every node it pushes.
type failSignal struct {
	reason string
}

func (f failSignal) Error() string { return f.reason }

// fail raises a failSignal. Any code running under propagateFixpoint or
// under a Demon.Run should call this instead of returning an error for a
// logical domain contradiction; model-construction errors are reported by
// panicking at the offending call, not through this signal.
func fail(format string, args ...any) {
	panic(failSignal{reason: fmt.Sprintf(format, args...)})
}

// recoverFail turns a panicking failSignal into a returned error, letting
// any other panic continue to propagate (a real bug must not be silently
// swallowed as a domain failure). *err must be a non-nil pointer.
func recoverFail(err *error) {
	if r := recover(); r != nil {
		if fs, ok := r.(failSignal); ok {
			*err = fs
			return
		}
		panic(r)
	}
}

// RevInt64 is a reversible scalar cell: a value plus the stamp at which it
// was last written. Reads are always the current value, regardless of
// level; writes before the value is saved at the current stamp push an
// undo record that restores the old value on backtrack.
type RevInt64 struct {
	trail     *Trail
	value     int64
	savedAt   int64
	hasSaved  bool // becomes true once this stamp has a save() on the trail
}

// NewRevInt64 creates a reversible int64 cell bound to trail t with an
// initial value. Cells must be created at (or before) the stamp they are
// first written at; typically at Solver construction time, stamp 0.
func NewRevInt64(t *Trail, initial int64) *RevInt64 {
	return &RevInt64{trail: t, value: initial, savedAt: t.Stamp(), hasSaved: true}
}

// Value returns the cell's current value.
func (r *RevInt64) Value() int64 { return r.value }

// Set writes a new value, saving the old one to the trail the first time
// this cell is touched at the current stamp.
func (r *RevInt64) Set(v int64) {
	r.save()
	r.value = v
}

func (r *RevInt64) save() {
	if r.hasSaved && r.savedAt == r.trail.Stamp() {
		return
	}
	old, oldAt, oldHas := r.value, r.savedAt, r.hasSaved
	r.trail.record(func() { r.value, r.savedAt, r.hasSaved = old, oldAt, oldHas })
	r.savedAt = r.trail.Stamp()
	r.hasSaved = true
}

// RevBool is a reversible boolean cell, a thin specialization of RevInt64
// used for flags that gate whether a demon or constraint is active.
type RevBool struct {
	cell RevInt64
}

// NewRevBool creates a reversible bool cell with an initial value.
func NewRevBool(t *Trail, initial bool) *RevBool {
	return &RevBool{cell: *NewRevInt64(t, boolToInt64(initial))}
}

// Value returns the cell's current value.
func (r *RevBool) Value() bool { return r.cell.Value() != 0 }

// Set writes a new value.
func (r *RevBool) Set(v bool) { r.cell.Set(boolToInt64(v)) }

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// RevQueue is an append-only, reversibly-truncated slice of values: an
// O(1) push whose pop is implicit on backtrack, per spec.md's "simple-FIFO
// reversible containers piggyback on [the trail]": only the queue's
// length is reversible, the backing array is append-only and never
// shrinks outside of backtracking.
type RevQueue[T any] struct {
	trail *Trail
	items []T
	length RevInt64
}

// NewRevQueue creates an empty reversible queue bound to trail t.
func NewRevQueue[T any](t *Trail) *RevQueue[T] {
	return &RevQueue[T]{trail: t, length: *NewRevInt64(t, 0)}
}

// Len returns the number of currently visible items.
func (q *RevQueue[T]) Len() int { return int(q.length.Value()) }

// Push appends an item. The push itself is undone on backtrack via the
// reversible length counter; the backing array entry is left in place
// (harmless, since Len() hides it) and reused if the same slot is pushed
// to again after backtracking.
func (q *RevQueue[T]) Push(item T) {
	n := int(q.length.Value())
	if n < len(q.items) {
		q.items[n] = item
	} else {
		q.items = append(q.items, item)
	}
	q.length.Set(int64(n + 1))
}

// At returns the item at index i (0 <= i < Len()).
func (q *RevQueue[T]) At(i int) T { return q.items[i] }

// Items returns the currently visible items. Callers must not retain or
// mutate the returned slice across a backtrack.
func (q *RevQueue[T]) Items() []T { return q.items[:q.length.Value()] }
