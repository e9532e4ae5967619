package fdcp

// demon.go: the Demon abstraction (spec.md §3 "Demon", §4.C). A Demon is a
// propagator closure with a priority and an inhibited flag; it reads
// variables, restricts domains (which itself may enqueue further demons),
// and may call fail() to signal a contradiction.

// DemonPriority controls which of the three global FIFOs a demon is queued
// on (spec.md §4.C): normal constraints run before delayed ones once
// variable-level immediate demons have all fired.
type DemonPriority int

const (
	// PriorityNormal is the default priority for most constraints.
	PriorityNormal DemonPriority = iota
	// PriorityVariable is for demons that maintain per-variable
	// bookkeeping (e.g. cached bounds); PropQueue runs them after the
	// queued normal demons and before delayed ones.
	PriorityVariable
	// PriorityDelayed is used by expensive global constraints (AllDifferent,
	// Cumulative, Table, ...) that should only recompute once all cheaper
	// bound propagation for this pass has settled.
	PriorityDelayed
)

// Demon is a propagator registered to run when a watched variable event
// fires. Implementations must be idempotent: running a demon twice on the
// same domain state must not re-narrow anything the first run already
// narrowed (spec.md §8 invariant 3, fixed point).
type Demon interface {
	// Run executes the demon's propagation logic. It should call methods
	// on the Solver's variables directly; a logical contradiction is
	// signaled by calling fail(), not by a returned error.
	Run(s *Solver)

	// Priority reports which FIFO this demon belongs to.
	Priority() DemonPriority

	// Inhibited reports whether this demon is currently disabled. An
	// inhibited demon is dropped silently when popped from the queue.
	Inhibited() bool
}

// funcDemon adapts a plain closure to the Demon interface — the common
// case for constraints that only ever need one propagation function
// (spec.md §9: "each demon... becomes a boxed trait object with a single
// method").
type funcDemon struct {
	fn        func(s *Solver)
	priority  DemonPriority
	inhibited *RevBool
}

// NewDemon wraps fn as a Demon at the given priority. Most constraints call
// this once and register the result on every variable they watch, closing over the constraint's own
// state (spec.md §3 "Demon... pooled and re-registered each time they are
// attached to an event" — here a single heap-allocated closure is simply
// registered on every variable it watches, which is the idiomatic Go
// equivalent of the pooled-C++-object pattern).
func NewDemon(priority DemonPriority, fn func(s *Solver)) Demon {
	return &funcDemon{fn: fn, priority: priority}
}

func (d *funcDemon) Run(s *Solver)          { d.fn(s) }
func (d *funcDemon) Priority() DemonPriority { return d.priority }
func (d *funcDemon) Inhibited() bool {
	return d.inhibited != nil && d.inhibited.Value()
}

// Inhibit disables this demon through a trail-backed flag, so backtracking
// past the call enables it again; used by constraints that become
// vacuously satisfied (e.g. an optional variable whose presence literal
// is false).
func (d *funcDemon) Inhibit(t *Trail) {
	if d.inhibited == nil {
		d.inhibited = NewRevBool(t, false)
	}
	d.inhibited.Set(true)
}
