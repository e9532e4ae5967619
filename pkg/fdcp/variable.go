package fdcp

import "fmt"

// variable.go: IntVar (spec.md §3 "Integer variable", §4.B). An IntVar
// pairs an identity with a current Domain and the watcher FIFOs that let
// demons subscribe to bound/range/domain events, immediate or delayed.
// old-min/old-max are snapshotted once per propagation pass so demons can
// tell a tightened bound from an untouched one without re-reading history.

// EventKind classifies the domain mutation that just happened, from
// strongest to weakest: a bound changing subsumes a range change which
// subsumes an arbitrary (possibly interior) domain change (spec.md §4.B
// step 4: "Bound events subsume range events which subsume domain
// events").
type EventKind int

const (
	// EventBound fires only when the variable becomes bound (Size()==1).
	EventBound EventKind = iota
	// EventRange fires whenever Min() or Max() changes.
	EventRange
	// EventDomain fires on any domain change, including interior holes.
	EventDomain
)

// watcherList holds the demons registered for one event kind, split into
// immediate (run as soon as the event fires) and delayed (pushed onto the
// solver's PropQueue each time the event fires, so a demon can be queued
// more than once in a pass, and run after all immediate demons across all
// variables have run — spec.md §4.C).
type watcherList struct {
	immediate []Demon
	delayed   []Demon
}

// IntVar is a finite-domain integer variable: the standard decision
// variable of this solver (spec.md §3, §4.B).
type IntVar struct {
	solver *Solver
	id     int
	name   string
	domain Domain

	oldMin, oldMax int64
	inProcess      bool
	pendingWrites  []func() // buffered SetXxx calls made while inProcess

	watchers [3]watcherList // indexed by EventKind

	// castExpr links a view (e.g. x+c) back to the IntExpr that created it,
	// so Var() materialization can be looked up without rebuilding it
	// (spec.md §3 "cast-expression pointer").
	castExpr IntExpr

	presence *BoolVar // optional variable's presence literal, nil if not optional
}

func newIntVar(s *Solver, id int, name string, domain Domain) *IntVar {
	v := &IntVar{solver: s, id: id, name: name, domain: domain}
	v.oldMin, v.oldMax = domain.Min(), domain.Max()
	return v
}

// ID returns this variable's stable index within its Solver.
func (v *IntVar) ID() int { return v.id }

// Name returns the variable's debug name.
func (v *IntVar) Name() string { return v.name }

func (v *IntVar) String() string {
	if v.name != "" {
		return v.name
	}
	return fmt.Sprintf("_v%d", v.id)
}

// Min returns the current minimum of the domain.
func (v *IntVar) Min() int64 { return v.domain.Min() }

// Max returns the current maximum of the domain.
func (v *IntVar) Max() int64 { return v.domain.Max() }

// Size returns the number of values currently in the domain.
func (v *IntVar) Size() int64 { return v.domain.Size() }

// Contains reports whether val is currently in the domain.
func (v *IntVar) Contains(val int64) bool { return v.domain.Contains(val) }

// IsBound reports whether the domain has collapsed to a single value.
func (v *IntVar) IsBound() bool { return v.domain.IsBound() }

// Value returns the bound value. Panics if the variable is not bound;
// callers on an uncertain path should check IsBound first.
func (v *IntVar) Value() int64 {
	if !v.IsBound() {
		panic(fmt.Sprintf("fdcp: Value() called on unbound variable %s", v.String()))
	}
	return v.domain.Min()
}

// OldMin and OldMax return the bounds captured at the start of the current
// propagation pass (spec.md §3, used by demons to compute exactly what
// changed since they last ran).
func (v *IntVar) OldMin() int64 { return v.oldMin }
func (v *IntVar) OldMax() int64 { return v.oldMax }

// Each calls f once per value currently in the domain, ascending.
func (v *IntVar) Each(f func(val int64)) { v.domain.Each(f) }

// Holes calls f once per value removed since the current propagation
// pass began, in the order the values were removed.
func (v *IntVar) Holes(f func(val int64)) { v.domain.Holes(f) }

// IsOptional reports whether this variable carries a presence literal.
func (v *IntVar) IsOptional() bool { return v.presence != nil }

// Presence returns the presence literal, or nil if the variable is not
// optional.
func (v *IntVar) Presence() *BoolVar { return v.presence }

// MakeOptional attaches a presence literal to this variable. When the
// literal is false, constraints over v are vacuously satisfied (spec.md
// §4.B "Optional variables").
func (v *IntVar) MakeOptional(presence *BoolVar) { v.presence = presence }

// snapshotOldBounds is called by the propagation engine once at the start
// of each pass (spec.md §4.B step 5).
func (v *IntVar) snapshotOldBounds() {
	v.oldMin, v.oldMax = v.Min(), v.Max()
}

// withPromotion runs op against v's current domain, promoting a
// boundsDomain to an equivalent bitset representation and retrying once if
// op needs to punch an interior hole the bounds representation can't
// express (see domain.go's promotionNeeded).
func (v *IntVar) withPromotion(op func(d Domain) bool) (changed bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(promotionNeeded); !ok {
				panic(r)
			}
			v.promoteToBitset()
			changed = op(v.domain)
		}
	}()
	return op(v.domain)
}

func (v *IntVar) promoteToBitset() {
	bd, ok := v.domain.(*boundsDomain)
	if !ok {
		return
	}
	v.solver.trail.record(func() { v.domain = bd })
	lo, hi := bd.min.Value(), bd.max.Value()
	if hi-lo+1 <= 64 {
		v.domain = newBitsetDomain(v.solver.trail, lo, hi)
	} else {
		v.domain = newSimpleBitsetDomain(v.solver.trail, lo, hi)
	}
}

// --- mutation protocol (spec.md §4.B) -----------------------------------
//
// Every SetXxx/RemoveXxx follows the same five-step protocol: (1) early
// return if already implied, (2) fail() on empty result, (3) buffer the
// write if the variable is mid-notification, (4) enqueue demons per event
// class, (5) the old-min/old-max snapshot happens once per pass via
// snapshotOldBounds, not here.

// SetMin restricts the domain to [val, Max()].
func (v *IntVar) SetMin(val int64) { v.mutate(func(d Domain) bool { return d.SetMin(val) }) }

// SetMax restricts the domain to [Min(), val].
func (v *IntVar) SetMax(val int64) { v.mutate(func(d Domain) bool { return d.SetMax(val) }) }

// SetRange restricts the domain to [lo, hi].
func (v *IntVar) SetRange(lo, hi int64) { v.mutate(func(d Domain) bool { return d.SetRange(lo, hi) }) }

// SetValue restricts the domain to the single value val.
func (v *IntVar) SetValue(val int64) { v.mutate(func(d Domain) bool { return d.SetValue(val) }) }

// RemoveValue removes a single value from the domain.
func (v *IntVar) RemoveValue(val int64) {
	v.mutate(func(d Domain) bool { return d.RemoveValue(val) })
}

// RemoveInterval removes every value in [lo, hi] from the domain.
func (v *IntVar) RemoveInterval(lo, hi int64) {
	v.mutate(func(d Domain) bool { return d.RemoveInterval(lo, hi) })
}

func (v *IntVar) mutate(op func(d Domain) bool) {
	if v.inProcess {
		// Step 3: buffer until the current notification pass completes.
		v.pendingWrites = append(v.pendingWrites, func() { v.mutate(op) })
		return
	}

	beforeMin, beforeMax, beforeBound := v.Min(), v.Max(), v.IsBound()

	changed := v.withPromotion(op)
	if !changed {
		return
	}

	afterMin, afterMax, afterBound := v.Min(), v.Max(), v.IsBound()

	v.notify(beforeMin, beforeMax, beforeBound, afterMin, afterMax, afterBound)
}

// notify enqueues the demons watching each event class this write
// triggered, running immediate demons inline and pushing delayed ones
// onto the solver's PropQueue (spec.md §4.C).
func (v *IntVar) notify(beforeMin, beforeMax int64, beforeBound bool, afterMin, afterMax int64, afterBound bool) {
	v.inProcess = true
	defer func() {
		v.inProcess = false
		pending := v.pendingWrites
		v.pendingWrites = nil
		for _, w := range pending {
			w()
		}
	}()

	fireKind := func(kind EventKind) {
		wl := &v.watchers[kind]
		for _, dem := range wl.immediate {
			runDemon(v.solver, dem)
		}
		for _, dem := range wl.delayed {
			v.solver.queue.Enqueue(dem)
		}
	}

	// Always a domain event.
	fireKind(EventDomain)
	if afterMin != beforeMin || afterMax != beforeMax {
		fireKind(EventRange)
	}
	if afterBound && !beforeBound {
		fireKind(EventBound)
	}
}

// runDemon invokes a demon, translating a Fail signal raised inside it
// into the surrounding propagate loop's panic-based unwind (the demon
// itself is expected to call fail() directly; this wrapper exists so
// callers have one place to add instrumentation).
func runDemon(s *Solver, d Demon) {
	if d.Inhibited() {
		return
	}
	s.monitor.recordDemonRun()
	d.Run(s)
}

// WhenBound registers an immediate demon to run whenever v becomes bound.
func (v *IntVar) WhenBound(d Demon) { v.watchers[EventBound].immediate = append(v.watchers[EventBound].immediate, d) }

// WhenRange registers an immediate demon to run whenever Min()/Max() changes.
func (v *IntVar) WhenRange(d Demon) { v.watchers[EventRange].immediate = append(v.watchers[EventRange].immediate, d) }

// WhenDomain registers an immediate demon to run on any domain change.
func (v *IntVar) WhenDomain(d Demon) { v.watchers[EventDomain].immediate = append(v.watchers[EventDomain].immediate, d) }

// WhenBoundDelayed registers a delayed-bound demon (spec.md §4.C: cheap
// bound propagations run before expensive global constraints).
func (v *IntVar) WhenBoundDelayed(d Demon) { v.watchers[EventBound].delayed = append(v.watchers[EventBound].delayed, d) }

// WhenRangeDelayed registers a delayed-range demon.
func (v *IntVar) WhenRangeDelayed(d Demon) { v.watchers[EventRange].delayed = append(v.watchers[EventRange].delayed, d) }

// WhenDomainDelayed registers a delayed-domain demon.
func (v *IntVar) WhenDomainDelayed(d Demon) { v.watchers[EventDomain].delayed = append(v.watchers[EventDomain].delayed, d) }

// BoolVar is a specialized two-state IntVar (values 0/1) with the same
// interface, used for presence literals and boolean connectives. It is a
// thin wrapper: the heavy lifting still goes through the shared Domain
// machinery, since a BitSetDomain over {0,1} is already O(1) per
// operation (spec.md §4.B "Boolean variables are a specialized 2-state
// form with O(1) operations").
type BoolVar struct {
	*IntVar
}

func newBoolVar(s *Solver, id int, name string) *BoolVar {
	return &BoolVar{IntVar: newIntVar(s, id, name, newBitsetDomain(s.trail, 0, 1))}
}

// IsTrue reports whether the literal is bound to 1.
func (b *BoolVar) IsTrue() bool { return b.IsBound() && b.Value() == 1 }

// IsFalse reports whether the literal is bound to 0.
func (b *BoolVar) IsFalse() bool { return b.IsBound() && b.Value() == 0 }

// SetTrue binds the literal to 1.
func (b *BoolVar) SetTrue() { b.SetValue(1) }

// SetFalse binds the literal to 0.
func (b *BoolVar) SetFalse() { b.SetValue(0) }

// Not returns the negation of this literal as a cached view, materializing
// a linking constraint the first time it is requested (spec.md §3 "Var()
// materialization").
func (b *BoolVar) Not() *BoolVar {
	return b.solver.negatedLiteral(b)
}
