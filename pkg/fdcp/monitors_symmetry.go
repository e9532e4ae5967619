package fdcp

// monitors_symmetry.go: SymmetryManager (spec.md §4.G "for each registered
// symmetry breaker, records a per-decision symmetric clause; on
// refutation, posts a constraint forbidding the symmetric continuation").
// A breaker maps one assignVarDecision's (var, value) to the symmetric
// assignment that the search would otherwise explore redundantly;
// RefuteDecision prunes that symmetric value the moment the original
// branch is refuted, so the search never re-derives an equivalent
// sub-tree under a different name.

// SymmetryBreaker maps an about-to-be-refuted assignment (v == val) to the
// symmetric assignment (symVar == symVal) that should be forbidden at the
// same point in the search. ok is false when this breaker has nothing to
// say about the given (v, val) pair.
type SymmetryBreaker func(v *IntVar, val int64) (symVar *IntVar, symVal int64, ok bool)

// SymmetryManager holds a set of registered SymmetryBreakers and applies
// every one of them on every decision refutation.
type SymmetryManager struct {
	BaseMonitor
	breakers []SymmetryBreaker
}

// NewSymmetryManager creates a manager from the given breakers.
func NewSymmetryManager(breakers ...SymmetryBreaker) *SymmetryManager {
	return &SymmetryManager{breakers: breakers}
}

// Register adds another breaker after construction.
func (m *SymmetryManager) Register(b SymmetryBreaker) { m.breakers = append(m.breakers, b) }

// RefuteDecision runs before assignVarDecision.Refute itself (search.go
// calls monitor hooks first); removing the symmetric value here lands it
// in the same fixed-point propagation pass as the refutation it mirrors.
func (m *SymmetryManager) RefuteDecision(s *Solver, d Decision) {
	ad, ok := d.(*assignVarDecision)
	if !ok {
		return
	}
	for _, brk := range m.breakers {
		if symVar, symVal, ok := brk(ad.v, ad.val); ok && symVar != ad.v {
			symVar.RemoveValue(symVal)
		}
	}
}

// ReflectSymmetry is a ready-made SymmetryBreaker for the common
// value-reflection case (e.g. N-Queens' left-right board symmetry): two
// variables whose domains are mirror images under val -> lo+hi-val are
// interchangeable, so refuting one's assignment also forbids the other's
// mirrored one.
func ReflectSymmetry(a, b *IntVar, lo, hi int64) SymmetryBreaker {
	return func(v *IntVar, val int64) (*IntVar, int64, bool) {
		switch v {
		case a:
			return b, lo + hi - val, true
		case b:
			return a, lo + hi - val, true
		default:
			return nil, 0, false
		}
	}
}
