package fdcp

// assignment.go: the Assignment protocol (spec.md §6 "A solution is a
// flat map from variable identity to value plus, optionally, the
// objective value"). Collectors snapshot one of these per accepted
// solution; external consumers read it back after Solve returns.

// Assignment is an immutable snapshot of every variable's bound value at
// the moment it was taken.
type Assignment struct {
	Values       map[int]int64
	Names        map[int]string
	Objective    int64
	HasObjective bool
}

// Snapshot captures the current value of every bound variable. Variables
// that are not currently bound are omitted — callers normally snapshot
// only at an accepted solution, where every decision variable is bound,
// but a snapshot taken mid-search (e.g. for debugging) simply records a
// partial assignment.
func (s *Solver) Snapshot() *Assignment {
	a := &Assignment{Values: make(map[int]int64, len(s.vars)), Names: make(map[int]string, len(s.vars))}
	for _, v := range s.vars {
		if v.IsBound() {
			a.Values[v.ID()] = v.Value()
		}
		a.Names[v.ID()] = v.Name()
	}
	return a
}

// Value returns v's value in this assignment and whether it was present.
func (a *Assignment) Value(v *IntVar) (int64, bool) {
	val, ok := a.Values[v.ID()]
	return val, ok
}

// WithObjective returns a copy of a with the objective value attached.
func (a *Assignment) WithObjective(value int64) *Assignment {
	return &Assignment{Values: a.Values, Names: a.Names, Objective: value, HasObjective: true}
}
