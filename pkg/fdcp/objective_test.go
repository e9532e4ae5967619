package fdcp

import (
	"context"
	"testing"
)

func TestOptimizeVarMinimize(t *testing.T) {
	s := NewSolver()
	x := s.NewIntVar(1, 10, "x")
	y := s.NewIntVar(1, 10, "y")
	s.AddConstraint(s.NewAllDifferent([]*IntVar{x, y}))
	sum := s.NewSum(x, y).Var()

	db := s.DefaultPhase([]*IntVar{x, y})
	collector := NewSolutionCollector(CollectBest, sum, true, 1)
	optimize := NewOptimize(ObjectiveTerm{Var: sum, Sense: Minimize, Step: 1})
	if !s.Solve(context.Background(), db, collector, optimize) {
		t.Fatal("expected at least one feasible solution")
	}

	best, have := optimize.Best()
	if !have {
		t.Fatal("expected OptimizeVar to record a best solution")
	}
	if best[0] != 3 {
		t.Fatalf("expected the minimal sum 3 (1+2), got %d", best[0])
	}
}

func TestOptimizeVarLexicographic(t *testing.T) {
	s := NewSolver()
	x := s.NewIntVar(1, 3, "x")
	y := s.NewIntVar(1, 3, "y")
	s.AddConstraint(s.NewAllDifferent([]*IntVar{x, y}))

	db := s.DefaultPhase([]*IntVar{x, y})
	optimize := NewOptimize(
		ObjectiveTerm{Var: x, Sense: Minimize, Step: 1},
		ObjectiveTerm{Var: y, Sense: Minimize, Step: 1},
	)
	if !s.Solve(context.Background(), db, optimize) {
		t.Fatal("expected at least one feasible solution")
	}
	best, _ := optimize.Best()
	if best[0] != 1 {
		t.Fatalf("expected x to reach its minimum 1 first, got %d", best[0])
	}
}
