package fdcp

import (
	"context"
	"testing"
)

func TestLubySequence(t *testing.T) {
	// The standard Luby sequence: 1 1 2 1 1 2 4 1 1 2 1 1 2 4 8 ...
	want := []int64{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	for i, w := range want {
		if got := lubySequence(int64(i + 1)); got != w {
			t.Errorf("lubySequence(%d) = %d, want %d", i+1, got, w)
		}
	}
}

func TestLubyRestartAttachedStillSolves(t *testing.T) {
	s := NewSolver()
	x := s.NewIntVar(1, 4, "x")
	y := s.NewIntVar(1, 4, "y")
	s.AddConstraint(s.NewAllDifferent([]*IntVar{x, y}))

	db := s.DefaultPhase([]*IntVar{x, y})
	restart := NewLubyRestart(1)
	collector := NewSolutionCollector(CollectFirst, nil, true, 1)

	// With a restart threshold of one fail attached, the search must still
	// return a solution. This model is solved without any fail, so no
	// restart actually fires here.
	if !s.Solve(context.Background(), db, restart, collector) {
		t.Fatal("expected a solution with a LubyRestart monitor attached")
	}
	if collector.Count() != 1 {
		t.Fatalf("expected one collected solution, got %d", collector.Count())
	}
}
