// Command fdcpctl is a small flag-based driver over pkg/fdcp (SPEC_FULL.md
// §4.J), matching the teacher's cmd/example/main.go convention of one
// runnable model per -model flag instead of a subcommand framework.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gitrdm/gofdcp/pkg/fdcp"
)

func main() {
	model := flag.String("model", "nqueens", "model to run: nqueens, sendmoremoney, magicsquare, sudoku, zebra, binpacking, jobshop")
	n := flag.Int("n", 8, "size parameter (board size for nqueens, order for magicsquare)")
	timeLimit := flag.Duration("time-limit", 10*time.Second, "search time limit")
	logPeriod := flag.Int64("log-period", 500, "branches between search log lines (0 disables the log)")
	flag.Parse()

	runner, ok := models[*model]
	if !ok {
		fmt.Fprintf(os.Stderr, "fdcpctl: unknown -model %q\n", *model)
		os.Exit(2)
	}
	runner(*n, *timeLimit, *logPeriod)
}

var models = map[string]func(n int, timeLimit time.Duration, logPeriod int64){
	"nqueens":       runNQueens,
	"sendmoremoney": runSendMoreMoney,
	"magicsquare":   runMagicSquare,
	"sudoku":        runSudoku,
	"zebra":         runZebra,
	"binpacking":    runBinPacking,
	"jobshop":       runJobShop,
}

// solveAndReport attaches the standard monitor set (a time limit, an
// optional SearchLog, and a SolutionCollector) to s, runs db, and prints
// the one solution Solve returns (if any) plus final statistics.
func solveAndReport(s *fdcp.Solver, db fdcp.DecisionBuilder, vars []*fdcp.IntVar, objective *fdcp.IntVar, minimize bool, timeLimit time.Duration, logPeriod int64) {
	monitors := []fdcp.SearchMonitor{fdcp.NewTimeLimit(timeLimit)}
	if logPeriod > 0 {
		monitors = append(monitors, fdcp.NewSearchLog(os.Stderr, logPeriod, objective, minimize))
	}
	mode := fdcp.CollectFirst
	if objective != nil {
		mode = fdcp.CollectBest
	}
	collector := fdcp.NewSolutionCollector(mode, objective, minimize, 1)
	monitors = append(monitors, collector)
	if objective != nil {
		monitors = append(monitors, fdcp.NewOptimize(fdcp.ObjectiveTerm{Var: objective, Sense: sense(minimize), Step: 1}))
	}

	ctx := context.Background()
	s.Solve(ctx, db, monitors...)

	if collector.Count() == 0 {
		fmt.Println("no solution found")
	} else {
		a := collector.Best()
		for _, v := range vars {
			val, _ := a.Value(v)
			fmt.Printf("%s=%d ", v.Name(), val)
		}
		fmt.Println()
		if a.HasObjective {
			fmt.Printf("objective=%d\n", a.Objective)
		}
	}
	st := s.Monitor().Stats()
	fmt.Printf("branches=%d fails=%d nodes=%d solutions=%d\n", st.Branches, st.Fails, st.Nodes, st.Solutions)
}

func sense(minimize bool) fdcp.OptimizeSense {
	if minimize {
		return fdcp.Minimize
	}
	return fdcp.Maximize
}

// --- N-Queens --------------------------------------------------------------

func runNQueens(n int, timeLimit time.Duration, logPeriod int64) {
	s := fdcp.NewSolver()
	queens := make([]*fdcp.IntVar, n)
	diag1 := make([]*fdcp.IntVar, n)
	diag2 := make([]*fdcp.IntVar, n)
	for i := range queens {
		queens[i] = s.NewIntVar(0, int64(n-1), fmt.Sprintf("q%d", i))
		c := s.NewIntConst(int64(i), "")
		diag1[i] = s.NewSum(queens[i], c).Var()
		diag2[i] = s.NewDifference(queens[i], c).Var()
	}
	s.AddConstraint(s.NewAllDifferent(queens))
	s.AddConstraint(s.NewAllDifferent(diag1))
	s.AddConstraint(s.NewAllDifferent(diag2))

	sym := fdcp.NewSymmetryManager(fdcp.ReflectSymmetry(queens[0], queens[n-1], 0, int64(n-1)))
	db := s.DefaultPhase(queens)
	monitors := []fdcp.SearchMonitor{fdcp.NewTimeLimit(timeLimit), sym}
	if logPeriod > 0 {
		monitors = append(monitors, fdcp.NewSearchLog(os.Stderr, logPeriod, nil, true))
	}
	collector := fdcp.NewSolutionCollector(fdcp.CollectFirst, nil, true, 1)
	monitors = append(monitors, collector)
	s.Solve(context.Background(), db, monitors...)
	if collector.Count() == 0 {
		fmt.Println("no solution found")
	} else {
		a := collector.Best()
		for _, v := range queens {
			val, _ := a.Value(v)
			fmt.Printf("%s=%d ", v.Name(), val)
		}
		fmt.Println()
	}
	st := s.Monitor().Stats()
	fmt.Printf("branches=%d fails=%d nodes=%d solutions=%d\n", st.Branches, st.Fails, st.Nodes, st.Solutions)
}

// --- SEND + MORE = MONEY ----------------------------------------------------

func runSendMoreMoney(n int, timeLimit time.Duration, logPeriod int64) {
	s := fdcp.NewSolver()
	digit := func(name string) *fdcp.IntVar { return s.NewIntVar(0, 9, name) }
	nonZeroDigit := func(name string) *fdcp.IntVar { return s.NewIntVar(1, 9, name) }

	S, E, N, D := nonZeroDigit("S"), digit("E"), digit("N"), digit("D")
	M, O, R := nonZeroDigit("M"), digit("O"), digit("R")
	Y := digit("Y")
	letters := []*fdcp.IntVar{S, E, N, D, M, O, R, Y}

	s.AddConstraint(s.NewAllDifferent(letters))

	send := s.NewScalarProd([]*fdcp.IntVar{S, E, N, D}, []int64{1000, 100, 10, 1})
	more := s.NewScalarProd([]*fdcp.IntVar{M, O, R, E}, []int64{1000, 100, 10, 1})
	money := s.NewScalarProd([]*fdcp.IntVar{M, O, N, E, Y}, []int64{10000, 1000, 100, 10, 1})
	s.AddConstraint(s.NewEqual(s.NewSum(send, more), money))

	db := s.DefaultPhase(letters)
	solveAndReport(s, db, letters, nil, true, timeLimit, logPeriod)
}

// --- Magic square ------------------------------------------------------------

func runMagicSquare(n int, timeLimit time.Duration, logPeriod int64) {
	if n < 3 {
		n = 3
	}
	s := fdcp.NewSolver()
	size := n * n
	cells := make([]*fdcp.IntVar, size)
	for i := range cells {
		cells[i] = s.NewIntVar(1, int64(size), fmt.Sprintf("c%d", i))
	}
	s.AddConstraint(s.NewAllDifferent(cells))

	magic := int64(n) * (int64(size) + 1) / 2
	at := func(r, c int) *fdcp.IntVar { return cells[r*n+c] }

	for r := 0; r < n; r++ {
		row := make([]*fdcp.IntVar, n)
		for c := 0; c < n; c++ {
			row[c] = at(r, c)
		}
		s.AddConstraint(s.NewSumEqual(row, s.NewIntConst(magic, "")))
	}
	for c := 0; c < n; c++ {
		col := make([]*fdcp.IntVar, n)
		for r := 0; r < n; r++ {
			col[r] = at(r, c)
		}
		s.AddConstraint(s.NewSumEqual(col, s.NewIntConst(magic, "")))
	}
	diag1 := make([]*fdcp.IntVar, n)
	diag2 := make([]*fdcp.IntVar, n)
	for i := 0; i < n; i++ {
		diag1[i] = at(i, i)
		diag2[i] = at(i, n-1-i)
	}
	s.AddConstraint(s.NewSumEqual(diag1, s.NewIntConst(magic, "")))
	s.AddConstraint(s.NewSumEqual(diag2, s.NewIntConst(magic, "")))

	db := s.DefaultPhase(cells)
	solveAndReport(s, db, cells, nil, true, timeLimit, logPeriod)
}

// --- Sudoku ------------------------------------------------------------------

// sudokuPuzzle is a single classic clue grid (0 == blank); fdcpctl does not
// take a puzzle file argument, it demonstrates the model on one fixed
// instance.
var sudokuPuzzle = [9][9]int{
	{5, 3, 0, 0, 7, 0, 0, 0, 0},
	{6, 0, 0, 1, 9, 5, 0, 0, 0},
	{0, 9, 8, 0, 0, 0, 0, 6, 0},
	{8, 0, 0, 0, 6, 0, 0, 0, 3},
	{4, 0, 0, 8, 0, 3, 0, 0, 1},
	{7, 0, 0, 0, 2, 0, 0, 0, 6},
	{0, 6, 0, 0, 0, 0, 2, 8, 0},
	{0, 0, 0, 4, 1, 9, 0, 0, 5},
	{0, 0, 0, 0, 8, 0, 0, 7, 9},
}

func runSudoku(n int, timeLimit time.Duration, logPeriod int64) {
	s := fdcp.NewSolver()
	var cells [9][9]*fdcp.IntVar
	var all []*fdcp.IntVar
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			cells[r][c] = s.NewIntVar(1, 9, fmt.Sprintf("r%dc%d", r, c))
			if clue := sudokuPuzzle[r][c]; clue != 0 {
				cells[r][c].SetValue(int64(clue))
			}
			all = append(all, cells[r][c])
		}
	}
	for r := 0; r < 9; r++ {
		row := make([]*fdcp.IntVar, 9)
		for c := 0; c < 9; c++ {
			row[c] = cells[r][c]
		}
		s.AddConstraint(s.NewAllDifferent(row))
	}
	for c := 0; c < 9; c++ {
		col := make([]*fdcp.IntVar, 9)
		for r := 0; r < 9; r++ {
			col[r] = cells[r][c]
		}
		s.AddConstraint(s.NewAllDifferent(col))
	}
	for br := 0; br < 3; br++ {
		for bc := 0; bc < 3; bc++ {
			block := make([]*fdcp.IntVar, 0, 9)
			for r := br * 3; r < br*3+3; r++ {
				for c := bc * 3; c < bc*3+3; c++ {
					block = append(block, cells[r][c])
				}
			}
			s.AddConstraint(s.NewAllDifferent(block))
		}
	}

	db := s.DefaultPhase(all)
	solveAndReport(s, db, all, nil, true, timeLimit, logPeriod)
}

// --- Zebra puzzle ------------------------------------------------------------

func runZebra(n int, timeLimit time.Duration, logPeriod int64) {
	s := fdcp.NewSolver()
	house := func(name string) *fdcp.IntVar { return s.NewIntVar(1, 5, name) }

	red, green, ivory, yellow, blue := house("red"), house("green"), house("ivory"), house("yellow"), house("blue")
	english, spaniard, ukrainian, norwegian, japanese := house("english"), house("spaniard"), house("ukrainian"), house("norwegian"), house("japanese")
	coffee, tea, milk, orangeJuice, water := house("coffee"), house("tea"), house("milk"), house("orange_juice"), house("water")
	oldGold, kools, chesterfields, luckyStrike, parliaments := house("old_gold"), house("kools"), house("chesterfields"), house("lucky_strike"), house("parliaments")
	dog, snails, fox, horse, zebra := house("dog"), house("snails"), house("fox"), house("horse"), house("zebra")

	colors := []*fdcp.IntVar{red, green, ivory, yellow, blue}
	nations := []*fdcp.IntVar{english, spaniard, ukrainian, norwegian, japanese}
	drinks := []*fdcp.IntVar{coffee, tea, milk, orangeJuice, water}
	smokes := []*fdcp.IntVar{oldGold, kools, chesterfields, luckyStrike, parliaments}
	pets := []*fdcp.IntVar{dog, snails, fox, horse, zebra}
	for _, group := range [][]*fdcp.IntVar{colors, nations, drinks, smokes, pets} {
		s.AddConstraint(s.NewAllDifferent(group))
	}

	eq := func(a, b *fdcp.IntVar) { s.AddConstraint(s.NewEqual(a, b)) }
	rightOf := func(a, b *fdcp.IntVar) { eq(a, s.NewSum(b, s.NewIntConst(1, "")).Var()) } // a is immediately right of b
	nextTo := func(a, b *fdcp.IntVar) {
		s.AddConstraint(s.NewEqual(s.NewAbs(s.NewDifference(a, b)), s.NewIntConst(1, "")))
	}

	eq(english, red)
	eq(spaniard, dog)
	eq(coffee, green)
	eq(ukrainian, tea)
	rightOf(green, ivory)
	eq(oldGold, snails)
	eq(kools, yellow)
	eq(milk, s.NewIntConst(3, ""))
	eq(norwegian, s.NewIntConst(1, ""))
	nextTo(chesterfields, fox)
	nextTo(kools, horse)
	eq(luckyStrike, orangeJuice)
	eq(japanese, parliaments)
	nextTo(norwegian, blue)

	all := append(append(append(append(append([]*fdcp.IntVar{}, colors...), nations...), drinks...), smokes...), pets...)
	db := s.DefaultPhase(all)
	solveAndReport(s, db, []*fdcp.IntVar{water, zebra}, nil, true, timeLimit, logPeriod)
}

// --- Bin packing --------------------------------------------------------------

// binPackingWeights/binPackingCapacity/binPackingBins describe one fixed
// demo instance.
var binPackingWeights = []int64{4, 8, 1, 4, 2, 1, 6, 5, 7, 3}

const (
	binPackingCapacity = 10
	binPackingBins     = 5
)

func runBinPacking(n int, timeLimit time.Duration, logPeriod int64) {
	s := fdcp.NewSolver()
	items := len(binPackingWeights)
	bin := make([]*fdcp.IntVar, items)
	for i := range bin {
		bin[i] = s.NewIntVar(0, binPackingBins-1, fmt.Sprintf("bin%d", i))
	}

	// occ[i][k] is 1 iff item i is packed into bin k, linked to bin[i] via
	// a Table over the two-column relation {(k, 1)} union {(v, 0) : v !=
	// k}, exercising the extensional Table constraint for the reification
	// this model needs and NewAllDifferent/Cumulative does not provide.
	for k := 0; k < binPackingBins; k++ {
		occ := make([]*fdcp.IntVar, items)
		for i := range occ {
			occ[i] = s.NewBoolVar(fmt.Sprintf("occ%d_%d", i, k)).IntVar
			tuples := make([][]int64, 0, binPackingBins)
			for v := int64(0); v < binPackingBins; v++ {
				if int(v) == k {
					tuples = append(tuples, []int64{v, 1})
				} else {
					tuples = append(tuples, []int64{v, 0})
				}
			}
			s.AddConstraint(s.NewTable([]*fdcp.IntVar{bin[i], occ[i]}, tuples))
		}
		load := s.NewScalarProd(occ, binPackingWeights)
		s.AddConstraint(s.NewLessOrEqual(load, s.NewIntConst(binPackingCapacity, "")))
	}

	db := s.DefaultPhase(bin)
	solveAndReport(s, db, bin, nil, true, timeLimit, logPeriod)
}

// --- Cumulative job-shop ------------------------------------------------------

type jobShopOp struct {
	machine  int
	duration int64
}

// jobShopJobs is a small fixed 3-job/3-machine demo instance.
var jobShopJobs = [][]jobShopOp{
	{{machine: 0, duration: 3}, {machine: 1, duration: 2}, {machine: 2, duration: 2}},
	{{machine: 0, duration: 2}, {machine: 2, duration: 1}, {machine: 1, duration: 4}},
	{{machine: 1, duration: 4}, {machine: 2, duration: 3}, {machine: 0, duration: 2}},
}

func runJobShop(n int, timeLimit time.Duration, logPeriod int64) {
	s := fdcp.NewSolver()
	const horizon = 50
	const machines = 3

	var starts []*fdcp.IntVar
	var ends []*fdcp.IntVar
	byMachine := make([][]fdcp.NoOverlapInterval, machines)

	for j, ops := range jobShopJobs {
		var prevEnd *fdcp.IntVar
		for k, op := range ops {
			start := s.NewIntVar(0, horizon, fmt.Sprintf("j%d_op%d_start", j, k))
			dur := s.NewIntConst(op.duration, "")
			end := s.NewSum(start, dur).Var()
			if prevEnd != nil {
				s.AddConstraint(s.NewLessOrEqual(prevEnd, start))
			}
			byMachine[op.machine] = append(byMachine[op.machine], fdcp.NoOverlapInterval{Start: start, Duration: dur})
			starts = append(starts, start)
			ends = append(ends, end)
			prevEnd = end
		}
	}
	for m := 0; m < machines; m++ {
		s.AddConstraint(s.NewNoOverlap(byMachine[m]))
	}

	makespan := ends[0]
	for _, e := range ends[1:] {
		makespan = s.NewMax2(makespan, e).Var()
	}

	db := s.DefaultPhase(starts)
	solveAndReport(s, db, append(starts, makespan), makespan, true, timeLimit, logPeriod)
}
