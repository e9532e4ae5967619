package fdcp

import "fmt"

// precedence.go: the precedence / difference-constraint propagator
// (spec.md §4.E). A PrecedenceGraph holds arcs of the form
// "tail + offset <= head" (with an optional offset variable and an
// optional presence literal gating an optional arc). Propagation is a
// queue-based Bellman-Ford relaxation; a Tarjan-style subtree
// disassembly detects positive cycles in amortized time by tracking, for
// each node, which arc last tightened its bound (its parent in the
// current shortest-path forest) and walking that forest's children when
// a node is about to be retightened.
//
// Grounded on the teacher's fd_ineq.go for the offset/inequality
// constraint shape (min/max propagation through a fixed or variable
// offset), and on the retrieval pack's graph repo's adjacency-list and
// visited/parent-slice conventions for the relaxation queue itself.

// PrecedenceArc is one edge "Tail + Offset(+OffsetVar) <= Head", active
// unconditionally unless Presence is non-nil.
type PrecedenceArc struct {
	Tail, Head *IntVar
	Offset     int64
	OffsetVar  *IntVar // nil if Offset is a fixed constant
	Presence   *BoolVar // nil if the arc is always active
}

func (a *PrecedenceArc) offset() int64 {
	if a.OffsetVar != nil {
		return a.OffsetVar.Min()
	}
	return a.Offset
}

func (a *PrecedenceArc) String() string {
	return fmt.Sprintf("%s+%d<=%s", a.Tail, a.offset(), a.Head)
}

// active reports whether this arc currently contributes to propagation:
// always true when unconditional, true when the presence literal is
// bound true, and false otherwise (bound false or still unbound).
func (a *PrecedenceArc) active() bool {
	return a.Presence == nil || a.Presence.IsTrue()
}

// PrecedenceGraph is the adjacency list over precedence arcs, keyed by
// each arc's tail variable.
type PrecedenceGraph struct {
	arcs []*PrecedenceArc
	out  map[int][]int // tail var ID -> indices into arcs
}

// NewPrecedenceGraph creates an empty precedence graph.
func NewPrecedenceGraph() *PrecedenceGraph {
	return &PrecedenceGraph{out: make(map[int][]int)}
}

// AddArc records "tail + offset <= head", optionally through a variable
// offset and/or gated by a presence literal. Only this forward arc is
// stored, and propagation over it raises min(head); no reverse
// upper-bound arc is added, so max(tail) is not tightened by it.
func (g *PrecedenceGraph) AddArc(tail, head *IntVar, offset int64, offsetVar *IntVar, presence *BoolVar) {
	idx := len(g.arcs)
	g.arcs = append(g.arcs, &PrecedenceArc{Tail: tail, Head: head, Offset: offset, OffsetVar: offsetVar, Presence: presence})
	g.out[tail.ID()] = append(g.out[tail.ID()], idx)
	if _, ok := g.out[head.ID()]; !ok {
		g.out[head.ID()] = nil
	}
}

type precedenceConstraint struct {
	baseConstraint
	graph *PrecedenceGraph
}

// NewPrecedence returns the constraint that every arc in graph holds:
// tail + offset <= head for each registered arc, failing on a positive
// cycle among fixed-offset arcs.
func (s *Solver) NewPrecedence(graph *PrecedenceGraph) Constraint {
	vars := make([]*IntVar, 0, len(graph.arcs)*2)
	for _, a := range graph.arcs {
		vars = append(vars, a.Tail, a.Head)
	}
	return &precedenceConstraint{baseConstraint: baseConstraint{kind: "precedence", vars: vars}, graph: graph}
}

func (c *precedenceConstraint) Post(s *Solver) {
	d := NewDemon(PriorityNormal, func(sv *Solver) { c.propagate(sv) })
	seen := make(map[int]bool)
	for _, a := range c.graph.arcs {
		for _, v := range []*IntVar{a.Tail, a.Head} {
			if !seen[v.ID()] {
				seen[v.ID()] = true
				v.WhenRange(d)
			}
		}
		if a.OffsetVar != nil && !seen[a.OffsetVar.ID()] {
			seen[a.OffsetVar.ID()] = true
			a.OffsetVar.WhenRange(d)
		}
		if a.Presence != nil && !seen[a.Presence.ID()] {
			seen[a.Presence.ID()] = true
			a.Presence.WhenBound(d)
		}
	}
}

func (c *precedenceConstraint) InitialPropagate(s *Solver) { c.propagate(s) }

func (c *precedenceConstraint) String() string {
	return fmt.Sprintf("precedence(%d arcs)", len(c.graph.arcs))
}

// propagate runs one full Bellman-Ford-style relaxation pass to a fixed
// point, rebuilding the shortest-path forest (parent/children) from
// scratch each time it is invoked — every arc's current offset and
// activity are re-read from the live domains, so a stale forest is never
// trusted across propagation passes.
func (c *precedenceConstraint) propagate(s *Solver) {
	g := c.graph
	parent := make(map[int]*PrecedenceArc, len(g.arcs))
	children := make(map[int][]int, len(g.arcs))

	queue := make([]int, 0, len(g.out))
	inQueue := make(map[int]bool, len(g.out))
	for tailID := range g.out {
		queue = append(queue, tailID)
		inQueue[tailID] = true
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		inQueue[u] = false

		for _, idx := range g.out[u] {
			arc := g.arcs[idx]

			if arc.Presence != nil && arc.Presence.IsBound() && arc.Presence.IsFalse() {
				continue
			}

			offset := arc.offset()
			newMin := CapAdd(arc.Tail.Min(), offset)

			if newMin > arc.Head.Max() {
				// This arc cannot hold. If it is still optional, resolve the
				// literal to false instead of failing outright (spec.md
				// §4.E: "the propagator performs that assignment instead
				// of failing").
				if arc.Presence != nil && !arc.Presence.IsBound() {
					arc.Presence.SetFalse()
					continue
				}
				fail("fdcp: precedence arc %s is unsatisfiable (tail min %d + offset %d > head max %d)",
					arc, arc.Tail.Min(), offset, arc.Head.Max())
			}

			if arc.Presence != nil && !arc.Presence.IsBound() {
				// Tentatively inactive until resolved true; don't tighten yet.
				continue
			}

			if newMin <= arc.Head.Min() {
				continue
			}

			if arc.Head.ID() == arc.Tail.ID() {
				fail("fdcp: precedence self-loop with positive offset on %s", arc.Tail)
			}
			if subtreeContains(children, arc.Head.ID(), arc.Tail.ID()) {
				fail("fdcp: precedence positive cycle through %s", arc)
			}

			// Disassemble Head's current subtree: every descendant's bound
			// was justified by a forest rooted here, which is about to
			// change, so push them back onto the relax queue.
			disassemble(children, arc.Head.ID(), &queue, inQueue)

			if old, ok := parent[arc.Head.ID()]; ok {
				detachChild(children, old.Tail.ID(), arc.Head.ID())
			}
			parent[arc.Head.ID()] = arc
			children[arc.Tail.ID()] = append(children[arc.Tail.ID()], arc.Head.ID())

			arc.Head.SetMin(newMin)

			if !inQueue[arc.Head.ID()] {
				queue = append(queue, arc.Head.ID())
				inQueue[arc.Head.ID()] = true
			}
		}
	}
}

// subtreeContains reports whether target appears in root's subtree
// (root included) of the current shortest-path forest — root depending
// on target would close a positive cycle once root's bound is
// retightened through the arc from target.
func subtreeContains(children map[int][]int, root, target int) bool {
	if root == target {
		return true
	}
	stack := append([]int(nil), children[root]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		stack = append(stack, children[n]...)
	}
	return false
}

// disassemble walks root's subtree (excluding root itself) and re-queues
// every descendant for relaxation, since their justification is about to
// be replaced.
func disassemble(children map[int][]int, root int, queue *[]int, inQueue map[int]bool) {
	stack := append([]int(nil), children[root]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !inQueue[n] {
			*queue = append(*queue, n)
			inQueue[n] = true
		}
		stack = append(stack, children[n]...)
	}
}

func detachChild(children map[int][]int, parentID, childID int) {
	kids := children[parentID]
	for i, k := range kids {
		if k == childID {
			children[parentID] = append(kids[:i], kids[i+1:]...)
			return
		}
	}
}
