package fdcp

// queue.go: the propagation queue (spec.md §4.C). Three FIFOs, one per
// DemonPriority, drained highest-priority-first; within one priority,
// strict FIFO order. Grounded on the retrieval pack's SAT-solver
// propagation queue (a single Literal FIFO drained to a fixed point) and
// specialized here into three priority classes per spec.md.

// PropQueue holds the demons waiting to run during the current
// propagation pass.
type PropQueue struct {
	fifos [3][]Demon // indexed by DemonPriority
}

// NewPropQueue creates an empty propagation queue.
func NewPropQueue() *PropQueue {
	return &PropQueue{}
}

// Enqueue appends d to its priority's FIFO, unless it is already
// inhibited (a demon enqueued earlier may have been disabled since;
// runDemon re-checks when it is popped, this is just an early skip).
func (q *PropQueue) Enqueue(d Demon) {
	if d.Inhibited() {
		return
	}
	p := d.Priority()
	q.fifos[p] = append(q.fifos[p], d)
}

// Empty reports whether every FIFO has drained.
func (q *PropQueue) Empty() bool {
	for i := range q.fifos {
		if len(q.fifos[i]) > 0 {
			return false
		}
	}
	return true
}

// Dequeue pops the next demon to run: highest priority first (Normal
// before Variable before Delayed — spec.md §4.C step 1 "pop highest
// priority non-empty FIFO"), FIFO order within a priority. Returns nil if
// every FIFO is empty.
func (q *PropQueue) Dequeue() Demon {
	for p := 0; p < len(q.fifos); p++ {
		if len(q.fifos[p]) == 0 {
			continue
		}
		d := q.fifos[p][0]
		q.fifos[p] = q.fifos[p][1:]
		return d
	}
	return nil
}

// Clear empties all FIFOs. Nothing in the engine calls it: demons still
// queued when a pass fails stay queued and run in the next pass.
func (q *PropQueue) Clear() {
	for i := range q.fifos {
		q.fifos[i] = q.fifos[i][:0]
	}
}
