package coordinator

import (
	"sync"

	"github.com/vk/scriptassoc/internal/assoc"
)

// tracker holds the outcomes of a batch. Once frozen, later records from
// a worker that is still winding down are ignored.
type tracker struct {
	mu       sync.Mutex
	outcomes []Outcome
	final    []bool
	frozen   bool
	done     int
}

func newTracker(assns []assoc.Association) *tracker {
	t := &tracker{
		outcomes: make([]Outcome, len(assns)),
		final:    make([]bool, len(assns)),
	}
	for i, a := range assns {
		t.outcomes[i].Association = a
	}
	return t
}

// record finalizes association i. It returns false when the outcome was
// already final or the tracker is frozen.
func (t *tracker) record(i int, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen || t.final[i] {
		return false
	}
	t.outcomes[i].Err = err
	t.final[i] = true
	t.done++
	return true
}

// freeze marks every unfinished association as halted and stops further
// recording. It returns how many associations it halted.
func (t *tracker) freeze() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		return 0
	}
	n := 0
	for i := range t.outcomes {
		if !t.final[i] {
			t.outcomes[i].Err = ErrHalted
			t.final[i] = true
			n++
		}
	}
	t.frozen = true
	return n
}

func (t *tracker) completed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *tracker) snapshot() []Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Outcome(nil), t.outcomes...)
}

// phaseGate forwards a batch's phase changes to the coordinator until the
// watchdog stores the terminal state. The check and the store happen under
// one lock, so a worker left running cannot overwrite the terminal state.
type phaseGate struct {
	mu     sync.Mutex
	closed bool
	store  func(State)
}

func (g *phaseGate) advance(s State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		g.store(s)
	}
}

func (g *phaseGate) finish(s State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.store(s)
}
