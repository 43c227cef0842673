package coordinator

import (
	"errors"

	"github.com/vk/scriptassoc/internal/assoc"
)

// State is the coordinator's position in a batch.
type State int32

const (
	// Idle means no batch is running.
	Idle State = iota
	// Loading means members are being resolved and tables loaded.
	Loading
	// Executing means scripts are being dispatched.
	Executing
	// Completed means every association was attempted.
	Completed
	// Cancelled means the batch was halted before finishing.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Executing:
		return "executing"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// ErrHalted is the cause recorded for associations that had not finished
// when the batch was cancelled.
var ErrHalted = errors.New("execution halted by user")

// Outcome is the result of one association in a batch.
type Outcome struct {
	Association assoc.Association
	// Err is nil when the script ran successfully.
	Err error
}

// Succeeded reports whether the association ran successfully.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Halted reports whether the association was cut short by cancellation.
func (o Outcome) Halted() bool {
	return errors.Is(o.Err, ErrHalted)
}

// Result is the terminal state of a batch.
type Result struct {
	BatchID  string
	State    State
	Outcomes []Outcome
	// Abandoned is set when the worker did not stop within the halt grace
	// period and was left running.
	Abandoned bool
}

// Failed returns the number of unsuccessful outcomes.
func (r *Result) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			n++
		}
	}
	return n
}
