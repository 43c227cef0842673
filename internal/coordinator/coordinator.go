// Package coordinator runs batches of associations: it resolves members,
// loads tables once per batch, dispatches each script, and supports
// cancellation from a progress surface.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vk/scriptassoc/internal/assoc"
	"github.com/vk/scriptassoc/internal/binding"
	"github.com/vk/scriptassoc/internal/ctxlog"
	"github.com/vk/scriptassoc/internal/engine"
	"github.com/vk/scriptassoc/internal/envexpand"
	"github.com/vk/scriptassoc/internal/eventlog"
	"github.com/vk/scriptassoc/internal/loader"
	"github.com/vk/scriptassoc/internal/progress"
	"github.com/vk/scriptassoc/internal/resolver"
)

// DefaultHaltGrace is how long a cancelled batch waits for its worker.
const DefaultHaltGrace = 5 * time.Second

// FailureTitle is the sink title used for per-association failures.
const FailureTitle = "Script Error"

// Store is everything the coordinator reads from the project.
type Store interface {
	loader.TableStore
	resolver.GroupStore
	resolver.TableTree
	Metadata(ctx context.Context) (*binding.Metadata, error)
}

// Config holds the coordinator's collaborators.
type Config struct {
	Store     Store
	Registry  *engine.Registry
	Overrides envexpand.Overrides
	// Progress may be nil.
	Progress progress.Surface
	// Sink may be nil.
	Sink      eventlog.Sink
	OutputDir string
	HaltGrace time.Duration
	// Now stamps the access handlers; nil means time.Now.
	Now func() time.Time
}

// Coordinator executes batches one at a time.
type Coordinator struct {
	cfg   Config
	mu    sync.Mutex
	state atomic.Int32
}

// New creates a Coordinator.
func New(cfg Config) *Coordinator {
	if cfg.Progress == nil {
		cfg.Progress = progress.Nop{}
	}
	if cfg.HaltGrace <= 0 {
		cfg.HaltGrace = DefaultHaltGrace
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Coordinator{cfg: cfg}
}

// State returns the state of the current or last batch.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

func (c *Coordinator) setState(s State) {
	c.state.Store(int32(s))
}

// Start runs assns in the background and delivers the result on the
// returned channel. A batch started while another is running waits for it
// to reach a terminal state.
func (c *Coordinator) Start(ctx context.Context, assns []assoc.Association) <-chan *Result {
	out := make(chan *Result, 1)
	go func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		out <- c.runBatch(ctx, assns)
	}()
	return out
}

// Run runs assns and waits for the result.
func (c *Coordinator) Run(ctx context.Context, assns []assoc.Association) *Result {
	return <-c.Start(ctx, assns)
}

// runBatch starts the worker and acts as its watchdog.
func (c *Coordinator) runBatch(ctx context.Context, assns []assoc.Association) *Result {
	batchID := uuid.NewString()
	ctx, logger := ctxlog.With(ctx, "batch", batchID)
	logger.Info("Starting batch.", "associations", len(assns))

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	tr := newTracker(assns)
	gate := &phaseGate{store: c.setState}
	w := &worker{cfg: &c.cfg, tracker: tr, assns: assns, setState: gate.advance}
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		w.run(batchCtx)
	}()

	result := &Result{BatchID: batchID, State: Completed}
	halted := false
	select {
	case <-workerDone:
	case <-c.cfg.Progress.OnCancelRequested():
		logger.Warn("Cancel requested, halting batch.", "completed", tr.completed())
		halted = true
	case <-ctx.Done():
		logger.Warn("Context cancelled, halting batch.", "completed", tr.completed())
		halted = true
	}

	if halted {
		tr.freeze()
		cancel()
		timer := time.NewTimer(c.cfg.HaltGrace)
		select {
		case <-workerDone:
			timer.Stop()
		case <-timer.C:
			result.Abandoned = true
			logger.Warn("Script worker did not stop after cancellation and was abandoned; restart recommended.", "grace", c.cfg.HaltGrace)
		}
	} else if tr.freeze() > 0 {
		// The worker stopped early because ctx was cancelled.
		halted = true
	}
	if halted {
		result.State = Cancelled
	}
	gate.finish(result.State)

	result.Outcomes = tr.snapshot()
	for _, o := range result.Outcomes {
		if o.Err != nil {
			c.logFailure(o)
		}
	}
	logger.Info("Batch finished.", "state", result.State, "failed", result.Failed(), "total", len(result.Outcomes))
	return result
}

func (c *Coordinator) logFailure(o Outcome) {
	if c.cfg.Sink == nil {
		return
	}
	c.cfg.Sink.LogFailure(FailureTitle, fmt.Sprintf(
		"Cannot execute script '%s' using table(s) '%s'; cause '%s'",
		o.Association.ScriptPath, assoc.DisplayMembers(o.Association.Members), cause(o.Err)))
}

// cause renders err for users. Script failures show the interpreter's
// message only.
func cause(err error) string {
	var rtErr *engine.ScriptRuntimeError
	if errors.As(err, &rtErr) {
		return rtErr.Message
	}
	return err.Error()
}
