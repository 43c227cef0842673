package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/vk/scriptassoc/internal/ctxlog"
)

// Environment variables set for every interpreter process.
const (
	EnvBindings  = "CCDD_BINDINGS"
	EnvScript    = "CCDD_SCRIPT"
	EnvOutputDir = "CCDD_OUTPUT_DIR"
)

const (
	stderrTailSize   = 4096
	defaultWaitDelay = 2 * time.Second
)

// ProcessEngine runs scripts with an external interpreter. The access
// handler is written as a JSON snapshot to a temporary file whose path is
// passed in CCDD_BINDINGS; the script path is appended to Command.
type ProcessEngine struct {
	Language   string
	Extensions []string
	Command    []string
	// Env adds variables to the interpreter's environment.
	Env map[string]string
	// Output receives the interpreter's standard output and error. Nil
	// discards it.
	Output io.Writer
	// WaitDelay bounds how long to wait for output pipes after the
	// process is killed.
	WaitDelay time.Duration
}

// LanguageName implements Engine.
func (p *ProcessEngine) LanguageName() string { return p.Language }

// SupportedExtensions implements Engine.
func (p *ProcessEngine) SupportedExtensions() []string { return p.Extensions }

// Evaluate implements Engine.
func (p *ProcessEngine) Evaluate(ctx context.Context, script Script, bindings Bindings) error {
	if len(p.Command) == 0 {
		return fmt.Errorf("engine '%s' has no command", p.Language)
	}
	logger := ctxlog.FromContext(ctx)

	env := script.Environ()
	for k, v := range p.Env {
		env = append(env, k+"="+v)
	}
	env = append(env, EnvScript+"="+script.Path)

	if access, ok := bindings.Access(); ok {
		snapshot, err := os.CreateTemp("", "ccdd-bindings-*.json")
		if err != nil {
			return fmt.Errorf("create bindings file: %w", err)
		}
		defer func() { _ = os.Remove(snapshot.Name()) }()
		if err := access.Snapshot().WriteJSON(snapshot); err != nil {
			_ = snapshot.Close()
			return fmt.Errorf("write bindings file: %w", err)
		}
		if err := snapshot.Close(); err != nil {
			return fmt.Errorf("write bindings file: %w", err)
		}
		env = append(env, EnvBindings+"="+snapshot.Name(), EnvOutputDir+"="+access.OutputDir())
	}

	args := append(append([]string(nil), p.Command[1:]...), script.Path)
	cmd := exec.CommandContext(ctx, p.Command[0], args...)
	cmd.Env = env
	configureProcessGroup(cmd)
	cmd.WaitDelay = p.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = defaultWaitDelay
	}

	out := p.Output
	if out == nil {
		out = io.Discard
	}
	tail := &tailBuffer{max: stderrTailSize}
	cmd.Stdout = out
	cmd.Stderr = io.MultiWriter(out, tail)

	logger.Debug("Starting interpreter process.", "command", p.Command[0], "script", script.Path)
	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Warn("Interpreter process killed.", "script", script.Path)
		return ctxErr
	}
	if err == nil {
		return nil
	}

	msg := strings.TrimSpace(tail.String())
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && msg == "" {
		msg = exitErr.String()
	}
	if msg == "" {
		msg = err.Error()
	}
	return &ScriptRuntimeError{Path: script.Path, Message: msg, Err: err}
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
