package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/scriptassoc/internal/binding"
	"github.com/vk/scriptassoc/internal/engine"
)

// DirectiveEngine is a fake engine whose behaviour is chosen by the first
// line of the script:
//
//	ok              succeed
//	fail <message>  return an error with message
//	block           wait until the context is cancelled
//	hang            wait for Release, ignoring the context
//	panic <value>   panic
type DirectiveEngine struct {
	Exts []string
	// Started receives the script path when evaluation starts, if set.
	Started chan string

	mu       sync.Mutex
	calls    []string
	handlers []*binding.Handler
	release  chan struct{}
	once     sync.Once
}

// NewDirectiveEngine creates a DirectiveEngine handling the "fake"
// extension.
func NewDirectiveEngine() *DirectiveEngine {
	return &DirectiveEngine{Exts: []string{"fake"}, release: make(chan struct{})}
}

// LanguageName implements engine.Engine.
func (e *DirectiveEngine) LanguageName() string { return "fake" }

// SupportedExtensions implements engine.Engine.
func (e *DirectiveEngine) SupportedExtensions() []string { return e.Exts }

// Evaluate implements engine.Engine.
func (e *DirectiveEngine) Evaluate(ctx context.Context, script engine.Script, b engine.Bindings) error {
	h, _ := b.Access()
	e.mu.Lock()
	e.calls = append(e.calls, filepath.Base(script.Path))
	e.handlers = append(e.handlers, h)
	e.mu.Unlock()
	if e.Started != nil {
		e.Started <- filepath.Base(script.Path)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(script.Source)), "\n")
	directive, arg, _ := strings.Cut(line, " ")
	switch directive {
	case "fail":
		return errors.New(arg)
	case "block":
		<-ctx.Done()
		return ctx.Err()
	case "hang":
		<-e.release
		return nil
	case "panic":
		panic(arg)
	}
	return nil
}

// Release unblocks every "hang" script.
func (e *DirectiveEngine) Release() {
	e.once.Do(func() { close(e.release) })
}

// Calls returns the base names of evaluated scripts in order.
func (e *DirectiveEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Handlers returns the access handlers passed to each evaluation.
func (e *DirectiveEngine) Handlers() []*binding.Handler {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*binding.Handler(nil), e.handlers...)
}

// Register implements engine.Module.
func (e *DirectiveEngine) Register(r *engine.Registry) {
	r.MustRegister(engine.Registration{
		Info: engine.Info{Name: "fake", Extensions: e.Exts},
		New:  func() engine.Engine { return e },
	})
}

// WriteScripts writes name->content files into a temp dir and returns the
// dir.
func WriteScripts(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range scripts {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}
