package engine

import (
	"context"
	"os"
	"sort"

	"github.com/vk/scriptassoc/internal/binding"
)

// Script is one script file to evaluate.
type Script struct {
	Path   string
	Source []byte
	// Env is the environment the script sees. Nil means the process
	// environment.
	Env map[string]string
}

// Environ returns Env as sorted KEY=VALUE entries, or os.Environ() when
// Env is nil.
func (s Script) Environ() []string {
	if s.Env == nil {
		return os.Environ()
	}
	out := make([]string, 0, len(s.Env))
	for k, v := range s.Env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Bindings is the scope a script runs in, keyed by binding name.
type Bindings map[string]any

// Access returns the data access handler bound under binding.Name.
func (b Bindings) Access() (*binding.Handler, bool) {
	h, ok := b[binding.Name].(*binding.Handler)
	return h, ok
}

// Engine evaluates scripts of one language.
type Engine interface {
	LanguageName() string
	SupportedExtensions() []string
	Evaluate(ctx context.Context, script Script, bindings Bindings) error
}

// Info describes an installed engine.
type Info struct {
	Name        string
	Description string
	Version     string
	// Command is the interpreter invocation, empty for in-process engines.
	Command    []string
	Extensions []string
}
