// Package shell registers POSIX shell scripts as an interpreter-backed
// engine. Scripts read their bindings from the JSON file named by
// $CCDD_BINDINGS.
package shell

import (
	"io"
	"os"
	"os/exec"

	"github.com/vk/scriptassoc/internal/engine"
)

// Module implements the engine.Module interface for this package.
type Module struct {
	// Interpreter overrides the shell binary. Empty means /bin/sh.
	Interpreter string
	// Output receives the script's standard output and error.
	Output io.Writer
}

// Register registers the shell engine when an interpreter is available.
func (m *Module) Register(r *engine.Registry) {
	interp := m.Interpreter
	if interp == "" {
		interp = "/bin/sh"
	}
	if _, err := exec.LookPath(interp); err != nil {
		return
	}
	out := m.Output
	if out == nil {
		out = os.Stdout
	}
	info := engine.Info{
		Name:        "shell",
		Description: "POSIX shell",
		Command:     []string{interp},
		Extensions:  []string{"sh"},
	}
	r.MustRegister(engine.Registration{
		Info: info,
		New: func() engine.Engine {
			return &engine.ProcessEngine{
				Language:   info.Name,
				Extensions: info.Extensions,
				Command:    info.Command,
				Output:     out,
			}
		},
	})
}
