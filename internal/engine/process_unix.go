//go:build unix

package engine

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the interpreter in a new process group and
// makes cancellation kill the whole group, so children it spawned die too.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
