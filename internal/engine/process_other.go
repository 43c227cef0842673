//go:build !unix

package engine

import "os/exec"

// configureProcessGroup keeps the default behaviour: cancellation kills the
// interpreter process.
func configureProcessGroup(*exec.Cmd) {}
