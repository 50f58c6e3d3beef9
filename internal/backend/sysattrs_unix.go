//go:build !windows

package backend

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr places the child in its own process group so the
// terminator can signal the whole tree. The backend is never detached: its
// lifetime must not exceed the shell's.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
