//go:build !windows

package backend

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

// terminateProcess sends SIGTERM to the child's process group so helper
// processes spawned by the tool (uv forks the actual server) receive it too.
func terminateProcess(pid int) error {
	return syscall.Kill(-pid, syscall.SIGTERM)
}

// killProcess sends SIGKILL to the process group.
func killProcess(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}

// expectSignalExit interprets a cmd.Wait error after a termination request.
// Deaths by SIGTERM or SIGKILL are the intended outcome, not failures.
func expectSignalExit(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if sig := ws.Signal(); sig == syscall.SIGTERM || sig == syscall.SIGKILL {
				return nil
			}
			// A clean exit triggered by the graceful signal is fine as well.
			if ws.Exited() && ws.ExitStatus() == 0 {
				return nil
			}
		}
	}
	return fmt.Errorf("backend exit: %w", err)
}
