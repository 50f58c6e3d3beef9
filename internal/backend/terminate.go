package backend

import (
	"fmt"
	"log/slog"
	"time"
)

// killDrainTimeout caps the wait for cmd.Wait to return after a forced kill
// (or after the process is found already gone). A killed process exits almost
// immediately, so this is a safety net against wedged I/O rather than a
// window anything is expected to use.
const killDrainTimeout = 10 * time.Second

// Terminate asks the process to exit and guarantees it is gone before
// returning: graceful signal, then a bounded grace window, then a forced kill
// of the whole process group, then a bounded drain of the wait result.
// Signal delivery failures are non-fatal; the wait step always runs.
//
// Worst case blocking is grace + killDrainTimeout.
func (h *Handle) Terminate(log *slog.Logger, grace time.Duration) error {
	if log == nil {
		log = slog.Default()
	}
	if grace <= 0 {
		grace = DefaultStopTimeout
	}

	if err := terminateProcess(h.pid); err != nil {
		// Usually the process already exited on its own. The monitor
		// goroutine still holds the real exit status; collect it.
		log.Warn("termination signal not delivered", "pid", h.pid, "err", err)
		ok, waitErr := h.drain(killDrainTimeout)
		if !ok {
			return fmt.Errorf("backend pid %d: wait did not return after signal failure", h.pid)
		}
		return expectSignalExit(waitErr)
	}

	// Escalate to a forced kill if the grace window elapses. Canceled when
	// the process exits first.
	killTimer := time.AfterFunc(grace, func() {
		_ = killProcess(h.pid)
	})
	defer killTimer.Stop()

	total := time.NewTimer(grace + killDrainTimeout)
	defer total.Stop()

	select {
	case err := <-h.done:
		return expectSignalExit(err)
	case <-total.C:
		_ = killProcess(h.pid)
		ok, waitErr := h.drain(killDrainTimeout)
		if !ok {
			return fmt.Errorf("backend pid %d: wait did not return after kill", h.pid)
		}
		if err := expectSignalExit(waitErr); err != nil {
			return fmt.Errorf("backend stop timeout: %w", err)
		}
		return nil
	}
}

// drain reads the wait result with a hard upper bound. The done channel is
// closed after delivering its single value, so a second read returns
// immediately with nil.
func (h *Handle) drain(timeout time.Duration) (bool, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case err := <-h.done:
		return true, err
	case <-t.C:
		return false, nil
	}
}
