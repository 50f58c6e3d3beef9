package backend

import (
	"os/exec"
	"sync"
	"time"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// Handle is the live reference to a spawned backend process. Exactly one
// goroutine calls cmd.Wait (started at creation); everyone else observes the
// exit through the done channel.
type Handle struct {
	pid       int
	cmd       *exec.Cmd
	done      chan error // delivers the single cmd.Wait result, then is closed
	startedAt time.Time
}

func newHandle(cmd *exec.Cmd) *Handle {
	h := &Handle{
		pid:       cmd.Process.Pid,
		cmd:       cmd,
		done:      make(chan error, 1),
		startedAt: time.Now(),
	}
	go func() {
		h.done <- cmd.Wait()
		close(h.done)
	}()
	return h
}

// PID returns the OS process identifier, for diagnostics.
func (h *Handle) PID() int { return h.pid }

// StartedAt returns the spawn time.
func (h *Handle) StartedAt() time.Time { return h.startedAt }

// Alive reports whether the process still exists.
func (h *Handle) Alive() bool {
	ok, err := gopsproc.PidExists(int32(h.pid))
	return err == nil && ok
}

// Slot is the shared single-slot container for the process handle. It moves
// through empty -> occupied at most once (successful spawn) and
// occupied -> empty at most once (shutdown). After Take the slot is sealed:
// a late or repeated startup can never store a second handle.
type Slot struct {
	mu     sync.Mutex
	h      *Handle
	stored bool
	taken  bool
}

// Put stores the handle. It reports false, leaving the slot untouched, if a
// handle was already stored this run or the slot has been consumed.
func (s *Slot) Put(h *Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stored || s.taken {
		return false
	}
	s.h = h
	s.stored = true
	return true
}

// Take removes and returns the handle, transferring ownership to the caller.
// It returns nil when the slot is empty. The slot stays empty afterwards for
// the remainder of the run.
func (s *Slot) Take() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.h
	s.h = nil
	s.taken = true
	return h
}

// Peek returns the current handle without removing it, for status snapshots.
func (s *Slot) Peek() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h
}
