// Package instance guards against a second shell launch racing the first
// for the backend's fixed port. The guard is a kernel file lock: it carries
// no data, survives nothing, and a stale file on disk is harmless.
package instance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning means another shell instance holds the lock. The second
// instance runs window-only and leaves the backend to the first.
var ErrAlreadyRunning = errors.New("another shell instance is running")

// portProbeDelay lets the kernel fully release the probe listener before the
// backend tries to bind the same port.
const portProbeDelay = 10 * time.Millisecond

// Guard is the double-launch lock. Acquire is a single non-blocking attempt:
// a held lock means a live instance, and waiting for it would only delay the
// degraded (window-only) startup.
type Guard struct {
	fl  *flock.Flock
	log *slog.Logger
}

func NewGuard(lockPath string, log *slog.Logger) *Guard {
	if log == nil {
		log = slog.Default()
	}
	return &Guard{fl: flock.New(lockPath), log: log}
}

// Acquire takes the lock or reports ErrAlreadyRunning. The lock directory is
// created if missing.
func (g *Guard) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(g.fl.Path()), 0o750); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	locked, err := g.fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", g.fl.Path(), err)
	}
	if !locked {
		return fmt.Errorf("%w (lock %s held)", ErrAlreadyRunning, g.fl.Path())
	}
	return nil
}

// Release drops the lock. The file is intentionally left on disk: removing it
// could invalidate a lock a concurrently starting instance just acquired.
func (g *Guard) Release() {
	if err := g.fl.Close(); err != nil {
		g.log.Debug("release instance lock", "path", g.fl.Path(), "err", err)
	}
}

// PortBusy reports whether something already listens on addr. Used only for
// a startup warning; the backend surfaces its own bind failure either way.
func (g *Guard) PortBusy(addr string) bool {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return true
	}
	_ = l.Close()
	time.Sleep(portProbeDelay)
	return false
}

// DefaultLockPath places the lock under the user cache directory, falling
// back to the system temp dir when no cache dir is defined.
func DefaultLockPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "cmdcenter", "shell.lock")
}
