// Package shell supervises the Command Center backend process from inside
// the desktop application shell. The hosting window framework delivers two
// lifecycle events; everything in between — locating the backend directory,
// spawning the service, and tearing it down with the window — lives here.
package shell

import (
	"context"
	"io"
	"log/slog"

	"github.com/cmdcenter/shell/internal/backend"
	"github.com/cmdcenter/shell/internal/config"
	"github.com/cmdcenter/shell/internal/instance"
	"github.com/cmdcenter/shell/internal/logger"
	"github.com/cmdcenter/shell/internal/supervisor"
)

// Re-export core types for embedding hosts. Aliases, so conversions are free.

type Spec = backend.Spec

type State = supervisor.State

type Status = supervisor.Status

const (
	StateIdle        = supervisor.StateIdle
	StateStarting    = supervisor.StateStarting
	StateRunning     = supervisor.StateRunning
	StateNoBackend   = supervisor.StateNoBackend
	StateTerminating = supervisor.StateTerminating
	StateTerminated  = supervisor.StateTerminated
)

var ErrStartupAlreadyHandled = supervisor.ErrStartupAlreadyHandled

// Supervisor is a thin facade over internal/supervisor, providing a stable
// surface for the hosting framework's lifecycle callbacks.
type Supervisor struct{ inner *supervisor.Supervisor }

// New builds a supervisor with the stock launch contract and the default
// logger. Suitable for hosts that carry no configuration of their own.
func New() *Supervisor { return NewWithConfig(config.Default(), slog.Default()) }

// NewWithConfig builds a supervisor from a loaded configuration.
func NewWithConfig(cfg *config.Config, log *slog.Logger) *Supervisor {
	opts := []supervisor.Option{supervisor.WithLogger(log)}
	if cfg.SingleInstance {
		opts = append(opts, supervisor.WithGuard(instance.NewGuard(cfg.LockPath, log)))
	}
	return &Supervisor{inner: supervisor.New(cfg.Backend, opts...)}
}

// HandleStartup is wired to the host's startup-complete event. All failures
// degrade to a window-only session; the only non-nil return is
// ErrStartupAlreadyHandled for a repeated delivery.
func (s *Supervisor) HandleStartup(ctx context.Context) error {
	return s.inner.HandleStartup(ctx)
}

// HandleWindowDestroyed is wired to the host's window-destroyed event. It
// blocks until the backend has exited (bounded) and never fails the host's
// shutdown.
func (s *Supervisor) HandleWindowDestroyed(ctx context.Context) {
	s.inner.HandleWindowDestroyed(ctx)
}

// Status returns a snapshot for the host UI.
func (s *Supervisor) Status() Status { return s.inner.Status() }

// LoadConfig reads the optional TOML configuration; an empty path returns
// the defaults.
func LoadConfig(path string) (*config.Config, error) { return config.Load(path) }

// NewDiagnosticLogger builds the slog logger for the diagnostic stream
// according to cfg, writing to w (normally os.Stderr).
func NewDiagnosticLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logger.New(cfg.Log, w)
}
