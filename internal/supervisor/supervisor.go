package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cmdcenter/shell/internal/backend"
	"github.com/cmdcenter/shell/internal/instance"
)

// State of the lifecycle coordinator. Transitions are one-way within a run:
// Idle -> Starting -> Running | NoBackend, then -> Terminating -> Terminated.
type State string

const (
	StateIdle        State = "idle"
	StateStarting    State = "starting"
	StateRunning     State = "running"
	StateNoBackend   State = "no-backend"
	StateTerminating State = "terminating"
	StateTerminated  State = "terminated"
)

// ErrStartupAlreadyHandled is returned when the startup event is delivered
// more than once. The second delivery performs no work; the occupied slot is
// never overwritten.
var ErrStartupAlreadyHandled = errors.New("startup already handled")

// Status is an in-memory snapshot for the host UI.
type Status struct {
	State     State     `json:"state"`
	PID       int       `json:"pid"`
	Dir       string    `json:"dir"`
	StartedAt time.Time `json:"started_at"`
	Err       error     `json:"-"`
}

// Supervisor drives the backend process lifetime from the two host lifecycle
// events. Each instance owns its slot; nothing here is process-global, so
// tests construct isolated supervisors freely.
type Supervisor struct {
	spec     backend.Spec
	launcher *backend.Launcher
	guard    *instance.Guard // optional double-launch guard
	log      *slog.Logger

	mu      sync.Mutex
	state   State
	slot    backend.Slot
	dir     string
	lastErr error
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithGuard installs a double-launch guard acquired during startup and
// released after termination.
func WithGuard(g *instance.Guard) Option {
	return func(s *Supervisor) { s.guard = g }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Supervisor) { s.log = log }
}

func New(spec backend.Spec, opts ...Option) *Supervisor {
	s := &Supervisor{
		spec:  spec.Normalized(),
		state: StateIdle,
		log:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	s.launcher = backend.NewLauncher(s.log)
	return s
}

// HandleStartup reacts to the host's startup-complete event. It resolves the
// backend directory, spawns the service, and stores the handle. Every failure
// degrades to NoBackend: a warning or error is logged, nil is returned, and
// the host's own startup continues unaffected. The only non-nil return is
// ErrStartupAlreadyHandled for a repeated delivery.
func (s *Supervisor) HandleStartup(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		st := s.state
		s.mu.Unlock()
		s.log.Warn("ignoring repeated startup event", "state", string(st))
		return ErrStartupAlreadyHandled
	}
	s.state = StateStarting
	s.mu.Unlock()

	s.log.Info("backend supervisor starting", "addr", s.spec.Addr())

	if s.guard != nil {
		if err := s.guard.Acquire(ctx); err != nil {
			s.degrade("another instance already manages the backend", err)
			return nil
		}
		if s.guard.PortBusy(s.spec.Addr()) {
			// Advisory only: a manually started backend is allowed to hold
			// the port, and the child reports its own bind failures.
			s.log.Warn("backend port already in use", "addr", s.spec.Addr())
		}
	}

	if err := backend.LookupTool(s.spec); err != nil {
		s.degrade("launcher tool missing; start the backend manually", err)
		return nil
	}

	dir, err := backend.Resolve(s.spec.DirName)
	if err != nil {
		s.degrade("backend directory not found; start the backend manually", err)
		return nil
	}
	s.log.Info("backend directory resolved", "dir", dir)

	h, err := s.launcher.Launch(s.spec, dir)
	if err != nil {
		s.degrade("backend spawn failed", err)
		return nil
	}

	s.mu.Lock()
	if !s.slot.Put(h) {
		// Unreachable through the state machine; terminate rather than leak.
		s.mu.Unlock()
		s.log.Error("handle slot already occupied, terminating duplicate", "pid", h.PID())
		_ = h.Terminate(s.log, s.spec.StopTimeout)
		return nil
	}
	s.state = StateRunning
	s.dir = dir
	s.mu.Unlock()
	return nil
}

// HandleWindowDestroyed reacts to the host's window-destroyed event: it takes
// sole ownership of the handle, requests termination, and blocks until the
// process has exited (bounded by the stop timeout plus the kill drain).
// With no backend under management it is a no-op. Cleanup failures are logged
// and never abort the host's shutdown.
func (s *Supervisor) HandleWindowDestroyed(_ context.Context) {
	s.mu.Lock()
	switch s.state {
	case StateTerminating, StateTerminated:
		s.mu.Unlock()
		s.log.Warn("ignoring repeated window-destroyed event")
		return
	case StateRunning:
		s.state = StateTerminating
	default:
		s.state = StateTerminated
		s.mu.Unlock()
		s.releaseGuard()
		s.log.Info("no backend to stop")
		return
	}
	h := s.slot.Take()
	s.mu.Unlock()

	if h != nil {
		s.log.Info("stopping backend", "pid", h.PID())
		if err := h.Terminate(s.log, s.spec.StopTimeout); err != nil {
			s.log.Error("backend termination", "pid", h.PID(), "err", err)
		} else {
			s.log.Info("backend stopped", "pid", h.PID())
		}
	}

	s.mu.Lock()
	s.state = StateTerminated
	s.mu.Unlock()
	s.releaseGuard()
}

func (s *Supervisor) releaseGuard() {
	if s.guard != nil {
		s.guard.Release()
	}
}

// degrade records a startup failure and settles into NoBackend. The window
// keeps running; the later window-destroyed event will find nothing to do.
func (s *Supervisor) degrade(msg string, err error) {
	s.mu.Lock()
	s.state = StateNoBackend
	s.lastErr = err
	s.mu.Unlock()
	if errors.Is(err, backend.ErrNoBackendDir) || errors.Is(err, backend.ErrToolNotFound) || errors.Is(err, instance.ErrAlreadyRunning) {
		s.log.Warn(msg, "err", err)
	} else {
		s.log.Error(msg, "err", err)
	}
	s.log.Info("continuing without a managed backend", "hint", "cd backend && uv run uvicorn main:app --port 8766")
}

// Status returns a snapshot of the coordinator.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{State: s.state, Dir: s.dir, Err: s.lastErr}
	if h := s.slot.Peek(); h != nil {
		st.PID = h.PID()
		st.StartedAt = h.StartedAt()
	}
	return st
}
