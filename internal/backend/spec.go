package backend

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/google/shlex"
)

// Launch contract for the bundled backend service. The values are fixed by
// convention between the shell and the backend; config may override them but
// the defaults are what a stock installation uses.
const (
	DefaultTool    = "uv"
	DefaultApp     = "main:app"
	DefaultHost    = "127.0.0.1"
	DefaultPort    = 8766
	DefaultDirName = "backend"

	// DefaultStopTimeout bounds the graceful-exit window on shutdown before
	// the terminator escalates to a forced kill.
	DefaultStopTimeout = 5 * time.Second
)

// Spec describes the backend invocation.
// A zero Spec is valid and launches the stock contract.
type Spec struct {
	Tool        string        `json:"tool"`         // launcher tool looked up on PATH
	Command     string        `json:"command"`      // optional full command override; bypasses Tool/App/Host/Port
	App         string        `json:"app"`          // ASGI application reference passed to the server
	Host        string        `json:"host"`         // loopback bind address
	Port        int           `json:"port"`         // fixed service port
	DirName     string        `json:"dir_name"`     // backend subdirectory name used by resolution
	Env         []string      `json:"env"`          // extra KEY=VALUE entries, applied last
	StopTimeout time.Duration `json:"stop_timeout"` // graceful-exit window on shutdown
}

// Normalized returns a copy with every empty field replaced by its contract
// default.
func (s Spec) Normalized() Spec {
	if s.Tool == "" {
		s.Tool = DefaultTool
	}
	if s.App == "" {
		s.App = DefaultApp
	}
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Port <= 0 {
		s.Port = DefaultPort
	}
	if s.DirName == "" {
		s.DirName = DefaultDirName
	}
	if s.StopTimeout <= 0 {
		s.StopTimeout = DefaultStopTimeout
	}
	return s
}

// Args returns the fixed argument vector passed to Tool.
func (s Spec) Args() []string {
	n := s.Normalized()
	return []string{"run", "uvicorn", n.App, "--host", n.Host, "--port", strconv.Itoa(n.Port)}
}

// Addr returns the host:port the backend is expected to serve on.
func (s Spec) Addr() string {
	n := s.Normalized()
	return n.Host + ":" + strconv.Itoa(n.Port)
}

// BuildCommand constructs the *exec.Cmd for this spec. When Command is set it
// is split shell-style into argv and used verbatim; otherwise the fixed
// Tool+Args contract applies. No shell is ever involved.
func (s Spec) BuildCommand() (*exec.Cmd, error) {
	n := s.Normalized()
	if n.Command != "" {
		parts, err := shlex.Split(n.Command)
		if err != nil {
			return nil, fmt.Errorf("parse command override: %w", err)
		}
		if len(parts) == 0 {
			return nil, fmt.Errorf("command override is empty")
		}
		// #nosec G204 -- operator-provided override from local config
		return exec.Command(parts[0], parts[1:]...), nil
	}
	// #nosec G204 -- fixed launch contract
	return exec.Command(n.Tool, n.Args()...), nil
}

// LookupTool verifies the launcher tool is present on PATH before any
// resolution or spawn work happens. A command override is exempt: its first
// token is validated by the spawn itself.
func LookupTool(s Spec) error {
	n := s.Normalized()
	if n.Command != "" {
		return nil
	}
	if _, err := exec.LookPath(n.Tool); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrToolNotFound, n.Tool, err)
	}
	return nil
}
