package backend

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Launcher spawns the backend process. It does not wait for the service to
// become ready and does not capture its output; the process is handed to the
// caller as a Handle the moment the OS spawn succeeds.
type Launcher struct {
	log *slog.Logger
}

func NewLauncher(log *slog.Logger) *Launcher {
	if log == nil {
		log = slog.Default()
	}
	return &Launcher{log: log}
}

// Launch spawns the spec's command with dir as the working directory.
// On any failure no handle exists and nothing needs cleanup.
func (l *Launcher) Launch(spec Spec, dir string) (*Handle, error) {
	cmd, err := spec.BuildCommand()
	if err != nil {
		return nil, err
	}
	cmd.Dir = dir
	cmd.Env = mergedEnv(l.log, dir, spec.Env)
	configureSysProcAttr(cmd)

	// The backend owns its own logging; the shell deliberately discards the
	// child's stdio rather than streaming it.
	null, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err == nil {
		cmd.Stdout = null
		cmd.Stderr = null
	}

	if err := cmd.Start(); err != nil {
		if null != nil {
			_ = null.Close()
		}
		return nil, fmt.Errorf("spawn %s: %w", cmd.Path, err)
	}
	h := newHandle(cmd)
	l.log.Info("backend started", "pid", h.PID(), "dir", dir)
	return h, nil
}

// mergedEnv composes the child environment: OS env as the base, then the
// backend's own .env file when present, then explicit spec entries. Later
// sources win.
func mergedEnv(log *slog.Logger, dir string, extra []string) []string {
	m := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			m[kv[:i]] = kv[i+1:]
		}
	}
	dotenv := filepath.Join(dir, ".env")
	if _, err := os.Stat(dotenv); err == nil {
		vars, err := godotenv.Read(dotenv)
		if err != nil {
			log.Warn("skipping unparseable .env", "path", dotenv, "err", err)
		} else {
			for k, v := range vars {
				m[k] = v
			}
		}
	}
	for _, kv := range extra {
		if i := strings.IndexByte(kv, '='); i > 0 {
			m[kv[:i]] = kv[i+1:]
		}
	}
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	return out
}
