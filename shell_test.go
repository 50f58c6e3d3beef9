package shell

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cmdcenter/shell/internal/config"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test requires sh/sleep on Unix-like systems")
	}
}

func TestNewStartsIdle(t *testing.T) {
	s := New()
	require.Equal(t, StateIdle, s.Status().State)
}

func TestFacadeLifecycle(t *testing.T) {
	requireUnix(t)
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "backend"), 0o755))
	chdir(t, base)

	cfg := config.Default()
	cfg.Backend.Command = "sleep 30"
	cfg.Backend.StopTimeout = 2 * time.Second
	cfg.LockPath = filepath.Join(base, "shell.lock")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := NewWithConfig(cfg, log)
	require.NoError(t, s.HandleStartup(context.Background()))
	st := s.Status()
	require.Equal(t, StateRunning, st.State)
	require.Greater(t, st.PID, 0)

	require.ErrorIs(t, s.HandleStartup(context.Background()), ErrStartupAlreadyHandled)

	s.HandleWindowDestroyed(context.Background())
	require.Equal(t, StateTerminated, s.Status().State)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.True(t, cfg.SingleInstance)
	require.Equal(t, "uv", cfg.Backend.Tool)
}
