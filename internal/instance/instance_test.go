package instance

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGuardExcludesSecondHolder(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "shell.lock")

	first := NewGuard(lockPath, discardLogger())
	require.NoError(t, first.Acquire(context.Background()))
	defer first.Release()

	second := NewGuard(lockPath, discardLogger())
	err := second.Acquire(context.Background())
	require.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestGuardReacquireAfterRelease(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "shell.lock")

	first := NewGuard(lockPath, discardLogger())
	require.NoError(t, first.Acquire(context.Background()))
	first.Release()

	second := NewGuard(lockPath, discardLogger())
	require.NoError(t, second.Acquire(context.Background()))
	second.Release()
}

func TestGuardCreatesLockDirectory(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "nested", "deeper", "shell.lock")
	g := NewGuard(lockPath, discardLogger())
	require.NoError(t, g.Acquire(context.Background()))
	g.Release()
}

func TestGuardHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGuard(filepath.Join(t.TempDir(), "shell.lock"), discardLogger())
	require.ErrorIs(t, g.Acquire(ctx), context.Canceled)
}

func TestPortBusy(t *testing.T) {
	g := NewGuard(filepath.Join(t.TempDir(), "shell.lock"), discardLogger())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	require.True(t, g.PortBusy(l.Addr().String()))

	free, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := free.Addr().String()
	require.NoError(t, free.Close())
	require.False(t, g.PortBusy(addr))
}
