package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cmdcenter/shell/internal/backend"
)

func TestDefaultMatchesLaunchContract(t *testing.T) {
	cfg := Default()
	require.Equal(t, backend.DefaultTool, cfg.Backend.Tool)
	require.Equal(t, backend.DefaultApp, cfg.Backend.App)
	require.Equal(t, backend.DefaultHost, cfg.Backend.Host)
	require.Equal(t, backend.DefaultPort, cfg.Backend.Port)
	require.Equal(t, backend.DefaultDirName, cfg.Backend.DirName)
	require.Equal(t, backend.DefaultStopTimeout, cfg.Backend.StopTimeout)
	require.True(t, cfg.SingleInstance)
	require.NotEmpty(t, cfg.LockPath)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.toml")
	data := `
single_instance = false
lock_path = "/tmp/cc-test.lock"

[backend]
tool = "uvx"
host = "0.0.0.0"
port = 9000
dir_name = "server"
stop_timeout = "7s"
env = ["CC_MODE=dev"]

[log]
level = "debug"
file = "shell.log"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "uvx", cfg.Backend.Tool)
	require.Equal(t, "0.0.0.0", cfg.Backend.Host)
	require.Equal(t, 9000, cfg.Backend.Port)
	require.Equal(t, "server", cfg.Backend.DirName)
	require.Equal(t, 7*time.Second, cfg.Backend.StopTimeout)
	require.Equal(t, []string{"CC_MODE=dev"}, cfg.Backend.Env)
	// Unset fields still fall back to the contract defaults.
	require.Equal(t, backend.DefaultApp, cfg.Backend.App)

	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "shell.log", cfg.Log.File)
	require.False(t, cfg.SingleInstance)
	require.Equal(t, "/tmp/cc-test.lock", cfg.LockPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend\nport="), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
