package backend

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolve determines the backend directory for the given spec. The primary
// candidate is <cwd>/<dirName>; if it does not exist the fallback is
// <executable dir>/<dirName>. Resolution happens exactly once per run: there
// is no retry, polling, or filesystem watch.
func Resolve(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine working directory: %w", err)
	}
	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	return resolveFrom(cwd, exeDir, dirName)
}

// resolveFrom is the pure candidate policy, split out for tests. The fallback
// is consulted only when the primary candidate is absent.
func resolveFrom(cwd, exeDir, dirName string) (string, error) {
	primary := filepath.Join(cwd, dirName)
	if dirExists(primary) {
		return primary, nil
	}
	if exeDir != "" {
		fallback := filepath.Join(exeDir, dirName)
		if dirExists(fallback) {
			return fallback, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrNoBackendDir, primary)
}

func dirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
