package backend

import "errors"

var (
	// ErrNoBackendDir means neither the primary nor the fallback candidate
	// directory exists. The shell keeps running window-only in that case.
	ErrNoBackendDir = errors.New("backend directory not found")

	// ErrToolNotFound means the launcher tool is missing from PATH. Reported
	// separately from spawn failures so diagnostics can say "install uv"
	// instead of a generic exec error.
	ErrToolNotFound = errors.New("launcher tool not found")
)
