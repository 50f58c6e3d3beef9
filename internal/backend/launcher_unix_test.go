//go:build !windows

package backend

import "testing"

func assertProcessGroup(t *testing.T, h *Handle) {
	t.Helper()
	if h.cmd.SysProcAttr == nil || !h.cmd.SysProcAttr.Setpgid {
		t.Fatal("child not placed in its own process group")
	}
}
