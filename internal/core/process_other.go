//go:build !unix

package core

import "os/exec"

// setProcGroup is a no-op where process groups are unavailable.
func setProcGroup(_ *exec.Cmd) {}

// killProcGroup falls back to killing the direct child only.
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process != nil {
		return cmd.Process.Kill()
	}
	return nil
}
