//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the command in its own process group and makes
// context cancellation kill the group, so helpers spawned by the tool (the
// Java launcher forks a JVM) do not outlive it.
func configureProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
