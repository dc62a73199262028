//go:build !windows

package infra

import (
	"os/exec"
	"syscall"
)

// setupProcessGroup starts the child in its own process group so the whole
// tree can be killed on cancellation.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcess(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
