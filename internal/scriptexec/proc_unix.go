//go:build !windows

package scriptexec

import (
	"os/exec"
	"syscall"
)

// Scripts run in their own process group so a timeout kills everything they
// started, not just the direct child.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func setCancelFunc(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
