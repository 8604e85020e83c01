//go:build windows

package scriptexec

import (
	"os"
	"os/exec"

	"github.com/shirou/gopsutil/v4/process"
)

func setSysProcAttr(_ *exec.Cmd) {
	// No equivalent to Setpgid on Windows
}

// setCancelFunc kills the script's descendants before the script itself.
func setCancelFunc(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if p, err := process.NewProcess(int32(cmd.Process.Pid)); err == nil {
			killTree(p)
		}
		return cmd.Process.Signal(os.Kill)
	}
}

func killTree(p *process.Process) {
	children, _ := p.Children()
	for _, child := range children {
		killTree(child)
		_ = child.Kill()
	}
}
