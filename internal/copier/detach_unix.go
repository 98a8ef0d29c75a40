//go:build !windows

package copier

import (
	"os"
	"os/exec"
	"syscall"
)

// detach starts the copy in its own process group, out of reach of the
// terminal's SIGINT.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// interrupt sends SIGINT to the copy's process group.
func interrupt(p *os.Process) error {
	if p == nil || p.Pid <= 0 {
		return nil
	}
	return syscall.Kill(-p.Pid, syscall.SIGINT)
}
