//go:build windows

package copier

import (
	"os"
	"os/exec"
	"syscall"
)

// detach starts the copy in a new process group so Ctrl+C in the console
// does not reach it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// interrupt terminates the copy. Windows has no SIGINT for other process
// groups.
func interrupt(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}
