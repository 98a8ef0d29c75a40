package copier

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Tool names accepted by DetectTool.
const (
	ToolAuto  = "auto"
	ToolRsync = "rsync"
	ToolCp    = "cp"
)

// ErrNoCopyTool is returned when neither rsync nor cp can be found.
var ErrNoCopyTool = errors.New("no external copy tool found (rsync or cp)")

// CommandFunc builds the process that copies src to dst.
type CommandFunc func(src, dst string) *exec.Cmd

// RsyncCommand copies with rsync, preserving modification times. --inplace
// keeps partial output at dst, where cancellation cleans it up.
func RsyncCommand(path string) CommandFunc {
	return func(src, dst string) *exec.Cmd {
		return exec.Command(path, "--progress", "--times", "--inplace", src, dst)
	}
}

// CpCommand copies with cp -p. cp reports no progress.
func CpCommand(path string) CommandFunc {
	return func(src, dst string) *exec.Cmd {
		return exec.Command(path, "-p", src, dst)
	}
}

// DetectTool resolves a tool name to a command builder. "auto" (or "")
// prefers rsync.
func DetectTool(name string) (string, CommandFunc, error) {
	switch strings.ToLower(name) {
	case "", ToolAuto:
		if path, err := exec.LookPath(ToolRsync); err == nil {
			return ToolRsync, RsyncCommand(path), nil
		}
		if path, err := exec.LookPath(ToolCp); err == nil {
			return ToolCp, CpCommand(path), nil
		}
		return "", nil, ErrNoCopyTool
	case ToolRsync:
		path, err := exec.LookPath(ToolRsync)
		if err != nil {
			return "", nil, fmt.Errorf("copy tool %s: %w", name, err)
		}
		return ToolRsync, RsyncCommand(path), nil
	case ToolCp:
		path, err := exec.LookPath(ToolCp)
		if err != nil {
			return "", nil, fmt.Errorf("copy tool %s: %w", name, err)
		}
		return ToolCp, CpCommand(path), nil
	}
	return "", nil, fmt.Errorf("unknown copy tool %q (want auto, rsync or cp)", name)
}
