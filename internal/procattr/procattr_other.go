//go:build !windows

package procattr

import (
	"os/exec"
	"syscall"
)

// Detach starts cmd in its own process group. Ctrl-C in the terminal then
// stops the batch between files without killing a child mid-write.
func Detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}
