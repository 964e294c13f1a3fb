//go:build !windows

package transcode

import (
	"os/exec"

	"mxtoaaf/internal/procattr"
)

func configureCommand(cmd *exec.Cmd, _ Resolution) {
	procattr.Detach(cmd)
}
