//go:build windows

package transcode

import (
	"os"
	"os/exec"
	"path/filepath"

	"mxtoaaf/internal/procattr"
)

// configureCommand hides the console window and lets a bundled ffmpeg find
// the DLLs shipped next to it.
func configureCommand(cmd *exec.Cmd, res Resolution) {
	procattr.Detach(cmd)
	if res.Bundled {
		cmd.Env = prependSearchPath(os.Environ(), filepath.Dir(res.Path))
	}
}
