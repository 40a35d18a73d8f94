//go:build windows

package pathgzip

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

// setSysProcAttr creates a new process group on Windows so that when the
// context is canceled the entire process tree is terminated, not just the
// spawned compressor.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &windows.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}
