//go:build !windows

package pathgzip

import (
	"os/exec"

	"golang.org/x/sys/unix"
)

// setSysProcAttr makes the compressor its own process group leader on
// Unix-like systems, so a canceled context kills the entire process tree and
// not just the immediate child.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
}
