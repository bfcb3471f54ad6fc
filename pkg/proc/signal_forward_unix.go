//go:build !windows

package proc

import (
	"os"
	"os/exec"
	"syscall"
)

func forwardToProcessGroup(cmd *exec.Cmd, sig os.Signal) bool {
	if sig != os.Interrupt && sig != syscall.SIGTERM {
		return false
	}

	sysSig, ok := sig.(syscall.Signal)
	if !ok {
		return false
	}

	_ = syscall.Kill(-cmd.Process.Pid, sysSig)
	return true
}

// SetProcessGroup starts cmd in its own process group so forwarded signals
// reach its children (hooks run by git) too.
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}
