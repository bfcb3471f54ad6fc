// Package proc tracks the child process currently running on behalf of the
// composer so that terminal signals reach it and any spinner is stopped.
package proc

import (
	"os"
	"os/exec"
	"sync"
)

// Registry holds the git commit process while it runs. git.Repo.Commit
// registers the started command together with the spinner's stop function
// and unregisters it after Wait; the signal goroutine in main forwards
// SIGINT/SIGTERM through it so commit hooks see the interrupt. With nothing
// registered, the caller restores the terminal and exits instead.
type Registry struct {
	mu          sync.Mutex
	cmd         *exec.Cmd
	stopSpinner func()
	interrupted bool
}

// Register records a started command. It clears any interruption left from
// an earlier commit.
func (r *Registry) Register(cmd *exec.Cmd, stopSpinner func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmd = cmd
	r.stopSpinner = stopSpinner
	r.interrupted = false
}

func (r *Registry) Unregister() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmd = nil
	r.stopSpinner = nil
}

// Active reports whether a child process is registered.
func (r *Registry) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

func (r *Registry) WasInterrupted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interrupted
}

// ForwardSignal delivers sig to the registered process group, or to the
// process itself where groups are unavailable.
func (r *Registry) ForwardSignal(sig os.Signal) {
	r.mu.Lock()
	cmd := r.cmd
	if sig == os.Interrupt {
		r.interrupted = true
	}
	r.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return
	}
	if forwardToProcessGroup(cmd, sig) {
		return
	}
	_ = cmd.Process.Signal(sig)
}

func (r *Registry) StopSpinnerIfSet() {
	r.mu.Lock()
	stop := r.stopSpinner
	r.stopSpinner = nil
	r.mu.Unlock()
	if stop != nil {
		stop()
	}
}
