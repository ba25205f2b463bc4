//go:build !windows

package blockterm

import (
	"os"
	"syscall"
	"time"
)

// terminateGrace is how long each termination signal gets before the
// next escalation step.
const terminateGrace = 250 * time.Millisecond

// terminateProcess stops the process group behind the PTY: SIGHUP
// first, the signal a closing terminal would deliver, then SIGTERM,
// then SIGKILL. Returns as soon as the process is reaped.
func terminateProcess(proc *os.Process, done <-chan struct{}) {
	// The child runs as a session leader, so the negative PID reaches
	// the whole group.
	syscall.Kill(-proc.Pid, syscall.SIGHUP)
	select {
	case <-done:
		return
	case <-time.After(terminateGrace):
	}

	syscall.Kill(-proc.Pid, syscall.SIGTERM)
	select {
	case <-done:
		return
	case <-time.After(terminateGrace):
	}

	proc.Kill()
}
