//go:build windows

package blockterm

import "os"

// terminateProcess stops the process. Windows has no graceful signal
// path for console children, so this kills outright. The caller waits
// for the reap.
func terminateProcess(proc *os.Process, done <-chan struct{}) {
	proc.Kill()
}
