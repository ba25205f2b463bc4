package blockterm

import (
	"errors"
	"fmt"
)

// ErrChannelClosed is returned by channel writes and resizes after the
// child process has exited or the channel has been terminated.
var ErrChannelClosed = errors.New("blockterm: channel closed")

// ErrSessionClosed is returned by session operations after Close.
var ErrSessionClosed = errors.New("blockterm: session closed")

// SpawnError reports a failure to start the child process or allocate
// its pseudoterminal. It wraps the underlying cause.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("blockterm: spawn %q: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
