package blockterm

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// ptyReadBufferSize is the size of the PTY read buffer. Large enough
// for full-screen redraws from TUI programs in a single read.
const ptyReadBufferSize = 8192

// chunkChannelDepth buffers output chunks between the PTY reader and
// the session's ingest loop.
const chunkChannelDepth = 64

// drainGrace is how long after the child exits the reader gets to
// drain buffered output before the master is closed out from under it.
const drainGrace = time.Second

// ProcessChannel is the transport between a session and a running
// process: a stream of raw output chunks, input writes, size changes,
// and termination. PtyChannel is the standard implementation; tests
// and embedders can substitute their own.
type ProcessChannel interface {
	// Chunks returns the stream of raw output. The channel is closed
	// when the process side reaches EOF; it must be drained.
	Chunks() <-chan []byte

	// Write sends input bytes to the process.
	Write(data []byte) (int, error)

	// Resize propagates a new terminal size to the process.
	Resize(rows, cols int) error

	// Terminate stops the process, escalating signals if it does not
	// exit, and blocks until it has been reaped.
	Terminate() error

	// Wait blocks until the process exits and returns its exit code,
	// or -1 if it was killed by a signal.
	Wait() int

	// ExitStatus returns the exit code once the process has exited.
	ExitStatus() (int, bool)

	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
}

// PtyChannel runs a process on a pseudoterminal. Output is delivered
// as raw byte chunks on Chunks; input, resizes, and signals go through
// the PTY so the process sees a real terminal.
type PtyChannel struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	ptmx *os.File

	chunks   chan []byte
	readDone chan struct{}
	done     chan struct{}

	exitCode   int
	closed     bool
	terminated bool
}

var _ ProcessChannel = (*PtyChannel)(nil)

// NewPtyChannel starts cmd on a new pseudoterminal of the given size.
// If cmd.Env is nil the parent environment is used; TERM defaults to
// xterm-256color unless the environment already sets it. The returned
// channel's Chunks stream must be drained.
func NewPtyChannel(cmd *exec.Cmd, rows, cols int) (*PtyChannel, error) {
	if rows <= 0 {
		rows = DEFAULT_ROWS
	}
	if cols <= 0 {
		cols = DEFAULT_COLS
	}

	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	hasTerm := false
	for _, kv := range cmd.Env {
		if strings.HasPrefix(kv, "TERM=") {
			hasTerm = true
			break
		}
	}
	if !hasTerm {
		cmd.Env = append(cmd.Env, "TERM=xterm-256color")
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, &SpawnError{Path: cmd.Path, Err: err}
	}

	c := &PtyChannel{
		cmd:      cmd,
		ptmx:     ptmx,
		chunks:   make(chan []byte, chunkChannelDepth),
		readDone: make(chan struct{}),
		done:     make(chan struct{}),
	}

	go c.readLoop()
	go c.waitLoop()

	return c, nil
}

// Chunks returns the output stream. Closed when the PTY reaches EOF.
func (c *PtyChannel) Chunks() <-chan []byte {
	return c.chunks
}

// Write sends input bytes to the process through the PTY.
func (c *PtyChannel) Write(data []byte) (int, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, ErrChannelClosed
	}
	ptmx := c.ptmx
	c.mu.Unlock()

	return ptmx.Write(data)
}

// Resize changes the PTY window size. The process receives SIGWINCH.
func (c *PtyChannel) Resize(rows, cols int) error {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	ptmx := c.ptmx
	c.mu.Unlock()

	return pty.Setsize(ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

// Terminate stops the process and blocks until it has been reaped.
// Safe to call more than once.
func (c *PtyChannel) Terminate() error {
	c.mu.Lock()
	already := c.terminated
	c.terminated = true
	proc := c.cmd.Process
	c.mu.Unlock()

	if already {
		<-c.done
		return nil
	}

	select {
	case <-c.done:
		return nil
	default:
	}

	if proc != nil {
		terminateProcess(proc, c.done)
	}
	<-c.done
	return nil
}

// Wait blocks until the process exits and returns its exit code, or
// -1 if it was killed by a signal.
func (c *PtyChannel) Wait() int {
	<-c.done

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exitCode
}

// ExitStatus returns the exit code once the process has exited.
func (c *PtyChannel) ExitStatus() (int, bool) {
	select {
	case <-c.done:
	default:
		return 0, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exitCode, true
}

// Done is closed once the process has exited and been reaped.
func (c *PtyChannel) Done() <-chan struct{} {
	return c.done
}

// Pid returns the process ID, or 0 if the process never started.
func (c *PtyChannel) Pid() int {
	if c.cmd.Process == nil {
		return 0
	}
	return c.cmd.Process.Pid
}

// readLoop pumps PTY output into the chunk channel. On Linux the
// master read fails with EIO once the child side is fully closed;
// that, like EOF, ends the stream.
func (c *PtyChannel) readLoop() {
	buf := make([]byte, ptyReadBufferSize)
	for {
		n, err := c.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			c.chunks <- chunk
		}
		if err != nil {
			break
		}
	}
	close(c.chunks)
	close(c.readDone)
}

// waitLoop reaps the process, records its exit code, and closes the
// PTY master once the reader has drained the remaining output.
func (c *PtyChannel) waitLoop() {
	err := c.cmd.Wait()

	code := 0
	if err != nil {
		code = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
	}

	// The reader ends on its own once the last slave descriptor closes
	// and the buffer runs out. A survivor still holding the slave open
	// would keep it blocked forever, so force the issue after a grace
	// period; closing the master unblocks the pending read.
	select {
	case <-c.readDone:
	case <-time.After(drainGrace):
	}

	c.mu.Lock()
	c.exitCode = code
	c.closed = true
	c.mu.Unlock()

	close(c.done)
	c.ptmx.Close()
}
