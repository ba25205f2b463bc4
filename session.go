package blockterm

import (
	"os/exec"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session ties a process channel, parser, screen, and block manager
// together. It spawns the child process, feeds its output through the
// parser into the screen, and lets the block manager observe every
// applied action. A single goroutine owns that pipeline, so actions
// are applied in arrival order; screen and block state can be read
// concurrently through the accessors.
type Session struct {
	id     string
	config SessionConfig
	logger *zap.Logger

	channel    ProcessChannel
	parser     *Parser
	screen     *Screen
	blocks     *BlockManager
	recording  RecordingProvider
	onAction   func(Action)
	screenOpts []Option

	mu       sync.Mutex
	closed   bool
	exitCode int

	done chan struct{}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the logger for session, screen, and block
// lifecycle events.
func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionChannel substitutes the process channel, in which case no
// child process is spawned and the shell configuration is ignored.
// Tests use this to drive a session from an in-memory channel.
func WithSessionChannel(ch ProcessChannel) SessionOption {
	return func(s *Session) {
		s.channel = ch
	}
}

// WithSessionRecording captures raw child output before parsing.
func WithSessionRecording(rec RecordingProvider) SessionOption {
	return func(s *Session) {
		s.recording = rec
	}
}

// WithActionHook invokes fn for every action after the screen has
// applied it and the block manager has observed it. fn runs on the
// ingest goroutine and must not block.
func WithActionHook(fn func(Action)) SessionOption {
	return func(s *Session) {
		s.onAction = fn
	}
}

// WithScreenOptions appends extra options to the session's screen,
// e.g. a title, bell, or clipboard provider.
func WithScreenOptions(opts ...Option) SessionOption {
	return func(s *Session) {
		s.screenOpts = append(s.screenOpts, opts...)
	}
}

// NewSession starts a new session from the given configuration. Unless
// WithSessionChannel overrides it, the configured shell is spawned on
// a PTY in the configured working directory.
func NewSession(cfg SessionConfig, opts ...SessionOption) (*Session, error) {
	promptRe, err := cfg.PromptRegexp()
	if err != nil {
		return nil, err
	}

	rows, cols := cfg.Rows, cfg.Cols
	if rows <= 0 {
		rows = DEFAULT_ROWS
	}
	if cols <= 0 {
		cols = DEFAULT_COLS
	}

	s := &Session{
		id:     uuid.NewString(),
		config: cfg,
		logger: zap.NewNop(),
		parser: NewParser(),
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.channel == nil {
		cmd := exec.Command(cfg.ResolveShell())
		cmd.Dir = cfg.WorkingDir

		ch, err := NewPtyChannel(cmd, rows, cols)
		if err != nil {
			return nil, err
		}
		s.channel = ch
	}

	screenOpts := append([]Option{
		WithSize(rows, cols),
		WithScrollback(NewMemoryScrollback(cfg.ScrollbackLines)),
		WithResponse(s.channel),
		WithLogger(s.logger),
	}, s.screenOpts...)
	s.screen = NewScreen(screenOpts...)

	s.blocks = NewBlockManager(s.screen, promptRe)
	s.blocks.SetLogger(s.logger)

	s.logger.Info("session started",
		zap.String("id", s.id),
		zap.Int("rows", rows),
		zap.Int("cols", cols),
	)

	go s.ingest()

	return s, nil
}

// ingest owns the output pipeline: parse each chunk, apply each action
// to the screen, then let the block manager observe it.
func (s *Session) ingest() {
	for chunk := range s.channel.Chunks() {
		if s.recording != nil {
			s.recording.Record(chunk)
		}

		for _, action := range s.parser.Parse(chunk) {
			s.screen.Apply(action)
			s.blocks.Observe(action)
			if s.onAction != nil {
				s.onAction(action)
			}
		}
	}

	code := s.channel.Wait()
	s.blocks.FinalizeInterrupted()

	s.mu.Lock()
	s.exitCode = code
	s.closed = true
	s.mu.Unlock()

	s.logger.Info("session ended",
		zap.String("id", s.id),
		zap.Int("exit_code", code),
	)
	close(s.done)
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Config returns the configuration the session was started with.
func (s *Session) Config() SessionConfig {
	return s.config
}

// Screen returns the session's screen state.
func (s *Session) Screen() *Screen {
	return s.screen
}

// Blocks returns the session's block manager.
func (s *Session) Blocks() *BlockManager {
	return s.blocks
}

// Snapshot captures the current screen state.
func (s *Session) Snapshot(detail SnapshotDetail) *Snapshot {
	return s.screen.Snapshot(detail)
}

// Write sends input bytes to the child process.
func (s *Session) Write(data []byte) (int, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return 0, ErrSessionClosed
	}
	return s.channel.Write(data)
}

// WriteString sends input text to the child process.
func (s *Session) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Resize changes both the screen size and the PTY window size.
func (s *Session) Resize(rows, cols int) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return ErrSessionClosed
	}

	s.screen.Resize(rows, cols)
	return s.channel.Resize(rows, cols)
}

// Done is closed once the child has exited and all of its output has
// been applied.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ExitStatus returns the child's exit code once the session has ended.
func (s *Session) ExitStatus() (int, bool) {
	select {
	case <-s.done:
	default:
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode, true
}

// Wait blocks until the session ends and returns the exit code.
func (s *Session) Wait() int {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode
}

// Close terminates the child process, waits for the remaining output
// to be applied, and finalizes any open block. Safe to call more than
// once.
func (s *Session) Close() error {
	s.channel.Terminate()
	<-s.done
	return nil
}
