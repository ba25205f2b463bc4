// Package blockterm provides a headless, block-structured terminal
// for driving shells programmatically.
//
// It runs a child process on a PTY, maintains a full VT220-compatible
// screen without any display, and segments the conversation into
// command blocks: prompt, command, output, and exit status as discrete
// addressable units. This makes it a foundation for:
//
//   - Block-based terminal frontends (web or native)
//   - Agents and automation that need per-command output
//   - Recording and replaying shell sessions
//   - Testing CLI tools against a real PTY
//
// # Quick Start
//
// Start a shell session and read back what happened per command:
//
//	cfg := blockterm.DefaultSessionConfig()
//	sess, _ := blockterm.NewSession(cfg)
//	defer sess.Close()
//
//	sess.WriteString("echo hello\n")
//	time.Sleep(200 * time.Millisecond)
//
//	for _, b := range sess.Blocks().Blocks() {
//	    output, _ := sess.Blocks().BlockOutput(b.ID)
//	    fmt.Printf("%s -> %q\n", b.Command.Raw, output)
//	}
//
// # Architecture
//
// The pipeline has four stages, each usable on its own:
//
//   - [ProcessChannel]: PTY transport to the child process
//   - [Parser]: turns raw bytes into a stream of [Action] values
//   - [Screen]: applies actions to a cell grid with scrollback
//   - [BlockManager]: observes applied actions and segments blocks
//
// [Session] wires them together: one goroutine drains the channel,
// parses each chunk, applies every action to the screen, then hands it
// to the block manager. Apply order equals arrival order, so screen
// and block state always agree.
//
// # Screen
//
// Screen is the VT emulator. It implements [io.Writer] through an
// internal parser, so it also works standalone without a session:
//
//	screen := blockterm.NewScreen(
//	    blockterm.WithSize(24, 80),
//	    blockterm.WithScrollback(blockterm.NewMemoryScrollback(10000)),
//	)
//	screen.WriteString("\x1b[31mhello\x1b[0m world")
//	fmt.Println(screen.String())
//
// It maintains primary and alternate grids (full-screen apps switch
// via CSI ?1049h/l), cursor state, tab stops, character sets, modes,
// colors, hyperlinks, selections, and dirty tracking.
//
// # Absolute Rows
//
// Rows are addressed in a logical coordinate space that starts at 0
// when the session begins and only grows: scrolling moves content into
// scrollback but never renumbers it, and rows evicted from a bounded
// scrollback keep their numbers (their text is simply gone). Blocks
// store absolute rows, so a block's range stays valid for the life of
// the session:
//
//	row := screen.AbsoluteCursorRow()     // cursor in logical space
//	text := screen.TextBetween(10, 14)    // rows 10..13, wrap-aware
//
// # Blocks
//
// [BlockManager] segments the stream into [Block] records. When the
// shell emits OSC 133 integration marks, boundaries are exact: A marks
// the prompt, B the command start, C the output start, D the exit
// code. Without marks, a prompt regex matched at column 0 provides a
// best-effort fallback; the first mark seen switches the manager to
// exact mode for good.
//
//	blocks := sess.Blocks()
//	blocks.AddListener(func(b blockterm.Block) {
//	    fmt.Printf("#%d %s exit=%d\n", b.ID, b.Command.Raw, b.ExitCode)
//	})
//
//	b, ok := blocks.BlockAt(screen.AbsoluteCursorRow()) // block under cursor
//	text, _ := blocks.BlockText(b.ID)                   // command + output
//
// Blocks can be pinned and folded for frontends that render them, and
// [BlockNavigator] adds browser-style back/forward movement plus named
// bookmarks over the index.
//
// # Commands
//
// Each block carries a [Command]: the raw line, shell-style tokens
// (quote and backslash aware), and the working directory the shell
// reported via OSC 7 at the time the command ran:
//
//	cmd := blockterm.NewCommand(`git commit -m "fix tests"`)
//	cmd.Program() // "git"
//	cmd.Args()    // ["commit", "-m", "fix tests"]
//
// # Sessions
//
// [Session] owns the child process. Configuration comes from a
// [SessionConfig], loadable from BLOCKTERM_* environment variables:
//
//	cfg, _ := blockterm.ConfigFromEnv()
//	sess, _ := blockterm.NewSession(cfg,
//	    blockterm.WithSessionLogger(logger),
//	    blockterm.WithSessionRecording(blockterm.NewMemoryRecording()),
//	)
//
//	sess.Write([]byte("make test\n")) // input to the child
//	sess.Resize(50, 120)              // screen + PTY + SIGWINCH
//	<-sess.Done()                     // child exited, output drained
//	code, _ := sess.ExitStatus()
//
// Closing a session escalates SIGHUP, SIGTERM, SIGKILL until the child
// exits, then finalizes any open block as interrupted.
//
// # Providers
//
// Providers handle terminal events and queries. All are optional with
// no-op defaults:
//
//   - [BellProvider]: bell/beep events
//   - [TitleProvider]: window title changes (OSC 0/1/2)
//   - [ClipboardProvider]: clipboard operations (OSC 52)
//   - [ScrollbackProvider]: storage for lines scrolled off screen
//   - [RecordingProvider]: raw output capture for replay
//   - [SizeProvider]: pixel dimensions for CSI queries
//   - [NotificationProvider]: desktop notifications (OSC 99)
//
// The session forwards terminal responses (cursor position reports,
// device attributes) back to the PTY automatically; a standalone
// screen takes any [io.Writer] via [WithResponse].
//
// # Snapshots
//
// Capture screen state for serialization or rendering:
//
//	snap := sess.Snapshot(blockterm.SnapshotDetailStyled)
//	data, _ := json.Marshal(snap)
//
// Three detail levels: text only, styled segments (good for HTML),
// and full cell data. Snapshots carry cursor state and the mode flags
// a frontend needs (alternate screen, bracketed paste, mouse
// reporting, cursor keys).
//
// [Screen.Screenshot] renders the grid to an [image.RGBA] instead,
// with optional TrueType fonts.
//
// # Thread Safety
//
// All Screen, BlockManager, and Session methods are safe for
// concurrent use. Parsing and applying happen on the session's ingest
// goroutine; readers see consistent state through internal locking.
// Operations that must be atomic across multiple calls need external
// synchronization.
//
// # Supported ANSI Sequences
//
// The screen supports a comprehensive set of escape sequences:
//
//   - Cursor movement (CUU, CUD, CUF, CUB, CUP, HVP, etc.)
//   - Cursor save/restore (DECSC, DECRC)
//   - Erase commands (ED, EL, ECH)
//   - Insert/delete (ICH, DCH, IL, DL)
//   - Scrolling (SU, SD, DECSTBM)
//   - Character attributes (SGR) with full color support
//   - Terminal modes (DECSET, DECRST)
//   - Device status reports (DSR)
//   - Alternate screen buffer
//   - Bracketed paste mode
//   - Window title (OSC 0/1/2)
//   - Working directory reports (OSC 7)
//   - Hyperlinks (OSC 8)
//   - Clipboard (OSC 52)
//   - Shell integration marks (OSC 133)
//   - Desktop notifications (OSC 99)
//
// For the complete list of supported sequences, see the [go-ansicode]
// package documentation.
//
// [go-ansicode]: https://github.com/danielgatis/go-ansicode
package blockterm
