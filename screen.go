package blockterm

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"sync"

	"github.com/danielgatis/go-ansicode"
	"go.uber.org/zap"
)

// ScreenMode is a bitmask of terminal behavior flags.
// Multiple modes can be active simultaneously.
type ScreenMode uint32

const (
	// ModeCursorKeys enables cursor key mode (DECCKM).
	ModeCursorKeys ScreenMode = 1 << iota
	// ModeColumnMode enables 132-column mode.
	ModeColumnMode
	// ModeInsert enables insert mode (characters shift right instead of overwrite).
	ModeInsert
	// ModeOrigin enables origin mode (cursor positioning relative to scroll region).
	ModeOrigin
	// ModeLineWrap enables automatic line wrapping at column boundaries.
	ModeLineWrap
	// ModeBlinkingCursor enables blinking cursor.
	ModeBlinkingCursor
	// ModeLineFeedNewLine makes line feed also move to column 0.
	ModeLineFeedNewLine
	// ModeShowCursor makes the cursor visible.
	ModeShowCursor
	// ModeReportMouseClicks enables mouse click reporting.
	ModeReportMouseClicks
	// ModeReportCellMouseMotion enables mouse motion reporting (cell-based).
	ModeReportCellMouseMotion
	// ModeReportAllMouseMotion enables reporting of all mouse motion events.
	ModeReportAllMouseMotion
	// ModeReportFocusInOut enables focus in/out event reporting.
	ModeReportFocusInOut
	// ModeUTF8Mouse enables UTF-8 mouse encoding.
	ModeUTF8Mouse
	// ModeSGRMouse enables SGR mouse encoding.
	ModeSGRMouse
	// ModeAlternateScroll enables alternate scroll mode.
	ModeAlternateScroll
	// ModeUrgencyHints enables urgency hints.
	ModeUrgencyHints
	// ModeSwapScreenAndSetRestoreCursor swaps to alternate screen and saves cursor.
	// When unset, restores primary screen and cursor position.
	ModeSwapScreenAndSetRestoreCursor
	// ModeBracketedPaste enables bracketed paste mode.
	ModeBracketedPaste
	// ModeKeypadApplication enables application keypad mode.
	ModeKeypadApplication
)

const (
	// DEFAULT_ROWS is the default number of screen rows.
	DEFAULT_ROWS = 24
	// DEFAULT_COLS is the default number of screen columns.
	DEFAULT_COLS = 80
)

// Selection defines a rectangular text region on the screen.
// Start and End are normalized so Start is always before or equal to End.
type Selection struct {
	Start  Position
	End    Position
	Active bool
}

// PromptMark stores information about a shell integration mark (OSC 133).
// Marks anchor command block boundaries in the logical row coordinate
// space shared by scrollback and the live grid.
type PromptMark struct {
	// Type is the mark type (PromptStart, CommandStart, CommandExecuted, CommandFinished).
	Type ansicode.ShellIntegrationMark
	// Row is the logical row position (total lines scrolled off plus
	// cursor row at the time the mark arrived).
	Row int
	// ExitCode is the command exit code (only valid for CommandFinished marks, -1 otherwise).
	ExitCode int
}

// Screen emulates a VT220-compatible terminal without a display.
// It maintains two grids: primary (with scrollback) and alternate (no
// scrollback). The active grid switches when entering/exiting alternate
// screen mode.
//
// State changes happen through Apply, which consumes parsed actions one
// at a time, or through Write, which parses raw bytes with an internal
// parser. Apply and Write must be called from a single goroutine; all
// query methods are safe to call concurrently with them.
type Screen struct {
	mu sync.RWMutex

	// Dimensions
	rows int
	cols int

	// Grids
	primary   *Grid
	alternate *Grid
	active    *Grid

	// Cursor
	cursor      *Cursor
	savedCursor *SavedCursor

	// Current cell attributes
	template CellTemplate

	// Charsets
	charsets      [4]Charset
	activeCharset int

	// Scrolling region
	scrollTop    int
	scrollBottom int

	// Modes
	modes ScreenMode

	// Title
	title      string
	titleStack []string

	// Colors
	colors map[int]color.Color

	// Hyperlink
	currentHyperlink *Hyperlink

	// Keyboard mode
	keyboardModes   []ansicode.KeyboardMode
	modifyOtherKeys ansicode.ModifyOtherKeys

	// Selection
	selection Selection

	// Shell integration marks (OSC 133)
	promptMarks []PromptMark

	// Working directory (OSC 7)
	workingDir string

	// User variables (OSC 1337)
	userVars map[string]string

	// Internal parser backing Write
	parser *Parser

	// Scrollback provider
	scrollbackStorage ScrollbackProvider

	// Providers for external data/actions
	responseProvider     ResponseProvider
	bellProvider         BellProvider
	titleProvider        TitleProvider
	apcProvider          APCProvider
	pmProvider           PMProvider
	sosProvider          SOSProvider
	clipboardProvider    ClipboardProvider
	sizeProvider         SizeProvider
	notificationProvider NotificationProvider

	logger *zap.Logger
}

// Option configures a Screen during construction.
type Option func(*Screen)

// WithSize sets the screen dimensions.
// Values <= 0 are replaced with defaults (24x80).
func WithSize(rows, cols int) Option {
	if rows <= 0 {
		rows = DEFAULT_ROWS
	}

	if cols <= 0 {
		cols = DEFAULT_COLS
	}

	return func(s *Screen) {
		s.rows = rows
		s.cols = cols
	}
}

// WithResponse sets the writer for terminal responses (e.g., cursor position reports).
// If nil, responses are discarded.
func WithResponse(p ResponseProvider) Option {
	return func(s *Screen) {
		s.responseProvider = p
	}
}

// WithBell sets the handler for bell/beep events.
// Defaults to a no-op if not set.
func WithBell(p BellProvider) Option {
	return func(s *Screen) {
		s.bellProvider = p
	}
}

// WithTitle sets the handler for window title changes.
// Defaults to a no-op if not set.
func WithTitle(p TitleProvider) Option {
	return func(s *Screen) {
		s.titleProvider = p
	}
}

// WithAPC sets the handler for Application Program Command sequences.
// Defaults to a no-op if not set.
func WithAPC(p APCProvider) Option {
	return func(s *Screen) {
		s.apcProvider = p
	}
}

// WithPM sets the handler for Privacy Message sequences.
// Defaults to a no-op if not set.
func WithPM(p PMProvider) Option {
	return func(s *Screen) {
		s.pmProvider = p
	}
}

// WithSOS sets the handler for Start of String sequences.
// Defaults to a no-op if not set.
func WithSOS(p SOSProvider) Option {
	return func(s *Screen) {
		s.sosProvider = p
	}
}

// WithClipboard sets the handler for clipboard read/write operations (OSC 52).
// Defaults to a no-op if not set.
func WithClipboard(p ClipboardProvider) Option {
	return func(s *Screen) {
		s.clipboardProvider = p
	}
}

// WithScrollback sets the storage for scrollback lines.
// Lines scrolled off the top of the primary grid are pushed here.
// Defaults to a no-op if not set.
func WithScrollback(storage ScrollbackProvider) Option {
	return func(s *Screen) {
		s.scrollbackStorage = storage
	}
}

// WithSizeProvider sets the provider for pixel dimension queries.
func WithSizeProvider(p SizeProvider) Option {
	return func(s *Screen) {
		s.sizeProvider = p
	}
}

// WithNotification sets the handler for desktop notifications (OSC 99).
// Defaults to a no-op if not set.
func WithNotification(p NotificationProvider) Option {
	return func(s *Screen) {
		s.notificationProvider = p
	}
}

// WithLogger sets the logger for diagnostic output.
// Defaults to a no-op logger if not set.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Screen) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScreen creates a screen with the given options.
// Defaults to 24x80 with line wrap and cursor visible.
func NewScreen(opts ...Option) *Screen {
	s := &Screen{
		rows:                 DEFAULT_ROWS,
		cols:                 DEFAULT_COLS,
		colors:               make(map[int]color.Color),
		userVars:             make(map[string]string),
		keyboardModes:        make([]ansicode.KeyboardMode, 0),
		bellProvider:         NoopBell{},
		titleProvider:        NoopTitle{},
		apcProvider:          NoopAPC{},
		pmProvider:           NoopPM{},
		sosProvider:          NoopSOS{},
		clipboardProvider:    NoopClipboard{},
		notificationProvider: NoopNotification{},
		logger:               zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create primary grid with scrollback provider
	if s.scrollbackStorage == nil {
		s.scrollbackStorage = NoopScrollback{}
	}
	s.primary = NewGridWithScrollback(s.rows, s.cols, s.scrollbackStorage)
	s.alternate = NewGrid(s.rows, s.cols) // Alternate grid has no scrollback
	s.active = s.primary

	s.cursor = NewCursor()
	s.template = NewCellTemplate()

	s.scrollTop = 0
	s.scrollBottom = s.rows

	s.modes = ModeLineWrap | ModeShowCursor

	s.parser = NewParser()

	return s
}

// Rows returns the screen height in character rows.
func (s *Screen) Rows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

// Cols returns the screen width in character columns.
func (s *Screen) Cols() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cols
}

// Cell returns the cell at (row, col) in the active grid.
// Returns nil if coordinates are out of bounds.
func (s *Screen) Cell(row, col int) *Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Cell(row, col)
}

// CursorPos returns the current cursor position (0-based).
func (s *Screen) CursorPos() (row, col int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor.Row, s.cursor.Col
}

// CursorVisible returns true if the cursor is currently visible.
func (s *Screen) CursorVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor.Visible
}

// CursorStyle returns the current cursor rendering style.
func (s *Screen) CursorStyle() CursorStyle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor.Style
}

// Title returns the current window title string.
func (s *Screen) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// HasMode returns true if the specified mode flag is enabled.
func (s *Screen) HasMode(mode ScreenMode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modes&mode != 0
}

// Resize changes the screen dimensions and adjusts grids accordingly.
// When shrinking rows, lines above the cursor are moved to scrollback to
// preserve content near the cursor. Cursor position is clamped to the
// new bounds. Invalid dimensions (<= 0) are ignored.
func (s *Screen) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	oldRows := s.rows

	// When shrinking rows on the primary grid, scroll lines to scrollback
	// to preserve content near cursor
	if rows < oldRows && s.active == s.primary {
		linesToScroll := oldRows - rows
		// Only scroll if cursor would be pushed off screen
		if s.cursor.Row >= rows {
			s.primary.ScrollUp(0, oldRows, linesToScroll)
			s.cursor.Row -= linesToScroll
			if s.cursor.Row < 0 {
				s.cursor.Row = 0
			}
		}
	}

	s.rows = rows
	s.cols = cols
	s.primary.Resize(rows, cols)
	s.alternate.Resize(rows, cols)

	// Clamp cursor to bounds
	if s.cursor.Row >= rows {
		s.cursor.Row = rows - 1
	}
	if s.cursor.Row < 0 {
		s.cursor.Row = 0
	}
	if s.cursor.Col >= cols {
		s.cursor.Col = cols - 1
	}
	if s.cursor.Col < 0 {
		s.cursor.Col = 0
	}

	// Adjust scroll region
	s.scrollTop = 0
	s.scrollBottom = rows
}

// Write parses raw terminal output and applies the resulting actions.
// Implements io.Writer. Must not be called concurrently with itself or
// with Apply; query methods may run concurrently.
func (s *Screen) Write(data []byte) (int, error) {
	for _, action := range s.parser.Parse(data) {
		s.Apply(action)
	}
	return len(data), nil
}

// WriteString is a convenience method that converts the string to bytes and calls Write.
func (s *Screen) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Apply performs a single parsed action against the screen state.
// Actions must be applied in the order the parser produced them.
func (s *Screen) Apply(action Action) {
	switch a := action.(type) {
	case ActionPrint:
		s.input(a.Rune)
	case ActionBell:
		s.bell()
	case ActionBackspace:
		s.backspace()
	case ActionCarriageReturn:
		s.carriageReturn()
	case ActionLineFeed:
		s.lineFeed()
	case ActionSubstitute:
		s.substitute()
	case ActionTab:
		s.tab(a.Count)
	case ActionTabSet:
		s.horizontalTabSet()
	case ActionClearTabs:
		s.clearTabs(a.Mode)
	case ActionMoveForwardTabs:
		s.moveForwardTabs(a.Count)
	case ActionMoveBackwardTabs:
		s.moveBackwardTabs(a.Count)
	case ActionGoto:
		s.goTo(a.Row, a.Col)
	case ActionGotoCol:
		s.gotoCol(a.Col)
	case ActionGotoLine:
		s.gotoLine(a.Row)
	case ActionMoveUp:
		s.moveUp(a.Count)
	case ActionMoveDown:
		s.moveDown(a.Count)
	case ActionMoveForward:
		s.moveForward(a.Count)
	case ActionMoveBackward:
		s.moveBackward(a.Count)
	case ActionMoveUpCr:
		s.moveUpCr(a.Count)
	case ActionMoveDownCr:
		s.moveDownCr(a.Count)
	case ActionReverseIndex:
		s.reverseIndex()
	case ActionSaveCursor:
		s.saveCursorPosition()
	case ActionRestoreCursor:
		s.restoreCursorPosition()
	case ActionClearLine:
		s.clearLine(a.Mode)
	case ActionClearScreen:
		s.clearScreen(a.Mode)
	case ActionEraseChars:
		s.eraseChars(a.Count)
	case ActionDeleteChars:
		s.deleteChars(a.Count)
	case ActionInsertBlank:
		s.insertBlank(a.Count)
	case ActionInsertLines:
		s.insertBlankLines(a.Count)
	case ActionDeleteLines:
		s.deleteLines(a.Count)
	case ActionScrollUp:
		s.scrollUp(a.Count)
	case ActionScrollDown:
		s.scrollDown(a.Count)
	case ActionSetScrollingRegion:
		s.setScrollingRegion(a.Top, a.Bottom)
	case ActionDecaln:
		s.decaln()
	case ActionSetMode:
		s.setMode(a.Mode)
	case ActionUnsetMode:
		s.unsetMode(a.Mode)
	case ActionSetCharAttribute:
		s.setCharAttribute(a.Attr)
	case ActionConfigureCharset:
		s.configureCharset(a.Index, a.Charset)
	case ActionSetActiveCharset:
		s.setActiveCharset(a.Index)
	case ActionSetCursorStyle:
		s.setCursorStyle(a.Style)
	case ActionSetTitle:
		s.setTitle(a.Title)
	case ActionPushTitle:
		s.pushTitle()
	case ActionPopTitle:
		s.popTitle()
	case ActionSetColor:
		s.setColor(a.Index, a.Color)
	case ActionResetColor:
		s.resetColor(a.Index)
	case ActionSetDynamicColor:
		s.setDynamicColor(a.Prefix, a.Index, a.Terminator)
	case ActionSetHyperlink:
		s.setHyperlink(a.Hyperlink)
	case ActionClipboardStore:
		s.clipboardStore(a.Clipboard, a.Data)
	case ActionClipboardLoad:
		s.clipboardLoad(a.Clipboard, a.Terminator)
	case ActionSetWorkingDirectory:
		s.setWorkingDirectory(a.URI)
	case ActionSetUserVar:
		s.SetUserVar(a.Name, a.Value)
	case ActionNotification:
		s.notify(a.Payload)
	case ActionShellMark:
		s.recordPromptMark(a.Mark, a.ExitCode)
	case ActionDeviceStatus:
		s.deviceStatus(a.Code)
	case ActionIdentifyTerminal:
		s.identifyTerminal(a.Intermediate)
	case ActionReportKeyboardMode:
		s.reportKeyboardMode()
	case ActionSetKeyboardMode:
		s.setKeyboardMode(a.Mode, a.Behavior)
	case ActionPushKeyboardMode:
		s.pushKeyboardMode(a.Mode)
	case ActionPopKeyboardMode:
		s.popKeyboardMode(a.Count)
	case ActionSetModifyOtherKeys:
		s.setModifyOtherKeys(a.Modify)
	case ActionReportModifyOtherKeys:
		s.reportModifyOtherKeys()
	case ActionSetKeypadApplication:
		s.setKeypadApplicationMode()
	case ActionUnsetKeypadApplication:
		s.unsetKeypadApplicationMode()
	case ActionTextAreaSizeChars:
		s.textAreaSizeChars()
	case ActionTextAreaSizePixels:
		s.textAreaSizePixels()
	case ActionCellSizePixels:
		s.cellSizePixels()
	case ActionResetState:
		s.resetState()
	case ActionAPC:
		s.apcReceived(a.Data)
	case ActionPM:
		s.pmReceived(a.Data)
	case ActionSOS:
		s.sosReceived(a.Data)
	case ActionSixel:
		s.sixelReceived(a.Params, a.Data)
	}
}

// clamp ensures the value is within the given range.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// effectiveRow returns the effective row considering origin mode.
func (s *Screen) effectiveRow(row int) int {
	if s.modes&ModeOrigin != 0 {
		return row + s.scrollTop
	}
	return row
}

// scrollIfNeeded performs scrolling if the cursor left the scroll region.
func (s *Screen) scrollIfNeeded() {
	if s.cursor.Row >= s.scrollBottom {
		linesToScroll := s.cursor.Row - s.scrollBottom + 1
		s.active.ScrollUp(s.scrollTop, s.scrollBottom, linesToScroll)
		s.cursor.Row = s.scrollBottom - 1
	} else if s.cursor.Row < s.scrollTop {
		linesToScroll := s.scrollTop - s.cursor.Row
		s.active.ScrollDown(s.scrollTop, s.scrollBottom, linesToScroll)
		s.cursor.Row = s.scrollTop
	}
}

// writeResponse writes a response back via the response provider if set.
// Thread-safe: reads responseProvider with lock to avoid race conditions.
func (s *Screen) writeResponse(data []byte) {
	s.mu.RLock()
	provider := s.responseProvider
	s.mu.RUnlock()

	if provider != nil {
		provider.Write(data)
	}
}

// writeResponseString writes a string response back via the writer if set.
func (s *Screen) writeResponseString(str string) {
	s.writeResponse([]byte(str))
}

// --- Action implementations ---

func (s *Screen) input(r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Handle line drawing charset (validate activeCharset to prevent index out of range)
	if s.activeCharset >= 0 && s.activeCharset < 4 && s.charsets[s.activeCharset] == CharsetLineDrawing {
		r = translateLineDrawing(r)
	}

	// Get the width of the character
	width := runeWidth(r)

	// Zero-width characters (combining marks) - attach to previous cell
	if width == 0 {
		// For now, just ignore zero-width characters
		// A full implementation would combine them with the previous character
		return
	}

	// Check if we need to wrap
	// For wide characters, we need 2 cells
	if s.cursor.Col+width > s.cols {
		if s.modes&ModeLineWrap != 0 {
			// Mark the current line as wrapped (not explicit newline)
			s.active.SetWrapped(s.cursor.Row, true)
			s.cursor.Col = 0
			s.cursor.Row++
			// Validate cursor row is within bounds before scrolling
			if s.cursor.Row >= s.rows {
				s.scrollIfNeeded()
			}
		} else {
			// Can't fit wide character at end of line
			if width == 2 {
				return
			}
			s.cursor.Col = s.cols - 1
		}
	}

	// Insert mode: shift characters to the right
	if s.modes&ModeInsert != 0 {
		s.active.InsertBlanks(s.cursor.Row, s.cursor.Col, width)
	}

	// Validate cursor position is within bounds before writing
	if s.cursor.Row < 0 || s.cursor.Row >= s.rows || s.cursor.Col < 0 {
		return
	}

	// Write the character only if within column bounds
	if s.cursor.Col < s.cols {
		cell := s.active.Cell(s.cursor.Row, s.cursor.Col)
		if cell != nil {
			cell.Char = r
			cell.Fg = s.template.Fg
			cell.Bg = s.template.Bg
			cell.UnderlineColor = s.template.UnderlineColor
			cell.Flags = s.template.Flags
			cell.Hyperlink = s.currentHyperlink

			// Mark as wide character if needed
			if width == 2 {
				cell.SetFlag(CellFlagWideChar)
			} else {
				cell.ClearFlag(CellFlagWideChar | CellFlagWideCharSpacer)
			}

			s.active.MarkDirty(s.cursor.Row, s.cursor.Col)
		}
	}

	s.cursor.Col++

	// For wide characters, add a spacer cell
	if width == 2 && s.cursor.Col < s.cols {
		spacer := s.active.Cell(s.cursor.Row, s.cursor.Col)
		if spacer != nil {
			spacer.Reset()
			spacer.Fg = s.template.Fg
			spacer.Bg = s.template.Bg
			spacer.SetFlag(CellFlagWideCharSpacer)
			s.active.MarkDirty(s.cursor.Row, s.cursor.Col)
		}
		s.cursor.Col++
	}

	// Ensure cursor stays within bounds after all operations.
	// With line wrap on, the cursor may legally sit one past the last
	// column until the next character forces the wrap.
	if s.cursor.Col >= s.cols && s.modes&ModeLineWrap == 0 {
		s.cursor.Col = s.cols - 1
	}
	if s.cursor.Row >= s.rows {
		s.cursor.Row = s.rows - 1
	}
	if s.cursor.Col < 0 {
		s.cursor.Col = 0
	}
	if s.cursor.Row < 0 {
		s.cursor.Row = 0
	}
}

// translateLineDrawing translates characters for the line drawing charset.
func translateLineDrawing(r rune) rune {
	switch r {
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'q':
		return '─'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	default:
		return r
	}
}

func (s *Screen) bell() {
	s.mu.RLock()
	provider := s.bellProvider
	s.mu.RUnlock()

	if provider != nil {
		provider.Ring()
	}
}

func (s *Screen) backspace() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Col > 0 {
		s.cursor.Col--
	}
}

func (s *Screen) carriageReturn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Col = 0
}

func (s *Screen) lineFeed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Explicit newline clears the wrapped flag for this line
	s.active.SetWrapped(s.cursor.Row, false)

	if s.modes&ModeLineFeedNewLine != 0 {
		s.cursor.Col = 0
	}

	s.cursor.Row++
	s.scrollIfNeeded()
}

func (s *Screen) substitute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell := s.active.Cell(s.cursor.Row, s.cursor.Col)
	if cell != nil {
		cell.Char = '?'
	}
}

func (s *Screen) tab(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.cursor.Col = s.active.NextTabStop(s.cursor.Col)
	}
}

func (s *Screen) horizontalTabSet() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.SetTabStop(s.cursor.Col)
}

func (s *Screen) clearTabs(mode ansicode.TabulationClearMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case ansicode.TabulationClearModeCurrent:
		s.active.ClearTabStop(s.cursor.Col)
	case ansicode.TabulationClearModeAll:
		s.active.ClearAllTabStops()
	}
}

func (s *Screen) moveForwardTabs(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.cursor.Col = s.active.NextTabStop(s.cursor.Col)
	}
}

func (s *Screen) moveBackwardTabs(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.cursor.Col = s.active.PrevTabStop(s.cursor.Col)
	}
}

func (s *Screen) goTo(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row = s.effectiveRow(row)
	s.cursor.Row = clamp(row, 0, s.rows-1)
	s.cursor.Col = clamp(col, 0, s.cols-1)
}

func (s *Screen) gotoCol(col int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Col = clamp(col, 0, s.cols-1)
}

func (s *Screen) gotoLine(row int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row = s.effectiveRow(row)
	s.cursor.Row = clamp(row, 0, s.rows-1)
}

func (s *Screen) moveUp(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Row = clamp(s.cursor.Row-n, 0, s.rows-1)
}

func (s *Screen) moveDown(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Row = clamp(s.cursor.Row+n, 0, s.rows-1)
}

func (s *Screen) moveForward(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Col = clamp(s.cursor.Col+n, 0, s.cols-1)
}

func (s *Screen) moveBackward(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Col = clamp(s.cursor.Col-n, 0, s.cols-1)
}

func (s *Screen) moveUpCr(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Row = clamp(s.cursor.Row-n, 0, s.rows-1)
	s.cursor.Col = 0
}

func (s *Screen) moveDownCr(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Row = clamp(s.cursor.Row+n, 0, s.rows-1)
	s.cursor.Col = 0
}

func (s *Screen) reverseIndex() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Row == s.scrollTop {
		s.active.ScrollDown(s.scrollTop, s.scrollBottom, 1)
	} else if s.cursor.Row > 0 {
		s.cursor.Row--
	}
}

func (s *Screen) saveCursorPosition() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveCursorPositionLocked()
}

// saveCursorPositionLocked saves cursor without locking (caller must hold lock)
func (s *Screen) saveCursorPositionLocked() {
	s.savedCursor = &SavedCursor{
		Row:          s.cursor.Row,
		Col:          s.cursor.Col,
		Attrs:        s.template,
		OriginMode:   s.modes&ModeOrigin != 0,
		CharsetIndex: s.activeCharset,
		Charsets:     s.charsets,
	}
}

func (s *Screen) restoreCursorPosition() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restoreCursorPositionLocked()
}

// restoreCursorPositionLocked restores cursor without locking (caller must hold lock)
func (s *Screen) restoreCursorPositionLocked() {
	if s.savedCursor != nil {
		s.cursor.Row = s.savedCursor.Row
		s.cursor.Col = s.savedCursor.Col
		s.template = s.savedCursor.Attrs

		if s.savedCursor.OriginMode {
			s.modes |= ModeOrigin
		} else {
			s.modes &^= ModeOrigin
		}

		s.activeCharset = s.savedCursor.CharsetIndex
		s.charsets = s.savedCursor.Charsets
	}
}

func (s *Screen) clearLine(mode ansicode.LineClearMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case ansicode.LineClearModeRight:
		s.active.ClearRowRange(s.cursor.Row, s.cursor.Col, s.cols)
	case ansicode.LineClearModeLeft:
		s.active.ClearRowRange(s.cursor.Row, 0, s.cursor.Col+1)
	case ansicode.LineClearModeAll:
		s.active.ClearRow(s.cursor.Row)
	}
}

func (s *Screen) clearScreen(mode ansicode.ClearMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case ansicode.ClearModeBelow:
		// Clear from cursor to end of screen
		s.active.ClearRowRange(s.cursor.Row, s.cursor.Col, s.cols)
		for row := s.cursor.Row + 1; row < s.rows; row++ {
			s.active.ClearRow(row)
		}
	case ansicode.ClearModeAbove:
		// Clear from beginning to cursor
		for row := 0; row < s.cursor.Row; row++ {
			s.active.ClearRow(row)
		}
		s.active.ClearRowRange(s.cursor.Row, 0, s.cursor.Col+1)
	case ansicode.ClearModeAll:
		s.active.ClearAll()
	case ansicode.ClearModeSaved:
		s.active.ClearAll()
		s.primary.ClearScrollback()
	}
}

func (s *Screen) eraseChars(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n && s.cursor.Col+i < s.cols; i++ {
		cell := s.active.Cell(s.cursor.Row, s.cursor.Col+i)
		if cell != nil {
			cell.Reset()
		}
	}
}

func (s *Screen) deleteChars(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.DeleteChars(s.cursor.Row, s.cursor.Col, n)
}

func (s *Screen) insertBlank(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.InsertBlanks(s.cursor.Row, s.cursor.Col, n)
}

func (s *Screen) insertBlankLines(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Row >= s.scrollTop && s.cursor.Row < s.scrollBottom {
		s.active.InsertLines(s.cursor.Row, n, s.scrollBottom)
	}
}

func (s *Screen) deleteLines(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Row >= s.scrollTop && s.cursor.Row < s.scrollBottom {
		s.active.DeleteLines(s.cursor.Row, n, s.scrollBottom)
	}
}

func (s *Screen) scrollUp(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.ScrollUp(s.scrollTop, s.scrollBottom, n)
}

func (s *Screen) scrollDown(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.ScrollDown(s.scrollTop, s.scrollBottom, n)
}

func (s *Screen) setScrollingRegion(top, bottom int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Convert from 1-based to 0-based
	top--
	bottom--

	if top < 0 {
		top = 0
	}
	if bottom <= 0 || bottom > s.rows {
		bottom = s.rows
	}
	if top >= bottom {
		return
	}

	s.scrollTop = top
	s.scrollBottom = bottom

	// Move cursor to home position (considering origin mode)
	if s.modes&ModeOrigin != 0 {
		s.cursor.Row = s.scrollTop
	} else {
		s.cursor.Row = 0
	}
	s.cursor.Col = 0
}

func (s *Screen) decaln() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.FillWithE()
}

func (s *Screen) setMode(mode ansicode.TerminalMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setModeLocked(mode, true)
}

func (s *Screen) unsetMode(mode ansicode.TerminalMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setModeLocked(mode, false)
}

// setModeLocked sets or unsets a terminal mode (caller must hold lock).
func (s *Screen) setModeLocked(mode ansicode.TerminalMode, set bool) {
	var m ScreenMode

	switch mode {
	case ansicode.TerminalModeCursorKeys:
		m = ModeCursorKeys
	case ansicode.TerminalModeColumnMode:
		m = ModeColumnMode
	case ansicode.TerminalModeInsert:
		m = ModeInsert
	case ansicode.TerminalModeOrigin:
		m = ModeOrigin
		if set {
			s.cursor.Row = s.scrollTop
			s.cursor.Col = 0
		}
	case ansicode.TerminalModeLineWrap:
		m = ModeLineWrap
	case ansicode.TerminalModeBlinkingCursor:
		m = ModeBlinkingCursor
	case ansicode.TerminalModeLineFeedNewLine:
		m = ModeLineFeedNewLine
	case ansicode.TerminalModeShowCursor:
		m = ModeShowCursor
		s.cursor.Visible = set
	case ansicode.TerminalModeReportMouseClicks:
		m = ModeReportMouseClicks
	case ansicode.TerminalModeReportCellMouseMotion:
		m = ModeReportCellMouseMotion
	case ansicode.TerminalModeReportAllMouseMotion:
		m = ModeReportAllMouseMotion
	case ansicode.TerminalModeReportFocusInOut:
		m = ModeReportFocusInOut
	case ansicode.TerminalModeUTF8Mouse:
		m = ModeUTF8Mouse
	case ansicode.TerminalModeSGRMouse:
		m = ModeSGRMouse
	case ansicode.TerminalModeAlternateScroll:
		m = ModeAlternateScroll
	case ansicode.TerminalModeUrgencyHints:
		m = ModeUrgencyHints
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		m = ModeSwapScreenAndSetRestoreCursor
		if set {
			s.saveCursorPositionLocked()
			s.active = s.alternate
			s.active.ClearAll()
		} else {
			s.active = s.primary
			s.restoreCursorPositionLocked()
		}
	case ansicode.TerminalModeBracketedPaste:
		m = ModeBracketedPaste
	default:
		return
	}

	if set {
		s.modes |= m
	} else {
		s.modes &^= m
	}
}

func (s *Screen) setCharAttribute(attr ansicode.TerminalCharAttribute) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch attr.Attr {
	case ansicode.CharAttributeReset:
		s.template = NewCellTemplate()

	case ansicode.CharAttributeBold:
		s.template.SetFlag(CellFlagBold)

	case ansicode.CharAttributeDim:
		s.template.SetFlag(CellFlagDim)

	case ansicode.CharAttributeItalic:
		s.template.SetFlag(CellFlagItalic)

	case ansicode.CharAttributeUnderline:
		s.template.SetFlag(CellFlagUnderline)
		s.template.ClearFlag(CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case ansicode.CharAttributeDoubleUnderline:
		s.template.SetFlag(CellFlagDoubleUnderline)
		s.template.ClearFlag(CellFlagUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case ansicode.CharAttributeCurlyUnderline:
		s.template.SetFlag(CellFlagCurlyUnderline)
		s.template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case ansicode.CharAttributeDottedUnderline:
		s.template.SetFlag(CellFlagDottedUnderline)
		s.template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDashedUnderline)

	case ansicode.CharAttributeDashedUnderline:
		s.template.SetFlag(CellFlagDashedUnderline)
		s.template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline)

	case ansicode.CharAttributeBlinkSlow:
		s.template.SetFlag(CellFlagBlinkSlow)

	case ansicode.CharAttributeBlinkFast:
		s.template.SetFlag(CellFlagBlinkFast)

	case ansicode.CharAttributeReverse:
		s.template.SetFlag(CellFlagReverse)

	case ansicode.CharAttributeHidden:
		s.template.SetFlag(CellFlagHidden)

	case ansicode.CharAttributeStrike:
		s.template.SetFlag(CellFlagStrike)

	case ansicode.CharAttributeCancelBold:
		s.template.ClearFlag(CellFlagBold)

	case ansicode.CharAttributeCancelBoldDim:
		s.template.ClearFlag(CellFlagBold | CellFlagDim)

	case ansicode.CharAttributeCancelItalic:
		s.template.ClearFlag(CellFlagItalic)

	case ansicode.CharAttributeCancelUnderline:
		s.template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case ansicode.CharAttributeCancelBlink:
		s.template.ClearFlag(CellFlagBlinkSlow | CellFlagBlinkFast)

	case ansicode.CharAttributeCancelReverse:
		s.template.ClearFlag(CellFlagReverse)

	case ansicode.CharAttributeCancelHidden:
		s.template.ClearFlag(CellFlagHidden)

	case ansicode.CharAttributeCancelStrike:
		s.template.ClearFlag(CellFlagStrike)

	case ansicode.CharAttributeForeground:
		s.template.Fg = resolveAttrColor(attr)

	case ansicode.CharAttributeBackground:
		s.template.Bg = resolveAttrColor(attr)

	case ansicode.CharAttributeUnderlineColor:
		if attr.RGBColor == nil && attr.IndexedColor == nil && attr.NamedColor == nil {
			s.template.UnderlineColor = nil
		} else {
			s.template.UnderlineColor = resolveAttrColor(attr)
		}
	}
}

// resolveAttrColor resolves the color from an SGR attribute.
// Returns a NamedColor default when no specific color is provided.
func resolveAttrColor(attr ansicode.TerminalCharAttribute) color.Color {
	if attr.RGBColor != nil {
		return color.RGBA{
			R: attr.RGBColor.R,
			G: attr.RGBColor.G,
			B: attr.RGBColor.B,
			A: 255,
		}
	}

	if attr.IndexedColor != nil {
		return &IndexedColor{Index: int(attr.IndexedColor.Index)}
	}

	if attr.NamedColor != nil {
		return &NamedColor{Name: int(*attr.NamedColor)}
	}

	// Return appropriate default based on attribute type
	switch attr.Attr {
	case ansicode.CharAttributeForeground:
		return &NamedColor{Name: NamedColorForeground}
	case ansicode.CharAttributeBackground:
		return &NamedColor{Name: NamedColorBackground}
	default:
		return &NamedColor{Name: NamedColorForeground}
	}
}

func (s *Screen) configureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := CharsetIndex(index)
	cs := Charset(charset)

	if idx >= 0 && idx <= CharsetIndexG3 {
		s.charsets[idx] = cs
	}
}

func (s *Screen) setActiveCharset(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n >= 0 && n < 4 {
		s.activeCharset = n
	}
}

func (s *Screen) setCursorStyle(style ansicode.CursorStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Style = CursorStyle(style)
}

func (s *Screen) setTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.title = title
	if s.titleProvider != nil {
		s.titleProvider.SetTitle(title)
	}
}

func (s *Screen) pushTitle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.titleStack = append(s.titleStack, s.title)
	if s.titleProvider != nil {
		s.titleProvider.PushTitle()
	}
}

func (s *Screen) popTitle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.titleStack) > 0 {
		s.title = s.titleStack[len(s.titleStack)-1]
		s.titleStack = s.titleStack[:len(s.titleStack)-1]
	}
	if s.titleProvider != nil {
		s.titleProvider.PopTitle()
	}
}

func (s *Screen) setColor(index int, c color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.colors[index] = c
}

func (s *Screen) resetColor(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.colors, i)
}

func (s *Screen) setDynamicColor(prefix string, index int, terminator string) {
	s.mu.RLock()
	c, ok := s.colors[index]
	s.mu.RUnlock()

	var response string
	if ok {
		rgba := resolveDefaultColor(c, true)
		response = fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, rgba.R, rgba.G, rgba.B, terminator)
	} else if index >= 0 && index < 256 {
		rgba := DefaultPalette[index]
		response = fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, rgba.R, rgba.G, rgba.B, terminator)
	}

	if response != "" {
		s.writeResponseString(response)
	}
}

func (s *Screen) setHyperlink(hyperlink *ansicode.Hyperlink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hyperlink == nil {
		s.currentHyperlink = nil
	} else {
		s.currentHyperlink = &Hyperlink{
			ID:  hyperlink.ID,
			URI: hyperlink.URI,
		}
	}
}

func (s *Screen) clipboardStore(clipboard byte, data []byte) {
	s.mu.RLock()
	provider := s.clipboardProvider
	s.mu.RUnlock()

	if provider != nil {
		provider.Write(clipboard, data)
	}
}

func (s *Screen) clipboardLoad(clipboard byte, terminator string) {
	s.mu.RLock()
	provider := s.clipboardProvider
	s.mu.RUnlock()

	if provider == nil {
		return
	}
	content := provider.Read(clipboard)
	if content != "" {
		// OSC 52 response: OSC 52 ; clipboard ; base64-data ST
		encoded := base64.StdEncoding.EncodeToString([]byte(content))
		response := "\x1b]52;" + string(clipboard) + ";" + encoded + terminator
		s.writeResponseString(response)
	}
}

func (s *Screen) setWorkingDirectory(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workingDir = uri
}

func (s *Screen) notify(payload *NotificationPayload) {
	s.mu.RLock()
	provider := s.notificationProvider
	s.mu.RUnlock()

	if provider == nil {
		return
	}
	if response := provider.Notify(payload); response != "" {
		s.writeResponseString(response)
	}
}

func (s *Screen) recordPromptMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.promptMarks = append(s.promptMarks, PromptMark{
		Type:     mark,
		Row:      s.cursor.Row + s.primary.ScrolledOff(),
		ExitCode: exitCode,
	})
}

func (s *Screen) deviceStatus(n int) {
	s.mu.RLock()
	row := s.cursor.Row
	col := s.cursor.Col
	s.mu.RUnlock()

	var response string
	switch n {
	case 5:
		// Device status report - terminal is ready
		response = "\x1b[0n"
	case 6:
		// Cursor position report (1-based)
		response = fmt.Sprintf("\x1b[%d;%dR", row+1, col+1)
	}

	if response != "" {
		s.writeResponseString(response)
	}
}

func (s *Screen) identifyTerminal(b byte) {
	// Default: identify as VT220
	response := "\x1b[?62;c"
	s.writeResponseString(response)
}

func (s *Screen) reportKeyboardMode() {
	s.mu.RLock()
	var mode ansicode.KeyboardMode
	if len(s.keyboardModes) > 0 {
		mode = s.keyboardModes[len(s.keyboardModes)-1]
	}
	s.mu.RUnlock()

	response := fmt.Sprintf("\x1b[?%du", mode)
	s.writeResponseString(response)
}

func (s *Screen) setKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
	s.mu.Lock()
	defer s.mu.Unlock()

	currentMode := ansicode.KeyboardModeNoMode
	if len(s.keyboardModes) > 0 {
		currentMode = s.keyboardModes[len(s.keyboardModes)-1]
	}

	var newMode ansicode.KeyboardMode
	switch behavior {
	case ansicode.KeyboardModeBehaviorReplace:
		newMode = mode
	case ansicode.KeyboardModeBehaviorUnion:
		newMode = currentMode | mode
	case ansicode.KeyboardModeBehaviorDifference:
		newMode = currentMode &^ mode
	}

	if len(s.keyboardModes) > 0 {
		s.keyboardModes[len(s.keyboardModes)-1] = newMode
	} else {
		s.keyboardModes = append(s.keyboardModes, newMode)
	}
}

func (s *Screen) pushKeyboardMode(mode ansicode.KeyboardMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keyboardModes = append(s.keyboardModes, mode)
}

func (s *Screen) popKeyboardMode(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n && len(s.keyboardModes) > 0; i++ {
		s.keyboardModes = s.keyboardModes[:len(s.keyboardModes)-1]
	}
}

func (s *Screen) setModifyOtherKeys(modify ansicode.ModifyOtherKeys) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.modifyOtherKeys = modify
}

func (s *Screen) reportModifyOtherKeys() {
	s.mu.RLock()
	modify := s.modifyOtherKeys
	s.mu.RUnlock()

	response := fmt.Sprintf("\x1b[>4;%dm", modify)
	s.writeResponseString(response)
}

func (s *Screen) setKeypadApplicationMode() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.modes |= ModeKeypadApplication
}

func (s *Screen) unsetKeypadApplicationMode() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.modes &^= ModeKeypadApplication
}

func (s *Screen) textAreaSizeChars() {
	s.mu.RLock()
	rows := s.rows
	cols := s.cols
	s.mu.RUnlock()

	// Default response: CSI 8 ; rows ; cols t
	response := fmt.Sprintf("\x1b[8;%d;%dt", rows, cols)
	s.writeResponseString(response)
}

func (s *Screen) textAreaSizePixels() {
	s.mu.RLock()
	rows := s.rows
	cols := s.cols
	s.mu.RUnlock()

	cellWidth, cellHeight := s.cellSize()

	// Default response: CSI 4 ; height ; width t
	response := fmt.Sprintf("\x1b[4;%d;%dt", rows*cellHeight, cols*cellWidth)
	s.writeResponseString(response)
}

func (s *Screen) cellSizePixels() {
	cellWidth, cellHeight := s.cellSize()

	// CSI 6 ; height ; width t
	response := fmt.Sprintf("\x1b[6;%d;%dt", cellHeight, cellWidth)
	s.writeResponseString(response)
}

// cellSize returns the cell size in pixels.
// Uses the SizeProvider if available, otherwise defaults to 10x20.
func (s *Screen) cellSize() (width, height int) {
	s.mu.RLock()
	provider := s.sizeProvider
	s.mu.RUnlock()

	if provider != nil {
		w, h := provider.CellSizePixels()
		if w > 0 && h > 0 {
			return w, h
		}
	}
	return 10, 20
}

func (s *Screen) resetState() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.ClearAll()
	s.cursor.Row = 0
	s.cursor.Col = 0
	s.cursor.Visible = true
	s.cursor.Style = CursorStyleBlinkingBlock

	s.template = NewCellTemplate()
	s.scrollTop = 0
	s.scrollBottom = s.rows
	s.modes = ModeLineWrap | ModeShowCursor

	s.charsets = [4]Charset{CharsetASCII, CharsetASCII, CharsetASCII, CharsetASCII}
	s.activeCharset = 0

	s.colors = make(map[int]color.Color)
	s.keyboardModes = make([]ansicode.KeyboardMode, 0)
	s.currentHyperlink = nil
}

func (s *Screen) apcReceived(data []byte) {
	s.mu.RLock()
	provider := s.apcProvider
	s.mu.RUnlock()

	if provider != nil {
		provider.Receive(data)
	}
}

func (s *Screen) pmReceived(data []byte) {
	s.mu.RLock()
	provider := s.pmProvider
	s.mu.RUnlock()

	if provider != nil {
		provider.Receive(data)
	}
}

func (s *Screen) sosReceived(data []byte) {
	s.mu.RLock()
	provider := s.sosProvider
	s.mu.RUnlock()

	if provider != nil {
		provider.Receive(data)
	}
}

func (s *Screen) sixelReceived(params [][]uint16, data []byte) {
	// Graphics are not rendered; cell content is what matters here.
	s.logger.Debug("ignoring sixel payload", zap.Int("bytes", len(data)))
}

// --- Provider accessors ---

// SetResponseProvider sets the response provider at runtime.
func (s *Screen) SetResponseProvider(p ResponseProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responseProvider = p
}

// ResponseProvider returns the current response provider.
func (s *Screen) ResponseProvider() ResponseProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.responseProvider
}

// SetBellProvider sets the bell provider at runtime.
func (s *Screen) SetBellProvider(p BellProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bellProvider = p
}

// BellProvider returns the current bell provider.
func (s *Screen) BellProvider() BellProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bellProvider
}

// SetTitleProvider sets the title provider at runtime.
func (s *Screen) SetTitleProvider(p TitleProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titleProvider = p
}

// TitleProvider returns the current title provider.
func (s *Screen) TitleProvider() TitleProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.titleProvider
}

// SetAPCProvider sets the APC provider at runtime.
func (s *Screen) SetAPCProvider(p APCProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apcProvider = p
}

// APCProvider returns the current APC provider.
func (s *Screen) APCProvider() APCProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apcProvider
}

// SetPMProvider sets the PM provider at runtime.
func (s *Screen) SetPMProvider(p PMProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pmProvider = p
}

// PMProvider returns the current PM provider.
func (s *Screen) PMProvider() PMProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pmProvider
}

// SetSOSProvider sets the SOS provider at runtime.
func (s *Screen) SetSOSProvider(p SOSProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sosProvider = p
}

// SOSProvider returns the current SOS provider.
func (s *Screen) SOSProvider() SOSProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sosProvider
}

// SetClipboardProvider sets the clipboard provider at runtime.
func (s *Screen) SetClipboardProvider(c ClipboardProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboardProvider = c
}

// ClipboardProvider returns the current clipboard provider.
func (s *Screen) ClipboardProvider() ClipboardProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clipboardProvider
}

// SetSizeProvider sets the provider for pixel dimension queries.
func (s *Screen) SetSizeProvider(p SizeProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sizeProvider = p
}

// SizeProvider returns the current size provider.
func (s *Screen) SizeProvider() SizeProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sizeProvider
}

// SetNotificationProvider sets the notification provider at runtime.
func (s *Screen) SetNotificationProvider(p NotificationProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notificationProvider = p
}

// NotificationProvider returns the current notification provider.
func (s *Screen) NotificationProvider() NotificationProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notificationProvider
}

// --- Scrollback Methods ---

// ScrollbackLen returns the number of lines stored in scrollback (primary grid only).
func (s *Screen) ScrollbackLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primary.ScrollbackLen()
}

// ScrollbackLine returns a line from scrollback, where 0 is the oldest line.
// Returns nil if index is out of range.
func (s *Screen) ScrollbackLine(index int) []Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primary.ScrollbackLine(index)
}

// ClearScrollback removes all stored scrollback lines.
func (s *Screen) ClearScrollback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary.ClearScrollback()
}

// SetMaxScrollback sets the maximum number of scrollback lines to retain.
// Older lines are automatically removed when the limit is exceeded.
func (s *Screen) SetMaxScrollback(max int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary.SetMaxScrollback(max)
}

// MaxScrollback returns the current maximum scrollback capacity.
func (s *Screen) MaxScrollback() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primary.MaxScrollback()
}

// SetScrollbackProvider replaces the scrollback storage implementation at runtime.
func (s *Screen) SetScrollbackProvider(storage ScrollbackProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollbackStorage = storage
	s.primary.SetScrollbackProvider(storage)
}

// ScrollbackProvider returns the current scrollback storage implementation.
func (s *Screen) ScrollbackProvider() ScrollbackProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primary.ScrollbackProvider()
}

// --- Dirty Tracking Methods ---

// HasDirty returns true if any cell in the active grid was modified since the last ClearDirty call.
func (s *Screen) HasDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.HasDirty()
}

// DirtyCells returns positions of all cells modified since the last ClearDirty call.
func (s *Screen) DirtyCells() []Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.DirtyCells()
}

// ClearDirty marks all cells as clean, resetting the dirty tracking state.
func (s *Screen) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active.ClearAllDirty()
}

// --- Selection Methods ---

// SetSelection sets the active text selection region.
// Start and end are automatically normalized so start is before or equal to end.
func (s *Screen) SetSelection(start, end Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Normalize: ensure start is before end
	if end.Before(start) {
		start, end = end, start
	}

	s.selection = Selection{
		Start:  start,
		End:    end,
		Active: true,
	}
}

// ClearSelection deactivates the current selection.
func (s *Screen) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Active = false
}

// GetSelection returns the current selection state.
func (s *Screen) GetSelection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// HasSelection returns true if a selection is currently active.
func (s *Screen) HasSelection() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection.Active
}

// IsSelected returns true if the cell at (row, col) is within the active selection.
func (s *Screen) IsSelected(row, col int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.selection.Active {
		return false
	}

	pos := Position{Row: row, Col: col}
	start := s.selection.Start
	end := s.selection.End

	if pos.Before(start) {
		return false
	}
	if end.Before(pos) {
		return false
	}
	return true
}

// GetSelectedText extracts and returns the text content within the active selection.
// Empty cells are converted to spaces, and newlines separate rows.
func (s *Screen) GetSelectedText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.selection.Active {
		return ""
	}

	start := s.selection.Start
	end := s.selection.End

	var result []rune

	for row := start.Row; row <= end.Row && row < s.rows; row++ {
		startCol := 0
		endCol := s.cols

		if row == start.Row {
			startCol = start.Col
		}
		if row == end.Row {
			endCol = end.Col + 1
		}

		for col := startCol; col < endCol && col < s.cols; col++ {
			cell := s.active.Cell(row, col)
			if cell != nil && !cell.IsWideSpacer() {
				if cell.Char == 0 {
					result = append(result, ' ')
				} else {
					result = append(result, cell.Char)
				}
			}
		}

		// Add newline between rows (but not after last row)
		if row < end.Row {
			result = append(result, '\n')
		}
	}

	return string(result)
}

// --- Convenience Methods ---

// LineContent returns the text content of a line, trimming trailing spaces.
// Returns empty string if the line contains only spaces or is out of bounds.
func (s *Screen) LineContent(row int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.LineContent(row)
}

// String returns the visible screen content as a newline-separated string.
// Trailing empty lines are omitted. Implements fmt.Stringer.
func (s *Screen) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var lines []string
	lastNonEmpty := -1

	for row := range make([]struct{}, s.rows) {
		line := s.active.LineContent(row)
		lines = append(lines, line)
		if line != "" {
			lastNonEmpty = row
		}
	}

	if lastNonEmpty < 0 {
		return ""
	}

	result := ""
	for i, line := range lines[:lastNonEmpty+1] {
		if i > 0 {
			result += "\n"
		}
		result += line
	}

	return result
}

// Search finds all occurrences of pattern in the visible screen content.
// Returns positions of the first character of each match.
func (s *Screen) Search(pattern string) []Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if pattern == "" {
		return nil
	}

	var matches []Position
	patternRunes := []rune(pattern)

	for row := 0; row < s.rows; row++ {
		line := s.active.LineContent(row)
		lineRunes := []rune(line)

		for col := 0; col <= len(lineRunes)-len(patternRunes); col++ {
			found := true
			for i, pr := range patternRunes {
				if lineRunes[col+i] != pr {
					found = false
					break
				}
			}
			if found {
				matches = append(matches, Position{Row: row, Col: col})
			}
		}
	}

	return matches
}

// SearchScrollback finds all occurrences of pattern in scrollback lines.
// Returned row values are negative, where -1 is the most recent scrollback line.
func (s *Screen) SearchScrollback(pattern string) []Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if pattern == "" {
		return nil
	}

	var matches []Position
	patternRunes := []rune(pattern)
	scrollbackLen := s.primary.ScrollbackLen()

	for i := 0; i < scrollbackLen; i++ {
		line := s.primary.ScrollbackLine(i)
		if line == nil {
			continue
		}

		var lineRunes []rune
		for _, cell := range line {
			if cell.IsWideSpacer() {
				continue
			}
			if cell.Char == 0 {
				lineRunes = append(lineRunes, ' ')
			} else {
				lineRunes = append(lineRunes, cell.Char)
			}
		}

		for col := 0; col <= len(lineRunes)-len(patternRunes); col++ {
			found := true
			for j, pr := range patternRunes {
				if lineRunes[col+j] != pr {
					found = false
					break
				}
			}
			if found {
				// Negative row indicates scrollback (0 is oldest)
				matches = append(matches, Position{Row: -(scrollbackLen - i), Col: col})
			}
		}
	}

	return matches
}

// IsAlternateScreen returns true if the alternate grid is currently active.
// The alternate grid has no scrollback and is typically used by full-screen applications.
func (s *Screen) IsAlternateScreen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active == s.alternate
}

// ScrollRegion returns the current scrolling boundaries (0-based, exclusive bottom).
// When origin mode is enabled, cursor positioning is relative to scrollTop.
func (s *Screen) ScrollRegion() (top, bottom int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scrollTop, s.scrollBottom
}

// IsWrapped returns true if the line was wrapped due to column overflow, false if it ended with an explicit newline.
func (s *Screen) IsWrapped(row int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.IsWrapped(row)
}

// SetWrapped sets whether the line was wrapped or ended with an explicit newline.
func (s *Screen) SetWrapped(row int, wrapped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active.SetWrapped(row, wrapped)
}

// --- Absolute Row Methods ---
//
// Logical (absolute) rows number every line the primary screen has ever
// produced, starting at 0. A line keeps its logical row as it scrolls
// into scrollback and even after eviction drops its content; only text
// extraction degrades for evicted rows. Block segmentation records its
// row ranges in this coordinate space.

// AbsoluteCursorRow returns the cursor row in absolute coordinates:
// the total lines scrolled off plus the cursor's row on the grid.
func (s *Screen) AbsoluteCursorRow() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor.Row + s.primary.ScrolledOff()
}

// AbsoluteCursorPos returns the cursor position with the row in
// absolute coordinates.
func (s *Screen) AbsoluteCursorPos() Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Position{Row: s.cursor.Row + s.primary.ScrolledOff(), Col: s.cursor.Col}
}

// TotalRows returns the total line count in absolute coordinates:
// lines scrolled off plus visible rows.
func (s *Screen) TotalRows() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primary.ScrolledOff() + s.rows
}

// AbsoluteLine returns the text content of the line at the given
// absolute row, reading from scrollback or the primary grid as needed.
// Returns empty string for evicted or out-of-range rows.
func (s *Screen) AbsoluteLine(absRow int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cellsToString(s.absoluteCellsLocked(absRow))
}

// absoluteCellsLocked resolves an absolute row to its cells, or nil for
// evicted and out-of-range rows. Caller must hold at least a read lock.
func (s *Screen) absoluteCellsLocked(absRow int) []Cell {
	if absRow < 0 {
		return nil
	}

	scrolledOff := s.primary.ScrolledOff()
	if absRow < scrolledOff {
		// Scrollback retains the newest lines; older ones are gone.
		index := absRow - (scrolledOff - s.primary.ScrollbackLen())
		if index < 0 {
			return nil
		}
		return s.primary.ScrollbackLine(index)
	}

	gridRow := absRow - scrolledOff
	if gridRow >= s.rows {
		return nil
	}

	cells := make([]Cell, s.cols)
	for col := 0; col < s.cols; col++ {
		if cell := s.primary.Cell(gridRow, col); cell != nil {
			cells[col] = *cell
		}
	}
	return cells
}

func (s *Screen) absoluteLineLocked(absRow int) string {
	return cellsToString(s.absoluteCellsLocked(absRow))
}

// activeRowCellsLocked copies one visible row from the active grid.
// Caller must hold at least a read lock.
func (s *Screen) activeRowCellsLocked(row int) []Cell {
	cells := make([]Cell, s.cols)
	for col := 0; col < s.cols; col++ {
		if cell := s.active.Cell(row, col); cell != nil {
			cells[col] = *cell
		}
	}
	return cells
}

// LinePrefix returns the text of an absolute row from column 0 up to
// endCol (exclusive) without trimming trailing spaces. Wide character
// spacers are skipped. Used for prompt pattern matching against lines
// still being printed.
func (s *Screen) LinePrefix(absRow, endCol int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cells := s.absoluteCellsLocked(absRow)
	if cells == nil {
		return ""
	}
	if endCol > len(cells) {
		endCol = len(cells)
	}

	var runes []rune
	for col := 0; col < endCol; col++ {
		cell := &cells[col]
		if cell.IsWideSpacer() {
			continue
		}
		if cell.Char == 0 {
			runes = append(runes, ' ')
		} else {
			runes = append(runes, cell.Char)
		}
	}
	return string(runes)
}

// TextInRange extracts text between two positions in absolute
// coordinates: from (startRow, startCol) inclusive to (endRow, endCol)
// exclusive. Rows that were soft-wrapped join without a newline;
// explicit line breaks join with one. Trailing spaces are trimmed per
// row. Evicted rows contribute nothing.
func (s *Screen) TextInRange(startRow, startCol, endRow, endCol int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if startRow > endRow || (startRow == endRow && startCol >= endCol) {
		return ""
	}

	scrolledOff := s.primary.ScrolledOff()
	result := ""

	for absRow := startRow; absRow <= endRow; absRow++ {
		cells := s.absoluteCellsLocked(absRow)
		if cells == nil {
			continue
		}

		from := 0
		to := len(cells)
		if absRow == startRow {
			from = startCol
		}
		if absRow == endRow {
			to = endCol
		}
		if from < 0 {
			from = 0
		}
		if to > len(cells) {
			to = len(cells)
		}
		if from >= to {
			continue
		}

		segment := cellsToString(cells[from:to])

		if result != "" {
			// Wrapped flags only survive for rows still on the grid
			gridRow := absRow - 1 - scrolledOff
			if gridRow < 0 || !s.primary.IsWrapped(gridRow) {
				result += "\n"
			}
		}
		result += segment
	}

	return result
}

// TextBetween extracts text from startRow (inclusive) to endRow
// (exclusive) in absolute coordinates. Soft-wrapped rows join without a
// newline so logical lines come back whole; explicit breaks join with
// one. Trailing empty lines are trimmed. Content is read from
// scrollback and the primary grid; the alternate grid never
// participates.
func (s *Screen) TextBetween(startRow, endRow int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textBetweenLocked(startRow, endRow)
}

func (s *Screen) textBetweenLocked(startRow, endRow int) string {
	if startRow < 0 {
		startRow = 0
	}

	scrolledOff := s.primary.ScrolledOff()

	var lines []string
	for absRow := startRow; absRow < endRow; absRow++ {
		line := s.absoluteLineLocked(absRow)
		if absRow > startRow && len(lines) > 0 {
			// Wrapped flags only survive for rows still on the grid
			gridRow := absRow - 1 - scrolledOff
			if gridRow >= 0 && s.primary.IsWrapped(gridRow) {
				lines[len(lines)-1] += line
				continue
			}
		}
		lines = append(lines, line)
	}

	lastNonEmpty := -1
	for i, line := range lines {
		if line != "" {
			lastNonEmpty = i
		}
	}

	if lastNonEmpty < 0 {
		return ""
	}

	result := ""
	for i := 0; i <= lastNonEmpty; i++ {
		if i > 0 {
			result += "\n"
		}
		result += lines[i]
	}

	return result
}

// --- Prompt Mark Methods ---

// PromptMarks returns all recorded prompt marks.
func (s *Screen) PromptMarks() []PromptMark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return a copy to prevent external modification
	marks := make([]PromptMark, len(s.promptMarks))
	copy(marks, s.promptMarks)
	return marks
}

// PromptMarkCount returns the number of recorded prompt marks.
func (s *Screen) PromptMarkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.promptMarks)
}

// ClearPromptMarks removes all recorded prompt marks.
func (s *Screen) ClearPromptMarks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promptMarks = nil
}

// NextPromptRow returns the absolute row of the next prompt mark after the given absolute row.
// Returns -1 if no next prompt exists.
// If markType is specified (not -1), only returns marks of that type.
func (s *Screen) NextPromptRow(currentAbsRow int, markType ansicode.ShellIntegrationMark) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, mark := range s.promptMarks {
		if mark.Row > currentAbsRow {
			if markType == -1 || mark.Type == markType {
				return mark.Row
			}
		}
	}
	return -1
}

// PrevPromptRow returns the absolute row of the previous prompt mark before the given absolute row.
// Returns -1 if no previous prompt exists.
// If markType is specified (not -1), only returns marks of that type.
func (s *Screen) PrevPromptRow(currentAbsRow int, markType ansicode.ShellIntegrationMark) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.promptMarks) - 1; i >= 0; i-- {
		mark := s.promptMarks[i]
		if mark.Row < currentAbsRow {
			if markType == -1 || mark.Type == markType {
				return mark.Row
			}
		}
	}
	return -1
}

// GetPromptMarkAt returns the prompt mark at the given absolute row, or nil if none exists.
func (s *Screen) GetPromptMarkAt(absRow int) *PromptMark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.promptMarks {
		if s.promptMarks[i].Row == absRow {
			mark := s.promptMarks[i]
			return &mark
		}
	}
	return nil
}

// GetLastCommandOutput returns the output of the last executed command.
// It finds the text between the last CommandExecuted (C) mark and the last CommandFinished (D) mark.
// Returns empty string if no complete command output is available.
func (s *Screen) GetLastCommandOutput() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.promptMarks) == 0 {
		return ""
	}

	// Find the last CommandExecuted and CommandFinished marks
	var lastExecuted, lastFinished *PromptMark
	for i := len(s.promptMarks) - 1; i >= 0; i-- {
		mark := &s.promptMarks[i]
		if lastFinished == nil && mark.Type == ansicode.CommandFinished {
			lastFinished = mark
		}
		if lastExecuted == nil && mark.Type == ansicode.CommandExecuted {
			lastExecuted = mark
		}
		// Once we have both, check if they form a valid pair
		if lastExecuted != nil && lastFinished != nil {
			// CommandExecuted must come before CommandFinished
			if lastExecuted.Row < lastFinished.Row {
				break
			}
			// Invalid pair, continue searching
			lastFinished = nil
			lastExecuted = nil
		}
	}

	if lastExecuted == nil || lastFinished == nil {
		return ""
	}

	return s.textBetweenLocked(lastExecuted.Row, lastFinished.Row)
}

// --- User Variable Methods ---

// SetUserVar stores a user variable (OSC 1337 SetUserVar).
// Values arrive base64-decoded from the parser.
func (s *Screen) SetUserVar(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userVars[name] = value
}

// GetUserVar returns the value of a user variable, or empty string if not set.
func (s *Screen) GetUserVar(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userVars[name]
}

// GetUserVars returns a copy of all user variables.
func (s *Screen) GetUserVars() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vars := make(map[string]string, len(s.userVars))
	for k, v := range s.userVars {
		vars[k] = v
	}
	return vars
}

// ClearUserVars removes all user variables.
func (s *Screen) ClearUserVars() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userVars = make(map[string]string)
}

// --- Working Directory Methods ---

// WorkingDirectory returns the current working directory URI (OSC 7).
func (s *Screen) WorkingDirectory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workingDir
}

// WorkingDirectoryPath extracts the path from the working directory URI.
func (s *Screen) WorkingDirectoryPath() string {
	s.mu.RLock()
	uri := s.workingDir
	s.mu.RUnlock()

	if uri == "" {
		return ""
	}

	// Parse file://hostname/path
	const prefix = "file://"
	if len(uri) <= len(prefix) {
		return ""
	}
	if uri[:len(prefix)] != prefix {
		return ""
	}
	rest := uri[len(prefix):]

	// Find the path after hostname
	slashIdx := -1
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			slashIdx = i
			break
		}
	}
	if slashIdx < 0 {
		return ""
	}
	return rest[slashIdx:]
}
