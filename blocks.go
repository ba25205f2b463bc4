package blockterm

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/danielgatis/go-ansicode"
	"go.uber.org/zap"
)

// DefaultPromptPattern matches common shell prompts at the start of a
// line: an optional user@host:path prefix followed by one of $ # > %
// and a space. Deployments with unusual prompts should supply their
// own pattern.
var DefaultPromptPattern = regexp.MustCompile(`^[\w@.~:/\-]*[$#>%] `)

// promptScanLimit bounds how far into a line the heuristic looks for a
// prompt. Columns past it never trigger a match.
const promptScanLimit = 64

// NavigateDirection selects a traversal target for Navigate.
type NavigateDirection int

const (
	// NavigatePrevious selects the block before the current one.
	NavigatePrevious NavigateDirection = iota
	// NavigateNext selects the block after the current one.
	NavigateNext
	// NavigateFirst selects the oldest block.
	NavigateFirst
	// NavigateLast selects the newest block.
	NavigateLast
)

// BlockManager segments the action stream into command blocks. It
// observes each action after the Screen has applied it, so cursor and
// grid state reflect the action's effect.
//
// Segmentation runs in one of two modes, selected automatically. Until
// a shell integration mark (OSC 133) is seen, printed lines are matched
// against a prompt pattern at column 0 and each match closes the
// current block and opens the next. Once a mark arrives the exact
// hook protocol takes over for the rest of the session: A closes any
// open block, B opens one at the cursor, C fixes the command text from
// the grid and starts output, D finalizes with the exit code.
//
// Observe must be called from a single goroutine (the session's ingest
// loop); all other methods are safe to call concurrently with it.
type BlockManager struct {
	mu     sync.RWMutex
	screen *Screen

	blocks    []Block
	openIndex int // index into blocks of the running block, -1 if none
	nextID    int

	// Hook mode state
	hookSeen     bool
	commandStart *Position // B mark position, pending until C

	// Heuristic mode state
	promptRe        *regexp.Regexp
	matchedRow      int  // last row that matched, so a row fires at most once
	awaitingCommand bool // set at open, cleared by the first line feed

	listeners []func(Block)
	logger    *zap.Logger
}

// NewBlockManager creates a manager observing the given screen.
// A nil promptPattern selects DefaultPromptPattern.
func NewBlockManager(screen *Screen, promptPattern *regexp.Regexp) *BlockManager {
	if promptPattern == nil {
		promptPattern = DefaultPromptPattern
	}

	return &BlockManager{
		screen:     screen,
		openIndex:  -1,
		nextID:     1,
		promptRe:   promptPattern,
		matchedRow: -1,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for block lifecycle events.
func (m *BlockManager) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// AddListener registers a callback invoked with a copy of every block
// as it is finalized. Callbacks run on the observing goroutine, after
// the manager's lock is released; they may call back into the manager.
func (m *BlockManager) AddListener(fn func(Block)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Observe updates block segmentation state for one applied action.
func (m *BlockManager) Observe(action Action) {
	m.mu.Lock()

	var finalized *Block
	switch a := action.(type) {
	case ActionShellMark:
		finalized = m.observeMarkLocked(a.Mark, a.ExitCode)
	case ActionPrint:
		finalized = m.observePrintLocked()
	case ActionLineFeed:
		m.observeLineFeedLocked()
	case ActionClearScreen:
		// A full clear wipes the matched prompt line; the row may
		// legitimately host a new prompt afterwards.
		if a.Mode == ansicode.ClearModeAll || a.Mode == ansicode.ClearModeSaved {
			m.matchedRow = -1
		}
	case ActionResetState:
		m.matchedRow = -1
	}

	listeners := m.listeners
	m.mu.Unlock()

	if finalized != nil {
		for _, fn := range listeners {
			fn(*finalized)
		}
	}
}

// FinalizeInterrupted closes the open block as interrupted. The session
// calls this when the child process exits without a command-finished
// boundary, and on teardown.
func (m *BlockManager) FinalizeInterrupted() {
	m.mu.Lock()

	var finalized *Block
	if m.openIndex >= 0 {
		if !m.hookSeen {
			m.captureHeuristicCommandLocked(m.blocks[m.openIndex].StartRow)
		}

		pos := m.screen.AbsoluteCursorPos()
		end := pos.Row
		if pos.Col > 0 {
			// A partial last line still belongs to the block
			end++
		}
		finalized = m.finalizeOpenLocked(BlockInterrupted, ExitUnknown, end)
	}

	listeners := m.listeners
	m.mu.Unlock()

	if finalized != nil {
		for _, fn := range listeners {
			fn(*finalized)
		}
	}
}

// HookActive returns true once a shell integration mark has been seen
// and exact segmentation is in effect.
func (m *BlockManager) HookActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hookSeen
}

// Len returns the number of blocks in the index, including an open one.
func (m *BlockManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blocks)
}

// Blocks returns a copy of the block index in temporal order.
func (m *BlockManager) Blocks() []Block {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blocks := make([]Block, len(m.blocks))
	copy(blocks, m.blocks)
	return blocks
}

// Block returns the block with the given ID.
func (m *BlockManager) Block(id int) (Block, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.blocks {
		if m.blocks[i].ID == id {
			return m.blocks[i], true
		}
	}
	return Block{}, false
}

// OpenBlock returns the currently running block, if any.
func (m *BlockManager) OpenBlock() (Block, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.openIndex < 0 {
		return Block{}, false
	}
	return m.blocks[m.openIndex], true
}

// BlockAt returns the block covering the given absolute row. The open
// block extends to the end of the screen. When ranges overlap after a
// screen clear, the newest block wins.
func (m *BlockManager) BlockAt(absRow int) (Block, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.blocks) - 1; i >= 0; i-- {
		b := &m.blocks[i]
		if absRow < b.StartRow {
			continue
		}
		if b.Status == BlockRunning || absRow < b.EndRow {
			return *b, true
		}
	}
	return Block{}, false
}

// Navigate returns the block reached by moving from the block with
// currentID in the given direction. For Previous and Next, a currentID
// not in the index starts from the newest or oldest block respectively.
func (m *BlockManager) Navigate(currentID int, dir NavigateDirection) (Block, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.blocks) == 0 {
		return Block{}, false
	}

	switch dir {
	case NavigateFirst:
		return m.blocks[0], true
	case NavigateLast:
		return m.blocks[len(m.blocks)-1], true
	}

	index := -1
	for i := range m.blocks {
		if m.blocks[i].ID == currentID {
			index = i
			break
		}
	}

	switch dir {
	case NavigatePrevious:
		if index < 0 {
			return m.blocks[len(m.blocks)-1], true
		}
		if index == 0 {
			return Block{}, false
		}
		return m.blocks[index-1], true
	case NavigateNext:
		if index < 0 {
			return m.blocks[0], true
		}
		if index == len(m.blocks)-1 {
			return Block{}, false
		}
		return m.blocks[index+1], true
	}

	return Block{}, false
}

// BlockText returns the full text of a block, command line included.
// Rows evicted from scrollback contribute nothing.
func (m *BlockManager) BlockText(id int) (string, bool) {
	b, ok := m.Block(id)
	if !ok {
		return "", false
	}
	return m.screen.TextBetween(b.StartRow, m.blockEndRow(b)), true
}

// BlockOutput returns the output portion of a block, without the
// command line. Rows evicted from scrollback contribute nothing.
func (m *BlockManager) BlockOutput(id int) (string, bool) {
	b, ok := m.Block(id)
	if !ok {
		return "", false
	}
	return m.screen.TextBetween(b.OutputRow, m.blockEndRow(b)), true
}

// blockEndRow resolves the exclusive end row for text extraction; an
// open block extends to the current end of the screen.
func (m *BlockManager) blockEndRow(b Block) int {
	if b.Status == BlockRunning {
		return m.screen.TotalRows()
	}
	return b.EndRow
}

// SetPinned marks a block as pinned. Returns false if no block has the
// given ID.
func (m *BlockManager) SetPinned(id int, pinned bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.blocks {
		if m.blocks[i].ID == id {
			m.blocks[i].Pinned = pinned
			return true
		}
	}
	return false
}

// SetFolded marks a block's output as folded. Returns false if no
// block has the given ID.
func (m *BlockManager) SetFolded(id int, folded bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.blocks {
		if m.blocks[i].ID == id {
			m.blocks[i].Folded = folded
			return true
		}
	}
	return false
}

// --- Hook mode ---

func (m *BlockManager) observeMarkLocked(mark ansicode.ShellIntegrationMark, exitCode int) *Block {
	if !m.hookSeen {
		m.hookSeen = true
		m.logger.Info("shell integration detected, exact block boundaries active")
	}

	pos := m.screen.AbsoluteCursorPos()

	switch mark {
	case ansicode.PromptStart:
		// A new prompt implies the previous command is done even if
		// its D mark never arrived.
		if m.openIndex >= 0 {
			return m.finalizeOpenLocked(BlockCompleted, ExitUnknown, m.closeRowLocked(pos))
		}

	case ansicode.CommandStart:
		var closed *Block
		if m.openIndex >= 0 {
			closed = m.finalizeOpenLocked(BlockCompleted, ExitUnknown, m.closeRowLocked(pos))
		}
		m.openBlockLocked(pos.Row, pos.Row)
		m.commandStart = &pos
		return closed

	case ansicode.CommandExecuted:
		if m.openIndex < 0 {
			// C without B: track the output anyway
			m.openBlockLocked(pos.Row, pos.Row)
			return nil
		}

		open := &m.blocks[m.openIndex]
		if m.commandStart != nil {
			raw := strings.TrimSpace(m.screen.TextInRange(
				m.commandStart.Row, m.commandStart.Col, pos.Row, pos.Col))
			if raw != "" {
				cmd := NewCommand(raw)
				cmd.WorkingDir = m.screen.WorkingDirectoryPath()
				open.Command = cmd
			}
			m.commandStart = nil
		}
		if pos.Row > open.OutputRow {
			open.OutputRow = pos.Row
		}

	case ansicode.CommandFinished:
		if m.openIndex >= 0 {
			return m.finalizeOpenLocked(BlockCompleted, exitCode, m.closeRowLocked(pos))
		}
	}

	return nil
}

// closeRowLocked picks the exclusive end row when closing at pos: a
// partially printed line still belongs to the closing block.
func (m *BlockManager) closeRowLocked(pos Position) int {
	if pos.Col > 0 {
		return pos.Row + 1
	}
	return pos.Row
}

// --- Heuristic mode ---

func (m *BlockManager) observePrintLocked() *Block {
	if m.hookSeen || m.screen.IsAlternateScreen() {
		return nil
	}

	pos := m.screen.AbsoluteCursorPos()
	if pos.Col == 0 || pos.Col > promptScanLimit || pos.Row == m.matchedRow {
		return nil
	}

	prefix := m.screen.LinePrefix(pos.Row, pos.Col)
	loc := m.promptRe.FindStringIndex(prefix)
	if loc == nil || loc[0] != 0 {
		return nil
	}

	m.matchedRow = pos.Row
	m.logger.Debug("prompt pattern matched", zap.Int("row", pos.Row))

	var closed *Block
	if m.openIndex >= 0 {
		m.captureHeuristicCommandLocked(m.blocks[m.openIndex].StartRow)
		// The prompt line belongs to the next block
		closed = m.finalizeOpenLocked(BlockCompleted, ExitUnknown, pos.Row)
	}

	// Output begins below the prompt line
	m.openBlockLocked(pos.Row, pos.Row+1)
	m.awaitingCommand = true
	return closed
}

func (m *BlockManager) observeLineFeedLocked() {
	if m.hookSeen || m.openIndex < 0 || !m.awaitingCommand || m.screen.IsAlternateScreen() {
		return
	}

	// The first line feed after a prompt ends the command line. Line
	// feeds never fire while a long command soft-wraps, so the command
	// may span several rows by now.
	m.awaitingCommand = false

	open := &m.blocks[m.openIndex]
	completed := m.screen.AbsoluteCursorRow() - 1
	if completed < open.StartRow {
		return
	}

	m.captureHeuristicCommandLocked(completed)
	if completed+1 > open.OutputRow {
		open.OutputRow = completed + 1
	}
}

// captureHeuristicCommandLocked reads the rows from the open block's
// start through lastRow and records the text after the prompt as the
// command.
func (m *BlockManager) captureHeuristicCommandLocked(lastRow int) {
	open := &m.blocks[m.openIndex]
	if !open.Command.Empty() {
		return
	}

	line := m.screen.TextBetween(open.StartRow, lastRow+1)
	raw := line
	if loc := m.promptRe.FindStringIndex(line); loc != nil && loc[0] == 0 {
		raw = line[loc[1]:]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}

	cmd := NewCommand(raw)
	cmd.WorkingDir = m.screen.WorkingDirectoryPath()
	open.Command = cmd
}

// --- Shared bookkeeping ---

// openBlockLocked appends a new running block. Start rows never move
// backwards across the index, even if a screen clear rewound the
// cursor's logical row.
func (m *BlockManager) openBlockLocked(startRow, outputRow int) {
	if n := len(m.blocks); n > 0 {
		last := &m.blocks[n-1]
		if last.Status != BlockRunning && startRow < last.EndRow {
			startRow = last.EndRow
		}
	}
	if outputRow < startRow {
		outputRow = startRow
	}

	m.blocks = append(m.blocks, Block{
		ID:        m.nextID,
		StartRow:  startRow,
		OutputRow: outputRow,
		Status:    BlockRunning,
		ExitCode:  ExitUnknown,
		StartedAt: time.Now(),
	})
	m.openIndex = len(m.blocks) - 1
	m.nextID++

	m.logger.Debug("block opened",
		zap.Int("id", m.blocks[m.openIndex].ID),
		zap.Int("start_row", startRow),
	)
}

// finalizeOpenLocked closes the running block and returns a copy for
// listener dispatch.
func (m *BlockManager) finalizeOpenLocked(status BlockStatus, exitCode, endRow int) *Block {
	open := &m.blocks[m.openIndex]

	if endRow < open.StartRow {
		endRow = open.StartRow
	}
	if open.OutputRow > endRow {
		open.OutputRow = endRow
	}

	open.EndRow = endRow
	open.Status = status
	open.ExitCode = exitCode
	open.FinishedAt = time.Now()
	m.openIndex = -1
	m.commandStart = nil
	m.awaitingCommand = false

	m.logger.Debug("block finalized",
		zap.Int("id", open.ID),
		zap.String("status", string(status)),
		zap.Int("exit_code", exitCode),
		zap.Int("end_row", endRow),
	)

	finalized := *open
	return &finalized
}
