package blockterm

import "time"

// BlockStatus describes the lifecycle state of a command block.
type BlockStatus string

const (
	// BlockRunning means the command has started and no end boundary
	// has been observed yet.
	BlockRunning BlockStatus = "running"
	// BlockCompleted means an end boundary was observed. The exit code
	// is ExitUnknown when the boundary carried none (heuristic mode).
	BlockCompleted BlockStatus = "completed"
	// BlockInterrupted means the process exited while the block was
	// still open.
	BlockInterrupted BlockStatus = "interrupted"
)

// ExitUnknown is the exit code recorded when a block closes without an
// observed exit status.
const ExitUnknown = -1

// Block is one command and its output, tracked as a discrete unit.
// Row fields are absolute (logical) rows spanning scrollback and the
// live grid; EndRow is exclusive. Blocks are owned by the BlockManager;
// accessors hand out copies, so mutating a returned Block has no
// effect on the index.
type Block struct {
	// ID is a monotonically increasing sequence number, starting at 1.
	ID int `json:"id"`
	// Command is the captured command line, empty when undeterminable.
	Command Command `json:"command"`
	// StartRow is the absolute row where the block begins (the prompt
	// or command line).
	StartRow int `json:"start_row"`
	// OutputRow is the absolute row where command output begins.
	OutputRow int `json:"output_row"`
	// EndRow is the absolute row just past the block's last line.
	// Valid once the block leaves BlockRunning.
	EndRow int `json:"end_row"`
	// Status is the block lifecycle state.
	Status BlockStatus `json:"status"`
	// ExitCode is the command exit status, or ExitUnknown.
	ExitCode int `json:"exit_code"`
	// StartedAt is when the block was opened.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the block was finalized; zero while running.
	FinishedAt time.Time `json:"finished_at,omitempty"`
	// Pinned marks the block as kept visible by the user.
	Pinned bool `json:"pinned,omitempty"`
	// Folded marks the block's output as collapsed by the user.
	Folded bool `json:"folded,omitempty"`
}

// Running returns true while the block has not been finalized.
func (b Block) Running() bool {
	return b.Status == BlockRunning
}

// Success returns true if the block completed with exit code zero.
func (b Block) Success() bool {
	return b.Status == BlockCompleted && b.ExitCode == 0
}

// Duration returns how long the command ran, or zero while running.
func (b Block) Duration() time.Duration {
	if b.FinishedAt.IsZero() {
		return 0
	}
	return b.FinishedAt.Sub(b.StartedAt)
}
