package blockterm

import (
	"testing"

	"github.com/danielgatis/go-ansicode"
)

func TestPromptMark_PromptStart(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// OSC 133 ; A BEL - Prompt start
	screen.WriteString("\x1b]133;A\x07")

	marks := screen.PromptMarks()
	if len(marks) != 1 {
		t.Fatalf("expected 1 mark, got %d", len(marks))
	}

	if marks[0].Type != ansicode.PromptStart {
		t.Errorf("expected PromptStart mark, got %d", marks[0].Type)
	}
	if marks[0].ExitCode != -1 {
		t.Errorf("expected exit code -1, got %d", marks[0].ExitCode)
	}
}

func TestPromptMark_CommandStart(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// OSC 133 ; B BEL - Command start
	screen.WriteString("\x1b]133;B\x07")

	marks := screen.PromptMarks()
	if len(marks) != 1 {
		t.Fatalf("expected 1 mark, got %d", len(marks))
	}

	if marks[0].Type != ansicode.CommandStart {
		t.Errorf("expected CommandStart mark, got %d", marks[0].Type)
	}
}

func TestPromptMark_CommandExecuted(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// OSC 133 ; C BEL - Command executed
	screen.WriteString("\x1b]133;C\x07")

	marks := screen.PromptMarks()
	if len(marks) != 1 {
		t.Fatalf("expected 1 mark, got %d", len(marks))
	}

	if marks[0].Type != ansicode.CommandExecuted {
		t.Errorf("expected CommandExecuted mark, got %d", marks[0].Type)
	}
}

func TestPromptMark_CommandFinished(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// OSC 133 ; D BEL - Command finished (no exit code)
	screen.WriteString("\x1b]133;D\x07")

	marks := screen.PromptMarks()
	if len(marks) != 1 {
		t.Fatalf("expected 1 mark, got %d", len(marks))
	}

	if marks[0].Type != ansicode.CommandFinished {
		t.Errorf("expected CommandFinished mark, got %d", marks[0].Type)
	}
	if marks[0].ExitCode != -1 {
		t.Errorf("expected exit code -1, got %d", marks[0].ExitCode)
	}
}

func TestPromptMark_CommandFinishedWithExitCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		exitCode int
	}{
		{"exit code 0", "\x1b]133;D;0\x07", 0},
		{"exit code 1", "\x1b]133;D;1\x07", 1},
		{"exit code 127", "\x1b]133;D;127\x07", 127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := NewScreen(WithSize(24, 80))
			screen.WriteString(tt.input)

			marks := screen.PromptMarks()
			if len(marks) != 1 {
				t.Fatalf("expected 1 mark, got %d", len(marks))
			}

			if marks[0].ExitCode != tt.exitCode {
				t.Errorf("expected exit code %d, got %d", tt.exitCode, marks[0].ExitCode)
			}
		})
	}
}

func TestPromptMark_FullSequence(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// Simulate a full shell prompt cycle
	screen.WriteString("\x1b]133;A\x07")     // Prompt start
	screen.WriteString("$ ")                 // Prompt text
	screen.WriteString("\x1b]133;B\x07")     // Command start
	screen.WriteString("ls -la")             // User input
	screen.WriteString("\r\n")               // Enter
	screen.WriteString("\x1b]133;C\x07")     // Command executed
	screen.WriteString("file1\r\nfile2\r\n") // Command output
	screen.WriteString("\x1b]133;D;0\x07")   // Command finished with exit code 0

	marks := screen.PromptMarks()
	if len(marks) != 4 {
		t.Fatalf("expected 4 marks, got %d", len(marks))
	}

	// Check mark types in order
	expected := []ansicode.ShellIntegrationMark{
		ansicode.PromptStart,
		ansicode.CommandStart,
		ansicode.CommandExecuted,
		ansicode.CommandFinished,
	}

	for i, exp := range expected {
		if marks[i].Type != exp {
			t.Errorf("mark %d: expected type %d, got %d", i, exp, marks[i].Type)
		}
	}

	// Check exit code of the last mark
	if marks[3].ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", marks[3].ExitCode)
	}
}

func TestPromptMark_RowTracking(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// Add marks at different rows
	screen.WriteString("\x1b]133;A\x07") // Row 0
	screen.WriteString("prompt1\r\n")
	screen.WriteString("\x1b]133;A\x07") // Row 1
	screen.WriteString("prompt2\r\n")
	screen.WriteString("\x1b]133;A\x07") // Row 2

	marks := screen.PromptMarks()
	if len(marks) != 3 {
		t.Fatalf("expected 3 marks, got %d", len(marks))
	}

	// Rows should be tracked correctly
	if marks[0].Row != 0 {
		t.Errorf("mark 0: expected row 0, got %d", marks[0].Row)
	}
	if marks[1].Row != 1 {
		t.Errorf("mark 1: expected row 1, got %d", marks[1].Row)
	}
	if marks[2].Row != 2 {
		t.Errorf("mark 2: expected row 2, got %d", marks[2].Row)
	}
}

func TestPromptMark_NextPromptRow(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// Add prompts at different absolute rows
	screen.WriteString("\x1b]133;A\x07") // Absolute row 0
	screen.WriteString("prompt1\r\n")
	screen.WriteString("\x1b]133;A\x07") // Absolute row 1
	screen.WriteString("prompt2\r\n")
	screen.WriteString("\x1b]133;A\x07") // Absolute row 2

	// Find next prompt from absolute row -1 (before any content)
	next := screen.NextPromptRow(-1, -1)
	if next != 0 {
		t.Errorf("expected next prompt at absolute row 0, got %d", next)
	}

	// Find next prompt from absolute row 0
	next = screen.NextPromptRow(0, -1)
	if next != 1 {
		t.Errorf("expected next prompt at absolute row 1, got %d", next)
	}

	// Find next prompt from absolute row 1
	next = screen.NextPromptRow(1, -1)
	if next != 2 {
		t.Errorf("expected next prompt at absolute row 2, got %d", next)
	}

	// No next prompt from absolute row 2
	next = screen.NextPromptRow(2, -1)
	if next != -1 {
		t.Errorf("expected no next prompt (-1), got %d", next)
	}
}

func TestPromptMark_PrevPromptRow(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// Add prompts at different absolute rows
	screen.WriteString("\x1b]133;A\x07") // Absolute row 0
	screen.WriteString("prompt1\r\n")
	screen.WriteString("\x1b]133;A\x07") // Absolute row 1
	screen.WriteString("prompt2\r\n")
	screen.WriteString("\x1b]133;A\x07") // Absolute row 2

	// Find previous prompt from absolute row 3
	prev := screen.PrevPromptRow(3, -1)
	if prev != 2 {
		t.Errorf("expected prev prompt at absolute row 2, got %d", prev)
	}

	// Find previous prompt from absolute row 2
	prev = screen.PrevPromptRow(2, -1)
	if prev != 1 {
		t.Errorf("expected prev prompt at absolute row 1, got %d", prev)
	}

	// Find previous prompt from absolute row 1
	prev = screen.PrevPromptRow(1, -1)
	if prev != 0 {
		t.Errorf("expected prev prompt at absolute row 0, got %d", prev)
	}

	// No previous prompt from absolute row 0
	prev = screen.PrevPromptRow(0, -1)
	if prev != -1 {
		t.Errorf("expected no prev prompt (-1), got %d", prev)
	}
}

func TestPromptMark_FilterByType(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// Add different mark types at absolute rows
	screen.WriteString("\x1b]133;A\x07") // PromptStart at absolute row 0
	screen.WriteString("prompt\r\n")
	screen.WriteString("\x1b]133;B\x07") // CommandStart at absolute row 1
	screen.WriteString("cmd\r\n")
	screen.WriteString("\x1b]133;C\x07") // CommandExecuted at absolute row 2
	screen.WriteString("output\r\n")
	screen.WriteString("\x1b]133;A\x07") // PromptStart at absolute row 3

	// Find next PromptStart only using absolute rows
	next := screen.NextPromptRow(-1, ansicode.PromptStart)
	if next != 0 {
		t.Errorf("expected next PromptStart at absolute row 0, got %d", next)
	}

	next = screen.NextPromptRow(0, ansicode.PromptStart)
	if next != 3 {
		t.Errorf("expected next PromptStart at absolute row 3, got %d", next)
	}
}

func TestPromptMark_ClearMarks(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	screen.WriteString("\x1b]133;A\x07")
	screen.WriteString("\x1b]133;B\x07")

	if screen.PromptMarkCount() != 2 {
		t.Fatalf("expected 2 marks, got %d", screen.PromptMarkCount())
	}

	screen.ClearPromptMarks()

	if screen.PromptMarkCount() != 0 {
		t.Errorf("expected 0 marks after clear, got %d", screen.PromptMarkCount())
	}
}

func TestPromptMark_GetMarkAt(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	screen.WriteString("\x1b]133;A\x07") // Absolute row 0

	// Get mark at absolute row 0
	mark := screen.GetPromptMarkAt(0)
	if mark == nil {
		t.Fatal("expected mark at absolute row 0, got nil")
	}
	if mark.Type != ansicode.PromptStart {
		t.Errorf("expected PromptStart, got %d", mark.Type)
	}

	// No mark at absolute row 1
	mark = screen.GetPromptMarkAt(1)
	if mark != nil {
		t.Errorf("expected nil at absolute row 1, got %v", mark)
	}
}

func TestPromptMark_ST_Terminator(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// OSC 133 ; A ST (using ESC \ as string terminator)
	screen.WriteString("\x1b]133;A\x1b\\")

	marks := screen.PromptMarks()
	if len(marks) != 1 {
		t.Fatalf("expected 1 mark, got %d", len(marks))
	}

	if marks[0].Type != ansicode.PromptStart {
		t.Errorf("expected PromptStart mark, got %d", marks[0].Type)
	}
}

// --- GetLastCommandOutput Tests ---

func TestGetLastCommandOutput_Basic(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// Simulate a command with output
	screen.WriteString("\x1b]133;A\x07") // Prompt start
	screen.WriteString("$ ")
	screen.WriteString("\x1b]133;B\x07") // Command start
	screen.WriteString("echo hello")
	screen.WriteString("\r\n")
	screen.WriteString("\x1b]133;C\x07")   // Command executed
	screen.WriteString("hello\r\n")        // Output
	screen.WriteString("\x1b]133;D;0\x07") // Command finished

	output := screen.GetLastCommandOutput()
	expected := "hello"
	if output != expected {
		t.Errorf("expected %q, got %q", expected, output)
	}
}

func TestGetLastCommandOutput_MultiLine(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	screen.WriteString("\x1b]133;C\x07") // Command executed
	screen.WriteString("line1\r\n")
	screen.WriteString("line2\r\n")
	screen.WriteString("line3\r\n")
	screen.WriteString("\x1b]133;D;0\x07") // Command finished

	output := screen.GetLastCommandOutput()
	expected := "line1\nline2\nline3"
	if output != expected {
		t.Errorf("expected %q, got %q", expected, output)
	}
}

func TestGetLastCommandOutput_NoOutput(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// Command with no output
	screen.WriteString("\x1b]133;C\x07")   // Command executed
	screen.WriteString("\x1b]133;D;0\x07") // Command finished immediately

	output := screen.GetLastCommandOutput()
	if output != "" {
		t.Errorf("expected empty string, got %q", output)
	}
}

func TestGetLastCommandOutput_NoMarks(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// No marks at all
	output := screen.GetLastCommandOutput()
	if output != "" {
		t.Errorf("expected empty string, got %q", output)
	}
}

func TestGetLastCommandOutput_OnlyExecutedNoFinished(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// Only CommandExecuted, no CommandFinished
	screen.WriteString("\x1b]133;C\x07")
	screen.WriteString("output\r\n")

	output := screen.GetLastCommandOutput()
	if output != "" {
		t.Errorf("expected empty string (no pair), got %q", output)
	}
}

func TestGetLastCommandOutput_MultipleCommands(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	// First command
	screen.WriteString("\x1b]133;C\x07")
	screen.WriteString("first output\r\n")
	screen.WriteString("\x1b]133;D;0\x07")

	// Second command
	screen.WriteString("\x1b]133;A\x07")
	screen.WriteString("$ ")
	screen.WriteString("\x1b]133;B\x07")
	screen.WriteString("cmd2\r\n")
	screen.WriteString("\x1b]133;C\x07")
	screen.WriteString("second output\r\n")
	screen.WriteString("\x1b]133;D;0\x07")

	// Should return the last command's output
	output := screen.GetLastCommandOutput()
	expected := "second output"
	if output != expected {
		t.Errorf("expected %q, got %q", expected, output)
	}
}

func TestGetLastCommandOutput_WithExitCode(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	screen.WriteString("\x1b]133;C\x07")
	screen.WriteString("error message\r\n")
	screen.WriteString("\x1b]133;D;1\x07") // Exit code 1

	output := screen.GetLastCommandOutput()
	expected := "error message"
	if output != expected {
		t.Errorf("expected %q, got %q", expected, output)
	}
}

func TestGetLastCommandOutput_TrailingEmptyLines(t *testing.T) {
	screen := NewScreen(WithSize(24, 80))

	screen.WriteString("\x1b]133;C\x07")
	screen.WriteString("content\r\n")
	screen.WriteString("\r\n") // Empty line
	screen.WriteString("\r\n") // Another empty line
	screen.WriteString("\x1b]133;D;0\x07")

	output := screen.GetLastCommandOutput()
	// Should trim trailing empty lines
	expected := "content"
	if output != expected {
		t.Errorf("expected %q, got %q", expected, output)
	}
}

// --- Scrollback Tests for Absolute Row Functions ---

func TestPromptMark_NextPromptRowWithScrollback(t *testing.T) {
	storage := &testScrollbackBuffer{lines: make([][]Cell, 0)}
	storage.SetMaxLines(100)

	// Create a small screen (5 rows) to force scrollback
	screen := NewScreen(WithSize(5, 80), WithScrollback(storage))

	// Add prompt at absolute row 0
	screen.WriteString("\x1b]133;A\x07")
	screen.WriteString("prompt1\r\n")

	// Write enough lines to push content into scrollback
	for i := 0; i < 10; i++ {
		screen.WriteString("line\r\n")
	}

	// Add another prompt (this will be at a higher absolute row)
	screen.WriteString("\x1b]133;A\x07")
	screen.WriteString("prompt2\r\n")

	marks := screen.PromptMarks()
	if len(marks) != 2 {
		t.Fatalf("expected 2 marks, got %d", len(marks))
	}

	// First mark should be at absolute row 0
	if marks[0].Row != 0 {
		t.Errorf("expected first mark at absolute row 0, got %d", marks[0].Row)
	}

	// Second mark should be at absolute row 11 (0 + 1 + 10 lines)
	if marks[1].Row != 11 {
		t.Errorf("expected second mark at absolute row 11, got %d", marks[1].Row)
	}

	// NextPromptRow should return absolute rows
	next := screen.NextPromptRow(-1, -1)
	if next != 0 {
		t.Errorf("expected next prompt at absolute row 0, got %d", next)
	}

	next = screen.NextPromptRow(0, -1)
	if next != 11 {
		t.Errorf("expected next prompt at absolute row 11, got %d", next)
	}

	// Verify scrollback exists
	scrollbackLen := screen.ScrollbackLen()
	if scrollbackLen == 0 {
		t.Error("expected scrollback to exist")
	}
}

func TestPromptMark_PrevPromptRowWithScrollback(t *testing.T) {
	storage := &testScrollbackBuffer{lines: make([][]Cell, 0)}
	storage.SetMaxLines(100)

	screen := NewScreen(WithSize(5, 80), WithScrollback(storage))

	// Add prompt at absolute row 0
	screen.WriteString("\x1b]133;A\x07")
	screen.WriteString("prompt1\r\n")

	// Write enough lines to push content into scrollback
	for i := 0; i < 10; i++ {
		screen.WriteString("line\r\n")
	}

	// Add another prompt
	screen.WriteString("\x1b]133;A\x07")

	marks := screen.PromptMarks()

	// PrevPromptRow should return absolute rows
	prev := screen.PrevPromptRow(marks[1].Row+1, -1)
	if prev != marks[1].Row {
		t.Errorf("expected prev prompt at absolute row %d, got %d", marks[1].Row, prev)
	}

	prev = screen.PrevPromptRow(marks[1].Row, -1)
	if prev != 0 {
		t.Errorf("expected prev prompt at absolute row 0, got %d", prev)
	}

	prev = screen.PrevPromptRow(0, -1)
	if prev != -1 {
		t.Errorf("expected no prev prompt (-1), got %d", prev)
	}
}

func TestPromptMark_GetMarkAtWithScrollback(t *testing.T) {
	storage := &testScrollbackBuffer{lines: make([][]Cell, 0)}
	storage.SetMaxLines(100)

	screen := NewScreen(WithSize(5, 80), WithScrollback(storage))

	// Add prompt at absolute row 0
	screen.WriteString("\x1b]133;A\x07")
	screen.WriteString("prompt\r\n")

	// Write enough lines to push the prompt into scrollback
	for i := 0; i < 10; i++ {
		screen.WriteString("line\r\n")
	}

	// GetPromptMarkAt should find mark at absolute row 0 even when in scrollback
	mark := screen.GetPromptMarkAt(0)
	if mark == nil {
		t.Fatal("expected mark at absolute row 0, got nil")
	}
	if mark.Type != ansicode.PromptStart {
		t.Errorf("expected PromptStart, got %d", mark.Type)
	}

	// No mark at absolute row 5
	mark = screen.GetPromptMarkAt(5)
	if mark != nil {
		t.Errorf("expected nil at absolute row 5, got %v", mark)
	}
}
