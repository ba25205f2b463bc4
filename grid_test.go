package blockterm

import (
	"testing"
)

func TestNewGrid(t *testing.T) {
	g := NewGrid(24, 80)

	if g.Rows() != 24 {
		t.Errorf("expected 24 rows, got %d", g.Rows())
	}
	if g.Cols() != 80 {
		t.Errorf("expected 80 cols, got %d", g.Cols())
	}
}

func TestGridCell(t *testing.T) {
	g := NewGrid(24, 80)

	cell := g.Cell(0, 0)
	if cell == nil {
		t.Fatal("expected cell at (0,0)")
	}

	cell.Char = 'A'

	retrieved := g.Cell(0, 0)
	if retrieved.Char != 'A' {
		t.Errorf("expected 'A', got '%c'", retrieved.Char)
	}
}

func TestGridCellOutOfBounds(t *testing.T) {
	g := NewGrid(24, 80)

	if g.Cell(-1, 0) != nil {
		t.Error("expected nil for negative row")
	}
	if g.Cell(0, -1) != nil {
		t.Error("expected nil for negative col")
	}
	if g.Cell(24, 0) != nil {
		t.Error("expected nil for row >= rows")
	}
	if g.Cell(0, 80) != nil {
		t.Error("expected nil for col >= cols")
	}
}

func TestGridClearRow(t *testing.T) {
	g := NewGrid(24, 80)

	g.Cell(0, 0).Char = 'A'
	g.Cell(0, 1).Char = 'B'

	g.ClearRow(0)

	if g.Cell(0, 0).Char != ' ' {
		t.Error("expected cell to be cleared")
	}
	if g.Cell(0, 1).Char != ' ' {
		t.Error("expected cell to be cleared")
	}
}

func TestGridScrollUp(t *testing.T) {
	g := NewGrid(5, 10)

	for row := 0; row < 5; row++ {
		g.Cell(row, 0).Char = rune('0' + row)
	}

	g.ScrollUp(0, 5, 1)

	// Row 0 should now have what was in row 1
	if g.Cell(0, 0).Char != '1' {
		t.Errorf("expected '1', got '%c'", g.Cell(0, 0).Char)
	}
	// Last row should be cleared
	if g.Cell(4, 0).Char != ' ' {
		t.Errorf("expected space, got '%c'", g.Cell(4, 0).Char)
	}
}

func TestGridScrollDown(t *testing.T) {
	g := NewGrid(5, 10)

	for row := 0; row < 5; row++ {
		g.Cell(row, 0).Char = rune('0' + row)
	}

	g.ScrollDown(0, 5, 1)

	// Row 1 should now have what was in row 0
	if g.Cell(1, 0).Char != '0' {
		t.Errorf("expected '0', got '%c'", g.Cell(1, 0).Char)
	}
	// First row should be cleared
	if g.Cell(0, 0).Char != ' ' {
		t.Errorf("expected space, got '%c'", g.Cell(0, 0).Char)
	}
}

func TestGridScrollback(t *testing.T) {
	storage := &testScrollbackBuffer{lines: make([][]Cell, 0), maxLines: 100}
	g := NewGridWithScrollback(5, 10, storage)

	for row := 0; row < 5; row++ {
		g.Cell(row, 0).Char = rune('A' + row)
	}

	// Scroll up, line 0 should go to scrollback
	g.ScrollUp(0, 5, 1)

	if g.ScrollbackLen() != 1 {
		t.Errorf("expected 1 scrollback line, got %d", g.ScrollbackLen())
	}

	line := g.ScrollbackLine(0)
	if line == nil {
		t.Fatal("expected scrollback line")
	}
	if line[0].Char != 'A' {
		t.Errorf("expected 'A' in scrollback, got '%c'", line[0].Char)
	}
}

// testScrollbackBuffer is a test implementation of ScrollbackProvider
type testScrollbackBuffer struct {
	lines     [][]Cell
	maxLines  int
	pushCount int
}

func (s *testScrollbackBuffer) Push(line []Cell) {
	s.pushCount++
	lineCopy := make([]Cell, len(line))
	copy(lineCopy, line)
	s.lines = append(s.lines, lineCopy)
	if s.maxLines > 0 && len(s.lines) > s.maxLines {
		s.lines = s.lines[len(s.lines)-s.maxLines:]
	}
}

func (s *testScrollbackBuffer) Len() int              { return len(s.lines) }
func (s *testScrollbackBuffer) Line(index int) []Cell { return s.lines[index] }
func (s *testScrollbackBuffer) Clear()                { s.lines = make([][]Cell, 0) }
func (s *testScrollbackBuffer) SetMaxLines(max int)   { s.maxLines = max }
func (s *testScrollbackBuffer) MaxLines() int         { return s.maxLines }

func TestGridScrolledOff(t *testing.T) {
	g := NewGridWithScrollback(5, 10, NewMemoryScrollback(100))

	if g.ScrolledOff() != 0 {
		t.Errorf("expected 0 scrolled off, got %d", g.ScrolledOff())
	}

	g.ScrollUp(0, 5, 2)
	if g.ScrolledOff() != 2 {
		t.Errorf("expected 2 scrolled off, got %d", g.ScrolledOff())
	}

	g.ScrollUp(0, 5, 3)
	if g.ScrolledOff() != 5 {
		t.Errorf("expected 5 scrolled off, got %d", g.ScrolledOff())
	}
}

func TestGridScrolledOffWithoutStorage(t *testing.T) {
	// Lines leaving the top count even when nothing retains them, so
	// logical row numbers stay stable without scrollback.
	g := NewGrid(5, 10)

	g.ScrollUp(0, 5, 3)

	if g.ScrollbackLen() != 0 {
		t.Errorf("expected no scrollback lines, got %d", g.ScrollbackLen())
	}
	if g.ScrolledOff() != 3 {
		t.Errorf("expected 3 scrolled off, got %d", g.ScrolledOff())
	}
}

func TestGridScrolledOffRegionScroll(t *testing.T) {
	// Scrolling inside a region that does not start at the top moves
	// nothing off the screen.
	g := NewGridWithScrollback(5, 10, NewMemoryScrollback(100))

	g.ScrollUp(2, 5, 1)

	if g.ScrolledOff() != 0 {
		t.Errorf("expected 0 scrolled off, got %d", g.ScrolledOff())
	}
	if g.ScrollbackLen() != 0 {
		t.Errorf("expected no scrollback lines, got %d", g.ScrollbackLen())
	}
}

func TestGridScrolledOffSurvivesClear(t *testing.T) {
	g := NewGridWithScrollback(5, 10, NewMemoryScrollback(100))

	g.ScrollUp(0, 5, 4)
	g.ClearScrollback()

	if g.ScrollbackLen() != 0 {
		t.Errorf("expected empty scrollback, got %d lines", g.ScrollbackLen())
	}
	if g.ScrolledOff() != 4 {
		t.Errorf("expected scrolled off to survive clear, got %d", g.ScrolledOff())
	}
}

func TestGridDeleteLinesAtTopPushesScrollback(t *testing.T) {
	g := NewGridWithScrollback(5, 10, NewMemoryScrollback(100))

	g.Cell(0, 0).Char = 'X'
	g.DeleteLines(0, 1, 5)

	if g.ScrollbackLen() != 1 {
		t.Errorf("expected 1 scrollback line, got %d", g.ScrollbackLen())
	}
	if g.ScrolledOff() != 1 {
		t.Errorf("expected 1 scrolled off, got %d", g.ScrolledOff())
	}
}

func TestGridLineContent(t *testing.T) {
	g := NewGrid(24, 80)

	g.Cell(0, 0).Char = 'H'
	g.Cell(0, 1).Char = 'e'
	g.Cell(0, 2).Char = 'l'
	g.Cell(0, 3).Char = 'l'
	g.Cell(0, 4).Char = 'o'

	content := g.LineContent(0)
	if content != "Hello" {
		t.Errorf("expected 'Hello', got '%s'", content)
	}
}

func TestGridTabStops(t *testing.T) {
	g := NewGrid(24, 80)

	// Default tab stops at 0, 8, 16, etc.
	next := g.NextTabStop(0)
	if next != 8 {
		t.Errorf("expected next tab at 8, got %d", next)
	}

	next = g.NextTabStop(8)
	if next != 16 {
		t.Errorf("expected next tab at 16, got %d", next)
	}

	prev := g.PrevTabStop(16)
	if prev != 8 {
		t.Errorf("expected prev tab at 8, got %d", prev)
	}
}

func TestGridResize(t *testing.T) {
	g := NewGrid(10, 20)

	g.Cell(0, 0).Char = 'A'
	g.Cell(5, 10).Char = 'B'

	g.Resize(20, 40)

	if g.Rows() != 20 || g.Cols() != 40 {
		t.Errorf("expected 20x40, got %dx%d", g.Rows(), g.Cols())
	}

	// Content should be preserved
	if g.Cell(0, 0).Char != 'A' {
		t.Error("expected content to be preserved")
	}
	if g.Cell(5, 10).Char != 'B' {
		t.Error("expected content to be preserved")
	}
}

func TestGridDirtyTracking(t *testing.T) {
	g := NewGrid(24, 80)

	g.ClearAllDirty()

	if g.HasDirty() {
		t.Error("expected no dirty cells")
	}

	g.MarkDirty(0, 0)

	if !g.HasDirty() {
		t.Error("expected dirty cells")
	}

	dirty := g.DirtyCells()
	if len(dirty) != 1 {
		t.Errorf("expected 1 dirty cell, got %d", len(dirty))
	}
	if dirty[0].Row != 0 || dirty[0].Col != 0 {
		t.Error("expected dirty cell at (0,0)")
	}
}

func TestGridInsertBlanks(t *testing.T) {
	g := NewGrid(24, 80)

	g.Cell(0, 0).Char = 'A'
	g.Cell(0, 1).Char = 'B'
	g.Cell(0, 2).Char = 'C'

	g.InsertBlanks(0, 1, 2)

	if g.Cell(0, 0).Char != 'A' {
		t.Errorf("expected 'A', got '%c'", g.Cell(0, 0).Char)
	}
	if g.Cell(0, 1).Char != ' ' {
		t.Errorf("expected space, got '%c'", g.Cell(0, 1).Char)
	}
	if g.Cell(0, 2).Char != ' ' {
		t.Errorf("expected space, got '%c'", g.Cell(0, 2).Char)
	}
	if g.Cell(0, 3).Char != 'B' {
		t.Errorf("expected 'B', got '%c'", g.Cell(0, 3).Char)
	}
}

func TestGridDeleteChars(t *testing.T) {
	g := NewGrid(24, 80)

	g.Cell(0, 0).Char = 'A'
	g.Cell(0, 1).Char = 'B'
	g.Cell(0, 2).Char = 'C'
	g.Cell(0, 3).Char = 'D'

	g.DeleteChars(0, 1, 2)

	if g.Cell(0, 0).Char != 'A' {
		t.Errorf("expected 'A', got '%c'", g.Cell(0, 0).Char)
	}
	if g.Cell(0, 1).Char != 'D' {
		t.Errorf("expected 'D', got '%c'", g.Cell(0, 1).Char)
	}
}

func TestGridWrappedLineTracking(t *testing.T) {
	g := NewGrid(5, 10)

	// Initially no lines are wrapped
	if g.IsWrapped(0) {
		t.Error("expected line 0 not wrapped initially")
	}

	// Set wrapped
	g.SetWrapped(0, true)
	if !g.IsWrapped(0) {
		t.Error("expected line 0 to be wrapped")
	}

	// Clear wrapped
	g.SetWrapped(0, false)
	if g.IsWrapped(0) {
		t.Error("expected line 0 not wrapped after clear")
	}

	// Out of bounds should not panic
	g.SetWrapped(-1, true)
	g.SetWrapped(100, true)
	if g.IsWrapped(-1) {
		t.Error("expected false for out of bounds")
	}
	if g.IsWrapped(100) {
		t.Error("expected false for out of bounds")
	}
}

func TestGridWrappedLineTrackingWithScroll(t *testing.T) {
	g := NewGrid(5, 10)

	// Set some wrapped flags
	g.SetWrapped(0, true)
	g.SetWrapped(1, false)
	g.SetWrapped(2, true)

	// Scroll up
	g.ScrollUp(0, 5, 1)

	// Wrapped flags should move with lines
	if g.IsWrapped(0) != false { // was line 1
		t.Error("expected line 0 not wrapped after scroll")
	}
	if g.IsWrapped(1) != true { // was line 2
		t.Error("expected line 1 wrapped after scroll")
	}
	if g.IsWrapped(4) { // new line should not be wrapped
		t.Error("expected new line not wrapped")
	}
}
