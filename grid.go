package blockterm

// Grid stores a 2D matrix of cells and tracks line wrapping state.
// Every row holds exactly Cols cells. Lines scrolled off the top are
// pushed to the attached scrollback storage.
type Grid struct {
	rows       int
	cols       int
	cells      [][]Cell
	wrapped    []bool // tracks if each line was wrapped (vs explicit newline)
	tabStop    []bool
	scrollback ScrollbackProvider
	hasDirty   bool

	// scrolledOff counts every line that has ever left the top of the
	// grid, whether or not the scrollback storage retained it. It never
	// decreases, which keeps logical row numbers stable across
	// scrollback eviction and clearing.
	scrolledOff int
}

// NewGrid creates a grid with the given dimensions and no scrollback.
func NewGrid(rows, cols int) *Grid {
	return NewGridWithScrollback(rows, cols, NoopScrollback{})
}

// NewGridWithScrollback creates a grid with custom scrollback storage.
// Tab stops are initialized every 8 columns.
func NewGridWithScrollback(rows, cols int, storage ScrollbackProvider) *Grid {
	g := &Grid{
		rows:       rows,
		cols:       cols,
		cells:      make([][]Cell, rows),
		wrapped:    make([]bool, rows),
		tabStop:    make([]bool, cols),
		scrollback: storage,
	}

	for i := range g.cells {
		g.cells[i] = make([]Cell, cols)
		for j := range g.cells[i] {
			g.cells[i][j] = NewCell()
		}
	}

	// Set default tab stops every 8 columns
	for i := 0; i < cols; i += 8 {
		g.tabStop[i] = true
	}

	return g
}

// Rows returns the grid height in character rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the grid width in character columns.
func (g *Grid) Cols() int {
	return g.cols
}

// Cell returns a pointer to the cell at (row, col).
// Returns nil if coordinates are out of bounds.
func (g *Grid) Cell(row, col int) *Cell {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return nil
	}
	return &g.cells[row][col]
}

// SetCell replaces the cell at (row, col) and marks it dirty.
// Does nothing if coordinates are out of bounds.
func (g *Grid) SetCell(row, col int, cell Cell) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	cell.MarkDirty()
	g.cells[row][col] = cell
	g.hasDirty = true
}

// MarkDirty marks the cell at (row, col) as modified.
// Does nothing if coordinates are out of bounds.
func (g *Grid) MarkDirty(row, col int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.cells[row][col].MarkDirty()
	g.hasDirty = true
}

// HasDirty returns true if any cell has been modified since the last ClearAllDirty call.
func (g *Grid) HasDirty() bool {
	return g.hasDirty
}

// DirtyCells returns positions of all modified cells.
func (g *Grid) DirtyCells() []Position {
	var positions []Position
	for row := range g.cells {
		for col := range g.cells[row] {
			if g.cells[row][col].IsDirty() {
				positions = append(positions, Position{Row: row, Col: col})
			}
		}
	}
	return positions
}

// ClearAllDirty resets the dirty state of all cells.
func (g *Grid) ClearAllDirty() {
	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col].ClearDirty()
		}
	}
	g.hasDirty = false
}

// ClearRow resets all cells in the row to default state and marks them dirty.
func (g *Grid) ClearRow(row int) {
	if row < 0 || row >= g.rows {
		return
	}
	for col := range g.cells[row] {
		g.cells[row][col].Reset()
		g.cells[row][col].MarkDirty()
	}
	g.hasDirty = true
}

// ClearRowRange resets cells in the row from startCol (inclusive) to endCol (exclusive).
func (g *Grid) ClearRowRange(row, startCol, endCol int) {
	if row < 0 || row >= g.rows {
		return
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol > g.cols {
		endCol = g.cols
	}
	for col := startCol; col < endCol; col++ {
		g.cells[row][col].Reset()
		g.cells[row][col].MarkDirty()
	}
	g.hasDirty = true
}

// ClearAll resets all cells in the grid to default state.
func (g *Grid) ClearAll() {
	for row := range g.cells {
		g.ClearRow(row)
	}
}

// ScrollUp shifts lines up by n positions within [top, bottom).
// Lines scrolled off the top are pushed to scrollback if enabled and top==0.
// Bottom lines are cleared and marked dirty.
func (g *Grid) ScrollUp(top, bottom, n int) {
	if n <= 0 || top >= bottom {
		return
	}
	if top < 0 {
		top = 0
	}
	if bottom > g.rows {
		bottom = g.rows
	}

	if n > bottom-top {
		n = bottom - top
	}

	// Save lines to scrollback if enabled and scrolling from top
	if top == 0 {
		if g.scrollback != nil && g.scrollback.MaxLines() > 0 {
			for i := 0; i < n; i++ {
				g.scrollback.Push(g.cells[i])
			}
		}
		g.scrolledOff += n
	}

	// Move lines up (including wrapped flags)
	for row := top; row < bottom-n; row++ {
		g.cells[row] = g.cells[row+n]
		g.wrapped[row] = g.wrapped[row+n]
		for col := range g.cells[row] {
			g.cells[row][col].MarkDirty()
		}
	}

	// Clear the bottom lines
	for row := bottom - n; row < bottom; row++ {
		g.cells[row] = make([]Cell, g.cols)
		g.wrapped[row] = false
		for col := range g.cells[row] {
			g.cells[row][col] = NewCell()
			g.cells[row][col].MarkDirty()
		}
	}
	g.hasDirty = true
}

// ScrollDown shifts lines down by n positions within [top, bottom).
// Top lines are cleared and marked dirty.
func (g *Grid) ScrollDown(top, bottom, n int) {
	if n <= 0 || top >= bottom {
		return
	}
	if top < 0 {
		top = 0
	}
	if bottom > g.rows {
		bottom = g.rows
	}

	if n > bottom-top {
		n = bottom - top
	}

	// Move lines down (including wrapped flags)
	for row := bottom - 1; row >= top+n; row-- {
		g.cells[row] = g.cells[row-n]
		g.wrapped[row] = g.wrapped[row-n]
		for col := 0; col < g.cols; col++ {
			g.cells[row][col].MarkDirty()
		}
	}

	// Clear the top lines
	for row := top; row < top+n; row++ {
		g.cells[row] = make([]Cell, g.cols)
		g.wrapped[row] = false
		for col := 0; col < g.cols; col++ {
			g.cells[row][col] = NewCell()
			g.cells[row][col].MarkDirty()
		}
	}
	g.hasDirty = true
}

// InsertLines inserts n blank lines at row, shifting existing lines down.
// Equivalent to ScrollDown(row, bottom, n).
func (g *Grid) InsertLines(row, n, bottom int) {
	if row < 0 || row >= bottom || n <= 0 {
		return
	}
	g.ScrollDown(row, bottom, n)
}

// DeleteLines removes n lines at row, shifting remaining lines up.
// Equivalent to ScrollUp(row, bottom, n).
func (g *Grid) DeleteLines(row, n, bottom int) {
	if row < 0 || row >= bottom || n <= 0 {
		return
	}
	g.ScrollUp(row, bottom, n)
}

// InsertBlanks inserts n blank cells at (row, col), shifting existing characters right.
func (g *Grid) InsertBlanks(row, col, n int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols || n <= 0 {
		return
	}

	// Shift characters to the right
	for c := g.cols - 1; c >= col+n; c-- {
		g.cells[row][c] = g.cells[row][c-n]
		g.cells[row][c].MarkDirty()
	}

	// Clear the inserted positions
	for c := col; c < col+n && c < g.cols; c++ {
		g.cells[row][c].Reset()
		g.cells[row][c].MarkDirty()
	}
	g.hasDirty = true
}

// DeleteChars removes n characters at (row, col), shifting remaining characters left.
func (g *Grid) DeleteChars(row, col, n int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols || n <= 0 {
		return
	}

	// Shift characters to the left
	for c := col; c < g.cols-n; c++ {
		g.cells[row][c] = g.cells[row][c+n]
		g.cells[row][c].MarkDirty()
	}

	// Clear the end of the line
	for c := g.cols - n; c < g.cols; c++ {
		if c >= 0 {
			g.cells[row][c].Reset()
			g.cells[row][c].MarkDirty()
		}
	}
	g.hasDirty = true
}

// Resize changes grid dimensions, preserving existing cells where possible.
// Content is kept at the top-left corner. When shrinking, bottom/right content is lost.
// When growing, new empty cells are added at the bottom/right.
// Tab stops are extended if columns increase.
func (g *Grid) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}

	newCells := make([][]Cell, rows)
	for i := range newCells {
		newCells[i] = make([]Cell, cols)
		for j := range newCells[i] {
			if i < g.rows && j < g.cols {
				newCells[i][j] = g.cells[i][j]
			} else {
				newCells[i][j] = NewCell()
			}
			newCells[i][j].MarkDirty()
		}
	}

	// Resize wrapped tracking
	newWrapped := make([]bool, rows)
	copy(newWrapped, g.wrapped)

	g.cells = newCells
	g.wrapped = newWrapped
	g.rows = rows
	g.cols = cols
	g.hasDirty = true

	// Resize tab stops
	newTabStop := make([]bool, cols)
	copy(newTabStop, g.tabStop)
	for i := len(g.tabStop); i < cols; i += 8 {
		newTabStop[i] = true
	}
	g.tabStop = newTabStop
}

// SetTabStop enables a tab stop at the specified column.
func (g *Grid) SetTabStop(col int) {
	if col >= 0 && col < g.cols {
		g.tabStop[col] = true
	}
}

// ClearTabStop disables the tab stop at the specified column.
func (g *Grid) ClearTabStop(col int) {
	if col >= 0 && col < g.cols {
		g.tabStop[col] = false
	}
}

// ClearAllTabStops disables all tab stops.
func (g *Grid) ClearAllTabStops() {
	for i := range g.tabStop {
		g.tabStop[i] = false
	}
}

// NextTabStop returns the column index of the next enabled tab stop after col.
// Returns the last column if no tab stop is found.
func (g *Grid) NextTabStop(col int) int {
	for c := col + 1; c < g.cols; c++ {
		if g.tabStop[c] {
			return c
		}
	}
	return g.cols - 1
}

// PrevTabStop returns the column index of the previous enabled tab stop before col.
// Returns 0 if no tab stop is found.
func (g *Grid) PrevTabStop(col int) int {
	for c := col - 1; c >= 0; c-- {
		if g.tabStop[c] {
			return c
		}
	}
	return 0
}

// FillWithE fills all cells with 'E' (used by DECALN alignment test pattern).
func (g *Grid) FillWithE() {
	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col].Reset()
			g.cells[row][col].Char = 'E'
			g.cells[row][col].MarkDirty()
		}
	}
	g.hasDirty = true
}

// ScrolledOff returns the total number of lines that have ever scrolled
// off the top of the grid. Unlike ScrollbackLen, this count is unaffected
// by scrollback eviction or clearing.
func (g *Grid) ScrolledOff() int {
	return g.scrolledOff
}

// ScrollbackLen returns the number of lines stored in scrollback.
func (g *Grid) ScrollbackLen() int {
	if g.scrollback == nil {
		return 0
	}
	return g.scrollback.Len()
}

// ScrollbackLine returns a line from scrollback, where 0 is the oldest line.
// Returns nil if index is out of range or scrollback is disabled.
func (g *Grid) ScrollbackLine(index int) []Cell {
	if g.scrollback == nil {
		return nil
	}
	return g.scrollback.Line(index)
}

// ClearScrollback removes all stored scrollback lines.
func (g *Grid) ClearScrollback() {
	if g.scrollback != nil {
		g.scrollback.Clear()
	}
}

// SetMaxScrollback sets the maximum number of scrollback lines to retain.
func (g *Grid) SetMaxScrollback(max int) {
	if g.scrollback != nil {
		g.scrollback.SetMaxLines(max)
	}
}

// MaxScrollback returns the current maximum scrollback capacity.
func (g *Grid) MaxScrollback() int {
	if g.scrollback == nil {
		return 0
	}
	return g.scrollback.MaxLines()
}

// SetScrollbackProvider replaces the scrollback storage implementation.
func (g *Grid) SetScrollbackProvider(storage ScrollbackProvider) {
	g.scrollback = storage
}

// ScrollbackProvider returns the current scrollback storage implementation.
func (g *Grid) ScrollbackProvider() ScrollbackProvider {
	return g.scrollback
}

// LineContent returns the text content of a line, trimming trailing spaces.
// Wide character spacers are skipped. Returns empty string if the line is empty or out of bounds.
func (g *Grid) LineContent(row int) string {
	if row < 0 || row >= g.rows {
		return ""
	}
	return cellsToString(g.cells[row])
}

// --- Wrapped Line Tracking ---

// IsWrapped returns true if the line was wrapped due to column overflow.
func (g *Grid) IsWrapped(row int) bool {
	if row < 0 || row >= g.rows {
		return false
	}
	return g.wrapped[row]
}

// SetWrapped sets whether the line was wrapped or ended with an explicit newline.
func (g *Grid) SetWrapped(row int, wrapped bool) {
	if row < 0 || row >= g.rows {
		return
	}
	g.wrapped[row] = wrapped
}

// cellsToString converts a row of cells to text, trimming trailing spaces.
// Wide character spacers are skipped; unset cells render as spaces.
func cellsToString(cells []Cell) string {
	// Find the last non-space character
	lastNonSpace := -1
	for i := len(cells) - 1; i >= 0; i-- {
		cell := &cells[i]
		if cell.Char != ' ' && cell.Char != 0 && !cell.IsWideSpacer() {
			lastNonSpace = i
			break
		}
	}

	if lastNonSpace < 0 {
		return ""
	}

	runes := make([]rune, 0, lastNonSpace+1)
	for i := 0; i <= lastNonSpace; i++ {
		cell := &cells[i]
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

// Position identifies a cell location in the terminal grid (0-based).
type Position struct {
	Row int
	Col int
}

// Before returns true if this position comes before other in reading order (top-to-bottom, left-to-right).
func (p Position) Before(other Position) bool {
	if p.Row < other.Row {
		return true
	}
	if p.Row == other.Row && p.Col < other.Col {
		return true
	}
	return false
}

// Equal returns true if both row and column match.
func (p Position) Equal(other Position) bool {
	return p.Row == other.Row && p.Col == other.Col
}
