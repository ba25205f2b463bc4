package blockterm

import (
	"fmt"
	"image/color"
)

// SnapshotDetail specifies the level of detail in a snapshot.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with style segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
	// SnapshotDetailFull returns full cell-by-cell data.
	SnapshotDetailFull SnapshotDetail = "full"
)

// Snapshot represents a complete capture of the visible screen.
// ScrolledOff is the absolute row number of the first visible line,
// so visible line r corresponds to absolute row ScrolledOff+r. Block
// row ranges use the same absolute coordinates, which lets a frontend
// place block boundaries onto the snapshot.
type Snapshot struct {
	Size        SnapshotSize   `json:"size"`
	Cursor      SnapshotCursor `json:"cursor"`
	Modes       SnapshotModes  `json:"modes"`
	Title       string         `json:"title,omitempty"`
	ScrolledOff int            `json:"scrolled_off"`
	Lines       []SnapshotLine `json:"lines"`
}

// SnapshotSize holds screen dimensions.
type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SnapshotCursor holds cursor state.
type SnapshotCursor struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Visible bool   `json:"visible"`
	Style   string `json:"style"`
}

// SnapshotModes holds the mode flags a frontend needs to interpret
// input and rendering: cursor key encoding, wrap, which screen is
// active, paste bracketing, keypad mode, and mouse reporting.
type SnapshotModes struct {
	CursorKeys        bool `json:"cursor_keys,omitempty"`
	LineWrap          bool `json:"line_wrap,omitempty"`
	AlternateScreen   bool `json:"alternate_screen,omitempty"`
	BracketedPaste    bool `json:"bracketed_paste,omitempty"`
	ApplicationKeypad bool `json:"application_keypad,omitempty"`
	MouseReporting    bool `json:"mouse_reporting,omitempty"`
}

// SnapshotLine represents a single line in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

// SnapshotSegment represents a styled text segment within a line.
type SnapshotSegment struct {
	Text       string        `json:"text"`
	Fg         string        `json:"fg,omitempty"`
	Bg         string        `json:"bg,omitempty"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink `json:"hyperlink,omitempty"`
}

// SnapshotCell represents a single cell with full attributes.
type SnapshotCell struct {
	Char       string        `json:"char"`
	Fg         string        `json:"fg"`
	Bg         string        `json:"bg"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink `json:"hyperlink,omitempty"`
	Wide       bool          `json:"wide,omitempty"`
	WideSpacer bool          `json:"wide_spacer,omitempty"`
}

// SnapshotAttrs holds text formatting attributes.
type SnapshotAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Dim           bool `json:"dim,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Reverse       bool `json:"reverse,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
}

// SnapshotLink holds hyperlink information.
type SnapshotLink struct {
	ID  string `json:"id,omitempty"`
	URI string `json:"uri"`
}

// Snapshot creates a snapshot of the current screen state.
// The detail parameter controls how much information is included.
func (s *Screen) Snapshot(detail SnapshotDetail) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Size: SnapshotSize{
			Rows: s.rows,
			Cols: s.cols,
		},
		Cursor: SnapshotCursor{
			Row:     s.cursor.Row,
			Col:     s.cursor.Col,
			Visible: s.cursor.Visible,
			Style:   cursorStyleToString(s.cursor.Style),
		},
		Modes: SnapshotModes{
			CursorKeys:        s.modes&ModeCursorKeys != 0,
			LineWrap:          s.modes&ModeLineWrap != 0,
			AlternateScreen:   s.active == s.alternate,
			BracketedPaste:    s.modes&ModeBracketedPaste != 0,
			ApplicationKeypad: s.modes&ModeKeypadApplication != 0,
			MouseReporting:    s.modes&(ModeReportMouseClicks|ModeReportCellMouseMotion|ModeReportAllMouseMotion) != 0,
		},
		Title:       s.title,
		ScrolledOff: s.primary.ScrolledOff(),
		Lines:       make([]SnapshotLine, s.rows),
	}

	for row := 0; row < s.rows; row++ {
		snap.Lines[row] = snapshotLineFromCells(s.activeRowCellsLocked(row), s.cols, detail)
	}

	return snap
}

// SnapshotLines captures rows [startRow, endRow) in absolute
// coordinates, reading from scrollback or the primary grid as needed.
// Rows evicted from scrollback yield empty lines (padded with default
// cells at full detail). Capturing a finished command block is the
// typical use: pass the block's StartRow and EndRow.
func (s *Screen) SnapshotLines(detail SnapshotDetail, startRow, endRow int) []SnapshotLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if startRow < 0 {
		startRow = 0
	}
	if total := s.primary.ScrolledOff() + s.rows; endRow > total {
		endRow = total
	}

	var lines []SnapshotLine
	for row := startRow; row < endRow; row++ {
		lines = append(lines, snapshotLineFromCells(s.absoluteCellsLocked(row), s.cols, detail))
	}
	return lines
}

// snapshotLineFromCells builds a snapshot line from plain cell data.
// Lines shorter than cols (or nil, for evicted rows) are treated as
// blank to the right.
func snapshotLineFromCells(cells []Cell, cols int, detail SnapshotDetail) SnapshotLine {
	line := SnapshotLine{
		Text: cellsToString(cells),
	}

	switch detail {
	case SnapshotDetailText:
		// Just text, already set

	case SnapshotDetailStyled:
		line.Segments = cellsToSegments(cells)

	case SnapshotDetailFull:
		line.Cells = cellsToSnapshotCells(cells, cols)
	}

	return line
}

// cellsToSegments converts a row of cells to styled segments (runs of same style).
func cellsToSegments(cells []Cell) []SnapshotSegment {
	var segments []SnapshotSegment
	var current *SnapshotSegment
	var currentChars []rune

	for i := range cells {
		cell := &cells[i]
		if cell.IsWideSpacer() {
			continue
		}

		fg := colorToHex(cell.Fg)
		bg := colorToHex(cell.Bg)
		attrs := cellAttrsToSnapshot(cell)
		link := cellHyperlinkToSnapshot(cell)

		// Check if we need to start a new segment
		if current == nil || !segmentMatches(current, fg, bg, attrs, link) {
			// Save current segment if exists
			if current != nil && len(currentChars) > 0 {
				current.Text = string(currentChars)
				segments = append(segments, *current)
			}

			// Start new segment
			current = &SnapshotSegment{
				Fg:         fg,
				Bg:         bg,
				Attributes: attrs,
				Hyperlink:  link,
			}
			currentChars = nil
		}

		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		currentChars = append(currentChars, ch)
	}

	// Don't forget the last segment
	if current != nil && len(currentChars) > 0 {
		current.Text = string(currentChars)
		segments = append(segments, *current)
	}

	return segments
}

// cellsToSnapshotCells converts a row of cells to full cell data,
// padding to cols with default cells.
func cellsToSnapshotCells(cells []Cell, cols int) []SnapshotCell {
	out := make([]SnapshotCell, 0, cols)

	for col := 0; col < cols; col++ {
		if col >= len(cells) {
			out = append(out, SnapshotCell{
				Char: " ",
				Fg:   colorToHex(nil),
				Bg:   colorToHex(nil),
			})
			continue
		}
		cell := &cells[col]

		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}

		out = append(out, SnapshotCell{
			Char:       string(ch),
			Fg:         colorToHex(cell.Fg),
			Bg:         colorToHex(cell.Bg),
			Attributes: cellAttrsToSnapshot(cell),
			Hyperlink:  cellHyperlinkToSnapshot(cell),
			Wide:       cell.IsWide(),
			WideSpacer: cell.IsWideSpacer(),
		})
	}

	return out
}

// segmentMatches checks if segment matches the given style.
func segmentMatches(seg *SnapshotSegment, fg, bg string, attrs SnapshotAttrs, link *SnapshotLink) bool {
	if seg.Fg != fg || seg.Bg != bg {
		return false
	}
	if seg.Attributes != attrs {
		return false
	}
	// Compare hyperlinks
	if seg.Hyperlink == nil && link == nil {
		return true
	}
	if seg.Hyperlink == nil || link == nil {
		return false
	}
	return seg.Hyperlink.URI == link.URI && seg.Hyperlink.ID == link.ID
}

// colorToHex converts a color to hex string.
func colorToHex(c color.Color) string {
	if c == nil {
		return ""
	}

	rgba := resolveDefaultColor(c, true)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// cellAttrsToSnapshot extracts cell attributes.
func cellAttrsToSnapshot(cell *Cell) SnapshotAttrs {
	return SnapshotAttrs{
		Bold:          cell.HasFlag(CellFlagBold),
		Dim:           cell.HasFlag(CellFlagDim),
		Italic:        cell.HasFlag(CellFlagItalic),
		Underline:     cell.HasFlag(CellFlagUnderline) || cell.HasFlag(CellFlagDoubleUnderline) || cell.HasFlag(CellFlagCurlyUnderline) || cell.HasFlag(CellFlagDottedUnderline) || cell.HasFlag(CellFlagDashedUnderline),
		Blink:         cell.HasFlag(CellFlagBlinkSlow) || cell.HasFlag(CellFlagBlinkFast),
		Reverse:       cell.HasFlag(CellFlagReverse),
		Hidden:        cell.HasFlag(CellFlagHidden),
		Strikethrough: cell.HasFlag(CellFlagStrike),
	}
}

// cellHyperlinkToSnapshot extracts hyperlink info.
func cellHyperlinkToSnapshot(cell *Cell) *SnapshotLink {
	if cell.Hyperlink == nil {
		return nil
	}
	return &SnapshotLink{
		ID:  cell.Hyperlink.ID,
		URI: cell.Hyperlink.URI,
	}
}

// cursorStyleToString converts cursor style to string.
func cursorStyleToString(style CursorStyle) string {
	switch style {
	case CursorStyleBlinkingBlock, CursorStyleSteadyBlock:
		return "block"
	case CursorStyleBlinkingUnderline, CursorStyleSteadyUnderline:
		return "underline"
	case CursorStyleBlinkingBar, CursorStyleSteadyBar:
		return "bar"
	default:
		return "block"
	}
}
