package blockterm

import (
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// Parser converts raw terminal output bytes into Actions. It wraps a
// table-driven escape sequence decoder; decoder state (partial escape
// sequences, split UTF-8 runes) persists across Parse calls, so the
// produced actions depend only on the byte stream, not on how it was
// chunked. Malformed sequences are discarded by the decoder without
// producing actions.
//
// A Parser is not safe for concurrent use. The Session owns one and
// calls it from a single goroutine.
type Parser struct {
	decoder   *ansicode.Decoder
	collector *collector
}

// NewParser returns a Parser with fresh decoder state.
func NewParser() *Parser {
	c := &collector{}

	return &Parser{
		decoder:   ansicode.NewDecoder(c),
		collector: c,
	}
}

// Parse feeds data to the decoder and returns the actions it completed.
// Bytes that end mid-sequence stay buffered in the decoder until the
// next call. Parse never fails; the returned slice is owned by the
// caller.
func (p *Parser) Parse(data []byte) []Action {
	p.decoder.Write(data)

	actions := p.collector.actions
	p.collector.actions = nil
	return actions
}

// collector implements the decoder handler interface by recording each
// callback as an Action.
type collector struct {
	actions []Action
}

var _ ansicode.Handler = (*collector)(nil)

func (c *collector) emit(a Action) {
	c.actions = append(c.actions, a)
}

func (c *collector) Input(r rune) {
	c.emit(ActionPrint{Rune: r})
}

func (c *collector) Bell() {
	c.emit(ActionBell{})
}

func (c *collector) Backspace() {
	c.emit(ActionBackspace{})
}

func (c *collector) CarriageReturn() {
	c.emit(ActionCarriageReturn{})
}

func (c *collector) LineFeed() {
	c.emit(ActionLineFeed{})
}

func (c *collector) Substitute() {
	c.emit(ActionSubstitute{})
}

func (c *collector) Tab(n int) {
	c.emit(ActionTab{Count: n})
}

func (c *collector) HorizontalTabSet() {
	c.emit(ActionTabSet{})
}

func (c *collector) ClearTabs(mode ansicode.TabulationClearMode) {
	c.emit(ActionClearTabs{Mode: mode})
}

func (c *collector) MoveForwardTabs(n int) {
	c.emit(ActionMoveForwardTabs{Count: n})
}

func (c *collector) MoveBackwardTabs(n int) {
	c.emit(ActionMoveBackwardTabs{Count: n})
}

func (c *collector) Goto(row, col int) {
	c.emit(ActionGoto{Row: row, Col: col})
}

func (c *collector) GotoCol(col int) {
	c.emit(ActionGotoCol{Col: col})
}

func (c *collector) GotoLine(row int) {
	c.emit(ActionGotoLine{Row: row})
}

func (c *collector) MoveUp(n int) {
	c.emit(ActionMoveUp{Count: n})
}

func (c *collector) MoveDown(n int) {
	c.emit(ActionMoveDown{Count: n})
}

func (c *collector) MoveForward(n int) {
	c.emit(ActionMoveForward{Count: n})
}

func (c *collector) MoveBackward(n int) {
	c.emit(ActionMoveBackward{Count: n})
}

func (c *collector) MoveUpCr(n int) {
	c.emit(ActionMoveUpCr{Count: n})
}

func (c *collector) MoveDownCr(n int) {
	c.emit(ActionMoveDownCr{Count: n})
}

func (c *collector) ReverseIndex() {
	c.emit(ActionReverseIndex{})
}

func (c *collector) SaveCursorPosition() {
	c.emit(ActionSaveCursor{})
}

func (c *collector) RestoreCursorPosition() {
	c.emit(ActionRestoreCursor{})
}

func (c *collector) ClearLine(mode ansicode.LineClearMode) {
	c.emit(ActionClearLine{Mode: mode})
}

func (c *collector) ClearScreen(mode ansicode.ClearMode) {
	c.emit(ActionClearScreen{Mode: mode})
}

func (c *collector) EraseChars(n int) {
	c.emit(ActionEraseChars{Count: n})
}

func (c *collector) DeleteChars(n int) {
	c.emit(ActionDeleteChars{Count: n})
}

func (c *collector) InsertBlank(n int) {
	c.emit(ActionInsertBlank{Count: n})
}

func (c *collector) InsertBlankLines(n int) {
	c.emit(ActionInsertLines{Count: n})
}

func (c *collector) DeleteLines(n int) {
	c.emit(ActionDeleteLines{Count: n})
}

func (c *collector) ScrollUp(n int) {
	c.emit(ActionScrollUp{Count: n})
}

func (c *collector) ScrollDown(n int) {
	c.emit(ActionScrollDown{Count: n})
}

func (c *collector) SetScrollingRegion(top, bottom int) {
	c.emit(ActionSetScrollingRegion{Top: top, Bottom: bottom})
}

func (c *collector) Decaln() {
	c.emit(ActionDecaln{})
}

func (c *collector) SetMode(mode ansicode.TerminalMode) {
	c.emit(ActionSetMode{Mode: mode})
}

func (c *collector) UnsetMode(mode ansicode.TerminalMode) {
	c.emit(ActionUnsetMode{Mode: mode})
}

func (c *collector) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	c.emit(ActionSetCharAttribute{Attr: attr})
}

func (c *collector) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	c.emit(ActionConfigureCharset{Index: index, Charset: charset})
}

func (c *collector) SetActiveCharset(n int) {
	c.emit(ActionSetActiveCharset{Index: n})
}

func (c *collector) SetCursorStyle(style ansicode.CursorStyle) {
	c.emit(ActionSetCursorStyle{Style: style})
}

func (c *collector) SetTitle(title string) {
	c.emit(ActionSetTitle{Title: title})
}

func (c *collector) PushTitle() {
	c.emit(ActionPushTitle{})
}

func (c *collector) PopTitle() {
	c.emit(ActionPopTitle{})
}

func (c *collector) SetColor(index int, color color.Color) {
	c.emit(ActionSetColor{Index: index, Color: color})
}

func (c *collector) ResetColor(i int) {
	c.emit(ActionResetColor{Index: i})
}

func (c *collector) SetDynamicColor(prefix string, index int, terminator string) {
	c.emit(ActionSetDynamicColor{Prefix: prefix, Index: index, Terminator: terminator})
}

func (c *collector) SetHyperlink(hyperlink *ansicode.Hyperlink) {
	c.emit(ActionSetHyperlink{Hyperlink: hyperlink})
}

func (c *collector) ClipboardStore(clipboard byte, data []byte) {
	c.emit(ActionClipboardStore{Clipboard: clipboard, Data: data})
}

func (c *collector) ClipboardLoad(clipboard byte, terminator string) {
	c.emit(ActionClipboardLoad{Clipboard: clipboard, Terminator: terminator})
}

func (c *collector) SetWorkingDirectory(uri string) {
	c.emit(ActionSetWorkingDirectory{URI: uri})
}

func (c *collector) SetUserVar(name, value string) {
	c.emit(ActionSetUserVar{Name: name, Value: value})
}

func (c *collector) DesktopNotification(payload *ansicode.NotificationPayload) {
	c.emit(ActionNotification{Payload: payload})
}

func (c *collector) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	c.emit(ActionShellMark{Mark: mark, ExitCode: exitCode})
}

func (c *collector) DeviceStatus(n int) {
	c.emit(ActionDeviceStatus{Code: n})
}

func (c *collector) IdentifyTerminal(b byte) {
	c.emit(ActionIdentifyTerminal{Intermediate: b})
}

func (c *collector) ReportKeyboardMode() {
	c.emit(ActionReportKeyboardMode{})
}

func (c *collector) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
	c.emit(ActionSetKeyboardMode{Mode: mode, Behavior: behavior})
}

func (c *collector) PushKeyboardMode(mode ansicode.KeyboardMode) {
	c.emit(ActionPushKeyboardMode{Mode: mode})
}

func (c *collector) PopKeyboardMode(n int) {
	c.emit(ActionPopKeyboardMode{Count: n})
}

func (c *collector) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {
	c.emit(ActionSetModifyOtherKeys{Modify: modify})
}

func (c *collector) ReportModifyOtherKeys() {
	c.emit(ActionReportModifyOtherKeys{})
}

func (c *collector) SetKeypadApplicationMode() {
	c.emit(ActionSetKeypadApplication{})
}

func (c *collector) UnsetKeypadApplicationMode() {
	c.emit(ActionUnsetKeypadApplication{})
}

func (c *collector) TextAreaSizeChars() {
	c.emit(ActionTextAreaSizeChars{})
}

func (c *collector) TextAreaSizePixels() {
	c.emit(ActionTextAreaSizePixels{})
}

func (c *collector) CellSizePixels() {
	c.emit(ActionCellSizePixels{})
}

func (c *collector) ResetState() {
	c.emit(ActionResetState{})
}

func (c *collector) ApplicationCommandReceived(data []byte) {
	c.emit(ActionAPC{Data: data})
}

func (c *collector) PrivacyMessageReceived(data []byte) {
	c.emit(ActionPM{Data: data})
}

func (c *collector) StartOfStringReceived(data []byte) {
	c.emit(ActionSOS{Data: data})
}

func (c *collector) SixelReceived(params [][]uint16, data []byte) {
	c.emit(ActionSixel{Params: params, Data: data})
}
