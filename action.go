package blockterm

import (
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// Action is a single decoded terminal instruction. The Parser turns raw
// output bytes into a sequence of actions; the Screen applies them and
// the BlockManager observes them. The set of variants is closed: every
// decoder callback maps to exactly one variant.
type Action interface {
	isAction()
}

// ActionPrint writes a single rune at the cursor position.
type ActionPrint struct {
	Rune rune
}

// ActionBell rings the terminal bell.
type ActionBell struct{}

// ActionBackspace moves the cursor one column left.
type ActionBackspace struct{}

// ActionCarriageReturn moves the cursor to column 0.
type ActionCarriageReturn struct{}

// ActionLineFeed moves the cursor down one row, scrolling if needed.
type ActionLineFeed struct{}

// ActionSubstitute replaces the character under the cursor (SUB).
type ActionSubstitute struct{}

// ActionTab advances the cursor to the next tab stop, n times.
type ActionTab struct {
	Count int
}

// ActionTabSet sets a tab stop at the cursor column.
type ActionTabSet struct{}

// ActionClearTabs clears tab stops.
type ActionClearTabs struct {
	Mode ansicode.TabulationClearMode
}

// ActionMoveForwardTabs moves the cursor forward n tab stops.
type ActionMoveForwardTabs struct {
	Count int
}

// ActionMoveBackwardTabs moves the cursor backward n tab stops.
type ActionMoveBackwardTabs struct {
	Count int
}

// ActionGoto moves the cursor to an absolute position.
type ActionGoto struct {
	Row int
	Col int
}

// ActionGotoCol moves the cursor to a column on the current row.
type ActionGotoCol struct {
	Col int
}

// ActionGotoLine moves the cursor to a row in the current column.
type ActionGotoLine struct {
	Row int
}

// ActionMoveUp moves the cursor up n rows.
type ActionMoveUp struct {
	Count int
}

// ActionMoveDown moves the cursor down n rows.
type ActionMoveDown struct {
	Count int
}

// ActionMoveForward moves the cursor right n columns.
type ActionMoveForward struct {
	Count int
}

// ActionMoveBackward moves the cursor left n columns.
type ActionMoveBackward struct {
	Count int
}

// ActionMoveUpCr moves the cursor up n rows and to column 0.
type ActionMoveUpCr struct {
	Count int
}

// ActionMoveDownCr moves the cursor down n rows and to column 0.
type ActionMoveDownCr struct {
	Count int
}

// ActionReverseIndex moves the cursor up one row, scrolling down at the
// top of the scroll region.
type ActionReverseIndex struct{}

// ActionSaveCursor saves the cursor position and attributes.
type ActionSaveCursor struct{}

// ActionRestoreCursor restores the saved cursor position and attributes.
type ActionRestoreCursor struct{}

// ActionClearLine erases part or all of the cursor line.
type ActionClearLine struct {
	Mode ansicode.LineClearMode
}

// ActionClearScreen erases part or all of the display.
type ActionClearScreen struct {
	Mode ansicode.ClearMode
}

// ActionEraseChars resets n cells starting at the cursor.
type ActionEraseChars struct {
	Count int
}

// ActionDeleteChars deletes n cells at the cursor, shifting the rest of
// the row left.
type ActionDeleteChars struct {
	Count int
}

// ActionInsertBlank inserts n blank cells at the cursor, shifting the
// rest of the row right.
type ActionInsertBlank struct {
	Count int
}

// ActionInsertLines inserts n blank rows at the cursor.
type ActionInsertLines struct {
	Count int
}

// ActionDeleteLines deletes n rows at the cursor.
type ActionDeleteLines struct {
	Count int
}

// ActionScrollUp scrolls the scroll region up n rows.
type ActionScrollUp struct {
	Count int
}

// ActionScrollDown scrolls the scroll region down n rows.
type ActionScrollDown struct {
	Count int
}

// ActionSetScrollingRegion sets the scroll region (1-based, inclusive).
type ActionSetScrollingRegion struct {
	Top    int
	Bottom int
}

// ActionDecaln fills the screen with 'E' (DEC alignment test).
type ActionDecaln struct{}

// ActionSetMode enables a terminal mode.
type ActionSetMode struct {
	Mode ansicode.TerminalMode
}

// ActionUnsetMode disables a terminal mode.
type ActionUnsetMode struct {
	Mode ansicode.TerminalMode
}

// ActionSetCharAttribute applies one SGR attribute to the current
// template.
type ActionSetCharAttribute struct {
	Attr ansicode.TerminalCharAttribute
}

// ActionConfigureCharset assigns a charset to one of the G0-G3 slots.
type ActionConfigureCharset struct {
	Index   ansicode.CharsetIndex
	Charset ansicode.Charset
}

// ActionSetActiveCharset selects the active charset slot.
type ActionSetActiveCharset struct {
	Index int
}

// ActionSetCursorStyle changes the cursor shape.
type ActionSetCursorStyle struct {
	Style ansicode.CursorStyle
}

// ActionSetTitle sets the window title.
type ActionSetTitle struct {
	Title string
}

// ActionPushTitle pushes the current title onto the title stack.
type ActionPushTitle struct{}

// ActionPopTitle pops the title stack into the current title.
type ActionPopTitle struct{}

// ActionSetColor overrides a palette color.
type ActionSetColor struct {
	Index int
	Color color.Color
}

// ActionResetColor restores a palette color to its default.
type ActionResetColor struct {
	Index int
}

// ActionSetDynamicColor queries or sets a dynamic color (OSC 10-12).
type ActionSetDynamicColor struct {
	Prefix     string
	Index      int
	Terminator string
}

// ActionSetHyperlink starts or ends a hyperlink region (OSC 8). A nil
// Hyperlink ends the region.
type ActionSetHyperlink struct {
	Hyperlink *ansicode.Hyperlink
}

// ActionClipboardStore writes data to a clipboard (OSC 52).
type ActionClipboardStore struct {
	Clipboard byte
	Data      []byte
}

// ActionClipboardLoad requests clipboard contents (OSC 52 query).
type ActionClipboardLoad struct {
	Clipboard  byte
	Terminator string
}

// ActionSetWorkingDirectory reports the shell working directory as a
// file:// URI (OSC 7).
type ActionSetWorkingDirectory struct {
	URI string
}

// ActionSetUserVar sets a user variable (OSC 1337 SetUserVar).
type ActionSetUserVar struct {
	Name  string
	Value string
}

// ActionNotification posts a desktop notification (OSC 99 / OSC 777).
type ActionNotification struct {
	Payload *ansicode.NotificationPayload
}

// ActionShellMark is a shell integration mark (OSC 133). ExitCode is
// only meaningful for CommandFinished marks.
type ActionShellMark struct {
	Mark     ansicode.ShellIntegrationMark
	ExitCode int
}

// ActionDeviceStatus requests a device status report.
type ActionDeviceStatus struct {
	Code int
}

// ActionIdentifyTerminal requests device attributes.
type ActionIdentifyTerminal struct {
	Intermediate byte
}

// ActionReportKeyboardMode requests the current keyboard mode.
type ActionReportKeyboardMode struct{}

// ActionSetKeyboardMode sets the keyboard enhancement mode.
type ActionSetKeyboardMode struct {
	Mode     ansicode.KeyboardMode
	Behavior ansicode.KeyboardModeBehavior
}

// ActionPushKeyboardMode pushes a keyboard mode onto the stack.
type ActionPushKeyboardMode struct {
	Mode ansicode.KeyboardMode
}

// ActionPopKeyboardMode pops n keyboard modes off the stack.
type ActionPopKeyboardMode struct {
	Count int
}

// ActionSetModifyOtherKeys sets the modifyOtherKeys reporting mode.
type ActionSetModifyOtherKeys struct {
	Modify ansicode.ModifyOtherKeys
}

// ActionReportModifyOtherKeys requests the modifyOtherKeys mode.
type ActionReportModifyOtherKeys struct{}

// ActionSetKeypadApplication switches the keypad to application mode.
type ActionSetKeypadApplication struct{}

// ActionUnsetKeypadApplication switches the keypad to numeric mode.
type ActionUnsetKeypadApplication struct{}

// ActionTextAreaSizeChars requests the text area size in characters.
type ActionTextAreaSizeChars struct{}

// ActionTextAreaSizePixels requests the text area size in pixels.
type ActionTextAreaSizePixels struct{}

// ActionCellSizePixels requests the cell size in pixels.
type ActionCellSizePixels struct{}

// ActionResetState resets the terminal to its initial state.
type ActionResetState struct{}

// ActionAPC carries an application program command payload.
type ActionAPC struct {
	Data []byte
}

// ActionPM carries a privacy message payload.
type ActionPM struct {
	Data []byte
}

// ActionSOS carries a start-of-string payload.
type ActionSOS struct {
	Data []byte
}

// ActionSixel carries a Sixel image payload. The screen ignores it.
type ActionSixel struct {
	Params [][]uint16
	Data   []byte
}

func (ActionPrint) isAction()                  {}
func (ActionBell) isAction()                   {}
func (ActionBackspace) isAction()              {}
func (ActionCarriageReturn) isAction()         {}
func (ActionLineFeed) isAction()               {}
func (ActionSubstitute) isAction()             {}
func (ActionTab) isAction()                    {}
func (ActionTabSet) isAction()                 {}
func (ActionClearTabs) isAction()              {}
func (ActionMoveForwardTabs) isAction()        {}
func (ActionMoveBackwardTabs) isAction()       {}
func (ActionGoto) isAction()                   {}
func (ActionGotoCol) isAction()                {}
func (ActionGotoLine) isAction()               {}
func (ActionMoveUp) isAction()                 {}
func (ActionMoveDown) isAction()               {}
func (ActionMoveForward) isAction()            {}
func (ActionMoveBackward) isAction()           {}
func (ActionMoveUpCr) isAction()               {}
func (ActionMoveDownCr) isAction()             {}
func (ActionReverseIndex) isAction()           {}
func (ActionSaveCursor) isAction()             {}
func (ActionRestoreCursor) isAction()          {}
func (ActionClearLine) isAction()              {}
func (ActionClearScreen) isAction()            {}
func (ActionEraseChars) isAction()             {}
func (ActionDeleteChars) isAction()            {}
func (ActionInsertBlank) isAction()            {}
func (ActionInsertLines) isAction()            {}
func (ActionDeleteLines) isAction()            {}
func (ActionScrollUp) isAction()               {}
func (ActionScrollDown) isAction()             {}
func (ActionSetScrollingRegion) isAction()     {}
func (ActionDecaln) isAction()                 {}
func (ActionSetMode) isAction()                {}
func (ActionUnsetMode) isAction()              {}
func (ActionSetCharAttribute) isAction()       {}
func (ActionConfigureCharset) isAction()       {}
func (ActionSetActiveCharset) isAction()       {}
func (ActionSetCursorStyle) isAction()         {}
func (ActionSetTitle) isAction()               {}
func (ActionPushTitle) isAction()              {}
func (ActionPopTitle) isAction()               {}
func (ActionSetColor) isAction()               {}
func (ActionResetColor) isAction()             {}
func (ActionSetDynamicColor) isAction()        {}
func (ActionSetHyperlink) isAction()           {}
func (ActionClipboardStore) isAction()         {}
func (ActionClipboardLoad) isAction()          {}
func (ActionSetWorkingDirectory) isAction()    {}
func (ActionSetUserVar) isAction()             {}
func (ActionNotification) isAction()           {}
func (ActionShellMark) isAction()              {}
func (ActionDeviceStatus) isAction()           {}
func (ActionIdentifyTerminal) isAction()       {}
func (ActionReportKeyboardMode) isAction()     {}
func (ActionSetKeyboardMode) isAction()        {}
func (ActionPushKeyboardMode) isAction()       {}
func (ActionPopKeyboardMode) isAction()        {}
func (ActionSetModifyOtherKeys) isAction()     {}
func (ActionReportModifyOtherKeys) isAction()  {}
func (ActionSetKeypadApplication) isAction()   {}
func (ActionUnsetKeypadApplication) isAction() {}
func (ActionTextAreaSizeChars) isAction()      {}
func (ActionTextAreaSizePixels) isAction()     {}
func (ActionCellSizePixels) isAction()         {}
func (ActionResetState) isAction()             {}
func (ActionAPC) isAction()                    {}
func (ActionPM) isAction()                     {}
func (ActionSOS) isAction()                    {}
func (ActionSixel) isAction()                  {}
