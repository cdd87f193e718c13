package service

// CommandKind identifies a discrete user intent emitted by the renderer.
type CommandKind int

const (
	CmdMoveSelection CommandKind = iota
	CmdAppendChar
	CmdBackspace
	CmdActivateSelected
	CmdSubmitWorklog
	CmdDiscardActive
	CmdCopyActiveSummary
	CmdAssignSelected
	CmdRefresh
	CmdQuit
)

var commandNames = map[CommandKind]string{
	CmdMoveSelection:     "move-selection",
	CmdAppendChar:        "append-char",
	CmdBackspace:         "backspace",
	CmdActivateSelected:  "activate",
	CmdSubmitWorklog:     "submit-worklog",
	CmdDiscardActive:     "discard",
	CmdCopyActiveSummary: "copy-summary",
	CmdAssignSelected:    "assign",
	CmdRefresh:           "refresh",
	CmdQuit:              "quit",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// edits reports whether the command only changes the query or cursor.
func (k CommandKind) edits() bool {
	return k == CmdMoveSelection || k == CmdAppendChar || k == CmdBackspace
}

// Command is a single user intent. Delta is used by CmdMoveSelection and
// Char by CmdAppendChar.
type Command struct {
	Kind  CommandKind
	Delta int
	Char  rune
}

func MoveSelection(delta int) Command { return Command{Kind: CmdMoveSelection, Delta: delta} }
func AppendChar(r rune) Command       { return Command{Kind: CmdAppendChar, Char: r} }
func Backspace() Command              { return Command{Kind: CmdBackspace} }
func ActivateSelected() Command       { return Command{Kind: CmdActivateSelected} }
func SubmitWorklog() Command          { return Command{Kind: CmdSubmitWorklog} }
func DiscardActive() Command          { return Command{Kind: CmdDiscardActive} }
func CopyActiveSummary() Command      { return Command{Kind: CmdCopyActiveSummary} }
func AssignSelected() Command         { return Command{Kind: CmdAssignSelected} }
func Refresh() Command                { return Command{Kind: CmdRefresh} }
func Quit() Command                   { return Command{Kind: CmdQuit} }
