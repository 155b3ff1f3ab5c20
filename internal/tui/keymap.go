package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keygrid/internal/grid/selection"
)

// Action is a host command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionMove
	ActionStartEdit
	ActionType
	ActionBackspace
	ActionCommit
	ActionCancel
	ActionCopy
	ActionCut
	ActionPaste
	ActionPasteInsert
	ActionClear
	ActionFill
	ActionDuplicate
	ActionDelete
	ActionInsertAbove
	ActionInsertBelow
	ActionUndo
	ActionRedo
	ActionSelectAll
	ActionSelectRow
	ActionSort
	ActionHideColumn
	ActionShowColumns
	ActionMoveColumnLeft
	ActionMoveColumnRight
	ActionFind
	ActionSave
)

// Binding is the result of a key lookup.
type Binding struct {
	Action Action

	// Direction and Extend qualify ActionMove and ActionCommit.
	Direction selection.Direction
	Extend    bool

	// Rune is the typed character of ActionType.
	Rune rune
}

var arrows = map[tcell.Key]selection.Direction{
	tcell.KeyUp:    selection.Up,
	tcell.KeyDown:  selection.Down,
	tcell.KeyLeft:  selection.Left,
	tcell.KeyRight: selection.Right,
}

var navigation = map[tcell.Key]Action{
	tcell.KeyCtrlQ:  ActionQuit,
	tcell.KeyEnter:  ActionStartEdit,
	tcell.KeyF2:     ActionStartEdit,
	tcell.KeyCtrlC:  ActionCopy,
	tcell.KeyCtrlX:  ActionCut,
	tcell.KeyCtrlV:  ActionPaste,
	tcell.KeyCtrlB:  ActionPasteInsert,
	tcell.KeyDelete: ActionClear,
	tcell.KeyCtrlD:  ActionFill,
	tcell.KeyCtrlE:  ActionDuplicate,
	tcell.KeyCtrlK:  ActionDelete,
	tcell.KeyInsert: ActionInsertAbove,
	tcell.KeyCtrlN:  ActionInsertBelow,
	tcell.KeyCtrlZ:  ActionUndo,
	tcell.KeyCtrlY:  ActionRedo,
	tcell.KeyCtrlA:  ActionSelectAll,
	tcell.KeyCtrlL:  ActionSelectRow,
	tcell.KeyF3:     ActionSort,
	tcell.KeyF4:     ActionHideColumn,
	tcell.KeyF5:     ActionShowColumns,
	tcell.KeyF6:     ActionMoveColumnLeft,
	tcell.KeyF7:     ActionMoveColumnRight,
	tcell.KeyCtrlF:  ActionFind,
	tcell.KeyCtrlS:  ActionSave,
}

// Lookup maps a key event to a binding. editing selects the bindings used
// while an editor has focus.
func Lookup(ev *tcell.EventKey, editing bool) Binding {
	if editing {
		return lookupEditing(ev)
	}

	if d, ok := arrows[ev.Key()]; ok {
		return Binding{Action: ActionMove, Direction: d, Extend: ev.Modifiers()&tcell.ModShift != 0}
	}
	switch ev.Key() {
	case tcell.KeyTab:
		return Binding{Action: ActionMove, Direction: selection.Right}
	case tcell.KeyBacktab:
		return Binding{Action: ActionMove, Direction: selection.Left}
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return Binding{}
		}
		return Binding{Action: ActionType, Rune: ev.Rune()}
	}
	if a, ok := navigation[ev.Key()]; ok {
		return Binding{Action: a}
	}
	return Binding{}
}

func lookupEditing(ev *tcell.EventKey) Binding {
	switch ev.Key() {
	case tcell.KeyRune:
		return Binding{Action: ActionType, Rune: ev.Rune()}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Binding{Action: ActionBackspace}
	case tcell.KeyEnter:
		return Binding{Action: ActionCommit, Direction: selection.Down}
	case tcell.KeyTab:
		return Binding{Action: ActionCommit, Direction: selection.Right}
	case tcell.KeyBacktab:
		return Binding{Action: ActionCommit, Direction: selection.Left}
	case tcell.KeyUp:
		return Binding{Action: ActionCommit, Direction: selection.Up}
	case tcell.KeyDown:
		return Binding{Action: ActionCommit, Direction: selection.Down}
	case tcell.KeyEscape:
		return Binding{Action: ActionCancel}
	case tcell.KeyCtrlQ:
		return Binding{Action: ActionQuit}
	default:
		return Binding{}
	}
}
