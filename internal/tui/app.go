// Package tui is an interactive terminal host for a grid.Table.
//
// The App owns the screen. It turns key and mouse events into grid intents,
// runs one Table.Tick per event, publishes clipboard text the tick produced
// and redraws. Styles reloaded from configuration are applied between
// events.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keygrid/internal/config"
	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/clipboard"
	"github.com/dshills/keygrid/internal/grid/edit"
	"github.com/dshills/keygrid/internal/logging"
	"github.com/dshills/keygrid/internal/notify"
)

// doubleClick is the longest gap between two clicks on one cell that still
// counts as a double click.
const doubleClick = 400 * time.Millisecond

// Option configures an App.
type Option func(*settings)

type settings struct {
	clip   clipboard.Clipboard
	logger *logging.Logger
	style  config.Style
	save   func() error
}

// WithClipboard sets the clipboard. Defaults to clipboard.Default().
func WithClipboard(c clipboard.Clipboard) Option {
	return func(s *settings) {
		if c != nil {
			s.clip = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStyle sets the initial style.
func WithStyle(st config.Style) Option {
	return func(s *settings) {
		s.style = st
	}
}

// WithSave sets the function bound to the save key. On success the table is
// marked saved.
func WithSave(fn func() error) Option {
	return func(s *settings) {
		s.save = fn
	}
}

// App is the terminal host of one table.
type App[R any] struct {
	screen tcell.Screen
	table  *grid.Table[R]

	clip   clipboard.Clipboard
	logger *logging.Logger
	save   func() error

	style config.Style
	theme Theme

	// buffer is the editor text while an edit is active.
	buffer string
	status string

	// Scroll offsets in rows and visible columns.
	top, left int

	// Mouse state.
	dragging  bool
	hover     bool
	lastClick time.Time
	lastCell  grid.Cell

	find finder
	view view
}

// New creates an App drawing on screen. The screen must be initialized.
func New[R any](screen tcell.Screen, table *grid.Table[R], opts ...Option) *App[R] {
	s := settings{style: config.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.clip == nil {
		s.clip = clipboard.Default()
	}
	if s.logger == nil {
		s.logger = logging.Null()
	}

	a := &App[R]{
		screen: screen,
		table:  table,
		clip:   s.clip,
		logger: s.logger.WithComponent("tui"),
		save:   s.save,
	}
	a.ApplyStyle(s.style)
	return a
}

// Style returns the style in effect.
func (a *App[R]) Style() config.Style {
	return a.style
}

// Status returns the status line message.
func (a *App[R]) Status() string {
	return a.status
}

// Buffer returns the editor text.
func (a *App[R]) Buffer() string {
	return a.buffer
}

// ApplyStyle switches to a new style.
func (a *App[R]) ApplyStyle(s config.Style) {
	a.style = s
	a.theme = NewTheme(s)
	a.table.SetEditPolicy(s.Policy())
	a.table.SetMaxUndoEntries(s.MaxUndoHistory)
	a.table.Notifier().Notify(notify.Event{
		Type:   notify.EventStyleReloaded,
		Column: -1,
		Source: "style",
	})
}

// Run processes screen events until the quit key is pressed or ctx is done.
// Styles received on styles are applied as they arrive; styles may be nil.
func (a *App[R]) Run(ctx context.Context, styles <-chan config.Style) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil

		case s, ok := <-styles:
			if !ok {
				styles = nil
				continue
			}
			a.ApplyStyle(s)
			a.status = "style reloaded"
			a.Draw()

		case ev := <-events:
			if !a.HandleEvent(ev) {
				return nil
			}
		}
	}
}

// HandleEvent processes one screen event and redraws. It returns false when
// the user asked to quit.
func (a *App[R]) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		if !a.handleKey(ev) {
			return false
		}
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
	a.Draw()
	return true
}

func (a *App[R]) editing() bool {
	return a.table.EditState() == edit.Editing
}

func (a *App[R]) handleKey(ev *tcell.EventKey) bool {
	if a.find.active {
		a.handleFindKey(ev)
		return true
	}
	b := Lookup(ev, a.editing())
	cur, hasCursor := a.table.Selection().Cursor()
	if !hasCursor && needsCursor(b.Action) {
		return true
	}

	switch b.Action {
	case ActionQuit:
		a.tick(grid.Intent{Action: grid.UICommitEdit})
		return false
	case ActionMove:
		a.tick(grid.Intent{Action: grid.UIMoveSelection, Direction: b.Direction, Extend: b.Extend})
	case ActionStartEdit:
		a.startEdit(cur, edit.Keyboard, "")
	case ActionType:
		if a.editing() {
			a.setText(a.buffer + string(b.Rune))
		} else {
			a.startEdit(cur, edit.Keyboard, string(b.Rune))
		}
	case ActionBackspace:
		a.setText(trimLast(a.buffer))
	case ActionCommit:
		a.tick(grid.Intent{Action: grid.UICommitAndMove, Direction: b.Direction})
	case ActionCancel:
		a.tick(grid.Intent{Action: grid.UICancelEdit})
	case ActionCopy:
		a.tick(grid.Intent{Action: grid.UICopy})
	case ActionCut:
		a.tick(grid.Intent{Action: grid.UICut})
	case ActionPaste, ActionPasteInsert:
		a.paste(b.Action == ActionPasteInsert)
	case ActionClear:
		a.tick(grid.Intent{Action: grid.UIClearCells})
	case ActionFill:
		a.tick(grid.Intent{Action: grid.UIFillSelection})
	case ActionDuplicate:
		a.tick(grid.Intent{Action: grid.UIDuplicateRows})
	case ActionDelete:
		a.tick(grid.Intent{Action: grid.UIDeleteRows})
	case ActionInsertAbove, ActionInsertBelow:
		a.tick(grid.Intent{Action: grid.UIInsertEmptyRows, Count: 1, Below: b.Action == ActionInsertBelow})
	case ActionUndo:
		a.tick(grid.Intent{Action: grid.UIUndo})
	case ActionRedo:
		a.tick(grid.Intent{Action: grid.UIRedo})
	case ActionSelectAll:
		a.tick(grid.Intent{Action: grid.UISelectAll})
	case ActionSelectRow:
		a.tick(grid.Intent{Action: grid.UISelectRow, Cell: cur})
	case ActionSort:
		if col, ok := a.table.DataColumn(cur.Column); ok {
			a.tick(grid.Intent{Action: grid.UICycleSort, Column: col})
		}
	case ActionHideColumn:
		if col, ok := a.table.DataColumn(cur.Column); ok {
			a.tick(grid.Intent{Action: grid.UIHideColumn, Column: col})
		}
	case ActionShowColumns:
		var intents []grid.Intent
		for _, col := range a.table.HiddenColumns() {
			intents = append(intents, grid.Intent{Action: grid.UIShowColumn, Column: col, To: len(a.table.VisibleColumns()) + len(intents)})
		}
		a.tick(intents...)
	case ActionMoveColumnLeft:
		a.moveColumn(cur, -1)
	case ActionMoveColumnRight:
		a.moveColumn(cur, 1)
	case ActionFind:
		a.startFind()
	case ActionSave:
		a.doSave()
	}
	return true
}

func needsCursor(action Action) bool {
	switch action {
	case ActionStartEdit, ActionType, ActionSelectRow, ActionSort,
		ActionHideColumn, ActionMoveColumnLeft, ActionMoveColumnRight:
		return true
	}
	return false
}

func (a *App[R]) startEdit(c grid.Cell, g edit.Gesture, typed string) {
	res := a.tick(grid.Intent{Action: grid.UIStartEdit, Cell: c, Gesture: g})
	if !res.Focus {
		return
	}
	if typed != "" {
		a.setText(typed)
		return
	}
	if row, ok := a.table.EditingRow(); ok {
		if col, ok := a.table.DataColumn(c.Column); ok {
			a.buffer = a.table.Caps().EncodeCell(row, col)
		}
	}
}

// setText replaces the editor text. The pending value only follows text
// that decodes; the buffer keeps whatever was typed.
func (a *App[R]) setText(text string) {
	if !a.editing() {
		return
	}
	a.buffer = text
	a.tick(grid.Intent{Action: grid.UIEditText, Text: text})
}

func (a *App[R]) paste(insert bool) {
	text, err := a.clip.ReadText()
	if err != nil {
		a.logger.Warn("reading clipboard: %v", err)
		a.status = "clipboard unavailable"
		return
	}
	action := grid.UIPasteInPlace
	if insert {
		action = grid.UIPasteInsert
	}
	a.tick(grid.Intent{Action: action, Text: text})
}

func (a *App[R]) moveColumn(cur grid.Cell, delta int) {
	to := cur.Column + delta
	if to < 0 || to >= len(a.table.VisibleColumns()) {
		return
	}
	res := a.tick(grid.Intent{Action: grid.UIMoveColumn, Column: cur.Column, To: to})
	if res.Changed {
		a.tick(grid.Intent{Action: grid.UISelect, Cell: grid.Cell{Row: cur.Row, Column: to}})
	}
}

func (a *App[R]) doSave() {
	if a.save == nil {
		a.status = "no save target"
		return
	}
	a.tick(grid.Intent{Action: grid.UICommitEdit})
	if err := a.save(); err != nil {
		a.logger.Error("save: %v", err)
		a.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	a.table.MarkSaved()
	a.status = "saved"
}

func (a *App[R]) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	a.hover = a.view.inTable(x, y)

	switch ev.Buttons() {
	case tcell.WheelUp:
		a.scroll(-3)
		return
	case tcell.WheelDown:
		a.scroll(3)
		return
	case tcell.ButtonNone:
		a.dragging = false
		return
	case tcell.Button1:
	default:
		return
	}

	if col, ok := a.view.headerAt(x, y); ok {
		if !a.dragging {
			a.tick(grid.Intent{Action: grid.UICycleSort, Column: col})
		}
		a.dragging = true
		return
	}
	c, ok := a.view.cellAt(x, y)
	if !ok {
		return
	}

	if a.dragging {
		if c != a.lastCell {
			a.tick(grid.Intent{Action: grid.UIExtendSelection, Cell: c})
			a.lastCell = c
		}
		return
	}
	a.dragging = true

	if ev.Modifiers()&tcell.ModShift != 0 {
		a.tick(grid.Intent{Action: grid.UIExtendSelection, Cell: c})
		return
	}

	now := time.Now()
	gesture := edit.SingleClick
	if c == a.lastCell && now.Sub(a.lastClick) < doubleClick {
		gesture = edit.DoubleClick
	}
	a.lastClick, a.lastCell = now, c

	// The single-click gesture is judged against the cursor before this
	// click moves it.
	a.startEdit(c, gesture, "")
	if !a.editing() {
		a.tick(grid.Intent{Action: grid.UISelect, Cell: c})
	}
}

func (a *App[R]) scroll(delta int) {
	a.top = max(0, min(a.top+delta, a.table.Len()-1))
}

// tick runs intents through the table and handles the result.
func (a *App[R]) tick(intents ...grid.Intent) grid.TickResult {
	res := a.table.Tick(intents...)

	if res.HasClipboard {
		if err := a.clip.WriteText(res.Clipboard); err != nil {
			a.logger.Warn("writing clipboard: %v", err)
			a.status = "clipboard unavailable"
		} else {
			a.status = "copied"
		}
	}
	for _, ev := range res.Events {
		switch {
		case ev.Type == notify.EventRejected:
			a.status = ev.Reason.String()
		case ev.Type == notify.EventHistoryChanged && (ev.Source == "undo" || ev.Source == "redo"):
			a.status = ev.Source + ": " + ev.Detail
		}
	}
	if !a.editing() {
		a.buffer = ""
	}
	return res
}
