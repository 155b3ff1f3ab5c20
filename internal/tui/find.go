package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/sahilm/fuzzy"

	"github.com/dshills/keygrid/internal/grid"
)

// finder is the state of the find prompt.
type finder struct {
	active  bool
	query   string
	matches fuzzy.Matches
	index   int
}

// rowText exposes the visible text of each row to the fuzzy matcher.
type rowText[R any] struct {
	table   *grid.Table[R]
	columns []int
}

func (s rowText[R]) String(i int) string {
	row, _ := s.table.Row(i)
	caps := s.table.Caps()
	parts := make([]string, len(s.columns))
	for j, c := range s.columns {
		parts[j] = caps.EncodeCell(row, c)
	}
	return strings.Join(parts, " ")
}

func (s rowText[R]) Len() int { return s.table.Len() }

func (a *App[R]) startFind() {
	a.tick(grid.Intent{Action: grid.UICommitEdit})
	a.find = finder{active: true}
	a.findStatus()
}

// handleFindKey edits the query and steps through matches. Enter keeps the
// cursor where it is; Escape does too.
func (a *App[R]) handleFindKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter, tcell.KeyEscape:
		a.find = finder{}
		a.status = ""
		return
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.search(trimLast(a.find.query))
	case tcell.KeyDown, tcell.KeyCtrlG, tcell.KeyTab:
		a.step(1)
	case tcell.KeyUp, tcell.KeyBacktab:
		a.step(-1)
	case tcell.KeyRune:
		a.search(a.find.query + string(ev.Rune()))
	}
	a.findStatus()
}

func (a *App[R]) search(query string) {
	a.find.query = query
	a.find.index = 0
	a.find.matches = nil
	if query != "" && a.table.Len() > 0 {
		src := rowText[R]{table: a.table, columns: a.table.VisibleColumns()}
		a.find.matches = fuzzy.FindFrom(query, src)
	}
	a.jump()
}

func (a *App[R]) step(delta int) {
	n := len(a.find.matches)
	if n == 0 {
		return
	}
	a.find.index = ((a.find.index+delta)%n + n) % n
	a.jump()
}

// jump moves the cursor to the current match, keeping its column.
func (a *App[R]) jump() {
	if len(a.find.matches) == 0 {
		return
	}
	col := 0
	if cur, ok := a.table.Selection().Cursor(); ok {
		col = cur.Column
	}
	row := a.find.matches[a.find.index].Index
	a.tick(grid.Intent{Action: grid.UISelect, Cell: grid.Cell{Row: row, Column: col}})
}

func (a *App[R]) findStatus() {
	switch n := len(a.find.matches); {
	case a.find.query == "":
		a.status = "find: "
	case n == 0:
		a.status = fmt.Sprintf("find: %s (no match)", a.find.query)
	default:
		a.status = fmt.Sprintf("find: %s (%d/%d)", a.find.query, a.find.index+1, n)
	}
}
