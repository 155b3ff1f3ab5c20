package persist

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/keygrid/internal/grid"
)

// UI state lives in one JSON document shared by every table of a host:
//
//	{"tables": {"<uuid>": {"visible": [1, 0], "sort": [...], "cursor": {"row": 3, "column": 1}}}}

func statePath[R any](t *grid.Table[R]) string {
	return "tables." + t.ID().String()
}

// SaveUIState stores the column layout and cursor of t into doc and returns
// the updated document. Adapters that do not opt in leave doc unchanged.
func SaveUIState[R any](doc []byte, t *grid.Table[R]) ([]byte, error) {
	if !t.Caps().PersistUIState() {
		return doc, nil
	}
	if len(doc) == 0 {
		doc = []byte("{}")
	}
	path := statePath(t)

	var err error
	if doc, err = sjson.SetBytes(doc, path+".visible", t.VisibleColumns()); err != nil {
		return nil, fmt.Errorf("save ui state: %w", err)
	}
	if doc, err = sjson.SetBytes(doc, path+".sort", t.SortKeys()); err != nil {
		return nil, fmt.Errorf("save ui state: %w", err)
	}
	if c, ok := t.Selection().Cursor(); ok {
		doc, err = sjson.SetBytes(doc, path+".cursor", map[string]int{"row": c.Row, "column": c.Column})
	} else {
		doc, err = sjson.DeleteBytes(doc, path+".cursor")
	}
	if err != nil {
		return nil, fmt.Errorf("save ui state: %w", err)
	}
	return doc, nil
}

// LoadUIState applies the state stored for t in doc. It reports whether any
// state was found and applied.
func LoadUIState[R any](doc []byte, t *grid.Table[R]) bool {
	if !t.Caps().PersistUIState() || !gjson.ValidBytes(doc) {
		return false
	}
	state := gjson.GetBytes(doc, statePath(t))
	if !state.Exists() {
		return false
	}

	var visible []int
	for _, v := range state.Get("visible").Array() {
		visible = append(visible, int(v.Int()))
	}
	var keys []grid.SortKey
	state.Get("sort").ForEach(func(_, k gjson.Result) bool {
		keys = append(keys, grid.SortKey{
			Column:     int(k.Get("column").Int()),
			Descending: k.Get("descending").Bool(),
		})
		return true
	})
	if !t.RestoreView(visible, keys) {
		return false
	}

	if cursor := state.Get("cursor"); cursor.Exists() {
		t.Selection().SetAnchor(grid.Cell{
			Row:    int(cursor.Get("row").Int()),
			Column: int(cursor.Get("column").Int()),
		})
	}
	return true
}

// RemoveUIState drops the state stored for t.
func RemoveUIState[R any](doc []byte, t *grid.Table[R]) ([]byte, error) {
	return sjson.DeleteBytes(doc, statePath(t))
}
