package config

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/keygrid/internal/grid/edit"
)

// ScrollBars controls scroll bar visibility.
type ScrollBars int

const (
	ScrollBarsAlways ScrollBars = iota
	ScrollBarsHover
	ScrollBarsNever
)

// String returns the setting value.
func (s ScrollBars) String() string {
	switch s {
	case ScrollBarsAlways:
		return "always"
	case ScrollBarsHover:
		return "hover"
	case ScrollBarsNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseScrollBars parses a scroll bar setting.
func ParseScrollBars(s string) (ScrollBars, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return ScrollBarsAlways, nil
	case "hover":
		return ScrollBarsHover, nil
	case "never":
		return ScrollBarsNever, nil
	}
	return 0, fmt.Errorf("%w: scroll bars %q", ErrInvalidValue, s)
}

// Style is the policy input of a table and its host.
type Style struct {
	// SingleClickEdit starts editing on a single click.
	SingleClickEdit bool

	// MaxUndoHistory bounds the undo log. Zero selects the default and a
	// negative value means unbounded.
	MaxUndoHistory int

	AutoShrinkX bool
	AutoShrinkY bool
	ScrollBars  ScrollBars
	RowHeight   int

	// Colors are hex strings, e.g. "#264f78".
	BgSelectedCell          string
	BgSelectedHighlightCell string
	FgDragSelection         string

	LogLevel string
}

// Default returns the built-in style.
func Default() Style {
	return Style{
		ScrollBars:              ScrollBarsHover,
		RowHeight:               1,
		BgSelectedCell:          "#264f78",
		BgSelectedHighlightCell: "#3a6ea5",
		FgDragSelection:         "#ffcc00",
		LogLevel:                "info",
	}
}

// Policy returns the edit activation policy.
func (s Style) Policy() edit.Policy {
	return edit.Policy{SingleClick: s.SingleClickEdit}
}

// Validate checks value ranges and color syntax.
func (s Style) Validate() error {
	var errs []error
	if s.RowHeight < 1 {
		errs = append(errs, &ValidationError{Path: "view.rowHeight", Value: s.RowHeight, Message: "must be at least 1"})
	}
	if s.ScrollBars < ScrollBarsAlways || s.ScrollBars > ScrollBarsNever {
		errs = append(errs, &ValidationError{Path: "view.scrollBars", Value: s.ScrollBars, Message: "unknown mode"})
	}
	colors := []struct{ path, value string }{
		{"colors.selectedCell", s.BgSelectedCell},
		{"colors.selectedHighlight", s.BgSelectedHighlightCell},
		{"colors.dragSelection", s.FgDragSelection},
	}
	for _, c := range colors {
		if _, err := colorful.Hex(c.value); err != nil {
			errs = append(errs, &ValidationError{Path: c.path, Value: c.value, Message: "not a hex color"})
		}
	}
	return errors.Join(errs...)
}

// FromMap decodes a merged configuration map over the default style.
// Unknown keys are ignored.
func FromMap(m map[string]any) (Style, error) {
	s := Default()
	d := decoder{m: m}

	d.bool("edit.singleClick", &s.SingleClickEdit)
	d.int("edit.maxUndo", &s.MaxUndoHistory)
	d.bool("view.autoShrinkX", &s.AutoShrinkX)
	d.bool("view.autoShrinkY", &s.AutoShrinkY)
	d.int("view.rowHeight", &s.RowHeight)
	d.string("colors.selectedCell", &s.BgSelectedCell)
	d.string("colors.selectedHighlight", &s.BgSelectedHighlightCell)
	d.string("colors.dragSelection", &s.FgDragSelection)
	d.string("logging.level", &s.LogLevel)

	var mode string
	if d.string("view.scrollBars", &mode) {
		sb, err := ParseScrollBars(mode)
		if err != nil {
			d.errs = append(d.errs, err)
		} else {
			s.ScrollBars = sb
		}
	}
	return s, errors.Join(d.errs...)
}

// decoder reads typed values out of a nested map, collecting type errors.
type decoder struct {
	m    map[string]any
	errs []error
}

func (d *decoder) bool(path string, dst *bool) {
	v, ok := getPath(d.m, path)
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		d.errs = append(d.errs, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)})
		return
	}
	*dst = b
}

func (d *decoder) int(path string, dst *int) {
	v, ok := getPath(d.m, path)
	if !ok {
		return
	}
	switch n := v.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case float64:
		*dst = int(n)
	default:
		d.errs = append(d.errs, &TypeError{Path: path, Expected: "int", Actual: typeName(v)})
	}
}

func (d *decoder) string(path string, dst *string) bool {
	v, ok := getPath(d.m, path)
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		d.errs = append(d.errs, &TypeError{Path: path, Expected: "string", Actual: typeName(v)})
		return false
	}
	*dst = s
	return true
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	current := any(m)
	for _, part := range strings.Split(path, ".") {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
