package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	c := New()
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.Style(); got != Default() {
		t.Errorf("Style() = %+v, want defaults", got)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keygrid.toml")
	writeFile(t, filepath.Join(dir, "colors.toml"), `
[colors]
selectedCell = "#112233"
`)
	writeFile(t, path, `
"@include" = "colors.toml"

[edit]
singleClick = true
maxUndo = 50

[view]
scrollBars = "never"
autoShrinkY = true
`)
	t.Setenv("KEYGRID_MAX_UNDO", "-1")
	t.Setenv("KEYGRID_VIEW_ROW_HEIGHT", "2")

	c := New(WithFile(path))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := c.Style()

	if !s.SingleClickEdit || !s.Policy().SingleClick {
		t.Error("singleClick not applied")
	}
	if s.MaxUndoHistory != -1 {
		t.Errorf("MaxUndoHistory = %d, want env override -1", s.MaxUndoHistory)
	}
	if s.ScrollBars != ScrollBarsNever || !s.AutoShrinkY || s.AutoShrinkX {
		t.Errorf("view settings = %+v", s)
	}
	if s.RowHeight != 2 {
		t.Errorf("RowHeight = %d, want 2", s.RowHeight)
	}
	if s.BgSelectedCell != "#112233" {
		t.Errorf("BgSelectedCell = %q, want included value", s.BgSelectedCell)
	}
	if s.FgDragSelection != Default().FgDragSelection {
		t.Error("unset values keep their defaults")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "wrong type", content: "[edit]\nsingleClick = \"yes\"\n", want: ErrTypeMismatch},
		{name: "bad scroll bars", content: "[view]\nscrollBars = \"sometimes\"\n", want: ErrInvalidValue},
		{name: "bad color", content: "[colors]\ndragSelection = \"yellow\"\n", want: ErrInvalidValue},
		{name: "bad row height", content: "[view]\nrowHeight = 0\n", want: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "keygrid.toml")
			writeFile(t, path, tt.content)

			c := New(WithFile(path))
			err := c.Load(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() = %v, want %v", err, tt.want)
			}
			if c.Style() != Default() {
				t.Error("a failed load must keep the previous style")
			}
		})
	}
}

func TestParseScrollBars(t *testing.T) {
	for _, s := range []ScrollBars{ScrollBarsAlways, ScrollBarsHover, ScrollBarsNever} {
		got, err := ParseScrollBars(s.String())
		if err != nil || got != s {
			t.Errorf("ParseScrollBars(%q) = %v, %v", s.String(), got, err)
		}
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygrid.toml")
	writeFile(t, path, "[edit]\nmaxUndo = 10\n")

	c := New(WithFile(path), WithDebounce(20*time.Millisecond))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	styles, err := c.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writeFile(t, path, "[edit]\nmaxUndo = 20\n")
	select {
	case s := <-styles:
		if s.MaxUndoHistory != 20 {
			t.Errorf("reloaded MaxUndoHistory = %d, want 20", s.MaxUndoHistory)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reload delivered")
	}

	cancel()
	for range styles {
	}
}

func TestWatchWithoutFile(t *testing.T) {
	if _, err := New().Watch(context.Background()); !errors.Is(err, ErrNoFile) {
		t.Errorf("Watch() = %v, want ErrNoFile", err)
	}
}
