package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestPasteThenCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")

	if _, stderr, err := execute(t, "1\talpha\tfalse\n2\tbravo\ttrue\n", "paste", path); err != nil {
		t.Fatalf("paste failed: %v\n%s", err, stderr)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("paste should create the file: %v", err)
	}

	_, stderr, err := execute(t, "", "paste", path, "--row", "1", "--column", "1", "--text", "beta")
	if err != nil {
		t.Fatalf("second paste failed: %v\n%s", err, stderr)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "rows",
			args: []string{"copy", path},
			want: "1\talpha\tfalse\n2\tbeta\ttrue\n",
		},
		{
			name: "with header",
			args: []string{"copy", "--header", path},
			want: "Num\tName\tLocked\n1\talpha\tfalse\n2\tbeta\ttrue\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stderr, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatalf("copy failed: %v\n%s", err, stderr)
			}
			if out != tt.want {
				t.Errorf("copy = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestPasteInsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	if _, _, err := execute(t, "", "paste", path, "--text", "1\ta\n3\tc\n"); err != nil {
		t.Fatalf("paste failed: %v", err)
	}
	if _, _, err := execute(t, "", "paste", path, "--insert", "--row", "1", "--text", "2\tb\n"); err != nil {
		t.Fatalf("paste --insert failed: %v", err)
	}

	out, _, err := execute(t, "", "copy", path)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if want := "1\ta\tfalse\n2\tb\tfalse\n3\tc\tfalse\n"; out != want {
		t.Errorf("copy = %q, want %q", out, want)
	}
}

func TestPasteDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")

	out, _, err := execute(t, "", "paste", path, "--dry-run", "--text", "7\tseven\n")
	if err != nil {
		t.Fatalf("paste failed: %v", err)
	}
	if !strings.Contains(out, "seven") {
		t.Errorf("dry run output should hold the snapshot:\n%s", out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("dry run must not write the file, Stat() = %v", err)
	}
}

func TestPasteNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")

	_, _, err := execute(t, "", "paste", path, "--text", "")
	if !errors.Is(err, errNothingPasted) {
		t.Errorf("paste of empty text = %v, want %v", err, errNothingPasted)
	}
}

func TestPasteWithRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")
	rules := filepath.Join(dir, "rules.lua")
	src := `
function confirm_write(w)
  return not (w.column == "Name" and w.next.Name == "bad")
end
`
	if err := os.WriteFile(rules, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := execute(t, "", "--rules", rules, "paste", path, "--text", "1\tbad\n")
	if err != nil {
		t.Fatalf("paste failed: %v", err)
	}
	if !strings.Contains(stderr, "write-rejected") {
		t.Errorf("stderr should report the rejected field:\n%s", stderr)
	}

	out, _, err := execute(t, "", "copy", path)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if want := "1\t\tfalse\n"; out != want {
		t.Errorf("copy = %q, want %q", out, want)
	}
}

func TestQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	if _, _, err := execute(t, "", "paste", path, "--text", "1\ta\n2\tb\n3\tc\n"); err != nil {
		t.Fatalf("paste failed: %v", err)
	}

	out, stderr, err := execute(t, "", "query", "--header", path, "SELECT Name FROM grid WHERE Num > 1 ORDER BY Num DESC")
	if err != nil {
		t.Fatalf("query failed: %v\n%s", err, stderr)
	}
	if want := "Name\nc\nb\n"; out != want {
		t.Errorf("query = %q, want %q", out, want)
	}

	if _, _, err := execute(t, "", "query", path, "SELECT"); err == nil {
		t.Error("query should fail on invalid SQL")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "", "--log-level", "loud", "version")
	if err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("err = %v, want an invalid log level error", err)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "keygrid "+version) {
		t.Errorf("version output = %q", out)
	}
}
