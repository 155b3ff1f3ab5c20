package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/adapter"
	"github.com/dshills/keygrid/internal/grid/persist"
	"github.com/dshills/keygrid/internal/sample"
	"github.com/dshills/keygrid/internal/script"
)

// Record is the row type edited by the command line tool.
type Record = sample.Record

// demoRows fill the table when no file is given.
var demoRows = sample.Rows(
	1, "alpha",
	2, "bravo",
	3, "charlie",
	4, "delta",
	5, "echo",
)

// openTable loads the table stored at path. A missing file yields an empty
// table and an empty path the demo rows. The returned function releases the
// rules script.
func (e *environment) openTable(path, rulesPath string, extra ...grid.Option) (*grid.Table[Record], func(), error) {
	base := sample.New()
	base.Persist = true

	var a adapter.Adapter[Record] = base
	release := func() {}
	if rulesPath != "" {
		rules, err := script.Load(rulesPath, script.WithLogger(e.logger))
		if err != nil {
			return nil, nil, err
		}
		wrapped, err := script.Wrap[Record](base, rules)
		if err != nil {
			_ = rules.Close()
			return nil, nil, err
		}
		a = wrapped
		release = func() { _ = rules.Close() }
	}

	opts := []grid.Option{
		grid.WithLogger(e.logger),
		grid.WithEditPolicy(e.style.Policy()),
		grid.WithMaxUndoEntries(e.style.MaxUndoHistory),
	}
	opts = append(opts, extra...)

	if path == "" {
		return grid.New(a, demoRows, opts...), release, nil
	}

	snap, err := readSnapshot(path)
	if errors.Is(err, fs.ErrNotExist) {
		e.logger.Info("%s does not exist, starting empty", path)
		return grid.New(a, nil, opts...), release, nil
	}
	if err != nil {
		release()
		return nil, nil, err
	}

	if id, err := snap.ID(); err == nil {
		opts = append(opts, grid.WithID(id))
	}
	tb := grid.New(a, nil, opts...)
	invalid, err := persist.Restore(tb, snap)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("restore %s: %w", path, err)
	}
	if invalid > 0 {
		e.logger.Warn("%s: %d cells could not be decoded", path, invalid)
	}
	return tb, release, nil
}

func readSnapshot(path string) (*persist.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return persist.Decode(f)
}

// writeSnapshot replaces the file at path with a snapshot of t.
func writeSnapshot(path string, t *grid.Table[Record]) error {
	snap, err := persist.Capture(t)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := persist.Encode(&buf, snap); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
