// Package persist converts tables to and from portable blobs.
//
// A Snapshot captures the whole table: its rows as encoded cell text plus the
// column order and sort keys. It is written as YAML. UI state (column layout
// and cursor) is kept separately in a shared JSON document keyed by table
// identifier, and only for adapters that opt in.
//
// The package defines the shape; reading and writing files is up to the host.
package persist

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/adapter"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// ErrVersion indicates a snapshot written by a newer format.
var ErrVersion = errors.New("unsupported snapshot version")

// Snapshot is the persisted form of a table.
type Snapshot struct {
	Version int            `yaml:"version"`
	Table   string         `yaml:"table"`
	Columns []string       `yaml:"columns"`
	Visible []int          `yaml:"visible"`
	Sort    []grid.SortKey `yaml:"sort,omitempty"`
	Rows    [][]string     `yaml:"rows"`
}

// ID returns the identifier of the table the snapshot was taken from.
func (s *Snapshot) ID() (uuid.UUID, error) {
	return uuid.Parse(s.Table)
}

// Capture takes a snapshot of t. Every data column is stored, hidden ones
// included.
func Capture[R any](t *grid.Table[R]) (*Snapshot, error) {
	caps := t.Caps()
	if !caps.HasCodec() {
		return nil, grid.ErrNoCodec
	}

	n := caps.NumColumns()
	s := &Snapshot{
		Version: SnapshotVersion,
		Table:   t.ID().String(),
		Columns: make([]string, n),
		Visible: t.VisibleColumns(),
		Sort:    t.SortKeys(),
		Rows:    make([][]string, 0, t.Len()),
	}
	for c := 0; c < n; c++ {
		s.Columns[c] = caps.ColumnName(c)
	}
	for _, row := range t.Rows() {
		cells := make([]string, n)
		for c := 0; c < n; c++ {
			cells[c] = caps.EncodeCell(row, c)
		}
		s.Rows = append(s.Rows, cells)
	}
	return s, nil
}

// Rows decodes the snapshot rows through caps. Cells that fail to decode keep
// the empty row's value; their count is returned.
func Rows[R any](caps *adapter.Caps[R], s *Snapshot) ([]R, int, error) {
	if s.Version > SnapshotVersion {
		return nil, 0, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	if len(s.Columns) != caps.NumColumns() {
		return nil, 0, fmt.Errorf("%w: snapshot has %d, adapter has %d",
			grid.ErrColumnMismatch, len(s.Columns), caps.NumColumns())
	}
	if !caps.HasCodec() {
		return nil, 0, grid.ErrNoCodec
	}

	invalid := 0
	out := make([]R, 0, len(s.Rows))
	for _, cells := range s.Rows {
		row := caps.NewEmptyRow(adapter.EmptyRowDefault)
		for c, text := range cells {
			if c >= len(s.Columns) {
				break
			}
			if !caps.DecodeCell(&row, c, text) {
				invalid++
			}
		}
		out = append(out, row)
	}
	return out, invalid, nil
}

// Restore replaces the rows and view of t with the snapshot contents. History
// is reset.
func Restore[R any](t *grid.Table[R], s *Snapshot) (int, error) {
	data, invalid, err := Rows(t.Caps(), s)
	if err != nil {
		return 0, err
	}
	t.Replace(data)
	if !t.RestoreView(s.Visible, s.Sort) {
		return invalid, fmt.Errorf("restore view: invalid columns %v", s.Visible)
	}
	t.MarkSaved()
	return invalid, nil
}

// Encode writes s as YAML.
func Encode(w io.Writer, s *Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}

// Decode reads a YAML snapshot.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
