// Package query runs read-only SQL over the rows of a table.
//
// The table is copied into an in-memory SQLite database as one table named
// "grid" with a column per data column, named after the adapter's column
// names, plus "_pos" (the row position) and "_id" (the row identifier).
// Cells are stored as their encoded text, except text that parses as a number
// is stored as a number so comparisons and aggregates behave naturally.
//
//	SELECT Name FROM grid WHERE Num > 2 ORDER BY _pos
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/clipboard"
)

// TableName is the name of the SQL table holding the rows.
const TableName = "grid"

// ErrNoCodec indicates an adapter without a cell codec.
var ErrNoCodec = errors.New("adapter has no cell codec")

// Result is the outcome of a query, every value formatted as text.
type Result struct {
	Columns []string
	Rows    [][]string
}

// TSV formats the result as escaped tab-separated text, optionally preceded
// by the column names.
func (r *Result) TSV(header bool) string {
	records := r.Rows
	if header {
		records = append([][]string{r.Columns}, r.Rows...)
	}
	return clipboard.FormatTSV(records)
}

// Run loads t into a fresh in-memory database and runs stmt against it.
func Run[R any](ctx context.Context, t *grid.Table[R], stmt string) (*Result, error) {
	caps := t.Caps()
	if !caps.HasCodec() {
		return nil, ErrNoCodec
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	defer db.Close()
	// Each connection of an in-memory database is a separate database.
	db.SetMaxOpenConns(1)

	if err := load(ctx, db, t); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scan(rows)
}

// Columns returns the SQL column names for t's data columns. Empty or
// repeated adapter names get a positional name.
func Columns[R any](t *grid.Table[R]) []string {
	n := t.Caps().NumColumns()
	names := make([]string, n)
	seen := map[string]bool{"_pos": true, "_id": true}
	for c := range n {
		name := t.ColumnName(c)
		if name == "" || seen[strings.ToLower(name)] {
			name = "c" + strconv.Itoa(c+1)
		}
		seen[strings.ToLower(name)] = true
		names[c] = name
	}
	return names
}

func load[R any](ctx context.Context, db *sql.DB, t *grid.Table[R]) error {
	caps := t.Caps()
	names := Columns(t)

	defs := []string{`"_pos" INTEGER`, `"_id" INTEGER`}
	for _, name := range names {
		defs = append(defs, quote(name))
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quote(TableName), strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if t.Len() == 0 {
		return nil
	}

	marks := strings.TrimSuffix(strings.Repeat("?,", len(names)+2), ",")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quote(TableName), marks)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit
	ins, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer ins.Close()

	for pos, id := range t.RowIDs() {
		row, _ := t.Row(pos)
		vals := make([]any, 0, len(names)+2)
		vals = append(vals, pos, int64(id))
		for c := range names {
			vals = append(vals, value(caps.EncodeCell(row, c)))
		}
		if _, err := ins.ExecContext(ctx, vals...); err != nil {
			return fmt.Errorf("insert row %d: %w", pos, err)
		}
	}
	return tx.Commit()
}

// value stores numeric text as a number.
func value(text string) any {
	s := strings.TrimSpace(text)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return text
}

func scan(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &Result{Columns: cols}
	for rows.Next() {
		ptrs := make([]any, len(cols))
		for i := range ptrs {
			ptrs[i] = new(any)
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make([]string, len(cols))
		for i, p := range ptrs {
			rec[i] = format(*(p.(*any)))
		}
		res.Rows = append(res.Rows, rec)
	}
	return res, rows.Err()
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
