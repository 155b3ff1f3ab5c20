package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/query"
)

func newQueryCmd(opts *options) *cobra.Command {
	var header bool

	cmd := &cobra.Command{
		Use:   "query FILE SQL",
		Short: "Run SQL over a table file",
		Long: `Load the table stored in FILE into an in-memory SQLite database and print
the result of SQL as tab-separated text.

The rows are in a table named "grid" with one column per table column plus
_pos (row position) and _id (row identifier). Numeric cells are numbers.

  keygrid query table.yaml "SELECT Name FROM grid WHERE Num > 2"

The output can be pasted into another table with "keygrid paste".`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.query(cmd, args[0], strings.Join(args[1:], " "), header)
		},
	}

	cmd.Flags().BoolVar(&header, "header", false, "Print column names first")
	return cmd
}

func (o *options) query(cmd *cobra.Command, path, stmt string, header bool) error {
	env, err := o.setup(cmd.Context(), cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer env.close()

	tb, release, err := env.openTable(path, o.rulesPath, grid.WithReadOnly())
	if err != nil {
		return err
	}
	defer release()

	res, err := query.Run(cmd.Context(), tb, stmt)
	if err != nil {
		return fmt.Errorf("query %s: %w", path, err)
	}
	env.logger.Debug("query returned %d rows", len(res.Rows))

	_, err = io.WriteString(cmd.OutOrStdout(), res.TSV(header))
	return err
}
