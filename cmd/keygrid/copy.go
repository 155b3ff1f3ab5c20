package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/clipboard"
)

func newCopyCmd(opts *options) *cobra.Command {
	var header bool

	cmd := &cobra.Command{
		Use:   "copy FILE",
		Short: "Print a table file as tab-separated text",
		Long: `Print the visible columns of the table stored in FILE as tab-separated
text, in the saved column and sort order. The output can be pasted back with
"keygrid paste".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.copy(cmd, args[0], header)
		},
	}

	cmd.Flags().BoolVar(&header, "header", false, "Print column names first")
	return cmd
}

func (o *options) copy(cmd *cobra.Command, path string, header bool) error {
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

	out := cmd.OutOrStdout()
	if header {
		if err := writeHeader(out, tb); err != nil {
			return err
		}
	}
	if tb.Len() == 0 {
		return nil
	}

	res := tb.Tick(
		grid.Intent{Action: grid.UISelectAll},
		grid.Intent{Action: grid.UICopy},
	)
	reportRejections(cmd.ErrOrStderr(), res.Events)
	if !res.HasClipboard {
		return fmt.Errorf("copy %s: nothing to copy", path)
	}
	_, err = io.WriteString(out, res.Clipboard)
	return err
}

func writeHeader(w io.Writer, tb *grid.Table[Record]) error {
	var names []string
	for _, c := range tb.VisibleColumns() {
		names = append(names, tb.ColumnName(c))
	}
	_, err := io.WriteString(w, clipboard.FormatTSV([][]string{names}))
	return err
}
