package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/persist"
	"github.com/dshills/keygrid/internal/notify"
)

// errNothingPasted is returned when no field of the input was written.
var errNothingPasted = errors.New("nothing pasted")

type pasteFlags struct {
	row    int
	column int
	insert bool
	text   string
	dryRun bool
}

func newPasteCmd(opts *options) *cobra.Command {
	var f pasteFlags

	cmd := &cobra.Command{
		Use:   "paste FILE",
		Short: "Paste tab-separated text into a table file",
		Long: `Paste tab-separated text into the table stored in FILE.

The text is read from standard input unless --text is given. Fields land in
visible columns starting at --column of row --row. Rows past the end of the
table are appended. With --insert every pasted line becomes a new row.

Cells the table refuses are reported on stderr and left unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("text") {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				f.text = string(data)
			}
			return opts.paste(cmd, args[0], f)
		},
	}

	cmd.Flags().IntVar(&f.row, "row", 0, "First row to paste into")
	cmd.Flags().IntVar(&f.column, "column", 0, "First visible column to paste into")
	cmd.Flags().BoolVar(&f.insert, "insert", false, "Insert the text as new rows")
	cmd.Flags().StringVar(&f.text, "text", "", "Text to paste instead of standard input")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Print the resulting table instead of writing it")
	return cmd
}

func (o *options) paste(cmd *cobra.Command, path string, f pasteFlags) error {
	env, err := o.setup(cmd.Context(), cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer env.close()

	tb, release, err := env.openTable(path, o.rulesPath)
	if err != nil {
		return err
	}
	defer release()

	if tb.Len() > 0 {
		tb.Selection().SetAnchor(grid.Cell{Row: f.row, Column: f.column})
	}
	action := grid.UIPasteInPlace
	if f.insert {
		action = grid.UIPasteInsert
	}
	res := tb.Tick(grid.Intent{Action: action, Text: f.text})
	reportRejections(cmd.ErrOrStderr(), res.Events)
	if !res.Changed {
		return errNothingPasted
	}

	if f.dryRun {
		snap, err := persist.Capture(tb)
		if err != nil {
			return err
		}
		return persist.Encode(cmd.OutOrStdout(), snap)
	}
	if err := writeSnapshot(path, tb); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	env.logger.Info("pasted into %s, %d rows", path, tb.Len())
	return nil
}

// reportRejections prints one line per rejection raised by a tick.
func reportRejections(w io.Writer, events []notify.Event) {
	for _, ev := range events {
		if ev.Type != notify.EventRejected {
			continue
		}
		if ev.Detail != "" {
			fmt.Fprintf(w, "%s: %s (%s)\n", ev.Source, ev.Reason, ev.Detail)
		} else {
			fmt.Fprintf(w, "%s: %s\n", ev.Source, ev.Reason)
		}
	}
}
