package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/keygrid/internal/config"
	"github.com/dshills/keygrid/internal/grid"
	"github.com/dshills/keygrid/internal/grid/clipboard"
	"github.com/dshills/keygrid/internal/grid/persist"
	"github.com/dshills/keygrid/internal/tui"
)

func newRunCmd(opts *options) *cobra.Command {
	var statePath string
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "run [file.yaml]",
		Short: "Edit a table interactively",
		Long: `Open a table in the terminal editor.

Without a file, a small demo table is opened and cannot be saved. A file that
does not exist yet is created on the first save (Ctrl+S).

Keys: arrows move (Shift extends), Enter or F2 edits, Esc cancels,
Ctrl+C/X/V copy, cut and paste, Ctrl+B pastes as new rows, Del clears,
Ctrl+D fills down, Ctrl+E duplicates rows, Ctrl+K deletes rows,
Insert/Ctrl+N insert rows, Ctrl+Z/Y undo and redo, F3 sorts, F4 hides a
column, F5 shows hidden columns, F6/F7 move a column, Ctrl+F finds a row,
Ctrl+S saves, Ctrl+Q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			if statePath == "" {
				statePath = defaultStatePath()
			}
			return opts.run(cmd.Context(), path, statePath, readOnly)
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "UI state file (default: user config dir)")
	cmd.Flags().BoolVarP(&readOnly, "readonly", "R", false, "Open the table read-only")
	return cmd
}

func (o *options) run(ctx context.Context, path, statePath string, readOnly bool) error {
	env, err := o.setup(ctx, os.Stderr, true)
	if err != nil {
		return err
	}
	defer env.close()

	var extra []grid.Option
	if readOnly {
		extra = append(extra, grid.WithReadOnly())
	}
	tb, release, err := env.openTable(path, o.rulesPath, extra...)
	if err != nil {
		return err
	}
	defer release()

	state, err := os.ReadFile(statePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		env.logger.Warn("reading ui state: %v", err)
	}
	if persist.LoadUIState(state, tb) {
		env.logger.Debug("restored ui state for %s", tb.ID())
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	var save func() error
	if path != "" && !readOnly {
		save = func() error { return writeSnapshot(path, tb) }
	}
	defer func() {
		if save != nil && tb.IsDirty() {
			fmt.Fprintf(os.Stderr, "keygrid: unsaved changes to %s were discarded\n", path)
		}
	}()

	screen.EnableMouse()
	screen.EnablePaste()
	defer screen.Fini()

	app := tui.New(screen, tb,
		tui.WithStyle(env.style),
		tui.WithLogger(env.logger),
		tui.WithClipboard(clipboard.Default()),
		tui.WithSave(save),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	styles := make(chan config.Style, 1)

	if env.cfg.Path() != "" {
		updates, err := env.cfg.Watch(gctx)
		if err != nil {
			env.logger.Warn("not watching %s: %v", env.cfg.Path(), err)
		} else {
			g.Go(func() error {
				return relayStyles(gctx, updates, styles)
			})
		}
	}

	g.Go(func() error {
		defer cancel()
		return app.Run(gctx, styles)
	})

	err = g.Wait()

	if doc, serr := persist.SaveUIState(state, tb); serr != nil {
		env.logger.Warn("saving ui state: %v", serr)
	} else if statePath != "" && len(doc) > 0 {
		if werr := writeFileAtomic(statePath, doc); werr != nil {
			env.logger.Warn("writing ui state: %v", werr)
		}
	}
	return err
}

// relayStyles forwards reloaded styles to the editor until ctx is done or
// the watcher stops.
func relayStyles(ctx context.Context, in <-chan config.Style, out chan<- config.Style) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-in:
			if !ok {
				return nil
			}
			select {
			case out <- s:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
