package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/keygrid/internal/config"
	"github.com/dshills/keygrid/internal/logging"
)

// options holds the persistent flags.
type options struct {
	configPath string
	logLevel   string
	logFile    string
	rulesPath  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "keygrid",
		Short: "Spreadsheet-style table editor",
		Long: `keygrid edits a table of records in the terminal.

Tables are stored as YAML snapshots. Cells can be edited in place, copied and
pasted as tab-separated text, sorted and rearranged, with undo. Tables can
also be queried with SQL. A Lua rules file may veto edits and deletions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.logLevel {
			case "", "debug", "info", "warn", "error":
				return nil
			default:
				return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configuration")
	pf.StringVar(&opts.logFile, "log-file", "", "Append logs to this file")
	pf.StringVar(&opts.rulesPath, "rules", "", "Lua file with editing rules")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newPasteCmd(opts))
	root.AddCommand(newCopyCmd(opts))
	root.AddCommand(newQueryCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// environment is the configuration and logger shared by every command.
type environment struct {
	cfg    *config.Config
	style  config.Style
	logger *logging.Logger
	close  func()
}

// setup loads the configuration and opens the log. Without a log file, logs
// go to stderr, or nowhere when the terminal is owned by the editor.
func (o *options) setup(ctx context.Context, stderr io.Writer, interactive bool) (*environment, error) {
	path := o.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg := config.New(config.WithFile(path))
	if err := cfg.Load(ctx); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	style := cfg.Style()

	level := style.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}

	out := stderr
	closeLog := func() {}
	switch {
	case o.logFile != "":
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeLog = func() { _ = f.Close() }
	case interactive:
		out = io.Discard
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(level),
		Output: out,
		Prefix: "keygrid",
	})
	cfg.SetLogger(logger)

	return &environment{cfg: cfg, style: style, logger: logger, close: closeLog}, nil
}

// defaultConfigPath returns the per-user configuration file if it exists.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "keygrid", "keygrid.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// defaultStatePath returns where UI state is kept between sessions.
func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "keygrid", "state.json")
}
