// Package config loads the keygrid style configuration.
//
// Settings come from three layers, lowest precedence first:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, which may @include other files
//  3. KEYGRID_* environment variables
//
// The merged layers are decoded into a Style. Config can also watch the file
// and deliver each reloaded Style on a channel; the host applies it between
// ticks.
//
// Example file:
//
//	[edit]
//	singleClick = true
//	maxUndo = 500
//
//	[view]
//	scrollBars = "hover"
//	rowHeight = 1
//
//	[colors]
//	selectedCell = "#264f78"
package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/keygrid/internal/config/loader"
	"github.com/dshills/keygrid/internal/config/watcher"
	"github.com/dshills/keygrid/internal/logging"
)

// Config holds the loaded configuration.
type Config struct {
	mu sync.RWMutex

	path      string
	envPrefix string
	fs        loader.FileSystem
	logger    *logging.Logger
	debounce  time.Duration

	merged map[string]any
	style  Style
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the TOML file to load. Without one only defaults and the
// environment apply.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithFileSystem sets the file system files are read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithLogger sets the logger used to report reload failures.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDebounce sets how long file changes settle before a reload.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.debounce = d
	}
}

// New creates a Config holding the default style. Call Load to read the
// configured sources.
func New(opts ...Option) *Config {
	c := &Config{
		envPrefix: loader.DefaultEnvPrefix,
		fs:        loader.DefaultFS(),
		logger:    logging.Null(),
		debounce:  100 * time.Millisecond,
		style:     Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("config")
	return c
}

// SetLogger replaces the logger used to report reload failures. It must be
// called before Watch.
func (c *Config) SetLogger(l *logging.Logger) {
	if l != nil {
		c.logger = l.WithComponent("config")
	}
}

// Path returns the configured file path.
func (c *Config) Path() string {
	return c.path
}

// Load reads every layer and replaces the current style. On error the
// previous style is kept.
func (c *Config) Load(_ context.Context) error {
	merged := make(map[string]any)

	if c.path != "" {
		file, err := loader.NewTOMLLoaderWithFS(c.fs, c.path).Load()
		if err != nil {
			return err
		}
		merged = loader.DeepMerge(merged, file)
	}

	env, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, env)

	style, err := FromMap(merged)
	if err != nil {
		return err
	}
	if err := style.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.merged = merged
	c.style = style
	c.mu.Unlock()

	c.logger.Debug("loaded style from %q", c.path)
	return nil
}

// Style returns the current style.
func (c *Config) Style() Style {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.style
}

// Merged returns a copy of the merged configuration map.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// Watch reloads the configuration whenever the file changes and sends each
// successfully loaded style on the returned channel. The channel is closed
// when ctx is done. Reload failures are logged and the previous style stays
// in effect.
func (c *Config) Watch(ctx context.Context) (<-chan Style, error) {
	if c.path == "" {
		return nil, ErrNoFile
	}
	w, err := watcher.New(watcher.WithDebounce(c.debounce))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(c.path); err != nil {
		_ = w.Close()
		return nil, err
	}

	out := make(chan Style, 1)
	go func() {
		defer close(out)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events():
				if !ok {
					return
				}
				if ev.Op.Has(watcher.OpRemove) && !ev.Op.Has(watcher.OpCreate) {
					c.logger.Warn("config file %s removed, keeping current style", ev.Path)
					continue
				}
				if err := c.Load(ctx); err != nil {
					c.logger.Warn("reload %s: %v", ev.Path, err)
					continue
				}
				c.logger.Info("reloaded %s (%s)", ev.Path, ev.Op)
				select {
				case out <- c.Style():
				case <-ctx.Done():
					return
				}

			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				c.logger.Warn("watch %s: %v", c.path, err)
			}
		}
	}()
	return out, nil
}
