package clipboard

import (
	"sync"

	sysclip "github.com/atotto/clipboard"
)

// Clipboard provides host clipboard integration.
//
// Errors must not crash the UI; callers log and ignore them.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// System is the operating system clipboard.
type System struct{}

// Available reports whether a system clipboard utility was found.
func (System) Available() bool {
	return !sysclip.Unsupported
}

// ReadText returns the clipboard contents.
func (System) ReadText() (string, error) {
	return sysclip.ReadAll()
}

// WriteText replaces the clipboard contents.
func (System) WriteText(s string) error {
	return sysclip.WriteAll(s)
}

// Memory is a process-local clipboard, used when no system clipboard is
// available and in tests.
type Memory struct {
	mu   sync.Mutex
	text string
}

// ReadText returns the stored text.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// WriteText stores s.
func (m *Memory) WriteText(s string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = s
	return nil
}

// Default returns the system clipboard when available, otherwise a Memory.
func Default() Clipboard {
	if (System{}).Available() {
		return System{}
	}
	return &Memory{}
}
