package script

import "errors"

// Errors returned by rule scripts.
var (
	// ErrClosed is returned when calling into closed rules.
	ErrClosed = errors.New("rules are closed")

	// ErrNoCodec is returned when wrapping an adapter that cannot encode
	// cells, since scripts only ever see cell text.
	ErrNoCodec = errors.New("adapter has no cell codec")

	// ErrNotFunction is returned when a hook name is bound to a non-function.
	ErrNotFunction = errors.New("hook is not a function")
)
