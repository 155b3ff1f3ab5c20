package grid

import "errors"

// Errors returned by table operations.
var (
	// ErrColumnMismatch indicates a snapshot was taken with a different
	// column count than the adapter reports.
	ErrColumnMismatch = errors.New("column count mismatch")

	// ErrNoCodec indicates the adapter cannot convert cells to text.
	ErrNoCodec = errors.New("adapter has no cell codec")
)
