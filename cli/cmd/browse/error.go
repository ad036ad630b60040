package browse

import "errors"

// Sentinel errors.
var (
	ErrNoEditor = errors.New("no editable source")
)
