package analyses

import "errors"

// ErrNotFound is returned by repos when a record does not exist.
var ErrNotFound = errors.New("not found")
