// Package apperr holds sentinel errors shared across layers.
package apperr

import "errors"

// ErrNotFound reports a path with no matching note.
var ErrNotFound = errors.New("not found")
