package gtfs

import (
	"errors"
	"fmt"
)

// Sentinel causes for fatal load failures. They are always wrapped in a
// ParseError naming the table involved.
var (
	ErrMissingTable  = errors.New("required table is not present in the feed")
	ErrMissingColumn = errors.New("required column is not present")
)

// ParseError is a fatal problem with one table of the feed. Milder
// problems become Warnings instead; see the package documentation for
// the split.
type ParseError struct {
	Table string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("table %s, column %s: %v", e.Table, e.Field, e.Err)
	}
	return fmt.Sprintf("table %s: %v", e.Table, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
