// Package diag carries source locations and compiler diagnostics through
// the lex/parse pipeline.
package diag

import "fmt"

// Location is an immutable file/line/column record attached to every
// token and diagnostic. Line and column are 1-based.
type Location struct {
	Filename string
	Line     int
	Column   int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
}
