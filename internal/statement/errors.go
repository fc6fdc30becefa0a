package statement

import (
	"errors"
	"fmt"
)

// Parse failure reasons. ParseError wraps one of these so callers can
// branch with errors.Is.
var (
	ErrStatementTooLarge = errors.New("statement exceeds maximum size")
	ErrEmptyStatement    = errors.New("statement has no rows")
	ErrFieldCount        = errors.New("row must have exactly 3 fields")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// ParseError is a line-addressed statement parse failure. Line numbers
// refer to the original input, counting blank lines, starting at 1.
type ParseError struct {
	Err   error
	Token string
	Line  int
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Token)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
