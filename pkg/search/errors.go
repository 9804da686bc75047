package search

import (
	"errors"
	"fmt"
)

// errNoMatch signals that a production did not apply so the caller should
// try the next alternative. It is control flow only and never escapes Parse.
var errNoMatch = errors.New("no match")

// ParseError is fatal: a production committed to a prefix of the input and
// found the remainder malformed. It carries the message surfaced to users.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

func invalidInput(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}
