package parser

import (
	"fmt"

	"github.com/leapstack-labs/plsqlreview/pkg/token"
)

// ParseError records a point where the parser gave up on a construct and
// resynchronized. The surrounding tree is still produced.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken = "unexpected token %s, expected %s"
	ErrSkippedUnit     = "unrecognized %s, skipping to end of statement"
	ErrUnterminated    = "unterminated %s"
)
