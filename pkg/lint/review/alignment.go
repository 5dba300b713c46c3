package review

import (
	"github.com/leapstack-labs/plsqlreview/pkg/token"
)

// Element is the start of a source element, compared but never stored.
type Element struct {
	Line   int
	Column int
}

// ElementAt converts a token position.
func ElementAt(pos token.Position) Element {
	return Element{Line: pos.Line, Column: pos.Column}
}

// AlignmentGroup is a list of same-role elements in source order. The first
// entry's column is the reference column for the group.
type AlignmentGroup []Element

// Alignment categories.
const (
	CategoryParameters     = "Parameters"
	CategoryDirections     = "Parameters Directions"
	CategoryParameterTypes = "Parameters Data Types"
	CategoryVariables      = "Variables"
	CategoryVariableTypes  = "Variable Data Types"
)

// CheckAlignment reports the first element whose column differs from the
// group's reference column. Later misalignments in the same group are not reported.
func CheckAlignment(ctx *Context, category string, group AlignmentGroup) {
	if len(group) == 0 {
		return
	}
	ref := group[0].Column
	for _, e := range group[1:] {
		if e.Column != ref {
			ctx.Report(RuleAlignment, e.Line, category+" are not vertically aligned")
			return
		}
	}
}
