package review

import (
	"strings"

	"github.com/leapstack-labs/plsqlreview/pkg/parser"
)

// CheckDeclarations checks the declare section of one routine body: plain
// variables must come before cursors unless their type is the row type of
// every cursor declared so far, and variable names and types must be aligned.
//
// Once a variable has been reported, later variables are not checked against
// the cursors declared before it; a new cursor declaration re-arms the check.
func CheckDeclarations(ctx *Context, opts options, decls []parser.Node) {
	var names, types AlignmentGroup
	var cursors []string
	cursorDeclared := false
	suffix := strings.ToUpper(opts.rowtypeSuffix)

	for _, n := range decls {
		switch d := n.(type) {
		case *parser.Declaration:
			line := d.NamePos.Line
			names = append(names, ElementAt(d.NamePos))
			types = append(types, ElementAt(d.TypePos))

			if !cursorDeclared {
				continue
			}
			typeText := strings.ToUpper(d.TypeText)
			for _, cursor := range cursors {
				if !strings.Contains(typeText, strings.ToUpper(cursor)+suffix) {
					ctx.Report(RuleDeclarationOrder, line, "Normal variable declarations should be before the cursor declarations.")
					cursorDeclared = false
					break
				}
			}
		case *parser.CursorDeclaration:
			cursors = append(cursors, d.Name)
			cursorDeclared = true
		}
	}

	if len(names) > 0 {
		CheckAlignment(ctx, CategoryVariables, names)
		CheckAlignment(ctx, CategoryVariableTypes, types)
	}
}
