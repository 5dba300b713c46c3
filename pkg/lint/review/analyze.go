// Package review is the PL/SQL review rule engine. It walks a parsed file once
// and reports naming, parameter, layout and query-style findings as issues.
package review

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/plsqlreview/pkg/parser"
)

// Analyze parses src and runs every enabled rule over it. The returned issues
// are also available from ctx.Sink.
func Analyze(ctx *Context, src string) []Issue {
	script := parser.Parse(src)
	for _, perr := range script.Errors {
		ctx.Logger.Debug("parser recovered", "file", ctx.FilePath, "error", perr.Error())
	}

	parser.Walk(script, NewDispatcher(ctx))

	ctx.Logger.Debug("analysis complete", "file", ctx.FilePath, "issues", ctx.Sink.Len())
	return ctx.Sink.Issues()
}

// AnalyzeFile reads ctx.FilePath and analyzes it.
func AnalyzeFile(ctx *Context) ([]Issue, error) {
	src, err := os.ReadFile(ctx.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ctx.FilePath, err)
	}
	return Analyze(ctx, string(src)), nil
}
