package review

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/plsqlreview/pkg/lint"
)

// CursorScopeHeader starts the body of a consolidated cursor issue.
const CursorScopeHeader = "Cursor declaration issues:"

// TableRef is a table named in a FROM clause, with the line of its FROM item.
type TableRef struct {
	Name string
	Line int
}

type scopedIssue struct {
	ruleID  string
	line    int
	message string
}

// CursorScope buffers the findings of one cursor declaration and emits them
// as a single issue when the declaration closes.
type CursorScope struct {
	Name   string
	Line   int
	issues []scopedIssue
	tables []TableRef
}

// NewCursorScope opens a scope for the cursor declared at line.
func NewCursorScope(name string, line int) *CursorScope {
	return &CursorScope{Name: name, Line: line}
}

// Buffer records a finding to be reported when the scope closes.
func (s *CursorScope) Buffer(ruleID string, line int, message string) {
	s.issues = append(s.issues, scopedIssue{ruleID: ruleID, line: line, message: message})
}

// AddTable records a table reference for casing validation on close.
func (s *CursorScope) AddTable(ref TableRef) {
	s.tables = append(s.tables, ref)
}

// pending returns the number of buffered findings and table references.
func (s *CursorScope) pending() (issues, tables int) {
	return len(s.issues), len(s.tables)
}

// Flush validates the cursor name and the collected tables, then emits every
// buffered finding as one issue at the cursor's line. Both buffers are cleared
// whether or not anything was emitted.
func (s *CursorScope) Flush(ctx *Context, cs *casing) {
	defer func() {
		s.issues = nil
		s.tables = nil
	}()

	if ctx.enabled(RuleCursorCase) && !cs.isLower(s.Name) {
		s.Buffer(RuleCursorCase, s.Line, s.Name+" : cursor name should be in lowercase")
	}
	if ctx.enabled(RuleTableCase) {
		for _, t := range s.tables {
			if !cs.isLower(t.Name) {
				s.Buffer(RuleTableCase, t.Line, t.Name+" : table name should be in lowercase")
			}
		}
	}
	if len(s.issues) == 0 {
		return
	}

	entries := make([]string, 0, len(s.issues))
	var ruleIDs []string
	seen := make(map[string]bool)
	severity := lint.SeverityHint
	for _, si := range s.issues {
		entries = append(entries, fmt.Sprintf("Line No: %d :- %s", si.line, si.message))
		if !seen[si.ruleID] {
			seen[si.ruleID] = true
			ruleIDs = append(ruleIDs, si.ruleID)
		}
		if sev := ctx.severity(si.ruleID); sev < severity {
			severity = sev
		}
	}

	issue := ctx.issue(strings.Join(ruleIDs, ","), s.Line, CursorScopeHeader+"\n"+strings.Join(entries, "\n"))
	issue.Severity = severity
	ctx.Sink.Add(issue)
}
