package review

import (
	"testing"

	"github.com/leapstack-labs/plsqlreview/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorScopeFlush(t *testing.T) {
	ctx := newTestContext(t, nil)
	cs := newCasing()

	scope := NewCursorScope("get_orders", 7)
	scope.Buffer(RuleSelectWildcard, 8, wildcardMessage)
	scope.Buffer(RuleAliasCase, 9, "Total : column alias should be in lowercase")
	scope.AddTable(TableRef{Name: "Orders", Line: 10})
	scope.AddTable(TableRef{Name: "order_line_tab", Line: 10})

	scope.Flush(ctx, cs)

	issues := ctx.Sink.Issues()
	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, 7, issue.Line)
	assert.Equal(t, "SQ01,SQ04,TB01", issue.RuleID)
	assert.Equal(t, lint.SeverityWarning, issue.Severity)
	assert.Equal(t, "workspace/Test.plsql", issue.FilePath)
	assert.Equal(t, "abc123", issue.CommitID)
	assert.Equal(t, CursorScopeHeader+"\n"+
		"Line No: 8 :- SELECT * is not allowed, specify the required columns.\n"+
		"Line No: 9 :- Total : column alias should be in lowercase\n"+
		"Line No: 10 :- Orders : table name should be in lowercase", issue.Message)

	pendingIssues, pendingTables := scope.pending()
	assert.Zero(t, pendingIssues)
	assert.Zero(t, pendingTables)

	// flushing again emits nothing
	scope.Flush(ctx, cs)
	assert.Equal(t, 1, ctx.Sink.Len())
}

func TestCursorScopeNameCase(t *testing.T) {
	ctx := newTestContext(t, nil)
	scope := NewCursorScope("Get_Lines", 3)
	scope.Flush(ctx, newCasing())

	issues := ctx.Sink.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, RuleCursorCase, issues[0].RuleID)
	assert.Equal(t, lint.SeverityInfo, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "Line No: 3 :- Get_Lines : cursor name should be in lowercase")
}

func TestCursorScopeClean(t *testing.T) {
	ctx := newTestContext(t, nil)
	scope := NewCursorScope("get_lines", 3)
	scope.AddTable(TableRef{Name: "ifsapp.order_line_tab", Line: 5})
	scope.Flush(ctx, newCasing())

	assert.Zero(t, ctx.Sink.Len())
	_, tables := scope.pending()
	assert.Zero(t, tables)
}

func TestCursorScopeDisabledCasing(t *testing.T) {
	cfg := lint.NewConfig().Disable(RuleCursorCase).Disable(RuleTableCase)
	ctx := newTestContext(t, cfg)
	scope := NewCursorScope("Get_Lines", 3)
	scope.AddTable(TableRef{Name: "Orders", Line: 5})
	scope.Flush(ctx, newCasing())

	assert.Zero(t, ctx.Sink.Len())
}
