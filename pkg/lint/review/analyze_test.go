package review

import (
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/plsqlreview/internal/testutil"
	"github.com/leapstack-labs/plsqlreview/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCleanRoutineWithMixedCaseTable(t *testing.T) {
	src := `PROCEDURE Process_Order___ (
   order_   IN OUT VARCHAR2,
   amount_  IN     NUMBER DEFAULT 0 )
IS
BEGIN
   SELECT a,
          b
     INTO x_, y_
     FROM Orders;
END Process_Order___;`

	issues := Analyze(newTestContext(t, nil), src)

	require.Len(t, issues, 1)
	assert.Equal(t, RuleTableCase, issues[0].RuleID)
	assert.Equal(t, "Orders : table name should be in lowercase", issues[0].Message)
	assert.Equal(t, 9, issues[0].Line)
}

func TestAnalyzeSingleLineSelect(t *testing.T) {
	src := `PROCEDURE Process_Order___ (
   order_   IN OUT VARCHAR2,
   amount_  IN     NUMBER DEFAULT 0 )
IS
BEGIN
   SELECT a, b FROM Orders;
END Process_Order___;`

	issues := Analyze(newTestContext(t, nil), src)

	for _, id := range []string{RuleParameterOrder, RuleParameterDir, RuleParameterSuffix, RuleAlignment} {
		assert.Empty(t, byRule(issues, id), id)
	}

	tables := byRule(issues, RuleTableCase)
	require.Len(t, tables, 1)
	assert.Equal(t, "Orders : table name should be in lowercase", tables[0].Message)
	assert.Equal(t, 6, tables[0].Line)

	perLine := byRule(issues, RuleColumnPerLine)
	require.Len(t, perLine, 1)
	assert.Equal(t, 6, perLine[0].Line)

	assert.Len(t, issues, 2)
}

func TestAnalyzeKeepsDuplicateIssues(t *testing.T) {
	src := `BEGIN
   SELECT * INTO r_ FROM a; SELECT * INTO r_ FROM b;
END;`

	issues := Analyze(newTestContext(t, nil), src)

	require.Len(t, issues, 2)
	for _, issue := range issues {
		assert.Equal(t, RuleSelectWildcard, issue.RuleID)
		assert.Equal(t, 2, issue.Line)
	}
	assert.Equal(t, issues[0], issues[1])
}

func TestAnalyzeDetectionOrder(t *testing.T) {
	src := `PROCEDURE Test___ IS
   CURSOR Get_Rows IS
      SELECT x
        FROM tab;
   b_     NUMBER;
BEGIN
   NULL;
END Test___;`

	issues := Analyze(newTestContext(t, nil), src)

	require.Len(t, issues, 2)
	assert.Equal(t, RuleDeclarationOrder, issues[0].RuleID)
	assert.Equal(t, 5, issues[0].Line)
	assert.Equal(t, RuleCursorCase, issues[1].RuleID)
	assert.Equal(t, 2, issues[1].Line)
	assert.Equal(t, CursorScopeHeader+"\n"+
		"Line No: 2 :- Get_Rows : cursor name should be in lowercase", issues[1].Message)
}

func TestAnalyzeCursorScopes(t *testing.T) {
	src := `PROCEDURE Load___ IS
   CURSOR get_orders IS
      SELECT o.*,
             o.amount AS Total
        FROM Orders o;
   CURSOR get_lines IS
      SELECT l.line_no
        FROM order_line_tab l;
BEGIN
   NULL;
END Load___;`

	issues := Analyze(newTestContext(t, nil), src)

	require.Len(t, issues, 1, "the clean sibling cursor adds nothing")
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, CursorScopeHeader+"\n"+
		"Line No: 3 :- SELECT * is not allowed, specify the required columns.\n"+
		"Line No: 4 :- Total : column alias should be in lowercase\n"+
		"Line No: 5 :- Orders : table name should be in lowercase", issues[0].Message)
}

func TestAnalyzeDisabledRuleDoesNotBuffer(t *testing.T) {
	src := `CURSOR get_all IS
   SELECT *
     FROM order_tab;`

	ctx := newTestContext(t, lint.NewConfig().Disable(RuleSelectWildcard))
	assert.Empty(t, Analyze(ctx, src))

	ctx = newTestContext(t, nil)
	issues := Analyze(ctx, src)
	require.Len(t, issues, 1)
	assert.Equal(t, RuleSelectWildcard, issues[0].RuleID)
	assert.Equal(t, 1, issues[0].Line)
	assert.Contains(t, issues[0].Message, "Line No: 2 :- SELECT * is not allowed")
}

func TestAnalyzeSelectOutsideCursor(t *testing.T) {
	src := `FUNCTION Get_Total (
   id_ IN NUMBER ) RETURN NUMBER
IS
   total_ NUMBER;
BEGIN
   SELECT nvl(sum(amount), 0) Total, Count(*) cnt, pkg.nvl(x)
     INTO total_
     FROM order_tab
    WHERE id = id_;
   RETURN total_;
END Get_Total;`

	issues := Analyze(newTestContext(t, nil), src)

	builtin := byRule(issues, RuleBuiltinCase)
	require.Len(t, builtin, 3)
	assert.Equal(t, "nvl: Oracle built-in function should be in uppercase", builtin[0].Message)
	assert.Equal(t, "sum: Oracle built-in function should be in uppercase", builtin[1].Message)
	assert.Equal(t, "Count: Oracle built-in function should be in uppercase", builtin[2].Message)
	assert.Equal(t, 6, builtin[0].Line)

	alias := byRule(issues, RuleAliasCase)
	require.Len(t, alias, 1)
	assert.Equal(t, "Total : column alias should be in lowercase", alias[0].Message)

	perLine := byRule(issues, RuleColumnPerLine)
	require.Len(t, perLine, 1, "reported once per list")
	assert.Equal(t, "SELECT columns should be one per line.", perLine[0].Message)

	assert.Len(t, issues, 5)
}

func TestAnalyzeCustomBuiltins(t *testing.T) {
	cfg := lint.NewConfig().SetRuleOptions(RuleBuiltinCase, map[string]any{
		OptBuiltinFunctions: "my_func",
	})
	src := `BEGIN
   SELECT my_func(a) FROM t;
END;`

	issues := Analyze(newTestContext(t, cfg), src)
	require.Len(t, issues, 1)
	assert.Equal(t, "my_func: Oracle built-in function should be in uppercase", issues[0].Message)
}

func TestAnalyzeRoutineNames(t *testing.T) {
	src := `PROCEDURE get_value IS
BEGIN
   NULL;
END get_value;

FUNCTION Is_Valid RETURN BOOLEAN;

FUNCTION Has__Rows RETURN BOOLEAN IS
BEGIN
   RETURN TRUE;
END Has__Rows;`

	issues := Analyze(newTestContext(t, nil), src)
	require.Len(t, issues, 2)
	assert.Equal(t, "Procedure name get_value does not follow IFS naming guidelines", issues[0].Message)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, "Function name Has__Rows does not follow IFS naming guidelines", issues[1].Message)
	assert.Equal(t, 8, issues[1].Line)
}

func TestAnalyzeDeclarationOrder(t *testing.T) {
	src := `PROCEDURE Test___ IS
   a_     NUMBER;
   CURSOR get_rows IS
      SELECT x
        FROM tab;
   rec_   get_rows%rowtype;
   b_     NUMBER;
   c_     NUMBER;
BEGIN
   NULL;
END Test___;`

	issues := Analyze(newTestContext(t, nil), src)
	require.Len(t, issues, 1)
	assert.Equal(t, RuleDeclarationOrder, issues[0].RuleID)
	assert.Equal(t, "Normal variable declarations should be before the cursor declarations.", issues[0].Message)
	assert.Equal(t, 7, issues[0].Line)
}

func TestAnalyzeVariableAlignment(t *testing.T) {
	src := `PROCEDURE Test___ IS
   a_     NUMBER;
    b_    NUMBER;
   c_     VARCHAR2(10);
BEGIN
   NULL;
END Test___;`

	issues := Analyze(newTestContext(t, nil), src)
	require.Len(t, issues, 1)
	assert.Equal(t, "Variables are not vertically aligned", issues[0].Message)
	assert.Equal(t, 3, issues[0].Line)
}

func TestAnalyzeDML(t *testing.T) {
	cfg := lint.NewConfig().SetSeverity(RuleDMLPresence, lint.SeverityError)
	src := `PROCEDURE Remove___ IS
BEGIN
   DELETE FROM order_tab WHERE id = 1;
   log_tab_.DELETE;
   UPDATE order_tab SET state = 'X';
END Remove___;`

	issues := Analyze(newTestContext(t, cfg), src)
	require.Len(t, issues, 2)
	assert.Equal(t, "DELETE statement found, use the entity API methods instead", issues[0].Message)
	assert.Equal(t, lint.SeverityError, issues[0].Severity)
	assert.Equal(t, 3, issues[0].Line)
	assert.Equal(t, "UPDATE statement found, use the entity API methods instead", issues[1].Message)
}

func TestAnalyzeNestedRoutines(t *testing.T) {
	src := `PROCEDURE Outer___ (
   a_ IN NUMBER )
IS
   PROCEDURE inner_helper (
      b IN NUMBER )
   IS
   BEGIN
      NULL;
   END inner_helper;
BEGIN
   inner_helper(a_);
END Outer___;`

	issues := Analyze(newTestContext(t, nil), src)
	require.Len(t, issues, 2)
	assert.Equal(t, "b: Parameter does not end with an underscore", issues[0].Message)
	assert.Equal(t, 5, issues[0].Line)
	assert.Equal(t, "Procedure name inner_helper does not follow IFS naming guidelines", issues[1].Message)
}

func TestAnalyzeFile(t *testing.T) {
	path := testutil.WriteSource(t, "Test.plsql", `
PROCEDURE bad IS BEGIN NULL; END;`)

	ctx := NewContext(path, "sha", nil, nil)
	issues, err := AnalyzeFile(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, path, issues[0].FilePath)
	assert.Equal(t, "sha", issues[0].CommitID)

	_, err = AnalyzeFile(NewContext(filepath.Join(filepath.Dir(path), "missing.plsql"), "", nil, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.plsql")
}
