package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/plsqlreview/internal/cli/config"
	"github.com/leapstack-labs/plsqlreview/internal/cli/testutil"
	"github.com/leapstack-labs/plsqlreview/pkg/lint"
)

func executeRules(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	cmd := NewRulesCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRulesCommand_ShowRule(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "markdown",
			args: []string{"PA01", "--format", "markdown"},
			want: []string{"# PA01 - parameters.order", "**Group:** parameters", "exempt_routines"},
		},
		{
			name: "lowercase id",
			args: []string{"tb01", "--format", "markdown"},
			want: []string{"# TB01 - tables.name_case"},
		},
		{
			name: "text",
			args: []string{"SQ01", "--format", "text"},
			want: []string{"SQ01 - select.wildcard", "Description"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeRules(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRulesCommand_NotFound(t *testing.T) {
	_, err := executeRules(t, "INVALID99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRulesCommand_UnknownFormat(t *testing.T) {
	out, err := executeRules(t, "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "yaml"`)
	assert.NotContains(t, out, "Review Rules")
}

func TestRulesCommand_JSON(t *testing.T) {
	out, err := executeRules(t, "--format", "json")
	require.NoError(t, err)

	var result RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, lint.Count(), result.Count)
	assert.Len(t, result.Rules, result.Count)

	ids := make([]string, 0, len(result.Rules))
	for _, r := range result.Rules {
		ids = append(ids, r.ID)
	}
	assert.Subset(t, ids, []string{"NM01", "PA01", "PA02", "PA03", "LY01", "LY02",
		"SQ01", "SQ02", "SQ03", "SQ04", "CR01", "TB01", "DM01"})
}

func TestRulesCommand_GroupFilter(t *testing.T) {
	out, err := executeRules(t, "--format", "json", "--group", "parameters")
	require.NoError(t, err)

	var result RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, 3, result.Count)
	for _, r := range result.Rules {
		assert.Equal(t, "parameters", r.Group)
	}
}

func TestRulesCommand_Markdown(t *testing.T) {
	out, err := executeRules(t, "--format", "markdown", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, "# Review Rules")
	assert.Contains(t, out, "## Parameters")
	assert.Contains(t, out, "## Select")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestRulesCommand_Text(t *testing.T) {
	out, err := executeRules(t, "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Review Rules")
	assert.Contains(t, out, "DM01")
	assert.Contains(t, out, "statements.dml_presence")
}

func TestCapitalizeFirst(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "Hello"},
		{"WORLD", "WORLD"},
		{"", ""},
		{"a", "A"},
		{"parameters", "Parameters"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, capitalizeFirst(tc.input))
		})
	}
}
