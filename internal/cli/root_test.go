package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/plsqlreview/internal/cli/config"
	"github.com/leapstack-labs/plsqlreview/internal/cli/output"
	"github.com/leapstack-labs/plsqlreview/internal/cli/testutil"
	"github.com/leapstack-labs/plsqlreview/pkg/comments"
)

func executeRoot(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"review", "publish", "rules", "history", "init", "version", "completion"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "comments-file", "fallback-path", "state", "output", "verbose", "token-env", "api-base-url"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_ReviewsWithoutSubcommand(t *testing.T) {
	p := testutil.SetupTestProject(t)
	t.Chdir(p.Dir)
	gh := testutil.NewFakeGitHub(t)
	t.Setenv("GH_TOKEN", "secret")

	commentsPath := filepath.Join(p.Dir, "custom", "out.json")
	stdout, _, err := executeRoot(t,
		"--output", "json",
		"--state", ":memory:",
		"--comments-file", commentsPath,
		"--api-base-url", gh.URL,
		"abc123", p.SourcePath, "acme", "erp", "42")
	require.NoError(t, err)

	var doc output.ReviewOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, 3, doc.Summary.Total)

	written, err := comments.ReadFile(commentsPath)
	require.NoError(t, err)
	assert.Len(t, written, 3)
	assert.Len(t, gh.Requests(), 3)
}

func TestRootCommand_VerboseLogsToStderr(t *testing.T) {
	p := testutil.SetupTestProject(t)
	t.Chdir(p.Dir)
	t.Setenv("GH_TOKEN", "")

	stdout, stderr, err := executeRoot(t, "-v", "--output", "markdown", "--no-history")
	require.NoError(t, err)

	assert.Contains(t, stdout, "## Review: "+p.SourcePath)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "no GitHub token")
}

func TestRootCommand_VerboseLogsHistorySchema(t *testing.T) {
	p := testutil.SetupTestProject(t)
	t.Chdir(p.Dir)
	t.Setenv("GH_TOKEN", "")

	_, stderr, err := executeRoot(t, "-v", "--output", "json")
	require.NoError(t, err)

	assert.Contains(t, stderr, "review history opened")
	assert.Contains(t, stderr, "schema_version=1")
	assert.FileExists(t, p.StatePath)
}

func TestRootCommand_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"partial arguments", []string{"--no-publish", "abc123", "x.plsql"}, "expected 0 or 5 arguments"},
		{"too many arguments", []string{"1", "2", "3", "4", "5", "6"}, "accepts at most 5 arg(s)"},
		{"bad output", []string{"--output", "xml"}, "output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.SetupTestProject(t)
			t.Chdir(t.TempDir())

			_, _, err := executeRoot(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRootCommand_Version(t *testing.T) {
	stdout, _, err := executeRoot(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "plsqlreview "+Version+"\n", stdout)
}
