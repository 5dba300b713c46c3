package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/plsqlreview/internal/cli/config"
	"github.com/leapstack-labs/plsqlreview/internal/cli/output"
	"github.com/leapstack-labs/plsqlreview/internal/cli/testutil"
	"github.com/leapstack-labs/plsqlreview/pkg/comments"
)

func executePublish(t *testing.T, args ...string) (output.PublishOutput, error) {
	t.Helper()
	config.ResetConfig()
	cmd := NewPublishCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--format", "json"}, args...))
	if err := cmd.Execute(); err != nil {
		return output.PublishOutput{}, err
	}
	var doc output.PublishOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	return doc, nil
}

func TestPublishCommand(t *testing.T) {
	items := []comments.Comment{
		{Body: "first", Path: "a.plsql", Position: 1, CommitID: "c1"},
		{Body: "second", Path: "a.plsql", Position: 5, CommitID: "c1"},
	}

	tests := []struct {
		name     string
		token    string
		file     string // written to the comment file when non-empty
		useItems bool
		args     []string
		want     output.PublishOutput
		requests int
	}{
		{
			name:     "publishes configured file",
			token:    "secret",
			useItems: true,
			args:     []string{"acme", "erp", "7"},
			want:     output.PublishOutput{Target: "acme/erp#7", Sent: 2},
			requests: 2,
		},
		{
			name:     "no token",
			useItems: true,
			args:     []string{"acme", "erp", "7"},
			want:     output.PublishOutput{Target: "acme/erp#7", Skipped: true, Reason: SkipNoToken},
		},
		{
			name:  "malformed file",
			token: "secret",
			file:  `[{"body": "x"}]`,
			args:  []string{"acme", "erp", "7"},
			want:  output.PublishOutput{Target: "acme/erp#7", Skipped: true, Reason: SkipMalformed},
		},
		{
			name:     "invalid target",
			token:    "secret",
			useItems: true,
			args:     []string{"", "erp", "7"},
			want:     output.PublishOutput{Target: "/erp#7", Skipped: true, Reason: SkipInvalidTarget},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.SetupTestProject(t)
			gh := testutil.NewFakeGitHub(t)
			t.Setenv("PLSQLREVIEW_API_BASE_URL", gh.URL)
			t.Setenv("GH_TOKEN", tt.token)

			if tt.useItems {
				require.NoError(t, comments.WriteFile(p.CommentsPath, items))
			} else {
				testutil.WriteFile(t, p.CommentsPath, tt.file)
			}

			got, err := executePublish(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, gh.Requests(), tt.requests)
		})
	}
}

func TestPublishCommand_ExplicitFile(t *testing.T) {
	p := testutil.SetupTestProject(t)
	gh := testutil.NewFakeGitHub(t)
	t.Setenv("PLSQLREVIEW_API_BASE_URL", gh.URL)
	t.Setenv("GH_TOKEN", "secret")

	other := p.Dir + "/other.json"
	require.NoError(t, comments.WriteFile(other, []comments.Comment{
		{Body: "only", Path: "b.plsql", Position: 3, CommitID: "c2"},
	}))

	got, err := executePublish(t, other, "acme", "erp", "9")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Sent)

	reqs := gh.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/repos/acme/erp/pulls/9/comments", reqs[0].Path)
	assert.Equal(t, "only", reqs[0].Body["body"])
}

func TestPublishCommand_BadPullNumber(t *testing.T) {
	testutil.SetupTestProject(t)
	_, err := executePublish(t, "acme", "erp", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pull number")
}

func TestRenderPublishStatus(t *testing.T) {
	tests := []struct {
		name    string
		outcome PublishOutcome
		want    string
	}{
		{
			name:    "skipped",
			outcome: PublishOutcome{Skipped: true, Reason: SkipNoToken},
			want:    "[skipped] publish (no token)\n",
		},
		{
			name:    "all sent",
			outcome: PublishOutcome{},
			want:    "[ok] publish acme/erp#1 (0 sent, 0 failed)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := testutil.NewTestRendererMarkdown()
			target := ReviewArgs{Owner: "acme", Repo: "erp", PullNumber: 1}.Target()
			renderPublishStatus(tr.Renderer, target, tt.outcome)
			assert.Equal(t, tt.want, tr.Output())
		})
	}
}
