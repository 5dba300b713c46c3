package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/plsqlreview/internal/cli/config"
	"github.com/leapstack-labs/plsqlreview/internal/cli/output"
)

func TestNewCommandContextFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    output.Mode
		wantErr bool
	}{
		{format: "", want: output.ModeAuto},
		{format: "json", want: output.ModeJSON},
		{format: "markdown", want: output.ModeMarkdown},
		{format: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			config.ResetConfig()
			t.Setenv(config.EnvPrefix+"OUTPUT", "")

			cc, err := NewCommandContext(&cobra.Command{}, tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, cc)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cc.Renderer)
			if tt.want != output.ModeAuto {
				assert.Equal(t, tt.want, cc.Renderer.EffectiveMode())
			}
		})
	}
}

func TestNewReviewCommand(t *testing.T) {
	cmd := NewReviewCommand()

	assert.Equal(t, "review ["+reviewUsage+"]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"format", "disable", "no-publish", "no-history"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewPublishCommand(t *testing.T) {
	cmd := NewPublishCommand()

	assert.Equal(t, "publish [comments-file] <owner> <repo> <pullNumber>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("format"))
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history [run-id]", cmd.Use)
	for _, flag := range []string{"limit", "format"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestParseReviewArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    ReviewArgs
		wantErr string
	}{
		{
			name: "no arguments uses fallback",
			args: nil,
			want: ReviewArgs{FilePath: "workspace/Test.plsql"},
		},
		{
			name: "all five arguments",
			args: []string{"3f2c1e9", "source/Order.plsql", "acme", "erp", "42"},
			want: ReviewArgs{
				CommitSHA:  "3f2c1e9",
				FilePath:   "source/Order.plsql",
				Owner:      "acme",
				Repo:       "erp",
				PullNumber: 42,
			},
		},
		{
			name:    "bad pull number",
			args:    []string{"3f2c1e9", "source/Order.plsql", "acme", "erp", "forty-two"},
			wantErr: `invalid pull number "forty-two"`,
		},
		{
			name:    "partial arguments",
			args:    []string{"3f2c1e9", "source/Order.plsql"},
			wantErr: "expected 0 or 5 arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReviewArgs(tt.args, "workspace/Test.plsql")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReviewArgsTarget(t *testing.T) {
	ra := ReviewArgs{Owner: "acme", Repo: "erp", PullNumber: 7}
	target := ra.Target()

	assert.Equal(t, "acme/erp#7", target.String())
	assert.NoError(t, target.Validate())
	assert.Error(t, ReviewArgs{}.Target().Validate())
}
