package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/plsqlreview/internal/cli/output"
	"github.com/leapstack-labs/plsqlreview/internal/github"
	"github.com/leapstack-labs/plsqlreview/pkg/comments"
)

// PublishOutcome is the result of publishing a comment file.
type PublishOutcome struct {
	Result  github.Result
	Skipped bool
	Reason  string
}

// Reasons a publish is skipped.
const (
	SkipNoToken       = "no token"
	SkipMalformed     = "malformed comment file"
	SkipInvalidTarget = "invalid target"
)

// publishFile reads a comment file back and posts it to target. Missing
// tokens, unreadable files and incomplete targets skip publishing.
func publishFile(ctx context.Context, cc *CommandContext, path string, target github.Target) PublishOutcome {
	logger := cc.Logger

	client, err := github.New(os.Getenv(cc.Cfg.TokenEnv),
		github.WithBaseURL(cc.Cfg.APIBaseURL),
		github.WithLogger(logger))
	if err != nil {
		logger.Info("no GitHub token, skipping publish", slog.String("env", cc.Cfg.TokenEnv))
		return PublishOutcome{Skipped: true, Reason: SkipNoToken}
	}

	items, err := comments.ReadFile(path)
	var malformed *comments.MalformedError
	if errors.As(err, &malformed) {
		logger.Debug("skipping publish", slog.String("error", malformed.Error()))
		return PublishOutcome{Skipped: true, Reason: SkipMalformed}
	}
	if err != nil {
		logger.Warn("skipping publish", slog.String("error", err.Error()))
		return PublishOutcome{Skipped: true, Reason: err.Error()}
	}

	if err := target.Validate(); err != nil {
		logger.Warn("skipping publish", slog.String("error", err.Error()))
		return PublishOutcome{Skipped: true, Reason: SkipInvalidTarget}
	}

	return PublishOutcome{Result: client.PublishComments(ctx, target, items)}
}

func renderPublishStatus(r *output.Renderer, target github.Target, o PublishOutcome) {
	if o.Skipped {
		r.StatusLine("publish", "skipped", "("+o.Reason+")")
		return
	}
	status := "success"
	if o.Result.Failed() > 0 {
		status = "failed"
	}
	r.StatusLine("publish "+target.String(), status,
		fmt.Sprintf("(%d sent, %d failed)", o.Result.Sent, o.Result.Failed()))
}

// PublishOptions holds options for the publish command.
type PublishOptions struct {
	Format string
}

// NewPublishCommand creates the publish command.
func NewPublishCommand() *cobra.Command {
	opts := &PublishOptions{}
	cmd := &cobra.Command{
		Use:   "publish [comments-file] <owner> <repo> <pullNumber>",
		Short: "Post an existing comment file to a pull request",
		Long: `Read a comment file written by a previous review and post each entry
as a pull request review comment.

The token is read from the environment variable named by token_env
(GH_TOKEN by default). Without a token, or when the file cannot be read
back, nothing is posted. A comment the API rejects does not stop the rest.`,
		Example: `  # Publish the configured comment file
  plsqlreview publish acme erp 42

  # Publish a specific file
  plsqlreview publish out/comments.json acme erp 42`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}

func runPublish(cmd *cobra.Command, args []string, opts *PublishOptions) error {
	cc, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}

	path := cc.Cfg.CommentsFile
	if len(args) == 4 {
		path, args = args[0], args[1:]
	}
	n, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid pull number %q: %w", args[2], err)
	}
	target := github.Target{Owner: args[0], Repo: args[1], PullNumber: n}

	outcome := publishFile(cmd.Context(), cc, path, target)

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.PublishOutput{
			Target:  target.String(),
			Sent:    outcome.Result.Sent,
			Failed:  outcome.Result.Failed(),
			Skipped: outcome.Skipped,
			Reason:  outcome.Reason,
		})
	}
	renderPublishStatus(r, target, outcome)
	return nil
}
