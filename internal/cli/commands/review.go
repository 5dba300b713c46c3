package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/plsqlreview/internal/cli/output"
	"github.com/leapstack-labs/plsqlreview/internal/github"
	"github.com/leapstack-labs/plsqlreview/internal/state"
	"github.com/leapstack-labs/plsqlreview/pkg/comments"
	"github.com/leapstack-labs/plsqlreview/pkg/lint"
	"github.com/leapstack-labs/plsqlreview/pkg/lint/review"
)

// ReviewOptions holds options for the review command.
type ReviewOptions struct {
	Format    string   // Output format override
	Disable   []string // Rule IDs to disable
	NoPublish bool     // Write the comment file but do not post it
	NoHistory bool     // Do not record the run
}

// ReviewArgs are the positional arguments of a review.
type ReviewArgs struct {
	CommitSHA  string
	FilePath   string
	Owner      string
	Repo       string
	PullNumber int
}

// Target returns the pull request the review is published to.
func (a ReviewArgs) Target() github.Target {
	return github.Target{Owner: a.Owner, Repo: a.Repo, PullNumber: a.PullNumber}
}

// reviewUsage names the positional arguments.
const reviewUsage = "<commitSha> <filePath> <owner> <repo> <pullNumber>"

// ParseReviewArgs accepts either no arguments, which reviews fallback with
// empty commit and target, or all five positional arguments.
func ParseReviewArgs(args []string, fallback string) (ReviewArgs, error) {
	switch len(args) {
	case 0:
		return ReviewArgs{FilePath: fallback}, nil
	case 5:
		n, err := strconv.Atoi(strings.TrimSpace(args[4]))
		if err != nil {
			return ReviewArgs{}, fmt.Errorf("invalid pull number %q: %w", args[4], err)
		}
		return ReviewArgs{
			CommitSHA:  args[0],
			FilePath:   args[1],
			Owner:      args[2],
			Repo:       args[3],
			PullNumber: n,
		}, nil
	default:
		return ReviewArgs{}, fmt.Errorf("expected 0 or 5 arguments (%s), got %d", reviewUsage, len(args))
	}
}

// NewReviewCommand creates the review command.
func NewReviewCommand() *cobra.Command {
	opts := &ReviewOptions{}
	cmd := &cobra.Command{
		Use:   "review [" + reviewUsage + "]",
		Short: "Review a PL/SQL file and publish the findings",
		Long: `Review a PL/SQL file against the coding guidelines.

Issues are printed, written to the comment file and, when a GitHub token is
available, posted to the pull request as review comments. Without arguments
the configured fallback_path is reviewed and nothing is published.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Review the fallback file
  plsqlreview review

  # Review a file of a pull request and post comments
  GH_TOKEN=... plsqlreview review 3f2c1e9 source/Order.plsql acme erp 42

  # Review without posting
  plsqlreview review --no-publish 3f2c1e9 source/Order.plsql acme erp 42

  # Disable rules for this run
  plsqlreview review --disable DM01,SQ02`,
		Args: cobra.MaximumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunReview(cmd, args, opts)
		},
	}
	AddReviewFlags(cmd, opts)
	return cmd
}

// AddReviewFlags registers the review flags on cmd.
func AddReviewFlags(cmd *cobra.Command, opts *ReviewOptions) {
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().BoolVar(&opts.NoPublish, "no-publish", false, "Write the comment file without posting it")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Do not record the run in the history database")
}

// RunReview analyzes one file, writes its comment file and publishes it.
func RunReview(cmd *cobra.Command, args []string, opts *ReviewOptions) error {
	cc, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := cc.Logger

	ra, err := ParseReviewArgs(args, cc.Cfg.FallbackPath)
	if err != nil {
		return err
	}
	logger.Debug("reviewing file",
		slog.String("file", ra.FilePath),
		slog.String("commit", ra.CommitSHA))

	rc := review.NewContext(ra.FilePath, ra.CommitSHA, cc.Cfg.LintConfig(opts.Disable...), logger)
	issues, err := review.AnalyzeFile(rc)
	if err != nil {
		return err
	}

	renderReview(cc.Renderer, ra, issues)

	items := comments.FromIssues(issues)
	if err := comments.WriteFile(cc.Cfg.CommentsFile, items); err != nil {
		return err
	}
	logger.Info("wrote review comments",
		slog.String("file", cc.Cfg.CommentsFile),
		slog.Int("count", len(items)))

	store := openHistory(ctx, cc, opts.NoHistory)
	if store != nil {
		defer func() { _ = store.Close() }()
	}
	runID := recordRun(ctx, store, logger, ra, issues)

	if opts.NoPublish {
		logger.Debug("publishing disabled")
		return nil
	}

	outcome := publishFile(ctx, cc, cc.Cfg.CommentsFile, ra.Target())
	if !outcome.Skipped && store != nil && runID != "" {
		if err := store.UpdatePublishResult(ctx, runID, outcome.Result.Sent, outcome.Result.Failed()); err != nil {
			logger.Warn("failed to update review history", slog.String("error", err.Error()))
		}
	}
	if cc.Renderer.EffectiveMode() != output.ModeJSON {
		renderPublishStatus(cc.Renderer, ra.Target(), outcome)
	}
	return nil
}

// recordRun stores the run; history is best-effort and never fails a review.
func recordRun(ctx context.Context, store *state.Store, logger *slog.Logger, ra ReviewArgs, issues []review.Issue) string {
	if store == nil {
		return ""
	}
	id, err := store.RecordRun(ctx, state.RunRecord{
		CommitID:   ra.CommitSHA,
		FilePath:   ra.FilePath,
		Owner:      ra.Owner,
		Repo:       ra.Repo,
		PullNumber: ra.PullNumber,
	}, issues)
	if err != nil {
		logger.Warn("failed to record review history", slog.String("error", err.Error()))
		return ""
	}
	logger.Debug("recorded review run", slog.String("id", id))
	return id
}

func summarize(issues []review.Issue) output.ReviewSummary {
	s := output.ReviewSummary{Total: len(issues)}
	for _, issue := range issues {
		switch issue.Severity {
		case lint.SeverityError:
			s.Errors++
		case lint.SeverityWarning:
			s.Warnings++
		case lint.SeverityInfo:
			s.Info++
		case lint.SeverityHint:
			s.Hints++
		}
	}
	return s
}

func renderReview(r *output.Renderer, ra ReviewArgs, issues []review.Issue) {
	summary := summarize(issues)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		doc := output.ReviewOutput{
			File:     ra.FilePath,
			CommitID: ra.CommitSHA,
			Issues:   make([]output.ReviewIssue, 0, len(issues)),
			Summary:  summary,
		}
		for _, issue := range issues {
			doc.Issues = append(doc.Issues, output.ReviewIssue{
				RuleID:   issue.RuleID,
				Severity: issue.Severity.String(),
				Line:     issue.Line,
				Message:  issue.Message,
			})
		}
		_ = r.JSON(doc)
		return

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(2, "Review: "+ra.FilePath))
		r.Println("")
		if len(issues) == 0 {
			r.Println("No issues found.")
			r.Println("")
			return
		}
		for _, issue := range issues {
			lines := strings.Split(issue.Message, "\n")
			r.Printf("- **%s** line %d (`%s`): %s\n", issue.RuleID, issue.Line, issue.Severity, lines[0])
			for _, l := range lines[1:] {
				r.Println("  - " + l)
			}
		}
		r.Println("")
		r.Println(summaryLine(summary))
		r.Println("")
		return
	}

	styles := r.Styles()
	r.Println(styles.FilePath.Render(ra.FilePath))
	if len(issues) == 0 {
		r.Success("No issues found")
		return
	}
	for _, issue := range issues {
		lines := strings.Split(issue.Message, "\n")
		r.Printf("  %s  %s  %s  %s\n",
			styles.Muted.Render(fmt.Sprintf("%-5d", issue.Line)),
			severityLabel(r, issue.Severity),
			styles.Bold.Render(issue.RuleID),
			lines[0],
		)
		for _, l := range lines[1:] {
			r.Println("         " + styles.Muted.Render(l))
		}
	}
	r.Println("")
	r.Println(summaryLine(summary))
}

func summaryLine(s output.ReviewSummary) string {
	parts := []string{fmt.Sprintf("%d issues", s.Total)}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", s.Errors))
	}
	if s.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.Warnings))
	}
	if s.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", s.Info))
	}
	if s.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", s.Hints))
	}
	return "Summary: " + strings.Join(parts, ", ")
}

func severityLabel(r *output.Renderer, sev lint.Severity) string {
	styles := r.Styles()
	switch sev {
	case lint.SeverityError:
		return styles.Error.Render("error  ")
	case lint.SeverityWarning:
		return styles.Warning.Render("warning")
	case lint.SeverityInfo:
		return styles.Info.Render("info   ")
	case lint.SeverityHint:
		return styles.Muted.Render("hint   ")
	default:
		return styles.Muted.Render("unknown")
	}
}
