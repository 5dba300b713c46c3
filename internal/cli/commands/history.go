package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/plsqlreview/internal/cli/output"
	"github.com/leapstack-labs/plsqlreview/internal/state"
)

// openHistory opens the history store, or returns nil when history is
// disabled or unavailable.
func openHistory(ctx context.Context, cc *CommandContext, disabled bool) *state.Store {
	path := cc.Cfg.StatePath
	if disabled || path == "" {
		return nil
	}
	store, err := openStore(ctx, path, cc.Logger)
	if err != nil {
		cc.Logger.Warn("review history unavailable", slog.String("error", err.Error()))
		return nil
	}
	return store
}

func openStore(ctx context.Context, path string, logger *slog.Logger) (*state.Store, error) {
	if dialect, _ := state.DialectFor(path); dialect == state.DialectSQLite && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}
	store, err := state.Open(ctx, path, state.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if version, err := store.Version(ctx); err == nil {
		logger.Debug("review history opened", slog.String("path", path), slog.Int64("schema_version", version))
	}
	return store, nil
}

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int
	Format string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded review runs",
		Long: `List recent review runs from the history database, or show the issues
of one run.`,
		Example: `  # Ten most recent runs
  plsqlreview history --limit 10

  # Issues of one run
  plsqlreview history 0d6f7c1e-2b1a-4c55-9d7e-3b8f4a0c9e21`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string, opts *HistoryOptions) error {
	cc, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := openStore(ctx, cc.Cfg.StatePath, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(args) == 1 {
		return showRun(ctx, cc.Renderer, store, args[0])
	}

	runs, err := store.ListRuns(ctx, opts.Limit)
	if err != nil {
		return err
	}
	return listRuns(cc.Renderer, runs)
}

// RunJSON is one run in JSON history output.
type RunJSON struct {
	ID          string `json:"id"`
	CommitID    string `json:"commit_id"`
	FilePath    string `json:"file_path"`
	Target      string `json:"target,omitempty"`
	Issues      int    `json:"issues"`
	Sent        int    `json:"sent"`
	Failed      int    `json:"failed"`
	CreatedAt   string `json:"created_at"`
	PublishedAt string `json:"published_at,omitempty"`
}

func runJSON(run state.RunRecord) RunJSON {
	out := RunJSON{
		ID:        run.ID,
		CommitID:  run.CommitID,
		FilePath:  run.FilePath,
		Target:    runTarget(run),
		Issues:    run.IssueCount,
		Sent:      run.Sent,
		Failed:    run.Failed,
		CreatedAt: run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if run.PublishedAt != nil {
		out.PublishedAt = run.PublishedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return out
}

func runTarget(run state.RunRecord) string {
	if run.Owner == "" && run.Repo == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s#%d", run.Owner, run.Repo, run.PullNumber)
}

func listRuns(r *output.Renderer, runs []state.RunRecord) error {
	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		doc := make([]RunJSON, 0, len(runs))
		for _, run := range runs {
			doc = append(doc, runJSON(run))
		}
		return r.JSON(doc)
	}

	if len(runs) == 0 {
		r.Muted("No review runs recorded")
		return nil
	}

	t := newTable(r)
	t.AppendHeader(table.Row{"Run", "Created", "File", "Commit", "Target", "Issues", "Published"})
	for _, run := range runs {
		published := "-"
		if run.Published() {
			published = fmt.Sprintf("%d sent, %d failed", run.Sent, run.Failed)
		}
		t.AppendRow(table.Row{
			shortID(run.ID),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.FilePath,
			shortID(run.CommitID),
			runTarget(run),
			run.IssueCount,
			published,
		})
	}
	renderTable(r, t)
	return nil
}

func showRun(ctx context.Context, r *output.Renderer, store *state.Store, id string) error {
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	issues, err := store.GetRunIssues(ctx, id)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		doc := struct {
			Run    RunJSON              `json:"run"`
			Issues []output.ReviewIssue `json:"issues"`
		}{Run: runJSON(*run), Issues: make([]output.ReviewIssue, 0, len(issues))}
		for _, issue := range issues {
			doc.Issues = append(doc.Issues, output.ReviewIssue{
				RuleID:   issue.RuleID,
				Severity: issue.Severity.String(),
				Line:     issue.Line,
				Message:  issue.Message,
			})
		}
		return r.JSON(doc)
	}

	r.Header(1, "Run "+run.ID)
	r.Printf("%s  %s\n", r.Styles().Bold.Render("File:"), run.FilePath)
	r.Printf("%s  %s\n", r.Styles().Bold.Render("Commit:"), run.CommitID)
	if target := runTarget(*run); target != "" {
		r.Printf("%s  %s\n", r.Styles().Bold.Render("Target:"), target)
	}
	r.Println("")

	t := newTable(r)
	t.AppendHeader(table.Row{"Line", "Rule", "Severity", "Message"})
	for _, issue := range issues {
		t.AppendRow(table.Row{issue.Line, issue.RuleID, issue.Severity.String(), issue.Message})
	}
	renderTable(r, t)
	return nil
}

// newTable creates a go-pretty table styled for the renderer's mode.
func newTable(r *output.Renderer) table.Writer {
	t := table.NewWriter()
	if r.IsTTY() && r.EffectiveMode() == output.ModeText {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleLight)
	}
	return t
}

func renderTable(r *output.Renderer, t table.Writer) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(t.RenderMarkdown())
		return
	}
	r.Println(t.Render())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return strings.TrimSpace(id)
}
