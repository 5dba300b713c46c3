package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/plsqlreview/pkg/lint"
	"github.com/leapstack-labs/plsqlreview/pkg/lint/review"
)

const runColumns = `id, commit_id, file_path, owner, repo, pull_number, issue_count, sent, failed, created_at, published_at`

// RecordRun stores a run and its issues in one transaction and returns the run id.
// ID, IssueCount and CreatedAt of run are assigned by the store.
func (s *Store) RecordRun(ctx context.Context, run RunRecord, issues []review.Issue) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("database not opened")
	}

	run.ID = generateID()
	run.IssueCount = len(issues)
	run.CreatedAt = s.now()

	s.logger.Debug("recording review run",
		slog.String("id", run.ID),
		slog.String("file", run.FilePath),
		slog.Int("issues", run.IssueCount))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO review_runs (id, commit_id, file_path, owner, repo, pull_number, issue_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.CommitID, run.FilePath, run.Owner, run.Repo, run.PullNumber, run.IssueCount, run.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	if len(issues) > 0 {
		stmt, err := tx.PrepareContext(ctx, s.rebind(
			`INSERT INTO review_issues (run_id, seq, rule_id, severity, message, line) VALUES (?, ?, ?, ?, ?, ?)`))
		if err != nil {
			return "", fmt.Errorf("failed to prepare issue insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, issue := range issues {
			if _, err := stmt.ExecContext(ctx, run.ID, i, issue.RuleID, issue.Severity.String(), issue.Message, issue.Line); err != nil {
				return "", fmt.Errorf("failed to insert issue %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// UpdatePublishResult records how many comments of a run were posted.
func (s *Store) UpdatePublishResult(ctx context.Context, id string, sent, failed int) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE review_runs SET sent = ?, failed = ?, published_at = ? WHERE id = ?`),
		sent, failed, s.now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+runColumns+` FROM review_runs WHERE id = ?`), id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT ` + runColumns + ` FROM review_runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRunIssues returns the issues of a run in detection order.
func (s *Store) GetRunIssues(ctx context.Context, id string) ([]review.Issue, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT rule_id, severity, message, line FROM review_issues WHERE run_id = ? ORDER BY seq`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var issues []review.Issue
	for rows.Next() {
		var issue review.Issue
		var severity string
		if err := rows.Scan(&issue.RuleID, &severity, &issue.Message, &issue.Line); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		if sev, ok := lint.ParseSeverity(severity); ok {
			issue.Severity = sev
		} else {
			s.logger.Warn("unknown severity in history", slog.String("severity", severity))
			issue.Severity = lint.SeverityWarning
		}
		issue.FilePath = run.FilePath
		issue.CommitID = run.CommitID
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get issues: %w", err)
	}
	return issues, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunRecord, error) {
	var run RunRecord
	var publishedAt sql.NullTime
	err := row.Scan(&run.ID, &run.CommitID, &run.FilePath, &run.Owner, &run.Repo, &run.PullNumber,
		&run.IssueCount, &run.Sent, &run.Failed, &run.CreatedAt, &publishedAt)
	if err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		run.PublishedAt = &t
	}
	return &run, nil
}
