package state

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/plsqlreview/internal/testutil"
	"github.com/leapstack-labs/plsqlreview/pkg/lint"
	"github.com/leapstack-labs/plsqlreview/pkg/lint/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:", WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	// Deterministic, strictly increasing clock.
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return store
}

func sampleIssues() []review.Issue {
	return []review.Issue{
		{RuleID: "PA01", Severity: lint.SeverityWarning, Message: "b_: OUT parameter found after other types", FilePath: "src/Order.plsql", Line: 3, CommitID: "abc"},
		{RuleID: "SQ01,TB01", Severity: lint.SeverityWarning, Message: "Cursor declaration issues:\nLine No: 8 :- x", FilePath: "src/Order.plsql", Line: 7, CommitID: "abc"},
		{RuleID: "DM01", Severity: lint.SeverityHint, Message: "DELETE statement found, use the entity API methods instead", FilePath: "src/Order.plsql", Line: 20, CommitID: "abc"},
	}
}

func TestOpenMigrates(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	id, err := store.RecordRun(ctx, RunRecord{CommitID: "c", FilePath: "f"}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	run, err := reopened.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "f", run.FilePath)
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	id, err := store.RecordRun(ctx, RunRecord{
		CommitID:   "abc",
		FilePath:   "src/Order.plsql",
		Owner:      "acme",
		Repo:       "orders",
		PullNumber: 42,
	}, sampleIssues())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := store.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "abc", run.CommitID)
	assert.Equal(t, "acme", run.Owner)
	assert.Equal(t, 42, run.PullNumber)
	assert.Equal(t, 3, run.IssueCount)
	assert.False(t, run.Published())

	require.NoError(t, store.UpdatePublishResult(ctx, id, 2, 1))

	run, err = store.GetRun(ctx, id)
	require.NoError(t, err)
	assert.True(t, run.Published())
	assert.Equal(t, 2, run.Sent)
	assert.Equal(t, 1, run.Failed)

	issues, err := store.GetRunIssues(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sampleIssues(), issues)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	var ids []string
	for _, file := range []string{"a.plsql", "b.plsql", "c.plsql"} {
		id, err := store.RecordRun(ctx, RunRecord{CommitID: "sha", FilePath: file}, nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID, "newest first")
	assert.Equal(t, ids[0], runs[2].ID)

	runs, err = store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunNotFound(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = store.GetRunIssues(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = store.UpdatePublishResult(ctx, "missing", 1, 0)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dsn     string
		dialect Dialect
		driver  string
	}{
		{":memory:", DialectSQLite, "sqlite"},
		{".plsqlreview/history.db", DialectSQLite, "sqlite"},
		{"postgres://u:p@localhost/review", DialectPostgres, "pgx"},
		{"postgresql://localhost/review", DialectPostgres, "pgx"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			dialect, driver := DialectFor(tt.dsn)
			assert.Equal(t, tt.dialect, dialect)
			assert.Equal(t, tt.driver, driver)
		})
	}
}

func TestRebind(t *testing.T) {
	pg := New(nil, DialectPostgres)
	lite := New(nil, DialectSQLite)

	q := `UPDATE t SET a = ?, b = ? WHERE id = ?`
	assert.Equal(t, `UPDATE t SET a = $1, b = $2 WHERE id = $3`, pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestNilDatabase(t *testing.T) {
	ctx := context.Background()
	store := &Store{}

	_, err := store.RecordRun(ctx, RunRecord{}, nil)
	assert.Error(t, err)
	_, err = store.ListRuns(ctx, 1)
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, DialectPostgres, WithLogger(testutil.NewTestLogger(t))), mock
}

func TestRecordRunErrors(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		errMsg    string
	}{
		{
			name: "begin fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(assert.AnError)
			},
			errMsg: "failed to begin transaction",
		},
		{
			name: "insert run fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO review_runs")).WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			errMsg: "failed to insert run",
		},
		{
			name: "insert issue fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO review_runs")).WillReturnResult(sqlmock.NewResult(0, 1))
				prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO review_issues (run_id, seq, rule_id, severity, message, line) VALUES ($1, $2, $3, $4, $5, $6)"))
				prep.ExpectExec().WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			errMsg: "failed to insert issue 0",
		},
		{
			name: "commit fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO review_runs")).WillReturnResult(sqlmock.NewResult(0, 1))
				prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO review_issues"))
				for range sampleIssues() {
					prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
				}
				mock.ExpectCommit().WillReturnError(assert.AnError)
			},
			errMsg: "failed to commit run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.setupMock(mock)

			_, err := store.RecordRun(context.Background(), RunRecord{CommitID: "c", FilePath: "f"}, sampleIssues())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdatePublishResultPostgres(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE review_runs SET sent = $1, failed = $2, published_at = $3 WHERE id = $4")).
		WithArgs(3, 0, sqlmock.AnyArg(), "run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpdatePublishResult(context.Background(), "run-1", 3, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRunsQueryError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM review_runs ORDER BY created_at DESC, id LIMIT $1")).
		WithArgs(5).
		WillReturnError(assert.AnError)

	_, err := store.ListRuns(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
