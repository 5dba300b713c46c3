// Package state records review runs and their issues.
//
// A store is backed by SQLite (modernc.org/sqlite, pure Go) or, for a
// postgres:// or postgresql:// DSN, PostgreSQL through the pgx stdlib driver.
// The schema is managed with embedded goose migrations.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver (pure Go)
)

// Dialect names the SQL flavour of a store.
type Dialect string

// Supported dialects.
const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("review run not found")

// RunRecord is one recorded review of a file.
type RunRecord struct {
	ID          string
	CommitID    string
	FilePath    string
	Owner       string
	Repo        string
	PullNumber  int
	IssueCount  int
	Sent        int
	Failed      int
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// Published reports whether a publish result was recorded for the run.
func (r RunRecord) Published() bool { return r.PublishedAt != nil }

// Store persists review history.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// DialectFor returns the dialect and driver name for a DSN.
func DialectFor(dsn string) (Dialect, string) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres, "pgx"
	}
	return DialectSQLite, "sqlite"
}

// Open connects to dsn and applies pending migrations.
// Use ":memory:" for a throwaway SQLite database.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	dialect, driver := DialectFor(dsn)

	source := dsn
	if dialect == DialectSQLite && dsn != ":memory:" {
		source = "file:" + dsn + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	s := New(db, dialect, opts...)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database without running migrations.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		logger:  slog.New(slog.DiscardHandler),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites ? placeholders to $N for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func generateID() string {
	return uuid.New().String()
}
