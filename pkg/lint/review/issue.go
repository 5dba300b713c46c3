package review

import (
	"github.com/leapstack-labs/plsqlreview/pkg/lint"
)

// Issue is one finding destined for a review comment.
type Issue struct {
	RuleID   string        `json:"rule_id"`
	Severity lint.Severity `json:"severity"`
	Message  string        `json:"message"`
	FilePath string        `json:"file_path"`
	Line     int           `json:"line"`
	CommitID string        `json:"commit_id"`
}

// Sink collects issues in detection order. Detection order differs from
// source order because cursor scopes flush when they close. Duplicates are kept.
type Sink struct {
	issues []Issue
}

// Add appends an issue.
func (s *Sink) Add(issue Issue) {
	s.issues = append(s.issues, issue)
}

// Issues returns a copy of the collected issues.
func (s *Sink) Issues() []Issue {
	out := make([]Issue, len(s.issues))
	copy(out, s.issues)
	return out
}

// Len returns the number of collected issues.
func (s *Sink) Len() int {
	return len(s.issues)
}
