// Package comments reads and writes the review-comment file: a JSON array
// with one pull-request review comment per issue.
package comments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/plsqlreview/pkg/lint/review"
)

// Comment is one pull-request review comment.
type Comment struct {
	Body     string `json:"body"`
	Path     string `json:"path"`
	Position int    `json:"position"`
	CommitID string `json:"commit_id"`
}

// FromIssues converts issues to comments, preserving order.
func FromIssues(issues []review.Issue) []Comment {
	out := make([]Comment, 0, len(issues))
	for _, issue := range issues {
		out = append(out, Comment{
			Body:     issue.Message,
			Path:     issue.FilePath,
			Position: issue.Line,
			CommitID: issue.CommitID,
		})
	}
	return out
}

// Encode writes comments as an indented JSON array. An empty slice encodes as [].
func Encode(w io.Writer, comments []Comment) error {
	if comments == nil {
		comments = []Comment{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(comments); err != nil {
		return fmt.Errorf("failed to encode comments: %w", err)
	}
	return nil
}

// WriteFile writes comments to path, creating parent directories.
func WriteFile(path string, comments []Comment) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	var buf bytes.Buffer
	if err := Encode(&buf, comments); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
