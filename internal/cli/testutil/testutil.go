// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/leapstack-labs/plsqlreview/internal/cli/output"
)

// SamplePLSQL is a procedure with two parameters missing a direction
// (lines 2 and 3) and a mixed case table name (line 9).
const SamplePLSQL = `PROCEDURE Process_Order___ (
   order_   VARCHAR2,
   amount_  NUMBER )
IS
BEGIN
   SELECT a,
          b
     INTO x_, y_
     FROM Orders;
END Process_Order___;
`

// Project is a temporary review workspace.
type Project struct {
	Dir          string
	SourcePath   string
	CommentsPath string
	StatePath    string
}

// SetupTestProject creates a temporary directory holding SamplePLSQL and
// points the PLSQLREVIEW_ environment at it.
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	dir := t.TempDir()
	p := &Project{
		Dir:          dir,
		SourcePath:   filepath.Join(dir, "source", "Order.plsql"),
		CommentsPath: filepath.Join(dir, "out", "comments.json"),
		StatePath:    filepath.Join(dir, ".plsqlreview", "history.db"),
	}
	WriteFile(t, p.SourcePath, SamplePLSQL)

	t.Setenv("PLSQLREVIEW_COMMENTS_FILE", p.CommentsPath)
	t.Setenv("PLSQLREVIEW_FALLBACK_PATH", p.SourcePath)
	t.Setenv("PLSQLREVIEW_STATE_PATH", p.StatePath)
	return p
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// Received is one request seen by a FakeGitHub server.
type Received struct {
	Path          string
	Authorization string
	Body          map[string]any
}

// FakeGitHub records pull request comment posts.
type FakeGitHub struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Received
	// Reject lists 1-based request numbers answered with 422.
	Reject map[int]bool
}

// NewFakeGitHub starts a server that accepts comment posts. It is closed
// when the test ends.
func NewFakeGitHub(t *testing.T) *FakeGitHub {
	t.Helper()
	f := &FakeGitHub{Reject: map[int]bool{}}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(data, &body)

		f.mu.Lock()
		f.requests = append(f.requests, Received{
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		n := len(f.requests)
		f.mu.Unlock()

		if f.Reject[n] {
			http.Error(w, `{"message":"Validation Failed"}`, http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	t.Cleanup(f.Close)
	return f
}

// Requests returns the requests received so far.
func (f *FakeGitHub) Requests() []Received {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Received, len(f.requests))
	copy(out, f.requests)
	return out
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
