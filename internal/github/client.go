// Package github posts review comments to a pull request.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/plsqlreview/pkg/comments"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// DefaultTokenEnv is the environment variable holding the API token.
const DefaultTokenEnv = "GH_TOKEN"

// DefaultTimeout bounds a single comment request.
const DefaultTimeout = 30 * time.Second

// ErrNoToken is returned when no API token is configured.
var ErrNoToken = errors.New("no GitHub token configured")

var validate = validator.New()

// Target identifies the pull request comments are posted to.
type Target struct {
	Owner      string `validate:"required"`
	Repo       string `validate:"required"`
	PullNumber int    `validate:"gt=0"`
}

// Validate checks that every field of the target is set.
func (t Target) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid pull request target: %w", err)
	}
	return nil
}

func (t Target) String() string {
	return fmt.Sprintf("%s/%s#%d", t.Owner, t.Repo, t.PullNumber)
}

// Client posts review comments.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger. Without it the client logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client. A blank token returns ErrNoToken.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoToken
	}
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		token:      token,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RequestError describes a comment the API did not accept.
type RequestError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("request failed: %v", e.Cause)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Cause }

// Failure is one comment that could not be posted.
type Failure struct {
	Index   int
	Comment comments.Comment
	Err     error
}

// Result summarizes a publishing run.
type Result struct {
	Sent     int
	Failures []Failure
}

// Failed returns the number of comments that were not posted.
func (r Result) Failed() int { return len(r.Failures) }

// PublishComments posts each comment in order, one request per comment.
// A failed comment is logged and recorded; the remaining comments are still sent.
// Cancelling ctx fails the comments not yet sent.
func (c *Client) PublishComments(ctx context.Context, target Target, items []comments.Comment) Result {
	var result Result
	endpoint := c.commentsURL(target)

	for i, comment := range items {
		if err := c.post(ctx, endpoint, comment); err != nil {
			c.logger.Warn("failed to post review comment",
				slog.Int("index", i),
				slog.String("path", comment.Path),
				slog.Int("position", comment.Position),
				slog.String("error", err.Error()))
			result.Failures = append(result.Failures, Failure{Index: i, Comment: comment, Err: err})
			continue
		}
		result.Sent++
		c.logger.Debug("posted review comment", slog.Int("index", i), slog.Int("position", comment.Position))
	}

	c.logger.Info("published review comments",
		slog.String("target", target.String()),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed()))
	return result
}

func (c *Client) commentsURL(t Target) string {
	return fmt.Sprintf("%s/repos/%s/%s/pulls/%d/comments",
		c.baseURL, url.PathEscape(t.Owner), url.PathEscape(t.Repo), t.PullNumber)
}

func (c *Client) post(ctx context.Context, endpoint string, comment comments.Comment) error {
	body, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("failed to encode comment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &RequestError{Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RequestError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
