package review

import (
	"log/slog"

	"github.com/leapstack-labs/plsqlreview/pkg/lint"
)

// Context carries everything one file analysis needs. It is created per file
// and discarded once its issues have been serialized.
type Context struct {
	FilePath string
	CommitID string
	Config   *lint.Config
	Logger   *slog.Logger
	Sink     *Sink
}

// NewContext creates an analysis context with an empty sink. A nil config
// enables every rule with default options; a nil logger discards output.
func NewContext(filePath, commitID string, cfg *lint.Config, logger *slog.Logger) *Context {
	if cfg == nil {
		cfg = lint.NewConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Context{
		FilePath: filePath,
		CommitID: commitID,
		Config:   cfg,
		Logger:   logger,
		Sink:     &Sink{},
	}
}

// enabled reports whether a rule should run.
func (c *Context) enabled(ruleID string) bool {
	return c.Config.IsEnabled(ruleID)
}

// severity resolves a rule's severity from its registered default and any override.
func (c *Context) severity(ruleID string) lint.Severity {
	def := lint.SeverityWarning
	if rule, ok := lint.GetByID(ruleID); ok {
		def = rule.Severity
	}
	return c.Config.GetSeverity(ruleID, def)
}

// issue builds an issue for this file.
func (c *Context) issue(ruleID string, line int, message string) Issue {
	return Issue{
		RuleID:   ruleID,
		Severity: c.severity(ruleID),
		Message:  message,
		FilePath: c.FilePath,
		Line:     line,
		CommitID: c.CommitID,
	}
}

// Report adds an issue to the sink unless the rule is disabled.
func (c *Context) Report(ruleID string, line int, message string) {
	if !c.enabled(ruleID) {
		return
	}
	c.Sink.Add(c.issue(ruleID, line, message))
}
