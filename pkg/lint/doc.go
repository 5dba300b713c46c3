// Package lint holds the rule catalog shared by the review engine and its tooling.
//
// # Rule Registration
//
// Rules register themselves from init() functions when their package is imported:
//
//	import _ "github.com/leapstack-labs/plsqlreview/pkg/lint/review"
//
// # Rule Groups
//
//   - NM (naming): routine naming convention
//   - PA (parameters): direction, ordering and suffix of routine parameters
//   - LY (layout): vertical alignment and declaration order
//   - SQ (select): select-list conventions inside and outside cursors
//   - CR, TB (cursor, tables): identifier casing checked when a cursor scope closes
//   - DM (statements): direct INSERT, UPDATE and DELETE usage
//
// # Configuration
//
// Use Config to control which rules run, their severity and their options:
//
//	config := lint.NewConfig()
//	config.Disable("SQ02")
//	config.SetSeverity("DM01", lint.SeverityError)
//	config.SetRuleOptions("PA03", map[string]any{"suffix": "_"})
package lint
