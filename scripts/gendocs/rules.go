package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/plsqlreview/pkg/lint"
	_ "github.com/leapstack-labs/plsqlreview/pkg/lint/review"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"naming":     "Rules about routine names.",
	"parameters": "Rules about routine parameter lists.",
	"layout":     "Rules about declaration order and vertical alignment.",
	"select":     "Rules about SELECT lists.",
	"cursor":     "Rules about explicit cursors.",
	"tables":     "Rules about table references.",
	"statements": "Rules about data-modifying statements.",
}

// generateRuleDocs writes an index page and one page per rule. Page names
// match lint.BuildDocURL.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := lint.GetAll()
	if err := generateRulesIndex(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, rule := range rules {
		w := NewMarkdownWriter()
		w.Frontmatter(rule.ID, rule.Name)
		w.GeneratedMarker()
		writeRuleDoc(w, rule)

		name := strings.ToLower(rule.ID) + ".md"
		if err := os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func generateRulesIndex(outDir string, rules []lint.RuleDef) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Review Rules", "PL/SQL review rules")
	w.GeneratedMarker()

	w.Header(1, "Review Rules")
	w.Paragraph(fmt.Sprintf("plsqlreview checks **%d rules**. Every finding becomes one pull request review comment.", len(rules)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are configured in `plsqlreview.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled: [DM01]         # disable rules
  severity:
    SQ02: warning          # override severity
  rules:
    PA03:
      suffix: _            # rule-specific option`)

	for _, group := range lint.Groups() {
		w.Header(2, capitalizeFirst(group))
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}
		var rows [][]string
		for _, rule := range lint.GetByGroup(group) {
			link := fmt.Sprintf("[%s](%s.md)", rule.ID, strings.ToLower(rule.ID))
			rows = append(rows, []string{link, InlineCode(rule.Name), InlineCode(rule.Severity.String()), cleanDescription(rule.Description)})
		}
		w.Table([]string{"ID", "Name", "Severity", "Description"}, rows)
	}

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule lint.RuleDef) {
	w.Header(1, fmt.Sprintf("%s - %s", rule.ID, rule.Name))

	w.Line(fmt.Sprintf("**Group:** %s | **Severity:** %s", rule.Group, InlineCode(rule.Severity.String())))
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description))

	if rule.Rationale != "" {
		w.Header(2, "Why This Matters")
		w.Paragraph(strings.TrimSpace(rule.Rationale))
	}

	if rule.BadExample != "" {
		w.Header(2, "Bad")
		w.CodeBlock("sql", rule.BadExample)
	}

	if rule.GoodExample != "" {
		w.Header(2, "Good")
		w.CodeBlock("sql", rule.GoodExample)
	}

	if rule.Fix != "" {
		w.Header(2, "How to Fix")
		w.Paragraph(strings.TrimSpace(rule.Fix))
	}

	if len(rule.ConfigKeys) > 0 {
		w.Header(2, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following configuration options: %s",
			InlineCode(strings.Join(rule.ConfigKeys, ", "))))
	}
}
