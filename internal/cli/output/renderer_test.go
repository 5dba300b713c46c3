package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeJSON, true, ModeJSON},
		{ModeMarkdown, true, ModeMarkdown},
	}
	for _, tt := range tests {
		r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode=%q tty=%v", tt.mode, tt.isTTY)
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"", "auto", "text", "markdown", "json"} {
		_, err := ParseMode(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseMode("yaml")
	assert.Error(t, err)
}

func TestPlainOutputWhenPiped(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeText)

	r.Success("done")
	r.StatusLine("comments.json", "success", "(3 comments)")
	r.StatusLine("publish", "skipped", "")
	r.Warning("careful")

	assert.Equal(t, "- done\n[ok] comments.json (3 comments)\n[skipped] publish\n", out.String())
	assert.Equal(t, "Warning: careful\n", errOut.String())
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestMarkdownHeader(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, out, false, ModeMarkdown)
	r.Header(2, "Review")
	assert.Equal(t, "## Review\n\n", out.String())
}

func TestJSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, out, false, ModeJSON)
	require.NoError(t, r.JSON(ReviewOutput{File: "a<b>.plsql", Issues: []ReviewIssue{}}))
	assert.Contains(t, out.String(), `"file": "a<b>.plsql"`)
	assert.Contains(t, out.String(), `"issues": []`)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "**Rule:** NM01", FormatKeyValue("Rule", "NM01"))
	assert.Equal(t, "```sql\nSELECT 1\n```", FormatCodeBlock("sql", "SELECT 1"))
}
