package parser_test

import (
	"testing"

	"github.com/leapstack-labs/plsqlreview/pkg/parser"
	"github.com/leapstack-labs/plsqlreview/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
	}{
		{
			name:  "assignment",
			input: "x_ := 1;",
			want:  []token.TokenType{token.IDENT, token.ASSIGN, token.NUMBER, token.SEMI, token.EOF},
		},
		{
			name:  "named argument and range",
			input: "f(a => 1..10)",
			want: []token.TokenType{
				token.IDENT, token.LPAREN, token.IDENT, token.ARROW,
				token.NUMBER, token.DOTDOT, token.NUMBER, token.RPAREN, token.EOF,
			},
		},
		{
			name:  "keywords are case insensitive",
			input: "Procedure CURSOR nocopy",
			want:  []token.TokenType{token.PROCEDURE, token.CURSOR, token.NOCOPY, token.EOF},
		},
		{
			name:  "comments are skipped",
			input: "a -- line\n/* block\n comment */ b",
			want:  []token.TokenType{token.IDENT, token.IDENT, token.EOF},
		},
		{
			name:  "rowtype attribute",
			input: "c%ROWTYPE",
			want:  []token.TokenType{token.IDENT, token.PERCENT, token.IDENT, token.EOF},
		},
		{
			name:  "not equal forms",
			input: "<> != ^=",
			want:  []token.TokenType{token.NE, token.NE, token.NE, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := parser.Tokenize(tt.input)
			got := make([]token.TokenType, 0, len(toks))
			for _, tok := range toks {
				got = append(got, tok.Type)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeLiterals(t *testing.T) {
	toks := parser.Tokenize(`'it''s' "Mixed Case" 12.5e3 pkg$name#1`)
	require.Len(t, toks, 5)

	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, `'it''s'`, toks[0].Literal)

	assert.Equal(t, token.IDENT, toks[1].Type)
	assert.Equal(t, "Mixed Case", toks[1].Literal)
	assert.Equal(t, 20, toks[1].End)

	assert.Equal(t, token.NUMBER, toks[2].Type)
	assert.Equal(t, "12.5e3", toks[2].Literal)

	assert.Equal(t, token.IDENT, toks[3].Type)
	assert.Equal(t, "pkg$name#1", toks[3].Literal)
}

func TestTokenizePositions(t *testing.T) {
	toks := parser.Tokenize("a\n  bb\n\nc")
	require.Len(t, toks, 4)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 4}, toks[1].Pos)
	assert.Equal(t, 6, toks[1].End)
	assert.Equal(t, token.Position{Line: 4, Column: 1, Offset: 8}, toks[2].Pos)
}
