package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  TokenType
	}{
		{"procedure", PROCEDURE},
		{"cursor", CURSOR},
		{"nocopy", NOCOPY},
		{"customer_id", IDENT},
		{"nvl", IDENT},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.ident))
		})
	}
}

func TestTokenClassification(t *testing.T) {
	assert.True(t, IsKeyword(AS))
	assert.True(t, IsKeyword(WHERE))
	assert.False(t, IsKeyword(IDENT))
	assert.False(t, IsKeyword(keywordEnd))

	assert.True(t, IsOperator(ASSIGN))
	assert.False(t, IsOperator(SELECT))

	assert.True(t, IsWord(IDENT))
	assert.True(t, IsWord(TYPE))
	assert.False(t, IsWord(NUMBER))
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, ":=", ASSIGN.String())
	assert.Equal(t, "TOKEN(5000)", TokenType(5000).String())
}

func TestPosition(t *testing.T) {
	assert.False(t, Position{}.IsValid())
	p := Position{Line: 3, Column: 7, Offset: 40}
	assert.True(t, p.IsValid())
	assert.Equal(t, "3:7", p.String())

	span := Span{Start: p, End: Position{Line: 3, Column: 12, Offset: 45}}
	assert.True(t, span.Contains(40))
	assert.False(t, span.Contains(45))
}
