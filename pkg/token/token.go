// Package token defines the token types for PL/SQL parsing.
//
// Only the keywords the review parser branches on are reserved; every other
// word is lexed as IDENT so that unfamiliar syntax degrades gracefully.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello'

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	DPIPE   // ||
	EQ      // =
	NE      // != or <>
	LT      // <
	GT      // >
	LE      // <=
	GE      // >=
	DOT     // .
	DOTDOT  // ..
	COMMA   // ,
	SEMI    // ;
	LPAREN  // (
	RPAREN  // )
	ASSIGN  // :=
	ARROW   // =>
	COLON   // :
	AT      // @

	// Keywords (alphabetical)
	AS
	BEGIN
	BODY
	CASE
	CONSTANT
	CREATE
	CROSS
	CURSOR
	DEFAULT
	DELETE
	DISTINCT
	END
	EXCEPTION
	FROM
	FULL
	FUNCTION
	IF
	IN
	INNER
	INSERT
	INTO
	IS
	JOIN
	LEFT
	LOOP
	NATURAL
	NOCOPY
	NOT
	NULL
	ON
	OR
	OUT
	OUTER
	PACKAGE
	PROCEDURE
	REPLACE
	RETURN
	RIGHT
	SELECT
	TYPE
	UNIQUE
	UPDATE
	USING
	WHERE

	keywordEnd
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	DPIPE:   "||",
	EQ:      "=",
	NE:      "!=",
	LT:      "<",
	GT:      ">",
	LE:      "<=",
	GE:      ">=",
	DOT:     ".",
	DOTDOT:  "..",
	COMMA:   ",",
	SEMI:    ";",
	LPAREN:  "(",
	RPAREN:  ")",
	ASSIGN:  ":=",
	ARROW:   "=>",
	COLON:   ":",
	AT:      "@",

	AS:        "AS",
	BEGIN:     "BEGIN",
	BODY:      "BODY",
	CASE:      "CASE",
	CONSTANT:  "CONSTANT",
	CREATE:    "CREATE",
	CROSS:     "CROSS",
	CURSOR:    "CURSOR",
	DEFAULT:   "DEFAULT",
	DELETE:    "DELETE",
	DISTINCT:  "DISTINCT",
	END:       "END",
	EXCEPTION: "EXCEPTION",
	FROM:      "FROM",
	FULL:      "FULL",
	FUNCTION:  "FUNCTION",
	IF:        "IF",
	IN:        "IN",
	INNER:     "INNER",
	INSERT:    "INSERT",
	INTO:      "INTO",
	IS:        "IS",
	JOIN:      "JOIN",
	LEFT:      "LEFT",
	LOOP:      "LOOP",
	NATURAL:   "NATURAL",
	NOCOPY:    "NOCOPY",
	NOT:       "NOT",
	NULL:      "NULL",
	ON:        "ON",
	OR:        "OR",
	OUT:       "OUT",
	OUTER:     "OUTER",
	PACKAGE:   "PACKAGE",
	PROCEDURE: "PROCEDURE",
	REPLACE:   "REPLACE",
	RETURN:    "RETURN",
	RIGHT:     "RIGHT",
	SELECT:    "SELECT",
	TYPE:      "TYPE",
	UNIQUE:    "UNIQUE",
	UPDATE:    "UPDATE",
	USING:     "USING",
	WHERE:     "WHERE",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"as":        AS,
	"begin":     BEGIN,
	"body":      BODY,
	"case":      CASE,
	"constant":  CONSTANT,
	"create":    CREATE,
	"cross":     CROSS,
	"cursor":    CURSOR,
	"default":   DEFAULT,
	"delete":    DELETE,
	"distinct":  DISTINCT,
	"end":       END,
	"exception": EXCEPTION,
	"from":      FROM,
	"full":      FULL,
	"function":  FUNCTION,
	"if":        IF,
	"in":        IN,
	"inner":     INNER,
	"insert":    INSERT,
	"into":      INTO,
	"is":        IS,
	"join":      JOIN,
	"left":      LEFT,
	"loop":      LOOP,
	"natural":   NATURAL,
	"nocopy":    NOCOPY,
	"not":       NOT,
	"null":      NULL,
	"on":        ON,
	"or":        OR,
	"out":       OUT,
	"outer":     OUTER,
	"package":   PACKAGE,
	"procedure": PROCEDURE,
	"replace":   REPLACE,
	"return":    RETURN,
	"right":     RIGHT,
	"select":    SELECT,
	"type":      TYPE,
	"unique":    UNIQUE,
	"update":    UPDATE,
	"using":     USING,
	"where":     WHERE,
}

// LookupIdent returns the token type for the given lowercase identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= AS && t < keywordEnd
}

// IsOperator returns true if the token type is an operator.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= AT
}

// IsWord returns true for identifiers and keywords, i.e. anything spelled with letters.
func IsWord(t TokenType) bool {
	return t == IDENT || IsKeyword(t)
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	End     int // byte offset just past the token in the source
}
