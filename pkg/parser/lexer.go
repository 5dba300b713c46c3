package parser

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/plsqlreview/pkg/token"
)

// Lexer tokenizes PL/SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	if l.pos < len(l.input) && l.input[l.pos] == '\n' && l.readPos > 0 {
		l.line++
		l.col = 0
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	tok := l.scan()
	tok.End = l.pos
	if tok.Type == token.EOF {
		tok.End = len(l.input)
	}
	return tok
}

func (l *Lexer) scan() token.Token {
	pos := l.currentPos()

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Pos: pos}
	case '+':
		return l.single(token.PLUS, pos)
	case '-':
		return l.single(token.MINUS, pos)
	case '*':
		return l.single(token.STAR, pos)
	case '/':
		return l.single(token.SLASH, pos)
	case '%':
		return l.single(token.PERCENT, pos)
	case ',':
		return l.single(token.COMMA, pos)
	case ';':
		return l.single(token.SEMI, pos)
	case '(':
		return l.single(token.LPAREN, pos)
	case ')':
		return l.single(token.RPAREN, pos)
	case '@':
		return l.single(token.AT, pos)
	case '=':
		if l.peekChar() == '>' {
			return l.double(token.ARROW, "=>", pos)
		}
		return l.single(token.EQ, pos)
	case ':':
		if l.peekChar() == '=' {
			return l.double(token.ASSIGN, ":=", pos)
		}
		return l.single(token.COLON, pos)
	case '.':
		if l.peekChar() == '.' {
			return l.double(token.DOTDOT, "..", pos)
		}
		return l.single(token.DOT, pos)
	case '<':
		switch l.peekChar() {
		case '=':
			return l.double(token.LE, "<=", pos)
		case '>':
			return l.double(token.NE, "<>", pos)
		}
		return l.single(token.LT, pos)
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.GE, ">=", pos)
		}
		return l.single(token.GT, pos)
	case '!', '^', '~':
		if l.peekChar() == '=' {
			return l.double(token.NE, string(l.ch)+"=", pos)
		}
		return l.single(token.ILLEGAL, pos)
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.DPIPE, "||", pos)
		}
		return l.single(token.ILLEGAL, pos)
	case '\'':
		return token.Token{Type: token.STRING, Literal: l.readString(), Pos: pos}
	case '"':
		// Quoted identifier keeps its exact spelling.
		return token.Token{Type: token.IDENT, Literal: l.readQuotedIdentifier(), Pos: pos}
	}

	switch {
	case isLetter(l.ch):
		literal := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(strings.ToLower(literal)), Literal: literal, Pos: pos}
	case isDigit(l.ch):
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
	default:
		return l.single(token.ILLEGAL, pos)
	}
}

// single consumes one character and returns it as a token.
func (l *Lexer) single(t token.TokenType, pos token.Position) token.Token {
	tok := token.Token{Type: t, Literal: string(l.ch), Pos: pos}
	l.readChar()
	return tok
}

// double consumes a two-character operator.
func (l *Lexer) double(t token.TokenType, literal string, pos token.Position) token.Token {
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Literal: literal, Pos: pos}
}

// skipWhitespaceAndComments skips whitespace, line comments and block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar() // skip '/'
			l.readChar() // skip '*'
			for l.ch != 0 {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			continue
		}

		break
	}
}

// readString reads a single-quoted string literal and returns it with its quotes.
// Doubled single quotes are an escape and do not end the literal.
func (l *Lexer) readString() string {
	start := l.pos
	l.readChar() // skip opening quote

	for l.ch != 0 {
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			break
		}
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readQuotedIdentifier reads a double-quoted identifier.
// Handles doubled double quotes as escape: "col""name" -> col"name
func (l *Lexer) readQuotedIdentifier() string {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == '"' {
			if l.peekChar() == '"' {
				result.WriteByte('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			break
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return result.String()
}

// readIdentifier reads an unquoted identifier. PL/SQL allows $ and # after the first letter.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' || l.ch == '#' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	// A second dot means a range operator (1..10), not a decimal part.
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// isLetter returns true if ch is a letter.
func isLetter(ch byte) bool {
	return ch >= 0x80 || unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, ending with EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
