// Package parser provides a best-effort parser for the PL/SQL constructs the
// review rules inspect.
//
// # Usage
//
//	script := parser.Parse(src)
//	parser.Walk(script, visitor)
//
// The parser never fails: constructs it does not understand are skipped up to
// the next statement terminator and recorded in Script.Errors.
//
// # Grammar Overview
//
// Only the shapes the rules depend on are modelled:
//
//	script        → { package | routine | cursor | declaration | block }
//	package       → [CREATE [OR REPLACE]] PACKAGE [BODY] name (IS|AS) declare [block] END
//	routine       → (PROCEDURE|FUNCTION) name [( params )] [RETURN type] (IS|AS) declare block
//	declare       → { variable | cursor | routine | type | pragma }
//	block         → BEGIN { statement } END [name] ;
//	select        → SELECT [DISTINCT] select_list [INTO ...] FROM from_list [...]
//
// Everything inside a block other than SELECT, INSERT, UPDATE and DELETE is
// scanned for nesting only.
package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/plsqlreview/pkg/token"
)

// Parser turns PL/SQL source into a tree of Nodes.
type Parser struct {
	src    string
	tokens []token.Token
	pos    int         // index of the current token
	tok    token.Token // current token
	errors []*ParseError
}

// NewParser creates a parser over the given source.
func NewParser(src string) *Parser {
	p := &Parser{
		src:    src,
		tokens: Tokenize(src),
	}
	p.tok = p.tokens[0]
	return p
}

// Parse parses the source and returns the script tree.
func Parse(src string) *Script {
	return NewParser(src).ParseScript()
}

// ParseScript parses every unit of the input.
func (p *Parser) ParseScript() *Script {
	script := &Script{}
	for !p.check(token.EOF) {
		script.Units = append(script.Units, p.parseUnit()...)
	}
	script.Errors = p.errors
	return script
}

// ---------- Token Helpers ----------

// nextToken advances to the next token. EOF is sticky.
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.tok = p.tokens[p.pos]
}

// peekAt returns the token n positions away from the current one.
func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i < 0 {
		return token.Token{Type: token.ILLEGAL}
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) peek() token.Token { return p.peekAt(1) }
func (p *Parser) prev() token.Token { return p.peekAt(-1) }

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.tok.Type == t
}

// checkWord returns true if the current token is a word spelled lit, ignoring case.
func (p *Parser) checkWord(lit string) bool {
	return isWordLit(p.tok, lit)
}

func isWordLit(tok token.Token, lit string) bool {
	return token.IsWord(tok.Type) && strings.EqualFold(tok.Literal, lit)
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.tok.Type, t))
	return false
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.tok.Pos,
		Message: msg,
	})
}

// text returns the source of tokens[from:to] with the whitespace between them removed.
func (p *Parser) text(from, to int) string {
	var b strings.Builder
	for i := from; i < to && i < len(p.tokens); i++ {
		t := p.tokens[i]
		if t.Type == token.EOF {
			break
		}
		b.WriteString(p.src[t.Pos.Offset:t.End])
	}
	return b.String()
}

// source returns the verbatim source spanning tokens[from:to].
func (p *Parser) source(from, to int) string {
	if to <= from {
		return ""
	}
	return p.src[p.tokens[from].Pos.Offset:p.tokens[to-1].End]
}

// dottedName consumes word(.word)* and returns it as written without whitespace.
func (p *Parser) dottedName() string {
	start := p.pos
	if !token.IsWord(p.tok.Type) {
		return ""
	}
	p.nextToken()
	for p.check(token.DOT) && token.IsWord(p.peek().Type) {
		p.nextToken()
		p.nextToken()
	}
	return p.text(start, p.pos)
}

// scanUntil advances until stop matches a token at parenthesis depth zero,
// an unbalanced ')' is reached, or input ends. The stopping token is not consumed.
func (p *Parser) scanUntil(stop func(token.Token) bool) {
	depth := 0
	for !p.check(token.EOF) {
		switch p.tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth == 0 {
				return
			}
			depth--
		default:
			if depth == 0 && stop(p.tok) {
				return
			}
		}
		p.nextToken()
	}
}

// skipStatement advances past the next ';' at parenthesis depth zero.
func (p *Parser) skipStatement() {
	depth := 0
	for !p.check(token.EOF) {
		switch p.tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth > 0 {
				depth--
			}
		case token.SEMI:
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}

// skipParens consumes a balanced parenthesized group starting at '('.
func (p *Parser) skipParens() {
	if !p.check(token.LPAREN) {
		return
	}
	depth := 0
	for !p.check(token.EOF) {
		switch p.tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}

func isType(types ...token.TokenType) func(token.Token) bool {
	return func(t token.Token) bool {
		for _, tt := range types {
			if t.Type == tt {
				return true
			}
		}
		return false
	}
}

func one(n Node) []Node {
	if n == nil {
		return nil
	}
	return []Node{n}
}

// ---------- Top Level ----------

// parseUnit parses one top-level construct. It always consumes at least one token.
func (p *Parser) parseUnit() []Node {
	switch p.tok.Type {
	case token.SEMI, token.SLASH:
		p.nextToken()
		return nil
	case token.CREATE:
		return one(p.parseCreate())
	case token.PACKAGE:
		return one(p.parsePackage(p.tok.Pos))
	case token.BEGIN:
		return p.parseBlock()
	case token.SELECT:
		return one(p.parseSelect())
	case token.INSERT, token.UPDATE, token.DELETE:
		return one(p.parseDML())
	}

	if p.checkWord("DECLARE") {
		p.nextToken()
		nodes := p.parseDeclareSection()
		if p.check(token.BEGIN) {
			nodes = append(nodes, p.parseBlock()...)
		}
		return nodes
	}
	return one(p.parseDeclareItem())
}

// parseCreate parses CREATE [OR REPLACE] [EDITIONABLE] (PACKAGE|PROCEDURE|FUNCTION).
// Other CREATE statements are skipped.
func (p *Parser) parseCreate() Node {
	start := p.tok.Pos
	p.nextToken() // CREATE
	if p.match(token.OR) {
		p.expect(token.REPLACE)
	}
	if p.checkWord("EDITIONABLE") || p.checkWord("NONEDITIONABLE") {
		p.nextToken()
	}

	switch p.tok.Type {
	case token.PACKAGE:
		return p.parsePackage(start)
	case token.PROCEDURE, token.FUNCTION:
		return p.parseRoutine()
	}
	p.addError(fmt.Sprintf(ErrSkippedUnit, "CREATE "+p.tok.Literal))
	p.skipStatement()
	return nil
}

// parsePackage parses a package specification or body starting at PACKAGE.
func (p *Parser) parsePackage(start token.Position) Node {
	p.nextToken() // PACKAGE
	pkg := &Package{StartPos: start}
	pkg.IsBody = p.match(token.BODY)
	pkg.NamePos = p.tok.Pos
	pkg.Name = p.dottedName()

	// AUTHID and similar clauses
	p.scanUntil(isType(token.IS, token.AS, token.SEMI))
	if !p.match(token.IS) && !p.match(token.AS) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.tok.Type, "IS"))
		p.skipStatement()
		return pkg
	}

	pkg.Items = p.parseDeclareSection()
	switch {
	case p.check(token.BEGIN):
		pkg.Items = append(pkg.Items, p.parseBlock()...)
	case p.match(token.END):
		p.dottedName()
		p.match(token.SEMI)
	default:
		p.addError(fmt.Sprintf(ErrUnterminated, "package "+pkg.Name))
	}
	return pkg
}
