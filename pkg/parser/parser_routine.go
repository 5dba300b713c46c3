package parser

import (
	"fmt"

	"github.com/leapstack-labs/plsqlreview/pkg/token"
)

// Routines, parameters, declare sections and executable blocks.
//
//	routine    → (PROCEDURE|FUNCTION) name [( param {, param} )] [RETURN type {modifier}] (IS|AS|;)
//	param      → name [IN [OUT] | OUT] [NOCOPY] type [(:= | DEFAULT) expr]
//	variable   → name [CONSTANT] type [NOT NULL] [(:= | DEFAULT) expr] ;
//	cursor     → CURSOR name [( params )] [RETURN type] [IS select] ;

// returnModifiers end the RETURN type of a function header.
var returnModifiers = map[string]bool{
	"DETERMINISTIC":   true,
	"PIPELINED":       true,
	"PARALLEL_ENABLE": true,
	"RESULT_CACHE":    true,
	"AUTHID":          true,
	"ACCESSIBLE":      true,
}

// parseRoutine parses a procedure or function starting at its keyword.
// Specifications without a body return nil.
func (p *Parser) parseRoutine() Node {
	body := &RoutineBody{StartPos: p.tok.Pos, Routine: Procedure}
	if p.check(token.FUNCTION) {
		body.Routine = Function
	}
	p.nextToken()

	body.Name = &RoutineName{NamePos: p.tok.Pos, Routine: body.Routine}
	body.Name.Name = p.dottedName()
	if body.Name.Name == "" {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.tok.Type, "routine name"))
		p.skipStatement()
		return nil
	}

	if p.check(token.LPAREN) {
		body.Params = p.parseParameterList()
	}

	if p.match(token.RETURN) {
		start := p.pos
		p.scanUntil(func(t token.Token) bool {
			return t.Type == token.IS || t.Type == token.AS || t.Type == token.SEMI ||
				(token.IsWord(t.Type) && returnModifiers[upper(t.Literal)])
		})
		body.ReturnType = p.text(start, p.pos)
	}
	p.scanUntil(isType(token.IS, token.AS, token.SEMI))

	if p.match(token.SEMI) {
		return nil
	}
	if !p.match(token.IS) && !p.match(token.AS) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.tok.Type, "IS"))
		p.skipStatement()
		return nil
	}
	if p.checkWord("LANGUAGE") || p.checkWord("EXTERNAL") {
		p.skipStatement()
		return nil
	}

	body.Declarations = p.parseDeclareSection()
	switch {
	case p.check(token.BEGIN):
		body.Statements = p.parseBlock()
	case p.match(token.END):
		p.dottedName()
		p.match(token.SEMI)
	default:
		p.addError(fmt.Sprintf(ErrUnterminated, body.Routine.String()+" "+body.Name.Name))
	}
	return body
}

// parseParameterList parses a parenthesized list of formal parameters.
func (p *Parser) parseParameterList() []*Parameter {
	var params []*Parameter
	p.nextToken() // (

	for !p.check(token.EOF) {
		if p.match(token.RPAREN) {
			return params
		}
		if param := p.parseParameter(); param != nil {
			params = append(params, param)
		}
		if !p.match(token.COMMA) && !p.check(token.RPAREN) {
			// Unparseable parameter: resynchronize on the next separator.
			p.scanUntil(isType(token.COMMA))
			p.match(token.COMMA)
		}
	}
	p.addError(fmt.Sprintf(ErrUnterminated, "parameter list"))
	return params
}

func (p *Parser) parseParameter() *Parameter {
	if !token.IsWord(p.tok.Type) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.tok.Type, "parameter name"))
		return nil
	}
	param := &Parameter{Name: p.tok.Literal, NamePos: p.tok.Pos}
	p.nextToken()

	switch {
	case p.check(token.IN):
		param.Direction = DirectionIn
		param.DirectionPos = p.tok.Pos
		p.nextToken()
		if p.match(token.OUT) {
			param.Direction = DirectionInOut
		}
	case p.check(token.OUT):
		param.Direction = DirectionOut
		param.DirectionPos = p.tok.Pos
		p.nextToken()
	}
	p.match(token.NOCOPY)

	start := p.pos
	param.TypePos = p.tok.Pos
	p.scanUntil(isType(token.COMMA, token.ASSIGN, token.DEFAULT))
	param.TypeText = p.text(start, p.pos)

	if p.match(token.ASSIGN) || p.match(token.DEFAULT) {
		param.HasDefault = true
		start = p.pos
		p.scanUntil(isType(token.COMMA))
		param.Default = p.text(start, p.pos)
	}
	return param
}

// parseDeclareSection parses declarations up to BEGIN, END or end of input.
func (p *Parser) parseDeclareSection() []Node {
	var items []Node
	for !p.check(token.EOF) && !p.check(token.BEGIN) && !p.check(token.END) && !p.check(token.CREATE) {
		if n := p.parseDeclareItem(); n != nil {
			items = append(items, n)
		}
	}
	return items
}

// parseDeclareItem parses one declare-section item. It always consumes at least
// one token and returns nil for items that are not represented in the tree.
func (p *Parser) parseDeclareItem() Node {
	switch p.tok.Type {
	case token.CURSOR:
		return p.parseCursor()
	case token.PROCEDURE, token.FUNCTION:
		return p.parseRoutine()
	case token.TYPE:
		p.skipStatement()
		return nil
	case token.AT:
		// annotation such as @Override
		p.nextToken()
		if token.IsWord(p.tok.Type) {
			p.nextToken()
		}
		return nil
	case token.IDENT:
		if p.checkWord("PRAGMA") || p.checkWord("SUBTYPE") || p.peek().Type == token.EXCEPTION {
			p.skipStatement()
			return nil
		}
		return p.parseVariable()
	}

	p.addError(fmt.Sprintf(ErrSkippedUnit, p.tok.Type))
	if p.check(token.SEMI) {
		p.nextToken()
		return nil
	}
	p.skipStatement()
	return nil
}

// parseVariable parses a variable or constant declaration.
func (p *Parser) parseVariable() Node {
	decl := &Declaration{Name: p.tok.Literal, NamePos: p.tok.Pos}
	p.nextToken()
	decl.Constant = p.match(token.CONSTANT)

	start := p.pos
	decl.TypePos = p.tok.Pos
	p.scanUntil(isType(token.SEMI, token.ASSIGN, token.DEFAULT, token.NOT))
	decl.TypeText = p.text(start, p.pos)
	p.skipStatement()

	if decl.TypeText == "" {
		p.errors = append(p.errors, &ParseError{Pos: decl.NamePos, Message: fmt.Sprintf(ErrUnexpectedToken, "name", "type")})
		return nil
	}
	return decl
}

// parseCursor parses a cursor declaration or specification.
func (p *Parser) parseCursor() Node {
	cursor := &CursorDeclaration{StartPos: p.tok.Pos}
	p.nextToken() // CURSOR
	cursor.NamePos = p.tok.Pos
	if token.IsWord(p.tok.Type) {
		cursor.Name = p.tok.Literal
		p.nextToken()
	}
	if p.check(token.LPAREN) {
		cursor.Params = p.parseParameterList()
	}
	if p.match(token.RETURN) {
		p.scanUntil(isType(token.IS, token.SEMI))
	}
	if p.match(token.IS) {
		switch {
		case p.check(token.SELECT):
			cursor.Query = p.parseSelect()
		case p.check(token.LPAREN) && p.peek().Type == token.SELECT:
			p.nextToken()
			cursor.Query = p.parseSelect()
			p.match(token.RPAREN)
		}
	}
	p.skipStatement()
	return cursor
}

// parseBlock parses BEGIN ... END [name] ; and returns the queries and DML
// statements found inside, at any nesting depth.
func (p *Parser) parseBlock() []Node {
	var stmts []Node
	p.nextToken() // BEGIN
	depth := 1

	for !p.check(token.EOF) {
		switch p.tok.Type {
		case token.BEGIN, token.CASE, token.IF, token.LOOP:
			depth++
			p.nextToken()
		case token.END:
			p.nextToken()
			if p.check(token.IF) || p.check(token.LOOP) || p.check(token.CASE) {
				p.nextToken()
				depth--
				continue
			}
			depth--
			if depth == 0 {
				if !p.check(token.SEMI) {
					p.dottedName()
				}
				p.match(token.SEMI)
				return stmts
			}
		case token.SELECT:
			stmts = append(stmts, p.parseSelect())
		case token.INSERT, token.UPDATE, token.DELETE:
			if n := p.parseDML(); n != nil {
				stmts = append(stmts, n)
			}
		default:
			p.nextToken()
		}
	}
	p.addError(fmt.Sprintf(ErrUnterminated, "block"))
	return stmts
}
