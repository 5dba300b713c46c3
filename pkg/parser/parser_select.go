package parser

import (
	"strings"

	"github.com/leapstack-labs/plsqlreview/pkg/token"
)

// Queries and DML.
//
//	select       → SELECT [DISTINCT|UNIQUE|ALL] select_list [[BULK COLLECT] INTO targets]
//	               [FROM from_item {, from_item}] {rest}
//	select_list  → * | element {, element}
//	element      → expr [[AS] alias] | name.*
//	from_item    → factor {join factor [ON cond | USING (cols)]}
//	factor       → name[@link] [alias] | ( select ) [alias]
//
// Anything after the FROM list is scanned for nested and compound queries only.

// clauseWords are unreserved words that end a FROM item and cannot be aliases.
var clauseWords = map[string]bool{
	"GROUP":     true,
	"ORDER":     true,
	"CONNECT":   true,
	"START":     true,
	"HAVING":    true,
	"UNION":     true,
	"MINUS":     true,
	"INTERSECT": true,
	"EXCEPT":    true,
	"FOR":       true,
	"FETCH":     true,
	"OFFSET":    true,
	"WITH":      true,
	"PIVOT":     true,
	"UNPIVOT":   true,
	"SAMPLE":    true,
	"PARTITION": true,
	"MODEL":     true,
	"RETURNING": true,
	"LOG":       true,
}

func upper(s string) string {
	return strings.ToUpper(s)
}

func isClauseWord(t token.Token) bool {
	return t.Type == token.IDENT && clauseWords[upper(t.Literal)]
}

// parseSelect parses a query starting at SELECT. It stops before the ';' or
// unbalanced ')' that ends the query.
func (p *Parser) parseSelect() *Select {
	sel := &Select{StartPos: p.tok.Pos}
	p.nextToken() // SELECT

	if p.check(token.DISTINCT) || p.check(token.UNIQUE) || p.checkWord("ALL") {
		p.nextToken()
	}
	sel.List = p.parseSelectList()

	if p.check(token.INTO) || p.atBulkCollect() {
		p.scanUntil(isType(token.FROM, token.SEMI))
	}
	if p.match(token.FROM) {
		p.parseFromList(sel)
	}
	sel.Trailing = append(sel.Trailing, p.collectQueries(isType(token.SEMI))...)
	return sel
}

// atBulkCollect reports whether the current tokens are BULK COLLECT.
func (p *Parser) atBulkCollect() bool {
	return p.checkWord("BULK") && isWordLit(p.peek(), "COLLECT")
}

// atSelectListEnd reports whether the current token ends a select list.
func (p *Parser) atSelectListEnd() bool {
	switch p.tok.Type {
	case token.FROM, token.INTO, token.SEMI, token.RPAREN, token.EOF:
		return true
	}
	return p.atBulkCollect()
}

func (p *Parser) parseSelectList() *SelectList {
	list := &SelectList{StartPos: p.tok.Pos}
	for !p.atSelectListEnd() {
		if p.check(token.STAR) {
			p.nextToken()
			list.Star = true
		} else if elem := p.parseSelectElement(); elem != nil {
			list.Elements = append(list.Elements, elem)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	return list
}

// parseSelectElement parses one projection expression with its optional alias.
func (p *Parser) parseSelectElement() *SelectElement {
	start := p.pos
	elem := &SelectElement{ExprPos: p.tok.Pos}
	depth := 0
	var top []int // indexes of tokens at depth zero

	for !p.check(token.EOF) {
		if depth == 0 && (p.check(token.COMMA) || p.atSelectListEnd()) {
			break
		}
		switch p.tok.Type {
		case token.LPAREN:
			if p.peek().Type == token.SELECT {
				p.nextToken()
				elem.Subqueries = append(elem.Subqueries, p.parseSelect())
				if depth == 0 && p.check(token.RPAREN) {
					top = append(top, p.pos)
				}
				p.match(token.RPAREN)
				continue
			}
			depth++
		case token.RPAREN:
			depth--
		case token.IDENT, token.REPLACE:
			if p.peek().Type == token.LPAREN && p.prev().Type != token.DOT {
				elem.Calls = append(elem.Calls, FuncCall{Name: p.tok.Literal, Pos: p.tok.Pos})
			}
		}
		if depth == 0 {
			top = append(top, p.pos)
		}
		p.nextToken()
	}

	end := p.pos
	if n := len(top); n >= 2 {
		last, before := p.tokens[top[n-1]], p.tokens[top[n-2]]
		switch {
		case before.Type == token.AS && token.IsWord(last.Type):
			elem.Alias, elem.AliasPos = last.Literal, last.Pos
			end = top[n-2]
		case last.Type == token.IDENT && top[n-2] == top[n-1]-1 && isOperandEnd(before):
			elem.Alias, elem.AliasPos = last.Literal, last.Pos
			end = top[n-1]
		case last.Type == token.STAR && before.Type == token.DOT:
			elem.Wildcard = true
		}
	}
	if end <= start {
		return nil
	}
	elem.Expr = p.source(start, end)
	return elem
}

// isOperandEnd reports whether t can end an operand, so that an identifier
// directly after it is an alias rather than part of the expression.
func isOperandEnd(t token.Token) bool {
	switch t.Type {
	case token.IDENT, token.NUMBER, token.STRING, token.RPAREN, token.NULL, token.END:
		return true
	}
	return false
}

func (p *Parser) atJoin() bool {
	switch p.tok.Type {
	case token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL, token.CROSS, token.NATURAL:
		return true
	}
	return false
}

// atFromItemEnd reports whether the current token ends a join condition.
func (p *Parser) atFromItemEnd(t token.Token) bool {
	switch t.Type {
	case token.COMMA, token.WHERE, token.SEMI, token.INTO:
		return true
	case token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL, token.CROSS, token.NATURAL:
		return true
	}
	return isClauseWord(t)
}

// parseFromList parses comma separated FROM items and their joins. Every table
// of an item carries the line of the item's first token.
func (p *Parser) parseFromList(sel *Select) {
	for !p.check(token.EOF) {
		line := p.tok.Pos.Line
		p.parseTableFactor(sel, line)

		for p.atJoin() {
			for !p.check(token.JOIN) && !p.check(token.EOF) {
				p.nextToken() // NATURAL, INNER, LEFT, RIGHT, FULL, CROSS, OUTER
			}
			p.match(token.JOIN)
			p.parseTableFactor(sel, line)

			switch {
			case p.match(token.ON):
				sel.Trailing = append(sel.Trailing, p.collectQueries(p.atFromItemEnd)...)
			case p.match(token.USING):
				p.skipParens()
			}
		}

		if !p.match(token.COMMA) {
			return
		}
	}
}

// parseTableFactor parses a table name or inline view and its alias.
func (p *Parser) parseTableFactor(sel *Select, line int) {
	ref := &TableReference{NamePos: p.tok.Pos, ClauseLine: line}

	switch {
	case p.check(token.LPAREN) && p.peek().Type == token.SELECT:
		p.nextToken()
		ref.Subquery = p.parseSelect()
		p.match(token.RPAREN)
	case p.check(token.LPAREN):
		p.skipParens()
		return
	case p.checkWord("TABLE") && p.peek().Type == token.LPAREN:
		p.nextToken()
		p.skipParens()
		return
	case p.check(token.IDENT) && !isClauseWord(p.tok):
		ref.Name = p.dottedName()
		if p.match(token.AT) {
			ref.Name += "@" + p.dottedName()
		}
	default:
		return
	}

	p.match(token.AS)
	if p.check(token.IDENT) && !isClauseWord(p.tok) {
		ref.Alias = p.tok.Literal
		p.nextToken()
	}
	sel.Tables = append(sel.Tables, ref)
}

// collectQueries advances until stop matches at depth zero, an unbalanced ')'
// or END is reached, or input ends, and returns every query found on the way.
func (p *Parser) collectQueries(stop func(token.Token) bool) []*Select {
	var queries []*Select
	depth, caseDepth := 0, 0

	for !p.check(token.EOF) {
		switch p.tok.Type {
		case token.SELECT:
			queries = append(queries, p.parseSelect())
			continue
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth == 0 {
				return queries
			}
			depth--
		case token.CASE:
			caseDepth++
		case token.END:
			if caseDepth == 0 {
				if depth == 0 {
					return queries
				}
			} else {
				caseDepth--
			}
		default:
			if depth == 0 && stop(p.tok) {
				return queries
			}
		}
		p.nextToken()
	}
	return queries
}

// parseDML parses an INSERT, UPDATE or DELETE statement. Keywords that do not
// start a statement, such as collection.DELETE, are skipped and nil is returned.
func (p *Parser) parseDML() Node {
	next := p.peek()
	var kind Kind
	switch p.tok.Type {
	case token.INSERT:
		kind = KindInsert
		if next.Type != token.INTO {
			p.nextToken()
			return nil
		}
	case token.UPDATE:
		kind = KindUpdate
		if next.Type != token.IDENT {
			p.nextToken()
			return nil
		}
	default:
		kind = KindDelete
		if next.Type != token.FROM && next.Type != token.IDENT {
			p.nextToken()
			return nil
		}
	}
	if p.prev().Type == token.DOT {
		p.nextToken()
		return nil
	}

	stmt := &DMLStatement{Statement: kind, StartPos: p.tok.Pos}
	p.nextToken()
	if kind == KindInsert {
		p.match(token.INTO)
	} else if kind == KindDelete {
		p.match(token.FROM)
	}
	stmt.Target = p.dottedName()
	stmt.Queries = p.collectQueries(isType(token.SEMI))
	return stmt
}
