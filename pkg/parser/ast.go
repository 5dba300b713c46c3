package parser

import (
	"github.com/leapstack-labs/plsqlreview/pkg/token"
)

// Kind tags every node the parser produces. The set is closed: consumers
// switch on it instead of type-asserting their way through the tree.
type Kind int

// Node kinds.
const (
	KindScript Kind = iota
	KindPackage
	KindRoutineName
	KindRoutineBody
	KindParameter
	KindDeclaration
	KindCursorDeclaration
	KindSelect
	KindSelectList
	KindSelectElement
	KindTableReference
	KindInsert
	KindUpdate
	KindDelete
)

var kindNames = [...]string{
	KindScript:            "script",
	KindPackage:           "package",
	KindRoutineName:       "routine_name",
	KindRoutineBody:       "routine_body",
	KindParameter:         "parameter",
	KindDeclaration:       "declaration",
	KindCursorDeclaration: "cursor_declaration",
	KindSelect:            "select",
	KindSelectList:        "select_list",
	KindSelectElement:     "select_element",
	KindTableReference:    "table_reference",
	KindInsert:            "insert",
	KindUpdate:            "update",
	KindDelete:            "delete",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is implemented by every tree node.
type Node interface {
	Kind() Kind
	Pos() token.Position // start token position
	Text() string        // source text of the node, whitespace removed where noted
	Children() []Node    // direct children in document order
}

// Direction is the declared mode of a routine parameter.
type Direction int

// Parameter directions.
const (
	DirectionNone Direction = iota
	DirectionIn
	DirectionOut
	DirectionInOut
)

// String returns the direction as written in source.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionInOut:
		return "IN OUT"
	default:
		return ""
	}
}

// RoutineType distinguishes procedures from functions.
type RoutineType int

// Routine types.
const (
	Procedure RoutineType = iota
	Function
)

// String returns the routine keyword.
func (r RoutineType) String() string {
	if r == Function {
		return "Function"
	}
	return "Procedure"
}

// Script is the root of a parsed file.
type Script struct {
	Units  []Node
	Errors []*ParseError // recovery points; the tree is still usable
}

func (s *Script) Kind() Kind          { return KindScript }
func (s *Script) Pos() token.Position { return token.Position{Line: 1, Column: 1} }
func (s *Script) Text() string        { return "" }
func (s *Script) Children() []Node    { return s.Units }

// Package is a package specification or body.
type Package struct {
	Name     string
	NamePos  token.Position
	IsBody   bool
	Items    []Node
	StartPos token.Position
}

func (p *Package) Kind() Kind          { return KindPackage }
func (p *Package) Pos() token.Position { return p.StartPos }
func (p *Package) Text() string        { return p.Name }
func (p *Package) Children() []Node    { return p.Items }

// RoutineName is the identifier of a routine body.
type RoutineName struct {
	Name    string
	NamePos token.Position
	Routine RoutineType
}

func (r *RoutineName) Kind() Kind          { return KindRoutineName }
func (r *RoutineName) Pos() token.Position { return r.NamePos }
func (r *RoutineName) Text() string        { return r.Name }
func (r *RoutineName) Children() []Node    { return nil }

// RoutineBody is a procedure or function with an implementation.
// Specifications without a body are not represented in the tree.
type RoutineBody struct {
	Routine      RoutineType
	Name         *RoutineName
	Params       []*Parameter
	ReturnType   string
	Declarations []Node // *Declaration, *CursorDeclaration, nested *RoutineBody
	Statements   []Node // *Select and DML statements found in the executable section
	StartPos     token.Position
}

func (r *RoutineBody) Kind() Kind          { return KindRoutineBody }
func (r *RoutineBody) Pos() token.Position { return r.StartPos }
func (r *RoutineBody) Text() string        { return r.Name.Name }

// Children returns the name, parameters, declarations and statements in order.
func (r *RoutineBody) Children() []Node {
	children := make([]Node, 0, 1+len(r.Params)+len(r.Declarations)+len(r.Statements))
	children = append(children, r.Name)
	for _, p := range r.Params {
		children = append(children, p)
	}
	children = append(children, r.Declarations...)
	children = append(children, r.Statements...)
	return children
}

// Parameter is one formal parameter of a routine.
type Parameter struct {
	Name         string
	NamePos      token.Position
	Direction    Direction
	DirectionPos token.Position // invalid when no direction was written
	TypeText     string         // type as written, whitespace removed
	TypePos      token.Position
	Default      string // default expression, whitespace removed
	HasDefault   bool
}

func (p *Parameter) Kind() Kind          { return KindParameter }
func (p *Parameter) Pos() token.Position { return p.NamePos }
func (p *Parameter) Text() string        { return p.Name }
func (p *Parameter) Children() []Node    { return nil }

// HasDirection reports whether IN, OUT or IN OUT was written explicitly.
func (p *Parameter) HasDirection() bool {
	return p.Direction != DirectionNone
}

// Declaration is a variable or constant declaration in a declare section.
type Declaration struct {
	Name     string
	NamePos  token.Position
	Constant bool
	TypeText string // type as written, whitespace removed
	TypePos  token.Position
}

func (d *Declaration) Kind() Kind          { return KindDeclaration }
func (d *Declaration) Pos() token.Position { return d.NamePos }
func (d *Declaration) Text() string        { return d.Name }
func (d *Declaration) Children() []Node    { return nil }

// CursorDeclaration declares an explicit cursor. Query is nil for cursor specifications.
type CursorDeclaration struct {
	Name     string
	NamePos  token.Position
	Params   []*Parameter // cursor parameters are not routine parameters and are not walked
	Query    *Select
	StartPos token.Position
}

func (c *CursorDeclaration) Kind() Kind          { return KindCursorDeclaration }
func (c *CursorDeclaration) Pos() token.Position { return c.StartPos }
func (c *CursorDeclaration) Text() string        { return c.Name }

// Children returns the cursor query, if any.
func (c *CursorDeclaration) Children() []Node {
	if c.Query == nil {
		return nil
	}
	return []Node{c.Query}
}

// Select is a query: its select list, its FROM references and any further
// nested or compound queries that follow the FROM clause.
type Select struct {
	List     *SelectList
	Tables   []*TableReference
	Trailing []*Select
	StartPos token.Position
}

func (s *Select) Kind() Kind          { return KindSelect }
func (s *Select) Pos() token.Position { return s.StartPos }
func (s *Select) Text() string        { return "SELECT" }

// Children returns the select list, table references and trailing queries in order.
func (s *Select) Children() []Node {
	children := make([]Node, 0, 1+len(s.Tables)+len(s.Trailing))
	if s.List != nil {
		children = append(children, s.List)
	}
	for _, t := range s.Tables {
		children = append(children, t)
	}
	for _, q := range s.Trailing {
		children = append(children, q)
	}
	return children
}

// SelectList is the projection of a query.
type SelectList struct {
	Star     bool // a bare * appears in the list
	Elements []*SelectElement
	StartPos token.Position
}

func (s *SelectList) Kind() Kind          { return KindSelectList }
func (s *SelectList) Pos() token.Position { return s.StartPos }
func (s *SelectList) Text() string {
	if s.Star {
		return "*"
	}
	return ""
}

// Children returns the elements of the list.
func (s *SelectList) Children() []Node {
	children := make([]Node, 0, len(s.Elements))
	for _, e := range s.Elements {
		children = append(children, e)
	}
	return children
}

// FuncCall is a call-like identifier (name immediately followed by a parenthesis).
type FuncCall struct {
	Name string
	Pos  token.Position
}

// SelectElement is one expression of a select list.
type SelectElement struct {
	Expr       string // expression source text as written
	ExprPos    token.Position
	Alias      string
	AliasPos   token.Position
	Wildcard   bool // qualified wildcard such as t.*
	Calls      []FuncCall
	Subqueries []*Select
}

func (e *SelectElement) Kind() Kind          { return KindSelectElement }
func (e *SelectElement) Pos() token.Position { return e.ExprPos }
func (e *SelectElement) Text() string        { return e.Expr }

// Children returns the scalar subqueries of the element.
func (e *SelectElement) Children() []Node {
	children := make([]Node, 0, len(e.Subqueries))
	for _, q := range e.Subqueries {
		children = append(children, q)
	}
	return children
}

// TableReference is one table (or inline view) named in a FROM clause.
// ClauseLine is the line where the enclosing comma-separated FROM item
// starts, so joined tables share the line of the first table of the join.
type TableReference struct {
	Name       string // empty for inline views
	NamePos    token.Position
	Alias      string
	ClauseLine int
	Subquery   *Select
}

func (t *TableReference) Kind() Kind          { return KindTableReference }
func (t *TableReference) Pos() token.Position { return t.NamePos }
func (t *TableReference) Text() string        { return t.Name }

// Children returns the inline view, if any.
func (t *TableReference) Children() []Node {
	if t.Subquery == nil {
		return nil
	}
	return []Node{t.Subquery}
}

// DMLStatement is an INSERT, UPDATE or DELETE statement.
type DMLStatement struct {
	Statement Kind // KindInsert, KindUpdate or KindDelete
	Target    string
	StartPos  token.Position
	Queries   []*Select
}

func (d *DMLStatement) Kind() Kind          { return d.Statement }
func (d *DMLStatement) Pos() token.Position { return d.StartPos }

// Text returns the statement keyword.
func (d *DMLStatement) Text() string {
	switch d.Statement {
	case KindInsert:
		return "INSERT"
	case KindUpdate:
		return "UPDATE"
	default:
		return "DELETE"
	}
}

// Children returns the queries embedded in the statement.
func (d *DMLStatement) Children() []Node {
	children := make([]Node, 0, len(d.Queries))
	for _, q := range d.Queries {
		children = append(children, q)
	}
	return children
}
