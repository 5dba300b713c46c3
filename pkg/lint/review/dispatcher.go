package review

import (
	"github.com/leapstack-labs/plsqlreview/pkg/parser"
)

// Dispatcher routes tree-walk events to the rules. It owns all state of one
// traversal: the active cursor scope, the select-list stack and the table
// references of queries outside any cursor.
type Dispatcher struct {
	ctx    *Context
	opts   options
	casing *casing

	scope       *CursorScope
	lists       []*listState
	selectDepth int
	tables      []TableRef // pending references outside a cursor scope
}

// listState collects the lines of the expressions of one select list.
type listState struct {
	lines []int
}

// NewDispatcher creates a dispatcher reporting into ctx.
func NewDispatcher(ctx *Context) *Dispatcher {
	cs := newCasing()
	return &Dispatcher{
		ctx:    ctx,
		opts:   resolveOptions(ctx.Config, cs),
		casing: cs,
	}
}

// report emits immediately, or buffers into the active cursor scope when the
// rule belongs to the cursor-scoped categories.
func (d *Dispatcher) report(ruleID string, line int, message string) {
	if !d.ctx.enabled(ruleID) {
		return
	}
	if d.scope != nil {
		d.scope.Buffer(ruleID, line, message)
		return
	}
	d.ctx.Report(ruleID, line, message)
}

// Enter implements parser.Visitor.
func (d *Dispatcher) Enter(n parser.Node) {
	switch n.Kind() {
	case parser.KindRoutineBody:
		body := n.(*parser.RoutineBody)
		ValidateParameters(d.ctx, d.opts, body.Name.Name, Describe(body.Params))
		CheckDeclarations(d.ctx, d.opts, body.Declarations)
	case parser.KindRoutineName:
		d.checkRoutineName(n.(*parser.RoutineName))
	case parser.KindCursorDeclaration:
		c := n.(*parser.CursorDeclaration)
		// A new declaration replaces whatever scope is active.
		d.scope = NewCursorScope(c.Name, c.Pos().Line)
	case parser.KindSelect:
		d.selectDepth++
	case parser.KindSelectList:
		d.lists = append(d.lists, &listState{})
	case parser.KindSelectElement:
		d.checkElement(n.(*parser.SelectElement))
	case parser.KindTableReference:
		d.addTable(n.(*parser.TableReference))
	case parser.KindInsert, parser.KindUpdate, parser.KindDelete:
		d.ctx.Report(RuleDMLPresence, n.Pos().Line, n.Text()+" statement found, use the entity API methods instead")
	}
}

// Exit implements parser.Visitor.
func (d *Dispatcher) Exit(n parser.Node) {
	switch n.Kind() {
	case parser.KindSelectList:
		d.exitSelectList(n.(*parser.SelectList))
	case parser.KindSelect:
		d.selectDepth--
		if d.selectDepth == 0 && d.scope == nil {
			d.flushTables()
		}
	case parser.KindCursorDeclaration:
		if d.scope != nil {
			d.scope.Flush(d.ctx, d.casing)
			d.scope = nil
		}
	}
}

func (d *Dispatcher) checkRoutineName(name *parser.RoutineName) {
	if Classify(name.Name) {
		return
	}
	d.ctx.Report(RuleRoutineCase, name.NamePos.Line,
		name.Routine.String()+" name "+name.Name+" does not follow IFS naming guidelines")
}

func (d *Dispatcher) checkElement(e *parser.SelectElement) {
	line := e.ExprPos.Line
	if e.Wildcard {
		d.report(RuleSelectWildcard, line, wildcardMessage)
		return
	}

	for _, call := range e.Calls {
		upper := d.casing.upper.String(call.Name)
		if d.opts.builtins[upper] && call.Name != upper {
			d.report(RuleBuiltinCase, line, call.Name+": Oracle built-in function should be in uppercase")
		}
	}
	if e.Alias != "" && !d.casing.isLower(e.Alias) {
		d.report(RuleAliasCase, line, e.Alias+" : column alias should be in lowercase")
	}

	if top := d.currentList(); top != nil {
		top.lines = append(top.lines, line)
	}
}

const wildcardMessage = "SELECT * is not allowed, specify the required columns."

func (d *Dispatcher) currentList() *listState {
	if len(d.lists) == 0 {
		return nil
	}
	return d.lists[len(d.lists)-1]
}

func (d *Dispatcher) exitSelectList(list *parser.SelectList) {
	state := d.currentList()
	if state != nil {
		d.lists = d.lists[:len(d.lists)-1]
	}

	if list.Star {
		d.report(RuleSelectWildcard, list.Pos().Line, wildcardMessage)
		return
	}
	if state == nil {
		return
	}
	for i := 1; i < len(state.lines); i++ {
		if state.lines[i] == state.lines[i-1] {
			d.report(RuleColumnPerLine, state.lines[i], "SELECT columns should be one per line.")
			return
		}
	}
}

func (d *Dispatcher) addTable(t *parser.TableReference) {
	if t.Name == "" || !d.ctx.enabled(RuleTableCase) {
		return
	}
	ref := TableRef{Name: t.Name, Line: t.ClauseLine}
	if d.scope != nil {
		d.scope.AddTable(ref)
		return
	}
	d.tables = append(d.tables, ref)
}

// flushTables validates table references collected outside any cursor.
func (d *Dispatcher) flushTables() {
	for _, t := range d.tables {
		if !d.casing.isLower(t.Name) {
			d.ctx.Report(RuleTableCase, t.Line, t.Name+" : table name should be in lowercase")
		}
	}
	d.tables = nil
}
