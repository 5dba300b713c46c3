package review

import (
	"github.com/leapstack-labs/plsqlreview/pkg/lint"
)

// Rule IDs.
const (
	RuleRoutineCase      = "NM01"
	RuleParameterOrder   = "PA01"
	RuleParameterDir     = "PA02"
	RuleParameterSuffix  = "PA03"
	RuleAlignment        = "LY01"
	RuleDeclarationOrder = "LY02"
	RuleSelectWildcard   = "SQ01"
	RuleColumnPerLine    = "SQ02"
	RuleBuiltinCase      = "SQ03"
	RuleAliasCase        = "SQ04"
	RuleCursorCase       = "CR01"
	RuleTableCase        = "TB01"
	RuleDMLPresence      = "DM01"
)

// Option keys.
const (
	OptExemptRoutines   = "exempt_routines"
	OptExemptParameter  = "exempt_parameter"
	OptSuffix           = "suffix"
	OptRowtypeSuffix    = "rowtype_suffix"
	OptBuiltinFunctions = "builtin_functions"
)

// Option defaults.
var (
	DefaultExemptRoutines = []string{"Update___", "Check_Common___", "Check_Update___"}
)

const (
	DefaultExemptParameter = "objid_"
	DefaultSuffix          = "_"
	DefaultRowtypeSuffix   = "%ROWTYPE"
)

// DefaultBuiltinFunctions are the Oracle built-in function names whose calls
// must be written in uppercase. The builtin_functions option extends the list.
var DefaultBuiltinFunctions = []string{
	"ABS", "ADD_MONTHS", "ASCII", "AVG", "CAST", "CEIL", "CHR", "COALESCE",
	"CONCAT", "COUNT", "DECODE", "DENSE_RANK", "EXTRACT", "FLOOR", "GREATEST",
	"INITCAP", "INSTR", "LAG", "LAST_DAY", "LEAD", "LEAST", "LENGTH", "LISTAGG",
	"LOWER", "LPAD", "LTRIM", "MAX", "MIN", "MOD", "MONTHS_BETWEEN", "NEXT_DAY",
	"NULLIF", "NVL", "NVL2", "POWER", "RANK", "REGEXP_INSTR", "REGEXP_LIKE",
	"REGEXP_REPLACE", "REGEXP_SUBSTR", "REPLACE", "ROUND", "ROW_NUMBER", "RPAD",
	"RTRIM", "SIGN", "SQRT", "STDDEV", "SUBSTR", "SUM", "SYS_GUID", "TO_CHAR",
	"TO_DATE", "TO_NUMBER", "TO_TIMESTAMP", "TRANSLATE", "TRIM", "TRUNC",
	"UPPER", "VARIANCE",
}

// Rule groups.
const (
	groupNaming     = "naming"
	groupParameters = "parameters"
	groupLayout     = "layout"
	groupSelect     = "select"
	groupCursor     = "cursor"
	groupTables     = "tables"
	groupStatements = "statements"
)

// Rules lists every rule of the review engine.
var Rules = []lint.RuleDef{
	{
		ID:          RuleRoutineCase,
		Name:        "naming.routine_case",
		Group:       groupNaming,
		Description: "Routine names use capitalized words joined by underscores",
		Severity:    lint.SeverityWarning,
		Rationale:   "A single naming scheme for procedures and functions keeps package APIs predictable.",
		BadExample:  "PROCEDURE get_value IS",
		GoodExample: "PROCEDURE Get_Value IS",
	},
	{
		ID:          RuleParameterOrder,
		Name:        "parameters.order",
		Group:       groupParameters,
		Description: "Parameters are ordered OUT, IN OUT, IN, then IN with default",
		Severity:    lint.SeverityWarning,
		ConfigKeys:  []string{OptExemptRoutines, OptExemptParameter},
		Rationale:   "Callers rely on positional calls; a stable grouping keeps defaulted parameters last.",
		BadExample:  "PROCEDURE Get___ (id_ IN NUMBER, result_ OUT VARCHAR2)",
		GoodExample: "PROCEDURE Get___ (result_ OUT VARCHAR2, id_ IN NUMBER)",
	},
	{
		ID:          RuleParameterDir,
		Name:        "parameters.direction",
		Group:       groupParameters,
		Description: "Every parameter states its direction explicitly",
		Severity:    lint.SeverityWarning,
		BadExample:  "PROCEDURE Get___ (id_ NUMBER)",
		GoodExample: "PROCEDURE Get___ (id_ IN NUMBER)",
	},
	{
		ID:          RuleParameterSuffix,
		Name:        "parameters.suffix",
		Group:       groupParameters,
		Description: "Parameter names end with the parameter suffix",
		Severity:    lint.SeverityWarning,
		ConfigKeys:  []string{OptSuffix},
		Rationale:   "The suffix separates parameters from columns of the same name inside SQL.",
		BadExample:  "PROCEDURE Get___ (id IN NUMBER)",
		GoodExample: "PROCEDURE Get___ (id_ IN NUMBER)",
	},
	{
		ID:          RuleAlignment,
		Name:        "layout.vertical_alignment",
		Group:       groupLayout,
		Description: "Parameter and variable names, directions and types start in the same column",
		Severity:    lint.SeverityInfo,
		Fix:         "Indent every entry of the list to the column of the first entry.",
	},
	{
		ID:          RuleDeclarationOrder,
		Name:        "layout.declaration_order",
		Group:       groupLayout,
		Description: "Plain variables are declared before cursors",
		Severity:    lint.SeverityWarning,
		ConfigKeys:  []string{OptRowtypeSuffix},
		Rationale:   "Only row variables of an already declared cursor may follow it.",
		BadExample:  "CURSOR c IS SELECT ...;\n   count_ NUMBER;",
		GoodExample: "count_ NUMBER;\n   CURSOR c IS SELECT ...;\n   rec_ c%ROWTYPE;",
	},
	{
		ID:          RuleSelectWildcard,
		Name:        "select.wildcard",
		Group:       groupSelect,
		Description: "Select lists name their columns instead of using * or t.*",
		Severity:    lint.SeverityWarning,
		BadExample:  "SELECT * FROM customer_tab",
		GoodExample: "SELECT customer_id, name FROM customer_tab",
	},
	{
		ID:          RuleColumnPerLine,
		Name:        "select.one_column_per_line",
		Group:       groupSelect,
		Description: "Each selected expression starts on its own line",
		Severity:    lint.SeverityInfo,
	},
	{
		ID:          RuleBuiltinCase,
		Name:        "select.builtin_function_case",
		Group:       groupSelect,
		Description: "Built-in function calls are written in uppercase",
		Severity:    lint.SeverityInfo,
		ConfigKeys:  []string{OptBuiltinFunctions},
		BadExample:  "SELECT nvl(a, 0) FROM t",
		GoodExample: "SELECT NVL(a, 0) FROM t",
	},
	{
		ID:          RuleAliasCase,
		Name:        "select.column_alias_case",
		Group:       groupSelect,
		Description: "Column aliases are written in lowercase",
		Severity:    lint.SeverityInfo,
		BadExample:  "SELECT a Total FROM t",
		GoodExample: "SELECT a total FROM t",
	},
	{
		ID:          RuleCursorCase,
		Name:        "cursor.name_case",
		Group:       groupCursor,
		Description: "Cursor names are written in lowercase",
		Severity:    lint.SeverityInfo,
		BadExample:  "CURSOR Get_Lines IS",
		GoodExample: "CURSOR get_lines IS",
	},
	{
		ID:          RuleTableCase,
		Name:        "tables.name_case",
		Group:       groupTables,
		Description: "Table names in FROM clauses are written in lowercase",
		Severity:    lint.SeverityInfo,
		BadExample:  "SELECT a FROM Customer_Tab",
		GoodExample: "SELECT a FROM customer_tab",
	},
	{
		ID:          RuleDMLPresence,
		Name:        "statements.dml_presence",
		Group:       groupStatements,
		Description: "INSERT, UPDATE and DELETE statements are flagged for review",
		Severity:    lint.SeverityHint,
		Rationale:   "Direct DML bypasses the entity API methods and their validation.",
	},
}

func init() {
	for _, rule := range Rules {
		lint.Register(rule)
	}
}

// options holds the resolved rule options for one analysis.
type options struct {
	exemptRoutines  map[string]bool
	exemptParameter string
	suffix          string
	rowtypeSuffix   string
	builtins        map[string]bool
}

func resolveOptions(cfg *lint.Config, cs *casing) options {
	order := cfg.GetRuleOptions(RuleParameterOrder)
	opts := options{
		exemptRoutines:  make(map[string]bool),
		exemptParameter: lint.GetStringOption(order, OptExemptParameter, DefaultExemptParameter),
		suffix:          lint.GetStringOption(cfg.GetRuleOptions(RuleParameterSuffix), OptSuffix, DefaultSuffix),
		rowtypeSuffix:   lint.GetStringOption(cfg.GetRuleOptions(RuleDeclarationOrder), OptRowtypeSuffix, DefaultRowtypeSuffix),
		builtins:        make(map[string]bool),
	}
	for _, name := range lint.GetStringSliceOption(order, OptExemptRoutines, DefaultExemptRoutines) {
		opts.exemptRoutines[name] = true
	}
	for _, name := range DefaultBuiltinFunctions {
		opts.builtins[name] = true
	}
	for _, name := range lint.GetStringSliceOption(cfg.GetRuleOptions(RuleBuiltinCase), OptBuiltinFunctions, nil) {
		opts.builtins[cs.upper.String(name)] = true
	}
	return opts
}
