package lint

// RuleDef describes one review rule. The checks themselves run inside the
// review dispatcher because most of them depend on traversal state; RuleDef
// carries the identity, defaults and documentation used by configuration and
// tooling.
type RuleDef struct {
	ID          string   // Unique identifier, e.g., "PA01"
	Name        string   // Human-readable name, e.g., "parameters.order"
	Group       string   // Category, e.g., "parameters", "layout", "select"
	Description string   // Human-readable description
	Severity    Severity // Default severity
	ConfigKeys  []string // Rule-specific option keys

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty"`
	DocURL          string   `json:"doc_url"`

	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty"`
}

// Info returns the tooling view of the rule.
func (r RuleDef) Info() RuleInfo {
	return RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		ConfigKeys:      r.ConfigKeys,
		DocURL:          BuildDocURL(r.ID),
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
		Fix:             r.Fix,
	}
}
