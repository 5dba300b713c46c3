package output

// ReviewIssue is one issue in JSON review output.
type ReviewIssue struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// ReviewSummary counts issues by severity.
type ReviewSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Hints    int `json:"hints"`
}

// ReviewOutput is the JSON document printed by the review command.
type ReviewOutput struct {
	File     string        `json:"file"`
	CommitID string        `json:"commit_id,omitempty"`
	Issues   []ReviewIssue `json:"issues"`
	Summary  ReviewSummary `json:"summary"`
}

// PublishOutput is the JSON document printed by the publish command.
type PublishOutput struct {
	Target  string `json:"target"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}
