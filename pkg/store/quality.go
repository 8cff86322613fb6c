package store

// Check severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Quality check names, in execution order
const (
	CheckCount           = "count"
	CheckProhibitedTerms = "prohibited_terms"
	CheckDomainDrift     = "domain_drift"
	CheckRequiredTerms   = "required_terms"
	CheckLanguage        = "language"
	CheckFormat          = "format"
)

// QualityCheck records a single deterministic verification
type QualityCheck struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Severity string `json:"severity"`
	Message  string `json:"message,omitempty"`
}

// QualityCheckResult is the gate verdict for one output.
// Passed is true only when zero error-severity checks failed;
// Score counts every check regardless of severity.
type QualityCheckResult struct {
	Passed       bool           `json:"passed"`
	Checks       []QualityCheck `json:"checks"`
	FailedChecks []string       `json:"failed_checks"` // errors first
	Score        float64        `json:"score"`
}

// RepairAttempt records one self-heal iteration
type RepairAttempt struct {
	AttemptNumber  int              `json:"attempt_number"`
	FailedChecks   []string         `json:"failed_checks"`
	RepairStrategy string           `json:"repair_strategy"`
	Success        bool             `json:"success"`
	Result         StructuredOutput `json:"-"`
}
