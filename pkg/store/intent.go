package store

// Intent constants - the closed set of intents the classifier can produce
const (
	IntentTitleIdeation     = "TITLE_IDEATION"
	IntentOutline           = "OUTLINE"
	IntentSummarize         = "SUMMARIZE"
	IntentContentGeneration = "CONTENT_GENERATION"
	IntentRewrite           = "REWRITE"
	IntentExpand            = "EXPAND"
	IntentTranslate         = "TRANSLATE"
	IntentExplain           = "EXPLAIN"
	IntentListIdeas         = "LIST_IDEAS"
	IntentDataAnalysis      = "DATA_ANALYSIS"
	IntentComparison        = "COMPARISON"
	IntentGeneralChat       = "GENERAL_CHAT"
)

// IntentClassification is the classifier verdict for one request
type IntentClassification struct {
	Intent       string   `json:"intent"`
	Confidence   float64  `json:"confidence"` // 0.0-1.0
	MatchedRules []string `json:"matched_rules"`
}
