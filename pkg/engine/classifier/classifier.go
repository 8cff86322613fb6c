package classifier

import (
	"context"
	"strings"

	"ai-contentgen-be/pkg/store"
)

// confidenceDivisor is an empirically tuned normalization constant.
// Downstream consumers depend on current confidence thresholds, so it
// must not be "improved".
const confidenceDivisor = 15.0

// Classifier scores normalized input against the prioritized rule table
// and picks exactly one intent. It is deterministic, total and offline:
// it never calls the provider.
type Classifier struct {
	rules []Rule
}

func New() *Classifier {
	return &Classifier{rules: ruleTable}
}

// Classify returns the winning intent with confidence and the rules that
// contributed. Rules iterate in descending-priority order; an exact score
// tie keeps the earlier rule (strict > comparison).
func (c *Classifier) Classify(input *store.NormalizedInput) *store.IntentClassification {
	lower := strings.ToLower(input.CleanedText)

	bestScore := 0.0
	bestIntent := ""
	matched := []string{}

	for _, rule := range c.rules {
		score := c.scoreRule(rule, lower)
		if score <= 0 {
			continue
		}
		matched = append(matched, rule.ID)
		if score > bestScore {
			bestScore = score
			bestIntent = rule.Intent
		}
	}

	if bestIntent == "" {
		// No rule fired: questions default to EXPLAIN, everything else
		// to general chat.
		intent := store.IntentGeneralChat
		if input.Metadata.IsQuestion {
			intent = store.IntentExplain
		}
		return &store.IntentClassification{
			Intent:       intent,
			Confidence:   0,
			MatchedRules: matched,
		}
	}

	confidence := bestScore / confidenceDivisor
	if confidence > 1 {
		confidence = 1
	}

	return &store.IntentClassification{
		Intent:       bestIntent,
		Confidence:   confidence,
		MatchedRules: matched,
	}
}

// ClassifyWithAssist is the LLM-assisted fallback hook. It is currently a
// no-op passthrough to the rule table and must stay pure and instantaneous.
func (c *Classifier) ClassifyWithAssist(ctx context.Context, input *store.NormalizedInput) *store.IntentClassification {
	_ = ctx
	return c.Classify(input)
}

func (c *Classifier) scoreRule(rule Rule, lowerText string) float64 {
	subtotal := 0
	for _, kw := range rule.Keywords {
		if strings.Contains(lowerText, kw) {
			subtotal += 2
		}
	}
	for _, re := range rule.Patterns {
		if re.MatchString(lowerText) {
			subtotal += 5
		}
	}
	return float64(subtotal) * float64(rule.Priority) / 10.0
}
