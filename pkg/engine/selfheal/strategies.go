package selfheal

import (
	"fmt"
	"strings"

	"ai-contentgen-be/pkg/store"
)

// Repair strategy identifiers
const (
	StrategyExactCount        = "regenerate_exact_count"
	StrategyWithoutProhibited = "regenerate_without_prohibited"
	StrategyOnDomain          = "regenerate_on_domain"
	StrategyWithRequired      = "regenerate_with_required"
	StrategyGeneric           = "regenerate_generic"
)

// strategyOrder maps failed checks to strategies in fixed priority order:
// count beats prohibited terms beats drift beats required terms.
var strategyOrder = []struct {
	Check    string
	Strategy string
}{
	{store.CheckCount, StrategyExactCount},
	{store.CheckProhibitedTerms, StrategyWithoutProhibited},
	{store.CheckDomainDrift, StrategyOnDomain},
	{store.CheckRequiredTerms, StrategyWithRequired},
}

// SelectStrategy picks the repair strategy from the highest-priority
// failing check
func SelectStrategy(failedChecks []string) string {
	for _, entry := range strategyOrder {
		for _, failed := range failedChecks {
			if failed == entry.Check {
				return entry.Strategy
			}
		}
	}
	return StrategyGeneric
}

// buildCorrectivePrompt rewrites the original request into a corrective
// prompt: it restates the request, lists the failed-check messages, names
// the strategy and injects strategy-specific imperatives.
func buildCorrectivePrompt(pctx *store.PipelineContext, previous store.StructuredOutput, result *store.QualityCheckResult, strategy string) string {
	var b strings.Builder
	c := pctx.Constraints

	b.WriteString("<original_request>\n")
	b.WriteString(pctx.NormalizedInput.CleanedText)
	b.WriteString("\n</original_request>\n\n")

	b.WriteString("<previous_attempt_problems>\n")
	for _, check := range result.Checks {
		if !check.Passed {
			b.WriteString(fmt.Sprintf("- [%s] %s\n", check.Name, check.Message))
		}
	}
	b.WriteString("</previous_attempt_problems>\n\n")

	b.WriteString(fmt.Sprintf("<repair_strategy>%s</repair_strategy>\n\n", strategy))

	b.WriteString("<instructions>\n")
	switch strategy {
	case StrategyExactCount:
		got := -1
		if items, ok := previous.Items(); ok {
			got = len(items)
		}
		if got >= 0 {
			b.WriteString(fmt.Sprintf("Produce exactly %d items. The previous reply had %d.\n", c.N, got))
		} else {
			b.WriteString(fmt.Sprintf("Produce exactly %d items as a list.\n", c.N))
		}
	case StrategyWithoutProhibited:
		b.WriteString(fmt.Sprintf("Regenerate the full answer without ever writing these terms or their variants: %s.\n", strings.Join(c.MustNotUse, ", ")))
	case StrategyOnDomain:
		b.WriteString(fmt.Sprintf("Regenerate the answer staying strictly within the %s domain. Remove anything belonging to other fields.\n", c.Domain))
	case StrategyWithRequired:
		b.WriteString(fmt.Sprintf("Regenerate the answer making sure every one of these terms appears: %s.\n", strings.Join(c.MustKeep, ", ")))
	default:
		b.WriteString("Regenerate the answer fixing every problem listed above.\n")
	}
	b.WriteString("Respond again with a single JSON object in the same format as before.\n")
	b.WriteString("</instructions>")

	return b.String()
}
