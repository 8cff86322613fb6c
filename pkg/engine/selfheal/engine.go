package selfheal

import (
	"context"
	"regexp"
	"strings"

	"ai-contentgen-be/internal/pkg/logger"
	"ai-contentgen-be/pkg/engine/quality"
	"ai-contentgen-be/pkg/engine/resolver"
	"ai-contentgen-be/pkg/store"
)

const (
	// MaxRepairAttempts bounds the regenerate loop before the
	// deterministic fallback kicks in
	MaxRepairAttempts = 3

	// AcceptScoreThreshold accepts a still-imperfect result after repair
	// exhaustion. Tunable constant, not derived from a hard requirement.
	AcceptScoreThreshold = 0.7
)

// Engine drives the bounded repair loop: verify, repair, re-verify, up to
// MaxRepairAttempts, then a deterministic transformation pass. Attempts
// are strictly sequential.
type Engine struct {
	resolver *resolver.Engine
	gate     *quality.Gate
	logger   logger.ILogger
}

func NewEngine(resolverEngine *resolver.Engine, gate *quality.Gate, log logger.ILogger) *Engine {
	return &Engine{
		resolver: resolverEngine,
		gate:     gate,
		logger:   log,
	}
}

// Outcome is the final repair verdict for one pipeline run
type Outcome struct {
	Output   store.StructuredOutput
	Quality  *store.QualityCheckResult
	Attempts []store.RepairAttempt
	Accepted bool
}

// Heal runs the repair state machine for an output that failed the gate.
// It is an explicit loop with a counter so the termination bound stays
// visible.
func (e *Engine) Heal(ctx context.Context, pctx *store.PipelineContext, output store.StructuredOutput, result *store.QualityCheckResult) *Outcome {
	attempts := []store.RepairAttempt{}
	current := output
	currentResult := result

	for attemptNo := 1; attemptNo <= MaxRepairAttempts; attemptNo++ {
		if ctx.Err() != nil {
			break
		}

		strategy := SelectStrategy(currentResult.FailedChecks)
		attempt := store.RepairAttempt{
			AttemptNumber:  attemptNo,
			FailedChecks:   append([]string{}, currentResult.FailedChecks...),
			RepairStrategy: strategy,
		}

		e.logger.Info("SELFHEAL", "repair attempt", map[string]interface{}{
			"attempt":       attemptNo,
			"strategy":      strategy,
			"failed_checks": currentResult.FailedChecks,
		})

		prompt := buildCorrectivePrompt(pctx, current, currentResult, strategy)
		res := e.resolver.ResolveWithPrompt(ctx, pctx, prompt)
		if !res.Success || res.Data == nil {
			// record the failed attempt and keep going
			attempts = append(attempts, attempt)
			continue
		}

		verdict := e.gate.Verify(res.Data, pctx.Constraints, pctx)
		attempt.Success = verdict.Passed
		attempt.Result = res.Data
		attempts = append(attempts, attempt)

		current = res.Data
		currentResult = verdict

		if verdict.Passed {
			return &Outcome{
				Output:   current,
				Quality:  currentResult,
				Attempts: attempts,
				Accepted: true,
			}
		}
	}

	// Repair exhausted: apply the deterministic fallback transformation
	transformed := e.ApplyDeterministicTransform(current, pctx.Constraints)
	finalResult := e.gate.Verify(transformed, pctx.Constraints, pctx)

	accepted := finalResult.Passed || finalResult.Score >= AcceptScoreThreshold
	if !accepted {
		e.logger.Warn("SELFHEAL", "repair exhausted below acceptance threshold", map[string]interface{}{
			"score":         finalResult.Score,
			"failed_checks": finalResult.FailedChecks,
		})
	}

	return &Outcome{
		Output:   transformed,
		Quality:  finalResult,
		Attempts: attempts,
		Accepted: accepted,
	}
}

// ApplyDeterministicTransform strips prohibited terms via whole-word
// replacement and truncates over-long item lists. It never pads an
// under-count.
func (e *Engine) ApplyDeterministicTransform(output store.StructuredOutput, c store.Constraints) store.StructuredOutput {
	strip := func(text string) string {
		for _, term := range c.MustNotUse {
			re, err := wholeWordPattern(term)
			if err != nil {
				continue
			}
			text = re.ReplaceAllString(text, "")
		}
		return normalizeSpaces(text)
	}

	switch v := output.(type) {
	case *store.TitlesOutput:
		return &store.TitlesOutput{ItemList: transformItems(v.ItemList, c.N, strip)}
	case *store.ListOutput:
		return &store.ListOutput{ItemList: transformItems(v.ItemList, c.N, strip)}
	case *store.OutlineOutput:
		sections := transformSections(v.Sections, strip)
		if c.N > 0 && len(sections) > c.N {
			sections = sections[:c.N]
		}
		return &store.OutlineOutput{Sections: sections}
	case *store.SummaryOutput:
		return &store.SummaryOutput{Content: strip(v.Content)}
	case *store.ContentOutput:
		return &store.ContentOutput{Content: strip(v.Content)}
	case *store.AnalysisOutput:
		return &store.AnalysisOutput{Content: strip(v.Content), Metadata: v.Metadata}
	default:
		return output
	}
}

func transformItems(items []string, n int, strip func(string) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, strip(item))
	}
	// truncate, never pad: an under-count is not repairable here
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func transformSections(sections []store.OutlineSection, strip func(string) string) []store.OutlineSection {
	out := make([]store.OutlineSection, 0, len(sections))
	for _, s := range sections {
		out = append(out, store.OutlineSection{
			Title:       strip(s.Title),
			Level:       s.Level,
			Subsections: transformSections(s.Subsections, strip),
		})
	}
	return out
}

var spacesRe = regexp.MustCompile(`\s+`)

func normalizeSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

func wholeWordPattern(term string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(term)) + `\b`)
}
