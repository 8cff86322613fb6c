package quality

import (
	"fmt"
	"strings"

	"ai-contentgen-be/pkg/engine/normalizer"
	"ai-contentgen-be/pkg/store"
)

// Gate runs the fixed battery of deterministic checks comparing a
// structured output against the active constraints. Verification failures
// are values, never errors.
type Gate struct{}

func New() *Gate {
	return &Gate{}
}

// Verify runs exactly six checks, in order. Passed is true only when no
// error-severity check failed; Score counts all six regardless of
// severity.
func (g *Gate) Verify(output store.StructuredOutput, c store.Constraints, pctx *store.PipelineContext) *store.QualityCheckResult {
	_ = pctx
	flat := output.Flatten()

	checks := []store.QualityCheck{
		g.checkCount(output, c),
		g.checkProhibitedTerms(flat, c),
		g.checkDomainDrift(flat, c),
		g.checkRequiredTerms(flat, c),
		g.checkLanguage(flat, c),
		g.checkFormat(output, c),
	}

	result := &store.QualityCheckResult{
		Checks:       checks,
		FailedChecks: []string{},
	}

	passedCount := 0
	hardFailure := false
	// errors first in FailedChecks
	for _, check := range checks {
		if check.Passed {
			passedCount++
			continue
		}
		if check.Severity == store.SeverityError {
			hardFailure = true
			result.FailedChecks = append(result.FailedChecks, check.Name)
		}
	}
	for _, check := range checks {
		if !check.Passed && check.Severity != store.SeverityError {
			result.FailedChecks = append(result.FailedChecks, check.Name)
		}
	}

	result.Passed = !hardFailure
	result.Score = float64(passedCount) / float64(len(checks))
	return result
}

// checkCount enforces the exact item count with no tolerance
func (g *Gate) checkCount(output store.StructuredOutput, c store.Constraints) store.QualityCheck {
	check := store.QualityCheck{Name: store.CheckCount, Severity: store.SeverityError, Passed: true}
	if c.N == 0 {
		return check
	}
	items, countable := output.Items()
	if !countable {
		check.Passed = false
		check.Message = fmt.Sprintf("expected exactly %d items but the output carries no item list", c.N)
		return check
	}
	if len(items) != c.N {
		check.Passed = false
		check.Message = fmt.Sprintf("expected exactly %d items, got %d", c.N, len(items))
	}
	return check
}

// checkProhibitedTerms searches the flattened output for each forbidden
// term and its synonym expansions
func (g *Gate) checkProhibitedTerms(flat string, c store.Constraints) store.QualityCheck {
	check := store.QualityCheck{Name: store.CheckProhibitedTerms, Severity: store.SeverityError, Passed: true}
	hits := []string{}
	for _, term := range c.MustNotUse {
		for _, variant := range expandTerm(strings.ToLower(term)) {
			if strings.Contains(flat, variant) {
				hits = append(hits, variant)
			}
		}
	}
	if len(hits) > 0 {
		check.Passed = false
		check.Message = fmt.Sprintf("prohibited terms found in output: %s", strings.Join(hits, ", "))
	}
	return check
}

// checkDomainDrift flags terms typical of domains other than the declared one
func (g *Gate) checkDomainDrift(flat string, c store.Constraints) store.QualityCheck {
	check := store.QualityCheck{Name: store.CheckDomainDrift, Severity: store.SeverityWarning, Passed: true}
	blacklist, ok := crossDomainBlacklist[c.Domain]
	if !ok {
		return check // general has no drift definition
	}
	hits := []string{}
	for _, term := range blacklist {
		if strings.Contains(flat, term) {
			hits = append(hits, term)
		}
	}
	if len(hits) > 0 {
		check.Passed = false
		check.Message = fmt.Sprintf("output drifts from %s domain: %s", c.Domain, strings.Join(hits, ", "))
	}
	return check
}

// checkRequiredTerms verifies each must-keep term (or a synonym) appears
func (g *Gate) checkRequiredTerms(flat string, c store.Constraints) store.QualityCheck {
	check := store.QualityCheck{Name: store.CheckRequiredTerms, Severity: store.SeverityWarning, Passed: true}
	missing := []string{}
	for _, term := range c.MustKeep {
		found := false
		for _, variant := range expandTerm(strings.ToLower(term)) {
			if strings.Contains(flat, variant) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, term)
		}
	}
	if len(missing) > 0 {
		check.Passed = false
		check.Message = fmt.Sprintf("required terms missing from output: %s", strings.Join(missing, ", "))
	}
	return check
}

// checkLanguage applies the same closed-class-word vote as the normalizer
func (g *Gate) checkLanguage(flat string, c store.Constraints) store.QualityCheck {
	check := store.QualityCheck{Name: store.CheckLanguage, Severity: store.SeverityWarning, Passed: true}
	if c.Language == "" {
		return check
	}
	detected := normalizer.DetectLanguage(flat)
	if detected != c.Language {
		check.Passed = false
		check.Message = fmt.Sprintf("expected %s output, detected %s", c.Language, detected)
	}
	return check
}

// checkFormat is a structural shape check for the declared format
func (g *Gate) checkFormat(output store.StructuredOutput, c store.Constraints) store.QualityCheck {
	check := store.QualityCheck{Name: store.CheckFormat, Severity: store.SeverityWarning, Passed: true}
	switch c.Format {
	case store.FormatList:
		items, countable := output.Items()
		if !countable || len(items) == 0 {
			check.Passed = false
			check.Message = "list format requires a non-empty item list"
		}
	case store.FormatStructured:
		if !hasStructure(output) {
			check.Passed = false
			check.Message = "structured format requires sections or metadata"
		}
	}
	return check
}

func hasStructure(output store.StructuredOutput) bool {
	switch v := output.(type) {
	case *store.OutlineOutput:
		return len(v.Sections) > 0
	case *store.AnalysisOutput:
		return len(v.Metadata) > 0
	default:
		return false
	}
}
