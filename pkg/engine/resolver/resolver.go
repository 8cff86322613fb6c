package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-contentgen-be/internal/pkg/logger"
	"ai-contentgen-be/pkg/llm"
	"ai-contentgen-be/pkg/store"
)

// Resolver is the per-intent strategy: it shapes the provider prompt and
// parses the reply into a typed StructuredOutput.
type Resolver interface {
	// GetPromptTemplate builds the user-level prompt for this intent
	GetPromptTemplate(pctx *store.PipelineContext) string

	// ParseOutput turns a raw provider reply into a typed output. It must
	// be defensive: a non-conforming reply yields a best-effort result.
	ParseOutput(rawText string) (store.StructuredOutput, error)

	// GetOutputSchema returns a schema descriptor for documentation and
	// validation tooling. It is not enforced at runtime.
	GetOutputSchema() string
}

// Engine owns the provider boundary. Provider failures never escape it:
// they surface as ResolverResult{Success: false}.
type Engine struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewEngine(provider llm.LLMProvider, log logger.ILogger) *Engine {
	return &Engine{
		provider: provider,
		logger:   log,
	}
}

// ForIntent picks the strategy for a classified intent
func (e *Engine) ForIntent(intent string) Resolver {
	switch intent {
	case store.IntentTitleIdeation:
		return &ListResolver{outputType: store.OutputTitles}
	case store.IntentListIdeas, store.IntentComparison:
		return &ListResolver{outputType: store.OutputList}
	case store.IntentOutline:
		return &OutlineResolver{}
	case store.IntentSummarize:
		return &ContentResolver{outputType: store.OutputSummary}
	case store.IntentDataAnalysis:
		return &ContentResolver{outputType: store.OutputAnalysis}
	default:
		return &ContentResolver{outputType: store.OutputContent}
	}
}

// Resolve performs exactly one provider call for the context's intent
func (e *Engine) Resolve(ctx context.Context, pctx *store.PipelineContext) *store.ResolverResult {
	r := e.ForIntent(pctx.IntentClassification.Intent)
	return e.ResolveWithPrompt(ctx, pctx, r.GetPromptTemplate(pctx))
}

// ResolveWithPrompt runs one provider call with an explicit user prompt.
// The self-heal engine uses it to inject corrective prompts while keeping
// the same parsing strategy.
func (e *Engine) ResolveWithPrompt(ctx context.Context, pctx *store.PipelineContext, prompt string) *store.ResolverResult {
	r := e.ForIntent(pctx.IntentClassification.Intent)
	system := BuildSystemInstruction(pctx.Constraints)

	start := time.Now()
	completion, err := e.provider.Generate(ctx, prompt,
		llm.WithSystem(system),
		llm.WithTemperature(0.7),
	)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		e.logger.Warn("RESOLVER", "provider call failed", map[string]interface{}{
			"intent":     pctx.IntentClassification.Intent,
			"latency_ms": latency,
			"error":      err.Error(),
		})
		return &store.ResolverResult{
			Success:   false,
			RawOutput: err.Error(),
			LatencyMs: latency,
		}
	}

	data, parseErr := r.ParseOutput(completion.Text)
	if parseErr != nil {
		e.logger.Warn("RESOLVER", "reply parsing failed", map[string]interface{}{
			"intent": pctx.IntentClassification.Intent,
			"error":  parseErr.Error(),
		})
		return &store.ResolverResult{
			Success:   false,
			RawOutput: completion.Text,
			TokensIn:  completion.InputTokens,
			TokensOut: completion.OutputTokens,
			LatencyMs: latency,
		}
	}

	return &store.ResolverResult{
		Success:   true,
		Data:      data,
		RawOutput: completion.Text,
		TokensIn:  completion.InputTokens,
		TokensOut: completion.OutputTokens,
		LatencyMs: latency,
	}
}

// BuildSystemInstruction embeds the active constraints into a system-level
// instruction block shared by every resolver.
func BuildSystemInstruction(c store.Constraints) string {
	var b strings.Builder

	b.WriteString("You are a constrained content generator. Follow every rule below exactly.\n\n")

	b.WriteString("<rules>\n")
	if len(c.MustNotUse) > 0 {
		b.WriteString(fmt.Sprintf("PROHIBITED TERMS (never write any of these, in any form): %s\n", strings.Join(c.MustNotUse, ", ")))
	}
	if len(c.MustKeep) > 0 {
		b.WriteString(fmt.Sprintf("REQUIRED TERMS (each must appear in the output): %s\n", strings.Join(c.MustKeep, ", ")))
	}
	if c.N > 0 {
		b.WriteString(fmt.Sprintf("EXACT COUNT: produce exactly %d items. Not %d, not %d.\n", c.N, c.N-1, c.N+1))
	}
	if c.Domain != store.DomainGeneral {
		b.WriteString(fmt.Sprintf("DOMAIN: stay strictly within the %s domain.\n", c.Domain))
	}
	if c.Tone != store.ToneNeutral {
		b.WriteString(fmt.Sprintf("TONE: %s.\n", c.Tone))
	}
	b.WriteString(fmt.Sprintf("LANGUAGE: respond in %s.\n", languageName(c.Language)))
	if c.MaxLength > 0 {
		b.WriteString(fmt.Sprintf("MAX LENGTH: at most %d words.\n", c.MaxLength))
	}
	if c.MinLength > 0 {
		b.WriteString(fmt.Sprintf("MIN LENGTH: at least %d words.\n", c.MinLength))
	}
	b.WriteString("</rules>\n\n")

	b.WriteString("Respond with a single machine-parseable JSON object and nothing else. No prose before or after it.")

	return b.String()
}

func languageName(code string) string {
	switch code {
	case "en":
		return "English"
	default:
		return "Spanish"
	}
}

// extractJSON locates the outermost bracketed payload in a raw reply
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
