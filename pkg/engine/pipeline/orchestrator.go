package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ai-contentgen-be/internal/pkg/logger"
	"ai-contentgen-be/pkg/engine/classifier"
	"ai-contentgen-be/pkg/engine/constraints"
	"ai-contentgen-be/pkg/engine/normalizer"
	"ai-contentgen-be/pkg/engine/quality"
	"ai-contentgen-be/pkg/engine/resolver"
	"ai-contentgen-be/pkg/engine/selfheal"
	"ai-contentgen-be/pkg/engine/session"
	"ai-contentgen-be/pkg/store"
)

// Options are the per-request knobs callers pass alongside the input text
type Options struct {
	SessionID       string
	UserID          string
	SkipQualityGate bool
	SkipSelfHeal    bool
}

// Result is the single object the pipeline produces per request
type Result struct {
	Success          bool
	Output           store.StructuredOutput
	Intent           string
	Confidence       float64
	QualityScore     float64
	Quality          *store.QualityCheckResult
	RepairAttempts   []store.RepairAttempt
	TokensIn         int
	TokensOut        int
	ProcessingTimeMs int64
	Error            string
}

// Analysis is the provider-free diagnostic view of one input
type Analysis struct {
	NormalizedInput *store.NormalizedInput
	Classification  *store.IntentClassification
	Constraints     store.Constraints
}

// Orchestrator sequences the full pipeline per request:
// normalize, classify, extract, resolve, verify, repair.
// It is the only layer allowed to produce a hard pipeline failure;
// every inner stage degrades instead of throwing.
type Orchestrator struct {
	normalizer *normalizer.Normalizer
	classifier *classifier.Classifier
	extractor  *constraints.Extractor
	resolver   *resolver.Engine
	gate       *quality.Gate
	healer     *selfheal.Engine
	sessions   *session.Manager
	logger     logger.ILogger
}

func NewOrchestrator(
	resolverEngine *resolver.Engine,
	gate *quality.Gate,
	healer *selfheal.Engine,
	sessions *session.Manager,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		normalizer: normalizer.New(),
		classifier: classifier.New(),
		extractor:  constraints.New(),
		resolver:   resolverEngine,
		gate:       gate,
		healer:     healer,
		sessions:   sessions,
		logger:     log,
	}
}

// Process runs the full pipeline for one request
func (o *Orchestrator) Process(ctx context.Context, inputText string, opts Options) (result *Result) {
	start := time.Now()

	// single recovery boundary: unexpected panics anywhere below become
	// a {success:false} result instead of crashing the caller
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("PIPELINE", "unexpected pipeline panic", map[string]interface{}{
				"panic": fmt.Sprintf("%v", r),
			})
			result = &Result{
				Success:          false,
				Error:            fmt.Sprintf("pipeline failure: %v", r),
				ProcessingTimeMs: time.Since(start).Milliseconds(),
			}
		}
	}()

	// Stage 1-3: offline analysis (total, never fails)
	input := o.normalizer.Normalize(inputText)
	classification := o.classifier.Classify(input)
	current := o.extractor.Extract(input, classification)

	o.logger.Info("PIPELINE", "intent classified", map[string]interface{}{
		"session_id": opts.SessionID,
		"intent":     classification.Intent,
		"confidence": classification.Confidence,
	})

	// Stage 4: session merge under the per-key lock. The lock is released
	// before the provider call so slow generations never serialize other
	// sessions sharing the stripe.
	merged, state := o.commitRequestTurn(input, classification, current, opts)

	pctx := &store.PipelineContext{
		SessionState:         state,
		NormalizedInput:      input,
		IntentClassification: classification,
		Constraints:          merged,
		RepairAttempts:       []store.RepairAttempt{},
	}

	if err := ctx.Err(); err != nil {
		return o.failed(start, fmt.Sprintf("request cancelled: %v", err))
	}

	// Stage 5: the single suspension point, the provider call
	res := o.resolver.Resolve(ctx, pctx)
	pctx.ResolverResult = res
	if !res.Success || res.Data == nil {
		return o.failed(start, fmt.Sprintf("provider failure: %s", truncate(res.RawOutput, 300)))
	}

	output := res.Data
	tokensIn, tokensOut := res.TokensIn, res.TokensOut

	result = &Result{
		Success:        true,
		Intent:         classification.Intent,
		Confidence:     classification.Confidence,
		QualityScore:   1.0,
		RepairAttempts: []store.RepairAttempt{},
	}

	// Stage 6-7: verification and bounded repair
	if !opts.SkipQualityGate {
		verdict := o.gate.Verify(output, merged, pctx)
		pctx.QualityResult = verdict
		result.Quality = verdict
		result.QualityScore = verdict.Score

		if !verdict.Passed && !opts.SkipSelfHeal {
			outcome := o.healer.Heal(ctx, pctx, output, verdict)
			output = outcome.Output
			result.Quality = outcome.Quality
			result.QualityScore = outcome.Quality.Score
			result.RepairAttempts = outcome.Attempts
			pctx.RepairAttempts = outcome.Attempts
		}
	}

	result.Output = output
	result.TokensIn = tokensIn
	result.TokensOut = tokensOut

	// Stage 8: commit the assistant turn
	o.commitResponseTurn(opts.SessionID, opts.UserID, output)

	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	return result
}

// AnalyzeOnly exposes normalization, classification and extraction
// without invoking the provider, for diagnostics and UI previews.
func (o *Orchestrator) AnalyzeOnly(inputText string) *Analysis {
	input := o.normalizer.Normalize(inputText)
	classification := o.classifier.Classify(input)
	extracted := o.extractor.Extract(input, classification)
	return &Analysis{
		NormalizedInput: input,
		Classification:  classification,
		Constraints:     extracted,
	}
}

// GetSessionState exposes the session read operation
func (o *Orchestrator) GetSessionState(sessionID string) *store.SessionState {
	return o.sessions.Get(sessionID)
}

// ResetSession deletes session memory outright
func (o *Orchestrator) ResetSession(sessionID string) {
	o.sessions.Reset(sessionID)
}

// ActiveSessionCount exposes how many sessions the sweep still considers live
func (o *Orchestrator) ActiveSessionCount() int {
	return o.sessions.ActiveSessionCount()
}

// commitRequestTurn merges constraints with session memory and appends the
// user turn, all under the session's per-key lock
func (o *Orchestrator) commitRequestTurn(input *store.NormalizedInput, classification *store.IntentClassification, current store.Constraints, opts Options) (store.Constraints, *store.SessionState) {
	unlock := o.sessions.Lock(opts.SessionID)
	defer unlock()

	state := o.sessions.LoadOrCreate(opts.SessionID, opts.UserID)

	if o.sessions.DetectTopicChange(state, input.Entities.Domain) {
		o.sessions.ResetConstraints(state, input.Entities.Domain)
	}

	merged := o.extractor.MergeWithPrevious(current, state.Constraints)
	state.Constraints = merged.Clone()
	if merged.Domain != store.DomainGeneral {
		state.Domain = merged.Domain
	}

	o.sessions.AppendTurn(state, store.ConversationTurn{
		Role:      store.RoleUser,
		Content:   input.CleanedText,
		Intent:    classification.Intent,
		Timestamp: time.Now(),
	})
	o.sessions.Save(state)

	return merged, state
}

// commitResponseTurn appends the assistant turn after generation. A
// session evicted mid-flight is simply recreated; stages commit
// independently.
func (o *Orchestrator) commitResponseTurn(sessionID, userID string, output store.StructuredOutput) {
	unlock := o.sessions.Lock(sessionID)
	defer unlock()

	state := o.sessions.LoadOrCreate(sessionID, userID)
	o.sessions.AppendTurn(state, store.ConversationTurn{
		Role:      store.RoleAssistant,
		Content:   truncate(output.Flatten(), 500),
		Timestamp: time.Now(),
	})
	o.sessions.Save(state)
}

func (o *Orchestrator) failed(start time.Time, message string) *Result {
	return &Result{
		Success:          false,
		Error:            message,
		RepairAttempts:   []store.RepairAttempt{},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	// back off to a rune boundary so the cut never leaves invalid UTF-8
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut]) + "..."
}
