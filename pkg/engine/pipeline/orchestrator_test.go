package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"ai-contentgen-be/internal/pkg/logger"
	"ai-contentgen-be/internal/repository/memory"
	"ai-contentgen-be/pkg/engine/quality"
	"ai-contentgen-be/pkg/engine/resolver"
	"ai-contentgen-be/pkg/engine/selfheal"
	"ai-contentgen-be/pkg/engine/session"
	"ai-contentgen-be/pkg/llm"
	"ai-contentgen-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

// scriptedProvider replays replies in order and records system prompts.
type scriptedProvider struct {
	replies []string
	err     error
	panics  bool
	systems []string
	calls   int
}

func (s *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	return s.Generate(ctx, "", options...)
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	if s.panics {
		panic("provider exploded")
	}
	opts := &llm.Options{}
	for _, o := range options {
		o(opts)
	}
	s.systems = append(s.systems, opts.System)
	idx := s.calls
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Completion{Text: s.replies[idx], InputTokens: 7, OutputTokens: 13}, nil
}

func newOrchestrator(provider llm.LLMProvider) *Orchestrator {
	log := logger.Nop{}
	resolverEngine := resolver.NewEngine(provider, log)
	gate := quality.New()
	healer := selfheal.NewEngine(resolverEngine, gate, log)
	repo := memory.NewSessionRepository(time.Hour, time.Hour)
	sessions := session.NewManager(repo, 30*time.Minute, 5*time.Minute, log)
	return NewOrchestrator(resolverEngine, gate, healer, sessions, log)
}

func TestProcessHappyPath(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`{"items": ["Uno", "Dos", "Tres", "Cuatro", "Cinco"]}`,
	}}
	o := newOrchestrator(provider)

	result := o.Process(context.Background(), "dame 5 títulos sobre una campaña de marketing", Options{SessionID: "s1"})

	assert.True(t, result.Success)
	assert.Equal(t, store.IntentTitleIdeation, result.Intent)
	assert.Greater(t, result.Confidence, 0.0)
	assert.Equal(t, 1.0, result.QualityScore)
	assert.Empty(t, result.RepairAttempts)
	assert.Equal(t, 7, result.TokensIn)
	assert.Equal(t, 13, result.TokensOut)
	assert.GreaterOrEqual(t, result.ProcessingTimeMs, int64(0))

	items, ok := result.Output.Items()
	assert.True(t, ok)
	assert.Len(t, items, 5)

	// both turns committed
	state := o.GetSessionState("s1")
	if assert.NotNil(t, state) {
		assert.Len(t, state.History, 2)
		assert.Equal(t, store.RoleUser, state.History[0].Role)
		assert.Equal(t, store.RoleAssistant, state.History[1].Role)
	}
}

func TestProcessProviderFailure(t *testing.T) {
	provider := &scriptedProvider{replies: []string{""}, err: errors.New("model offline")}
	o := newOrchestrator(provider)

	result := o.Process(context.Background(), "dame 5 títulos sobre marketing", Options{SessionID: "s1"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "model offline")
	assert.Nil(t, result.Output)

	// the user turn is still committed even when generation fails
	state := o.GetSessionState("s1")
	if assert.NotNil(t, state) {
		assert.Len(t, state.History, 1)
	}
}

func TestProcessPanicRecovery(t *testing.T) {
	provider := &scriptedProvider{panics: true}
	o := newOrchestrator(provider)

	result := o.Process(context.Background(), "dame 5 títulos sobre marketing", Options{SessionID: "s1"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "pipeline failure")
}

func TestProcessSkipQualityGate(t *testing.T) {
	// reply violates the requested count, but the gate is skipped
	provider := &scriptedProvider{replies: []string{`{"items": ["Uno", "Dos"]}`}}
	o := newOrchestrator(provider)

	result := o.Process(context.Background(), "dame 5 títulos sobre marketing", Options{
		SessionID:       "s1",
		SkipQualityGate: true,
	})

	assert.True(t, result.Success)
	assert.Equal(t, 1.0, result.QualityScore)
	assert.Nil(t, result.Quality)
	assert.Empty(t, result.RepairAttempts)
	assert.Equal(t, 1, provider.calls, "skipping the gate must not trigger repairs")
}

func TestProcessSelfHealRepairsCount(t *testing.T) {
	// first reply under-counts, the repair lands the exact count
	provider := &scriptedProvider{replies: []string{
		`{"items": ["Uno", "Dos"]}`,
		`{"items": ["Uno", "Dos", "Tres"]}`,
	}}
	o := newOrchestrator(provider)

	result := o.Process(context.Background(), "dame 3 títulos sobre marketing", Options{SessionID: "s1"})

	assert.True(t, result.Success)
	assert.Len(t, result.RepairAttempts, 1)
	assert.Equal(t, selfheal.StrategyExactCount, result.RepairAttempts[0].RepairStrategy)
	items, _ := result.Output.Items()
	assert.Len(t, items, 3)
	assert.Equal(t, 1.0, result.QualityScore)
}

func TestProcessSkipSelfHeal(t *testing.T) {
	provider := &scriptedProvider{replies: []string{`{"items": ["Uno", "Dos"]}`}}
	o := newOrchestrator(provider)

	result := o.Process(context.Background(), "dame 3 títulos sobre marketing", Options{
		SessionID:    "s1",
		SkipSelfHeal: true,
	})

	assert.True(t, result.Success)
	assert.NotNil(t, result.Quality)
	assert.False(t, result.Quality.Passed)
	assert.Empty(t, result.RepairAttempts)
	assert.Equal(t, 1, provider.calls)
}

func TestProcessConstraintsAccumulateAcrossTurns(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`{"items": ["Uno", "Dos", "Tres", "Cuatro", "Cinco"]}`,
		`{"items": ["Seis", "Siete", "Ocho"]}`,
	}}
	o := newOrchestrator(provider)

	first := o.Process(context.Background(), "dame 5 títulos sobre una campaña de marketing, no uses la palabra gratis", Options{SessionID: "s1"})
	assert.True(t, first.Success)

	second := o.Process(context.Background(), "dame 3 títulos para la marca", Options{SessionID: "s1"})
	assert.True(t, second.Success)

	// the prohibition from turn one still binds turn two
	assert.Contains(t, provider.systems[len(provider.systems)-1], "gratis")

	state := o.GetSessionState("s1")
	if assert.NotNil(t, state) {
		assert.Contains(t, state.Constraints.MustNotUse, "gratis")
		assert.Equal(t, store.DomainMarketing, state.Domain)
		assert.Len(t, state.History, 4)
	}
}

func TestProcessTopicChangeResetsConstraints(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`{"items": ["Uno", "Dos", "Tres", "Cuatro", "Cinco"]}`,
		`{"content": "Un artículo sobre software y sistemas."}`,
	}}
	o := newOrchestrator(provider)

	first := o.Process(context.Background(), "dame 5 títulos sobre una campaña de marketing, no uses la palabra gratis", Options{SessionID: "s1"})
	assert.True(t, first.Success)

	// switching to a different concrete domain abandons the accumulated
	// constraints but keeps the history
	second := o.Process(context.Background(), "escribe un artículo sobre software, código y sistemas con api", Options{SessionID: "s1"})
	assert.True(t, second.Success)

	state := o.GetSessionState("s1")
	if assert.NotNil(t, state) {
		assert.Equal(t, store.DomainTechnology, state.Domain)
		assert.NotContains(t, state.Constraints.MustNotUse, "gratis")
		assert.Len(t, state.History, 4)
	}
}

func TestProcessCancelledContext(t *testing.T) {
	provider := &scriptedProvider{replies: []string{`{"items": ["Uno"]}`}}
	o := newOrchestrator(provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := o.Process(ctx, "dame 5 títulos sobre marketing", Options{SessionID: "s1"})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "cancelled")
	assert.Equal(t, 0, provider.calls, "cancelled request must not reach the provider")
}

func TestAnalyzeOnlyNeverCallsProvider(t *testing.T) {
	provider := &scriptedProvider{replies: []string{""}}
	o := newOrchestrator(provider)

	analysis := o.AnalyzeOnly("dame 5 títulos sobre una campaña de marketing")

	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, store.IntentTitleIdeation, analysis.Classification.Intent)
	assert.Equal(t, 5, analysis.Constraints.N)
	assert.Equal(t, store.DomainMarketing, analysis.Constraints.Domain)
	// analysis is stateless: no session is created
	assert.Nil(t, o.GetSessionState("s1"))
}

func TestResetSession(t *testing.T) {
	provider := &scriptedProvider{replies: []string{`{"items": ["Uno", "Dos", "Tres", "Cuatro", "Cinco"]}`}}
	o := newOrchestrator(provider)

	o.Process(context.Background(), "dame 5 títulos sobre marketing", Options{SessionID: "s1"})
	assert.NotNil(t, o.GetSessionState("s1"))
	assert.Equal(t, 1, o.ActiveSessionCount())

	o.ResetSession("s1")
	assert.Nil(t, o.GetSessionState("s1"))
	assert.Equal(t, 0, o.ActiveSessionCount())
}

func TestProcessOutputFlattenStoredTruncated(t *testing.T) {
	long := strings.Repeat("palabra ", 120)
	provider := &scriptedProvider{replies: []string{`{"content": "` + long + `"}`}}
	o := newOrchestrator(provider)

	result := o.Process(context.Background(), "escribe un artículo sobre el mercado", Options{SessionID: "s1"})
	assert.True(t, result.Success)

	state := o.GetSessionState("s1")
	if assert.NotNil(t, state) {
		assistant := state.History[1]
		assert.LessOrEqual(t, len(assistant.Content), 503, "assistant turn must be truncated")
		assert.True(t, utf8.ValidString(assistant.Content), "stored turn must stay valid UTF-8")
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// 3-byte repeating pattern puts a continuation byte at index 500
	long := strings.Repeat("aá", 300)

	got := truncate(long, 500)
	assert.True(t, utf8.ValidString(got), "cut must land on a rune boundary")
	assert.LessOrEqual(t, len(got), 503)
	assert.True(t, strings.HasSuffix(got, "..."))

	short := "texto corto"
	assert.Equal(t, short, truncate(short, 500))
}
