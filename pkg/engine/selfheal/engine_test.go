package selfheal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-contentgen-be/internal/pkg/logger"
	"ai-contentgen-be/pkg/engine/quality"
	"ai-contentgen-be/pkg/engine/resolver"
	"ai-contentgen-be/pkg/llm"
	"ai-contentgen-be/pkg/store"
)

// seqProvider replays a fixed sequence of replies (or errors), then keeps
// repeating the last entry.
type seqProvider struct {
	replies []string
	errs    []error
	calls   int
}

func (s *seqProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	return s.Generate(ctx, "", options...)
}

func (s *seqProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	idx := s.calls
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	s.calls++
	if s.errs != nil && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	return &llm.Completion{Text: s.replies[idx]}, nil
}

func healContext(n int) *store.PipelineContext {
	c := store.DefaultConstraints()
	c.N = n
	c.Format = store.FormatList
	return &store.PipelineContext{
		NormalizedInput:      &store.NormalizedInput{CleanedText: "dame títulos"},
		IntentClassification: &store.IntentClassification{Intent: store.IntentTitleIdeation},
		Constraints:          c,
	}
}

func newHealer(provider llm.LLMProvider) (*Engine, *quality.Gate) {
	gate := quality.New()
	return NewEngine(resolver.NewEngine(provider, logger.Nop{}), gate, logger.Nop{}), gate
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name   string
		failed []string
		want   string
	}{
		{"count beats everything", []string{store.CheckDomainDrift, store.CheckCount}, StrategyExactCount},
		{"prohibited beats drift", []string{store.CheckDomainDrift, store.CheckProhibitedTerms}, StrategyWithoutProhibited},
		{"drift beats required", []string{store.CheckRequiredTerms, store.CheckDomainDrift}, StrategyOnDomain},
		{"required alone", []string{store.CheckRequiredTerms}, StrategyWithRequired},
		{"unknown checks fall back to generic", []string{store.CheckLanguage, store.CheckFormat}, StrategyGeneric},
		{"empty falls back to generic", nil, StrategyGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectStrategy(tt.failed); got != tt.want {
				t.Errorf("SelectStrategy(%v) = %q, want %q", tt.failed, got, tt.want)
			}
		})
	}
}

func TestHealSucceedsMidLoop(t *testing.T) {
	// first repair still has 3 items, second lands the exact count
	provider := &seqProvider{replies: []string{
		`{"items": ["a", "b", "c"]}`,
		`{"items": ["a", "b"]}`,
	}}
	healer, gate := newHealer(provider)
	pctx := healContext(2)

	bad := &store.TitlesOutput{ItemList: []string{"a", "b", "c"}}
	verdict := gate.Verify(bad, pctx.Constraints, pctx)

	outcome := healer.Heal(context.Background(), pctx, bad, verdict)

	if !outcome.Accepted {
		t.Fatal("Accepted = false, want true")
	}
	if len(outcome.Attempts) != 2 {
		t.Errorf("attempts = %d, want 2", len(outcome.Attempts))
	}
	if !outcome.Attempts[1].Success {
		t.Error("final attempt not marked successful")
	}
	items, _ := outcome.Output.Items()
	if len(items) != 2 {
		t.Errorf("items = %v, want 2", items)
	}
}

func TestHealExhaustionTriggersDeterministicFallback(t *testing.T) {
	// provider never fixes the count; the transform truncates instead
	provider := &seqProvider{replies: []string{`{"items": ["a", "b", "c"]}`}}
	healer, gate := newHealer(provider)
	pctx := healContext(2)

	bad := &store.TitlesOutput{ItemList: []string{"a", "b", "c"}}
	verdict := gate.Verify(bad, pctx.Constraints, pctx)

	outcome := healer.Heal(context.Background(), pctx, bad, verdict)

	if len(outcome.Attempts) != MaxRepairAttempts {
		t.Errorf("attempts = %d, want %d", len(outcome.Attempts), MaxRepairAttempts)
	}
	if provider.calls != MaxRepairAttempts {
		t.Errorf("provider calls = %d, want %d", provider.calls, MaxRepairAttempts)
	}
	items, _ := outcome.Output.Items()
	if len(items) != 2 {
		t.Errorf("items after transform = %v, want truncated to 2", items)
	}
	if !outcome.Quality.Passed {
		t.Errorf("final verdict failed: %v", outcome.Quality.FailedChecks)
	}
	if !outcome.Accepted {
		t.Error("Accepted = false after successful transform")
	}
}

func TestHealProviderFailuresStillBound(t *testing.T) {
	err := errors.New("connection refused")
	provider := &seqProvider{
		replies: []string{"", "", ""},
		errs:    []error{err, err, err},
	}
	healer, gate := newHealer(provider)
	pctx := healContext(2)

	bad := &store.TitlesOutput{ItemList: []string{"a", "b", "c"}}
	verdict := gate.Verify(bad, pctx.Constraints, pctx)

	outcome := healer.Heal(context.Background(), pctx, bad, verdict)

	if len(outcome.Attempts) != MaxRepairAttempts {
		t.Fatalf("attempts = %d, want %d", len(outcome.Attempts), MaxRepairAttempts)
	}
	for i, a := range outcome.Attempts {
		if a.Success {
			t.Errorf("attempt %d marked successful despite provider error", i+1)
		}
	}
	// the deterministic fallback still recovers the count
	items, _ := outcome.Output.Items()
	if len(items) != 2 {
		t.Errorf("items = %v, want truncated to 2", items)
	}
}

func TestApplyDeterministicTransform(t *testing.T) {
	healer, _ := newHealer(&seqProvider{replies: []string{""}})

	t.Run("strips prohibited whole words", func(t *testing.T) {
		c := store.DefaultConstraints()
		c.MustNotUse = []string{"gratis"}
		out := healer.ApplyDeterministicTransform(
			&store.ContentOutput{Content: "Todo es gratis hoy, gratis para ti"}, c)
		got := out.(*store.ContentOutput).Content
		if strings.Contains(strings.ToLower(got), "gratis") {
			t.Errorf("prohibited term survived: %q", got)
		}
		if strings.Contains(got, "  ") {
			t.Errorf("spaces not normalized: %q", got)
		}
	})

	t.Run("whole word only, no substring damage", func(t *testing.T) {
		c := store.DefaultConstraints()
		c.MustNotUse = []string{"arte"}
		out := healer.ApplyDeterministicTransform(
			&store.ContentOutput{Content: "una parte del arte moderno"}, c)
		got := out.(*store.ContentOutput).Content
		if !strings.Contains(got, "parte") {
			t.Errorf("substring wrongly stripped: %q", got)
		}
		if strings.Contains(got, "arte moderno") {
			t.Errorf("whole word not stripped: %q", got)
		}
	})

	t.Run("truncates over-count", func(t *testing.T) {
		c := store.DefaultConstraints()
		c.N = 2
		out := healer.ApplyDeterministicTransform(
			&store.ListOutput{ItemList: []string{"a", "b", "c", "d"}}, c)
		items, _ := out.Items()
		if len(items) != 2 {
			t.Errorf("items = %v, want 2", items)
		}
	})

	t.Run("never pads under-count", func(t *testing.T) {
		c := store.DefaultConstraints()
		c.N = 5
		out := healer.ApplyDeterministicTransform(
			&store.ListOutput{ItemList: []string{"a"}}, c)
		items, _ := out.Items()
		if len(items) != 1 {
			t.Errorf("items = %v, want untouched 1", items)
		}
	})

	t.Run("outline sections truncated and stripped", func(t *testing.T) {
		c := store.DefaultConstraints()
		c.N = 1
		c.MustNotUse = []string{"spam"}
		out := healer.ApplyDeterministicTransform(&store.OutlineOutput{
			Sections: []store.OutlineSection{
				{Title: "Intro spam total", Level: 1},
				{Title: "Body", Level: 1},
			},
		}, c)
		outline := out.(*store.OutlineOutput)
		if len(outline.Sections) != 1 {
			t.Fatalf("sections = %d, want 1", len(outline.Sections))
		}
		if outline.Sections[0].Title != "Intro total" {
			t.Errorf("title = %q, want stripped", outline.Sections[0].Title)
		}
	})
}

func TestBuildCorrectivePromptNamesCountDelta(t *testing.T) {
	pctx := healContext(5)
	previous := &store.TitlesOutput{ItemList: []string{"a", "b", "c"}}
	result := &store.QualityCheckResult{
		Checks: []store.QualityCheck{
			{Name: store.CheckCount, Passed: false, Severity: store.SeverityError, Message: "expected exactly 5 items, got 3"},
		},
		FailedChecks: []string{store.CheckCount},
	}

	prompt := buildCorrectivePrompt(pctx, previous, result, StrategyExactCount)

	for _, want := range []string{
		"dame títulos",
		"expected exactly 5 items, got 3",
		StrategyExactCount,
		"Produce exactly 5 items. The previous reply had 3.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("corrective prompt missing %q:\n%s", want, prompt)
		}
	}
}
