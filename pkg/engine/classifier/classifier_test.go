package classifier

import (
	"reflect"
	"testing"

	"ai-contentgen-be/pkg/store"
)

func input(text string, isQuestion bool) *store.NormalizedInput {
	return &store.NormalizedInput{
		CleanedText: text,
		Metadata:    store.InputMetadata{IsQuestion: isQuestion},
	}
}

func TestClassify(t *testing.T) {
	c := New()

	tests := []struct {
		name       string
		text       string
		isQuestion bool
		wantIntent string
	}{
		{
			name:       "title request",
			text:       "dame 5 títulos sobre marketing digital",
			wantIntent: store.IntentTitleIdeation,
		},
		{
			name:       "outline request",
			text:       "crea un outline para mi ensayo",
			wantIntent: store.IntentOutline,
		},
		{
			name:       "summarize request",
			text:       "hazme un resumen de este texto",
			wantIntent: store.IntentSummarize,
		},
		{
			name:       "translate request",
			text:       "traduce este párrafo al inglés",
			wantIntent: store.IntentTranslate,
		},
		{
			name:       "comparison request",
			text:       "compara react con vue",
			wantIntent: store.IntentComparison,
		},
		{
			name:       "comparison phrase in english",
			text:       "what are the differences between cats and dogs",
			isQuestion: true,
			wantIntent: store.IntentComparison,
		},
		{
			name:       "bare between does not trigger comparison",
			text:       "hay mucha confianza between los equipos",
			wantIntent: store.IntentGeneralChat,
		},
		{
			name:       "list request",
			text:       "dame una lista de opciones",
			wantIntent: store.IntentListIdeas,
		},
		{
			name:       "question fallback",
			text:       "seguro",
			isQuestion: true,
			wantIntent: store.IntentExplain,
		},
		{
			name:       "chat fallback",
			text:       "buenos dias amigo",
			wantIntent: store.IntentGeneralChat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(input(tt.text, tt.isQuestion))
			if got.Intent != tt.wantIntent {
				t.Errorf("Classify(%q).Intent = %q, want %q (rules %v)",
					tt.text, got.Intent, tt.wantIntent, got.MatchedRules)
			}
		})
	}
}

func TestClassifyConfidence(t *testing.T) {
	c := New()

	// one keyword pair plus one pattern at priority 10: (2+2+5)*10/10 = 9
	got := c.Classify(input("dame 5 títulos sobre marketing", false))
	if got.Confidence != 9.0/15.0 {
		t.Errorf("Confidence = %v, want %v", got.Confidence, 9.0/15.0)
	}

	// keyword-stuffed input must cap at 1.0, not overflow
	got = c.Classify(input("resume resumen resumir summarize summary sintetiza síntesis tldr hazme un resumen", false))
	if got.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want capped at 1.0", got.Confidence)
	}

	// fallback paths carry zero confidence
	got = c.Classify(input("buenos dias amigo", false))
	if got.Confidence != 0 {
		t.Errorf("fallback Confidence = %v, want 0", got.Confidence)
	}
}

func TestClassifyTieKeepsHigherPriorityOrder(t *testing.T) {
	c := New()

	// "título" and "estructura" score one keyword each at equal priority;
	// the earlier rule in table order must win the exact tie
	got := c.Classify(input("título y estructura", false))
	if got.Intent != store.IntentTitleIdeation {
		t.Errorf("tie winner = %q, want %q", got.Intent, store.IntentTitleIdeation)
	}
	wantRules := []string{"title_request", "outline_request"}
	if !reflect.DeepEqual(got.MatchedRules, wantRules) {
		t.Errorf("MatchedRules = %v, want %v", got.MatchedRules, wantRules)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := New()
	in := input("dame 5 títulos sobre una campaña de marketing sin usar gratis", false)

	first := c.Classify(in)
	for i := 0; i < 20; i++ {
		again := c.Classify(in)
		if again.Intent != first.Intent || again.Confidence != first.Confidence {
			t.Fatalf("run %d diverged: %v vs %v", i, again, first)
		}
		if !reflect.DeepEqual(again.MatchedRules, first.MatchedRules) {
			t.Fatalf("run %d matched rules diverged: %v vs %v", i, again.MatchedRules, first.MatchedRules)
		}
	}
}
