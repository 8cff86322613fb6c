package resolver

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-contentgen-be/pkg/store"
)

// ContentResolver handles freeform intents: summaries, prose generation,
// rewrites, explanations and data analysis.
type ContentResolver struct {
	outputType string // store.OutputSummary, store.OutputContent or store.OutputAnalysis
}

func (r *ContentResolver) GetPromptTemplate(pctx *store.PipelineContext) string {
	var b strings.Builder
	c := pctx.Constraints

	b.WriteString("<task>\n")
	switch r.outputType {
	case store.OutputSummary:
		b.WriteString("Write a summary")
	case store.OutputAnalysis:
		b.WriteString("Write an analysis with key findings")
	default:
		b.WriteString("Write the requested content")
	}
	if c.Task != "" {
		b.WriteString(fmt.Sprintf(" about: %s", c.Task))
	}
	b.WriteString("\n</task>\n\n")

	b.WriteString("<request>\n")
	b.WriteString(pctx.NormalizedInput.CleanedText)
	b.WriteString("\n</request>\n\n")

	b.WriteString("<output_format>\n")
	if r.outputType == store.OutputAnalysis {
		b.WriteString("{\n  \"content\": \"the analysis text\",\n  \"metadata\": {\"findings\": [\"...\"]}\n}\n")
	} else {
		b.WriteString("{\n  \"content\": \"the full text\"\n}\n")
	}
	b.WriteString("</output_format>")

	return b.String()
}

func (r *ContentResolver) ParseOutput(rawText string) (store.StructuredOutput, error) {
	if payload := extractJSON(rawText); payload != "" {
		var parsed struct {
			Content  string                 `json:"content"`
			Metadata map[string]interface{} `json:"metadata"`
		}
		if err := json.Unmarshal([]byte(payload), &parsed); err == nil && strings.TrimSpace(parsed.Content) != "" {
			return r.wrap(parsed.Content, parsed.Metadata), nil
		}
	}

	// Fallback: treat the whole reply as content
	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil, fmt.Errorf("empty reply")
	}
	return r.wrap(text, nil), nil
}

func (r *ContentResolver) GetOutputSchema() string {
	if r.outputType == store.OutputAnalysis {
		return `{"type":"object","required":["content"],"properties":{"content":{"type":"string"},"metadata":{"type":"object"}}}`
	}
	return `{"type":"object","required":["content"],"properties":{"content":{"type":"string"}}}`
}

func (r *ContentResolver) wrap(content string, metadata map[string]interface{}) store.StructuredOutput {
	switch r.outputType {
	case store.OutputSummary:
		return &store.SummaryOutput{Content: content}
	case store.OutputAnalysis:
		return &store.AnalysisOutput{Content: content, Metadata: metadata}
	default:
		return &store.ContentOutput{Content: content}
	}
}
