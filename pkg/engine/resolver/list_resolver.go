package resolver

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"ai-contentgen-be/pkg/store"
)

// ListResolver handles item-bearing intents: title ideation, idea lists,
// comparisons. Output is an ordered flat list.
type ListResolver struct {
	outputType string // store.OutputTitles or store.OutputList
}

var leadingMarkerRe = regexp.MustCompile(`^\s*(?:\d+[.)]\s*|[-*•]\s*)+`)

func (r *ListResolver) GetPromptTemplate(pctx *store.PipelineContext) string {
	var b strings.Builder
	c := pctx.Constraints

	b.WriteString("<task>\n")
	switch r.outputType {
	case store.OutputTitles:
		b.WriteString("Generate titles")
	default:
		b.WriteString("Generate list entries")
	}
	if c.Task != "" {
		b.WriteString(fmt.Sprintf(" about: %s", c.Task))
	}
	b.WriteString("\n</task>\n\n")

	b.WriteString("<request>\n")
	b.WriteString(pctx.NormalizedInput.CleanedText)
	b.WriteString("\n</request>\n\n")

	b.WriteString("<output_format>\n")
	b.WriteString("{\n  \"items\": [\"first item\", \"second item\"]\n}\n")
	b.WriteString("</output_format>")

	return b.String()
}

func (r *ListResolver) ParseOutput(rawText string) (store.StructuredOutput, error) {
	if payload := extractJSON(rawText); payload != "" {
		var parsed struct {
			Items []string `json:"items"`
		}
		if err := json.Unmarshal([]byte(payload), &parsed); err == nil && len(parsed.Items) > 0 {
			return r.wrap(cleanItems(parsed.Items)), nil
		}
	}

	// Text heuristic fallback: one item per line, strip leading numerals
	// and bullet markers.
	items := []string{}
	for _, line := range strings.Split(rawText, "\n") {
		line = leadingMarkerRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(strings.Trim(line, `"`))
		if line == "" || strings.HasPrefix(line, "{") || strings.HasPrefix(line, "}") {
			continue
		}
		items = append(items, line)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no list items found in reply")
	}
	return r.wrap(items), nil
}

func (r *ListResolver) GetOutputSchema() string {
	return `{"type":"object","required":["items"],"properties":{"items":{"type":"array","items":{"type":"string"}}}}`
}

func (r *ListResolver) wrap(items []string) store.StructuredOutput {
	if r.outputType == store.OutputTitles {
		return &store.TitlesOutput{ItemList: items}
	}
	return &store.ListOutput{ItemList: items}
}

func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}
