package resolver

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"ai-contentgen-be/pkg/store"
)

// OutlineResolver handles outline requests: a recursive section tree.
type OutlineResolver struct{}

var (
	hashHeadingRe    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	numberHeadingRe  = regexp.MustCompile(`^((?:\d+\.)+)\s*(.+)$`)
	bulletHeadingRe  = regexp.MustCompile(`^[-*•]\s+(.+)$`)
	trailingColonsRe = regexp.MustCompile(`:+\s*$`)
)

func (r *OutlineResolver) GetPromptTemplate(pctx *store.PipelineContext) string {
	var b strings.Builder
	c := pctx.Constraints

	b.WriteString("<task>\nBuild an outline")
	if c.Task != "" {
		b.WriteString(fmt.Sprintf(" for: %s", c.Task))
	}
	b.WriteString("\n</task>\n\n")

	b.WriteString("<request>\n")
	b.WriteString(pctx.NormalizedInput.CleanedText)
	b.WriteString("\n</request>\n\n")

	b.WriteString("<output_format>\n")
	b.WriteString("{\n  \"sections\": [\n    {\"title\": \"Section\", \"level\": 1, \"subsections\": [\n      {\"title\": \"Subsection\", \"level\": 2}\n    ]}\n  ]\n}\n")
	b.WriteString("</output_format>")

	return b.String()
}

func (r *OutlineResolver) ParseOutput(rawText string) (store.StructuredOutput, error) {
	if payload := extractJSON(rawText); payload != "" {
		var parsed struct {
			Sections []store.OutlineSection `json:"sections"`
		}
		if err := json.Unmarshal([]byte(payload), &parsed); err == nil && len(parsed.Sections) > 0 {
			normalizeLevels(parsed.Sections, 1)
			return &store.OutlineOutput{Sections: parsed.Sections}, nil
		}
	}

	// Heading-marker fallback: detect #-style, numbered and bullet
	// headings line by line. Level-2 headings nest under the last
	// top-level section.
	sections := []store.OutlineSection{}
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		title, level := detectHeading(line)
		if title == "" {
			continue
		}
		if level <= 1 || len(sections) == 0 {
			sections = append(sections, store.OutlineSection{Title: title, Level: 1})
			continue
		}
		last := &sections[len(sections)-1]
		last.Subsections = append(last.Subsections, store.OutlineSection{Title: title, Level: 2})
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("no outline sections found in reply")
	}
	return &store.OutlineOutput{Sections: sections}, nil
}

func (r *OutlineResolver) GetOutputSchema() string {
	return `{"type":"object","required":["sections"],"properties":{"sections":{"type":"array","items":{"type":"object","required":["title","level"],"properties":{"title":{"type":"string"},"level":{"type":"integer"},"subsections":{"type":"array"}}}}}}`
}

func detectHeading(line string) (string, int) {
	if m := hashHeadingRe.FindStringSubmatch(line); m != nil {
		return cleanTitle(m[2]), len(m[1])
	}
	if m := numberHeadingRe.FindStringSubmatch(line); m != nil {
		// "1." is level 1, "1.1." level 2, and so on
		level := strings.Count(m[1], ".")
		return cleanTitle(m[2]), level
	}
	if m := bulletHeadingRe.FindStringSubmatch(line); m != nil {
		return cleanTitle(m[1]), 2
	}
	return "", 0
}

func cleanTitle(title string) string {
	return strings.TrimSpace(trailingColonsRe.ReplaceAllString(title, ""))
}

func normalizeLevels(sections []store.OutlineSection, level int) {
	for i := range sections {
		if sections[i].Level <= 0 {
			sections[i].Level = level
		}
		normalizeLevels(sections[i].Subsections, level+1)
	}
}
