package store

import "strings"

// Output type tags
const (
	OutputTitles   = "titles"
	OutputOutline  = "outline"
	OutputSummary  = "summary"
	OutputContent  = "content"
	OutputList     = "list"
	OutputAnalysis = "analysis"
)

// StructuredOutput is the typed result parsed from a provider reply.
// Each variant carries exactly the fields meaningful for its type, so a
// consumer can distinguish "no items" from "not an item-bearing type".
type StructuredOutput interface {
	// OutputType returns the variant tag (titles, outline, summary, ...)
	OutputType() string

	// Items returns the ordered item list and whether this variant carries one
	Items() ([]string, bool)

	// Flatten concatenates all human-visible text (content, items,
	// section titles recursively) into one lowercase searchable string
	Flatten() string
}

// OutlineSection is a node of the outline tree
type OutlineSection struct {
	Title       string           `json:"title"`
	Level       int              `json:"level"`
	Subsections []OutlineSection `json:"subsections,omitempty"`
}

// TitlesOutput carries a flat list of generated titles
type TitlesOutput struct {
	ItemList []string `json:"items"`
}

func (o *TitlesOutput) OutputType() string      { return OutputTitles }
func (o *TitlesOutput) Items() ([]string, bool) { return o.ItemList, true }
func (o *TitlesOutput) Flatten() string         { return flattenItems(o.ItemList) }

// ListOutput carries a flat list of generated entries (ideas, bullet points)
type ListOutput struct {
	ItemList []string `json:"items"`
}

func (o *ListOutput) OutputType() string      { return OutputList }
func (o *ListOutput) Items() ([]string, bool) { return o.ItemList, true }
func (o *ListOutput) Flatten() string         { return flattenItems(o.ItemList) }

// OutlineOutput carries a recursive section tree
type OutlineOutput struct {
	Sections []OutlineSection `json:"sections"`
}

func (o *OutlineOutput) OutputType() string { return OutputOutline }

// Items exposes top-level section titles so count checks treat sections as items
func (o *OutlineOutput) Items() ([]string, bool) {
	titles := make([]string, 0, len(o.Sections))
	for _, s := range o.Sections {
		titles = append(titles, s.Title)
	}
	return titles, true
}

func (o *OutlineOutput) Flatten() string {
	var b strings.Builder
	var walk func(sections []OutlineSection)
	walk = func(sections []OutlineSection) {
		for _, s := range sections {
			b.WriteString(s.Title)
			b.WriteString(" ")
			walk(s.Subsections)
		}
	}
	walk(o.Sections)
	return strings.ToLower(strings.TrimSpace(b.String()))
}

// SummaryOutput carries freeform summary text
type SummaryOutput struct {
	Content string `json:"content"`
}

func (o *SummaryOutput) OutputType() string      { return OutputSummary }
func (o *SummaryOutput) Items() ([]string, bool) { return nil, false }
func (o *SummaryOutput) Flatten() string         { return strings.ToLower(o.Content) }

// ContentOutput carries freeform generated prose
type ContentOutput struct {
	Content string `json:"content"`
}

func (o *ContentOutput) OutputType() string      { return OutputContent }
func (o *ContentOutput) Items() ([]string, bool) { return nil, false }
func (o *ContentOutput) Flatten() string         { return strings.ToLower(o.Content) }

// AnalysisOutput carries analysis prose plus structured findings
type AnalysisOutput struct {
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func (o *AnalysisOutput) OutputType() string      { return OutputAnalysis }
func (o *AnalysisOutput) Items() ([]string, bool) { return nil, false }
func (o *AnalysisOutput) Flatten() string         { return strings.ToLower(o.Content) }

func flattenItems(items []string) string {
	return strings.ToLower(strings.Join(items, " "))
}
