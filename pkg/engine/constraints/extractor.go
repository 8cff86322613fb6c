package constraints

import (
	"regexp"
	"strings"

	"ai-contentgen-be/pkg/store"
)

// Extractor turns normalized input plus the classified intent into the
// Constraints record the resolver and quality gate work against.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

var (
	// Broader than the normalizer's own prohibition family; the caller
	// unions both lists.
	mustNotUsePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:no uses|no usar|no utilices|no menciones|sin mencionar|no incluyas|sin incluir|nunca uses|prohibido usar)\s+(?:la palabra\s+|el t[eé]rmino\s+|las palabras\s+)?["'«]?([^,.;"'»]+)`),
		regexp.MustCompile(`(?i)(?:don'?t use|do not use|don'?t mention|do not mention|don'?t include|do not include|never use|without using|without mentioning|no mention of|forbidden to use)\s+(?:the word\s+|the term\s+|the words\s+)?["'«]?([^,.;"'»]+)`),
		regexp.MustCompile(`(?i)(?:evita|evitar|avoid)\s+(?:usar\s+|mencionar\s+|incluir\s+|using\s+|mentioning\s+|including\s+)?(?:la palabra\s+|the word\s+)?["'«]?([^,.;"'»]+)`),
	}

	mustKeepPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:mant[eé]n|mantener|manteniendo|conserva|conservando|debe incluir|tiene que incluir|incluye siempre|no cambies|no modifiques)\s+(?:la palabra\s+|la frase\s+|el t[eé]rmino\s+)?["'«]?([^,.;"'»]+)`),
		regexp.MustCompile(`(?i)(?:keep|keeping|preserve|preserving|must include|has to include|always include|don'?t change|do not change|don'?t modify|do not modify)\s+(?:the word\s+|the phrase\s+|the term\s+)?["'«]?([^,.;"'»]+)`),
		regexp.MustCompile(`(?i)(?:menciona|mencionando|mention|mentioning)\s+(?:siempre\s+|always\s+)?["'«]([^"'»]+)["'»]`),
	}

	editablePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:puedes cambiar|puedes modificar|cambia solo|modifica solo|solo cambia)\s+["'«]?([^,.;"'»]+)`),
		regexp.MustCompile(`(?i)(?:you can change|you may change|you can modify|only change|change only|feel free to change)\s+["'«]?([^,.;"'»]+)`),
	}

	maxLengthRe = regexp.MustCompile(`(?i)(?:m[aá]ximo|como m[aá]ximo|no m[aá]s de|at most|no more than|maximum(?: of)?|up to)\s+(\d{1,5})\s+(?:palabras|words)`)
	minLengthRe = regexp.MustCompile(`(?i)(?:m[ií]nimo|como m[ií]nimo|al menos|por lo menos|at least|no less than|minimum(?: of)?)\s+(\d{1,5})\s+(?:palabras|words)`)
)

// toneCategories iterate in fixed order; the first category with a
// keyword hit wins.
var toneCategories = []struct {
	Tone     string
	Keywords []string
}{
	{store.ToneFormal, []string{"formal", "formalmente", "solemne"}},
	{store.ToneCasual, []string{"casual", "informal", "relajado", "coloquial", "laid-back"}},
	{store.ToneProfessional, []string{"profesional", "professional", "corporativo", "corporate"}},
	{store.ToneFriendly, []string{"amigable", "friendly", "cercano", "cálido", "warm", "amistoso"}},
	{store.TonePersuasive, []string{"persuasivo", "persuasive", "convincente", "convincing", "vendedor"}},
	{store.ToneAcademic, []string{"académico", "academico", "academic", "científico", "scholarly"}},
}

// formatMarkers iterate in fixed order; the first regex to match wins.
var formatMarkers = []struct {
	Format  string
	Pattern *regexp.Regexp
}{
	{store.FormatJSON, regexp.MustCompile(`(?i)\b(?:en\s+)?json\b`)},
	{store.FormatMarkdown, regexp.MustCompile(`(?i)\bmarkdown\b|\ben md\b`)},
	{store.FormatList, regexp.MustCompile(`(?i)\b(?:en\s+)?(?:lista|listado|list|bullet ?points?|viñetas)\b`)},
	{store.FormatTable, regexp.MustCompile(`(?i)\b(?:en\s+)?(?:tabla|table)\b`)},
	{store.FormatStructured, regexp.MustCompile(`(?i)\b(?:estructurado|structured|con secciones|with sections)\b`)},
}

// Extract builds the current turn's constraints from scratch. Previous-turn
// memory is applied separately via MergeWithPrevious.
func (e *Extractor) Extract(input *store.NormalizedInput, classification *store.IntentClassification) store.Constraints {
	text := input.CleanedText
	lower := strings.ToLower(text)

	c := store.Constraints{
		Domain:        input.Entities.Domain,
		Task:          taskFor(input, classification),
		N:             input.Entities.Quantity,
		MustKeep:      scanSpans(text, mustKeepPatterns),
		MustNotUse:    unionLower(scanSpans(text, mustNotUsePatterns), input.Entities.Prohibitions),
		EditableParts: scanSpans(text, editablePatterns),
		Tone:          detectTone(lower),
		Language:      input.Language,
		Format:        detectFormat(lower, classification.Intent),
	}

	if m := maxLengthRe.FindStringSubmatch(text); m != nil {
		c.MaxLength = atoiSafe(m[1])
	}
	if m := minLengthRe.FindStringSubmatch(text); m != nil {
		c.MinLength = atoiSafe(m[1])
	}

	return c
}

// MergeWithPrevious folds prior-turn memory into the current turn.
// Previous wins only where current still holds a default; prohibitions
// are the exception and always union (sticky safety constraints).
func (e *Extractor) MergeWithPrevious(current, previous store.Constraints) store.Constraints {
	merged := current.Clone()

	if merged.Domain == store.DomainGeneral && previous.Domain != store.DomainGeneral {
		merged.Domain = previous.Domain
	}
	merged.MustNotUse = unionLower(merged.MustNotUse, previous.MustNotUse)
	if len(merged.MustKeep) == 0 {
		merged.MustKeep = append([]string{}, previous.MustKeep...)
	}
	if merged.Tone == store.ToneNeutral && previous.Tone != "" {
		merged.Tone = previous.Tone
	}

	return merged
}

func taskFor(input *store.NormalizedInput, classification *store.IntentClassification) string {
	if input.Entities.Topic != "" {
		return input.Entities.Topic
	}
	return strings.ToLower(classification.Intent)
}

func detectTone(lowerText string) string {
	for _, cat := range toneCategories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lowerText, kw) {
				return cat.Tone
			}
		}
	}
	return store.ToneNeutral
}

func detectFormat(lowerText, intent string) string {
	for _, marker := range formatMarkers {
		if marker.Pattern.MatchString(lowerText) {
			return marker.Format
		}
	}
	// intent-specific defaults when no explicit marker is present
	switch intent {
	case store.IntentTitleIdeation, store.IntentListIdeas:
		return store.FormatList
	case store.IntentOutline, store.IntentDataAnalysis:
		return store.FormatStructured
	default:
		return store.FormatText
	}
}

func scanSpans(text string, patterns []*regexp.Regexp) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, re := range patterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			span := strings.ToLower(strings.TrimSpace(match[1]))
			if span == "" {
				continue
			}
			if _, dup := seen[span]; dup {
				continue
			}
			seen[span] = struct{}{}
			out = append(out, span)
		}
	}
	return out
}

func unionLower(a, b []string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
