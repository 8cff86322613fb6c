package classifier

import (
	"regexp"
	"sort"

	"ai-contentgen-be/pkg/store"
)

// Rule matches an input against one target intent. Keywords score +2 per
// substring hit, patterns +5 per regex hit; the subtotal is scaled by
// Priority/10.
type Rule struct {
	ID       string
	Intent   string
	Keywords []string
	Patterns []*regexp.Regexp
	Priority int
}

// ruleTable is loaded once at startup and pre-sorted descending by
// priority. Matching logic in classifier.go is generic over the table.
var ruleTable = buildRuleTable()

func buildRuleTable() []Rule {
	rules := []Rule{
		{
			ID:     "title_request",
			Intent: store.IntentTitleIdeation,
			Keywords: []string{
				"título", "titulo", "títulos", "titulos", "title", "titles",
				"headline", "headlines", "nombre para", "name for",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:dame|genera|quiero|give me|generate|suggest)\s+(?:\d+\s+)?(?:t[ií]tulos?|titles?|headlines?)`),
				regexp.MustCompile(`(?i)(?:ideas? de|ideas? for)\s+(?:t[ií]tulos?|titles?|nombres?|names?)`),
			},
			Priority: 10,
		},
		{
			ID:     "outline_request",
			Intent: store.IntentOutline,
			Keywords: []string{
				"outline", "esquema", "estructura", "índice", "indice",
				"tabla de contenido", "table of contents", "secciones",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:crea|genera|haz|create|make|build)\s+(?:un\s+|an?\s+)?(?:outline|esquema|estructura|[ií]ndice)`),
				regexp.MustCompile(`(?i)(?:estructura|structure)\s+(?:de|para|of|for)`),
			},
			Priority: 10,
		},
		{
			ID:     "summarize_request",
			Intent: store.IntentSummarize,
			Keywords: []string{
				"resume", "resumen", "resumir", "summarize", "summary",
				"sintetiza", "síntesis", "tldr",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:resume|resumir|summarize|sum up)\s+(?:este|esta|el|la|this|the)`),
				regexp.MustCompile(`(?i)(?:hazme|dame|give me)\s+(?:un\s+|a\s+)?(?:resumen|summary)`),
			},
			Priority: 9,
		},
		{
			ID:     "analysis_request",
			Intent: store.IntentDataAnalysis,
			Keywords: []string{
				"analiza", "análisis", "analisis", "analyze", "analysis",
				"tendencia", "tendencias", "trends", "estadística", "metrics",
				"métricas",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:analiza|analyze|examine)\s+(?:los|las|estos|estas|the|these)?\s*(?:datos|data|n[uú]meros|numbers|resultados|results)`),
				regexp.MustCompile(`(?i)(?:an[aá]lisis|analysis)\s+(?:de|of)`),
			},
			Priority: 9,
		},
		{
			ID:     "comparison_request",
			Intent: store.IntentComparison,
			Keywords: []string{
				"compara", "comparación", "comparacion", "compare",
				"comparison", "versus", "diferencia entre", "difference between",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:compara|compare)\s+\S+\s+(?:con|y|vs\.?|versus|with|and)`),
				regexp.MustCompile(`(?i)(?:diferencias?|differences?)\s+(?:entre|between)`),
			},
			Priority: 8,
		},
		{
			ID:     "rewrite_request",
			Intent: store.IntentRewrite,
			Keywords: []string{
				"reescribe", "reescribir", "rewrite", "reformula",
				"rephrase", "parafrasea", "paraphrase", "mejora este texto",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:reescribe|rewrite|reformula|rephrase|parafrasea|paraphrase)\s`),
				regexp.MustCompile(`(?i)(?:mejora|improve|polish)\s+(?:este|esta|el|la|this|the|my|mi)\s+(?:texto|párrafo|text|paragraph|draft)`),
			},
			Priority: 8,
		},
		{
			ID:     "expand_request",
			Intent: store.IntentExpand,
			Keywords: []string{
				"expande", "expandir", "expand", "amplía", "amplia",
				"alarga", "desarrolla más", "elaborate", "lengthen",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:expande|expand|ampl[ií]a|alarga|elaborate on|lengthen)\s`),
				regexp.MustCompile(`(?i)(?:hazlo|make it)\s+(?:m[aá]s largo|longer)`),
			},
			Priority: 7,
		},
		{
			ID:     "translate_request",
			Intent: store.IntentTranslate,
			Keywords: []string{
				"traduce", "traducir", "traducción", "translate",
				"translation", "al inglés", "al español", "to english",
				"to spanish",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:traduce|traducir|translate)\s`),
				regexp.MustCompile(`(?i)(?:al|to|into)\s+(?:ingl[eé]s|espa[ñn]ol|english|spanish|franc[eé]s|french)`),
			},
			Priority: 7,
		},
		{
			ID:     "list_request",
			Intent: store.IntentListIdeas,
			Keywords: []string{
				"lista", "listado", "list", "ideas", "opciones", "options",
				"ejemplos", "examples", "enumera", "enumerate",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:dame|genera|quiero|give me|generate)\s+(?:una\s+lista|a\s+list|\d+\s+ideas?|\d+\s+ejemplos?|\d+\s+examples?|\d+\s+opciones|\d+\s+options)`),
				regexp.MustCompile(`(?i)(?:lista|list)\s+(?:de|of)`),
			},
			Priority: 6,
		},
		{
			ID:     "content_request",
			Intent: store.IntentContentGeneration,
			Keywords: []string{
				"escribe", "escribir", "redacta", "redactar", "write",
				"artículo", "articulo", "article", "post", "párrafo",
				"paragraph", "texto sobre", "contenido",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:escribe|redacta|write|draft|compose)\s+(?:un|una|an?|el|la|the)?\s*(?:art[ií]culo|article|post|p[aá]rrafo|paragraph|texto|text|email|correo|descripci[oó]n|description)`),
				regexp.MustCompile(`(?i)(?:genera|generate)\s+(?:contenido|content)`),
			},
			Priority: 6,
		},
		{
			ID:     "explain_request",
			Intent: store.IntentExplain,
			Keywords: []string{
				"explica", "explícame", "explicame", "explain", "qué es",
				"que es", "what is", "cómo funciona", "como funciona",
				"how does",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:expl[ií]ca|explain)(?:me|rme)?\s`),
				regexp.MustCompile(`(?i)(?:qu[eé] es|what is|what are|c[oó]mo funciona|how does)\s`),
			},
			Priority: 5,
		},
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules
}
