package quality

import "ai-contentgen-be/pkg/store"

// synonymExpansions maps a term to the equivalent forms the gate also
// searches for. Abbreviations expand to their full phrase and vice versa.
// Keys and values are lowercase.
var synonymExpansions = map[string][]string{
	"seo":                        {"search engine optimization", "posicionamiento web"},
	"search engine optimization": {"seo"},
	"ai":                         {"artificial intelligence"},
	"artificial intelligence":    {"ai"},
	"ia":                         {"inteligencia artificial"},
	"inteligencia artificial":    {"ia"},
	"ml":                         {"machine learning"},
	"machine learning":           {"ml"},
	"roi":                        {"return on investment", "retorno de inversión"},
	"return on investment":       {"roi"},
	"crm":                        {"customer relationship management"},
	"kpi":                        {"key performance indicator"},
	"subsidy":                    {"subsidies", "subvención", "subvencion"},
	"subvención":                 {"subsidy", "subvencion"},
}

// crossDomainBlacklist lists, per declared domain, terms typical of other
// domains. A hit means the output drifted off-topic.
var crossDomainBlacklist = map[string][]string{
	store.DomainMarketing: {
		"diagnosis", "diagnóstico", "lawsuit", "demanda judicial",
		"hypothesis", "hipótesis", "curriculum", "jurisdicción",
	},
	store.DomainAcademic: {
		"engagement rate", "conversion funnel", "discount", "descuento",
		"sale price", "lawsuit", "síntoma",
	},
	store.DomainBusiness: {
		"diagnosis", "diagnóstico", "thesis defense", "defensa de tesis",
		"plot twist", "verso", "stanza",
	},
	store.DomainTechnology: {
		"lawsuit", "demanda judicial", "diagnosis", "diagnóstico",
		"stanza", "verso", "discount code",
	},
	store.DomainLegal: {
		"engagement rate", "conversion funnel", "plot twist",
		"diagnóstico clínico", "clinical trial",
	},
	store.DomainMedical: {
		"conversion funnel", "engagement rate", "plot twist",
		"jurisprudencia", "marketing campaign",
	},
	store.DomainEducation: {
		"lawsuit", "demanda judicial", "conversion funnel",
		"clinical trial", "venture capital",
	},
	store.DomainCreative: {
		"conversion funnel", "kpi dashboard", "jurisprudencia",
		"clinical trial", "balance sheet",
	},
}

// expandTerm returns the term plus its synonym expansions
func expandTerm(term string) []string {
	out := []string{term}
	if syns, ok := synonymExpansions[term]; ok {
		out = append(out, syns...)
	}
	return out
}
