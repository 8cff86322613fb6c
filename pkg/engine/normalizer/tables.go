package normalizer

import "ai-contentgen-be/pkg/store"

// Closed-class function words used for the bag-of-words language vote.
// The same lists are reused by the quality gate for output language checks.
var SpanishFunctionWords = []string{
	"de", "la", "el", "en", "y", "que", "los", "las", "un", "una",
	"es", "por", "con", "para", "del", "se", "su", "al", "como", "pero",
	"sus", "le", "ya", "o", "este", "porque", "esta", "entre", "cuando",
	"muy", "sin", "sobre", "también", "me", "hasta", "hay", "donde",
	"desde", "todo", "nos", "durante", "todos", "uno", "les", "ni",
	"contra", "otros", "ese", "eso", "ante", "ellos", "e", "esto", "mí",
	"antes", "algunos", "qué", "unos", "yo", "otro", "otras", "otra",
}

var EnglishFunctionWords = []string{
	"the", "of", "and", "a", "to", "in", "is", "you", "that", "it",
	"he", "was", "for", "on", "are", "as", "with", "his", "they", "i",
	"at", "be", "this", "have", "from", "or", "one", "had", "by", "but",
	"not", "what", "all", "were", "we", "when", "your", "can", "said",
	"there", "use", "an", "each", "which", "she", "do", "how", "their",
	"if", "will", "up", "about", "out", "many", "then", "them", "these",
	"so", "some", "her", "would", "make", "like", "him", "into", "time",
}

// domainKeywords scores raw text against each closed domain.
// Walked in domainOrder so ties resolve deterministically.
var domainKeywords = map[string][]string{
	store.DomainMarketing: {
		"marketing", "campaign", "campaña", "brand", "marca", "seo",
		"advertising", "publicidad", "audience", "audiencia", "engagement",
		"conversion", "conversión", "social media", "redes sociales",
		"slogan", "eslogan", "newsletter", "landing",
	},
	store.DomainAcademic: {
		"research", "investigación", "thesis", "tesis", "study", "estudio",
		"paper", "hypothesis", "hipótesis", "essay", "ensayo", "abstract",
		"methodology", "metodología", "citation", "cita", "bibliography",
		"bibliografía", "academic", "académico",
	},
	store.DomainBusiness: {
		"business", "negocio", "revenue", "ingresos", "strategy",
		"estrategia", "startup", "empresa", "client", "cliente", "profit",
		"ganancia", "market", "mercado", "sales", "ventas", "budget",
		"presupuesto", "inversión", "investment",
	},
	store.DomainTechnology: {
		"software", "code", "código", "api", "data", "datos", "app",
		"aplicación", "technology", "tecnología", "system", "sistema",
		"digital", "cloud", "nube", "artificial intelligence",
		"inteligencia artificial", "algorithm", "algoritmo", "database",
		"renewable energy", "energía renovable", "solar", "hardware",
	},
	store.DomainLegal: {
		"contract", "contrato", "law", "ley", "clause", "cláusula",
		"legal", "lawsuit", "demanda", "compliance", "regulation",
		"regulación", "attorney", "abogado", "court", "tribunal",
		"jurisdiction", "jurisdicción",
	},
	store.DomainMedical: {
		"patient", "paciente", "treatment", "tratamiento", "diagnosis",
		"diagnóstico", "health", "salud", "medical", "médico", "symptom",
		"síntoma", "disease", "enfermedad", "clinical", "clínico",
		"medication", "medicamento", "therapy", "terapia",
	},
	store.DomainEducation: {
		"lesson", "lección", "course", "curso", "student", "estudiante",
		"class", "clase", "learning", "aprendizaje", "teacher", "profesor",
		"curriculum", "currículo", "exam", "examen", "homework", "tarea",
		"teaching", "enseñanza",
	},
	store.DomainCreative: {
		"story", "historia", "poem", "poema", "novel", "novela", "cuento",
		"character", "personaje", "plot", "trama", "fiction", "ficción",
		"creative", "creativo", "script", "guion", "song", "canción",
		"lyrics", "letra",
	},
}

// domainOrder fixes iteration order for the argmax; general never scores
var domainOrder = []string{
	store.DomainMarketing,
	store.DomainAcademic,
	store.DomainBusiness,
	store.DomainTechnology,
	store.DomainLegal,
	store.DomainMedical,
	store.DomainEducation,
	store.DomainCreative,
}

// stopwords removed before keyword frequency ranking
var stopwords = buildStopwordSet()

func buildStopwordSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range SpanishFunctionWords {
		set[w] = struct{}{}
	}
	for _, w := range EnglishFunctionWords {
		set[w] = struct{}{}
	}
	// request verbs and fillers that carry no topical signal
	for _, w := range []string{
		"dame", "quiero", "necesito", "genera", "genérame", "crea",
		"escribe", "hazme", "give", "want", "need", "generate", "create",
		"write", "please", "favor", "exactly", "exactamente", "más",
		"menos", "only", "solo", "sólo",
	} {
		set[w] = struct{}{}
	}
	return set
}

// urgency trigger words
var highUrgencyWords = []string{
	"urgent", "urgente", "asap", "immediately", "inmediatamente",
	"right now", "ahora mismo", "ya mismo", "emergency", "emergencia",
}

var mediumUrgencyWords = []string{
	"soon", "pronto", "quickly", "rápido", "rapido", "fast", "hoy",
	"today", "cuanto antes",
}

// interrogative openers used for the isQuestion heuristic
var questionStarters = []string{
	"qué", "que", "cómo", "como", "cuál", "cual", "cuáles", "cuándo",
	"cuando", "dónde", "donde", "quién", "quien", "por qué", "para qué",
	"cuánto", "cuanto", "what", "how", "which", "when", "where", "who",
	"why", "can", "could", "should", "would", "is", "are", "do", "does",
}
