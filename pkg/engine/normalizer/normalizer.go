package normalizer

import (
	"regexp"
	"sort"
	"strings"

	"ai-contentgen-be/pkg/store"
)

// Normalizer turns raw user text into a NormalizedInput. It is a total
// function: it never fails, it degrades to empty fields instead.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	dotsRe       = regexp.MustCompile(`\.{2,}`)
	bangsRe      = regexp.MustCompile(`!{2,}`)
	marksRe      = regexp.MustCompile(`\?{2,}`)
	commasRe     = regexp.MustCompile(`,{2,}`)
	urlRe        = regexp.MustCompile(`https?://\S+`)
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	sentenceRe   = regexp.MustCompile(`[.!?]+`)

	// Ordered quantity patterns: request phrasing, "N titles/ideas", bare
	// leading number. First match with an integer in (0,100] wins.
	quantityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:dame|genera|generame|quiero|necesito|crea|creame|escribe|hazme|give me|generate|i want|i need|create|write)\s+(?:exactamente\s+|exactly\s+)?(\d{1,3})`),
		regexp.MustCompile(`(?i)(\d{1,3})\s+(?:t[ií]tulos?|titles?|ideas?|items?|opciones|options|ejemplos?|examples?|puntos?|points?|secciones|sections?|p[aá]rrafos?|paragraphs?|entradas?|entries|slogans?|eslóganes|nombres?|names?)`),
		regexp.MustCompile(`^\s*(\d{1,3})\b`),
	}

	// Trigger-phrase families capturing the free-text span that follows.
	prohibitionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:no uses|no usar|no utilices|no menciones|sin mencionar|no mencionar)\s+(?:la palabra\s+|el t[eé]rmino\s+)?["'«]?([^,.;"'»]+)`),
		regexp.MustCompile(`(?i)(?:don'?t use|do not use|don'?t mention|do not mention|without using|without mentioning|no mention of)\s+(?:the word\s+|the term\s+)?["'«]?([^,.;"'»]+)`),
		regexp.MustCompile(`(?i)(?:evita|evitar|avoid)\s+(?:usar\s+|mencionar\s+|using\s+|mentioning\s+)?(?:la palabra\s+|the word\s+)?["'«]?([^,.;"'»]+)`),
	}

	fixedPartPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:mant[eé]n|mantener|manteniendo|conserva|conservando|no cambies|no modifiques)\s+["'«]?([^,.;"'»]+)`),
		regexp.MustCompile(`(?i)(?:keep|keeping|preserve|preserving|don'?t change|do not change|don'?t modify|do not modify)\s+["'«]?([^,.;"'»]+)`),
	}

	topicPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:sobre|acerca de|respecto a)\s+["'«]?([^,.;?!"'»]+)`),
		regexp.MustCompile(`(?i)(?:about|regarding|on the topic of)\s+["'«]?([^,.;?!"'»]+)`),
	}
)

// Normalize produces the immutable NormalizedInput for one request
func (n *Normalizer) Normalize(rawText string) *store.NormalizedInput {
	hasEmojis := containsEmoji(rawText)
	cleaned := n.cleanText(rawText)
	lower := strings.ToLower(cleaned)

	input := &store.NormalizedInput{
		OriginalText: rawText,
		CleanedText:  cleaned,
		Language:     DetectLanguage(cleaned),
		Entities: store.InputEntities{
			Topic:        extractTopic(cleaned),
			Domain:       DetectDomain(lower),
			Quantity:     extractQuantity(cleaned),
			Prohibitions: extractSpans(cleaned, prohibitionPatterns),
			FixedParts:   extractSpans(cleaned, fixedPartPatterns),
			Keywords:     extractKeywords(lower),
		},
		Metadata: store.InputMetadata{
			HasEmojis:     hasEmojis,
			HasUrls:       urlRe.MatchString(rawText),
			WordCount:     len(strings.Fields(cleaned)),
			SentenceCount: countSentences(cleaned),
			IsQuestion:    IsQuestion(cleaned),
			UrgencyLevel:  detectUrgency(lower),
		},
	}
	return input
}

// cleanText strips emoji code points and collapses whitespace and
// repeated punctuation runs to single canonical forms
func (n *Normalizer) cleanText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isEmojiRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	text := b.String()
	text = dotsRe.ReplaceAllString(text, ".")
	text = bangsRe.ReplaceAllString(text, "!")
	text = marksRe.ReplaceAllString(text, "?")
	text = commasRe.ReplaceAllString(text, ",")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, symbols
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x1F000 && r <= 0x1F0FF: // mahjong, dominoes, cards
		return true
	case r == 0xFE0F || r == 0x200D: // variation selector, ZWJ
		return true
	case r >= 0x2190 && r <= 0x21FF: // arrows commonly pasted from chats
		return true
	}
	return false
}

func containsEmoji(raw string) bool {
	for _, r := range raw {
		if isEmojiRune(r) && r != 0x200D {
			return true
		}
	}
	return false
}

// DetectLanguage votes Spanish vs English over closed-class words.
// Ties resolve to Spanish. Exported because the quality gate runs the
// exact same vote over generated output.
func DetectLanguage(text string) string {
	words := tokenize(strings.ToLower(text))
	esVotes, enVotes := 0, 0
	for _, w := range words {
		if containsWord(SpanishFunctionWords, w) {
			esVotes++
		}
		if containsWord(EnglishFunctionWords, w) {
			enVotes++
		}
	}
	if enVotes > esVotes {
		return "en"
	}
	return "es"
}

// DetectDomain returns the argmax domain over the keyword table,
// defaulting to general when nothing scores
func DetectDomain(lowerText string) string {
	best := store.DomainGeneral
	bestScore := 0
	for _, domain := range domainOrder {
		score := 0
		for _, kw := range domainKeywords[domain] {
			if strings.Contains(lowerText, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = domain
		}
	}
	return best
}

// IsQuestion applies the interrogative heuristic used by the classifier
// fallback path
func IsQuestion(text string) bool {
	trimmed := strings.TrimSpace(text)
	if strings.Contains(trimmed, "?") || strings.Contains(trimmed, "¿") {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, starter := range questionStarters {
		if strings.HasPrefix(lower, starter+" ") {
			return true
		}
	}
	return false
}

func extractQuantity(text string) int {
	for _, re := range quantityPatterns {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		n := parseSmallInt(match[1])
		if n > 0 && n <= 100 {
			return n
		}
	}
	return 0
}

func parseSmallInt(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// extractSpans runs an ordered regex family and deduplicates captures
// case-insensitively, preserving first-seen order
func extractSpans(text string, patterns []*regexp.Regexp) []string {
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

func extractTopic(text string) string {
	for _, re := range topicPatterns {
		if match := re.FindStringSubmatch(text); match != nil {
			topic := strings.TrimSpace(match[1])
			// trigger phrases for prohibitions can trail the topic span
			for _, cut := range []string{" sin ", " without ", " no ", " don't ", " do not "} {
				if idx := strings.Index(strings.ToLower(topic), cut); idx > 0 {
					topic = strings.TrimSpace(topic[:idx])
				}
			}
			if topic != "" {
				return topic
			}
		}
	}
	return ""
}

// extractKeywords lowercases, strips non-word characters, removes
// stopwords and returns the top 10 words ranked by frequency
func extractKeywords(lowerText string) []string {
	words := tokenize(lowerText)
	counts := make(map[string]int)
	order := []string{}
	for _, w := range words {
		if len([]rune(w)) < 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}
	// frequency desc, first-seen order breaks ties
	rank := make(map[string]int, len(order))
	for i, w := range order {
		rank[w] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return rank[order[i]] < rank[order[j]]
	})
	if len(order) > 10 {
		order = order[:10]
	}
	return order
}

func tokenize(lowerText string) []string {
	stripped := nonWordRe.ReplaceAllString(lowerText, " ")
	return strings.Fields(stripped)
}

func countSentences(text string) int {
	parts := sentenceRe.Split(text, -1)
	count := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}
	return count
}

func detectUrgency(lowerText string) string {
	for _, w := range highUrgencyWords {
		if strings.Contains(lowerText, w) {
			return store.UrgencyHigh
		}
	}
	for _, w := range mediumUrgencyWords {
		if strings.Contains(lowerText, w) {
			return store.UrgencyMedium
		}
	}
	return store.UrgencyLow
}

func containsWord(list []string, word string) bool {
	for _, w := range list {
		if w == word {
			return true
		}
	}
	return false
}
