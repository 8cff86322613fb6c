package store

// UrgencyLevel describes how pressing the user's request sounds
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// InputEntities holds everything the normalizer could extract from raw text
type InputEntities struct {
	Topic        string   `json:"topic,omitempty"`
	Domain       string   `json:"domain"`
	Quantity     int      `json:"quantity"` // 0 means "not specified"
	Prohibitions []string `json:"prohibitions"`
	FixedParts   []string `json:"fixed_parts"`
	Keywords     []string `json:"keywords"`
}

// InputMetadata holds surface-level signals about the raw text
type InputMetadata struct {
	HasEmojis     bool   `json:"has_emojis"`
	HasUrls       bool   `json:"has_urls"`
	WordCount     int    `json:"word_count"`
	SentenceCount int    `json:"sentence_count"`
	IsQuestion    bool   `json:"is_question"`
	UrgencyLevel  string `json:"urgency_level"`
}

// NormalizedInput is the immutable product of the input normalizer.
// It is produced once per request and never mutated afterwards.
type NormalizedInput struct {
	OriginalText string        `json:"original_text"`
	CleanedText  string        `json:"cleaned_text"`
	Language     string        `json:"language"` // two-letter guess: "es" | "en"
	Entities     InputEntities `json:"entities"`
	Metadata     InputMetadata `json:"metadata"`
}
