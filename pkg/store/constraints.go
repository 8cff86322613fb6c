package store

// Domain constants - closed categories used for topic-drift detection
const (
	DomainMarketing  = "marketing"
	DomainAcademic   = "academic"
	DomainBusiness   = "business"
	DomainTechnology = "technology"
	DomainLegal      = "legal"
	DomainMedical    = "medical"
	DomainEducation  = "education"
	DomainCreative   = "creative"
	DomainGeneral    = "general"
)

// Tone constants
const (
	ToneFormal       = "formal"
	ToneCasual       = "casual"
	ToneProfessional = "professional"
	ToneFriendly     = "friendly"
	TonePersuasive   = "persuasive"
	ToneAcademic     = "academic"
	ToneNeutral      = "neutral"
)

// Output format constants
const (
	FormatText       = "text"
	FormatJSON       = "json"
	FormatMarkdown   = "markdown"
	FormatList       = "list"
	FormatTable      = "table"
	FormatStructured = "structured"
)

// Constraints is the structural contract generated content must satisfy.
// It accumulates across a session via MergeWithPrevious.
type Constraints struct {
	Domain        string   `json:"domain"`
	Task          string   `json:"task"`
	N             int      `json:"n"` // exact required item count, 0 = not required
	MustKeep      []string `json:"must_keep"`
	MustNotUse    []string `json:"must_not_use"`
	EditableParts []string `json:"editable_parts"`
	Tone          string   `json:"tone"`
	Language      string   `json:"language"`
	Format        string   `json:"format"`
	MaxLength     int      `json:"max_length"` // word count, 0 = unbounded
	MinLength     int      `json:"min_length"`
}

// DefaultConstraints returns the neutral constraints a fresh session starts with
func DefaultConstraints() Constraints {
	return Constraints{
		Domain:        DomainGeneral,
		MustKeep:      []string{},
		MustNotUse:    []string{},
		EditableParts: []string{},
		Tone:          ToneNeutral,
		Language:      "es",
		Format:        FormatText,
	}
}

// Clone returns a deep copy so session memory never aliases request state
func (c Constraints) Clone() Constraints {
	out := c
	out.MustKeep = append([]string{}, c.MustKeep...)
	out.MustNotUse = append([]string{}, c.MustNotUse...)
	out.EditableParts = append([]string{}, c.EditableParts...)
	return out
}
