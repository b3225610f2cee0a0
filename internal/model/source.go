package model

// QuestionType classifies the user's question
type QuestionType string

const (
	QuestionPractical   QuestionType = "practical"   // What to do in a given situation
	QuestionTheoretical QuestionType = "theoretical" // Study of concepts and sugyot in depth
	QuestionHistorical  QuestionType = "historical"  // Development of a ruling or figures
)

// Valid reports whether t is one of the three enumerated question types
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionPractical, QuestionTheoretical, QuestionHistorical:
		return true
	}
	return false
}

// Category is the fixed taxonomy a source's book falls into
type Category string

const (
	CategoryTanakh   Category = "Tanakh"
	CategoryTalmud   Category = "Talmud"
	CategoryMidrash  Category = "Midrash"
	CategoryHalakhah Category = "Halakhah"
	CategoryResponsa Category = "Responsa"
	CategoryKabbalah Category = "Kabbalah & Jewish Thought"
	CategoryOther    Category = "Other"
	CategoryPersonal Category = "Personal" // User-uploaded corpus, never repository-addressable
)

// SearchMode selects the relevance threshold the verification step applies
type SearchMode string

const (
	ModePrecise SearchMode = "precise" // Strict topical match, prefer omission
	ModeBroad   SearchMode = "broad"   // Low threshold, prefer inclusion
)

// Language selects the prompt and output language
type Language string

const (
	LangHebrew  Language = "he"
	LangEnglish Language = "en"
)

// Source is a single verified textual citation.
// Quote is either empty (intermediate state, never shown) or an exact
// contiguous substring of the repository text for Ref, with only <b></b>
// emphasis insertion permitted as a transformation.
type Source struct {
	ID          string `json:"id"`             // Stable per-instance identifier
	DisplayName string `json:"display_name"`   // Human-readable citation (e.g. Hebrew ref)
	Quote       string `json:"quote"`          // Verified substring, may contain <b> markup
	Link        string `json:"link,omitempty"` // Resolvable repository URL; empty for corpus sources
	Ref         string `json:"ref,omitempty"`  // Repository reference; empty for corpus sources
	Book        string `json:"book"`           // Owning-book name
	Category    string `json:"category"`       // One of the Category taxonomy values
}

// Candidate is an unverified (reference, display-name, book, category) tuple
// proposed by the generative model before any repository lookup. Ephemeral;
// discarded once converted to a Source or rejected.
type Candidate struct {
	DisplayName string `json:"display_name"`
	Ref         string `json:"ref"`
	Book        string `json:"book"`
	Category    string `json:"category"`
}

// Corpus is a user-supplied raw text blob with a name, chunked transiently
// for the map-reduce search path
type Corpus struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}
