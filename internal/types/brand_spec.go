package types

// ArchetypeNames lists the twelve brand archetypes in registry order.
var ArchetypeNames = []string{
	"The Innocent", "The Sage", "The Explorer", "The Outlaw",
	"The Magician", "The Hero", "The Lover", "The Jester",
	"The Caregiver", "The Ruler", "The Creator", "The Everyman",
}

// IsArchetype reports whether name is one of the twelve archetypes.
func IsArchetype(name string) bool {
	for _, a := range ArchetypeNames {
		if a == name {
			return true
		}
	}
	return false
}

// Fonts is the closed set of design token fonts.
var Fonts = []string{"Inter", "Outfit", "Cormorant"}

// BrandSpec is the validated output of a compilation
type BrandSpec struct {
	ProductName        string          `json:"productName"`
	Category           string          `json:"category"`
	Audience           string          `json:"audience"`
	Pain               string          `json:"pain"`
	Outcome            string          `json:"outcome"`
	Differentiation    string          `json:"differentiation"`
	Proof              string          `json:"proof"`
	Promise            string          `json:"promise"`
	Voice              Voice           `json:"voice"`
	ArchetypePrimary   string          `json:"archetypePrimary"`
	ArchetypeSecondary string          `json:"archetypeSecondary,omitempty"`
	VisualDirection    VisualDirection `json:"visualDirection"`
	DesignTokens       DesignTokens    `json:"designTokens"`
	SEO                SEO             `json:"seo"`
	SourceNotes        SourceNotes     `json:"sourceNotes"`
}

// Voice describes how the brand sounds
type Voice struct {
	SoundsLike []string `json:"soundsLike"`
	NeverLike  []string `json:"neverLike"`
	NeverWords []string `json:"neverWords"`
}

// VisualDirection holds look-and-feel guidance
type VisualDirection struct {
	VibeTags     []string `json:"vibeTags"`
	UIPrinciples []string `json:"uiPrinciples"`
	Do           []string `json:"do"`
	Avoid        []string `json:"avoid"`
}

// DesignTokens are the concrete visual values derived from a palette
type DesignTokens struct {
	Accent string  `json:"accent"`
	Ink    string  `json:"ink"`
	Base   string  `json:"base"`
	Radius float64 `json:"radius"`
	Font   string  `json:"font"`
}

// SEO holds search metadata
type SEO struct {
	PrimaryKeyword    string   `json:"primaryKeyword"`
	SecondaryKeywords []string `json:"secondaryKeywords"`
	OneSentenceMeta   string   `json:"oneSentenceMeta"`
}

// SourceNotes retains the raw answers for traceability
type SourceNotes struct {
	RawWhat      string `json:"rawWhat"`
	RawWho       string `json:"rawWho"`
	RawMoment    string `json:"rawMoment"`
	RawWhy       string `json:"rawWhy"`
	RawDifferent string `json:"rawDifferent"`
	RawSound     string `json:"rawSound"`
	RawLook      string `json:"rawLook"`
	RawForbidden string `json:"rawForbidden"`
}
