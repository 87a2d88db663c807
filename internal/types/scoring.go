package types

// Confidence grades a name inference
type Confidence string

// Confidence levels
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// PlaceholderName is used when no product name can be inferred
const PlaceholderName = "Your Product"

// NameCandidate is one scored naming signal
type NameCandidate struct {
	Name     string   `json:"name"`
	Score    float64  `json:"score"`
	Evidence []string `json:"evidence"`
}

// NameInferenceResult is the outcome of product name inference
type NameInferenceResult struct {
	Name       string          `json:"name"`
	Confidence Confidence      `json:"confidence"`
	Score      float64         `json:"score"`
	Evidence   []string        `json:"evidence"`
	Candidates []NameCandidate `json:"candidates"`
}

// SignalHit records one matched archetype signal
type SignalHit struct {
	Archetype string  `json:"archetype"`
	Pattern   string  `json:"pattern"`
	Weight    float64 `json:"weight"`
	Anti      bool    `json:"anti,omitempty"`
}

// ArchetypeAlternative is a runner-up archetype
type ArchetypeAlternative struct {
	Archetype  string  `json:"archetype"`
	Score      float64 `json:"score"`
	MatchCount int     `json:"matchCount"`
}

// ArchetypeScoreResult is the outcome of archetype classification
type ArchetypeScoreResult struct {
	Archetype    string                 `json:"archetype"`
	Score        float64                `json:"score"`
	Scores       map[string]float64     `json:"scores"`
	Dampener     float64                `json:"dampener"`
	TieBreakUsed bool                   `json:"tieBreakUsed"`
	ChosenHits   []SignalHit            `json:"chosenHits"`
	TopHits      []SignalHit            `json:"topHits"`
	Alternatives []ArchetypeAlternative `json:"alternatives"`
}

// Domain is a coarse product category driving fallback copy
type Domain string

// Domains
const (
	DomainDevtools Domain = "devtools"
	DomainSaaS     Domain = "saas"
	DomainConsumer Domain = "consumer"
	DomainGeneral  Domain = "general"
)
