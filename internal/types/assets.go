package types

// Fixed list sizes for BrandAssets.
const (
	HeroHeadlineCount   = 3
	SubheadlineCount    = 3
	BenefitBulletCount  = 5
	ObjectionCount      = 2
	NotForYouIfCount    = 3
	CTAOptionCount      = 3
	SoundsLikeCount     = 3
	NeverLikeCount      = 3
	MaxNeverWords       = 8
	VisualRuleCount     = 6
	MaxVibeTags         = 5
	MaxSecondaryKeyword = 5
)

// BrandAssets is the bundle of ready-to-use marketing copy
type BrandAssets struct {
	OneLiner          string             `json:"oneLiner"`
	HeroHeadlines     []string           `json:"heroHeadlines"`
	Subheadlines      []string           `json:"subheadlines"`
	BenefitBullets    []string           `json:"benefitBullets"`
	ObjectionHandlers []ObjectionHandler `json:"objectionHandlers"`
	Pitch30s          string             `json:"pitch30s"`
	NotForYouIf       []string           `json:"notForYouIf"`
	CTAOptions        []string           `json:"ctaOptions"`
	Positioning       string             `json:"positioning"`
}

// ObjectionHandler pairs a likely objection with its answer
type ObjectionHandler struct {
	Objection string `json:"objection"`
	Answer    string `json:"answer"`
}
